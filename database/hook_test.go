/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func newTestHook(enabled, verbose bool) (*QueryHook, *bytes.Buffer) {
	var buf bytes.Buffer
	h := NewQueryHook(enabled, verbose)
	h.EnvName = ""
	h.Writer = &buf
	return h, &buf
}

func TestQueryEventVerb(t *testing.T) {
	assert.Equal(t, "SELECT", (&QueryEvent{Query: "  select * from t"}).Verb())
	assert.Equal(t, "INSERT", (&QueryEvent{Query: "INSERT\nINTO t"}).Verb())
	assert.Equal(t, "COMMIT", (&QueryEvent{Query: "commit"}).Verb())
}

func TestQueryHookVerbose(t *testing.T) {
	h, buf := newTestHook(true, true)
	event := &QueryEvent{Query: `SELECT "person"."id" FROM "person"`, StartTime: time.Now()}
	ctx := h.BeforeStatement(context.Background(), event)
	h.AfterStatement(ctx, event)
	assert.Contains(t, buf.String(), "[ANVIL]")
	assert.Contains(t, buf.String(), `SELECT "person"."id" FROM "person"`)
}

func TestQueryHookPrintsOnlyFailures(t *testing.T) {
	h, buf := newTestHook(true, false)
	h.AfterStatement(context.Background(), &QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	assert.Empty(t, buf.String())

	h.AfterStatement(context.Background(), &QueryEvent{Query: "SELECT 1", StartTime: time.Now(), Err: errors.New("boom")})
	assert.Contains(t, buf.String(), "*errors.errorString: boom")
}

func TestQueryHookEnvironment(t *testing.T) {
	h, buf := newTestHook(false, false)
	h.EnvName = "ANVIL_TEST_DEBUG"
	t.Setenv("ANVIL_TEST_DEBUG", "2")
	h.AfterStatement(context.Background(), &QueryEvent{Query: "DELETE FROM t", StartTime: time.Now()})
	assert.Contains(t, buf.String(), "DELETE FROM t")

	buf.Reset()
	t.Setenv("ANVIL_TEST_DEBUG", "0")
	h.Enabled = true
	h.AfterStatement(context.Background(), &QueryEvent{Query: "DELETE FROM t", StartTime: time.Now(), Err: errors.New("x")})
	assert.Empty(t, buf.String())
}

type capturingLogger struct {
	NopLogger
	warnings []string
}

func (l *capturingLogger) Warn(msg string, _ ...interface{}) { l.warnings = append(l.warnings, msg) }

func TestSlowQueryHook(t *testing.T) {
	logger := &capturingLogger{}
	h := NewSlowQueryHook(time.Millisecond, logger)

	h.AfterStatement(context.Background(), &QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	assert.Empty(t, logger.warnings)

	h.AfterStatement(context.Background(), &QueryEvent{Query: "SELECT 1", StartTime: time.Now().Add(-time.Second), Err: errors.New("x")})
	assert.Empty(t, logger.warnings, "failed statements are not reported as slow")

	h.AfterStatement(context.Background(), &QueryEvent{Query: "SELECT 1", StartTime: time.Now().Add(-time.Second)})
	assert.Len(t, logger.warnings, 1)
}
