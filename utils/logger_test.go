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

package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.ErrorLevel, ParseLogLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("verbose"))
}

func TestRegistry(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	l := NewLogger("REGISTRY")
	assert.Same(t, l, NewLogger("REGISTRY"))

	assert.True(t, SetLoggerLevel("REGISTRY", "error"))
	assert.False(t, SetLoggerLevel("UNKNOWN", "error"))
	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLog4jFormatter(t *testing.T) {
	color.NoColor = true
	f := &Log4jColorFormatter{LoggerName: "ANVIL", NameWidth: 10}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "statement failed",
		Data:    logrus.Fields{"op": "Count", "entity": "Person"},
	}
	out, err := f.Format(entry)
	require.NoError(t, err)
	line := string(out)
	assert.True(t, strings.HasPrefix(line, "2025-01-02 03:04:05.000 WARNING"), line)
	assert.Contains(t, line, "     ANVIL")
	assert.True(t, strings.HasSuffix(line, ": statement failed entity=Person op=Count\n"), line)
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "ANVIL"}
	out, err := f.Format(&logrus.Entry{
		Level:   logrus.ErrorLevel,
		Message: "boom",
		Data:    logrus.Fields{"error": assert.AnError},
	})
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(out, &rec))
	assert.Equal(t, "error", rec["level"])
	assert.Equal(t, "ANVIL", rec["model"])
	assert.Equal(t, map[string]any{"error": assert.AnError.Error()}, rec["fields"])
}

func TestLimitRunes(t *testing.T) {
	assert.Equal(t, "abc", limitRunes("abc", 5))
	assert.Equal(t, "cdef", limitRunes("abcdef", 4))
	assert.Equal(t, "abc", limitRunes("abc", 0))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("ANVIL_TEST_STRING", "  value ")
	t.Setenv("ANVIL_TEST_BOOL", "on")
	t.Setenv("ANVIL_TEST_BAD_BOOL", "maybe")
	assert.Equal(t, "value", EnvDefaultString("ANVIL_TEST_STRING", "x"))
	assert.Equal(t, "x", EnvDefaultString("ANVIL_TEST_UNSET", "x"))
	assert.True(t, EnvDefaultBool("ANVIL_TEST_BOOL", false))
	assert.True(t, EnvDefaultBool("ANVIL_TEST_BAD_BOOL", true))
	assert.False(t, EnvDefaultBool("ANVIL_TEST_UNSET", false))
}
