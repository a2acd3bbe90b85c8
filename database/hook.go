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
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

// QueryEvent describes one statement issued by the executor.
type QueryEvent struct {
	Operation string
	Entity    string
	Query     string
	Args      []any
	StartTime time.Time
	Err       error
}

// Verb returns the leading SQL keyword of the statement.
func (e *QueryEvent) Verb() string {
	q := strings.TrimSpace(e.Query)
	if i := strings.IndexAny(q, " \n\t"); i > 0 {
		q = q[:i]
	}
	return strings.ToUpper(q)
}

// StatementHook observes statements issued by the executor. It mirrors
// bun.QueryHook for statements that do not go through bun.
type StatementHook interface {
	BeforeStatement(ctx context.Context, event *QueryEvent) context.Context
	AfterStatement(ctx context.Context, event *QueryEvent)
}

var (
	greenText   = color.New(color.FgGreen).SprintFunc()
	blueText    = color.New(color.FgBlue).SprintFunc()
	yellowText  = color.New(color.FgYellow).SprintFunc()
	magentaText = color.New(color.FgMagenta).SprintFunc()
	redText     = color.New(color.FgRed).SprintFunc()
	cyanText    = color.New(color.FgCyan).SprintFunc()
	errorBadge  = color.New(color.BgRed, color.FgHiWhite).SprintfFunc()
	slowBadge   = color.New(color.BgYellow, color.FgHiWhite).SprintFunc()
)

func colorize(verb, query string) string {
	switch verb {
	case "SELECT":
		return greenText(query)
	case "INSERT":
		return blueText(query)
	case "UPDATE":
		return yellowText(query)
	case "DELETE":
		return magentaText(query)
	default:
		return redText(query)
	}
}

// QueryHook prints statements to writer. EnvName, when set in the
// environment, overrides enabled ("0" or empty disables) and verbose ("2"
// prints successful statements too, otherwise only failures are printed).
type QueryHook struct {
	EnvName string
	Enabled bool
	Verbose bool
	Writer  io.Writer
}

var (
	_ bun.QueryHook = (*QueryHook)(nil)
	_ StatementHook = (*QueryHook)(nil)
)

func NewQueryHook(enabled, verbose bool) *QueryHook {
	return &QueryHook{EnvName: "ANVIL_DEBUG", Enabled: enabled, Verbose: verbose, Writer: os.Stdout}
}

func (h *QueryHook) active(err error) bool {
	enabled, verbose := h.Enabled, h.Verbose
	if h.EnvName != "" {
		if env, ok := os.LookupEnv(h.EnvName); ok {
			enabled = env != "" && env != "0"
			verbose = env == "2"
		}
	}
	if !enabled {
		return false
	}
	if verbose {
		return true
	}
	return err != nil && !errors.Is(err, sql.ErrNoRows) && !errors.Is(err, sql.ErrTxDone)
}

func (h *QueryHook) print(tag, verb, query string, start time.Time, err error) {
	now := time.Now()
	args := []interface{}{
		now.Format("2006-01-02 15:04:05.000"),
		cyanText(fmt.Sprintf("%12s", tag)),
		fmt.Sprintf("%17s", now.Sub(start).Round(time.Microsecond)),
		" ", colorize(verb, query),
	}
	if err != nil {
		typ := reflect.TypeOf(err).String()
		args = append(args, "\t", errorBadge(" %s: %s ", typ, err.Error()))
	}
	_, _ = fmt.Fprintln(h.Writer, args...)
}

func (h *QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	if h.active(event.Err) {
		h.print("[BUN]", event.Operation(), event.Query, event.StartTime, event.Err)
	}
}

func (h *QueryHook) BeforeStatement(ctx context.Context, _ *QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterStatement(_ context.Context, event *QueryEvent) {
	if h.active(event.Err) {
		h.print("[ANVIL]", event.Verb(), event.Query, event.StartTime, event.Err)
	}
}

// SlowQueryHook reports successful statements slower than Threshold
// through Logger.
type SlowQueryHook struct {
	Threshold time.Duration
	Logger    Logger
}

var (
	_ bun.QueryHook = (*SlowQueryHook)(nil)
	_ StatementHook = (*SlowQueryHook)(nil)
)

func NewSlowQueryHook(threshold time.Duration, logger Logger) *SlowQueryHook {
	return &SlowQueryHook{Threshold: threshold, Logger: logger}
}

func (h *SlowQueryHook) report(query string, start time.Time, err error) {
	if err != nil || h.Threshold <= 0 {
		return
	}
	if elapsed := time.Since(start); elapsed > h.Threshold {
		h.Logger.Warn(slowBadge(" SLOW "), "elapsed", elapsed.Round(time.Microsecond), "sql", query)
	}
}

func (h *SlowQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *SlowQueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	h.report(event.Query, event.StartTime, event.Err)
}

func (h *SlowQueryHook) BeforeStatement(ctx context.Context, _ *QueryEvent) context.Context {
	return ctx
}

func (h *SlowQueryHook) AfterStatement(_ context.Context, event *QueryEvent) {
	h.report(event.Query, event.StartTime, event.Err)
}
