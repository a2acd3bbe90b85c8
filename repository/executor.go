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

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomoncle/anvil/database"
	"github.com/tomoncle/anvil/dialect"
	"github.com/tomoncle/anvil/mapper"
	"github.com/tomoncle/anvil/sqlgen"
	"github.com/tomoncle/anvil/types"
	"github.com/tomoncle/anvil/utils"
)

// Conn is the part of *sql.DB, *sql.Conn and *sql.Tx the executor needs.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// TxBeginner is a Conn able to start a transaction, like *sql.DB and
// *sql.Conn.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Executor runs generated statements on a caller supplied connection. Its
// dialect and mapper are fixed at construction; build another executor for
// another backend.
type Executor struct {
	generator  *sqlgen.Generator
	logger     database.Logger
	hooks      []database.StatementHook
	sequential bool
}

type Option func(*Executor)

func WithLogger(logger database.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithHooks(hooks ...database.StatementHook) Option {
	return func(e *Executor) { e.hooks = append(e.hooks, hooks...) }
}

// WithSequentialBatches makes GetMultiple issue one statement per entry
// even when the dialect supports multi-statement batches.
func WithSequentialBatches(sequential bool) Option {
	return func(e *Executor) { e.sequential = sequential }
}

// NewExecutor fails with a configuration error when d or m is nil.
func NewExecutor(d dialect.Dialect, m mapper.Mapper, opts ...Option) (*Executor, error) {
	if d == nil {
		return nil, types.NewError(types.KindConfiguration, "configure", "", "", fmt.Errorf("dialect is nil"))
	}
	if m == nil {
		return nil, types.NewError(types.KindConfiguration, "configure", "", "", fmt.Errorf("mapper is nil"))
	}
	e := &Executor{
		generator: sqlgen.New(d, m),
		logger:    database.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Executor) Generator() *sqlgen.Generator { return e.generator }

func (e *Executor) Dialect() dialect.Dialect { return e.generator.Dialect() }

// batches reports whether GetMultiple sends a single multi-statement request.
func (e *Executor) batches() bool {
	return !e.sequential && e.Dialect().SupportsMultipleStatements()
}

func (e *Executor) before(ctx context.Context, op, entity string, st sqlgen.Statement) (context.Context, *database.QueryEvent) {
	event := &database.QueryEvent{
		Operation: op,
		Entity:    entity,
		Query:     st.SQL,
		Args:      st.Args(),
		StartTime: time.Now(),
	}
	for _, h := range e.hooks {
		ctx = h.BeforeStatement(ctx, event)
	}
	return ctx, event
}

func (e *Executor) after(ctx context.Context, event *database.QueryEvent, err error) {
	event.Err = err
	e.logger.Debug("statement", "op", event.Operation, "entity", event.Entity,
		"sql", event.Query, "args", len(event.Args), "elapsed", utils.Elapsed(event.StartTime))
	for _, h := range e.hooks {
		h.AfterStatement(ctx, event)
	}
}

func (e *Executor) exec(ctx context.Context, conn Conn, op, entity, detail string, st sqlgen.Statement) (sql.Result, error) {
	ctx, event := e.before(ctx, op, entity, st)
	res, err := conn.ExecContext(ctx, st.SQL, event.Args...)
	e.after(ctx, event, err)
	if err != nil {
		return nil, e.backend(op, entity, detail, err)
	}
	return res, nil
}

func (e *Executor) query(ctx context.Context, conn Conn, op, entity, detail string, st sqlgen.Statement) (*sql.Rows, error) {
	ctx, event := e.before(ctx, op, entity, st)
	rows, err := conn.QueryContext(ctx, st.SQL, event.Args...)
	e.after(ctx, event, err)
	if err != nil {
		return nil, e.backend(op, entity, detail, err)
	}
	return rows, nil
}

// backend wraps a driver error, keeping it in the chain unmodified.
func (e *Executor) backend(op, entity, detail string, err error) error {
	wrapped := types.NewError(types.KindBackend, op, entity, detail, err)
	if wrapped.Kind == types.KindCanceled {
		e.logger.Info("statement canceled", "op", op, "entity", entity, "error", err)
		return wrapped
	}
	if ok, kind := database.IsSqlError(err); ok {
		e.logger.Warn("statement failed", "op", op, "entity", entity, "kind", kind, "error", err)
	} else {
		e.logger.Warn("statement failed", "op", op, "entity", entity, "error", err)
	}
	return wrapped
}

// inTx runs fn on conn when it already is a transaction, or inside a new
// transaction begun on conn.
func (e *Executor) inTx(ctx context.Context, conn Conn, op, entity string, fn func(Conn) error) error {
	switch c := conn.(type) {
	case *sql.Tx:
		return fn(c)
	case TxBeginner:
		return RunInTx(ctx, c, func(tx *sql.Tx) error { return fn(tx) })
	}
	return types.NewError(types.KindConfiguration, op, entity, "",
		fmt.Errorf("%T cannot begin a transaction for a multi-statement operation", conn))
}
