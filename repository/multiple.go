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

	"github.com/tomoncle/anvil/predicate"
	"github.com/tomoncle/anvil/sqlgen"
	"github.com/tomoncle/anvil/types"
)

// MultipleReader hands out the result sets of a GetMultiple batch, one per
// Read call, in the order the entries were declared.
type MultipleReader struct {
	ex      *Executor
	conn    Conn
	batch   string
	queries []sqlgen.Query

	// sequential mode
	statements []sqlgen.Statement

	// batched mode
	rows *sql.Rows

	next int
}

// GetMultiple prepares every entry of m. With a dialect that supports
// multi-statement batches the whole batch is sent now as one request;
// otherwise each Read issues its own statement on conn.
func GetMultiple(ctx context.Context, ex *Executor, conn Conn, m *predicate.Multiple) (*MultipleReader, error) {
	const op = "GetMultiple"
	if ex == nil || conn == nil {
		return nil, types.NewError(types.KindConfiguration, op, "", "", fmt.Errorf("executor and connection are required"))
	}
	if m == nil {
		m = predicate.NewMultiple()
	}
	queries, err := ex.generator.Resolve(m)
	if err != nil {
		return nil, err
	}
	r := &MultipleReader{ex: ex, conn: conn, batch: m.String(), queries: queries}
	if len(queries) == 0 {
		return r, nil
	}

	if !ex.batches() {
		if r.statements, err = ex.generator.Statements(queries); err != nil {
			return nil, err
		}
		return r, nil
	}
	st, err := ex.generator.Batch(queries)
	if err != nil {
		return nil, err
	}
	if r.rows, err = ex.query(ctx, conn, op, "", r.batch, st); err != nil {
		return nil, err
	}
	return r, nil
}

// Remaining is the number of result sets not read yet.
func (r *MultipleReader) Remaining() int { return len(r.queries) - r.next }

// Close releases the batch result. It is safe to call more than once.
func (r *MultipleReader) Close() error {
	r.next = len(r.queries)
	if r.rows == nil {
		return nil
	}
	err := r.rows.Close()
	r.rows = nil
	return err
}

// Read returns the next result set of the batch. T must be the entity type
// of that entry.
func Read[T any](ctx context.Context, r *MultipleReader) ([]*T, error) {
	const op = "Read"
	entity := predicate.EntityOf[T]()
	if r.next >= len(r.queries) {
		return nil, types.NewError(types.KindValidation, op, entity.String(), r.batch,
			fmt.Errorf("all %d result sets were read", len(r.queries)))
	}
	q := r.queries[r.next]
	d := q.Descriptor
	if d.Type != entity {
		return nil, types.NewError(types.KindValidation, op, entity.String(), r.batch,
			fmt.Errorf("result set %d holds %s", r.next, d.Name()))
	}
	index := r.next
	r.next++

	if r.rows == nil {
		rows, err := r.ex.query(ctx, r.conn, op, d.Name(), describe(q.Predicate), r.statements[index])
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		items, err := scanRows[T](d, rows)
		if err != nil {
			return nil, r.ex.backend(op, d.Name(), describe(q.Predicate), err)
		}
		return items, nil
	}

	if err := ctx.Err(); err != nil {
		_ = r.Close()
		return nil, types.NewError(types.KindCanceled, op, d.Name(), r.batch, err)
	}
	if index > 0 && !r.rows.NextResultSet() {
		err := r.rows.Err()
		if err == nil {
			err = fmt.Errorf("batch returned %d result sets, expected %d", index, len(r.queries))
		}
		_ = r.Close()
		return nil, r.ex.backend(op, d.Name(), r.batch, err)
	}
	items, err := scanRows[T](d, r.rows)
	if err != nil {
		_ = r.Close()
		return nil, r.ex.backend(op, d.Name(), describe(q.Predicate), err)
	}
	if r.next == len(r.queries) {
		if err := r.Close(); err != nil {
			return nil, r.ex.backend(op, d.Name(), r.batch, err)
		}
	}
	return items, nil
}
