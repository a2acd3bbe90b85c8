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

package sqlgen

import (
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/tomoncle/anvil/mapper"
	"github.com/tomoncle/anvil/predicate"
	"github.com/tomoncle/anvil/types"
)

// Query is one resolved entry of a multi-entity batch.
type Query struct {
	Descriptor *mapper.Descriptor
	Predicate  predicate.Predicate
	Sort       []predicate.Sort
}

// Resolve maps every batch entry to its descriptor and predicate, keeping
// entry order.
func (g *Generator) Resolve(m *predicate.Multiple) ([]Query, error) {
	if m == nil {
		return nil, nil
	}
	entries := m.Entries()
	queries := make([]Query, 0, len(entries))
	var errs *multierror.Error
	for _, e := range entries {
		d, err := g.Descriptor(e.Entity)
		if err != nil {
			return nil, err
		}
		p, err := predicate.FromObject(d.Type, e.Filter)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		queries = append(queries, Query{Descriptor: d, Predicate: p, Sort: e.Sort})
	}
	if errs != nil {
		return nil, types.NewError(types.KindValidation, "batch", "", m.String(), errs)
	}
	return queries, nil
}

// Batch renders all queries into one multi-statement request sharing a
// single parameter list.
func (g *Generator) Batch(queries []Query) (Statement, error) {
	params := NewParameters(g.dialect)
	parts := make([]string, 0, len(queries))
	for _, q := range queries {
		sql, err := g.query("batch", q.Descriptor, q.Predicate, q.Sort, params)
		if err != nil {
			return Statement{}, err
		}
		parts = append(parts, sql)
	}
	return newStatement(strings.Join(parts, g.dialect.BatchSeparator()+"\n"), params), nil
}

// Statements renders each query on its own, for dialects without batches.
func (g *Generator) Statements(queries []Query) ([]Statement, error) {
	statements := make([]Statement, 0, len(queries))
	for _, q := range queries {
		s, err := g.Select(q.Descriptor, q.Predicate, q.Sort)
		if err != nil {
			return nil, err
		}
		statements = append(statements, s)
	}
	return statements, nil
}
