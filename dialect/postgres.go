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

package dialect

import (
	"strconv"

	"github.com/lib/pq"
)

type Postgres struct {
	BaseDialect
}

func NewPostgres() *Postgres { return &Postgres{} }

func (*Postgres) Name() string { return "postgres" }

func (*Postgres) Quote(identifier string) string { return quote(identifier, '"', '"') }

func (*Postgres) Placeholder(_ string, position int) string {
	return "$" + strconv.Itoa(position)
}

// ExpandCollections is false: IN lists bind a single array parameter.
func (*Postgres) ExpandCollections() bool { return false }

func (*Postgres) InClause(column, marker string, not bool) string {
	if not {
		return "NOT (" + column + " = ANY(" + marker + "))"
	}
	return column + " = ANY(" + marker + ")"
}

func (*Postgres) CollectionParameter(values any) any { return pq.Array(values) }

func (*Postgres) GeneratedKey() KeyRetrieval { return Returning }

func (d *Postgres) Insert(table string, columns, rows []string, key string) string {
	sql := d.BaseDialect.Insert(table, columns, rows, key)
	if key != "" {
		sql += " RETURNING " + key
	}
	return sql
}
