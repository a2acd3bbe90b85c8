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
	"fmt"
	"strings"

	bundialect "github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"
)

// KeyRetrieval is the way a dialect hands back a generated key on insert.
type KeyRetrieval int

const (
	// LastInsertID reads sql.Result.LastInsertId after the insert.
	LastInsertID KeyRetrieval = iota
	// Returning appends RETURNING <key> and scans the row.
	Returning
	// Output adds OUTPUT INSERTED.<key> and scans the row.
	Output
)

// Binder adds a parameter to the statement under construction and returns
// the marker to embed in the SQL text.
type Binder func(name string, value any) string

// Dialect renders the backend specific parts of a statement.
//
// Identifiers passed to Insert, Paging and Exists are already quoted.
type Dialect interface {
	Name() string
	Quote(identifier string) string
	// Placeholder returns the marker for the parameter called name at the
	// 1-based position.
	Placeholder(name string, position int) string
	// NamedParameters reports whether arguments must be passed as sql.Named.
	NamedParameters() bool

	// ExpandCollections reports whether IN lists bind one parameter per
	// element. When false, InClause and CollectionParameter are used.
	ExpandCollections() bool
	InClause(column, marker string, not bool) string
	CollectionParameter(values any) any

	EmptyExpression() string
	FalseExpression() string
	Exists(subquery string, not bool) string
	Paging(sql string, offset, limit int, bind Binder) string

	GeneratedKey() KeyRetrieval
	// Insert renders a (possibly multi-row) insert. Each row is a rendered
	// value tuple. key is the quoted identity column, empty when none.
	Insert(table string, columns, rows []string, key string) string

	BatchSeparator() string
	SupportsMultipleStatements() bool
	MaxParameters() int
}

// BaseDialect implements the ANSI behaviour shared by the backends.
type BaseDialect struct{}

func (BaseDialect) Placeholder(string, int) string { return "?" }

func (BaseDialect) NamedParameters() bool { return false }

func (BaseDialect) ExpandCollections() bool { return true }

func (BaseDialect) InClause(column, marker string, not bool) string {
	if not {
		return column + " NOT IN (" + marker + ")"
	}
	return column + " IN (" + marker + ")"
}

func (BaseDialect) CollectionParameter(values any) any { return values }

func (BaseDialect) EmptyExpression() string { return "1=1" }

func (BaseDialect) FalseExpression() string { return "1=0" }

func (BaseDialect) Exists(subquery string, not bool) string {
	if not {
		return "NOT EXISTS (" + subquery + ")"
	}
	return "EXISTS (" + subquery + ")"
}

func (BaseDialect) Paging(sql string, offset, limit int, bind Binder) string {
	return sql + " LIMIT " + bind("Limit", limit) + " OFFSET " + bind("Offset", offset)
}

func (BaseDialect) GeneratedKey() KeyRetrieval { return LastInsertID }

func (BaseDialect) Insert(table string, columns, rows []string, _ string) string {
	if len(columns) == 0 {
		return "INSERT INTO " + table + " DEFAULT VALUES"
	}
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES " + strings.Join(rows, ", ")
}

func (BaseDialect) BatchSeparator() string { return ";" }

func (BaseDialect) SupportsMultipleStatements() bool { return false }

func (BaseDialect) MaxParameters() int { return 65535 }

// quote wraps every dot separated part of identifier in open/close, doubling
// any embedded close character.
func quote(identifier string, open, close byte) string {
	parts := strings.Split(identifier, ".")
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteByte('.')
		}
		if len(part) >= 2 && part[0] == open && part[len(part)-1] == close {
			b.WriteString(part)
			continue
		}
		b.WriteByte(open)
		b.WriteString(strings.ReplaceAll(part, string(close), string([]byte{close, close})))
		b.WriteByte(close)
	}
	return b.String()
}

var byName = map[string]func() Dialect{
	"mysql":      func() Dialect { return NewMySQL() },
	"mariadb":    func() Dialect { return NewMySQL() },
	"postgres":   func() Dialect { return NewPostgres() },
	"postgresql": func() Dialect { return NewPostgres() },
	"pg":         func() Dialect { return NewPostgres() },
	"pgx":        func() Dialect { return NewPostgres() },
	"sqlite":     func() Dialect { return NewSQLite() },
	"sqlite3":    func() Dialect { return NewSQLite() },
	"mssql":      func() Dialect { return NewSQLServer() },
	"sqlserver":  func() Dialect { return NewSQLServer() },
}

// ForName returns the dialect registered under name, ignoring case.
func ForName(name string) (Dialect, error) {
	if f, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unsupported dialect: %q", name)
}

// FromBun returns the dialect matching a bun schema dialect.
func FromBun(d schema.Dialect) (Dialect, error) {
	if d == nil {
		return nil, fmt.Errorf("bun dialect is nil")
	}
	switch d.Name() {
	case bundialect.MySQL:
		return NewMySQL(), nil
	case bundialect.PG:
		return NewPostgres(), nil
	case bundialect.SQLite:
		return NewSQLite(), nil
	case bundialect.MSSQL:
		return NewSQLServer(), nil
	}
	return nil, fmt.Errorf("unsupported bun dialect: %s", d.Name())
}
