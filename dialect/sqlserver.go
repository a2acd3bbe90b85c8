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

import "strings"

// SQLServer renders T-SQL. Parameters are named and bound with sql.Named.
type SQLServer struct {
	BaseDialect
}

func NewSQLServer() *SQLServer { return &SQLServer{} }

func (*SQLServer) Name() string { return "mssql" }

func (*SQLServer) Quote(identifier string) string { return quote(identifier, '[', ']') }

func (*SQLServer) Placeholder(name string, _ int) string { return "@" + name }

func (*SQLServer) NamedParameters() bool { return true }

// Paging needs an ORDER BY in sql.
func (*SQLServer) Paging(sql string, offset, limit int, bind Binder) string {
	return sql + " OFFSET " + bind("Offset", offset) + " ROWS FETCH NEXT " + bind("Limit", limit) + " ROWS ONLY"
}

func (*SQLServer) GeneratedKey() KeyRetrieval { return Output }

func (*SQLServer) Insert(table string, columns, rows []string, key string) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	if len(columns) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(columns, ", "))
		b.WriteString(")")
	}
	if key != "" {
		b.WriteString(" OUTPUT INSERTED.")
		b.WriteString(key)
	}
	if len(columns) == 0 {
		b.WriteString(" DEFAULT VALUES")
		return b.String()
	}
	b.WriteString(" VALUES ")
	b.WriteString(strings.Join(rows, ", "))
	return b.String()
}

func (*SQLServer) SupportsMultipleStatements() bool { return true }

// MaxParameters stays below the 2100 parameter limit of a TDS request.
func (*SQLServer) MaxParameters() int { return 2098 }
