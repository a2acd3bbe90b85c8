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

// MySQL covers MySQL and MariaDB. Batches require a connection opened with
// multiStatements and interpolateParams.
type MySQL struct {
	BaseDialect
}

func NewMySQL() *MySQL { return &MySQL{} }

func (*MySQL) Name() string { return "mysql" }

func (*MySQL) Quote(identifier string) string { return quote(identifier, '`', '`') }

func (*MySQL) Insert(table string, columns, rows []string, _ string) string {
	if len(columns) == 0 {
		return "INSERT INTO " + table + " () VALUES ()"
	}
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES " + strings.Join(rows, ", ")
}

func (*MySQL) SupportsMultipleStatements() bool { return true }
