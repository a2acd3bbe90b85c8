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
	"database/sql"
	"fmt"
	"strings"

	"github.com/tomoncle/anvil/dialect"
)

// Parameter is one bound value of a statement.
type Parameter struct {
	Name  string
	Value any
}

// Parameters is the ordered parameter list of one statement. Names are
// <Property>_<n> where n is the 0-based position, so they are unique within
// the statement.
type Parameters struct {
	dialect dialect.Dialect
	list    []Parameter
}

func NewParameters(d dialect.Dialect) *Parameters {
	return &Parameters{dialect: d}
}

// Add appends value and returns the marker referencing it.
func (p *Parameters) Add(property string, value any) string {
	name := fmt.Sprintf("%s_%d", property, len(p.list))
	p.list = append(p.list, Parameter{Name: name, Value: value})
	return p.dialect.Placeholder(name, len(p.list))
}

func (p *Parameters) Len() int { return len(p.list) }

func (p *Parameters) List() []Parameter {
	out := make([]Parameter, len(p.list))
	copy(out, p.list)
	return out
}

// Statement is generated SQL text with its parameters.
type Statement struct {
	SQL    string
	Params []Parameter

	named bool
}

func newStatement(sql string, params *Parameters) Statement {
	return Statement{SQL: sql, Params: params.List(), named: params.dialect.NamedParameters()}
}

// Args returns the values to pass to ExecContext/QueryContext, wrapped in
// sql.Named for dialects with named parameters.
func (s Statement) Args() []any {
	args := make([]any, len(s.Params))
	for i, p := range s.Params {
		if s.named {
			args[i] = sql.Named(p.Name, p.Value)
		} else {
			args[i] = p.Value
		}
	}
	return args
}

func (s Statement) String() string {
	if len(s.Params) == 0 {
		return s.SQL
	}
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = fmt.Sprintf("%s=%v", p.Name, p.Value)
	}
	return s.SQL + " [" + strings.Join(parts, ", ") + "]"
}
