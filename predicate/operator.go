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

package predicate

import "github.com/tomoncle/anvil/types"

// Operator is the comparison applied by a field, property or between
// predicate. Negation is carried separately by the predicate's Not flag.
type Operator int

const (
	Eq Operator = iota
	Gt
	Ge
	Lt
	Le
	Like
	In
)

type operatorInfo struct {
	name    string
	desc    string
	sql     string
	negated string
}

var operators = [...]operatorInfo{
	Eq:   {"Eq", "equal to", "=", "<>"},
	Gt:   {"Gt", "greater than", ">", "<="},
	Ge:   {"Ge", "greater than or equal to", ">=", "<"},
	Lt:   {"Lt", "less than", "<", ">="},
	Le:   {"Le", "less than or equal to", "<=", ">"},
	Like: {"Like", "matches pattern", "LIKE", "NOT LIKE"},
	In:   {"In", "member of", "IN", "NOT IN"},
}

var _ types.BaseEnum = Eq

// Operators lists every defined operator.
func Operators() []Operator {
	return []Operator{Eq, Gt, Ge, Lt, Le, Like, In}
}

// ParseOperator looks an operator up by name, ignoring case.
func ParseOperator(name string) (Operator, bool) {
	return types.ParseEnum(name, Operators()...)
}

func (o Operator) IsValid() bool { return o >= Eq && o <= In }

func (o Operator) Number() int {
	if !o.IsValid() {
		return types.IllegalValue
	}
	return int(o)
}

func (o Operator) Name() string {
	if !o.IsValid() {
		return types.IllegalName
	}
	return operators[o].name
}

func (o Operator) Desc() string {
	if !o.IsValid() {
		return types.IllegalDesc
	}
	return operators[o].desc
}

func (o Operator) String() string { return o.Name() }

// SQL renders the operator, or its complement when not is set.
func (o Operator) SQL(not bool) string {
	if !o.IsValid() {
		return ""
	}
	if not {
		return operators[o].negated
	}
	return operators[o].sql
}

// GroupOperator joins the children of a Group.
type GroupOperator int

const (
	AndOp GroupOperator = iota
	OrOp
)

func (g GroupOperator) String() string {
	if g == OrOp {
		return "OR"
	}
	return "AND"
}
