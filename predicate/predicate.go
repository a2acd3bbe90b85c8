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

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"
)

// Predicate is a node of a filter tree. The set of implementations is closed:
// FieldPredicate, PropertyPredicate, BetweenPredicate, ExistsPredicate and
// Group.
type Predicate interface {
	fmt.Stringer
	isPredicate()
}

// FieldPredicate compares a property of Entity with a literal value or,
// for In and Eq, with a collection of values.
type FieldPredicate struct {
	Entity   reflect.Type
	Property string
	Operator Operator
	Value    any
	Not      bool
}

// PropertyPredicate compares a property of Entity with a property of Entity2.
type PropertyPredicate struct {
	Entity    reflect.Type
	Property  string
	Operator  Operator
	Entity2   reflect.Type
	Property2 string
	Not       bool
}

// BetweenPredicate checks Low <= property <= High.
type BetweenPredicate struct {
	Entity   reflect.Type
	Property string
	Low      any
	High     any
	Not      bool
}

// ExistsPredicate checks that at least one row of Entity matches Predicate.
// Predicate may reference properties of the outer statement's entity to
// correlate the subquery.
type ExistsPredicate struct {
	Entity    reflect.Type
	Predicate Predicate
	Not       bool
}

// Group joins its children with AND or OR, in declaration order.
type Group struct {
	Operator   GroupOperator
	Predicates []Predicate
}

func (*FieldPredicate) isPredicate()    {}
func (*PropertyPredicate) isPredicate() {}
func (*BetweenPredicate) isPredicate()  {}
func (*ExistsPredicate) isPredicate()   {}
func (*Group) isPredicate()             {}

// EntityOf returns the struct type behind T, dereferencing pointers.
func EntityOf[T any]() reflect.Type {
	return Indirect(reflect.TypeFor[T]())
}

// Indirect strips pointer levels from t.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// EntityName is the name used for t in diagnostics.
func EntityName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Field builds "property op value" on entity T.
func Field[T any](property string, op Operator, value any) *FieldPredicate {
	return &FieldPredicate{Entity: EntityOf[T](), Property: property, Operator: op, Value: value}
}

// NotField is the negation of Field.
func NotField[T any](property string, op Operator, value any) *FieldPredicate {
	p := Field[T](property, op, value)
	p.Not = true
	return p
}

// Property builds "T.property op T2.property2".
func Property[T, T2 any](property string, op Operator, property2 string) *PropertyPredicate {
	return &PropertyPredicate{
		Entity:    EntityOf[T](),
		Property:  property,
		Operator:  op,
		Entity2:   EntityOf[T2](),
		Property2: property2,
	}
}

// NotProperty is the negation of Property.
func NotProperty[T, T2 any](property string, op Operator, property2 string) *PropertyPredicate {
	p := Property[T, T2](property, op, property2)
	p.Not = true
	return p
}

// Between builds "property BETWEEN low AND high" on entity T.
func Between[T any](property string, low, high any) *BetweenPredicate {
	return &BetweenPredicate{Entity: EntityOf[T](), Property: property, Low: low, High: high}
}

// NotBetween is the negation of Between.
func NotBetween[T any](property string, low, high any) *BetweenPredicate {
	p := Between[T](property, low, high)
	p.Not = true
	return p
}

// Exists builds "EXISTS (SELECT 1 FROM T WHERE p)".
func Exists[T any](p Predicate) *ExistsPredicate {
	return &ExistsPredicate{Entity: EntityOf[T](), Predicate: p}
}

// NotExists is the negation of Exists.
func NotExists[T any](p Predicate) *ExistsPredicate {
	e := Exists[T](p)
	e.Not = true
	return e
}

// And joins predicates with AND. Nil children are dropped and nested AND
// groups are inlined, keeping declaration order.
func And(predicates ...Predicate) *Group {
	return group(AndOp, predicates)
}

// Or joins predicates with OR, with the same flattening rules as And.
func Or(predicates ...Predicate) *Group {
	return group(OrOp, predicates)
}

func group(op GroupOperator, predicates []Predicate) *Group {
	g := &Group{Operator: op, Predicates: make([]Predicate, 0, len(predicates))}
	for _, p := range predicates {
		if isNil(p) {
			continue
		}
		if child, ok := p.(*Group); ok && child.Operator == op {
			g.Predicates = append(g.Predicates, child.Predicates...)
			continue
		}
		g.Predicates = append(g.Predicates, p)
	}
	return g
}

func isNil(p Predicate) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// IsNil reports whether p is nil or a typed nil pointer.
func IsNil(p Predicate) bool { return isNil(p) }

// IsNilValue reports whether v is nil or a nil pointer, map, interface,
// func or channel. A nil slice is an empty collection, not a null.
func IsNilValue(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Validate checks that the operator matches the cardinality of the value.
func (p *FieldPredicate) Validate() error {
	if !p.Operator.IsValid() {
		return fmt.Errorf("%s: invalid operator %d", p.Property, int(p.Operator))
	}
	collection := IsCollection(p.Value)
	switch {
	case p.Operator == In && !collection:
		return fmt.Errorf("%s: operator In requires a collection value, got %T", p.Property, p.Value)
	case IsNilValue(p.Value) && p.Operator != Eq:
		return fmt.Errorf("%s: operator %s does not accept nil", p.Property, p.Operator)
	case collection && p.Operator != Eq && p.Operator != In:
		return fmt.Errorf("%s: operator %s does not accept a collection value", p.Property, p.Operator)
	case p.Operator == Like:
		if _, ok := p.Value.(string); !ok {
			return fmt.Errorf("%s: operator Like requires a string pattern, got %T", p.Property, p.Value)
		}
	}
	return nil
}

// Validate rejects operators that cannot compare two columns.
func (p *PropertyPredicate) Validate() error {
	if !p.Operator.IsValid() || p.Operator == In {
		return fmt.Errorf("%s: operator %s cannot compare two properties", p.Property, p.Operator)
	}
	return nil
}

// Validate requires both bounds to be scalar values.
func (p *BetweenPredicate) Validate() error {
	if IsNilValue(p.Low) || IsNilValue(p.High) {
		return fmt.Errorf("%s: between bounds must not be nil", p.Property)
	}
	if IsCollection(p.Low) || IsCollection(p.High) {
		return fmt.Errorf("%s: between bounds must be scalar values", p.Property)
	}
	return nil
}

func (p *FieldPredicate) String() string {
	if IsNilValue(p.Value) {
		if p.Not {
			return fmt.Sprintf("%s.%s IS NOT NULL", shortName(p.Entity), p.Property)
		}
		return fmt.Sprintf("%s.%s IS NULL", shortName(p.Entity), p.Property)
	}
	op := p.Operator
	if IsCollection(p.Value) {
		op = In
	}
	return fmt.Sprintf("%s.%s %s %v", shortName(p.Entity), p.Property, op.SQL(p.Not), p.Value)
}

func (p *PropertyPredicate) String() string {
	return fmt.Sprintf("%s.%s %s %s.%s", shortName(p.Entity), p.Property, p.Operator.SQL(p.Not),
		shortName(p.Entity2), p.Property2)
}

func (p *BetweenPredicate) String() string {
	not := ""
	if p.Not {
		not = "NOT "
	}
	return fmt.Sprintf("%s.%s %sBETWEEN %v AND %v", shortName(p.Entity), p.Property, not, p.Low, p.High)
}

func (p *ExistsPredicate) String() string {
	not := ""
	if p.Not {
		not = "NOT "
	}
	inner := "<all>"
	if !isNil(p.Predicate) {
		inner = p.Predicate.String()
	}
	return fmt.Sprintf("%sEXISTS %s WHERE %s", not, shortName(p.Entity), inner)
}

func (g *Group) String() string {
	parts := make([]string, 0, len(g.Predicates))
	for _, p := range g.Predicates {
		parts = append(parts, p.String())
	}
	return "(" + strings.Join(parts, " "+g.Operator.String()+" ") + ")"
}

func shortName(t reflect.Type) string {
	if t == nil {
		return "?"
	}
	return t.Name()
}

// IsCollection reports whether v is a slice or array other than []byte.
// Values implementing driver.Valuer, such as uuid.UUID, are scalars.
func IsCollection(v any) bool {
	if v == nil {
		return false
	}
	switch v.(type) {
	case []byte, driver.Valuer:
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// Values flattens a collection value into its elements, in order.
func Values(v any) []any {
	if !IsCollection(v) {
		return []any{v}
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
