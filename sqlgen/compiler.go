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
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/tomoncle/anvil/mapper"
	"github.com/tomoncle/anvil/predicate"
)

// compiler renders one predicate tree and collects every problem found
// on the way instead of stopping at the first.
type compiler struct {
	g      *Generator
	root   *mapper.Descriptor
	params *Parameters
	errs   *multierror.Error
}

func (g *Generator) compiler(root *mapper.Descriptor, params *Parameters) *compiler {
	return &compiler{g: g, root: root, params: params}
}

func (c *compiler) fail(err error) {
	c.errs = multierror.Append(c.errs, err)
}

func (c *compiler) err() error {
	return c.errs.ErrorOrNil()
}

func (c *compiler) descriptor(entity reflect.Type) *mapper.Descriptor {
	if entity == nil || entity == c.root.Type {
		return c.root
	}
	d, err := c.g.Descriptor(entity)
	if err != nil {
		c.fail(err)
		return nil
	}
	return d
}

// column resolves entity.property to its qualified column and returns the
// canonical property name for parameter naming.
func (c *compiler) column(entity reflect.Type, property string) (string, string) {
	d := c.descriptor(entity)
	if d == nil {
		return "?", property
	}
	col, ok := d.Lookup(property)
	if !ok {
		c.fail(fmt.Errorf("%s has no property %s", d.Name(), property))
		return "?", property
	}
	return c.g.qualify(d, col), col.Property
}

func (c *compiler) predicate(p predicate.Predicate) string {
	switch n := p.(type) {
	case *predicate.FieldPredicate:
		return c.field(n)
	case *predicate.PropertyPredicate:
		if err := n.Validate(); err != nil {
			c.fail(err)
		}
		left, _ := c.column(n.Entity, n.Property)
		right, _ := c.column(n.Entity2, n.Property2)
		return "(" + left + " " + n.Operator.SQL(n.Not) + " " + right + ")"
	case *predicate.BetweenPredicate:
		if err := n.Validate(); err != nil {
			c.fail(err)
		}
		col, prop := c.column(n.Entity, n.Property)
		op := " BETWEEN "
		if n.Not {
			op = " NOT BETWEEN "
		}
		return "(" + col + op + c.params.Add(prop, n.Low) + " AND " + c.params.Add(prop, n.High) + ")"
	case *predicate.ExistsPredicate:
		return c.exists(n)
	case *predicate.Group:
		return c.group(n)
	}
	c.fail(fmt.Errorf("unsupported predicate %T", p))
	return c.g.dialect.FalseExpression()
}

func (c *compiler) field(p *predicate.FieldPredicate) string {
	if err := p.Validate(); err != nil {
		c.fail(err)
	}
	col, prop := c.column(p.Entity, p.Property)
	d := c.g.dialect

	if predicate.IsNilValue(p.Value) {
		if p.Not {
			return "(" + col + " IS NOT NULL)"
		}
		return "(" + col + " IS NULL)"
	}

	if predicate.IsCollection(p.Value) {
		values := predicate.Values(p.Value)
		if len(values) == 0 {
			if p.Not {
				return "(" + d.EmptyExpression() + ")"
			}
			return "(" + d.FalseExpression() + ")"
		}
		if !d.ExpandCollections() {
			marker := c.params.Add(prop, d.CollectionParameter(p.Value))
			return "(" + d.InClause(col, marker, p.Not) + ")"
		}
		markers := make([]string, len(values))
		for i, v := range values {
			markers[i] = c.params.Add(prop, v)
		}
		return "(" + d.InClause(col, strings.Join(markers, ", "), p.Not) + ")"
	}

	return "(" + col + " " + p.Operator.SQL(p.Not) + " " + c.params.Add(prop, p.Value) + ")"
}

func (c *compiler) exists(p *predicate.ExistsPredicate) string {
	sub := c.descriptor(p.Entity)
	if sub == nil {
		return c.g.dialect.FalseExpression()
	}
	query := "SELECT 1 FROM " + c.g.dialect.Quote(sub.Table)
	if !predicate.IsNil(p.Predicate) {
		query += " WHERE " + c.predicate(p.Predicate)
	}
	return "(" + c.g.dialect.Exists(query, p.Not) + ")"
}

func (c *compiler) group(g *predicate.Group) string {
	parts := make([]string, 0, len(g.Predicates))
	for _, child := range g.Predicates {
		if predicate.IsNil(child) {
			continue
		}
		parts = append(parts, c.predicate(child))
	}
	switch len(parts) {
	case 0:
		if g.Operator == predicate.OrOp {
			return "(" + c.g.dialect.FalseExpression() + ")"
		}
		return "(" + c.g.dialect.EmptyExpression() + ")"
	case 1:
		return parts[0]
	}
	return "(" + strings.Join(parts, " "+g.Operator.String()+" ") + ")"
}

func (c *compiler) orderBy(sorts []predicate.Sort) string {
	parts := make([]string, 0, len(sorts))
	for _, s := range sorts {
		if s.Entity != nil && s.Entity != c.root.Type {
			c.fail(fmt.Errorf("sort %s is not a property of %s", s, c.root.Name()))
			continue
		}
		col, _ := c.column(s.Entity, s.Property)
		if s.Ascending {
			parts = append(parts, col+" ASC")
		} else {
			parts = append(parts, col+" DESC")
		}
	}
	return strings.Join(parts, ", ")
}
