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
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/tomoncle/anvil/dialect"
	"github.com/tomoncle/anvil/mapper"
	"github.com/tomoncle/anvil/predicate"
	"github.com/tomoncle/anvil/types"
)

// Generator turns descriptors and predicates into statements for one
// dialect. It holds no per statement state and is safe for concurrent use.
type Generator struct {
	dialect dialect.Dialect
	mapper  mapper.Mapper
}

// New builds a generator. m is used as given; wrap it in a mapper.Cache to
// resolve each entity type once.
func New(d dialect.Dialect, m mapper.Mapper) *Generator {
	return &Generator{dialect: d, mapper: m}
}

func (g *Generator) Dialect() dialect.Dialect { return g.dialect }

func (g *Generator) Mapper() mapper.Mapper { return g.mapper }

// Descriptor resolves the mapping of typ.
func (g *Generator) Descriptor(typ reflect.Type) (*mapper.Descriptor, error) {
	if typ == nil {
		return nil, types.NewError(types.KindConfiguration, "describe", "<nil>", "", fmt.Errorf("entity type is nil"))
	}
	d, err := g.mapper.Descriptor(typ)
	if err != nil {
		return nil, types.NewError(types.KindConfiguration, "describe", typ.String(), "", err)
	}
	return d, nil
}

func (g *Generator) qualify(d *mapper.Descriptor, c *mapper.Column) string {
	return g.dialect.Quote(d.Table) + "." + g.dialect.Quote(c.Name)
}

func (g *Generator) table(d *mapper.Descriptor) string {
	return g.dialect.Quote(d.Table)
}

func invalid(op string, d *mapper.Descriptor, detail string, err error) error {
	return types.NewError(types.KindValidation, op, d.Name(), detail, err)
}

func describe(p predicate.Predicate) string {
	if predicate.IsNil(p) {
		return "<all>"
	}
	return p.String()
}

// Where renders p as a WHERE clause body appending its values to params.
// A nil predicate renders an empty string.
func (g *Generator) Where(d *mapper.Descriptor, p predicate.Predicate, params *Parameters) (string, error) {
	if predicate.IsNil(p) {
		return "", nil
	}
	c := g.compiler(d, params)
	sql := c.predicate(p)
	if err := c.err(); err != nil {
		return "", invalid("where", d, describe(p), err)
	}
	return sql, nil
}

// OrderBy renders the ORDER BY list of sorts, keeping their order.
func (g *Generator) OrderBy(d *mapper.Descriptor, sorts []predicate.Sort) (string, error) {
	c := g.compiler(d, nil)
	sql := c.orderBy(sorts)
	if err := c.err(); err != nil {
		return "", invalid("order", d, fmt.Sprint(sorts), err)
	}
	return sql, nil
}

func (g *Generator) selectList(d *mapper.Descriptor) string {
	cols := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		cols[i] = g.qualify(d, c)
	}
	return strings.Join(cols, ", ")
}

// query renders SELECT ... [WHERE] [ORDER BY] into params.
func (g *Generator) query(op string, d *mapper.Descriptor, p predicate.Predicate, sorts []predicate.Sort, params *Parameters) (string, error) {
	c := g.compiler(d, params)
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(g.selectList(d))
	b.WriteString(" FROM ")
	b.WriteString(g.table(d))
	if !predicate.IsNil(p) {
		b.WriteString(" WHERE ")
		b.WriteString(c.predicate(p))
	}
	if len(sorts) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(c.orderBy(sorts))
	}
	if err := c.err(); err != nil {
		return "", invalid(op, d, describe(p), err)
	}
	return b.String(), nil
}

// Select returns every column of the rows matching p ordered by sorts.
func (g *Generator) Select(d *mapper.Descriptor, p predicate.Predicate, sorts []predicate.Sort) (Statement, error) {
	params := NewParameters(g.dialect)
	sql, err := g.query("select", d, p, sorts, params)
	if err != nil {
		return Statement{}, err
	}
	return newStatement(sql, params), nil
}

// SelectPaged returns page (0-based) of pageSize rows. sorts must not be
// empty so the page content is deterministic.
func (g *Generator) SelectPaged(d *mapper.Descriptor, p predicate.Predicate, sorts []predicate.Sort, page, pageSize int) (Statement, error) {
	req := types.NewPageRequest(page, pageSize)
	var errs *multierror.Error
	if err := req.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if len(sorts) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("paging requires at least one sort"))
	}
	if errs != nil {
		return Statement{}, invalid("select page", d, describe(p), errs)
	}
	return g.limit("select page", d, p, sorts, req.GetOffset(), req.GetPageSize())
}

// SelectSet returns maxResults rows starting at the 0-based firstResult.
func (g *Generator) SelectSet(d *mapper.Descriptor, p predicate.Predicate, sorts []predicate.Sort, firstResult, maxResults int) (Statement, error) {
	var errs *multierror.Error
	if firstResult < 0 {
		errs = multierror.Append(errs, fmt.Errorf("first result must not be negative, got %d", firstResult))
	}
	if maxResults < 1 {
		errs = multierror.Append(errs, fmt.Errorf("max results must be positive, got %d", maxResults))
	}
	if len(sorts) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("paging requires at least one sort"))
	}
	if errs != nil {
		return Statement{}, invalid("select set", d, describe(p), errs)
	}
	return g.limit("select set", d, p, sorts, firstResult, maxResults)
}

func (g *Generator) limit(op string, d *mapper.Descriptor, p predicate.Predicate, sorts []predicate.Sort, offset, limit int) (Statement, error) {
	params := NewParameters(g.dialect)
	sql, err := g.query(op, d, p, sorts, params)
	if err != nil {
		return Statement{}, err
	}
	sql = g.dialect.Paging(sql, offset, limit, params.Add)
	return newStatement(sql, params), nil
}

// Count returns the number of rows matching p.
func (g *Generator) Count(d *mapper.Descriptor, p predicate.Predicate) (Statement, error) {
	params := NewParameters(g.dialect)
	where, err := g.Where(d, p, params)
	if err != nil {
		return Statement{}, err
	}
	sql := "SELECT COUNT(*) AS " + g.dialect.Quote("Total") + " FROM " + g.table(d)
	if where != "" {
		sql += " WHERE " + where
	}
	return newStatement(sql, params), nil
}

// Insert renders rows as multi-row inserts, split so that no statement
// exceeds the parameter limit of the dialect. Identity columns are left to
// the database. With returnKey set, a dialect that reports generated keys
// through the result set gets RETURNING or OUTPUT for the identity column.
func (g *Generator) Insert(d *mapper.Descriptor, rows []reflect.Value, returnKey bool) ([]Statement, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	columns := make([]*mapper.Column, 0, len(d.Columns))
	names := make([]string, 0, len(d.Columns))
	for _, c := range d.Columns {
		if c.Generated() {
			continue
		}
		columns = append(columns, c)
		names = append(names, g.dialect.Quote(c.Name))
	}
	key := ""
	if id := d.Identity(); id != nil && returnKey && g.dialect.GeneratedKey() != dialect.LastInsertID {
		key = g.dialect.Quote(id.Name)
	}

	chunk := len(rows)
	if len(columns) == 0 {
		chunk = 1
	} else if limit := g.dialect.MaxParameters() / len(columns); limit < chunk {
		chunk = max(limit, 1)
	}

	statements := make([]Statement, 0, (len(rows)+chunk-1)/chunk)
	for start := 0; start < len(rows); start += chunk {
		end := min(start+chunk, len(rows))
		params := NewParameters(g.dialect)
		tuples := make([]string, 0, end-start)
		for _, row := range rows[start:end] {
			markers := make([]string, len(columns))
			for i, c := range columns {
				markers[i] = params.Add(c.Property, c.Value(row))
			}
			tuples = append(tuples, "("+strings.Join(markers, ", ")+")")
		}
		statements = append(statements, newStatement(g.dialect.Insert(g.table(d), names, tuples, key), params))
	}
	return statements, nil
}

// Update writes the listed properties of row, or every non-key column when
// none are listed, to the row with the same key.
func (g *Generator) Update(d *mapper.Descriptor, row reflect.Value, properties ...string) (Statement, error) {
	var errs *multierror.Error
	var columns []*mapper.Column
	if len(properties) == 0 {
		for _, c := range d.Columns {
			if !c.IsKey() {
				columns = append(columns, c)
			}
		}
	} else {
		seen := make(map[*mapper.Column]bool, len(properties))
		for _, name := range properties {
			c, ok := d.Lookup(name)
			switch {
			case !ok:
				errs = multierror.Append(errs, fmt.Errorf("%s has no property %s", d.Name(), name))
			case c.IsKey():
				errs = multierror.Append(errs, fmt.Errorf("key property %s cannot be updated", c.Property))
			case !seen[c]:
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}
	if len(columns) == 0 && errs == nil {
		errs = multierror.Append(errs, fmt.Errorf("%s has no columns to update", d.Name()))
	}
	if len(d.Keys()) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("%s has no key", d.Name()))
	}
	if errs != nil {
		return Statement{}, invalid("update", d, strings.Join(properties, ","), errs)
	}

	params := NewParameters(g.dialect)
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = g.dialect.Quote(c.Name) + " = " + params.Add(c.Property, c.Value(row))
	}
	keyPredicate := g.EntityKey(d, row)
	where, err := g.Where(d, keyPredicate, params)
	if err != nil {
		return Statement{}, err
	}
	sql := "UPDATE " + g.table(d) + " SET " + strings.Join(sets, ", ") + " WHERE " + where
	return newStatement(sql, params), nil
}

// DeleteByKey deletes the row with the key of row.
func (g *Generator) DeleteByKey(d *mapper.Descriptor, row reflect.Value) (Statement, error) {
	if len(d.Keys()) == 0 {
		return Statement{}, invalid("delete", d, "", fmt.Errorf("%s has no key", d.Name()))
	}
	return g.Delete(d, g.EntityKey(d, row))
}

// Delete deletes the rows matching p, or every row for a nil predicate.
func (g *Generator) Delete(d *mapper.Descriptor, p predicate.Predicate) (Statement, error) {
	params := NewParameters(g.dialect)
	where, err := g.Where(d, p, params)
	if err != nil {
		return Statement{}, err
	}
	sql := "DELETE FROM " + g.table(d)
	if where != "" {
		sql += " WHERE " + where
	}
	return newStatement(sql, params), nil
}

// EntityKey builds the equality predicate over the key columns of row.
func (g *Generator) EntityKey(d *mapper.Descriptor, row reflect.Value) predicate.Predicate {
	values := make(map[*mapper.Column]any, len(d.Keys()))
	for _, c := range d.Keys() {
		values[c] = c.Value(row)
	}
	return keyPredicate(d, values)
}

func keyPredicate(d *mapper.Descriptor, values map[*mapper.Column]any) predicate.Predicate {
	fields := make([]predicate.Predicate, 0, len(values))
	for _, c := range d.Keys() {
		fields = append(fields, &predicate.FieldPredicate{
			Entity: d.Type, Property: c.Property, Operator: predicate.Eq, Value: values[c],
		})
	}
	if len(fields) == 1 {
		return fields[0]
	}
	return predicate.And(fields...)
}

var valuerType = reflect.TypeFor[driver.Valuer]()

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// KeyPredicate turns a key bundle into an equality predicate over the key
// columns. key is a scalar (single column keys only), an entity value, or a
// struct or string keyed map naming exactly the key properties.
func (g *Generator) KeyPredicate(d *mapper.Descriptor, key any) (predicate.Predicate, error) {
	keys := d.Keys()
	detail := fmt.Sprintf("%v", key)
	if len(keys) == 0 {
		return nil, invalid("key", d, detail, fmt.Errorf("%s has no key", d.Name()))
	}
	v := reflect.ValueOf(key)
	for v.IsValid() && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			break
		}
		v = v.Elem()
	}
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return nil, invalid("key", d, detail, fmt.Errorf("key is nil"))
	}

	t := v.Type()
	switch {
	case t == d.Type:
		values := make(map[*mapper.Column]any, len(keys))
		for _, c := range keys {
			values[c] = v.FieldByIndex(c.Index).Interface()
		}
		return keyPredicate(d, values), nil
	case len(keys) == 1 && t.Kind() == reflect.Struct && t.ConvertibleTo(indirectType(keys[0].Type)):
		// a struct valued key such as time.Time, handled as a scalar below
	case t.Kind() == reflect.Struct && !t.Implements(valuerType):
		named := make(map[string]any, t.NumField())
		order := make([]string, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			if sf := t.Field(i); sf.IsExported() {
				named[sf.Name] = v.Field(i).Interface()
				order = append(order, sf.Name)
			}
		}
		return g.namedKey(d, detail, order, named)
	case t.Kind() == reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, invalid("key", d, detail, fmt.Errorf("key map must have string keys, got %s", t))
		}
		named := make(map[string]any, v.Len())
		order := make([]string, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			named[iter.Key().String()] = iter.Value().Interface()
			order = append(order, iter.Key().String())
		}
		return g.namedKey(d, detail, order, named)
	}

	if len(keys) != 1 {
		return nil, invalid("key", d, detail,
			fmt.Errorf("%s has a composite key of %d columns, a scalar key is not enough", d.Name(), len(keys)))
	}
	return keyPredicate(d, map[*mapper.Column]any{keys[0]: v.Interface()}), nil
}

func (g *Generator) namedKey(d *mapper.Descriptor, detail string, order []string, named map[string]any) (predicate.Predicate, error) {
	var errs *multierror.Error
	values := make(map[*mapper.Column]any, len(named))
	for _, name := range order {
		c, ok := d.Lookup(name)
		switch {
		case !ok || !c.IsKey():
			errs = multierror.Append(errs, fmt.Errorf("%s is not a key property of %s", name, d.Name()))
		default:
			if _, dup := values[c]; dup {
				errs = multierror.Append(errs, fmt.Errorf("key property %s given twice", c.Property))
			}
			values[c] = named[name]
		}
	}
	for _, c := range d.Keys() {
		if _, ok := values[c]; !ok {
			errs = multierror.Append(errs, fmt.Errorf("missing key property %s", c.Property))
		}
	}
	if errs != nil {
		return nil, invalid("key", d, detail, errs)
	}
	return keyPredicate(d, values), nil
}
