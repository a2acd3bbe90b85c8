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

package mapper

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// KeyType describes how the value of a key column comes to exist.
type KeyType int

const (
	// NotAKey marks a plain data column.
	NotAKey KeyType = iota
	// Identity keys are generated by the database on insert.
	Identity
	// Guid keys are uuid.UUID values filled in before insert when zero.
	Guid
	// Ulid keys are ulid.ULID values filled in before insert when zero.
	Ulid
	// Assigned keys are supplied by the caller.
	Assigned
)

func (k KeyType) String() string {
	switch k {
	case Identity:
		return "identity"
	case Guid:
		return "guid"
	case Ulid:
		return "ulid"
	case Assigned:
		return "assigned"
	default:
		return "none"
	}
}

var (
	uuidType = reflect.TypeFor[uuid.UUID]()
	ulidType = reflect.TypeFor[ulid.ULID]()
)

// keyTypeFor picks Guid/Ulid for the matching Go types and fallback otherwise.
func keyTypeFor(t reflect.Type, fallback KeyType) KeyType {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case uuidType:
		return Guid
	case ulidType:
		return Ulid
	}
	return fallback
}

// Column maps one struct field to one table column.
type Column struct {
	Name     string
	Property string
	Key      KeyType
	Index    []int
	Type     reflect.Type

	target func(strct reflect.Value) any
}

func (c *Column) IsKey() bool { return c.Key != NotAKey }

// Generated reports whether the database produces the column value.
func (c *Column) Generated() bool { return c.Key == Identity }

// Field returns the addressable struct field of this column, allocating
// nil embedded pointers on the way.
func (c *Column) Field(strct reflect.Value) reflect.Value {
	v := strct
	for i, x := range c.Index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// Value reads the column value from strct.
func (c *Column) Value(strct reflect.Value) any {
	return c.Field(strct).Interface()
}

// Target returns a destination suitable for sql.Rows.Scan that stores the
// scanned value into strct.
func (c *Column) Target(strct reflect.Value) any {
	if c.target != nil {
		return c.target(strct)
	}
	return c.Field(strct).Addr().Interface()
}

// Descriptor is the mapping of one entity type to one table.
type Descriptor struct {
	Type    reflect.Type
	Table   string
	Columns []*Column

	keys       []*Column
	identity   *Column
	byProperty map[string]*Column
	byName     map[string]*Column
}

// NewDescriptor validates the column list and indexes it. At most one
// identity column is allowed.
func NewDescriptor(typ reflect.Type, table string, columns []*Column) (*Descriptor, error) {
	if table == "" {
		return nil, fmt.Errorf("%s: table name is empty", typ)
	}
	d := &Descriptor{
		Type:       typ,
		Table:      table,
		Columns:    columns,
		byProperty: make(map[string]*Column, len(columns)),
		byName:     make(map[string]*Column, len(columns)),
	}
	for _, c := range columns {
		if _, dup := d.byProperty[c.Property]; dup {
			return nil, fmt.Errorf("%s: property %s is mapped twice", typ, c.Property)
		}
		d.byProperty[c.Property] = c
		d.byName[strings.ToLower(c.Name)] = c
		if !c.IsKey() {
			continue
		}
		d.keys = append(d.keys, c)
		if c.Key == Identity {
			if d.identity != nil {
				return nil, fmt.Errorf("%s: more than one identity column (%s, %s)", typ, d.identity.Property, c.Property)
			}
			d.identity = c
		}
	}
	return d, nil
}

// Name is the entity type name used in diagnostics.
func (d *Descriptor) Name() string { return d.Type.String() }

// Keys returns the key columns in declaration order.
func (d *Descriptor) Keys() []*Column { return d.keys }

// Identity returns the database generated key column, or nil.
func (d *Descriptor) Identity() *Column { return d.identity }

// Lookup finds a column by Go property name, falling back to a case
// insensitive match on the column name.
func (d *Descriptor) Lookup(property string) (*Column, bool) {
	if c, ok := d.byProperty[property]; ok {
		return c, true
	}
	c, ok := d.byName[strings.ToLower(property)]
	return c, ok
}

// ColumnByName finds a column by its SQL name, ignoring case.
func (d *Descriptor) ColumnByName(name string) (*Column, bool) {
	c, ok := d.byName[strings.ToLower(name)]
	return c, ok
}

// discard swallows result columns that are not mapped.
var discard = func() any { return new(sql.RawBytes) }

// Discard returns a scan destination that drops the value.
func Discard() any { return discard() }
