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
	"fmt"
	"reflect"
	"strings"

	"github.com/go-openapi/inflect"
)

// AutoMapper maps a struct by naming convention. The table is the
// pluralized snake case type name, each exported field is a column named
// after it in snake case. An optional tag overrides the defaults:
//
//	Code string `db:"code,pk"`       // assigned key with an explicit column
//	Seq  int64  `db:",pk,auto"`      // identity key
//	Tmp  string `db:"-"`             // not mapped
//
// Without any pk tag the field named ID (or Id) is the key, or failing that
// the first field whose name ends in Id. Integer keys found by convention are
// identities, uuid and ulid keys are generated client side and other keys
// are assigned.
type AutoMapper struct {
	// Tag is the struct tag read for overrides. Defaults to "db".
	Tag string
	// TableName overrides the table naming convention when set.
	TableName func(reflect.Type) string
}

func NewAutoMapper() *AutoMapper {
	return &AutoMapper{Tag: "db"}
}

func (m *AutoMapper) Descriptor(typ reflect.Type) (*Descriptor, error) {
	typ = indirect(typ)
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct", typ)
	}
	tag := m.Tag
	if tag == "" {
		tag = "db"
	}

	var columns []*Column
	tagged := false
	for _, sf := range reflect.VisibleFields(typ) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		name, opts, skip := parseTag(sf.Tag.Get(tag))
		if skip {
			continue
		}
		if name == "" {
			name = ColumnName(sf.Name)
		}
		c := &Column{Name: name, Property: sf.Name, Index: sf.Index, Type: sf.Type}
		if opts["pk"] {
			tagged = true
			fallback := Assigned
			if opts["auto"] || opts["autoincrement"] {
				fallback = Identity
			}
			c.Key = keyTypeFor(sf.Type, fallback)
		}
		columns = append(columns, c)
	}
	if !tagged {
		if key := conventionKey(columns); key != nil {
			key.Key = keyTypeFor(key.Type, conventionKeyType(key.Type))
		}
	}

	table := ""
	if m.TableName != nil {
		table = m.TableName(typ)
	}
	if table == "" {
		table = TableName(typ.Name())
	}
	return NewDescriptor(typ, table, columns)
}

func conventionKey(columns []*Column) *Column {
	for _, c := range columns {
		if c.Property == "ID" || c.Property == "Id" {
			return c
		}
	}
	for _, c := range columns {
		if strings.HasSuffix(c.Property, "Id") || strings.HasSuffix(c.Property, "ID") {
			return c
		}
	}
	return nil
}

func conventionKeyType(t reflect.Type) KeyType {
	switch indirect(t).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Identity
	}
	return Assigned
}

func parseTag(tag string) (name string, opts map[string]bool, skip bool) {
	if tag == "-" {
		return "", nil, true
	}
	parts := strings.Split(tag, ",")
	opts = make(map[string]bool, len(parts))
	for _, o := range parts[1:] {
		opts[strings.TrimSpace(o)] = true
	}
	return strings.TrimSpace(parts[0]), opts, false
}

// ColumnName converts a Go field name to snake case. A trailing ID is
// treated as a single word, so UserID becomes user_id.
func ColumnName(field string) string {
	if strings.ToUpper(field) == field {
		return strings.ToLower(field)
	}
	if strings.HasSuffix(field, "ID") {
		field = strings.TrimSuffix(field, "ID") + "Id"
	}
	return inflect.Underscore(field)
}

// TableName converts a Go type name to a pluralized snake case table name.
func TableName(typeName string) string {
	return inflect.Pluralize(ColumnName(typeName))
}
