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

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// BunMapper derives descriptors from bun struct tags:
//
//	type Person struct {
//		bun.BaseModel `bun:"table:person"`
//		ID        int64  `bun:"id,pk,autoincrement"`
//		FirstName string `bun:"first_name"`
//	}
//
// A pk with autoincrement is an identity key. A pk of type uuid.UUID or
// ulid.ULID is generated client side. Any other pk is assigned.
type BunMapper struct {
	db *bun.DB
}

func NewBunMapper(db *bun.DB) *BunMapper {
	return &BunMapper{db: db}
}

func (m *BunMapper) Descriptor(typ reflect.Type) (*Descriptor, error) {
	typ = indirect(typ)
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct", typ)
	}
	table := m.db.Table(typ)
	columns := make([]*Column, 0, len(table.Fields))
	for _, f := range table.Fields {
		columns = append(columns, bunColumn(f))
	}
	return NewDescriptor(typ, table.Name, columns)
}

func bunColumn(f *schema.Field) *Column {
	key := NotAKey
	if f.IsPK {
		switch {
		case f.AutoIncrement:
			key = Identity
		default:
			key = keyTypeFor(f.IndirectType, Assigned)
		}
	}
	field := f
	return &Column{
		Name:     f.Name,
		Property: f.GoName,
		Key:      key,
		Index:    f.Index,
		Type:     f.StructField.Type,
		target: func(strct reflect.Value) any {
			return &fieldScanner{field: field, strct: strct}
		},
	}
}

// fieldScanner lets bun convert driver values into the struct field, so
// custom bun column types keep working.
type fieldScanner struct {
	field *schema.Field
	strct reflect.Value
}

func (s *fieldScanner) Scan(src any) error {
	return s.field.ScanValue(s.strct, src)
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
