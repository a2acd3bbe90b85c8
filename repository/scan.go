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

package repository

import (
	"database/sql"
	"fmt"
	"reflect"

	"github.com/tomoncle/anvil/mapper"
)

// scanRows reads the current result set of rows into new T values. Result
// columns that are not mapped are skipped. rows is not closed.
func scanRows[T any](d *mapper.Descriptor, rows *sql.Rows) ([]*T, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	columns := make([]*mapper.Column, len(names))
	for i, name := range names {
		if c, ok := d.ColumnByName(name); ok {
			columns[i] = c
		}
	}

	items := make([]*T, 0)
	targets := make([]any, len(names))
	for rows.Next() {
		item := new(T)
		v := reflect.ValueOf(item).Elem()
		for i, c := range columns {
			if c == nil {
				targets[i] = mapper.Discard()
			} else {
				targets[i] = c.Target(v)
			}
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// scanValue reads the first column of the first row into dest.
func scanValue(rows *sql.Rows, dest any) error {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	if err := rows.Scan(dest); err != nil {
		return err
	}
	return rows.Err()
}

// assign stores value into the column c of strct, converting numeric types.
func assign(c *mapper.Column, strct reflect.Value, value any) error {
	if s, ok := c.Target(strct).(sql.Scanner); ok {
		return s.Scan(value)
	}
	field := c.Field(strct)
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	dest := field.Type()
	if dest.Kind() == reflect.Pointer {
		if rv.Type().ConvertibleTo(dest.Elem()) {
			p := reflect.New(dest.Elem())
			p.Elem().Set(rv.Convert(dest.Elem()))
			field.Set(p)
			return nil
		}
	} else if rv.Type().ConvertibleTo(dest) {
		field.Set(rv.Convert(dest))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s (%s)", value, c.Property, dest)
}
