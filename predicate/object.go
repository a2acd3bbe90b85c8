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
	"fmt"
	"reflect"
	"sort"
)

// FromObject turns a filter argument into a predicate on entity.
//
// A nil filter means "all rows" and yields a nil predicate. A Predicate is
// returned unchanged. A struct (or pointer to struct) becomes an AND of
// equality predicates over its exported fields in declaration order, and a
// map with string keys does the same in sorted key order. Fields holding a
// slice or array turn into IN.
func FromObject(entity reflect.Type, filter any) (Predicate, error) {
	if filter == nil {
		return nil, nil
	}
	if p, ok := filter.(Predicate); ok {
		if isNil(p) {
			return nil, nil
		}
		return p, nil
	}

	v := reflect.ValueOf(filter)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}

	var fields []Predicate
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() || sf.Anonymous {
				continue
			}
			fields = append(fields, objectField(entity, sf.Name, v.Field(i).Interface()))
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("filter map must have string keys, got %s", v.Type())
		}
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			value := v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key())).Interface()
			fields = append(fields, objectField(entity, k, value))
		}
	default:
		return nil, fmt.Errorf("unsupported filter type %T", filter)
	}

	switch len(fields) {
	case 0:
		return nil, nil
	case 1:
		return fields[0], nil
	}
	return And(fields...), nil
}

func objectField(entity reflect.Type, name string, value any) Predicate {
	if IsNilValue(value) {
		value = nil
	}
	op := Eq
	if IsCollection(value) {
		op = In
	}
	return &FieldPredicate{Entity: entity, Property: name, Operator: op, Value: value}
}
