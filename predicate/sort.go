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
)

// Sort orders results by one property. A slice of sorts is applied in
// declaration order.
type Sort struct {
	Entity    reflect.Type
	Property  string
	Ascending bool
}

// Asc sorts by property of T in ascending order.
func Asc[T any](property string) Sort {
	return Sort{Entity: EntityOf[T](), Property: property, Ascending: true}
}

// Desc sorts by property of T in descending order.
func Desc[T any](property string) Sort {
	return Sort{Entity: EntityOf[T](), Property: property}
}

func (s Sort) String() string {
	dir := "DESC"
	if s.Ascending {
		dir = "ASC"
	}
	return fmt.Sprintf("%s.%s %s", shortName(s.Entity), s.Property, dir)
}
