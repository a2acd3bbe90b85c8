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

// Ref names a property of entity T. Declaring refs once per entity keeps
// property names out of call sites:
//
//	const PersonLastName predicate.Ref[Person] = "LastName"
//	repo.GetList(ctx, PersonLastName.Eq("Bar"), PersonLastName.Asc())
//
// Names are checked against the entity descriptor when SQL is generated.
type Ref[T any] string

// Name returns the property name.
func (r Ref[T]) Name() string { return string(r) }

func (r Ref[T]) Eq(v any) *FieldPredicate { return Field[T](string(r), Eq, v) }

func (r Ref[T]) Ne(v any) *FieldPredicate { return NotField[T](string(r), Eq, v) }

func (r Ref[T]) Gt(v any) *FieldPredicate { return Field[T](string(r), Gt, v) }

func (r Ref[T]) Ge(v any) *FieldPredicate { return Field[T](string(r), Ge, v) }

func (r Ref[T]) Lt(v any) *FieldPredicate { return Field[T](string(r), Lt, v) }

func (r Ref[T]) Le(v any) *FieldPredicate { return Field[T](string(r), Le, v) }

func (r Ref[T]) Like(pattern string) *FieldPredicate { return Field[T](string(r), Like, pattern) }

func (r Ref[T]) NotLike(pattern string) *FieldPredicate { return NotField[T](string(r), Like, pattern) }

// In matches any of values. Passing a single slice is the same as passing
// its elements.
func (r Ref[T]) In(values ...any) *FieldPredicate {
	return Field[T](string(r), In, inValues(values))
}

func (r Ref[T]) NotIn(values ...any) *FieldPredicate {
	return NotField[T](string(r), In, inValues(values))
}

func (r Ref[T]) IsNull() *FieldPredicate { return Field[T](string(r), Eq, nil) }

func (r Ref[T]) NotNull() *FieldPredicate { return NotField[T](string(r), Eq, nil) }

func (r Ref[T]) Between(low, high any) *BetweenPredicate { return Between[T](string(r), low, high) }

func (r Ref[T]) Asc() Sort { return Asc[T](string(r)) }

func (r Ref[T]) Desc() Sort { return Desc[T](string(r)) }

func inValues(values []any) []any {
	if len(values) == 1 && IsCollection(values[0]) {
		return Values(values[0])
	}
	return values
}
