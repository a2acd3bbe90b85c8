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

// Package predicate is the filter model: field comparisons, property to
// property comparisons, ranges, existence tests and AND/OR groups over
// entity properties, plus sort orders and multi-entity batches.
//
// Properties are named by their Go field name. Ref[T] gives those names a
// type so that filters for one entity cannot be used for another:
//
//	const PersonLastName predicate.Ref[Person] = "LastName"
//
//	p := predicate.And(PersonLastName.Eq("Bar"), PersonActive.Eq(true))
//
// Nothing here knows about SQL; rendering lives in package sqlgen.
package predicate
