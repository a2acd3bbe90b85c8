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

// Package anvil compiles predicates over mapped entities into SQL for
// MySQL, PostgreSQL, SQLite and SQL Server, and runs the statements with
// plain database/sql connections.
//
// Open connects from a database.Config and wires the dialect, mapper and
// executor together:
//
//	db, err := anvil.Open(ctx, cfg)
//	people := anvil.NewService[Person](db)
//	list, err := people.List(ctx, PersonLastName.Eq("Bar"), PersonFirstName.Asc())
//
// The packages underneath can be used on their own: predicate builds the
// filter tree, sqlgen renders it for a dialect, and repository executes
// it.
package anvil
