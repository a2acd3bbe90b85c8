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

// Package repository executes generated statements against a caller
// supplied connection or transaction and reads rows back into entities.
//
// An Executor fixes the dialect and mapper. Repository[T] runs key and
// filter based CRUD, counting and paging for one entity type, and
// GetMultiple/Read read several result sets of one batch in declaration
// order.
package repository
