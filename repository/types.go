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
	"context"
	"database/sql"

	"github.com/tomoncle/anvil/predicate"
	"github.com/tomoncle/anvil/types"
)

// CrudRepository defines key based operations for a generic entity type.
type CrudRepository[T any] interface {
	// Insert writes entity and returns its key: the key value for single
	// column keys, a map of property to value for composite keys. A
	// generated key is also stored into entity.
	Insert(ctx context.Context, entity *T) (any, error)

	// InsertMany writes all entities as one unit. Generated keys are not
	// read back.
	InsertMany(ctx context.Context, entities ...*T) error

	// Get returns the entity with the given key, or nil when there is none.
	Get(ctx context.Context, key any) (*T, error)

	Update(ctx context.Context, entity *T) (bool, error)

	// UpdatePartial writes only the selected properties of each entity.
	UpdatePartial(ctx context.Context, entities []*T, properties ...predicate.Ref[T]) error

	Delete(ctx context.Context, entity *T) (bool, error)
}

// QueryRepository defines filter based operations. A filter is nil (all
// rows), a predicate.Predicate, or a struct or map of property values.
type QueryRepository[T any] interface {
	GetList(ctx context.Context, filter any, sort ...predicate.Sort) ([]*T, error)

	Count(ctx context.Context, filter any) (int64, error)

	// DeleteWhere reports whether at least one row was deleted.
	DeleteWhere(ctx context.Context, filter any) (bool, error)
}

// PageQueryRepository defines pagination over a non-empty sort.
type PageQueryRepository[T any] interface {
	// GetPage returns at most pageSize rows starting at page*pageSize.
	GetPage(ctx context.Context, filter any, sort []predicate.Sort, page, pageSize int) ([]*T, error)

	// GetSet returns at most maxResults rows starting at firstResult.
	GetSet(ctx context.Context, filter any, sort []predicate.Sort, firstResult, maxResults int) ([]*T, error)

	Page(ctx context.Context, filter any, sort []predicate.Sort, page *types.PageRequest) (*types.Pagination[T], error)
}

// Repository combines every operation and can be rebound to a transaction.
type Repository[T any] interface {
	CrudRepository[T]
	QueryRepository[T]
	PageQueryRepository[T]
	WithTx(tx *sql.Tx) Repository[T]
	Executor() *Executor
}
