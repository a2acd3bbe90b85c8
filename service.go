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

package anvil

import (
	"context"
	"database/sql"

	"github.com/tomoncle/anvil/predicate"
	"github.com/tomoncle/anvil/repository"
	"github.com/tomoncle/anvil/types"
)

type Service[T any] interface {
	// Get returns a single entity by its key, or nil when absent.
	Get(ctx context.Context, key any) (*T, error)

	// List returns entities that match the filter in sort order.
	List(ctx context.Context, filter any, sort ...predicate.Sort) ([]*T, error)

	// Page returns one page of entities with the total count.
	Page(ctx context.Context, filter any, sort []predicate.Sort, page *types.PageRequest) (*types.Pagination[T], error)

	// Count returns the number of entities matching the filter.
	Count(ctx context.Context, filter any) (int64, error)

	// Save inserts a new entity and returns its key.
	Save(ctx context.Context, model *T) (any, error)

	// SaveAll inserts entities as one unit.
	SaveAll(ctx context.Context, models ...*T) error

	// Update writes every non-key property of an existing entity.
	Update(ctx context.Context, model *T) (bool, error)

	// UpdateFields writes only the selected properties of each entity.
	UpdateFields(ctx context.Context, models []*T, fields ...predicate.Ref[T]) error

	// Delete removes an entity by its key.
	Delete(ctx context.Context, model *T) (bool, error)

	// DeleteWhere removes the entities matching the filter.
	DeleteWhere(ctx context.Context, filter any) (bool, error)

	// WithTx returns a Service running inside tx.
	WithTx(tx *sql.Tx) Service[T]
}

type baseServiceImpl[T any] struct {
	repo repository.Repository[T]
}

// NewService returns a Service backed by the repository of T on db.
func NewService[T any](db *DB) Service[T] {
	return &baseServiceImpl[T]{repo: Repo[T](db)}
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, key any) (*T, error) {
	return s.repo.Get(ctx, key)
}

func (s *baseServiceImpl[T]) List(ctx context.Context, filter any, sort ...predicate.Sort) ([]*T, error) {
	return s.repo.GetList(ctx, filter, sort...)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, filter any, sort []predicate.Sort, page *types.PageRequest) (*types.Pagination[T], error) {
	return s.repo.Page(ctx, filter, sort, page)
}

func (s *baseServiceImpl[T]) Count(ctx context.Context, filter any) (int64, error) {
	return s.repo.Count(ctx, filter)
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, model *T) (any, error) {
	return s.repo.Insert(ctx, model)
}

func (s *baseServiceImpl[T]) SaveAll(ctx context.Context, models ...*T) error {
	return s.repo.InsertMany(ctx, models...)
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, model *T) (bool, error) {
	return s.repo.Update(ctx, model)
}

func (s *baseServiceImpl[T]) UpdateFields(ctx context.Context, models []*T, fields ...predicate.Ref[T]) error {
	return s.repo.UpdatePartial(ctx, models, fields...)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, model *T) (bool, error) {
	return s.repo.Delete(ctx, model)
}

func (s *baseServiceImpl[T]) DeleteWhere(ctx context.Context, filter any) (bool, error) {
	return s.repo.DeleteWhere(ctx, filter)
}

func (s *baseServiceImpl[T]) WithTx(tx *sql.Tx) Service[T] {
	return &baseServiceImpl[T]{repo: s.repo.WithTx(tx)}
}
