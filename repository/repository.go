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
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/tomoncle/anvil/dialect"
	"github.com/tomoncle/anvil/mapper"
	"github.com/tomoncle/anvil/predicate"
	"github.com/tomoncle/anvil/sqlgen"
	"github.com/tomoncle/anvil/types"
)

type baseRepositoryImpl[T any] struct {
	ex   *Executor
	conn Conn
}

// NewRepository returns a repository for T running statements on conn. A
// nil executor or connection makes every call fail with a configuration
// error before anything is sent.
func NewRepository[T any](ex *Executor, conn Conn) Repository[T] {
	return &baseRepositoryImpl[T]{ex: ex, conn: conn}
}

func (r *baseRepositoryImpl[T]) WithTx(tx *sql.Tx) Repository[T] {
	return &baseRepositoryImpl[T]{ex: r.ex, conn: tx}
}

func (r *baseRepositoryImpl[T]) Executor() *Executor { return r.ex }

func (r *baseRepositoryImpl[T]) entity() string {
	return predicate.EntityOf[T]().String()
}

func (r *baseRepositoryImpl[T]) descriptor(op string) (*mapper.Descriptor, error) {
	if r.ex == nil {
		return nil, types.NewError(types.KindConfiguration, op, r.entity(), "", fmt.Errorf("executor is nil"))
	}
	if r.conn == nil {
		return nil, types.NewError(types.KindConfiguration, op, r.entity(), "", fmt.Errorf("connection is nil"))
	}
	return r.ex.generator.Descriptor(predicate.EntityOf[T]())
}

func (r *baseRepositoryImpl[T]) filter(op string, d *mapper.Descriptor, filter any) (predicate.Predicate, error) {
	p, err := predicate.FromObject(d.Type, filter)
	if err != nil {
		return nil, types.NewError(types.KindValidation, op, d.Name(), fmt.Sprintf("%v", filter), err)
	}
	return p, nil
}

func describe(p predicate.Predicate) string {
	if predicate.IsNil(p) {
		return "<all>"
	}
	return p.String()
}

// fillKeys generates client side keys that are still zero. The returned
// func puts the zero values back.
func fillKeys(d *mapper.Descriptor, v reflect.Value) (restore func()) {
	var filled []reflect.Value
	for _, c := range d.Keys() {
		var generated any
		switch c.Key {
		case mapper.Guid:
			generated = uuid.New()
		case mapper.Ulid:
			generated = ulid.Make()
		default:
			continue
		}
		field := c.Field(v)
		if field.Kind() == reflect.Pointer {
			if field.IsNil() {
				p := reflect.New(field.Type().Elem())
				p.Elem().Set(reflect.ValueOf(generated))
				field.Set(p)
				filled = append(filled, field)
			}
			continue
		}
		if field.IsZero() {
			field.Set(reflect.ValueOf(generated))
			filled = append(filled, field)
		}
	}
	return func() {
		for _, field := range filled {
			field.SetZero()
		}
	}
}

func keyValue(d *mapper.Descriptor, v reflect.Value) any {
	keys := d.Keys()
	switch len(keys) {
	case 0:
		return nil
	case 1:
		return keys[0].Value(v)
	}
	out := make(map[string]any, len(keys))
	for _, c := range keys {
		out[c.Property] = c.Value(v)
	}
	return out
}

func (r *baseRepositoryImpl[T]) Insert(ctx context.Context, entity *T) (_ any, err error) {
	const op = "Insert"
	d, err := r.descriptor(op)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, types.Validationf(op, d.Name(), "entity is nil")
	}
	v := reflect.ValueOf(entity).Elem()
	restore := fillKeys(d, v)
	defer func() {
		if err != nil {
			restore()
		}
	}()

	statements, err := r.ex.generator.Insert(d, []reflect.Value{v}, true)
	if err != nil {
		return nil, err
	}
	st := statements[0]
	id := d.Identity()
	switch {
	case id == nil:
		if _, err := r.ex.exec(ctx, r.conn, op, d.Name(), "", st); err != nil {
			return nil, err
		}
	case r.ex.Dialect().GeneratedKey() == dialect.LastInsertID:
		res, err := r.ex.exec(ctx, r.conn, op, d.Name(), "", st)
		if err != nil {
			return nil, err
		}
		generated, err := res.LastInsertId()
		if err != nil {
			return nil, r.ex.backend(op, d.Name(), "last insert id", err)
		}
		if err := assign(id, v, generated); err != nil {
			return nil, types.NewError(types.KindBackend, op, d.Name(), "generated key", err)
		}
	default:
		rows, err := r.ex.query(ctx, r.conn, op, d.Name(), "", st)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		if err := scanValue(rows, id.Target(v)); err != nil {
			return nil, r.ex.backend(op, d.Name(), "generated key", err)
		}
	}
	return keyValue(d, v), nil
}

func (r *baseRepositoryImpl[T]) InsertMany(ctx context.Context, entities ...*T) (err error) {
	const op = "InsertMany"
	d, err := r.descriptor(op)
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		return nil
	}
	rows := make([]reflect.Value, len(entities))
	for i, entity := range entities {
		if entity == nil {
			return types.Validationf(op, d.Name(), "entity %d is nil", i)
		}
		rows[i] = reflect.ValueOf(entity).Elem()
	}
	restores := make([]func(), len(rows))
	for i, row := range rows {
		restores[i] = fillKeys(d, row)
	}
	defer func() {
		if err != nil {
			for _, restore := range restores {
				restore()
			}
		}
	}()
	statements, err := r.ex.generator.Insert(d, rows, false)
	if err != nil {
		return err
	}
	run := func(conn Conn) error {
		for _, st := range statements {
			if _, err := r.ex.exec(ctx, conn, op, d.Name(), fmt.Sprintf("%d rows", len(entities)), st); err != nil {
				return err
			}
		}
		return nil
	}
	if len(statements) == 1 {
		return run(r.conn)
	}
	return r.ex.inTx(ctx, r.conn, op, d.Name(), run)
}

func (r *baseRepositoryImpl[T]) Get(ctx context.Context, key any) (*T, error) {
	const op = "Get"
	d, err := r.descriptor(op)
	if err != nil {
		return nil, err
	}
	p, err := r.ex.generator.KeyPredicate(d, key)
	if err != nil {
		return nil, err
	}
	st, err := r.ex.generator.Select(d, p, nil)
	if err != nil {
		return nil, err
	}
	items, err := r.list(ctx, op, d, p, st)
	if err != nil {
		return nil, err
	}
	switch len(items) {
	case 0:
		return nil, nil
	case 1:
		return items[0], nil
	}
	return nil, types.NewError(types.KindIntegrity, op, d.Name(), describe(p),
		fmt.Errorf("key matched %d rows", len(items)))
}

func (r *baseRepositoryImpl[T]) list(ctx context.Context, op string, d *mapper.Descriptor, p predicate.Predicate, st sqlgen.Statement) ([]*T, error) {
	rows, err := r.ex.query(ctx, r.conn, op, d.Name(), describe(p), st)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, err := scanRows[T](d, rows)
	if err != nil {
		return nil, r.ex.backend(op, d.Name(), describe(p), err)
	}
	return items, nil
}

func (r *baseRepositoryImpl[T]) GetList(ctx context.Context, filter any, sort ...predicate.Sort) ([]*T, error) {
	const op = "GetList"
	d, err := r.descriptor(op)
	if err != nil {
		return nil, err
	}
	p, err := r.filter(op, d, filter)
	if err != nil {
		return nil, err
	}
	st, err := r.ex.generator.Select(d, p, sort)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, op, d, p, st)
}

func (r *baseRepositoryImpl[T]) GetPage(ctx context.Context, filter any, sort []predicate.Sort, page, pageSize int) ([]*T, error) {
	const op = "GetPage"
	d, err := r.descriptor(op)
	if err != nil {
		return nil, err
	}
	p, err := r.filter(op, d, filter)
	if err != nil {
		return nil, err
	}
	st, err := r.ex.generator.SelectPaged(d, p, sort, page, pageSize)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, op, d, p, st)
}

func (r *baseRepositoryImpl[T]) GetSet(ctx context.Context, filter any, sort []predicate.Sort, firstResult, maxResults int) ([]*T, error) {
	const op = "GetSet"
	d, err := r.descriptor(op)
	if err != nil {
		return nil, err
	}
	p, err := r.filter(op, d, filter)
	if err != nil {
		return nil, err
	}
	st, err := r.ex.generator.SelectSet(d, p, sort, firstResult, maxResults)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, op, d, p, st)
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, filter any, sort []predicate.Sort, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	const op = "Page"
	switch {
	case pageRequest == nil:
		return nil, types.Validationf(op, r.entity(), "page request is nil")
	case len(sort) == 0:
		return nil, types.Validationf(op, r.entity(), "paging requires at least one sort")
	}
	if err := pageRequest.Validate(); err != nil {
		return nil, types.NewError(types.KindValidation, op, r.entity(), "", err)
	}
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return pagination, nil
	}
	items, err := r.GetPage(ctx, filter, sort, pageRequest.GetPage(), pageRequest.GetPageSize())
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = items
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, filter any) (int64, error) {
	const op = "Count"
	d, err := r.descriptor(op)
	if err != nil {
		return 0, err
	}
	p, err := r.filter(op, d, filter)
	if err != nil {
		return 0, err
	}
	st, err := r.ex.generator.Count(d, p)
	if err != nil {
		return 0, err
	}
	rows, err := r.ex.query(ctx, r.conn, op, d.Name(), describe(p), st)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	var total int64
	if err := scanValue(rows, &total); err != nil {
		return 0, r.ex.backend(op, d.Name(), describe(p), err)
	}
	return total, nil
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) (bool, error) {
	const op = "Update"
	d, err := r.descriptor(op)
	if err != nil {
		return false, err
	}
	if entity == nil {
		return false, types.Validationf(op, d.Name(), "entity is nil")
	}
	v := reflect.ValueOf(entity).Elem()
	st, err := r.ex.generator.Update(d, v)
	if err != nil {
		return false, err
	}
	return r.affected(ctx, r.conn, op, d, describe(r.ex.generator.EntityKey(d, v)), st)
}

func (r *baseRepositoryImpl[T]) UpdatePartial(ctx context.Context, entities []*T, properties ...predicate.Ref[T]) error {
	const op = "UpdatePartial"
	d, err := r.descriptor(op)
	if err != nil {
		return err
	}
	if len(properties) == 0 {
		return types.Validationf(op, d.Name(), "no properties selected")
	}
	if len(entities) == 0 {
		return nil
	}
	names := make([]string, len(properties))
	for i, p := range properties {
		names[i] = p.Name()
	}
	statements := make([]sqlgen.Statement, len(entities))
	keys := make([]string, len(entities))
	for i, entity := range entities {
		if entity == nil {
			return types.Validationf(op, d.Name(), "entity %d is nil", i)
		}
		v := reflect.ValueOf(entity).Elem()
		if statements[i], err = r.ex.generator.Update(d, v, names...); err != nil {
			return err
		}
		keys[i] = describe(r.ex.generator.EntityKey(d, v))
	}
	run := func(conn Conn) error {
		for i, st := range statements {
			if _, err := r.ex.exec(ctx, conn, op, d.Name(), keys[i], st); err != nil {
				return err
			}
		}
		return nil
	}
	if len(statements) == 1 {
		return run(r.conn)
	}
	return r.ex.inTx(ctx, r.conn, op, d.Name(), run)
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, entity *T) (bool, error) {
	const op = "Delete"
	d, err := r.descriptor(op)
	if err != nil {
		return false, err
	}
	if entity == nil {
		return false, types.Validationf(op, d.Name(), "entity is nil")
	}
	v := reflect.ValueOf(entity).Elem()
	st, err := r.ex.generator.DeleteByKey(d, v)
	if err != nil {
		return false, err
	}
	return r.affected(ctx, r.conn, op, d, describe(r.ex.generator.EntityKey(d, v)), st)
}

func (r *baseRepositoryImpl[T]) DeleteWhere(ctx context.Context, filter any) (bool, error) {
	const op = "DeleteWhere"
	d, err := r.descriptor(op)
	if err != nil {
		return false, err
	}
	p, err := r.filter(op, d, filter)
	if err != nil {
		return false, err
	}
	st, err := r.ex.generator.Delete(d, p)
	if err != nil {
		return false, err
	}
	return r.affected(ctx, r.conn, op, d, describe(p), st)
}

func (r *baseRepositoryImpl[T]) affected(ctx context.Context, conn Conn, op string, d *mapper.Descriptor, detail string, st sqlgen.Statement) (bool, error) {
	res, err := r.ex.exec(ctx, conn, op, d.Name(), detail, st)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, r.ex.backend(op, d.Name(), detail, err)
	}
	return n > 0, nil
}
