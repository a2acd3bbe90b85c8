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

package anvil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/anvil"
	"github.com/tomoncle/anvil/database"
	"github.com/tomoncle/anvil/internal/fixture"
	"github.com/tomoncle/anvil/mapper"
	"github.com/tomoncle/anvil/predicate"
	"github.com/tomoncle/anvil/types"
)

func open(t *testing.T, mapperName string) *anvil.DB {
	t.Helper()
	ctx := context.Background()
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = ":memory:"
	cfg.QueryConfig.Mapper = mapperName

	db, err := anvil.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.NewSQLInitManager(db.Bun(), fixture.Scripts, "sql").ExecuteInitialization(ctx)
	require.NoError(t, err)
	return db
}

func TestOpenValidation(t *testing.T) {
	ctx := context.Background()
	_, err := anvil.Open(ctx, nil)
	assert.Error(t, err)

	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.QueryConfig.Mapper = "xml"
	_, err = anvil.Open(ctx, cfg)
	assert.ErrorContains(t, err, "unsupported mapper")
}

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	db := open(t, "bun")
	require.NoError(t, db.Register((*fixture.Person)(nil), (*fixture.Animal)(nil)))
	assert.Equal(t, "sqlite", db.Executor().Dialect().Name())
	assert.IsType(t, &mapper.Cache{}, db.Executor().Generator().Mapper())

	people := anvil.NewService[fixture.Person](db)
	foo := fixture.NewPerson("Foo", "Bar")
	id, err := people.Save(ctx, foo)
	require.NoError(t, err)
	require.NoError(t, people.SaveAll(ctx, fixture.NewPerson("Baz", "Bar"), fixture.NewPerson("Qux", "Quux")))

	got, err := people.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, foo.DateCreated.Equal(got.DateCreated), "%v != %v", foo.DateCreated, got.DateCreated)

	bars, err := people.List(ctx, map[string]any{"LastName": "Bar"}, fixture.PersonFirstName.Desc())
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "Foo", bars[0].FirstName)

	page, err := people.Page(ctx, nil, []predicate.Sort{fixture.PersonID.Asc()}, types.NewPageRequest(1, 2))
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Qux", page.Items[0].FirstName)
	assert.False(t, page.HasNext())

	err = db.RunInTx(ctx, func(tx *sql.Tx) error {
		txPeople := people.WithTx(tx)
		got.Active = false
		if _, err := txPeople.Update(ctx, got); err != nil {
			return err
		}
		got.FirstName = "ignored"
		got.LastName = "Renamed"
		return txPeople.UpdateFields(ctx, []*fixture.Person{got}, fixture.PersonLastName)
	})
	require.NoError(t, err)

	reloaded, err := people.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, reloaded.Active)
	assert.Equal(t, "Foo", reloaded.FirstName)
	assert.Equal(t, "Renamed", reloaded.LastName)

	n, err := people.Count(ctx, fixture.PersonActive.Eq(true))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	ok, err := people.Delete(ctx, reloaded)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = people.DeleteWhere(ctx, fixture.PersonLastName.Eq("nobody"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetMultipleOnPool(t *testing.T) {
	ctx := context.Background()
	db := open(t, "bun")
	_, err := anvil.Repo[fixture.Person](db).Insert(ctx, fixture.NewPerson("a", "b"))
	require.NoError(t, err)
	_, err = anvil.Repo[fixture.Animal](db).Insert(ctx, &fixture.Animal{Name: "Rex"})
	require.NoError(t, err)

	reader, err := db.GetMultiple(ctx, predicate.NewMultiple(
		predicate.Entry[fixture.Animal](fixture.AnimalName.Eq("Rex")),
		predicate.Entry[fixture.Person](nil),
	))
	require.NoError(t, err)
	defer reader.Close()

	animals, err := anvil.Read[fixture.Animal](ctx, reader)
	require.NoError(t, err)
	assert.Len(t, animals, 1)
	people, err := anvil.Read[fixture.Person](ctx, reader)
	require.NoError(t, err)
	assert.Len(t, people, 1)
}

func TestAutoMapper(t *testing.T) {
	ctx := context.Background()
	db := open(t, "auto")
	cars := anvil.NewService[fixture.Car](db)

	car := &fixture.Car{Name: "Beetle", OwnerID: 7, ModelYear: 1970, Secret: "not stored"}
	id, err := cars.Save(ctx, car)
	require.NoError(t, err)
	assert.NotZero(t, car.ID)

	got, err := cars.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1970, got.ModelYear)
	assert.Empty(t, got.Secret)

	owned, err := cars.List(ctx, struct{ OwnerID int64 }{7})
	require.NoError(t, err)
	assert.Len(t, owned, 1)
}
