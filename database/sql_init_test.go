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

package database_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/anvil/database"
	"github.com/tomoncle/anvil/internal/fixture"
)

func TestSQLInitManagerRunsDialectScripts(t *testing.T) {
	db := fixture.OpenSQLite(t)
	ctx := context.Background()

	var tables int
	require.NoError(t, db.NewRaw(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('person', 'animal', 'multikey', 'orders', 'token', 'cars')`).Scan(ctx, &tables))
	assert.Equal(t, 6, tables)

	files, err := database.NewSQLInitManager(db, fixture.Scripts, "sql").GetSQLFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		assert.Equal(t, "sqlite", f.Group, f.Path)
	}
}

func TestSQLInitManagerOrderAndFailure(t *testing.T) {
	db := fixture.OpenSQLite(t)
	ctx := context.Background()
	fsys := fstest.MapFS{
		"init/common/2_seed.sql":   {Data: []byte("INSERT INTO seeded (v) VALUES ('a');\nINSERT INTO seeded (v) VALUES ('b');")},
		"init/common/1_table.sql":  {Data: []byte("-- first\nCREATE TABLE seeded (v TEXT);")},
		"init/sqlite/1_broken.sql": {Data: []byte("INSERT INTO missing (v) VALUES (1);")},
		"init/mysql/1_other.sql":   {Data: []byte("this is not for sqlite;")},
	}

	m := database.NewSQLInitManager(db, fsys, "init")
	results, err := m.ExecuteInitialization(ctx)
	require.Error(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "init/common/1_table.sql", results[0].File)
	assert.Equal(t, 2, results[1].Statements)
	assert.EqualValues(t, 2, results[1].RowsAffected)
	assert.Error(t, results[2].Error)

	is, kind := database.IsSqlError(results[2].Error)
	assert.True(t, is)
	assert.Equal(t, database.NoTableErr, kind)
}

func TestSQLInitManagerEmpty(t *testing.T) {
	db := fixture.OpenSQLite(t)
	results, err := database.NewSQLInitManager(db, fstest.MapFS{}, "none").ExecuteInitialization(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, results)
}
