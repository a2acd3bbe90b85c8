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

package fixture

import (
	"context"
	"database/sql"
	"embed"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/tomoncle/anvil/database"
)

// Scripts holds the schema of the fixture entities per backend.
//
//go:embed sql
var Scripts embed.FS

// OpenSQLite returns a private in-memory database with the fixture schema.
// The pool holds one connection, so a statement issued outside an open
// transaction blocks until the transaction ends.
func OpenSQLite(tb testing.TB) *bun.DB {
	tb.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(tb, err)
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	tb.Cleanup(func() { _ = db.Close() })

	_, err = database.NewSQLInitManager(db, Scripts, "sql").ExecuteInitialization(context.Background())
	require.NoError(tb, err)
	return db
}
