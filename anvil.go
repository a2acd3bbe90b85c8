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
	"fmt"

	"github.com/uptrace/bun"

	"github.com/tomoncle/anvil/database"
	"github.com/tomoncle/anvil/mapper"
	"github.com/tomoncle/anvil/predicate"
	"github.com/tomoncle/anvil/repository"
)

// DB is a connected database with the executor configured for it.
type DB struct {
	manager  database.AbstractDatabaseManager
	mapper   *mapper.Cache
	executor *repository.Executor
}

// Open connects using cfg and builds the executor. Options are applied after
// the ones derived from cfg.
func Open(ctx context.Context, cfg *database.Config, opts ...repository.Option) (*DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	logger := database.NewLogger("ANVIL")
	factory := database.NewDatabaseFactory(logger)
	manager, err := factory.CreateFromConfig(&cfg.ConnectionConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := factory.InitializeDatabase(ctx); err != nil {
		return nil, err
	}

	db, err := newDB(manager, cfg.QueryConfig, logger, opts...)
	if err != nil {
		_ = manager.Disconnect()
		return nil, err
	}
	return db, nil
}

func newDB(manager database.AbstractDatabaseManager, cfg database.QueryConfig, logger database.Logger, opts ...repository.Option) (*DB, error) {
	var m mapper.Mapper
	switch cfg.Mapper {
	case "", "bun":
		m = mapper.NewBunMapper(manager.GetDB())
	case "auto":
		m = mapper.NewAutoMapper()
	default:
		return nil, fmt.Errorf("unsupported mapper: %q", cfg.Mapper)
	}
	cache := mapper.NewCache(m)

	options := []repository.Option{
		repository.WithLogger(logger),
		repository.WithHooks(manager.StatementHooks()...),
		repository.WithSequentialBatches(cfg.SequentialBatches),
	}
	executor, err := repository.NewExecutor(manager.Dialect(), cache, append(options, opts...)...)
	if err != nil {
		return nil, err
	}
	return &DB{manager: manager, mapper: cache, executor: executor}, nil
}

func (db *DB) Manager() database.AbstractDatabaseManager { return db.manager }

func (db *DB) Executor() *repository.Executor { return db.executor }

func (db *DB) SQL() *sql.DB { return db.manager.GetSQLDB() }

func (db *DB) Bun() *bun.DB { return db.manager.GetDB() }

// Register resolves entity mappings up front, see mapper.Cache.Register.
func (db *DB) Register(entities ...any) error { return db.mapper.Register(entities...) }

// RunInTx runs fn in a transaction on the connection pool.
func (db *DB) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return repository.RunInTx(ctx, db.SQL(), fn)
}

// GetMultiple runs a multi-entity batch on the connection pool.
func (db *DB) GetMultiple(ctx context.Context, m *predicate.Multiple) (*repository.MultipleReader, error) {
	return repository.GetMultiple(ctx, db.executor, db.SQL(), m)
}

func (db *DB) Close() error { return db.manager.Disconnect() }

// Repo returns the repository of T on the connection pool.
func Repo[T any](db *DB) repository.Repository[T] {
	return repository.NewRepository[T](db.executor, db.SQL())
}

// Read returns the next result set of a GetMultiple batch.
func Read[T any](ctx context.Context, r *repository.MultipleReader) ([]*T, error) {
	return repository.Read[T](ctx, r)
}
