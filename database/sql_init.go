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

package database

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/tomoncle/anvil/dialect"
)

// SQLInitManager runs the SQL scripts of a file system against a bun.DB.
// Scripts live in <root>/common and <root>/<dialect>, where dialect is one
// of mysql, postgres, sqlite or mssql. Within a directory files run
// in the order of their numeric prefix, e.g. 001_person.sql.
type SQLInitManager struct {
	db     *bun.DB
	fsys   fs.FS
	root   string
	logger Logger
}

// SQLFileInfo describes a SQL file to be executed during initialization.
type SQLFileInfo struct {
	Path  string
	Name  string
	Order int
	Group string
}

// ExecutionResult contains the outcome of executing a single SQL file.
type ExecutionResult struct {
	File         string
	Statements   int
	RowsAffected int64
	Duration     time.Duration
	Error        error
}

func NewSQLInitManager(db *bun.DB, fsys fs.FS, root string) *SQLInitManager {
	return &SQLInitManager{db: db, fsys: fsys, root: root, logger: NopLogger{}}
}

func (s *SQLInitManager) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// ExecuteInitialization runs every script, each in its own transaction, and
// stops at the first failure.
func (s *SQLInitManager) ExecuteInitialization(ctx context.Context) ([]ExecutionResult, error) {
	files, err := s.GetSQLFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL files: %w", err)
	}
	if len(files) == 0 {
		s.logger.Info("No SQL files found to execute", "root", s.root)
		return nil, nil
	}

	results := make([]ExecutionResult, 0, len(files))
	for _, file := range files {
		result := s.executeFile(ctx, file)
		results = append(results, result)
		if result.Error != nil {
			s.logger.Error("SQL file execution failed", "file", result.File, "error", result.Error)
			return results, fmt.Errorf("SQL file execution failed %s: %w", result.File, result.Error)
		}
		s.logger.Debug("SQL file executed successfully", "file", result.File,
			"statements", result.Statements, "duration", result.Duration)
	}
	s.logger.Info("SQL initialization completed", "total_files", len(results))
	return results, nil
}

// GetSQLFiles lists the common scripts followed by the dialect scripts.
func (s *SQLInitManager) GetSQLFiles() ([]SQLFileInfo, error) {
	d, err := dialect.FromBun(s.db.Dialect())
	if err != nil {
		return nil, err
	}
	var files []SQLFileInfo
	for _, group := range []string{"common", d.Name()} {
		found, err := s.getFilesFromDir(path.Join(s.root, group), group)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(found, func(i, j int) bool {
			if found[i].Order != found[j].Order {
				return found[i].Order < found[j].Order
			}
			return found[i].Name < found[j].Name
		})
		files = append(files, found...)
	}
	return files, nil
}

func (s *SQLInitManager) getFilesFromDir(dir, group string) ([]SQLFileInfo, error) {
	var files []SQLFileInfo
	err := fs.WalkDir(s.fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			return nil
		}
		files = append(files, SQLFileInfo{Path: p, Name: d.Name(), Order: parseFileOrder(d.Name()), Group: group})
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return files, err
}

var fileOrder = regexp.MustCompile(`^(\d+)_`)

func parseFileOrder(filename string) int {
	if m := fileOrder.FindStringSubmatch(filename); len(m) > 1 {
		if order, err := strconv.Atoi(m[1]); err == nil {
			return order
		}
	}
	return 999
}

func (s *SQLInitManager) executeFile(ctx context.Context, file SQLFileInfo) ExecutionResult {
	start := time.Now()
	result := ExecutionResult{File: file.Path}

	content, err := fs.ReadFile(s.fsys, file.Path)
	if err != nil {
		result.Error = fmt.Errorf("failed to read file: %w", err)
		result.Duration = time.Since(start)
		return result
	}
	statements := splitSQLStatements(string(content))
	result.Statements = len(statements)
	if len(statements) == 0 {
		result.Duration = time.Since(start)
		return result
	}

	result.Error = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, stmt := range statements {
			res, err := tx.ExecContext(ctx, stmt)
			if err != nil {
				return fmt.Errorf("failed to execute SQL statement: %s, error: %w", stmt, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				result.RowsAffected += n
			}
		}
		return nil
	})
	result.Duration = time.Since(start)
	return result
}

// splitSQLStatements splits on semicolons ending a line and drops "--"
// comment lines.
func splitSQLStatements(content string) []string {
	var statements []string
	var current strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString(" ")
		if strings.HasSuffix(line, ";") {
			if stmt := strings.TrimSuffix(strings.TrimSpace(current.String()), ";"); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}
	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}
