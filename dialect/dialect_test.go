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

package dialect

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		d    Dialect
		in   string
		want string
	}{
		{NewMySQL(), "person", "`person`"},
		{NewMySQL(), "db.person", "`db`.`person`"},
		{NewMySQL(), "we`ird", "`we``ird`"},
		{NewPostgres(), "person", `"person"`},
		{NewPostgres(), `"person"`, `"person"`},
		{NewPostgres(), `public.Per"son`, `"public"."Per""son"`},
		{NewSQLite(), "Total", `"Total"`},
		{NewSQLServer(), "dbo.person", "[dbo].[person]"},
		{NewSQLServer(), "a]b", "[a]]b]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.Quote(tt.in), "%s %s", tt.d.Name(), tt.in)
	}
}

// binder collects bound parameters the way sqlgen.Parameters does.
type binder struct {
	d     Dialect
	names []string
	args  []any
}

func (b *binder) bind(name string, value any) string {
	b.names = append(b.names, fmt.Sprintf("%s_%d", name, len(b.names)))
	b.args = append(b.args, value)
	return b.d.Placeholder(b.names[len(b.names)-1], len(b.names))
}

func TestPaging(t *testing.T) {
	base := `SELECT "t"."id" FROM "t" ORDER BY "t"."id" ASC`
	tests := []struct {
		d     Dialect
		want  string
		names []string
		args  []any
	}{
		{NewMySQL(), base + " LIMIT ? OFFSET ?", []string{"Limit_0", "Offset_1"}, []any{10, 20}},
		{NewSQLite(), base + " LIMIT ? OFFSET ?", []string{"Limit_0", "Offset_1"}, []any{10, 20}},
		{NewPostgres(), base + " LIMIT $1 OFFSET $2", []string{"Limit_0", "Offset_1"}, []any{10, 20}},
		{NewSQLServer(), base + " OFFSET @Offset_0 ROWS FETCH NEXT @Limit_1 ROWS ONLY", []string{"Offset_0", "Limit_1"}, []any{20, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.d.Name(), func(t *testing.T) {
			b := &binder{d: tt.d}
			assert.Equal(t, tt.want, tt.d.Paging(base, 20, 10, b.bind))
			assert.Equal(t, tt.names, b.names)
			assert.Equal(t, tt.args, b.args)
		})
	}
}

func TestInClause(t *testing.T) {
	my := NewMySQL()
	assert.True(t, my.ExpandCollections())
	assert.Equal(t, "`t`.`id` IN (?, ?)", my.InClause("`t`.`id`", "?, ?", false))
	assert.Equal(t, "`t`.`id` NOT IN (?, ?)", my.InClause("`t`.`id`", "?, ?", true))

	pg := NewPostgres()
	assert.False(t, pg.ExpandCollections())
	assert.Equal(t, `"t"."id" = ANY($1)`, pg.InClause(`"t"."id"`, "$1", false))
	assert.Equal(t, `NOT ("t"."id" = ANY($1))`, pg.InClause(`"t"."id"`, "$1", true))
	_, ok := pg.CollectionParameter([]int64{1, 2}).(*pq.Int64Array)
	assert.True(t, ok)
}

func TestInsert(t *testing.T) {
	cols := []string{`"a"`, `"b"`}
	rows := []string{"(?, ?)", "(?, ?)"}

	assert.Equal(t, `INSERT INTO "t" ("a", "b") VALUES (?, ?), (?, ?)`, NewSQLite().Insert(`"t"`, cols, rows, ""))
	assert.Equal(t, `INSERT INTO "t" DEFAULT VALUES`, NewSQLite().Insert(`"t"`, nil, []string{"()"}, ""))
	assert.Equal(t, "INSERT INTO `t` () VALUES ()", NewMySQL().Insert("`t`", nil, []string{"()"}, ""))
	assert.Equal(t, `INSERT INTO "t" ("a", "b") VALUES ($1, $2) RETURNING "id"`,
		NewPostgres().Insert(`"t"`, cols, []string{"($1, $2)"}, `"id"`))
	assert.Equal(t, `INSERT INTO "t" DEFAULT VALUES RETURNING "id"`, NewPostgres().Insert(`"t"`, nil, nil, `"id"`))
	assert.Equal(t, "INSERT INTO [t] ([a], [b]) OUTPUT INSERTED.[id] VALUES (@A_0, @B_1)",
		NewSQLServer().Insert("[t]", []string{"[a]", "[b]"}, []string{"(@A_0, @B_1)"}, "[id]"))
	assert.Equal(t, "INSERT INTO [t] OUTPUT INSERTED.[id] DEFAULT VALUES", NewSQLServer().Insert("[t]", nil, nil, "[id]"))
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		d        Dialect
		key      KeyRetrieval
		multi    bool
		named    bool
		maxParam int
	}{
		{NewMySQL(), LastInsertID, true, false, 65535},
		{NewPostgres(), Returning, false, false, 65535},
		{NewSQLite(), LastInsertID, false, false, 32766},
		{NewSQLServer(), Output, true, true, 2098},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.key, tt.d.GeneratedKey(), tt.d.Name())
		assert.Equal(t, tt.multi, tt.d.SupportsMultipleStatements(), tt.d.Name())
		assert.Equal(t, tt.named, tt.d.NamedParameters(), tt.d.Name())
		assert.Equal(t, tt.maxParam, tt.d.MaxParameters(), tt.d.Name())
		assert.Equal(t, ";", tt.d.BatchSeparator())
		assert.Equal(t, "1=1", tt.d.EmptyExpression())
		assert.Equal(t, "1=0", tt.d.FalseExpression())
	}
	assert.Equal(t, "NOT EXISTS (SELECT 1)", NewSQLite().Exists("SELECT 1", true))
	assert.Equal(t, "@Name_3", NewSQLServer().Placeholder("Name_3", 4))
	assert.Equal(t, "$4", NewPostgres().Placeholder("Name_3", 4))
}

func TestForName(t *testing.T) {
	for name, want := range map[string]string{
		"MySQL": "mysql", "mariadb": "mysql",
		"postgresql": "postgres", " pgx ": "postgres",
		"sqlite3": "sqlite", "sqlserver": "mssql",
	} {
		d, err := ForName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, d.Name())
	}
	_, err := ForName("oracle")
	assert.Error(t, err)
}

func TestFromBun(t *testing.T) {
	d, err := FromBun(mysqldialect.New())
	require.NoError(t, err)
	assert.IsType(t, &MySQL{}, d)

	d, err = FromBun(pgdialect.New())
	require.NoError(t, err)
	assert.IsType(t, &Postgres{}, d)

	d, err = FromBun(sqlitedialect.New())
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, d)

	_, err = FromBun(nil)
	assert.Error(t, err)
}
