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

package predicate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	ID        int64
	FirstName string
	LastName  string
	Active    bool
}

type animal struct {
	ID    uuid.UUID
	Owner int64
}

const (
	firstName Ref[person] = "FirstName"
	lastName  Ref[person] = "LastName"
)

func TestAndFlattensNestedGroups(t *testing.T) {
	a := firstName.Eq("Foo")
	b := lastName.Eq("Bar")
	c := firstName.Eq("Baz")
	var typedNil *FieldPredicate

	g := And(a, nil, And(b, typedNil), Or(c, a))
	require.Len(t, g.Predicates, 3)
	assert.Same(t, a, g.Predicates[0])
	assert.Same(t, b, g.Predicates[1])
	or, ok := g.Predicates[2].(*Group)
	require.True(t, ok)
	assert.Equal(t, OrOp, or.Operator)
	assert.Len(t, or.Predicates, 2)
}

func TestPredicateString(t *testing.T) {
	p := And(firstName.Eq("Foo"), Or(lastName.In("Bar", "Baz"), lastName.IsNull()))
	assert.Equal(t, "(person.FirstName = Foo AND (person.LastName IN [Bar Baz] OR person.LastName IS NULL))", p.String())

	assert.Equal(t, "person.ID NOT BETWEEN 1 AND 5", NotBetween[person]("ID", 1, 5).String())
	assert.Equal(t, "person.ID <> animal.Owner", NotProperty[person, animal]("ID", Eq, "Owner").String())
	assert.Equal(t, "NOT EXISTS animal WHERE <all>", NotExists[animal](nil).String())
}

func TestRefIn(t *testing.T) {
	p := firstName.In([]string{"a", "b"})
	assert.Equal(t, In, p.Operator)
	assert.Equal(t, []any{"a", "b"}, p.Value)
	assert.Equal(t, EntityOf[person](), p.Entity)

	p = firstName.NotIn("a")
	assert.True(t, p.Not)
	assert.Equal(t, []any{"a"}, p.Value)

	s := lastName.Desc()
	assert.False(t, s.Ascending)
	assert.Equal(t, "person.LastName DESC", s.String())
	assert.True(t, Asc[*person]("ID").Ascending)
	assert.Equal(t, EntityOf[person](), Asc[*person]("ID").Entity)
}

func TestFieldValidate(t *testing.T) {
	tests := []struct {
		name string
		p    *FieldPredicate
		ok   bool
	}{
		{"eq scalar", firstName.Eq("x"), true},
		{"eq nil", firstName.IsNull(), true},
		{"eq collection", Field[person]("ID", Eq, []int{1, 2}), true},
		{"in collection", Field[person]("ID", In, []int{1, 2}), true},
		{"in scalar", Field[person]("ID", In, 1), false},
		{"gt nil", Field[person]("ID", Gt, nil), false},
		{"gt collection", Field[person]("ID", Gt, []int{1}), false},
		{"like string", firstName.Like("F%"), true},
		{"like int", Field[person]("ID", Like, 1), false},
		{"invalid operator", Field[person]("ID", Operator(99), 1), false},
		{"uuid scalar", Field[animal]("ID", Gt, uuid.New()), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	assert.Error(t, Property[person, person]("ID", In, "ID").Validate())
	assert.Error(t, Between[person]("ID", nil, 3).Validate())
	assert.Error(t, Between[person]("ID", []int{1}, 3).Validate())
	assert.NoError(t, Between[person]("ID", 1, 3).Validate())
}

func TestIsCollection(t *testing.T) {
	assert.True(t, IsCollection([]int{1}))
	assert.True(t, IsCollection([2]string{"a", "b"}))
	assert.True(t, IsCollection([]any{}))
	assert.False(t, IsCollection([]byte("raw")))
	assert.False(t, IsCollection(uuid.New()))
	assert.False(t, IsCollection("abc"))
	assert.False(t, IsCollection(nil))

	assert.Equal(t, []any{1, 2}, Values([2]int{1, 2}))
	assert.Equal(t, []any{"x"}, Values("x"))
}
