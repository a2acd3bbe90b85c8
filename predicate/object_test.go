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
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var personType = reflect.TypeFor[person]()

func TestFromObjectPassThrough(t *testing.T) {
	p, err := FromObject(personType, nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	var typedNil *Group
	p, err = FromObject(personType, typedNil)
	require.NoError(t, err)
	assert.Nil(t, p)

	want := firstName.Eq("Foo")
	p, err = FromObject(personType, want)
	require.NoError(t, err)
	assert.Same(t, want, p)
}

func TestFromObjectStruct(t *testing.T) {
	p, err := FromObject(personType, struct {
		FirstName string
		ID        []int
		hidden    int
	}{FirstName: "Foo", ID: []int{1, 2}})
	require.NoError(t, err)

	g, ok := p.(*Group)
	require.True(t, ok)
	require.Len(t, g.Predicates, 2)
	first := g.Predicates[0].(*FieldPredicate)
	assert.Equal(t, "FirstName", first.Property)
	assert.Equal(t, Eq, first.Operator)
	assert.Equal(t, personType, first.Entity)
	second := g.Predicates[1].(*FieldPredicate)
	assert.Equal(t, "ID", second.Property)
	assert.Equal(t, In, second.Operator)

	p, err = FromObject(personType, &struct{ LastName string }{"Bar"})
	require.NoError(t, err)
	assert.Equal(t, "person.LastName = Bar", p.String())

	p, err = FromObject(personType, struct{}{})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestFromObjectMap(t *testing.T) {
	p, err := FromObject(personType, map[string]any{"LastName": "Bar", "FirstName": "Foo"})
	require.NoError(t, err)
	assert.Equal(t, "(person.FirstName = Foo AND person.LastName = Bar)", p.String())

	_, err = FromObject(personType, map[int]any{1: "x"})
	assert.Error(t, err)

	_, err = FromObject(personType, 42)
	assert.Error(t, err)
}

func TestFromObjectNilPointerIsNull(t *testing.T) {
	fromStruct, err := FromObject(personType, struct{ LastName *string }{})
	require.NoError(t, err)
	fromMap, err := FromObject(personType, map[string]any{"LastName": nil})
	require.NoError(t, err)
	assert.Equal(t, fromMap, fromStruct)
	assert.Equal(t, "person.LastName IS NULL", fromStruct.String())

	last := "Bar"
	p, err := FromObject(personType, struct{ LastName *string }{&last})
	require.NoError(t, err)
	assert.Same(t, &last, p.(*FieldPredicate).Value)
}

func TestIsNilValue(t *testing.T) {
	var m map[string]int
	var e error
	assert.True(t, IsNilValue(nil))
	assert.True(t, IsNilValue((*int)(nil)))
	assert.True(t, IsNilValue(m))
	assert.True(t, IsNilValue(e))
	assert.False(t, IsNilValue([]int(nil)), "a nil slice is an empty collection")
	assert.False(t, IsNilValue(0))
	assert.False(t, IsNilValue(""))
}
