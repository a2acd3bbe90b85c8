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

package mapper

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/anvil/internal/fixture"
)

func TestColumnName(t *testing.T) {
	tests := map[string]string{
		"ID":        "id",
		"Name":      "name",
		"FirstName": "first_name",
		"OwnerID":   "owner_id",
		"OwnerId":   "owner_id",
		"ModelYear": "model_year",
	}
	for field, want := range tests {
		assert.Equal(t, want, ColumnName(field), field)
	}
	assert.Equal(t, "cars", TableName("Car"))
	assert.Equal(t, "order_lines", TableName("OrderLine"))
	assert.Equal(t, "categories", TableName("Category"))
}

func TestAutoMapperConvention(t *testing.T) {
	d, err := NewAutoMapper().Descriptor(reflect.TypeFor[*fixture.Car]())
	require.NoError(t, err)
	assert.Equal(t, "cars", d.Table)
	assert.Equal(t, []string{"id", "name", "owner_id", "year"}, columnNames(d))

	require.NotNil(t, d.Identity())
	assert.Equal(t, "ID", d.Identity().Property)
	_, ok := d.Lookup("Secret")
	assert.False(t, ok)
	c, ok := d.Lookup("ModelYear")
	require.True(t, ok)
	assert.Equal(t, "year", c.Name)
}

type invoice struct {
	Number string `db:"number,pk"`
	Seq    int64  `db:",pk,auto"`
	Total  int64
}

type shipment struct {
	ShipmentId int64
	Carrier    string
}

type parcel struct {
	ID     uuid.UUID
	Weight int
}

type label struct {
	Text string
}

func TestAutoMapperKeys(t *testing.T) {
	m := NewAutoMapper()

	d, err := m.Descriptor(reflect.TypeFor[invoice]())
	require.NoError(t, err)
	require.Len(t, d.Keys(), 2)
	assert.Equal(t, Assigned, d.Keys()[0].Key)
	assert.Equal(t, "number", d.Keys()[0].Name)
	assert.Equal(t, Identity, d.Keys()[1].Key)
	assert.Equal(t, "seq", d.Keys()[1].Name)

	d, err = m.Descriptor(reflect.TypeFor[shipment]())
	require.NoError(t, err)
	require.Len(t, d.Keys(), 1)
	assert.Equal(t, "ShipmentId", d.Keys()[0].Property)
	assert.Equal(t, Identity, d.Keys()[0].Key)

	d, err = m.Descriptor(reflect.TypeFor[parcel]())
	require.NoError(t, err)
	require.Len(t, d.Keys(), 1)
	assert.Equal(t, Guid, d.Keys()[0].Key)
	assert.Nil(t, d.Identity())

	d, err = m.Descriptor(reflect.TypeFor[label]())
	require.NoError(t, err)
	assert.Empty(t, d.Keys())
}

type twoIdentities struct {
	A int64 `db:",pk,auto"`
	B int64 `db:",pk,autoincrement"`
}

func TestAutoMapperErrors(t *testing.T) {
	_, err := NewAutoMapper().Descriptor(reflect.TypeFor[twoIdentities]())
	assert.ErrorContains(t, err, "more than one identity")

	_, err = NewAutoMapper().Descriptor(reflect.TypeFor[string]())
	assert.Error(t, err)
}

func TestAutoMapperTableOverride(t *testing.T) {
	m := &AutoMapper{TableName: func(t reflect.Type) string { return "legacy_" + t.Name() }}
	d, err := m.Descriptor(reflect.TypeFor[label]())
	require.NoError(t, err)
	assert.Equal(t, "legacy_label", d.Table)
	assert.Equal(t, []string{"text"}, columnNames(d))
}

type Base struct {
	ID int64
}

type audited struct {
	*Base
	Name string
}

func TestColumnFieldAllocatesEmbedded(t *testing.T) {
	d, err := NewAutoMapper().Descriptor(reflect.TypeFor[audited]())
	require.NoError(t, err)
	c, ok := d.Lookup("ID")
	require.True(t, ok)
	assert.Equal(t, []int{0, 0}, c.Index)

	var a audited
	c.Field(reflect.ValueOf(&a).Elem()).SetInt(9)
	require.NotNil(t, a.Base)
	assert.Equal(t, int64(9), a.ID)
}
