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
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/uptrace/bun"

	"github.com/tomoncle/anvil/predicate"
)

// Person has a database generated identity key.
type Person struct {
	bun.BaseModel `bun:"table:person"`

	ID          int64     `bun:"id,pk,autoincrement"`
	FirstName   string    `bun:"first_name"`
	LastName    string    `bun:"last_name"`
	Active      bool      `bun:"active"`
	DateCreated time.Time `bun:"date_created"`
}

// Animal has a client generated uuid key.
type Animal struct {
	bun.BaseModel `bun:"table:animal"`

	ID   uuid.UUID `bun:"id,pk"`
	Name string    `bun:"name"`
}

// Multikey has a composite key of an identity and an assigned column.
type Multikey struct {
	bun.BaseModel `bun:"table:multikey"`

	Key1  int64  `bun:"key1,pk,autoincrement"`
	Key2  string `bun:"key2,pk"`
	Value string `bun:"value"`
}

// Order has an assigned numeric key.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID       int64  `bun:"id,pk"`
	Customer string `bun:"customer"`
	Amount   int64  `bun:"amount"`
}

// Token has a client generated ulid key.
type Token struct {
	bun.BaseModel `bun:"table:token"`

	ID    ulid.ULID `bun:"id,pk"`
	Owner string    `bun:"owner"`
}

// Car is mapped by naming convention into table "cars".
type Car struct {
	ID        int64
	Name      string
	OwnerID   int64
	Secret    string `db:"-"`
	ModelYear int    `db:"year"`
}

// Typed property references of Person.
const (
	PersonID          predicate.Ref[Person] = "ID"
	PersonFirstName   predicate.Ref[Person] = "FirstName"
	PersonLastName    predicate.Ref[Person] = "LastName"
	PersonActive      predicate.Ref[Person] = "Active"
	PersonDateCreated predicate.Ref[Person] = "DateCreated"
)

const AnimalName predicate.Ref[Animal] = "Name"

// NewPerson returns an active person created at a UTC second boundary so it
// survives a round trip through any backend.
func NewPerson(first, last string) *Person {
	return &Person{
		FirstName:   first,
		LastName:    last,
		Active:      true,
		DateCreated: time.Now().UTC().Truncate(time.Second),
	}
}
