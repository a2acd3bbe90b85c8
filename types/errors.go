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

package types

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures surfaced by the query layer.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindConfiguration means the executor was built without a dialect or
	// mapper. Nothing is sent to the database.
	KindConfiguration
	// KindValidation covers predicate, sort, key and paging problems found
	// while generating SQL.
	KindValidation
	// KindIntegrity means a lookup by key matched more than one row.
	KindIntegrity
	// KindBackend wraps an error returned by the driver.
	KindBackend
	// KindCanceled means the caller's context was canceled or timed out.
	KindCanceled
)

var kindNames = map[ErrorKind][2]string{
	KindConfiguration: {"configuration", "executor is not configured"},
	KindValidation:    {"validation", "statement failed validation"},
	KindIntegrity:     {"integrity", "data integrity violation"},
	KindBackend:       {"backend", "backend execution failed"},
	KindCanceled:      {"canceled", "operation canceled"},
}

var _ BaseEnum = KindBackend

func (k ErrorKind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k ErrorKind) Number() int {
	if !k.IsValid() {
		return IllegalValue
	}
	return int(k)
}

func (k ErrorKind) String() string { return k.Name() }

func (k ErrorKind) Name() string {
	if n, ok := kindNames[k]; ok {
		return n[0]
	}
	return IllegalName
}

func (k ErrorKind) Desc() string {
	if n, ok := kindNames[k]; ok {
		return n[1]
	}
	return IllegalDesc
}

// Error is the error type returned by every operation of the query layer.
// Op names the operation, Entity the Go type it ran against and Detail the
// rendered predicate or key that triggered the failure.
type Error struct {
	Kind   ErrorKind
	Op     string
	Entity string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Name())
	if e.Op != "" {
		b.WriteString(" error in ")
		b.WriteString(e.Op)
	} else {
		b.WriteString(" error")
	}
	if e.Entity != "" {
		fmt.Fprintf(&b, " [%s]", e.Entity)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error. A context cancellation in err upgrades a backend
// error to KindCanceled.
func NewError(kind ErrorKind, op, entity, detail string, err error) *Error {
	if kind == KindBackend && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		kind = KindCanceled
	}
	return &Error{Kind: kind, Op: op, Entity: entity, Detail: detail, Err: err}
}

// Validationf is shorthand for a validation error with a formatted cause.
func Validationf(op, entity, format string, args ...interface{}) *Error {
	return NewError(KindValidation, op, entity, "", fmt.Errorf(format, args...))
}

// IsKind reports whether any Error in err's chain has the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
