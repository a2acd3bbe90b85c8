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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest(t *testing.T) {
	req := NewPageRequest(2, 10)
	assert.Equal(t, 20, req.GetOffset())
	assert.NoError(t, req.Validate())

	assert.Equal(t, 0, NewPageRequest(0, 10).GetOffset())
	assert.Error(t, NewPageRequest(-1, 10).Validate())
	assert.Error(t, NewPageRequest(0, 0).Validate())
}

func TestPageRequestOffsetOverflow(t *testing.T) {
	assert.NoError(t, NewPageRequest(math.MaxInt/2, 2).Validate())
	assert.ErrorContains(t, NewPageRequest(math.MaxInt/2+1, 2).Validate(), "out of range")
	assert.Error(t, NewPageRequest(math.MaxInt, math.MaxInt).Validate())
	assert.NoError(t, NewPageRequest(math.MaxInt, 1).Validate())
}

func TestPagination(t *testing.T) {
	tests := []struct {
		page, size int
		total      int64
		pages      int64
		next       bool
	}{
		{0, 10, 0, 0, false},
		{0, 10, 5, 1, false},
		{0, 10, 10, 1, false},
		{0, 10, 11, 2, true},
		{1, 10, 11, 2, false},
		{0, 0, 11, 0, false},
	}
	for _, tt := range tests {
		p := NewDefaultPagination[struct{}](tt.page, tt.size)
		p.Total = tt.total
		assert.Equal(t, tt.pages, p.Pages(), "total %d size %d", tt.total, tt.size)
		assert.Equal(t, tt.next, p.HasNext(), "page %d total %d", tt.page, tt.total)
		assert.NotNil(t, p.Items)
	}
}
