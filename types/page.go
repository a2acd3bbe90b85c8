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
	"fmt"
	"math"
)

// PageRequest describes a zero-based page: page 0 is the first page.
type PageRequest struct {
	page     int
	pageSize int
}

// NewPageRequest constructs a PageRequest.
func NewPageRequest(page int, pageSize int) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize}
}

func (p *PageRequest) GetPage() int { return p.page }

func (p *PageRequest) GetPageSize() int { return p.pageSize }

// GetOffset returns the number of rows skipped before the page starts.
func (p *PageRequest) GetOffset() int {
	return p.page * p.pageSize
}

// Validate rejects negative pages, non-positive page sizes and pages whose
// offset does not fit in an int.
func (p *PageRequest) Validate() error {
	if p.page < 0 {
		return fmt.Errorf("page must not be negative, got %d", p.page)
	}
	if p.pageSize < 1 {
		return fmt.Errorf("page size must be positive, got %d", p.pageSize)
	}
	if p.page > math.MaxInt/p.pageSize {
		return fmt.Errorf("page %d of size %d is out of range", p.page, p.pageSize)
	}
	return nil
}

// Pagination holds paged result items along with pagination metadata.
type Pagination[T any] struct {
	Page     int
	PageSize int
	Total    int64
	Items    []*T
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{page, pageSize, 0, make([]*T, 0)}
}

// Pages returns the number of pages needed to hold Total items.
func (p *Pagination[T]) Pages() int64 {
	if p.PageSize < 1 {
		return 0
	}
	size := int64(p.PageSize)
	return (p.Total + size - 1) / size
}

// HasNext reports whether a page follows this one.
func (p *Pagination[T]) HasNext() bool {
	return int64(p.Page+1) < p.Pages()
}
