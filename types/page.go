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

import "strings"

// QueryFilter is a WHERE fragment with bun placeholders and its arguments.
type QueryFilter struct {
	Schema string
	Args   []interface{}
}

// NewQueryFilter creates a new query filter with schema and args.
func NewQueryFilter(schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{schema, args}
}

// And returns a filter matching both f and the given condition. A nil
// receiver yields the condition alone.
func (f *QueryFilter) And(schema string, args ...interface{}) *QueryFilter {
	if f == nil || strings.TrimSpace(f.Schema) == "" {
		return NewQueryFilter(schema, args...)
	}
	merged := make([]interface{}, 0, len(f.Args)+len(args))
	merged = append(merged, f.Args...)
	merged = append(merged, args...)
	return &QueryFilter{Schema: "(" + f.Schema + ") AND (" + schema + ")", Args: merged}
}

const (
	defaultPageSize = 10
	maxPageSize     = 500
)

// PageRequest describes pagination, optional filter, and ordering.
type PageRequest struct {
	page     int
	pageSize int
	filter   *QueryFilter
	orders   []string // "phone ASC", "p.created_at DESC"
}

// GetPageSize returns the page size clamped to [1, 500], 10 when unset.
func (p *PageRequest) GetPageSize() int {
	switch {
	case p.pageSize < 1:
		return defaultPageSize
	case p.pageSize > maxPageSize:
		return maxPageSize
	}
	return p.pageSize
}

// GetPage returns the 1-based page number.
func (p *PageRequest) GetPage() int {
	if p.page < 1 {
		return 1
	}
	return p.page
}

func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

func (p *PageRequest) GetFilter() *QueryFilter {
	return p.filter
}

func (p *PageRequest) GetOrders() []string {
	return p.orders
}

// NewPageRequest constructs a PageRequest with filter and order settings.
func NewPageRequest(page int, pageSize int, filter *QueryFilter, orders []string) *PageRequest {
	return &PageRequest{page, pageSize, filter, orders}
}

func NewPageRequestWithFilter(page int, pageSize int, filter *QueryFilter) *PageRequest {
	return NewPageRequest(page, pageSize, filter, nil)
}

func NewPageRequestWithOrders(page int, pageSize int, orders []string) *PageRequest {
	return NewPageRequest(page, pageSize, nil, orders)
}

// Pagination holds one page of items and the total match count.
type Pagination[T any] struct {
	Page     int
	PageSize int
	Total    int
	Items    []*T
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{page, pageSize, 0, make([]*T, 0)}
}

// Pages returns the number of pages needed for Total items.
func (p *Pagination[T]) Pages() int {
	if p.PageSize < 1 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

func (p *Pagination[T]) HasNext() bool {
	return p.Page < p.Pages()
}
