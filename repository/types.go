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

package repository

import (
	"context"

	"github.com/tomoncle/geopin/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// CrudAccessor defines the per-entity operations. Writes report the number
// of affected rows so callers can tell a missing row from a stored one.
type CrudAccessor[T any] interface {
	// Load fills entity with the row identified by its primary key.
	Load(ctx context.Context, entity *T) error

	// First returns the first row matching filter in the given order.
	First(ctx context.Context, filter *types.QueryFilter, orders ...string) (*T, error)

	List(ctx context.Context, filter *types.QueryFilter, orders ...string) ([]*T, error)

	Count(ctx context.Context, filter *types.QueryFilter) (int, error)

	Insert(ctx context.Context, entity *T) (int64, error)

	// Update writes every column except the immutable ones, by primary key.
	Update(ctx context.Context, entity *T) (int64, error)

	UpdateColumns(ctx context.Context, entity *T, columns ...string) (int64, error)

	Delete(ctx context.Context, entity *T) (int64, error)

	// Upsert inserts entity or updates fields when keys conflict.
	Upsert(ctx context.Context, fields []string, conflictKeys []string, entity *T) (int64, error)
}

// PageQueryAccessor defines pagination functionality for listing entities.
type PageQueryAccessor[T any] interface {
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// Accessor combines CRUD and pagination and exposes Bun query builders for
// entity specific queries. It is bound to the database of one Handle and
// is safe for concurrent use.
type Accessor[T any] interface {
	CrudAccessor[T]
	PageQueryAccessor[T]
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
