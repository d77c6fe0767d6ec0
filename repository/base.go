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
	"database/sql"
	"fmt"
	"strings"

	"github.com/tomoncle/geopin/database"
	"github.com/tomoncle/geopin/model"
	"github.com/tomoncle/geopin/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

type accessorImpl[T any] struct {
	db        bun.IDB
	immutable []string
}

// AccessorOption configures an Accessor.
type AccessorOption func(*accessorOptions)

type accessorOptions struct {
	immutable []string
}

// WithImmutableColumns keeps columns out of Update.
func WithImmutableColumns(columns ...string) AccessorOption {
	return func(o *accessorOptions) {
		o.immutable = append(o.immutable, columns...)
	}
}

// NewAccessor returns a generic accessor backed by db.
func NewAccessor[T any](db bun.IDB, opts ...AccessorOption) Accessor[T] {
	var o accessorOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &accessorImpl[T]{db: db, immutable: o.immutable}
}

// AcquireAccessor acquires the database of h for T, recovering the schema
// on first use. Errors wrap database.ErrSchemaUnavailable when the store
// cannot be opened or its schema cannot be created.
func AcquireAccessor[T any](ctx context.Context, h *database.Handle, opts ...AccessorOption) (Accessor[T], error) {
	if h == nil {
		return nil, fmt.Errorf("%w: nil handle", database.ErrSchemaUnavailable)
	}
	db, err := h.Acquire(ctx, (*T)(nil))
	if err != nil {
		return nil, err
	}
	return NewAccessor[T](db, opts...), nil
}

// PinAccessor acquires the pin accessor of h.
func PinAccessor(ctx context.Context, h *database.Handle) (Accessor[model.Pin], error) {
	return AcquireAccessor[model.Pin](ctx, h, WithImmutableColumns("created_at"))
}

// UserAccessor acquires the user accessor of h.
func UserAccessor(ctx context.Context, h *database.Handle) (Accessor[model.User], error) {
	return AcquireAccessor[model.User](ctx, h, WithImmutableColumns("created_at"))
}

func (r *accessorImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *accessorImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *accessorImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *accessorImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *accessorImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *accessorImpl[T]) Load(ctx context.Context, entity *T) error {
	return r.db.NewSelect().Model(entity).WherePK().Scan(ctx)
}

func (r *accessorImpl[T]) selectWhere(model interface{}, filter *types.QueryFilter, orders []string) *bun.SelectQuery {
	query := r.db.NewSelect().Model(model)
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	if len(orders) > 0 {
		query = query.Order(orders...)
	}
	return query
}

func (r *accessorImpl[T]) First(ctx context.Context, filter *types.QueryFilter, orders ...string) (*T, error) {
	var entity T
	if err := r.selectWhere(&entity, filter, orders).Limit(1).Scan(ctx); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *accessorImpl[T]) List(ctx context.Context, filter *types.QueryFilter, orders ...string) ([]*T, error) {
	entities := make([]*T, 0)
	if err := r.selectWhere(&entities, filter, orders).Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *accessorImpl[T]) Count(ctx context.Context, filter *types.QueryFilter) (int, error) {
	return r.selectWhere((*T)(nil), filter, nil).Count(ctx)
}

func (r *accessorImpl[T]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	var entities []*T
	query := r.selectWhere(&entities, pageRequest.GetFilter(), nil)
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	total, err := query.Count(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}
	err = query.
		Offset(pageRequest.GetOffset()).
		Limit(pageRequest.GetPageSize()).
		Order(pageRequest.GetOrders()...).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}

func (r *accessorImpl[T]) Insert(ctx context.Context, entity *T) (int64, error) {
	res, err := r.db.NewInsert().Model(entity).Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *accessorImpl[T]) Update(ctx context.Context, entity *T) (int64, error) {
	query := r.db.NewUpdate().Model(entity).WherePK()
	if len(r.immutable) > 0 {
		query = query.ExcludeColumn(r.immutable...)
	}
	res, err := query.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *accessorImpl[T]) UpdateColumns(ctx context.Context, entity *T, columns ...string) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("columns cannot be empty")
	}
	res, err := r.db.NewUpdate().Model(entity).Column(columns...).WherePK().Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *accessorImpl[T]) Delete(ctx context.Context, entity *T) (int64, error) {
	res, err := r.db.NewDelete().Model(entity).WherePK().Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Upsert uses ON CONFLICT on sqlite and postgres and ON DUPLICATE KEY on
// mysql, where an updated row counts as two affected rows.
func (r *accessorImpl[T]) Upsert(ctx context.Context, fields []string, conflictKeys []string, entity *T) (int64, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("fields cannot be empty")
	}
	insertQuery := r.db.NewInsert().Model(entity)

	var err error
	var res sql.Result
	switch {
	case r.db.Dialect().Features().Has(feature.InsertOnConflict):
		res, err = r.upsertOnConflict(ctx, insertQuery, fields, conflictKeys)
	case r.db.Dialect().Features().Has(feature.InsertOnDuplicateKey):
		res, err = r.upsertOnDuplicateKey(ctx, insertQuery, fields)
	default:
		return r.upsertFallback(ctx, entity)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *accessorImpl[T]) upsertOnDuplicateKey(ctx context.Context, insertQuery *bun.InsertQuery, fields []string) (sql.Result, error) {
	queryArgs := make([]string, 0, len(fields))
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = VALUES(%s)", bun.Ident(field), bun.Ident(field)))
	}
	return insertQuery.
		On("DUPLICATE KEY UPDATE " + strings.Join(queryArgs, ", ")).
		Exec(ctx)
}

func (r *accessorImpl[T]) upsertOnConflict(ctx context.Context, insertQuery *bun.InsertQuery, fields []string, conflictKeys []string) (sql.Result, error) {
	if len(conflictKeys) == 0 {
		conflictKeys = []string{"id"}
	}
	queryArgs := make([]string, 0, len(fields))
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = EXCLUDED.%s", bun.Ident(field), bun.Ident(field)))
	}
	return insertQuery.
		On("CONFLICT (" + strings.Join(conflictKeys, ",") + ") DO UPDATE").
		Set(strings.Join(queryArgs, ", ")).
		Exec(ctx)
}

func (r *accessorImpl[T]) upsertFallback(ctx context.Context, entity *T) (int64, error) {
	n, err := r.Insert(ctx, entity)
	if err == nil {
		return n, nil
	}
	n, updateErr := r.Update(ctx, entity)
	if updateErr != nil {
		return 0, fmt.Errorf("upsert failed for entity: insert error: %v, update error: %w", err, updateErr)
	}
	return n, nil
}
