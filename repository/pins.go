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

	"github.com/paulmach/orb"
	"github.com/tomoncle/geopin/database"
	"github.com/tomoncle/geopin/model"
	"github.com/tomoncle/geopin/types"
)

// Most recent pin first. The id breaks ties between pins created within
// the same timestamp so concurrent creations resolve the same way each time.
var latestPinOrder = []string{"p.created_at DESC", "p.id DESC"}

// PinRepository stores the pins of every user. Operations never return
// storage errors: the boolean and nil views report any failure as a negative
// result, and the Result views add the reason. It is safe for concurrent use.
type PinRepository struct {
	pins   Accessor[model.Pin]
	logger database.Logger
}

// NewPinRepository acquires the pin accessor of h once. An unopenable store
// or an unrecoverable schema aborts construction with an error wrapping
// database.ErrSchemaUnavailable.
func NewPinRepository(ctx context.Context, h *database.Handle) (*PinRepository, error) {
	pins, err := PinAccessor(ctx, h)
	if err != nil {
		return nil, err
	}
	return NewPinRepositoryWithAccessor(pins), nil
}

// NewPinRepositoryWithAccessor wraps an already acquired accessor.
func NewPinRepositoryWithAccessor(pins Accessor[model.Pin]) *PinRepository {
	return &PinRepository{pins: pins, logger: getLogger()}
}

// Create inserts pin and reports whether exactly one row was stored. An
// existing key, an invalid coordinate or an unknown owner yields false and
// leaves the store unchanged. An empty ID is generated; a failed create
// leaves pin as it was passed in.
func (r *PinRepository) Create(ctx context.Context, pin *model.Pin) bool {
	return r.CreateResult(ctx, pin).OK()
}

func (r *PinRepository) CreateResult(ctx context.Context, pin *model.Pin) Result {
	if pin == nil {
		return r.report("create", invalid(errNilEntity))
	}
	if err := pin.Validate(); err != nil {
		return r.report("create", invalid(err))
	}
	id, created, updated := pin.ID, pin.CreatedAt, pin.UpdatedAt
	n, err := r.pins.Insert(ctx, pin)
	res := writeResult(n, err)
	if res.Reason == ReasonNotFound {
		res = storeError(errNoRowInserted)
	}
	if !res.OK() {
		// the insert hook fills these in before the row is written
		pin.ID, pin.CreatedAt, pin.UpdatedAt = id, created, updated
	}
	return r.report("create", res)
}

// Update rewrites the stored pin with the same ID. It reports false when
// no such pin exists, without inserting one.
func (r *PinRepository) Update(ctx context.Context, pin *model.Pin) bool {
	return r.UpdateResult(ctx, pin).OK()
}

func (r *PinRepository) UpdateResult(ctx context.Context, pin *model.Pin) Result {
	if res, valid := checkPinKey(pin); !valid {
		return r.report("update", res)
	}
	if err := pin.Validate(); err != nil {
		return r.report("update", invalid(err))
	}
	return r.report("update", writeResult(r.pins.Update(ctx, pin)))
}

// Delete removes the stored pin with the same ID.
func (r *PinRepository) Delete(ctx context.Context, pin *model.Pin) bool {
	return r.DeleteResult(ctx, pin).OK()
}

func (r *PinRepository) DeleteResult(ctx context.Context, pin *model.Pin) Result {
	if res, valid := checkPinKey(pin); !valid {
		return r.report("delete", res)
	}
	return r.report("delete", writeResult(r.pins.Delete(ctx, &model.Pin{ID: pin.ID})))
}

// GetByUser returns the most recently created pin owned by user, or nil.
func (r *PinRepository) GetByUser(ctx context.Context, user *model.User) *model.Pin {
	pin, _ := r.LookupByUser(ctx, user)
	return pin
}

// LookupByUser compares owners by phone number, so any User value with the
// right key finds the pin.
func (r *PinRepository) LookupByUser(ctx context.Context, user *model.User) (*model.Pin, Result) {
	if user == nil || user.Phone == "" {
		return nil, r.report("lookup", invalid(errNoKey))
	}
	filter := types.NewQueryFilter("?TableAlias.owner_phone = ?", user.Phone)
	pin, err := r.pins.First(ctx, filter, latestPinOrder...)
	res := r.report("lookup", readResult(err))
	if !res.OK() {
		return nil, res
	}
	return pin, res
}

// Get returns the pin with id and its owner, or nil.
func (r *PinRepository) Get(ctx context.Context, id string) (*model.Pin, Result) {
	if id == "" {
		return nil, r.report("get", invalid(errNoKey))
	}
	pin := new(model.Pin)
	err := r.pins.NewSelect().
		Model(pin).
		Relation("Owner").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	res := r.report("get", readResult(err))
	if !res.OK() {
		return nil, res
	}
	return pin, res
}

// ListInBound returns the pins inside bound, oldest first.
func (r *PinRepository) ListInBound(ctx context.Context, bound orb.Bound) ([]*model.Pin, Result) {
	filter := types.NewQueryFilter("?TableAlias.latitude BETWEEN ? AND ?", bound.Min.Lat(), bound.Max.Lat()).
		And("?TableAlias.longitude BETWEEN ? AND ?", bound.Min.Lon(), bound.Max.Lon())
	pins, err := r.pins.List(ctx, filter, "p.created_at ASC", "p.id ASC")
	if err != nil {
		return nil, r.report("list", storeError(err))
	}
	return pins, ok()
}

// CountByUser returns how many pins user owns. Any value above one breaks
// the one-active-pin expectation that GetByUser resolves by recency.
func (r *PinRepository) CountByUser(ctx context.Context, user *model.User) (int, Result) {
	if user == nil || user.Phone == "" {
		return 0, r.report("count", invalid(errNoKey))
	}
	n, err := r.pins.Count(ctx, types.NewQueryFilter("?TableAlias.owner_phone = ?", user.Phone))
	if err != nil {
		return 0, r.report("count", storeError(err))
	}
	return n, ok()
}

func (r *PinRepository) CreateAsync(ctx context.Context, pin *model.Pin) *Future[bool] {
	return goFuture(func() bool { return r.Create(ctx, pin) })
}

func (r *PinRepository) UpdateAsync(ctx context.Context, pin *model.Pin) *Future[bool] {
	return goFuture(func() bool { return r.Update(ctx, pin) })
}

func (r *PinRepository) DeleteAsync(ctx context.Context, pin *model.Pin) *Future[bool] {
	return goFuture(func() bool { return r.Delete(ctx, pin) })
}

func (r *PinRepository) GetByUserAsync(ctx context.Context, user *model.User) *Future[*model.Pin] {
	return goFuture(func() *model.Pin { return r.GetByUser(ctx, user) })
}

func (r *PinRepository) report(op string, res Result) Result {
	return reportResult(r.logger, "pin", op, res)
}

func checkPinKey(pin *model.Pin) (Result, bool) {
	switch {
	case pin == nil:
		return invalid(errNilEntity), false
	case pin.ID == "":
		return invalid(errNoKey), false
	}
	return ok(), true
}

func reportResult(log database.Logger, entity, op string, res Result) Result {
	switch res.Reason {
	case ReasonOK:
	case ReasonNotFound:
		log.Debug("Repository lookup missed", "entity", entity, "op", op)
	case ReasonInvalid:
		log.Warn("Repository rejected input", "entity", entity, "op", op, "error", res.Err)
	default:
		log.Warn("Repository operation failed", "entity", entity, "op", op, "kind", classify(res.Err), "error", res.Err)
	}
	return res
}
