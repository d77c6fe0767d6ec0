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

package model

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/uptrace/bun"
)

// ErrInvalidCoordinate reports a latitude or longitude that is not a finite number.
var ErrInvalidCoordinate = errors.New("model: invalid coordinate")

// Pin is a map marker dropped by its owner. A user is expected to hold one
// active pin; lookups by owner return the most recently created one.
type Pin struct {
	bun.BaseModel `bun:"table:pins,alias:p"`

	ID         string    `bun:"id,pk" json:"id"`
	Latitude   float64   `bun:"latitude,notnull" json:"latitude" validate:"min=-90,max=90"`
	Longitude  float64   `bun:"longitude,notnull" json:"longitude" validate:"min=-180,max=180"`
	OwnerPhone string    `bun:"owner_phone,notnull" json:"owner_phone" validate:"required,max=32"`
	Owner      *User     `bun:"rel:belongs-to,join:owner_phone=phone" json:"owner,omitempty" validate:"-"`
	Label      string    `bun:"label" json:"label,omitempty" validate:"max=120"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// NewPin returns a pin at lat/lon owned by owner.
func NewPin(owner *User, lat, lon float64) *Pin {
	p := &Pin{Latitude: lat, Longitude: lon}
	if owner != nil {
		p.OwnerPhone = owner.Phone
	}
	return p
}

var _ bun.BeforeAppendModelHook = (*Pin)(nil)

func (p *Pin) BeforeAppendModel(_ context.Context, query bun.Query) error {
	now := Now()
	switch query.(type) {
	case *bun.InsertQuery:
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
	case *bun.UpdateQuery:
		p.UpdatedAt = now
	}
	return nil
}

// Validate checks the coordinate ranges and the owner reference.
func (p *Pin) Validate() error {
	for _, v := range []float64{p.Latitude, p.Longitude} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidCoordinate
		}
	}
	return validate.Struct(p)
}

// Point returns the pin location in orb's [lon, lat] order.
func (p *Pin) Point() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// MoveTo changes the pin coordinates.
func (p *Pin) MoveTo(point orb.Point) {
	p.Longitude, p.Latitude = point.Lon(), point.Lat()
}

// DistanceTo returns the great-circle distance in meters.
func (p *Pin) DistanceTo(point orb.Point) float64 {
	return geo.Distance(p.Point(), point)
}
