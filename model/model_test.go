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
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/geopin/database"
	"github.com/uptrace/bun"
)

func TestSanitizeNickname(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"alice", "Alice"},
		{"  bob_42!", "Bob42"},
		{"123neo", "Neo"},
		{"_9lives", "Lives"},
		{"Zoë", "Zo"},
		{"4242", ""},
		{"", ""},
		{"abcdefghijklmnopqrstuvwxyz0123456789", "Abcdefghijklmnopqrstuvwxyz0123"},
	}
	for _, tt := range tests {
		got := SanitizeNickname(tt.in)
		require.Equal(t, tt.want, got, tt.in)
		require.LessOrEqual(t, len(got), MaxNicknameLength)
	}
}

func TestPinValidate(t *testing.T) {
	owner := &User{Phone: "+1 555-0100"}

	require.NoError(t, NewPin(owner, 37.422, -122.084).Validate())
	require.NoError(t, NewPin(owner, 0, 0).Validate())
	require.NoError(t, NewPin(owner, -90, 180).Validate())

	require.Error(t, NewPin(owner, 91, 0).Validate())
	require.Error(t, NewPin(owner, 0, -180.5).Validate())
	require.Error(t, NewPin(nil, 10, 10).Validate())
	require.ErrorIs(t, NewPin(owner, math.NaN(), 0).Validate(), ErrInvalidCoordinate)
	require.ErrorIs(t, NewPin(owner, 0, math.Inf(1)).Validate(), ErrInvalidCoordinate)
}

func TestUserValidate(t *testing.T) {
	require.NoError(t, (&User{Phone: "+1 555-0100", Name: "Alice"}).Validate())
	require.Error(t, (&User{}).Validate())
	require.Error(t, (&User{Phone: "+1 555-0100", Name: "Abcdefghijklmnopqrstuvwxyz012345"}).Validate())
}

func TestPinGeometry(t *testing.T) {
	p := NewPin(&User{Phone: "+1"}, 37.422, -122.084)
	require.Equal(t, orb.Point{-122.084, 37.422}, p.Point())
	require.Zero(t, p.DistanceTo(p.Point()))

	p.MoveTo(orb.Point{-122.100, 37.422})
	require.Equal(t, -122.100, p.Longitude)
	require.Equal(t, 37.422, p.Latitude)

	// 0.016 degrees of longitude at this latitude is roughly 1.4 km.
	d := p.DistanceTo(orb.Point{-122.084, 37.422})
	require.InDelta(t, 1410, d, 30)
}

func TestPinHooks(t *testing.T) {
	ctx := context.Background()
	p := NewPin(&User{Phone: "+1"}, 1, 2)

	require.NoError(t, p.BeforeAppendModel(ctx, (*bun.InsertQuery)(nil)))
	require.NotEmpty(t, p.ID)
	require.False(t, p.CreatedAt.IsZero())
	require.Equal(t, p.CreatedAt, p.UpdatedAt)

	id, created := p.ID, p.CreatedAt
	require.NoError(t, p.BeforeAppendModel(ctx, (*bun.UpdateQuery)(nil)))
	require.Equal(t, id, p.ID)
	require.Equal(t, created, p.CreatedAt)
	require.False(t, p.UpdatedAt.Before(created))

	explicit := &Pin{ID: "fixed"}
	require.NoError(t, explicit.BeforeAppendModel(ctx, (*bun.InsertQuery)(nil)))
	require.Equal(t, "fixed", explicit.ID)
}

func TestModelsRegistered(t *testing.T) {
	models := database.GetRegisteredModels()
	tables := make([]string, 0, len(models))
	for _, m := range models {
		name, err := database.TableName(m.Instance())
		require.NoError(t, err)
		tables = append(tables, name)
	}
	require.Equal(t, []string{"users", "pins"}, tables)

	pins, ok := Models()[1].(database.ConstrainedModel)
	require.True(t, ok)
	require.Equal(t, "users", pins.ForeignKeys()[0].ReferenceTable)
}
