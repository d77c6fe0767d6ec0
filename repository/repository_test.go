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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/geopin/database"
	"github.com/tomoncle/geopin/model"
)

func newTestHandle(t *testing.T) *database.Handle {
	t.Helper()
	cfg := database.DefaultConnectionConfig()
	cfg.DBName = filepath.Join(t.TempDir(), "geopin")
	h := database.NewHandle(database.NewDatabaseManager(cfg), database.WithModels(model.Models()...))
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func newTestRepositories(t *testing.T) (*UserRepository, *PinRepository) {
	t.Helper()
	ctx := context.Background()
	h := newTestHandle(t)

	users, err := NewUserRepository(ctx, h)
	require.NoError(t, err)
	pins, err := NewPinRepository(ctx, h)
	require.NoError(t, err)
	return users, pins
}

func mustCreateUser(t *testing.T, users *UserRepository, phone, name string) *model.User {
	t.Helper()
	u := &model.User{Phone: phone, Name: name}
	require.True(t, users.Create(context.Background(), u))
	return u
}
