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

package geopin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomoncle/geopin/database"
	"github.com/tomoncle/geopin/model"
	"github.com/tomoncle/geopin/repository"
)

func testConfig(t *testing.T) *database.Config {
	t.Helper()
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.DBName = filepath.Join(t.TempDir(), "geopin")
	cfg.LogConfig.Level = "warn"
	return cfg
}

func TestRepoScenario(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(ctx, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	alice := &model.User{Phone: "+1 555-0100", Name: "Alice"}
	require.True(t, repo.Users.Create(ctx, alice))
	require.Nil(t, repo.Pins.GetByUser(ctx, alice))

	pin := model.NewPin(alice, 48.8584, 2.2945)
	require.True(t, repo.Pins.Create(ctx, pin))
	require.False(t, repo.Pins.Create(ctx, pin))

	got := repo.Pins.GetByUser(ctx, alice)
	require.NotNil(t, got)
	require.Equal(t, pin.ID, got.ID)
	require.Equal(t, 48.8584, got.Latitude)
	require.Equal(t, 2.2945, got.Longitude)

	pin.Latitude = 48.8606
	pin.Longitude = 2.3376
	require.True(t, repo.Pins.Update(ctx, pin))
	got = repo.Pins.GetByUser(ctx, alice)
	require.NotNil(t, got)
	require.Equal(t, 48.8606, got.Latitude)

	require.True(t, repo.Pins.Delete(ctx, pin))
	require.False(t, repo.Pins.Delete(ctx, pin))
	require.False(t, repo.Pins.Update(ctx, pin))
	require.Nil(t, repo.Pins.GetByUser(ctx, alice))

	_, res := repo.Pins.LookupByUser(ctx, alice)
	require.Equal(t, repository.ReasonNotFound, res.Reason)

	require.True(t, repo.HealthCheck(ctx).Healthy)
	require.Equal(t, 1, repo.Handle().Recoveries())
}

func TestRepoReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	repo, err := Open(ctx, cfg)
	require.NoError(t, err)
	bob := &model.User{Phone: "+44 20 7946 0000", Name: "Bob"}
	require.True(t, repo.Users.Create(ctx, bob))
	require.True(t, repo.Pins.Create(ctx, model.NewPin(bob, 51.5007, -0.1246)))
	require.NoError(t, repo.Close())

	repo, err = Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.Zero(t, repo.Handle().Recoveries())
	require.NotNil(t, repo.Users.GetByPhoneNumber(ctx, bob.Phone))
	require.NotNil(t, repo.Pins.GetByUser(ctx, bob))
}

func TestNewDoesNotOwnHandle(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	h, err := database.NewDatabaseFactory().CreateHandle(cfg, database.WithModels(model.Models()...))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	repo, err := New(ctx, h)
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	require.Equal(t, database.StateReady, h.State())
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geopin.yaml")
	body := "connection:\n  dbname: " + filepath.Join(dir, "pins") + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	repo, err := OpenFile(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.FileExists(t, filepath.Join(dir, "pins.db"))

	_, err = OpenFile(context.Background(), filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
}

func TestOpenUnopenableStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.ConnectionConfig.DBName = filepath.Join(t.TempDir(), "missing", "dir", "pins.db")

	_, err := Open(context.Background(), cfg)
	require.ErrorIs(t, err, database.ErrSchemaUnavailable)
}

func TestDefaultRepo(t *testing.T) {
	cfg := testConfig(t)
	_, err := database.Init(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDefault() })

	repo, err := Default(context.Background())
	require.NoError(t, err)
	require.Same(t, database.Default(), repo.Handle())
	require.NoError(t, repo.Close())
	require.True(t, database.GetHealthStatus(context.Background()).Healthy)
}
