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

package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateFromConfigRejectsUnknownType(t *testing.T) {
	cfg := DefaultConnectionConfig()
	cfg.Type = "oracle"

	_, err := NewDatabaseFactory().CreateFromConfig(cfg)
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = NewDatabaseFactory().CreateFromConfig(nil)
	require.Error(t, err)
}

func TestCreateFromConfigNormalizesType(t *testing.T) {
	for input, want := range map[string]string{
		"":           "sqlite",
		"sqlite3":    "sqlite",
		"postgresql": "postgres",
		"mysql":      "mysql",
	} {
		cfg := DefaultConnectionConfig()
		cfg.Type = input
		_, err := NewDatabaseFactory().CreateFromConfig(cfg)
		require.NoError(t, err)
		require.Equal(t, want, cfg.Type)
	}
}

func TestCreateFromConfigEnvOverrides(t *testing.T) {
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USERNAME", "pins")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "geo")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")
	t.Setenv("DB_SLOW_QUERY_TIME", "250ms")
	t.Setenv("DB_BUSY_TIMEOUT", "3")

	cfg := DefaultConnectionConfig()
	_, err := NewDatabaseFactory().CreateFromConfig(cfg)
	require.NoError(t, err)

	require.Equal(t, "postgres", cfg.Type)
	require.Equal(t, "db.internal", cfg.Host)
	require.Equal(t, 6543, cfg.Port)
	require.Equal(t, "pins", cfg.Username)
	require.Equal(t, "secret", cfg.Password)
	require.Equal(t, "geo", cfg.DBName)
	require.Equal(t, "require", cfg.SSLMode)
	require.True(t, cfg.EnableQueryLog)
	require.Equal(t, 250*time.Millisecond, cfg.SlowQueryTime)
	require.Equal(t, 3*time.Second, cfg.BusyTimeout)
}

func TestCreateHandleUsesSchemaConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConnectionConfig.DBName = filepath.Join(t.TempDir(), "factory")
	cfg.SchemaConfig.DropOnRecreate = true

	h, err := NewDatabaseFactory().CreateHandle(cfg, WithModels(widgetModels()...))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	require.True(t, h.schema.DropOnRecreate)
	_, err = h.Acquire(context.Background(), (*widget)(nil))
	require.NoError(t, err)
}

func TestDefaultHandleLifecycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConnectionConfig.DBName = filepath.Join(t.TempDir(), "default")
	cfg.LogConfig.Level = "warn"

	h, err := Init(cfg)
	require.NoError(t, err)
	require.Same(t, h, Default())

	status := GetHealthStatus(context.Background())
	require.Equal(t, "uninitialized", status.SchemaState)

	require.NoError(t, CloseDefault())
	require.NoError(t, CloseDefault())
	require.False(t, GetHealthStatus(context.Background()).Healthy)
}
