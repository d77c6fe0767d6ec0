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
	"fmt"

	"github.com/tomoncle/geopin/utils"
)

var supportedTypes = map[string]string{
	"":           "sqlite",
	"sqlite":     "sqlite",
	"sqlite3":    "sqlite",
	"postgres":   "postgres",
	"postgresql": "postgres",
	"mysql":      "mysql",
}

// BaseDatabaseFactory builds managers and handles from configuration.
type BaseDatabaseFactory struct {
	logger Logger
}

// NewDatabaseFactory returns a new database factory using the global logger.
func NewDatabaseFactory() *BaseDatabaseFactory {
	return &BaseDatabaseFactory{
		logger: GetLogger(),
	}
}

// SetLogger sets the logger handed to created managers and handles.
func (f *BaseDatabaseFactory) SetLogger(logger Logger) {
	if logger != nil {
		f.logger = logger
	}
}

// CreateFromConfig constructs a database manager from the given connection
// configuration after applying environment overrides. cfg is modified in place.
func (f *BaseDatabaseFactory) CreateFromConfig(cfg *ConnectionConfig) (AbstractDatabaseManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}

	overrideFromEnv(cfg)

	normalized, ok := supportedTypes[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s, supported types: sqlite, postgres, mysql", ErrUnsupportedType, cfg.Type)
	}
	cfg.Type = normalized

	manager := NewDatabaseManager(cfg)
	manager.SetLogger(f.logger)
	return manager, nil
}

// CreateHandle builds a lazily initialized Handle for cfg.
func (f *BaseDatabaseFactory) CreateHandle(cfg *Config, opts ...HandleOption) (*Handle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	manager, err := f.CreateFromConfig(&cfg.ConnectionConfig)
	if err != nil {
		return nil, err
	}
	base := []HandleOption{WithLogger(f.logger), WithSchemaConfig(cfg.SchemaConfig)}
	return NewHandle(manager, append(base, opts...)...), nil
}

// overrideFromEnv overrides configuration values from DB_* environment variables.
func overrideFromEnv(cfg *ConnectionConfig) {
	cfg.Type = utils.EnvDefaultString("DB_TYPE", cfg.Type)
	cfg.DBName = utils.EnvDefaultString("DB_NAME", cfg.DBName)
	cfg.Host = utils.EnvDefaultString("DB_HOST", cfg.Host)
	cfg.Port = utils.EnvDefaultInt("DB_PORT", cfg.Port)
	cfg.Username = utils.EnvDefaultString("DB_USERNAME", cfg.Username)
	cfg.Password = utils.EnvDefaultString("DB_PASSWORD", cfg.Password)
	cfg.SSLMode = utils.EnvDefaultString("DB_SSLMODE", cfg.SSLMode)
	cfg.EnableQueryLog = utils.EnvDefaultBool("DB_ENABLE_QUERY_LOG", cfg.EnableQueryLog)
	cfg.SlowQueryTime = utils.EnvDefaultDuration("DB_SLOW_QUERY_TIME", cfg.SlowQueryTime)
	cfg.BusyTimeout = utils.EnvDefaultDuration("DB_BUSY_TIMEOUT", cfg.BusyTimeout)
}
