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
	"database/sql"
	"time"

	"github.com/uptrace/bun"
)

// AbstractDatabaseManager defines the operations for owning a database
// connection and reporting its health.
type AbstractDatabaseManager interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Connected() bool
	Ping(ctx context.Context) error
	HealthCheck(ctx context.Context) *HealthStatus
	GetDB() *bun.DB
	GetSQLDB() *sql.DB
	GetStats() *DBStats
	SetLogger(logger Logger)
}

// HealthStatus holds the result of a health check against the database.
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Connected     bool          `json:"connected"`
	SchemaState   string        `json:"schema_state,omitempty"`
	ResponseTime  time.Duration `json:"response_time"`
	ActiveConns   int           `json:"active_conns"`
	IdleConns     int           `json:"idle_conns"`
	MaxOpenConns  int           `json:"max_open_conns"`
	LastError     string        `json:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time"`
}

// DBStats mirrors database/sql stats returned by the manager.
type DBStats struct {
	MaxOpenConns      int           `json:"max_open_conns"`
	OpenConns         int           `json:"open_conns"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration"`
	MaxIdleClosed     int64         `json:"max_idle_closed"`
	MaxIdleTimeClosed int64         `json:"max_idle_time_closed"`
	MaxLifetimeClosed int64         `json:"max_lifetime_closed"`
}

// ConnectionConfig describes how to open the store and tune its pool.
type ConnectionConfig struct {
	Type            string        `json:"type"` // sqlite, postgres, mysql
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	DBName          string        `json:"dbname"` // sqlite: file path without the .db suffix, or :memory:
	SSLMode         string        `json:"sslmode"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	MaxOpenConns    int           `json:"max_open_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	ConnectTimeout  time.Duration `json:"connect_timeout"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	BusyTimeout     time.Duration `json:"busy_timeout"` // sqlite only
	EnableQueryLog  bool          `json:"enable_query_log"`
	SlowQueryTime   time.Duration `json:"slow_query_time"`
}

// SchemaConfig controls how the handle recovers a missing or broken schema.
type SchemaConfig struct {
	// DropOnRecreate drops the tables whose probe failed before recreating
	// them. Stored rows in those tables are lost.
	DropOnRecreate bool   `json:"drop_on_recreate"`
	ForeignKeyFile string `json:"foreign_key_file"`
}

// LogConfig controls the named loggers used by the store.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // text, json
}

// Config aggregates connection, schema, and logging settings.
type Config struct {
	ConnectionConfig ConnectionConfig `json:"connection"`
	SchemaConfig     SchemaConfig     `json:"schema"`
	LogConfig        LogConfig        `json:"log"`
}

// DefaultConnectionConfig returns a connection config for the embedded store.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Type:           "sqlite",
		DBName:         "geopin",
		MaxIdleConns:   10,
		MaxOpenConns:   100,
		ConnectTimeout: time.Second * 10,
		ReadTimeout:    time.Second * 30,
		WriteTimeout:   time.Second * 30,
		BusyTimeout:    time.Second * 5,
		EnableQueryLog: false,
		SlowQueryTime:  time.Second * 2,
	}
}

// DefaultConfig returns the full default configuration.
func DefaultConfig() *Config {
	return &Config{
		ConnectionConfig: *DefaultConnectionConfig(),
		LogConfig: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
