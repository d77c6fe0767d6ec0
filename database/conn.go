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
	"fmt"
	"sync"

	"github.com/tomoncle/geopin/utils"
)

var (
	defaultMu     sync.Mutex
	defaultHandle *Handle
)

// Init replaces the process-wide handle with one built from cfg. A previous
// default handle is closed.
func Init(cfg *Config) (*Handle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	ApplyLogConfig(cfg.LogConfig)

	h, err := NewDatabaseFactory().CreateHandle(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	defaultMu.Lock()
	previous := defaultHandle
	defaultHandle = h
	defaultMu.Unlock()

	if previous != nil {
		if err := previous.Close(); err != nil {
			GetLogger().Warn("Failed to close previous default handle", "error", err)
		}
	}
	return h, nil
}

// Default returns the process-wide handle, creating it from DefaultConfig
// on first use.
func Default() *Handle {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultHandle == nil {
		h, err := NewDatabaseFactory().CreateHandle(DefaultConfig())
		if err != nil {
			// DefaultConfig always names a supported type.
			panic(err)
		}
		defaultHandle = h
	}
	return defaultHandle
}

// CloseDefault closes and forgets the process-wide handle.
func CloseDefault() error {
	defaultMu.Lock()
	h := defaultHandle
	defaultHandle = nil
	defaultMu.Unlock()

	if h == nil {
		return nil
	}
	return h.Close()
}

// GetHealthStatus returns the health of the process-wide handle.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	defaultMu.Lock()
	h := defaultHandle
	defaultMu.Unlock()

	if h == nil {
		return &HealthStatus{
			Healthy:   false,
			Connected: false,
			LastError: "Database not initialized",
		}
	}
	return h.HealthCheck(ctx)
}

// ApplyLogConfig sets the level and console format of every named logger.
func ApplyLogConfig(cfg LogConfig) {
	if cfg.Level != "" {
		utils.ConfigureLogLevel(cfg.Level)
	}
	if cfg.Format != "" {
		utils.ConfigureConsoleLogFormat(cfg.Format)
	}
}
