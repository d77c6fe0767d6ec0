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
	"fmt"

	"github.com/tomoncle/geopin/config"
	"github.com/tomoncle/geopin/database"
	"github.com/tomoncle/geopin/model"
	"github.com/tomoncle/geopin/repository"
)

// Repo bundles the user and pin repositories over one storage handle.
type Repo struct {
	Users *repository.UserRepository
	Pins  *repository.PinRepository

	handle *database.Handle
	owned  bool
}

// New builds both repositories on h. The caller keeps ownership of h.
func New(ctx context.Context, h *database.Handle) (*Repo, error) {
	users, err := repository.NewUserRepository(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("open user repository: %w", err)
	}
	pins, err := repository.NewPinRepository(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("open pin repository: %w", err)
	}
	return &Repo{Users: users, Pins: pins, handle: h}, nil
}

// Open creates a handle from cfg and builds the repositories on it. The
// returned Repo owns the handle and closes it on Close.
func Open(ctx context.Context, cfg *database.Config) (*Repo, error) {
	if cfg == nil {
		cfg = database.DefaultConfig()
	}
	database.ApplyLogConfig(cfg.LogConfig)

	h, err := database.NewDatabaseFactory().CreateHandle(cfg, database.WithModels(model.Models()...))
	if err != nil {
		return nil, err
	}
	r, err := New(ctx, h)
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	r.owned = true
	return r, nil
}

// OpenFile loads the configuration at path (see config.Load) and opens it.
func OpenFile(ctx context.Context, path string) (*Repo, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return Open(ctx, cfg)
}

// Default builds the repositories on the process-wide handle.
func Default(ctx context.Context) (*Repo, error) {
	return New(ctx, database.Default())
}

// Handle returns the storage handle behind r.
func (r *Repo) Handle() *database.Handle {
	return r.handle
}

// HealthCheck reports the state of the underlying store.
func (r *Repo) HealthCheck(ctx context.Context) *database.HealthStatus {
	return r.handle.HealthCheck(ctx)
}

// Close releases the handle if r opened it.
func (r *Repo) Close() error {
	if !r.owned {
		return nil
	}
	return r.handle.Close()
}
