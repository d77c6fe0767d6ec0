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
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tomoncle/geopin/types"
	"github.com/uptrace/bun"
)

// ErrClosed is returned by Acquire after Close.
var ErrClosed = errors.New("database: handle closed")

// State is the initialization state of a Handle.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

var _ types.BaseEnum = StateReady

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateUninitialized:
		return "uninitialized"
	}
	return types.IllegalName
}

func (s State) IsValid() bool { return s >= StateUninitialized && s <= StateFailed }

func (s State) Number() int { return int(s) }

func (s State) Desc() string {
	switch s {
	case StateReady:
		return "schema verified, accessors available"
	case StateFailed:
		return "store unavailable or handle closed"
	case StateUninitialized:
		return "not acquired yet"
	}
	return types.IllegalName
}

// Handle owns one database connection and the schema of its registered
// models. The first Acquire connects, probes every table and recreates the
// schema at most once when a probe fails. The outcome is final: a Ready
// handle never probes again and a Failed handle keeps returning its error.
type Handle struct {
	manager AbstractDatabaseManager
	logger  Logger
	models  []SQLModel
	schema  SchemaConfig

	mu          sync.Mutex
	state       State
	err         error
	recoveries  int
	recovered   bool // Acquire spent its one recreation
	foreignKeys *ForeignKeyManager
}

// HandleOption configures a Handle.
type HandleOption func(*Handle)

// WithModels replaces the models taken from the default registry.
func WithModels(models ...SQLModel) HandleOption {
	return func(h *Handle) {
		h.models = sortModels(models)
	}
}

// WithLogger sets the handle logger.
func WithLogger(logger Logger) HandleOption {
	return func(h *Handle) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithSchemaConfig sets the recovery options.
func WithSchemaConfig(cfg SchemaConfig) HandleOption {
	return func(h *Handle) {
		h.schema = cfg
	}
}

// NewHandle returns an uninitialized handle over manager. Nothing is opened
// until the first Acquire.
func NewHandle(manager AbstractDatabaseManager, opts ...HandleOption) *Handle {
	h := &Handle{
		manager: manager,
		logger:  GetLogger(),
		models:  GetRegisteredModels(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Acquire returns the shared database once the schema of model is usable.
// A nil model only waits for the handle to become ready. Errors caused by
// an unopenable store or an unrecoverable schema wrap ErrSchemaUnavailable.
func (h *Handle) Acquire(ctx context.Context, model interface{}) (bun.IDB, error) {
	if model != nil {
		if err := h.checkRegistered(model); err != nil {
			return nil, err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case StateReady:
		return h.manager.GetDB(), nil
	case StateFailed:
		return nil, h.err
	}

	db, err := h.initialize(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled callers leave the handle uninitialized for the next one.
			return nil, err
		}
		h.state = StateFailed
		h.err = err
		h.logger.Error("Storage handle failed", "error", err)
		return nil, err
	}
	h.state = StateReady
	return db, nil
}

func (h *Handle) initialize(ctx context.Context) (*bun.DB, error) {
	db, err := h.connect(ctx)
	if err != nil {
		return nil, err
	}
	sm, err := h.schemaManager(db)
	if err != nil {
		return nil, err
	}

	failed, err := sm.Probe(ctx)
	if err == nil {
		return db, nil
	}
	h.logger.Warn("Schema probe failed, recreating", "tables", strings.Join(failed, ","), "error", err)

	if h.recovered {
		// An earlier caller recreated the schema and was cancelled before
		// the handle settled.
		return nil, fmt.Errorf("%w: %w", ErrSchemaUnavailable, err)
	}
	h.recovered = true

	var drop []string
	if h.schema.DropOnRecreate {
		drop = failed
	}
	if err := h.recreate(ctx, sm, drop); err != nil {
		return nil, err
	}
	if _, err := sm.Probe(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaUnavailable, err)
	}
	return db, nil
}

func (h *Handle) connect(ctx context.Context) (*bun.DB, error) {
	if h.manager == nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaUnavailable, ErrNotConnected)
	}
	if !h.manager.Connected() {
		if err := h.manager.Connect(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchemaUnavailable, err)
		}
	}
	db := h.manager.GetDB()
	if db == nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaUnavailable, ErrNotConnected)
	}
	return db, nil
}

func (h *Handle) schemaManager(db *bun.DB) (*SchemaManager, error) {
	if h.foreignKeys == nil {
		fkm := NewForeignKeyManager(h.logger, h.models)
		if path := h.schema.ForeignKeyFile; path != "" {
			if err := fkm.LoadConfig(path); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrSchemaUnavailable, err)
			}
		}
		h.foreignKeys = fkm
	}
	return NewSchemaManager(db, h.logger, h.models, h.foreignKeys), nil
}

func (h *Handle) recreate(ctx context.Context, sm *SchemaManager, drop []string) error {
	h.recoveries++
	if err := sm.Recreate(ctx, drop); err != nil {
		return fmt.Errorf("%w: recreate schema: %w", ErrSchemaUnavailable, err)
	}
	return nil
}

// RecreateSchema creates every missing registered table and index. It does
// not change the handle state.
func (h *Handle) RecreateSchema(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if errors.Is(h.err, ErrClosed) {
		return ErrClosed
	}
	db, err := h.connect(ctx)
	if err != nil {
		return err
	}
	sm, err := h.schemaManager(db)
	if err != nil {
		return err
	}
	return h.recreate(ctx, sm, nil)
}

// Recoveries reports how many schema recreations this handle has run.
func (h *Handle) Recoveries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.recoveries
}

func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Err returns the error recorded when the handle failed.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *Handle) Manager() AbstractDatabaseManager {
	return h.manager
}

func (h *Handle) Logger() Logger {
	return h.logger
}

// HealthCheck pings the connection and reports the handle state.
func (h *Handle) HealthCheck(ctx context.Context) *HealthStatus {
	state := h.State()
	if h.manager == nil {
		return &HealthStatus{SchemaState: state.String(), LastError: ErrNotConnected.Error()}
	}
	status := h.manager.HealthCheck(ctx)
	status.SchemaState = state.String()
	if state != StateReady {
		status.Healthy = false
	}
	return status
}

// Close disconnects the store. Subsequent acquisitions return ErrClosed.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state = StateFailed
	h.err = ErrClosed
	if h.manager == nil {
		return nil
	}
	return h.manager.Disconnect()
}

func (h *Handle) checkRegistered(model interface{}) error {
	name, err := resolveTableName(model)
	if err != nil {
		return err
	}
	for _, m := range h.models {
		if registered, _ := resolveTableName(m.Instance()); strings.EqualFold(registered, name) {
			return nil
		}
	}
	return fmt.Errorf("database: model for table %s is not registered", name)
}
