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
	"strings"

	"github.com/uptrace/bun"
)

// SchemaManager creates the tables, foreign keys and indexes of a fixed set
// of models. There is no versioning: the schema is recreated when missing.
type SchemaManager struct {
	db          *bun.DB
	logger      Logger
	models      []SQLModel
	foreignKeys *ForeignKeyManager
}

// NewSchemaManager returns a manager for models ordered by priority.
func NewSchemaManager(db *bun.DB, logger Logger, models []SQLModel, fkm *ForeignKeyManager) *SchemaManager {
	if fkm == nil {
		fkm = NewForeignKeyManager(logger, models)
	}
	return &SchemaManager{
		db:          db,
		logger:      logger,
		models:      sortModels(models),
		foreignKeys: fkm,
	}
}

// Probe checks that every model's table answers a trivial query. It returns
// the names of the failing tables and the first failure.
func (sm *SchemaManager) Probe(ctx context.Context) ([]string, error) {
	var (
		failed   []string
		firstErr error
	)
	for _, model := range sm.models {
		if err := sm.probeModel(ctx, model.Instance()); err != nil {
			name, _ := resolveTableName(model.Instance())
			failed = append(failed, name)
			if firstErr == nil {
				firstErr = fmt.Errorf("probe table %s: %w", name, err)
			}
		}
	}
	return failed, firstErr
}

func (sm *SchemaManager) probeModel(ctx context.Context, instance interface{}) error {
	_, err := sm.db.NewSelect().
		Model(instance).
		Limit(1).
		Exists(ctx)
	return err
}

// Recreate creates every missing table in one transaction. Tables named in
// drop are dropped first, dependents before the tables they reference.
func (sm *SchemaManager) Recreate(ctx context.Context, drop []string) error {
	if sm.db == nil {
		return ErrNotConnected
	}
	tx, err := sm.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	var committed bool
	defer func(tx bun.Tx) {
		if !committed {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && sm.logger != nil {
				sm.logger.Error("Failed to rollback schema transaction", "error", rollbackErr)
			}
		}
	}(tx)

	if err := sm.dropTables(ctx, tx, drop); err != nil {
		return err
	}
	for _, model := range sm.models {
		if err := sm.createTable(ctx, tx, model); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	if sm.logger != nil {
		sm.logger.Info("Schema recreated", "tables", len(sm.models), "dropped", len(drop))
	}
	return nil
}

func (sm *SchemaManager) dropTables(ctx context.Context, db bun.IDB, drop []string) error {
	if len(drop) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(drop))
	for _, name := range drop {
		wanted[strings.ToLower(name)] = struct{}{}
	}
	for i := len(sm.models) - 1; i >= 0; i-- {
		instance := sm.models[i].Instance()
		name, _ := resolveTableName(instance)
		if _, ok := wanted[strings.ToLower(name)]; !ok {
			continue
		}
		if _, err := db.NewDropTable().Model(instance).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", name, err)
		}
	}
	return nil
}

func (sm *SchemaManager) createTable(ctx context.Context, db bun.IDB, model SQLModel) error {
	instance := model.Instance()
	name, err := resolveTableName(instance)
	if err != nil {
		return err
	}

	q := db.NewCreateTable().Model(instance).IfNotExists()
	for _, fk := range sm.foreignKeys.GetConstraintsByTable(name) {
		clause := fk.Clause()
		q = q.ForeignKey(clause.Query, clause.Args...)
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	im, ok := model.(IndexedModel)
	if !ok {
		return nil
	}
	for _, idx := range im.Indexes() {
		iq := db.NewCreateIndex().
			Model(instance).
			Index(idx.Name).
			Column(idx.Columns...).
			IfNotExists()
		if idx.Unique {
			iq = iq.Unique()
		}
		if _, err := iq.Exec(ctx); err != nil {
			if Classify(err) == ExistIndexErr {
				continue
			}
			return fmt.Errorf("failed to create index %s on %s: %w", idx.Name, name, err)
		}
	}
	return nil
}
