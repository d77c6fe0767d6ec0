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
	"os"
	"path/filepath"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
	"gopkg.in/yaml.v3"
)

var validReferentialActions = []string{"CASCADE", "RESTRICT", "SET NULL", "NO ACTION"}

// ForeignKeyConstraint describes a foreign key relationship between tables.
type ForeignKeyConstraint struct {
	Table           string `yaml:"table"`
	Column          string `yaml:"column"`
	ReferenceTable  string `yaml:"reference_table"`
	ReferenceColumn string `yaml:"reference_column"`
	OnDelete        string `yaml:"on_delete,omitempty"` // CASCADE, RESTRICT, SET NULL, NO ACTION
	OnUpdate        string `yaml:"on_update,omitempty"`
	ConstraintName  string `yaml:"constraint_name,omitempty"`
}

// ForeignKeyConfig is the YAML structure that lists foreign key constraints.
type ForeignKeyConfig struct {
	ForeignKeys []ForeignKeyConstraint `yaml:"foreign_keys"`
}

// GenerateConstraintName returns the explicit name or a derived name.
func (fk *ForeignKeyConstraint) GenerateConstraintName() string {
	if fk.ConstraintName != "" {
		return fk.ConstraintName
	}
	return fmt.Sprintf("fk_%s_%s", fk.Table, fk.Column)
}

// Clause returns the body passed to CreateTableQuery.ForeignKey, i.e. the
// part following "FOREIGN KEY".
func (fk *ForeignKeyConstraint) Clause() schema.QueryWithArgs {
	query := "(?) REFERENCES ? (?)"
	if fk.OnDelete != "" {
		query += " ON DELETE " + strings.ToUpper(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		query += " ON UPDATE " + strings.ToUpper(fk.OnUpdate)
	}
	return schema.SafeQuery(query, []interface{}{
		bun.Ident(fk.Column), bun.Ident(fk.ReferenceTable), bun.Ident(fk.ReferenceColumn),
	})
}

// ForeignKeyManager holds the foreign keys applied when tables are created.
type ForeignKeyManager struct {
	constraints []ForeignKeyConstraint
	logger      Logger
}

// NewForeignKeyManager collects the constraints declared by models.
func NewForeignKeyManager(logger Logger, models []SQLModel) *ForeignKeyManager {
	var constraints []ForeignKeyConstraint
	for _, m := range models {
		if cm, ok := m.(ConstrainedModel); ok {
			constraints = append(constraints, cm.ForeignKeys()...)
		}
	}
	return &ForeignKeyManager{
		constraints: constraints,
		logger:      logger,
	}
}

// LoadConfig replaces the code-defined constraints of every table listed in
// the YAML file at path. Tables absent from the file keep their constraints.
func (fkm *ForeignKeyManager) LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read foreign key file: %w", err)
	}
	var config ForeignKeyConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse foreign key file: %w", err)
	}

	overridden := make(map[string]struct{})
	for _, fk := range config.ForeignKeys {
		overridden[strings.ToLower(fk.Table)] = struct{}{}
	}
	merged := make([]ForeignKeyConstraint, 0, len(fkm.constraints)+len(config.ForeignKeys))
	for _, fk := range fkm.constraints {
		if _, ok := overridden[strings.ToLower(fk.Table)]; !ok {
			merged = append(merged, fk)
		}
	}
	merged = append(merged, config.ForeignKeys...)

	previous := fkm.constraints
	fkm.constraints = merged
	if errs := fkm.ValidateConstraints(); len(errs) > 0 {
		fkm.constraints = previous
		return fmt.Errorf("foreign key file %s: %d invalid constraints, first: %w", path, len(errs), errs[0])
	}
	if fkm.logger != nil {
		fkm.logger.Debug("Loaded foreign key constraints from file", "path", path, "count", len(config.ForeignKeys))
	}
	return nil
}

// ExportToConfig writes the current constraints as YAML to outputPath.
func (fkm *ForeignKeyManager) ExportToConfig(outputPath string) error {
	data, err := yaml.Marshal(&ForeignKeyConfig{ForeignKeys: fkm.constraints})
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetConstraintsByTable returns the constraints defined for a table.
func (fkm *ForeignKeyManager) GetConstraintsByTable(tableName string) []ForeignKeyConstraint {
	var result []ForeignKeyConstraint
	for _, constraint := range fkm.constraints {
		if strings.EqualFold(constraint.Table, tableName) {
			result = append(result, constraint)
		}
	}
	return result
}

// ListAllConstraints returns all configured constraints.
func (fkm *ForeignKeyManager) ListAllConstraints() []ForeignKeyConstraint {
	return fkm.constraints
}

// ValidateConstraints checks the configured constraints for common issues.
func (fkm *ForeignKeyManager) ValidateConstraints() []error {
	var errs []error
	for _, c := range fkm.constraints {
		if c.Table == "" {
			errs = append(errs, fmt.Errorf("table name cannot be empty"))
		}
		if c.Column == "" {
			errs = append(errs, fmt.Errorf("column name cannot be empty: %s", c.Table))
		}
		if c.ReferenceTable == "" {
			errs = append(errs, fmt.Errorf("reference table name cannot be empty: %s.%s", c.Table, c.Column))
		}
		if c.ReferenceColumn == "" {
			errs = append(errs, fmt.Errorf("reference column name cannot be empty: %s.%s -> %s", c.Table, c.Column, c.ReferenceTable))
		}
		if c.OnDelete != "" && !isReferentialAction(c.OnDelete) {
			errs = append(errs, fmt.Errorf("invalid delete policy: %s, constraint: %s", c.OnDelete, c.GenerateConstraintName()))
		}
		if c.OnUpdate != "" && !isReferentialAction(c.OnUpdate) {
			errs = append(errs, fmt.Errorf("invalid update policy: %s, constraint: %s", c.OnUpdate, c.GenerateConstraintName()))
		}
	}
	return errs
}

func isReferentialAction(action string) bool {
	for _, valid := range validReferentialActions {
		if strings.EqualFold(action, valid) {
			return true
		}
	}
	return false
}
