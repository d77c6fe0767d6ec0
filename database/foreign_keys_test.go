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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForeignKeyClause(t *testing.T) {
	fk := ForeignKeyConstraint{
		Table:           "pins",
		Column:          "owner_phone",
		ReferenceTable:  "users",
		ReferenceColumn: "phone",
		OnDelete:        "cascade",
	}
	clause := fk.Clause()
	require.Equal(t, "(?) REFERENCES ? (?) ON DELETE CASCADE", clause.Query)
	require.Len(t, clause.Args, 3)
	require.Equal(t, "fk_pins_owner_phone", fk.GenerateConstraintName())

	fk.ConstraintName = "pins_owner"
	require.Equal(t, "pins_owner", fk.GenerateConstraintName())
}

func TestForeignKeyManagerCollectsModelConstraints(t *testing.T) {
	fkm := NewForeignKeyManager(nil, widgetModels())

	require.Len(t, fkm.ListAllConstraints(), 1)
	require.Len(t, fkm.GetConstraintsByTable("GADGETS"), 1)
	require.Empty(t, fkm.GetConstraintsByTable("widgets"))
	require.Empty(t, fkm.ValidateConstraints())
}

func TestForeignKeyManagerLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("override", func(t *testing.T) {
		path := filepath.Join(dir, "override.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
foreign_keys:
  - table: gadgets
    column: widget_id
    reference_table: widgets
    reference_column: id
    on_delete: SET NULL
`), 0o644))

		fkm := NewForeignKeyManager(nil, widgetModels())
		require.NoError(t, fkm.LoadConfig(path))

		constraints := fkm.GetConstraintsByTable("gadgets")
		require.Len(t, constraints, 1)
		require.Equal(t, "SET NULL", constraints[0].OnDelete)
	})

	t.Run("invalid keeps previous", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
foreign_keys:
  - table: gadgets
    column: widget_id
    reference_table: widgets
    reference_column: id
    on_delete: EXPLODE
`), 0o644))

		fkm := NewForeignKeyManager(nil, widgetModels())
		require.Error(t, fkm.LoadConfig(path))

		constraints := fkm.GetConstraintsByTable("gadgets")
		require.Len(t, constraints, 1)
		require.Empty(t, constraints[0].OnDelete)
	})

	t.Run("missing file", func(t *testing.T) {
		fkm := NewForeignKeyManager(nil, nil)
		require.Error(t, fkm.LoadConfig(filepath.Join(dir, "absent.yaml")))
	})
}

func TestForeignKeyManagerExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fk.yaml")
	src := NewForeignKeyManager(nil, widgetModels())
	require.NoError(t, src.ExportToConfig(path))

	dst := NewForeignKeyManager(nil, nil)
	require.NoError(t, dst.LoadConfig(path))
	require.Equal(t, src.ListAllConstraints(), dst.ListAllConstraints())
}
