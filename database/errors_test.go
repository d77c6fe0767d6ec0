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
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestIsSqlError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   bool
		kind SQLError
	}{
		{"nil", nil, false, UnknownErr},
		{"no rows", fmt.Errorf("select: %w", sql.ErrNoRows), true, NoRowsErr},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true, DuplicateKeyErr},
		{"mysql unmapped", &mysql.MySQLError{Number: 9999}, true, UnknownErr},
		{"sqlite missing table", errors.New("SQL logic error: no such table: pins (1)"), true, NoTableErr},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: pins.id (1555)"), true, DuplicateKeyErr},
		{"sqlite foreign key", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), true, ForeignKeyViolationErr},
		{"postgres missing column", errors.New(`ERROR: column "x" does not exist (SQLSTATE 42703)`), true, NoColumnErr},
		{"index exists", errors.New("index idx_pins_owner_phone already exists"), true, ExistIndexErr},
		{"unrelated", errors.New("connection reset by peer"), false, UnknownErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, kind := IsSqlError(tt.err)
			require.Equal(t, tt.is, is)
			require.Equal(t, tt.kind, kind)
			require.Equal(t, tt.kind, Classify(tt.err))
		})
	}
}

func TestSQLErrorString(t *testing.T) {
	require.Equal(t, "duplicate_key", DuplicateKeyErr.String())
	require.Equal(t, "no_table", NoTableErr.String())
	require.Equal(t, "unknown", SQLError(-1).String())
}
