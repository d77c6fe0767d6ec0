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
	"strings"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrSchemaUnavailable reports that the store could not be opened or its
	// schema could not be created. It is terminal for the handle that returns it.
	ErrSchemaUnavailable = errors.New("database: schema unavailable")
	// ErrNotConnected is returned by manager operations before Connect succeeds.
	ErrNotConnected = errors.New("database: not connected")
	// ErrUnsupportedType is returned for an unknown connection type.
	ErrUnsupportedType = errors.New("database: unsupported database type")
)

type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoIndexErr
	NoColumnErr
	ExistIndexErr
	ExistColumnErr
	NoTableErr
	ExistTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	InvalidTypeCastErr
)

var sqlErrorNames = map[SQLError]string{
	UnknownErr:                  "unknown",
	NoRowsErr:                   "no_rows",
	NoIndexErr:                  "no_index",
	NoColumnErr:                 "no_column",
	ExistIndexErr:               "index_exists",
	ExistColumnErr:              "column_exists",
	NoTableErr:                  "no_table",
	ExistTableErr:               "table_exists",
	DuplicateKeyErr:             "duplicate_key",
	NotNullViolationErr:         "not_null_violation",
	ForeignKeyViolationErr:      "foreign_key_violation",
	CheckConstraintViolationErr: "check_violation",
	DataTruncatedErr:            "data_truncated",
	InvalidTypeCastErr:          "invalid_type_cast",
}

func (e SQLError) String() string {
	if name, ok := sqlErrorNames[e]; ok {
		return name
	}
	return sqlErrorNames[UnknownErr]
}

var mysqlErrorCodes = map[uint16]SQLError{
	1091: NoIndexErr,
	1054: NoColumnErr,
	1061: ExistIndexErr,
	1060: ExistColumnErr,
	1146: NoTableErr,
	1050: ExistTableErr,
	1062: DuplicateKeyErr,
	1048: NotNullViolationErr,
	1216: ForeignKeyViolationErr,
	1217: ForeignKeyViolationErr,
	1451: ForeignKeyViolationErr,
	1452: ForeignKeyViolationErr,
	3819: CheckConstraintViolationErr,
	1265: DataTruncatedErr,
}

// messageRule matches when every fragment occurs in the lowercased message.
type messageRule struct {
	kind      SQLError
	fragments []string
}

// Order matters: index rules run before the generic "already exists" table rule.
var messageRules = []messageRule{
	{NoColumnErr, []string{"sqlstate 42703"}},
	{NoColumnErr, []string{"undefined column"}},
	{NoColumnErr, []string{"no such column"}},
	{NoColumnErr, []string{"has no column named"}},
	{NoIndexErr, []string{"sqlstate 42704"}},
	{NoIndexErr, []string{"no such index"}},
	{NoIndexErr, []string{"does not exist", "index"}},
	{NoTableErr, []string{"sqlstate 42p01"}},
	{NoTableErr, []string{"undefined table"}},
	{NoTableErr, []string{"no such table"}},
	{ExistIndexErr, []string{"already exists", "index"}},
	{ExistTableErr, []string{"already exists", "table"}},
	{ExistTableErr, []string{"relation", "already exists"}},
	{DuplicateKeyErr, []string{"duplicate key value"}},
	{DuplicateKeyErr, []string{"unique constraint failed"}},
	{DuplicateKeyErr, []string{"primary key must be unique"}},
	{DuplicateKeyErr, []string{"sqlstate 23505"}},
	{NotNullViolationErr, []string{"not-null constraint"}},
	{NotNullViolationErr, []string{"sqlstate 23502"}},
	{NotNullViolationErr, []string{"not null constraint failed"}},
	{ForeignKeyViolationErr, []string{"foreign key violation"}},
	{ForeignKeyViolationErr, []string{"foreign key constraint failed"}},
	{ForeignKeyViolationErr, []string{"sqlstate 23503"}},
	{CheckConstraintViolationErr, []string{"check constraint"}},
	{CheckConstraintViolationErr, []string{"sqlstate 23514"}},
	{DataTruncatedErr, []string{"string data right truncation"}},
	{DataTruncatedErr, []string{"sqlstate 22001"}},
	{DataTruncatedErr, []string{"data truncated"}},
	{InvalidTypeCastErr, []string{"datatype mismatch"}},
	{InvalidTypeCastErr, []string{"sqlstate 42804"}},
}

func (r messageRule) match(s string) bool {
	for _, f := range r.fragments {
		if !strings.Contains(s, f) {
			return false
		}
	}
	return true
}

// IsSqlError classifies a driver error across the supported dialects.
// The boolean is false when err is nil or carries no recognizable SQL cause.
func IsSqlError(err error) (is bool, sqlErr SQLError) {
	if err == nil {
		return false, UnknownErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return true, NoRowsErr
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if kind, ok := mysqlErrorCodes[mysqlErr.Number]; ok {
			return true, kind
		}
		return true, UnknownErr
	}
	s := strings.ToLower(err.Error())
	for _, rule := range messageRules {
		if rule.match(s) {
			return true, rule.kind
		}
	}
	return false, UnknownErr
}

// Classify returns the SQLError kind of err, UnknownErr when unrecognized.
func Classify(err error) SQLError {
	_, kind := IsSqlError(err)
	return kind
}
