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

package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomoncle/geopin/database"
	"github.com/tomoncle/geopin/types"
)

// Reason tells why an operation did or did not take effect.
type Reason int

const (
	ReasonOK Reason = iota
	ReasonNotFound
	ReasonInvalid
	ReasonStoreError
)

var reasons = []Reason{ReasonOK, ReasonNotFound, ReasonInvalid, ReasonStoreError}

var reasonNames = map[Reason][2]string{
	ReasonOK:         {"ok", "the operation took effect"},
	ReasonNotFound:   {"not_found", "no stored record matched"},
	ReasonInvalid:    {"invalid", "the input was rejected before reaching the store"},
	ReasonStoreError: {"store_error", "the store reported an error"},
}

var _ types.BaseEnum = ReasonOK

func (r Reason) IsValid() bool {
	_, valid := reasonNames[r]
	return valid
}

func (r Reason) Number() int { return int(r) }

func (r Reason) String() string {
	if names, valid := reasonNames[r]; valid {
		return names[0]
	}
	return types.IllegalName
}

func (r Reason) Desc() string {
	if names, valid := reasonNames[r]; valid {
		return names[1]
	}
	return types.IllegalName
}

// ParseReason returns the reason named s, as printed by String.
func ParseReason(s string) (Reason, bool) {
	return types.ParseEnum(reasons, s)
}

// Result is the detailed outcome of a repository operation. Err carries the
// cause for ReasonInvalid and ReasonStoreError.
type Result struct {
	Reason Reason
	Err    error
}

func (r Result) OK() bool {
	return r.Reason == ReasonOK
}

func (r Result) String() string {
	if r.Err == nil {
		return r.Reason.String()
	}
	return fmt.Sprintf("%s: %v", r.Reason, r.Err)
}

var (
	errNilEntity     = errors.New("repository: nil entity")
	errNoKey         = errors.New("repository: empty primary key")
	errNoRowInserted = errors.New("repository: no row inserted")
)

func ok() Result { return Result{Reason: ReasonOK} }

func notFound() Result { return Result{Reason: ReasonNotFound} }

func invalid(err error) Result { return Result{Reason: ReasonInvalid, Err: err} }

func storeError(err error) Result { return Result{Reason: ReasonStoreError, Err: err} }

// writeResult maps the outcome of a single-row write.
func writeResult(n int64, err error) Result {
	switch {
	case err != nil:
		return storeError(err)
	case n == 0:
		return notFound()
	case n != 1:
		return storeError(fmt.Errorf("repository: %d rows affected, want 1", n))
	}
	return ok()
}

// readResult maps the error of a single-row read.
func readResult(err error) Result {
	switch {
	case err == nil:
		return ok()
	case errors.Is(err, sql.ErrNoRows):
		return notFound()
	}
	return storeError(err)
}

func classify(err error) string {
	return database.Classify(err).String()
}
