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

package model

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tomoncle/geopin/database"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Now returns the current UTC time at the precision the stores keep.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Models returns the schema definitions of every entity, users first.
func Models() []database.SQLModel {
	return []database.SQLModel{
		database.NewModelAdapter((*User)(nil), 0),
		database.NewModelAdapter((*Pin)(nil), 1).
			WithIndex("idx_pins_owner_phone", "owner_phone", "created_at").
			WithForeignKey(database.ForeignKeyConstraint{
				Table:           "pins",
				Column:          "owner_phone",
				ReferenceTable:  "users",
				ReferenceColumn: "phone",
			}),
	}
}

func init() {
	for _, m := range Models() {
		database.RegisteredModel(m)
	}
}
