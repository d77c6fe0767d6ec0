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

package types

// IllegalName is the name reported for an out-of-range enum value.
const IllegalName = "unknown"

// BaseEnum is implemented by the closed value sets the packages report,
// such as repository reasons and handle states.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
}

// ParseEnum returns the member of values whose String matches name.
func ParseEnum[E BaseEnum](values []E, name string) (E, bool) {
	for _, v := range values {
		if v.String() == name {
			return v, true
		}
	}
	var zero E
	return zero, false
}
