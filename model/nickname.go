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

import "strings"

// MaxNicknameLength bounds a sanitized nickname.
const MaxNicknameLength = 30

// SanitizeNickname keeps ASCII letters and digits, drops leading digits,
// upper-cases the first letter and truncates to MaxNicknameLength. The
// result is empty when nothing usable remains.
func SanitizeNickname(nick string) string {
	var b strings.Builder
	for i := 0; i < len(nick) && b.Len() < MaxNicknameLength; i++ {
		c := nick[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if b.Len() == 0 {
				continue
			}
		default:
			continue
		}
		if b.Len() == 0 && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}
