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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryFilterAnd(t *testing.T) {
	f := NewQueryFilter("a = ?", 1).And("b BETWEEN ? AND ?", 2, 3)
	require.Equal(t, "(a = ?) AND (b BETWEEN ? AND ?)", f.Schema)
	require.Equal(t, []interface{}{1, 2, 3}, f.Args)

	var empty *QueryFilter
	f = empty.And("c = ?", 4)
	require.Equal(t, "c = ?", f.Schema)
	require.Equal(t, []interface{}{4}, f.Args)
}

func TestPageRequestBounds(t *testing.T) {
	p := NewPageRequest(0, 0, nil, nil)
	require.Equal(t, 1, p.GetPage())
	require.Equal(t, 10, p.GetPageSize())
	require.Zero(t, p.GetOffset())

	p = NewPageRequestWithOrders(3, 20, []string{"phone ASC"})
	require.Equal(t, 40, p.GetOffset())
	require.Equal(t, []string{"phone ASC"}, p.GetOrders())

	require.Equal(t, 500, NewPageRequest(1, 10000, nil, nil).GetPageSize())
}

func TestPaginationPages(t *testing.T) {
	p := NewDefaultPagination[struct{}](1, 3)
	require.Zero(t, p.Pages())
	require.False(t, p.HasNext())

	p.Total = 7
	require.Equal(t, 3, p.Pages())
	require.True(t, p.HasNext())

	p.Page = 3
	require.False(t, p.HasNext())
}

type color int

func (c color) IsValid() bool  { return c >= 0 && c < 2 }
func (c color) Number() int    { return int(c) }
func (c color) Desc() string   { return c.String() }
func (c color) String() string { return [...]string{"red", "blue"}[c] }

func TestParseEnum(t *testing.T) {
	values := []color{0, 1}
	c, ok := ParseEnum(values, "blue")
	require.True(t, ok)
	require.Equal(t, color(1), c)

	_, ok = ParseEnum(values, "green")
	require.False(t, ok)
}
