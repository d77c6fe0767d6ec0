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
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

var operationColors = map[string]*color.Color{
	"SELECT": color.New(color.FgGreen),
	"INSERT": color.New(color.FgBlue),
	"UPDATE": color.New(color.FgYellow),
	"DELETE": color.New(color.FgMagenta),
}

var defaultOperationColor = color.New(color.FgRed)

func colorizeQuery(event *bun.QueryEvent) string {
	c, ok := operationColors[event.Operation()]
	if !ok {
		c = defaultOperationColor
	}
	return c.Sprint(event.Query)
}

// SlowQueryHook reports successful queries that took longer than SlowTime.
type SlowQueryHook struct {
	SlowTime time.Duration
	Logger   Logger
}

var _ bun.QueryHook = (*SlowQueryHook)(nil)

func (h *SlowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *SlowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if event.Err != nil || h.Logger == nil || h.SlowTime <= 0 {
		return
	}
	duration := time.Since(event.StartTime)
	if duration > h.SlowTime {
		h.Logger.Warn(color.YellowString("Database slow query detected"),
			"duration", duration.Round(time.Microsecond),
			"slow_threshold", h.SlowTime,
			"query", colorizeQuery(event),
		)
	}
}
