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
	"reflect"
	"sort"
	"strings"
	"sync"
)

var defaultRegistry = newModelRegistry()

// SQLModel represents a table the handle creates on schema recovery.
// Instance should return a struct pointer compatible with Bun, and Priority
// controls creation order (lower values first, so referenced tables precede
// the tables that reference them).
type SQLModel interface {
	Instance() interface{}
	Priority() int
}

// IndexedModel is implemented by models that declare secondary indexes.
type IndexedModel interface {
	Indexes() []IndexSpec
}

// ConstrainedModel is implemented by models that declare foreign keys.
type ConstrainedModel interface {
	ForeignKeys() []ForeignKeyConstraint
}

// IndexSpec describes a secondary index created alongside its table.
type IndexSpec struct {
	Name    string
	Columns []string
	Unique  bool
}

// ModelRegistry stores SQL models and exposes them in a deterministic order.
type ModelRegistry interface {
	Register(model SQLModel)
	Models() []SQLModel
}

type modelRegistry struct {
	models []SQLModel
	mutex  sync.RWMutex
}

func newModelRegistry() ModelRegistry {
	return &modelRegistry{
		models: make([]SQLModel, 0),
	}
}

// Register adds model, replacing an earlier registration of the same table.
func (r *modelRegistry) Register(model SQLModel) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	name, _ := resolveTableName(model.Instance())
	for i, m := range r.models {
		if existing, _ := resolveTableName(m.Instance()); existing != "" && existing == name {
			r.models[i] = model
			return
		}
	}
	r.models = append(r.models, model)
}

func (r *modelRegistry) Models() []SQLModel {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return sortModels(r.models)
}

func sortModels(models []SQLModel) []SQLModel {
	result := make([]SQLModel, len(models))
	copy(result, models)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

// ModelAdapter wraps a struct instance into an SQLModel with optional
// indexes and foreign keys.
type ModelAdapter struct {
	instance    interface{}
	priority    int
	indexes     []IndexSpec
	foreignKeys []ForeignKeyConstraint
}

// NewModelAdapter wraps a struct instance and priority into an SQLModel.
func NewModelAdapter(instance interface{}, priority int) *ModelAdapter {
	return &ModelAdapter{
		instance: instance,
		priority: priority,
	}
}

// WithIndex declares a non-unique index over columns.
func (a *ModelAdapter) WithIndex(name string, columns ...string) *ModelAdapter {
	a.indexes = append(a.indexes, IndexSpec{Name: name, Columns: columns})
	return a
}

// WithUniqueIndex declares a unique index over columns.
func (a *ModelAdapter) WithUniqueIndex(name string, columns ...string) *ModelAdapter {
	a.indexes = append(a.indexes, IndexSpec{Name: name, Columns: columns, Unique: true})
	return a
}

// WithForeignKey declares a foreign key owned by this model's table.
func (a *ModelAdapter) WithForeignKey(fk ForeignKeyConstraint) *ModelAdapter {
	a.foreignKeys = append(a.foreignKeys, fk)
	return a
}

func (a *ModelAdapter) Instance() interface{} {
	return a.instance
}

func (a *ModelAdapter) Priority() int {
	return a.priority
}

func (a *ModelAdapter) Indexes() []IndexSpec {
	return a.indexes
}

func (a *ModelAdapter) ForeignKeys() []ForeignKeyConstraint {
	return a.foreignKeys
}

// GetRegisteredModels returns all models registered in the default registry
// sorted by ascending priority.
func GetRegisteredModels() []SQLModel {
	return defaultRegistry.Models()
}

// RegisteredModel adds a model to the default registry.
func RegisteredModel(model SQLModel) {
	defaultRegistry.Register(model)
}

func RegisteredModelInstances() []interface{} {
	return modelInstances(GetRegisteredModels())
}

func modelInstances(models []SQLModel) []interface{} {
	instances := make([]interface{}, len(models))
	for i, model := range models {
		instances[i] = model.Instance()
	}
	return instances
}

// TableName returns the table declared on model's bun.BaseModel tag.
func TableName(model interface{}) (string, error) {
	return resolveTableName(model)
}

func resolveTableName(model interface{}) (string, error) {
	t := reflect.TypeOf(model)
	if t == nil {
		return "", fmt.Errorf("nil model")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return "", fmt.Errorf("model %s is not a struct", t)
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type.Name() == "BaseModel" && strings.Contains(f.Type.PkgPath(), "uptrace/bun") {
			for _, part := range strings.Split(f.Tag.Get("bun"), ",") {
				part = strings.TrimSpace(part)
				if strings.HasPrefix(part, "table:") {
					return strings.TrimPrefix(part, "table:"), nil
				}
			}
		}
	}
	return "", fmt.Errorf("missing table tag on bun.BaseModel of %s", t.Name())
}
