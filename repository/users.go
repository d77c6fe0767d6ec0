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
	"context"
	"errors"

	"github.com/tomoncle/geopin/database"
	"github.com/tomoncle/geopin/model"
)

var errEmptyNickname = errors.New("repository: nickname has no usable characters")

// UserRepository stores users by phone number with the same result
// contract as PinRepository.
type UserRepository struct {
	users  Accessor[model.User]
	logger database.Logger
}

// NewUserRepository acquires the user accessor of h once.
func NewUserRepository(ctx context.Context, h *database.Handle) (*UserRepository, error) {
	users, err := UserAccessor(ctx, h)
	if err != nil {
		return nil, err
	}
	return NewUserRepositoryWithAccessor(users), nil
}

func NewUserRepositoryWithAccessor(users Accessor[model.User]) *UserRepository {
	return &UserRepository{users: users, logger: getLogger()}
}

// Create registers user. An already registered phone number yields false.
func (r *UserRepository) Create(ctx context.Context, user *model.User) bool {
	return r.CreateResult(ctx, user).OK()
}

func (r *UserRepository) CreateResult(ctx context.Context, user *model.User) Result {
	if user == nil {
		return r.report("create", invalid(errNilEntity))
	}
	if err := user.Validate(); err != nil {
		return r.report("create", invalid(err))
	}
	created, updated := user.CreatedAt, user.UpdatedAt
	res := writeResult(r.users.Insert(ctx, user))
	if res.Reason == ReasonNotFound {
		res = storeError(errNoRowInserted)
	}
	if !res.OK() {
		user.CreatedAt, user.UpdatedAt = created, updated
	}
	return r.report("create", res)
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) bool {
	return r.UpdateResult(ctx, user).OK()
}

func (r *UserRepository) UpdateResult(ctx context.Context, user *model.User) Result {
	if user == nil {
		return r.report("update", invalid(errNilEntity))
	}
	if err := user.Validate(); err != nil {
		return r.report("update", invalid(err))
	}
	return r.report("update", writeResult(r.users.Update(ctx, user)))
}

// Delete removes user. It fails while the user still owns pins unless the
// foreign key is configured to cascade.
func (r *UserRepository) Delete(ctx context.Context, user *model.User) bool {
	return r.DeleteResult(ctx, user).OK()
}

func (r *UserRepository) DeleteResult(ctx context.Context, user *model.User) Result {
	if user == nil || user.Phone == "" {
		return r.report("delete", invalid(errNoKey))
	}
	return r.report("delete", writeResult(r.users.Delete(ctx, &model.User{Phone: user.Phone})))
}

// GetByPhoneNumber returns the user registered with phone, or nil.
func (r *UserRepository) GetByPhoneNumber(ctx context.Context, phone string) *model.User {
	user, _ := r.LookupByPhoneNumber(ctx, phone)
	return user
}

func (r *UserRepository) LookupByPhoneNumber(ctx context.Context, phone string) (*model.User, Result) {
	if phone == "" {
		return nil, r.report("lookup", invalid(errNoKey))
	}
	user := &model.User{Phone: phone}
	if res := r.report("lookup", readResult(r.users.Load(ctx, user))); !res.OK() {
		return nil, res
	}
	return user, ok()
}

// Save creates user or replaces the name of the existing one.
func (r *UserRepository) Save(ctx context.Context, user *model.User) bool {
	return r.SaveResult(ctx, user).OK()
}

func (r *UserRepository) SaveResult(ctx context.Context, user *model.User) Result {
	if user == nil {
		return r.report("save", invalid(errNilEntity))
	}
	if err := user.Validate(); err != nil {
		return r.report("save", invalid(err))
	}
	n, err := r.users.Upsert(ctx, []string{"name", "updated_at"}, []string{"phone"}, user)
	switch {
	case err != nil:
		return r.report("save", storeError(err))
	case n == 0:
		return r.report("save", storeError(errNoRowInserted))
	}
	return ok()
}

// UpdateName sanitizes nick and stores it as the display name of the user
// registered with phone. It is the entry point once a remote nickname
// change has been accepted.
func (r *UserRepository) UpdateName(ctx context.Context, phone, nick string) bool {
	return r.UpdateNameResult(ctx, phone, nick).OK()
}

func (r *UserRepository) UpdateNameResult(ctx context.Context, phone, nick string) Result {
	if phone == "" {
		return r.report("rename", invalid(errNoKey))
	}
	name := model.SanitizeNickname(nick)
	if name == "" {
		return r.report("rename", invalid(errEmptyNickname))
	}
	user := &model.User{Phone: phone, Name: name}
	return r.report("rename", writeResult(r.users.UpdateColumns(ctx, user, "name", "updated_at")))
}

func (r *UserRepository) report(op string, res Result) Result {
	return reportResult(r.logger, "user", op, res)
}
