// Package repository provides generic per-entity accessors built on Bun and
// the user and pin repositories. Repository operations report failures as
// false, nil or a Result reason instead of returning storage errors.
package repository
