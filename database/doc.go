// Package database provides the storage handle: connection management for
// sqlite, postgres and mysql, schema recovery for registered models, foreign
// key handling, error classification, query hooks and logging, built on top
// of Bun.
package database
