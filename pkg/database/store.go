package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Store persists named collections as whole JSON documents. Reads and writes
// replace the complete value; Update is the only read-modify-write primitive
// and runs atomically with respect to other Update calls on the same name.
type Store interface {
	// Get returns the raw document or nil when the collection does not exist.
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, body []byte) error
	// Update passes the current document (nil if absent) to fn and stores the
	// result. An error from fn aborts the update and is returned unchanged.
	Update(ctx context.Context, name string, fn func(body []byte) ([]byte, error)) error
	// SetDefault stores body only if the collection does not exist yet.
	SetDefault(ctx context.Context, name string, body []byte) error
	Close() error
}

// Collection names.
const (
	CollectionEvents = "events"
	CollectionFields = "fields"
	CollectionUsers  = "users"
	CollectionTokens = "tokens"
	CollectionItems  = "items"
)

// StoreConfig selects and configures the storage backend.
type StoreConfig struct {
	Driver   string `yaml:"driver"` // badger or postgres
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`
	DSN      string `yaml:"dsn"`
}

// OpenStore opens the backend named by cfg.Driver.
func OpenStore(ctx context.Context, cfg StoreConfig, logger *zap.SugaredLogger) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "badger":
		return NewBadgerStore(BadgerOptions{Dir: cfg.Dir, InMemory: cfg.InMemory, Logger: logger})
	case "postgres":
		pgCfg := ConfigFromEnv()
		if cfg.DSN != "" {
			pgCfg.DSN = cfg.DSN
		}
		db, err := Connect(pgCfg)
		if err != nil {
			return nil, err
		}
		s := NewPostgresStore(db)
		if err := s.EnsureTable(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("ensure collections table: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// ReadCollection decodes the named collection into a slice. A missing
// collection reads as empty.
func ReadCollection[T any](ctx context.Context, s Store, name string) ([]T, error) {
	raw, err := s.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return decodeCollection[T](name, raw)
}

// UpdateCollection applies fn to the decoded collection and writes the result back atomically.
func UpdateCollection[T any](ctx context.Context, s Store, name string, fn func([]T) ([]T, error)) error {
	return s.Update(ctx, name, func(raw []byte) ([]byte, error) {
		cur, err := decodeCollection[T](name, raw)
		if err != nil {
			return nil, err
		}
		next, err := fn(cur)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []T{}
		}
		return json.Marshal(next)
	})
}

// SeedCollection writes items only when the collection has never been written.
func SeedCollection[T any](ctx context.Context, s Store, name string, items []T) error {
	if items == nil {
		items = []T{}
	}
	body, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.SetDefault(ctx, name, body)
}

func decodeCollection[T any](name string, raw []byte) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}
