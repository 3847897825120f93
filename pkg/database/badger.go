package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const (
	maxConflictRetries = 64

	// diskValueThreshold moves larger collections to the value log.
	diskValueThreshold = 1 << 10
	// inMemoryValueLimit is badger's largest value in in-memory mode, where
	// there is no value log and every value must fit the threshold.
	inMemoryValueLimit = 1 << 20
)

// ErrCollectionTooLarge is returned when an in-memory collection would exceed
// inMemoryValueLimit.
var ErrCollectionTooLarge = errors.New("collection too large for in-memory store")

// BadgerOptions configures the embedded store.
type BadgerOptions struct {
	// Dir is the data directory. Ignored when InMemory is set.
	Dir        string
	InMemory   bool
	SyncWrites bool
	// Logger receives badger's internal log lines. Nil silences them.
	Logger *zap.SugaredLogger
}

// BadgerStore keeps each collection under a single badger key.
type BadgerStore struct {
	db       *badger.DB
	maxValue int
}

// NewBadgerStore opens (or creates) the badger database described by opts.
func NewBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	bo := badger.DefaultOptions(opts.Dir).WithValueThreshold(diskValueThreshold)
	maxValue := 0
	if opts.InMemory {
		bo = badger.DefaultOptions("").WithInMemory(true).WithValueThreshold(inMemoryValueLimit)
		maxValue = inMemoryValueLimit
	}
	if opts.SyncWrites {
		bo = bo.WithSyncWrites(true)
	}
	if opts.Logger != nil {
		bo = bo.WithLogger(badgerLogger{opts.Logger})
	} else {
		bo = bo.WithLogger(nil)
	}
	// collections are small JSON documents
	bo = bo.
		WithMemTableSize(16 << 20).
		WithValueLogFileSize(64 << 20).
		WithNumMemtables(2)

	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, maxValue: maxValue}, nil
}

// NewInMemoryStore is a BadgerStore without disk persistence, used by tests.
// Each collection is capped at 1 MiB in this mode.
func NewInMemoryStore() (*BadgerStore, error) {
	return NewBadgerStore(BadgerOptions{InMemory: true})
}

func collectionKey(name string) []byte {
	return []byte("collection:" + name)
}

func readValue(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (s *BadgerStore) checkSize(name string, body []byte) error {
	if s.maxValue > 0 && len(body) > s.maxValue {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrCollectionTooLarge, name, len(body), s.maxValue)
	}
	return nil
}

func (s *BadgerStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		v, err := readValue(txn, collectionKey(name))
		out = v
		return err
	})
	return out, err
}

func (s *BadgerStore) Set(ctx context.Context, name string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.checkSize(name, body); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(collectionKey(name), body)
	})
}

// Update retries on transaction conflicts, so fn may run more than once.
func (s *BadgerStore) Update(ctx context.Context, name string, fn func([]byte) ([]byte, error)) error {
	key := collectionKey(name)
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.Update(func(txn *badger.Txn) error {
			cur, err := readValue(txn, key)
			if err != nil {
				return err
			}
			next, err := fn(cur)
			if err != nil {
				return err
			}
			if err := s.checkSize(name, next); err != nil {
				return err
			}
			return txn.Set(key, next)
		})
		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			continue
		}
		return err
	}
}

func (s *BadgerStore) SetDefault(ctx context.Context, name string, body []byte) error {
	return s.Update(ctx, name, func(cur []byte) ([]byte, error) {
		if cur != nil {
			return cur, nil
		}
		return body, nil
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger adapts a zap sugared logger to badger.Logger.
type badgerLogger struct {
	l *zap.SugaredLogger
}

func (b badgerLogger) Errorf(f string, v ...interface{})   { b.l.Errorf(f, v...) }
func (b badgerLogger) Warningf(f string, v ...interface{}) { b.l.Warnf(f, v...) }
func (b badgerLogger) Infof(f string, v ...interface{})    { b.l.Debugf(f, v...) }
func (b badgerLogger) Debugf(f string, v ...interface{})   { b.l.Debugf(f, v...) }
