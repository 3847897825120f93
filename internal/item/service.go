package item

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/item/entity"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/item/repo"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
)

// Wildcard selects every stored item.
const Wildcard = "*"

var (
	ErrMissingKey    = errors.New("missing encryption key")
	ErrNotFound      = errors.New("item not found")
	ErrInvalidValue  = errors.New("item value is not valid JSON")
	ErrMalformedItem = errors.New("decrypted item is not valid JSON")
)

// Service stores JSON values encrypted under a per-request passphrase.
// The passphrase is never persisted or logged.
type Service struct {
	repo   *repo.ItemRepo
	cipher *Cipher
	logger *zap.SugaredLogger
}

func NewService(store database.Store, c *Cipher, logger *zap.SugaredLogger) *Service {
	if c == nil {
		c = NewCipher(DefaultParams)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: repo.NewItemRepo(store), cipher: c, logger: logger}
}

// Put encrypts value under key and stores it as id, replacing any previous value.
func (s *Service) Put(ctx context.Context, id string, value json.RawMessage, key string) error {
	if key == "" {
		return ErrMissingKey
	}
	var canon bytes.Buffer
	if err := json.Compact(&canon, value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	sealed, err := s.cipher.Seal(canon.Bytes(), key)
	if err != nil {
		return fmt.Errorf("encrypt item %s: %w", id, err)
	}
	return s.repo.Upsert(ctx, entity.Stored{ID: id, Value: sealed})
}

// Get returns the items selected by id (or Wildcard) that decrypt under key.
// Items that do not decrypt are left out of the result.
func (s *Service) Get(ctx context.Context, id, key string) ([]entity.Item, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	selected := stored[:0]
	for _, it := range stored {
		if id == Wildcard || it.ID == id {
			selected = append(selected, it)
		}
	}
	if len(selected) == 0 {
		return nil, ErrNotFound
	}

	out := make([]entity.Item, 0, len(selected))
	for _, it := range selected {
		plain, err := s.cipher.Open(it.Value, key)
		if err != nil || len(plain) == 0 {
			s.logger.Errorw("failed to decrypt item", "id", it.ID, "error", err)
			continue
		}
		if !json.Valid(plain) {
			return nil, fmt.Errorf("item %s: %w", it.ID, ErrMalformedItem)
		}
		out = append(out, entity.Item{ID: it.ID, Value: json.RawMessage(plain)})
	}
	return out, nil
}
