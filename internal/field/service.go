package field

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/field/entity"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/field/repo"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
)

var ErrNotFound = errors.New("field not found")

// Service lists and searches fields.
type Service struct {
	repo *repo.Repo
}

func NewService(store database.Store) *Service {
	return &Service{repo: repo.NewRepo(store)}
}

// List returns all fields, or those whose name, street or city contain search.
// Matching ignores surrounding quotes, case and diacritics.
func (s *Service) List(ctx context.Context, search string) ([]entity.Field, error) {
	fields, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	term := fold(strings.Trim(strings.TrimSpace(search), `"'`))
	out := make([]entity.Field, 0, len(fields))
	for _, f := range fields {
		if term == "" ||
			strings.Contains(fold(f.Name), term) ||
			strings.Contains(fold(f.Address.Street), term) ||
			strings.Contains(fold(f.Address.City), term) {
			out = append(out, f)
		}
	}
	return out, nil
}

// Get returns the field with id.
func (s *Service) Get(ctx context.Context, id int) (*entity.Field, error) {
	fields, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range fields {
		if fields[i].ID == id {
			f := fields[i]
			return &f, nil
		}
	}
	return nil, ErrNotFound
}

// Index returns every field keyed by id.
func (s *Service) Index(ctx context.Context) (map[int]entity.Field, error) {
	fields, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[int]entity.Field, len(fields))
	for _, f := range fields {
		idx[f.ID] = f
	}
	return idx, nil
}

// Seed installs the default fields on first start.
func (s *Service) Seed(ctx context.Context) error {
	return s.repo.Seed(ctx, DefaultFields)
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}
