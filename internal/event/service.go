package event

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/event/entity"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/event/repo"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/field"
	fieldentity "github.com/ovaphlow/pitchfork/service-pitchside/internal/field/entity"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
)

var ErrNotFound = errors.New("match not found")

// Service serves matches with their field attached.
type Service struct {
	repo   *repo.MatchRepo
	fields *field.Service
	now    func() time.Time
}

func NewService(store database.Store, fields *field.Service, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo.NewMatchRepo(store), fields: fields, now: now}
}

// Upcoming returns matches that have not started yet, earliest first.
func (s *Service) Upcoming(ctx context.Context) ([]entity.MatchResponse, error) {
	matches, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := s.fields.Index(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().Unix()
	out := make([]entity.MatchResponse, 0, len(matches))
	for _, m := range matches {
		if m.Start > now {
			out = append(out, withField(m, idx))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

// Get returns any match by id, past or upcoming.
func (s *Service) Get(ctx context.Context, id int) (*entity.MatchResponse, error) {
	matches, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m.ID != id {
			continue
		}
		idx, err := s.fields.Index(ctx)
		if err != nil {
			return nil, err
		}
		resp := withField(m, idx)
		return &resp, nil
	}
	return nil, ErrNotFound
}

func (s *Service) Seed(ctx context.Context) error {
	return s.repo.Seed(ctx, DefaultMatches)
}

func withField(m entity.Match, idx map[int]fieldentity.Field) entity.MatchResponse {
	resp := entity.MatchResponse{ID: m.ID, Title: m.Title, Start: m.Start, End: m.End}
	if f, ok := idx[m.FieldID]; ok {
		resp.Field = &f
	}
	return resp
}
