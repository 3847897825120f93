package authz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/authority"
)

type stubResolver struct {
	tokens map[string]*authority.Identity
	err    error
	seen   []string
}

func (s *stubResolver) Resolve(_ context.Context, tok string) (*authority.Identity, error) {
	s.seen = append(s.seen, tok)
	if s.err != nil {
		return nil, s.err
	}
	if id, ok := s.tokens[tok]; ok {
		return id, nil
	}
	return nil, authority.ErrInvalidToken
}

func protected(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(id.Username))
	})
}

func serve(h http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/country?search=Hun", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGate(t *testing.T) {
	res := &stubResolver{tokens: map[string]*authority.Identity{
		"tok-1": {ID: "1", Username: "alice", Token: "tok-1"},
	}}
	h := Gate(res, zap.NewNop().Sugar())(protected(t))

	rec := serve(h, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_TOKEN")

	rec = serve(h, "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")

	rec = serve(h, "Bearer tok-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())

	rec = serve(h, "bearer tok-1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, "tok-1")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"", "tok-1", "tok-1", "tok-1"}, res.seen)
}

func TestGate_StoreFailureIsInvalidToken(t *testing.T) {
	res := &stubResolver{err: errors.New("disk on fire")}
	h := Gate(res, zap.NewNop().Sugar())(protected(t))

	rec := serve(h, "Bearer tok-1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}
