// Package authz guards routes behind a token issued by the authority.
package authz

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/authority"
)

// Resolver maps a raw token to an identity.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*authority.Identity, error)
}

type ctxKey struct{}

// IdentityFromContext returns the identity attached by Gate.
func IdentityFromContext(ctx context.Context) (*authority.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*authority.Identity)
	return id, ok
}

// WithIdentity attaches id to ctx.
func WithIdentity(ctx context.Context, id *authority.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Gate returns a middleware that admits only requests carrying a valid token
// in the Authorization header, with or without a Bearer prefix.
func Gate(resolver Resolver, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				apperr.Write(w, r, apperr.MissingToken)
				return
			}
			id, err := resolver.Resolve(r.Context(), bearerToken(header))
			if err != nil {
				if !errors.Is(err, authority.ErrInvalidToken) {
					logger.Errorw("token resolution failed", "path", r.URL.Path, "error", err)
				}
				apperr.Write(w, r, apperr.InvalidToken)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) >= len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return strings.TrimSpace(header)
}
