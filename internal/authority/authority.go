// Package authority ties the credential store, the token signer and the token
// store together: it authenticates users, issues tokens and resolves them back
// to an identity.
package authority

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/token"
	tokenrepo "github.com/ovaphlow/pitchfork/service-pitchside/internal/token/repo"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/user"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/user/entity"
)

var (
	ErrBadCredentials = errors.New("incorrect username or password")
	ErrInvalidToken   = errors.New("invalid token")
)

// Outcome of an authentication attempt.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeMismatch
	OutcomeMatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "match"
	case OutcomeMismatch:
		return "mismatch"
	default:
		return "not_found"
	}
}

// Result carries the stored user on OutcomeMatch and OutcomeMismatch.
type Result struct {
	Outcome Outcome
	User    *entity.User
}

// Identity is what a verified token resolves to.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"-"`
}

type Authority struct {
	users  *user.UserService
	tokens *tokenrepo.TokenRepo
	signer *token.Signer
	logger *zap.SugaredLogger
}

func New(users *user.UserService, tokens *tokenrepo.TokenRepo, signer *token.Signer, logger *zap.SugaredLogger) *Authority {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Authority{users: users, tokens: tokens, signer: signer, logger: logger}
}

// Authenticate checks a username/password pair without side effects.
// A corrupt stored hash is returned as an error, not as a mismatch.
func (a *Authority) Authenticate(ctx context.Context, username, password string) (Result, error) {
	u, err := a.users.FindByUsername(ctx, username)
	if errors.Is(err, user.ErrUserNotFound) {
		return Result{Outcome: OutcomeNotFound}, nil
	}
	if err != nil {
		return Result{}, err
	}
	switch err := a.users.Hasher().Check(u.PasswordHash, password); {
	case err == nil:
		return Result{Outcome: OutcomeMatch, User: u}, nil
	case errors.Is(err, user.ErrHashMismatch):
		return Result{Outcome: OutcomeMismatch, User: u}, nil
	default:
		return Result{}, fmt.Errorf("user %s: %w", u.ID, err)
	}
}

// Register creates a new user.
func (a *Authority) Register(ctx context.Context, username, password string) (*entity.User, error) {
	return a.users.CreateUser(ctx, username, password)
}

// Login returns the matching user, creating it when the username is unknown.
// created reports whether this call created the user. If a concurrent login
// creates the same username first, the password is checked against the winner.
func (a *Authority) Login(ctx context.Context, username, password string) (u *entity.User, created bool, err error) {
	res, err := a.Authenticate(ctx, username, password)
	if err != nil {
		return nil, false, err
	}
	switch res.Outcome {
	case OutcomeMatch:
		return res.User, false, nil
	case OutcomeMismatch:
		return nil, false, ErrBadCredentials
	}

	u, err = a.users.CreateUser(ctx, username, password)
	if err == nil {
		a.logger.Infow("user registered", "user_id", u.ID, "username", u.Username)
		return u, true, nil
	}
	if !errors.Is(err, user.ErrDuplicateUser) {
		return nil, false, err
	}

	res, err = a.Authenticate(ctx, username, password)
	if err != nil {
		return nil, false, err
	}
	if res.Outcome != OutcomeMatch {
		return nil, false, ErrBadCredentials
	}
	return res.User, false, nil
}

// IssueToken signs a token for u and client and records its hash.
// The raw token is only ever returned here.
func (a *Authority) IssueToken(ctx context.Context, u *entity.User, client string) (string, error) {
	tok, err := a.signer.Sign(u.ID, token.Options{Subject: u.Username, Audience: client})
	if err != nil {
		return "", err
	}
	hash, err := a.users.Hasher().Hash(token.Fingerprint(tok))
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}
	rec := token.Record{TokenHash: hash, Username: u.Username, Client: client, Hint: token.Hint(tok)}
	if err := a.tokens.Append(ctx, rec); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return tok, nil
}

// Resolve maps a presented token to the identity it was issued for.
// Every verification failure is ErrInvalidToken; storage errors pass through.
func (a *Authority) Resolve(ctx context.Context, tok string) (*Identity, error) {
	if tok == "" {
		return nil, ErrInvalidToken
	}
	candidates, err := a.tokens.Candidates(ctx, token.Hint(tok))
	if err != nil {
		return nil, err
	}
	fp := token.Fingerprint(tok)
	var rec *token.Record
	for i := range candidates {
		if a.users.Hasher().Verify(candidates[i].TokenHash, fp) {
			rec = &candidates[i]
			break
		}
	}
	if rec == nil {
		return nil, ErrInvalidToken
	}

	claims, err := a.signer.Verify(tok, token.Options{Subject: rec.Username, Audience: rec.Client})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	u, err := a.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if u.Username != rec.Username {
		return nil, ErrInvalidToken
	}
	return &Identity{ID: u.ID, Username: u.Username, Token: tok}, nil
}
