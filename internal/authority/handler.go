package authority

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/apperr"
)

// Handler serves the login route.
type Handler struct {
	auth   *Authority
	logger *zap.SugaredLogger
}

func NewHandler(auth *Authority, logger *zap.SugaredLogger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

type loginResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

// Login authenticates with Basic credentials, registering unknown users, and
// returns a fresh token in the Authorization response header.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	client := r.Header.Get("Client-Id")
	if client == "" {
		apperr.Write(w, r, apperr.MissingClientID)
		return
	}
	username, password, ok := r.BasicAuth()
	if !ok || username == "" || password == "" {
		apperr.Write(w, r, apperr.WrongLoginRequest)
		return
	}

	u, _, err := h.auth.Login(r.Context(), username, password)
	if errors.Is(err, ErrBadCredentials) {
		apperr.Write(w, r, apperr.IncorrectUsernameOrPassword)
		return
	}
	if err != nil {
		h.logger.Errorw("login failed", "username", username, "error", err)
		apperr.ServerError(w, r)
		return
	}

	tok, err := h.auth.IssueToken(r.Context(), u, client)
	if err != nil {
		h.logger.Errorw("issue token failed", "user_id", u.ID, "error", err)
		apperr.ServerError(w, r)
		return
	}

	var resp loginResponse
	resp.Data.ID = u.ID
	resp.Data.Username = u.Username
	w.Header().Set("Authorization", tok)
	apperr.WriteJSON(w, http.StatusOK, resp)
}
