package event

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/apperr"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// List returns upcoming matches.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.svc.Upcoming(r.Context())
	if err != nil {
		h.logger.Errorw("list matches failed", "error", err)
		apperr.ServerError(w, r)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"data": matches})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		apperr.Write(w, r, apperr.ResourceNotFound)
		return
	}
	m, err := h.svc.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		apperr.Write(w, r, apperr.ResourceNotFound)
		return
	}
	if err != nil {
		h.logger.Errorw("get match failed", "id", id, "error", err)
		apperr.ServerError(w, r)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"data": m})
}
