package field

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/apperr"
)

// Handler contains dependencies for handling field endpoints.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

// NewHandler constructs a new Handler.
func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// List returns fields matching the optional search query parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	fields, err := h.svc.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Errorw("list fields failed", "error", err)
		apperr.ServerError(w, r)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"data": fields})
}
