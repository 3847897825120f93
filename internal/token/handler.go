package token

import (
	"net/http"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/apperr"
)

type Handler struct {
	signer *Signer
}

func NewHandler(signer *Signer) *Handler {
	return &Handler{signer: signer}
}

// JWKS publishes the verification key so clients can check tokens offline.
func (h *Handler) JWKS(w http.ResponseWriter, r *http.Request) {
	apperr.WriteJSON(w, http.StatusOK, h.signer.JWKS())
}
