package item

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/apperr"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Get decrypts the item (or all items for "*") with the key in Authorization.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("Authorization")
	if key == "" {
		apperr.Write(w, r, apperr.MissingDecryptionKey)
		return
	}
	items, err := h.svc.Get(r.Context(), r.PathValue("id"), key)
	switch {
	case errors.Is(err, ErrNotFound):
		apperr.Write(w, r, apperr.ResourceNotFound)
		return
	case err != nil:
		h.logger.Errorw("get items failed", "id", r.PathValue("id"), "error", err)
		apperr.ServerError(w, r)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, items)
}

type putRequest struct {
	Value json.RawMessage `json:"value"`
}

// Put encrypts body.value with the key in Authorization and stores it under id.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("Authorization")
	if key == "" {
		apperr.Write(w, r, apperr.MissingEncryptionKey)
		return
	}
	var req putRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil || empty(req.Value) {
		apperr.Write(w, r, apperr.WrongRequestBody)
		return
	}

	id := r.PathValue("id")
	if err := h.svc.Put(r.Context(), id, req.Value, key); err != nil {
		h.logger.Errorw("put item failed", "id", id, "error", err)
		apperr.ServerError(w, r)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]string{"id": id, "result": "success"})
}

// empty reports a missing value or one of null, false, 0 and "".
func empty(v json.RawMessage) bool {
	if len(v) == 0 {
		return true
	}
	var x any
	if err := json.Unmarshal(v, &x); err != nil {
		return true
	}
	switch x := x.(type) {
	case nil:
		return true
	case bool:
		return !x
	case float64:
		return x == 0
	case string:
		return x == ""
	}
	return false
}
