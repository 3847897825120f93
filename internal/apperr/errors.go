// Package apperr holds the caller-facing error catalogue and the responder
// that renders an entry as JSON or plain text depending on the Accept header.
package apperr

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Error is a {message, statusCode, code} triple surfaced verbatim to callers.
type Error struct {
	Message    string
	StatusCode int
	Code       string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

var (
	MissingClientID = &Error{
		Message:    "Please specify the Client-Id header!",
		StatusCode: http.StatusBadRequest,
		Code:       "MISSING_CLIENT_ID",
	}
	WrongLoginRequest = &Error{
		Message:    "Please specify the username and password in the Authorization header using Basic authentication!",
		StatusCode: http.StatusBadRequest,
		Code:       "WRONG_LOGIN_REQUEST",
	}
	IncorrectUsernameOrPassword = &Error{
		Message:    "Incorrect username or password!",
		StatusCode: http.StatusUnauthorized,
		Code:       "INCORRECT_USERNAME_OR_PASSWORD",
	}
	MissingToken = &Error{
		Message:    "Please specify the token in the Authorization header!",
		StatusCode: http.StatusBadRequest,
		Code:       "MISSING_TOKEN",
	}
	InvalidToken = &Error{
		Message:    "The specified token is invalid!",
		StatusCode: http.StatusUnauthorized,
		Code:       "INVALID_TOKEN",
	}
	LimitReached = &Error{
		Message:    "Request limit reached, please try again later.",
		StatusCode: http.StatusTooManyRequests,
		Code:       "LIMIT_REACHED",
	}
	WrongSearchRequest = &Error{
		Message:    "Please specify a non-empty 'search' query parameter!",
		StatusCode: http.StatusBadRequest,
		Code:       "WRONG_SEARCH_REQUEST",
	}
	MissingDecryptionKey = &Error{
		Message:    "Please specify the decryption key in the Authorization header!",
		StatusCode: http.StatusUnauthorized,
		Code:       "MISSING_DECRYPTION_KEY",
	}
	MissingEncryptionKey = &Error{
		Message:    "Please specify the encryption key in the Authorization header!",
		StatusCode: http.StatusUnauthorized,
		Code:       "MISSING_ENCRYPTION_KEY",
	}
	WrongRequestBody = &Error{
		Message:    "Please specify the value property on the request body!",
		StatusCode: http.StatusBadRequest,
		Code:       "WRONG_REQUEST_BODY",
	}
	ResourceNotFound = &Error{
		Message:    "Resource with the specified 'id' was not found.",
		StatusCode: http.StatusNotFound,
		Code:       "RESOURCE_NOT_FOUND",
	}
)

// Body is the JSON shape of an error response.
type Body struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Write renders e with its status code.
func Write(w http.ResponseWriter, r *http.Request, e *Error) {
	writeBody(w, r, e.StatusCode, Body{Error: e.Message, Code: e.Code})
}

// NotFound is the response for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeBody(w, r, http.StatusNotFound, Body{Error: "Not found"})
}

// ServerError is the response for unexpected failures; details stay in the logs.
func ServerError(w http.ResponseWriter, r *http.Request) {
	writeBody(w, r, http.StatusInternalServerError, Body{Error: "Server error"})
}

func writeBody(w http.ResponseWriter, r *http.Request, status int, b Body) {
	if !wantsJSON(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(b.Error))
		return
	}
	WriteJSON(w, status, b)
}

// WriteJSON encodes v as the response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSON is preferred unless the client explicitly asks for something else.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "json") || strings.Contains(accept, "*/*")
}
