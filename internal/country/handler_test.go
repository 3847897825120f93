package country

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMux(t *testing.T, limits LimitConfig) *http.ServeMux {
	t.Helper()
	srv := fakeUpstream(t)
	cc, err := NewCountriesClient(srv.URL, srv.Client())
	require.NoError(t, err)
	ec, err := NewExchangeClient(srv.URL, srv.Client())
	require.NoError(t, err)
	h := NewHandler(cc, ec, "eur", limits, zap.NewNop().Sugar())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/country", h.Search)
	mux.HandleFunc("GET /api/country/{code}", h.ByCode)
	return mux
}

func get(mux http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandler_Search(t *testing.T) {
	mux := newTestMux(t, LimitConfig{})

	rec := get(mux, "/api/country?search=Hun")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Result []SearchItem `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Result, 1)

	rec = get(mux, "/api/country?search=Hug")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":[]}`, rec.Body.String())

	for _, path := range []string{"/api/country?search=", "/api/country"} {
		rec = get(mux, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "WRONG_SEARCH_REQUEST")
	}

	rec = get(mux, "/api/country?search=Busy")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "LIMIT_REACHED")

	rec = get(mux, "/api/country?search=Boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_ByCode(t *testing.T) {
	mux := newTestMux(t, LimitConfig{})

	rec := get(mux, "/api/country/HUN")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":{"name":"Hungary","alpha3Code":"HUN","flag":"hu.svg","population":9773000,
		"currencies":[{"code":"HUF","name":"Hungarian forint","symbol":"Ft","base":"EUR","rate":330.5}]}}`,
		rec.Body.String())

	rec = get(mux, "/api/country/XXX")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_LocalLimit(t *testing.T) {
	mux := newTestMux(t, LimitConfig{PerSecond: 0.001, Burst: 1})

	assert.Equal(t, http.StatusOK, get(mux, "/api/country?search=Hun").Code)
	rec := get(mux, "/api/country?search=Hun")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "LIMIT_REACHED")
}
