package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/authority"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/authz"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/country"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/event"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/field"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/item"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/token"
	tokenrepo "github.com/ovaphlow/pitchfork/service-pitchside/internal/token/repo"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/user"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/utilities"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop().Sugar()

	store, err := database.NewInMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	keys, err := token.GenerateKeys(2048)
	require.NoError(t, err)
	signer := token.NewSigner(keys, "pitchside-test", nil)
	users := user.NewUserService(store, user.BcryptHasher{Cost: bcrypt.MinCost}, utilities.NewIDGenerator(1))
	auth := authority.New(users, tokenrepo.NewTokenRepo(store), signer, logger)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/name/Hun") {
			_, _ = w.Write([]byte(`[{"name":"Hungary","alpha3Code":"HUN","flag":"hu.svg"}]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(upstream.Close)
	cc, err := country.NewCountriesClient(upstream.URL, upstream.Client())
	require.NoError(t, err)
	ec, err := country.NewExchangeClient(upstream.URL, upstream.Client())
	require.NoError(t, err)

	fields := field.NewService(store)
	h := RegisterRoutes(Deps{
		Logger:     logger,
		Auth:       auth,
		Gate:       authz.Gate(auth, logger),
		Events:     event.NewHandler(event.NewService(store, fields, nil), logger),
		Fields:     field.NewHandler(fields, logger),
		Country:    country.NewHandler(cc, ec, "EUR", country.LimitConfig{}, logger),
		Items:      item.NewHandler(item.NewService(store, item.NewCipher(item.Params{Time: 1, Memory: 1024, Threads: 1}), logger), logger),
		Keys:       token.NewHandler(signer),
		CORSOrigin: "*",
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, headers map[string]string, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthAndErrorRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, p := range []string{"/api/healthcheck", "/encrypted/healthcheck"} {
		resp := do(t, http.MethodGet, srv.URL+p, nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, map[string]any{"result": "success"}, decode(t, resp))
		assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	}
	for _, p := range []string{"/api/errorcheck", "/encrypted/errorcheck"} {
		resp := do(t, http.MethodGet, srv.URL+p, nil, "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}

	resp := do(t, http.MethodGet, srv.URL+"/route-that-not-exists", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": "Not found"}, decode(t, resp))

	resp = do(t, http.MethodGet, srv.URL+"/route-that-not-exists", map[string]string{"Accept": "text/plain"}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
}

func TestLoginThenGatedRoute(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/api/country?search=Hun"

	resp := do(t, http.MethodGet, url, nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decode(t, resp)["code"])

	resp = do(t, http.MethodGet, url, map[string]string{"Authorization": "Bearer "}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decode(t, resp)["code"])

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/login", nil)
	require.NoError(t, err)
	req.Header.Set("Client-Id", "client_id")
	req.SetBasicAuth("testuser", "testpassword")
	login, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer login.Body.Close()
	require.Equal(t, http.StatusOK, login.StatusCode)
	tok := login.Header.Get("Authorization")
	require.NotEmpty(t, tok)

	resp = do(t, http.MethodGet, url, map[string]string{"Authorization": "Bearer " + tok}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result, ok := decode(t, resp)["result"].([]any)
	require.True(t, ok)
	assert.Len(t, result, 1)

	resp = do(t, http.MethodGet, srv.URL+"/api/country?search=", map[string]string{"Authorization": tok}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "WRONG_SEARCH_REQUEST", decode(t, resp)["code"])

	resp = do(t, http.MethodGet, srv.URL+"/api/.well-known/jwks.json", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, decode(t, resp), "keys")
}

func TestEncryptedItemsRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/encrypted/items/x",
		map[string]string{"Authorization": "k1", "Content-Type": "application/json"}, `{"value":{"a":1}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/encrypted/items/x", map[string]string{"Authorization": "k1"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, map[string]any{"a": float64(1)}, items[0]["value"])
}

func TestEventsAndFieldsRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/events", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, decode(t, resp), "data")

	resp = do(t, http.MethodGet, srv.URL+"/api/events/1", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/fields", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, decode(t, resp), "data")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodOptions, srv.URL+"/api/login", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "POST",
	}, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Expose-Headers"), "Authorization")
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Client-Id")
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(zap.NewNop().Sugar())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server error")
}
