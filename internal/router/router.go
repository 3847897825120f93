package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/authority"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/country"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/event"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/field"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/item"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/token"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/utilities"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
// Every response carries an X-Request-Id, taken from the request when present.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get("X-Request-Id")
			if reqID == "" {
				reqID = utilities.NewKSUID()
			}
			w.Header().Set("X-Request-Id", reqID)
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			// ensure status is set
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// RecoverMiddleware turns a panic into a 500 response.
func RecoverMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					logger.Errorw("panic serving request", "path", r.URL.Path, "panic", v)
					apperr.ServerError(w, r)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Clickjacking protection
			w.Header().Set("X-Frame-Options", "DENY")

			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}

			// HSTS only over TLS
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware allows origin to call the API and read the Authorization
// response header that carries a freshly issued token.
func CORSMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Expose-Headers", "Authorization, X-Request-Id")
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Client-Id, Content-Type")
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Deps are the handlers the router mounts.
type Deps struct {
	Logger     *zap.SugaredLogger
	Auth       *authority.Authority
	Gate       func(http.Handler) http.Handler
	Events     *event.Handler
	Fields     *field.Handler
	Country    *country.Handler
	Items      *item.Handler
	Keys       *token.Handler
	CORSOrigin string
}

func healthcheck(w http.ResponseWriter, r *http.Request) {
	apperr.WriteJSON(w, http.StatusOK, map[string]string{"result": "success"})
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
func RegisterRoutes(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/healthcheck", healthcheck)
	mux.HandleFunc("GET /encrypted/healthcheck", healthcheck)
	mux.HandleFunc("GET /api/errorcheck", apperr.ServerError)
	mux.HandleFunc("GET /encrypted/errorcheck", apperr.ServerError)

	login := authority.NewHandler(d.Auth, d.Logger)
	mux.HandleFunc("POST /api/login", login.Login)

	mux.HandleFunc("GET /api/events", d.Events.List)
	mux.HandleFunc("GET /api/events/{id}", d.Events.Get)
	mux.HandleFunc("GET /api/fields", d.Fields.List)
	mux.HandleFunc("GET /api/.well-known/jwks.json", d.Keys.JWKS)

	// country and currency lookups need a token
	mux.Handle("GET /api/country", d.Gate(http.HandlerFunc(d.Country.Search)))
	mux.Handle("GET /api/country/{code}", d.Gate(http.HandlerFunc(d.Country.ByCode)))

	mux.HandleFunc("GET /encrypted/items/{id}", d.Items.Get)
	mux.HandleFunc("POST /encrypted/items/{id}", d.Items.Put)

	mux.HandleFunc("/", apperr.NotFound)

	// recover outermost, then logging, security headers and CORS
	handler := RecoverMiddleware(d.Logger)(
		LoggingMiddleware(d.Logger)(
			SecurityHeadersMiddleware()(
				CORSMiddleware(d.CORSOrigin)(mux))))
	return handler
}
