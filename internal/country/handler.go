package country

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/apperr"
)

// Countries and Exchange are the upstream lookups the handler proxies.
type Countries interface {
	Search(ctx context.Context, term string) ([]SearchItem, error)
	ByCode(ctx context.Context, code string) (*Details, error)
}

type Exchange interface {
	Latest(ctx context.Context, codes []string, base string) (Rates, error)
}

// LimitConfig bounds calls to each upstream. PerSecond <= 0 disables limiting.
type LimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

func (c LimitConfig) limiter() *rate.Limiter {
	if c.PerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := c.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(c.PerSecond), burst)
}

type Handler struct {
	countries       Countries
	exchange        Exchange
	base            string
	countryLimiter  *rate.Limiter
	exchangeLimiter *rate.Limiter
	logger          *zap.SugaredLogger
}

func NewHandler(countries Countries, exchange Exchange, base string, limits LimitConfig, logger *zap.SugaredLogger) *Handler {
	if base == "" {
		base = "EUR"
	}
	return &Handler{
		countries:       countries,
		exchange:        exchange,
		base:            strings.ToUpper(base),
		countryLimiter:  limits.limiter(),
		exchangeLimiter: limits.limiter(),
		logger:          logger,
	}
}

// CurrencyRate is a country currency with its rate against Base.
type CurrencyRate struct {
	Currency
	Base string   `json:"base"`
	Rate *float64 `json:"rate"`
}

type detailsResponse struct {
	Name       string         `json:"name"`
	Alpha3     string         `json:"alpha3Code"`
	Flag       string         `json:"flag"`
	Population int64          `json:"population"`
	Currencies []CurrencyRate `json:"currencies"`
}

// Search proxies a country name search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("search"))
	if term == "" {
		apperr.Write(w, r, apperr.WrongSearchRequest)
		return
	}
	if !h.countryLimiter.Allow() {
		apperr.Write(w, r, apperr.LimitReached)
		return
	}
	items, err := h.countries.Search(r.Context(), term)
	if err != nil {
		h.upstreamFailed(w, r, "country search failed", err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"result": items})
}

// ByCode proxies a country lookup and attaches exchange rates for its currencies.
func (h *Handler) ByCode(w http.ResponseWriter, r *http.Request) {
	if !h.countryLimiter.Allow() {
		apperr.Write(w, r, apperr.LimitReached)
		return
	}
	d, err := h.countries.ByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		h.upstreamFailed(w, r, "country lookup failed", err)
		return
	}
	if d == nil {
		apperr.Write(w, r, apperr.ResourceNotFound)
		return
	}

	base := h.base
	if b := r.URL.Query().Get("base"); b != "" {
		base = strings.ToUpper(b)
	}
	codes := make([]string, 0, len(d.Currencies))
	for _, c := range d.Currencies {
		if c.Code != "" {
			codes = append(codes, c.Code)
		}
	}
	var rates Rates
	if len(codes) > 0 {
		if !h.exchangeLimiter.Allow() {
			apperr.Write(w, r, apperr.LimitReached)
			return
		}
		rates, err = h.exchange.Latest(r.Context(), codes, base)
		if err != nil {
			h.upstreamFailed(w, r, "exchange rate lookup failed", err)
			return
		}
	}

	resp := detailsResponse{Name: d.Name, Alpha3: d.Alpha3, Flag: d.Flag, Population: d.Population,
		Currencies: make([]CurrencyRate, 0, len(d.Currencies))}
	for _, c := range d.Currencies {
		resp.Currencies = append(resp.Currencies, CurrencyRate{Currency: c, Base: base, Rate: rates[c.Code]})
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"result": resp})
}

func (h *Handler) upstreamFailed(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if IsRateLimited(err) {
		apperr.Write(w, r, apperr.LimitReached)
		return
	}
	h.logger.Errorw(msg, "path", r.URL.Path, "error", err)
	apperr.ServerError(w, r)
}
