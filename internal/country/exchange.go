package country

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Rates maps a currency code to its rate against the base; nil means unknown.
type Rates map[string]*float64

type ExchangeClient struct {
	baseURL string
	http    *http.Client
}

func NewExchangeClient(baseURL string, httpClient *http.Client) (*ExchangeClient, error) {
	u, err := normalizeBaseURL(baseURL, "Exchange Rate")
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	return &ExchangeClient{baseURL: u, http: httpClient}, nil
}

// Latest returns the current rates of codes against base. When the upstream
// rejects the symbols as invalid every code maps to nil.
func (c *ExchangeClient) Latest(ctx context.Context, codes []string, base string) (Rates, error) {
	q := url.Values{}
	q.Set("base", base)
	q.Set("symbols", strings.Join(codes, ","))
	u := c.baseURL + "/latest?" + q.Encode()

	body, status, err := fetch(ctx, c.http, u)
	if err != nil {
		return nil, err
	}
	if invalidSymbols(errorMessage(body)) {
		rates := make(Rates, len(codes))
		for _, code := range codes {
			rates[code] = nil
		}
		return rates, nil
	}
	if status < 200 || status > 299 {
		return nil, parseAPIError(status, body)
	}

	var wire struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	rates := make(Rates, len(codes))
	for _, code := range codes {
		if v, ok := wire.Rates[code]; ok {
			rates[code] = &v
		} else {
			rates[code] = nil
		}
	}
	return rates, nil
}

func invalidSymbols(msg string) bool {
	up := strings.ToUpper(msg)
	return strings.Contains(up, "SYMBOLS") && strings.Contains(up, "ARE INVALID")
}
