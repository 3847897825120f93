package country

import (
	"context"
	"net/http"
	"net/url"
)

// SearchItem is the short form returned by a name search.
type SearchItem struct {
	Name   string `json:"name"`
	Alpha3 string `json:"alpha3Code"`
	Flag   string `json:"flag"`
}

type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Details is the subset of a country record the API exposes.
type Details struct {
	Name       string     `json:"name"`
	Alpha3     string     `json:"alpha3Code"`
	Flag       string     `json:"flag"`
	Population int64      `json:"population"`
	Currencies []Currency `json:"currencies"`
}

type CountriesClient struct {
	baseURL string
	http    *http.Client
}

func NewCountriesClient(baseURL string, httpClient *http.Client) (*CountriesClient, error) {
	u, err := normalizeBaseURL(baseURL, "Countries")
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	return &CountriesClient{baseURL: u, http: httpClient}, nil
}

// Search looks countries up by (partial) name. No match is an empty result.
func (c *CountriesClient) Search(ctx context.Context, term string) ([]SearchItem, error) {
	var found []Details
	err := getJSON(ctx, c.http, c.baseURL+"/name/"+url.PathEscape(term), &found)
	if statusIs(err, http.StatusNotFound) {
		return []SearchItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]SearchItem, 0, len(found))
	for _, d := range found {
		out = append(out, SearchItem{Name: d.Name, Alpha3: d.Alpha3, Flag: d.Flag})
	}
	return out, nil
}

// ByCode returns nil when the code is unknown.
func (c *CountriesClient) ByCode(ctx context.Context, code string) (*Details, error) {
	var d Details
	err := getJSON(ctx, c.http, c.baseURL+"/alpha/"+url.PathEscape(code), &d)
	if statusIs(err, http.StatusBadRequest, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
