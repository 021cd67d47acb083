// Package client is a small Go client for the countries HTTP API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dreamware/countries/internal/country"
)

// ErrNotFound is returned by GetCountry when the server answers 404
var ErrNotFound = errors.New("country not found")

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Msg        string
}

func (e *StatusError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("http %s: %d: %s", e.URL, e.StatusCode, e.Msg)
	}
	return fmt.Sprintf("http %s: %d", e.URL, e.StatusCode)
}

// Client talks to one countries server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (5s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a client for the server at baseURL, e.g. "http://127.0.0.1:4123".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListOptions selects filters and a page for ListCountries. Nil fields are
// left out of the query so the server applies its own defaults.
type ListOptions struct {
	CountryCode  *string
	Name         *string
	Tag          *string
	Page         *uint32
	ItemsPerPage *uint32
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.CountryCode != nil {
		q.Set("filter_country_code", *o.CountryCode)
	}
	if o.Name != nil {
		q.Set("filter_name", *o.Name)
	}
	if o.Tag != nil {
		q.Set("filter_tag", *o.Tag)
	}
	if o.Page != nil {
		q.Set("page", strconv.FormatUint(uint64(*o.Page), 10))
	}
	if o.ItemsPerPage != nil {
		q.Set("items_per_page", strconv.FormatUint(uint64(*o.ItemsPerPage), 10))
	}
	return q
}

// GetCountry fetches one country by id.
func (c *Client) GetCountry(ctx context.Context, id uint8) (country.Record, error) {
	var rec country.Record
	err := c.getJSON(ctx, "/api/countries/"+strconv.Itoa(int(id)), nil, &rec)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return country.Record{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return rec, err
}

// ListCountries fetches one page of countries.
func (c *Client) ListCountries(ctx context.Context, opts ListOptions) (country.Page, error) {
	var page country.Page
	err := c.getJSON(ctx, "/api/countries", opts.values(), &page)
	return page, err
}

// Health is the body of GET /health.
type Health struct {
	Status    string `json:"status"`
	Countries int    `json:"countries"`
}

// Health checks that the server is up and reports its dataset size.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.getJSON(ctx, "/health", nil, &h)
	return h, err
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		se := &StatusError{URL: u, StatusCode: resp.StatusCode}
		var body struct {
			Msg string `json:"msg"`
		}
		if json.NewDecoder(resp.Body).Decode(&body) == nil {
			se.Msg = body.Msg
		}
		return se
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
