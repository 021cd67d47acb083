// Package api serves the country dataset over HTTP.
//
// Routes:
//
//	GET /                    plain-text acknowledgement
//	GET /health              liveness probe with the dataset size
//	GET /api/countries/{id}  one country by numeric id
//	GET /api/countries       filtered, paginated listing
//
// The handlers only parse requests and encode responses; every lookup and
// listing is a single call on the shared, read-only country.Dataset.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/dreamware/countries/internal/country"
	"github.com/dreamware/countries/internal/logging"
)

const (
	// DefaultItemsPerPage is used when items_per_page is absent
	DefaultItemsPerPage = 10

	msgNotFound = "Country not found"
)

// Server holds the dataset and the settings for the HTTP surface.
type Server struct {
	ds      *country.Dataset
	logger  *slog.Logger
	limiter *rate.Limiter
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access logs and handler errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRateLimit caps the whole server at perSecond requests with the given
// burst. A perSecond of zero or less disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewServer creates a Server over ds. The dataset must be fully loaded;
// the server never modifies it.
func NewServer(ds *country.Dataset, opts ...Option) *Server {
	s := &Server{
		ds:     ds,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the bare router without middleware.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/countries", s.handleListCountries)
	mux.HandleFunc("GET /api/countries/{id}", s.handleGetCountry)
	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello world"))
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Countries int    `json:"countries"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Countries: s.ds.Len()})
}

// MessageResponse carries a human-readable message for non-200 replies.
type MessageResponse struct {
	Msg string `json:"msg"`
}

func (s *Server) handleGetCountry(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, MessageResponse{Msg: "Invalid country id: " + strconv.Quote(raw)})
		return
	}

	rec, ok := s.ds.Lookup(uint8(id))
	if !ok {
		s.writeJSON(w, http.StatusNotFound, MessageResponse{Msg: msgNotFound})
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListCountries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := uintParam(q, "page", 0)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, MessageResponse{Msg: err.Error()})
		return
	}
	size, err := uintParam(q, "items_per_page", DefaultItemsPerPage)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, MessageResponse{Msg: err.Error()})
		return
	}

	pred := country.ResolvePredicate(
		optionalParam(q, "filter_country_code"),
		optionalParam(q, "filter_name"),
		optionalParam(q, "filter_tag"),
	)
	if pred != nil {
		s.logger.Debug("listing with filter", "filter", pred.String(), "page", page, "items_per_page", size)
	}

	s.writeJSON(w, http.StatusOK, s.ds.List(pred, page, size))
}

var errBadParam = errors.New("invalid query parameter")

// uintParam parses an optional unsigned 32-bit query parameter.
func uintParam(q url.Values, key string, def uint32) (uint32, error) {
	if !q.Has(key) {
		return def, nil
	}
	v, err := strconv.ParseUint(q.Get(key), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an unsigned 32-bit integer", errBadParam, key)
	}
	return uint32(v), nil
}

// optionalParam returns nil when key is absent and the (possibly empty) value otherwise.
func optionalParam(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
