package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alex-user-go/voyage/internal/booking"
	"github.com/alex-user-go/voyage/internal/export"
	"github.com/alex-user-go/voyage/internal/middleware"
	"github.com/alex-user-go/voyage/internal/obs"
	"github.com/alex-user-go/voyage/internal/places"
	"github.com/alex-user-go/voyage/internal/search"
	"github.com/alex-user-go/voyage/internal/search/cache"
	"github.com/alex-user-go/voyage/internal/travel"
)

// Handler handles HTTP requests.
type Handler struct {
	service *search.Service
	cache   *cache.Cache
	metrics *obs.Metrics
	logger  *slog.Logger
}

// New creates a new Handler.
func New(
	service *search.Service,
	searchCache *cache.Cache,
	metrics *obs.Metrics,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		service: service,
		cache:   searchCache,
		metrics: metrics,
		logger:  logger,
	}
}

// SearchResponse represents the complete API response.
type SearchResponse struct {
	Search          SearchInfo          `json:"search"`
	Stats           SearchStats         `json:"stats"`
	Options         []OptionView        `json:"options"`
	Recommendations RecommendationsView `json:"recommendations"`
	PriceStats      travel.PriceStats   `json:"price_stats"`
}

// SearchInfo contains the search parameters.
type SearchInfo struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Date       string `json:"date"`
	Return     string `json:"return,omitempty"`
	Trip       string `json:"trip"`
	Mode       string `json:"mode"`
	Preference string `json:"prefer"`
}

// SearchStats contains search statistics.
type SearchStats struct {
	Options    int    `json:"options"`
	Cache      string `json:"cache"`
	DurationMs int64  `json:"duration_ms"`
}

// OptionView is an option as returned to clients.
type OptionView struct {
	travel.Option
	BookingURL string `json:"booking_url"`
}

// RecommendationsView holds the labeled options of a result set.
type RecommendationsView struct {
	Best     *OptionView `json:"best"`
	Cheapest *OptionView `json:"cheapest"`
	Fastest  *OptionView `json:"fastest"`
}

// SearchHandler handles /search requests. refresh=true discards a cached
// result set for the same search before fetching.
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	req, result, cacheHit, ok := h.run(w, r)
	if !ok {
		return
	}

	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
	}

	options := make([]OptionView, len(result.Options))
	for i, o := range result.Options {
		options[i] = view(o)
	}

	response := SearchResponse{
		Search: info(req),
		Stats: SearchStats{
			Options:    len(options),
			Cache:      cacheStatus,
			DurationMs: time.Since(startTime).Milliseconds(),
		},
		Options: options,
		Recommendations: RecommendationsView{
			Best:     viewPtr(result.Recommendations.Best),
			Cheapest: viewPtr(result.Recommendations.Cheapest),
			Fastest:  viewPtr(result.Recommendations.Fastest),
		},
		PriceStats: result.PriceStats,
	}

	writeJSON(w, http.StatusOK, response, middleware.Logger(r.Context(), h.logger))
}

// PDFHandler handles /search/itinerary.pdf requests. It accepts the same
// query as SearchHandler and renders the (possibly cached) result set.
func (h *Handler) PDFHandler(w http.ResponseWriter, r *http.Request) {
	logger := middleware.Logger(r.Context(), h.logger)

	req, result, _, ok := h.run(w, r)
	if !ok {
		return
	}

	doc, err := export.ItineraryPDF(req, result, time.Now())
	if err != nil {
		logger.Error("failed to render itinerary", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render itinerary")
		return
	}

	filename := fmt.Sprintf("itinerary-%s-%s-%s.pdf",
		strings.ToLower(req.Origin), strings.ToLower(req.Destination), req.Mode)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", strings.ReplaceAll(filename, " ", "-")))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		logger.Error("failed to write itinerary", "error", err)
	}
}

// run parses the request and fetches its result set through the cache.
// When it returns false an error response has already been written.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) (travel.SearchRequest, *travel.ResultSet, bool, bool) {
	h.metrics.IncRequests()
	logger := middleware.Logger(r.Context(), h.logger)
	ip := ExtractIP(r)

	// Parse and validate query parameters
	req, err := ParseSearchParams(r)
	if err != nil {
		logger.Debug("invalid request parameters", "error", err, "ip", ip)
		writeError(w, http.StatusBadRequest, err.Error())
		return req, nil, false, false
	}

	key := h.cache.Key(req)
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		h.cache.Invalidate(key)
	}
	result, cacheHit, err := h.cache.GetOrFetch(r.Context(), key, func() (*travel.ResultSet, error) {
		return h.service.Search(r.Context(), req)
	})
	if err != nil {
		logger.Error("search failed",
			"error", err,
			"from", req.Origin,
			"to", req.Destination,
			"mode", req.Mode,
			"ip", ip,
		)
		if errors.Is(err, travel.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid search")
			return req, nil, false, false
		}
		writeError(w, http.StatusInternalServerError, "search failed")
		return req, nil, false, false
	}

	if cacheHit {
		h.metrics.IncCacheHits()
	}

	return req, result, cacheHit, true
}

// CitiesHandler handles /cities requests. An empty q returns the popular cities.
func (h *Handler) CitiesHandler(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	var cities []places.City
	if q == "" {
		cities = places.Popular()
	} else {
		cities = places.Filter(q)
	}

	writeJSON(w, http.StatusOK, map[string][]places.City{"cities": cities}, middleware.Logger(r.Context(), h.logger))
}

// ModesHandler handles /routes/modes requests.
func (h *Handler) ModesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from := strings.TrimSpace(query.Get("from"))
	if from == "" {
		writeError(w, http.StatusBadRequest, "from is required")
		return
	}
	to := strings.TrimSpace(query.Get("to"))
	if to == "" {
		writeError(w, http.StatusBadRequest, "to is required")
		return
	}
	from, to = canonicalCity(from), canonicalCity(to)

	writeJSON(w, http.StatusOK, map[string]any{
		"from":  from,
		"to":    to,
		"modes": places.AvailableModes(from, to),
	}, middleware.Logger(r.Context(), h.logger))
}

// ParseSearchParams parses and validates search parameters from the request.
func ParseSearchParams(r *http.Request) (travel.SearchRequest, error) {
	query := r.URL.Query()

	// From/To - required, resolved against the city directory when known
	from := strings.TrimSpace(query.Get("from"))
	if from == "" {
		return travel.SearchRequest{}, errors.New("from is required")
	}
	to := strings.TrimSpace(query.Get("to"))
	if to == "" {
		return travel.SearchRequest{}, errors.New("to is required")
	}
	from, to = canonicalCity(from), canonicalCity(to)

	// Date - required, YYYY-MM-DD format
	dateStr := strings.TrimSpace(query.Get("date"))
	if dateStr == "" {
		return travel.SearchRequest{}, errors.New("date is required")
	}
	date, err := time.Parse(travel.DateLayout, dateStr)
	if err != nil {
		return travel.SearchRequest{}, errors.New("date must be in YYYY-MM-DD format")
	}

	// Mode - optional, defaults to flight
	mode := travel.Flight
	if s := query.Get("mode"); strings.TrimSpace(s) != "" {
		if mode, err = travel.ParseMode(s); err != nil {
			return travel.SearchRequest{}, errors.New("mode must be one of flight, train, bus")
		}
	}

	pref, err := travel.ParsePreference(query.Get("prefer"))
	if err != nil {
		return travel.SearchRequest{}, errors.New("prefer must be one of cheapest, fastest, balanced")
	}

	// Trip - optional, defaults to one-way; round-trips need a return date
	req := travel.SearchRequest{
		Origin:        from,
		Destination:   to,
		DepartureDate: &date,
		TripType:      travel.OneWay,
		Mode:          mode,
		Preference:    pref,
	}
	switch travel.TripType(strings.ToLower(strings.TrimSpace(query.Get("trip")))) {
	case "", travel.OneWay:
	case travel.RoundTrip:
		req.TripType = travel.RoundTrip
		retStr := strings.TrimSpace(query.Get("return"))
		if retStr == "" {
			return travel.SearchRequest{}, errors.New("return is required for round-trip")
		}
		ret, err := time.Parse(travel.DateLayout, retStr)
		if err != nil {
			return travel.SearchRequest{}, errors.New("return must be in YYYY-MM-DD format")
		}
		req.ReturnDate = &ret
	default:
		return travel.SearchRequest{}, errors.New("trip must be one of one-way, round-trip")
	}

	if !places.ModeAvailable(from, to, mode) {
		return travel.SearchRequest{}, errors.New("mode is not available for this route")
	}

	return req, nil
}

// canonicalCity maps a known city name, code or alias to its directory name.
// Unknown names are passed through.
func canonicalCity(name string) string {
	if c, ok := places.Lookup(name); ok {
		return c.Name
	}
	return name
}

func info(req travel.SearchRequest) SearchInfo {
	si := SearchInfo{
		From:       req.Origin,
		To:         req.Destination,
		Trip:       string(req.TripType),
		Mode:       string(req.Mode),
		Preference: string(req.Preference),
	}
	if req.DepartureDate != nil {
		si.Date = req.DepartureDate.Format(travel.DateLayout)
	}
	if req.ReturnDate != nil {
		si.Return = req.ReturnDate.Format(travel.DateLayout)
	}
	return si
}

func view(o travel.Option) OptionView {
	return OptionView{Option: o, BookingURL: booking.URL(o)}
}

func viewPtr(o *travel.Option) *OptionView {
	if o == nil {
		return nil
	}
	v := view(*o)
	return &v
}

// ExtractIP extracts the client IP from the request.
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr.
func ExtractIP(r *http.Request) string {
	// Check X-Forwarded-For (first IP in the list)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return RemoteIP(r)
}

// RemoteIP returns the peer address of the connection without its port.
func RemoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// ClientIP returns the function used to key per-client rate limits.
// Forwarding headers are client-controlled, so they are only honored behind
// a trusted proxy.
func ClientIP(trustProxy bool) func(*http.Request) string {
	if trustProxy {
		return ExtractIP
	}
	return RemoteIP
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Can't change status after WriteHeader, just log
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
