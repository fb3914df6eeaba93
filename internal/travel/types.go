package travel

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// ErrInvalidInput is returned when a request or option set cannot be processed.
var ErrInvalidInput = errors.New("invalid input")

// Mode is a transport mode.
type Mode string

const (
	Flight Mode = "flight"
	Train  Mode = "train"
	Bus    Mode = "bus"
)

// Modes lists every supported transport mode.
var Modes = []Mode{Flight, Train, Bus}

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	switch m {
	case Flight, Train, Bus:
		return true
	}
	return false
}

// ParseMode parses a transport mode, case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown transport mode %q", ErrInvalidInput, s)
	}
	return m, nil
}

// Preference biases which option is labeled as the best recommendation.
type Preference string

const (
	PreferNone     Preference = "none"
	PreferCheapest Preference = "cheapest"
	PreferFastest  Preference = "fastest"
	PreferBalanced Preference = "balanced"
)

// ParsePreference parses a preference hint. An empty string means no preference.
func ParsePreference(s string) (Preference, error) {
	p := Preference(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return PreferNone, nil
	case PreferNone, PreferCheapest, PreferFastest, PreferBalanced:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown preference %q", ErrInvalidInput, s)
}

// TripType distinguishes one-way from round-trip searches.
type TripType string

const (
	OneWay    TripType = "one-way"
	RoundTrip TripType = "round-trip"
)

// SearchRequest holds the parameters of a single search.
type SearchRequest struct {
	Origin        string
	Destination   string
	DepartureDate *time.Time
	ReturnDate    *time.Time
	TripType      TripType
	Mode          Mode
	Preference    Preference
}

// Endpoint is one end of a trip.
type Endpoint struct {
	Time     string `json:"time"`
	Location string `json:"location"`
}

// Option is a single travel offering.
type Option struct {
	ID        string   `json:"id"`
	Provider  string   `json:"provider"`
	Mode      Mode     `json:"transport_mode"`
	Departure Endpoint `json:"departure"`
	Arrival   Endpoint `json:"arrival"`
	Duration  string   `json:"duration"`
	Price     int      `json:"price"`
	Currency  string   `json:"currency"`
	Seats     int      `json:"seats"`
	Amenities []string `json:"amenities"`
	Score     float64  `json:"score"`
}

// Recommendations point into the Options of the ResultSet they belong to.
type Recommendations struct {
	Best     *Option
	Cheapest *Option
	Fastest  *Option
}

// PriceStats summarizes option prices.
type PriceStats struct {
	Lowest  int `json:"lowest"`
	Average int `json:"average"`
	Highest int `json:"highest"`
}

// ResultSet is the outcome of one search.
type ResultSet struct {
	Options         []Option
	Recommendations Recommendations
	PriceStats      PriceStats
}
