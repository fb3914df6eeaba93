// Package booking builds provider booking links for travel options.
package booking

import (
	"net/url"
	"strings"

	"github.com/alex-user-go/voyage/internal/travel"
)

// NoURL is returned when no booking page is known for an option.
const NoURL = "#"

var flightURLs = map[string]string{
	"Air India": "https://www.airindia.com/in/en/book/flight-search.html",
	"SpiceJet":  "https://www.spicejet.com/",
	"Vistara":   "https://www.airvistara.com/in/en/book/flight-search",
	"Go First":  "https://www.flygofirst.com/",
}

const (
	indigoSearchURL = "https://www.goindigo.in/booking/flight-search.html"
	trainSearchURL  = "https://www.irctc.co.in/nget/train-search"
	redBusURL       = "https://www.redbus.in/"
)

// URL returns the booking page for o.
func URL(o travel.Option) string {
	origin := url.PathEscape(o.Departure.Location)
	destination := url.PathEscape(o.Arrival.Location)

	switch o.Mode {
	case travel.Flight:
		if o.Provider == "IndiGo" {
			q := url.Values{}
			q.Set("from", o.Departure.Location)
			q.Set("to", o.Arrival.Location)
			return indigoSearchURL + "?" + q.Encode()
		}
		if u, ok := flightURLs[o.Provider]; ok {
			return u
		}
	case travel.Train:
		return trainSearchURL
	case travel.Bus:
		switch {
		case strings.Contains(o.Provider, "RedBus"):
			return "https://www.redbus.in/bus-tickets/" + origin + "-to-" + destination
		case strings.Contains(o.Provider, "AbhiBus"):
			return "https://www.abhibus.com/bus/" + origin + "-to-" + destination
		}
		return redBusURL
	}
	return NoURL
}
