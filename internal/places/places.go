// Package places holds the city directory used for search suggestions and
// the transport modes available between city pairs.
package places

import (
	"strings"

	"github.com/alex-user-go/voyage/internal/travel"
)

// City is a searchable origin or destination.
type City struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	State   string `json:"state"`
	Popular bool   `json:"popular"`
}

var cities = []City{
	{ID: "1", Name: "Hyderabad", Code: "HYD", State: "Telangana", Popular: true},
	{ID: "2", Name: "Bangalore", Code: "BLR", State: "Karnataka", Popular: true},
	{ID: "3", Name: "Mumbai", Code: "BOM", State: "Maharashtra", Popular: true},
	{ID: "4", Name: "Delhi", Code: "DEL", State: "Delhi", Popular: true},
	{ID: "5", Name: "Chennai", Code: "MAA", State: "Tamil Nadu", Popular: true},
	{ID: "6", Name: "Kolkata", Code: "CCU", State: "West Bengal", Popular: true},
	{ID: "7", Name: "Pune", Code: "PNQ", State: "Maharashtra", Popular: true},
	{ID: "8", Name: "Ahmedabad", Code: "AMD", State: "Gujarat", Popular: true},
	{ID: "9", Name: "Jaipur", Code: "JAI", State: "Rajasthan"},
	{ID: "10", Name: "Lucknow", Code: "LKO", State: "Uttar Pradesh"},
	{ID: "11", Name: "Khammam", Code: "KMM", State: "Telangana"},
	{ID: "12", Name: "Vijayawada", Code: "VGA", State: "Andhra Pradesh"},
	{ID: "13", Name: "Visakhapatnam", Code: "VTZ", State: "Andhra Pradesh"},
	{ID: "14", Name: "Coimbatore", Code: "CJB", State: "Tamil Nadu"},
	{ID: "15", Name: "Kochi", Code: "COK", State: "Kerala"},
	{ID: "16", Name: "Indore", Code: "IDR", State: "Madhya Pradesh"},
	{ID: "17", Name: "Nagpur", Code: "NAG", State: "Maharashtra"},
	{ID: "18", Name: "Chandigarh", Code: "IXC", State: "Chandigarh"},
	{ID: "19", Name: "Bhopal", Code: "BHO", State: "Madhya Pradesh"},
	{ID: "20", Name: "Goa", Code: "GOI", State: "Goa", Popular: true},
}

// aliases maps common misspellings, codes and old names to a city name.
var aliases = map[string]string{
	"hyd":      "Hyderabad",
	"blr":      "Bangalore",
	"bom":      "Mumbai",
	"del":      "Delhi",
	"maa":      "Chennai",
	"ccu":      "Kolkata",
	"pnq":      "Pune",
	"amd":      "Ahmedabad",
	"bang":     "Bangalore",
	"beng":     "Bangalore",
	"bombay":   "Mumbai",
	"calcutta": "Kolkata",
	"madras":   "Chennai",
}

// routes lists the modes served between two cities. Keys are
// "Origin-Destination" and apply in both directions.
var routes = map[string][]travel.Mode{
	"Hyderabad-Bangalore": {travel.Flight, travel.Train, travel.Bus},
	"Hyderabad-Mumbai":    {travel.Flight, travel.Train, travel.Bus},
	"Hyderabad-Delhi":     {travel.Flight, travel.Train, travel.Bus},
	"Hyderabad-Chennai":   {travel.Flight, travel.Train, travel.Bus},
	"Hyderabad-Khammam":   {travel.Train, travel.Bus},
	"Bangalore-Mumbai":    {travel.Flight, travel.Train, travel.Bus},
	"Bangalore-Delhi":     {travel.Flight, travel.Train, travel.Bus},
	"Mumbai-Delhi":        {travel.Flight, travel.Train, travel.Bus},
	"Delhi-Chennai":       {travel.Flight, travel.Train, travel.Bus},
	"Mumbai-Goa":          {travel.Flight, travel.Bus},
}

// Cities returns every known city.
func Cities() []City {
	return append([]City(nil), cities...)
}

// Popular returns the cities flagged as popular.
func Popular() []City {
	var out []City
	for _, c := range cities {
		if c.Popular {
			out = append(out, c)
		}
	}
	return out
}

// Filter returns the cities whose name, code or state contains query, plus
// the city an alias points at. Matching is case-insensitive.
func Filter(query string) []City {
	q := strings.ToLower(strings.TrimSpace(query))
	alias := strings.ToLower(aliases[q])

	out := []City{}
	for _, c := range cities {
		name := strings.ToLower(c.Name)
		if strings.Contains(name, q) ||
			strings.Contains(strings.ToLower(c.Code), q) ||
			strings.Contains(strings.ToLower(c.State), q) ||
			name == alias {
			out = append(out, c)
		}
	}
	return out
}

// Lookup resolves a city by name, code or alias.
func Lookup(name string) (City, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[q]; ok {
		q = strings.ToLower(target)
	}
	for _, c := range cities {
		if strings.ToLower(c.Name) == q || strings.ToLower(c.Code) == q {
			return c, true
		}
	}
	return City{}, false
}

// AvailableModes returns the modes served between origin and destination.
// Pairs missing from the route table allow every mode.
func AvailableModes(origin, destination string) []travel.Mode {
	if modes, ok := routes[origin+"-"+destination]; ok {
		return append([]travel.Mode(nil), modes...)
	}
	if modes, ok := routes[destination+"-"+origin]; ok {
		return append([]travel.Mode(nil), modes...)
	}
	return append([]travel.Mode(nil), travel.Modes...)
}

// ModeAvailable reports whether mode is served between origin and destination.
func ModeAvailable(origin, destination string, mode travel.Mode) bool {
	for _, m := range AvailableModes(origin, destination) {
		if m == mode {
			return true
		}
	}
	return false
}
