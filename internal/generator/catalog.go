package generator

import "github.com/alex-user-go/voyage/internal/travel"

// OptionsPerSearch is the number of options produced for every request.
const OptionsPerSearch = 8

// Currency of every generated price.
const Currency = "INR"

var providerCatalog = map[travel.Mode][]string{
	travel.Flight: {"Air India", "IndiGo", "SpiceJet", "Vistara", "Go First"},
	travel.Train:  {"Rajdhani Express", "Shatabdi Express", "Duronto Express", "Garib Rath", "Humsafar Express"},
	travel.Bus:    {"RedBus", "AbhiBus", "VRL Travels", "Orange Travels", "SRS Travels"},
}

var amenityCatalog = map[travel.Mode][]string{
	travel.Flight: {"WiFi", "Meals", "Entertainment", "Power Outlets"},
	travel.Train:  {"AC", "Meals", "Blankets", "Charging Points"},
	travel.Bus:    {"AC", "WiFi", "Water", "Charging Points", "Sleeper"},
}

// priceRange is a half-open [min, max) interval.
type priceRange struct {
	min, max float64
}

// Flights stay pricier than trains, trains pricier than buses.
var basePrices = map[travel.Mode]priceRange{
	travel.Flight: {3000, 6000},
	travel.Train:  {1500, 3500},
	travel.Bus:    {800, 2000},
}

// Providers returns the provider names used for mode, in round-robin order.
func Providers(mode travel.Mode) []string {
	return append([]string(nil), providerCatalog[mode]...)
}

// Amenities returns the amenity catalog for mode.
func Amenities(mode travel.Mode) []string {
	return append([]string(nil), amenityCatalog[mode]...)
}
