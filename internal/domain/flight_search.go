package domain

// MaxSearchResults caps flight search results from any source.
const MaxSearchResults = 4

type FlightSearchEndpoint struct {
	CityName    string `json:"cityName" jsonschema:"Name of the city"`
	AirportCode string `json:"airportCode" jsonschema:"IATA code of the airport"`
	Timestamp   string `json:"timestamp" jsonschema:"ISO 8601 date and time"`
}

type FlightSearchResult struct {
	ID            string               `json:"id" jsonschema:"Unique identifier for the flight, like BA123 or AA31"`
	Departure     FlightSearchEndpoint `json:"departure" jsonschema:"Departure details"`
	Arrival       FlightSearchEndpoint `json:"arrival" jsonschema:"Arrival details"`
	Airlines      []string             `json:"airlines" jsonschema:"Carriers operating the itinerary, in order"`
	PriceInUSD    float64              `json:"priceInUSD" jsonschema:"Flight price in US dollars"`
	NumberOfStops int                  `json:"numberOfStops" jsonschema:"Number of stops during the flight"`
}
