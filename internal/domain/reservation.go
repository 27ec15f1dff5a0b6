package domain

type ReservationEndpoint struct {
	CityName    string `json:"cityName"`
	AirportCode string `json:"airportCode"`
	Timestamp   string `json:"timestamp"`
	Gate        string `json:"gate"`
	Terminal    string `json:"terminal"`
}

// ReservationDescription is the input to price estimation. It is never stored.
type ReservationDescription struct {
	Seats         []string            `json:"seats"`
	FlightNumber  string              `json:"flightNumber"`
	Departure     ReservationEndpoint `json:"departure"`
	Arrival       ReservationEndpoint `json:"arrival"`
	PassengerName string              `json:"passengerName"`
}

type ReservationPriceQuote struct {
	TotalPriceInUSD float64 `json:"totalPriceInUSD" jsonschema:"Total reservation price in US dollars"`
}
