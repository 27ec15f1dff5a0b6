package domain

// TBD marks a terminal or gate the source did not report.
const TBD = "TBD"

type FlightStatusEndpoint struct {
	CityName    string `json:"cityName" jsonschema:"Name of the city"`
	AirportCode string `json:"airportCode" jsonschema:"IATA code of the airport"`
	AirportName string `json:"airportName" jsonschema:"Full name of the airport"`
	Timestamp   string `json:"timestamp" jsonschema:"ISO 8601 date and time"`
	Terminal    string `json:"terminal" jsonschema:"Terminal, TBD when unknown"`
	Gate        string `json:"gate" jsonschema:"Gate, TBD when unknown"`
}

type FlightStatus struct {
	FlightNumber         string               `json:"flightNumber" jsonschema:"Flight number, e.g. BA123 or AA31"`
	Departure            FlightStatusEndpoint `json:"departure" jsonschema:"Departure details"`
	Arrival              FlightStatusEndpoint `json:"arrival" jsonschema:"Arrival details"`
	TotalDistanceInMiles int                  `json:"totalDistanceInMiles" jsonschema:"Total flight distance in miles"`
}

// WithDefaults returns a copy with blank terminals and gates set to TBD
// and a negative distance clamped to zero.
func (s FlightStatus) WithDefaults() FlightStatus {
	s.Departure = s.Departure.withDefaults()
	s.Arrival = s.Arrival.withDefaults()
	if s.TotalDistanceInMiles < 0 {
		s.TotalDistanceInMiles = 0
	}
	return s
}

func (e FlightStatusEndpoint) withDefaults() FlightStatusEndpoint {
	if e.Terminal == "" {
		e.Terminal = TBD
	}
	if e.Gate == "" {
		e.Gate = TBD
	}
	return e
}
