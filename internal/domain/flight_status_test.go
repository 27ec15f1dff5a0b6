package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlightStatus_WithDefaults(t *testing.T) {
	in := FlightStatus{
		FlightNumber:         "BA123",
		Departure:            FlightStatusEndpoint{AirportCode: "LHR", Terminal: "5"},
		Arrival:              FlightStatusEndpoint{AirportCode: "JFK", Gate: "B7"},
		TotalDistanceInMiles: -3,
	}

	out := in.WithDefaults()

	assert.Equal(t, "5", out.Departure.Terminal)
	assert.Equal(t, TBD, out.Departure.Gate)
	assert.Equal(t, TBD, out.Arrival.Terminal)
	assert.Equal(t, "B7", out.Arrival.Gate)
	assert.Equal(t, 0, out.TotalDistanceInMiles)
	// receiver untouched
	assert.Equal(t, "", in.Departure.Gate)
}
