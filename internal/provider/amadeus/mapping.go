package amadeus

import (
	"math"

	"github.com/Domenick1991/travelquery/internal/domain"
)

const seatAvailable = "AVAILABLE"

func mapFlightStatus(flightNumber string, d scheduleDTO) domain.FlightStatus {
	var miles int
	if d.Distance != nil {
		miles = int(math.Round(d.Distance.Value))
	}
	return domain.FlightStatus{
		FlightNumber:         flightNumber,
		Departure:            mapSchedulePoint(d.Departure),
		Arrival:              mapSchedulePoint(d.Arrival),
		TotalDistanceInMiles: miles,
	}.WithDefaults()
}

// The schedule record carries no city or airport names, so both fall back
// to the IATA code.
func mapSchedulePoint(p schedulePointDTO) domain.FlightStatusEndpoint {
	return domain.FlightStatusEndpoint{
		CityName:    p.IATACode,
		AirportCode: p.IATACode,
		AirportName: p.IATACode,
		Timestamp:   p.At,
		Terminal:    p.Terminal,
		Gate:        p.Gate,
	}
}

// mapOffer expects a validated offer.
func mapOffer(o offerDTO) domain.FlightSearchResult {
	segments := o.Itineraries[0].Segments
	first := segments[0]
	price, _ := o.Price.amount()

	airlines := make([]string, len(o.ValidatingAirlineCodes))
	copy(airlines, o.ValidatingAirlineCodes)

	return domain.FlightSearchResult{
		ID: o.ValidatingAirlineCodes[0] + first.Number,
		Departure: domain.FlightSearchEndpoint{
			CityName:    first.Departure.IATACode,
			AirportCode: first.Departure.IATACode,
			Timestamp:   first.Departure.At,
		},
		Arrival: domain.FlightSearchEndpoint{
			CityName:    first.Arrival.IATACode,
			AirportCode: first.Arrival.IATACode,
			Timestamp:   first.Arrival.At,
		},
		Airlines:      airlines,
		PriceInUSD:    price,
		NumberOfStops: len(segments) - 1,
	}
}

// mapSeatMap flattens the first deck of a validated seat map.
func mapSeatMap(m seatMapDTO) []domain.SeatOption {
	seats := make([]domain.SeatOption, 0, len(m.Decks[0].Seats))
	for _, s := range m.Decks[0].Seats {
		pricing := s.TravelerPricing[0]
		price, _ := pricing.Price.amount()
		seats = append(seats, domain.SeatOption{
			SeatNumber:  s.Number,
			PriceInUSD:  price,
			IsAvailable: pricing.Status == seatAvailable,
		})
	}
	return seats
}
