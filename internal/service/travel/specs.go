package travel

import (
	"github.com/Domenick1991/travelquery/internal/domain"
	"github.com/Domenick1991/travelquery/internal/generative"
	"github.com/google/jsonschema-go/jsonschema"
)

// timestampPattern accepts ISO 8601 date-times with at least minute precision.
const timestampPattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}`

var (
	flightStatusSpec = generative.MustSpec(generative.ObjectSpecFor[domain.FlightStatus](constrainFlightStatus))

	flightSearchSpec = generative.MustSpec(generative.ArraySpecFor[domain.FlightSearchResult](
		generative.Bounds{MinItems: 1, MaxItems: domain.MaxSearchResults},
		constrainFlightSearch,
	))

	seatMapSpec = generative.MustSpec(generative.ArraySpecFor[domain.SeatOption](
		generative.Bounds{MinItems: domain.SeatMapRows * domain.SeatsPerRow, MaxItems: domain.SeatMapRows * domain.SeatsPerRow},
		constrainSeat,
	))

	priceQuoteSpec = generative.MustSpec(generative.ObjectSpecFor[domain.ReservationPriceQuote](constrainPriceQuote))
)

func constrainEndpoints(s *jsonschema.Schema) error {
	for _, side := range []string{"departure", "arrival"} {
		code, err := generative.Property(s, side, "airportCode")
		if err != nil {
			return err
		}
		code.MinLength = generative.Ptr(1)

		ts, err := generative.Property(s, side, "timestamp")
		if err != nil {
			return err
		}
		ts.Pattern = timestampPattern
	}
	return nil
}

func constrainFlightStatus(s *jsonschema.Schema) error {
	if err := constrainEndpoints(s); err != nil {
		return err
	}
	distance, err := generative.Property(s, "totalDistanceInMiles")
	if err != nil {
		return err
	}
	distance.Minimum = generative.Ptr(0.0)
	return nil
}

func constrainFlightSearch(s *jsonschema.Schema) error {
	if err := constrainEndpoints(s); err != nil {
		return err
	}
	price, err := generative.Property(s, "priceInUSD")
	if err != nil {
		return err
	}
	price.Minimum = generative.Ptr(0.0)

	stops, err := generative.Property(s, "numberOfStops")
	if err != nil {
		return err
	}
	stops.Minimum = generative.Ptr(0.0)

	airlines, err := generative.Property(s, "airlines")
	if err != nil {
		return err
	}
	// a nil slice derives as nullable; the list is required here
	airlines.Types = nil
	airlines.Type = "array"
	return nil
}

func constrainSeat(s *jsonschema.Schema) error {
	price, err := generative.Property(s, "priceInUSD")
	if err != nil {
		return err
	}
	price.Minimum = generative.Ptr(0.0)
	price.ExclusiveMaximum = generative.Ptr(domain.MaxSeatPriceUSD)
	return nil
}

func constrainPriceQuote(s *jsonschema.Schema) error {
	total, err := generative.Property(s, "totalPriceInUSD")
	if err != nil {
		return err
	}
	total.Minimum = generative.Ptr(0.0)
	return nil
}
