package domain

const (
	// SeatMapRows and SeatsPerRow size a synthesized seat map.
	SeatMapRows = 5
	SeatsPerRow = 6

	// MaxSeatPriceUSD is the exclusive upper bound for a synthesized seat price.
	MaxSeatPriceUSD = 99.0
)

type SeatOption struct {
	SeatNumber  string  `json:"seatNumber" jsonschema:"Seat identifier, e.g. 12A or 15C"`
	PriceInUSD  float64 `json:"priceInUSD" jsonschema:"Seat price in US dollars, less than 99"`
	IsAvailable bool    `json:"isAvailable" jsonschema:"Whether the seat is available for booking"`
}
