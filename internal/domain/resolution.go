package domain

import "time"

// QueryKind names the resolver that handled a query.
type QueryKind string

const (
	QueryFlightStatus     QueryKind = "flight_status"
	QueryFlightSearch     QueryKind = "flight_search"
	QuerySeatMap          QueryKind = "seat_map"
	QueryReservationPrice QueryKind = "reservation_price"
)

// Source is where a resolved value came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
)

// ResolutionEvent records the outcome of one resolver call.
type ResolutionEvent struct {
	ID             string            `json:"id"`
	Query          QueryKind         `json:"query"`
	Params         map[string]string `json:"params,omitempty"`
	Source         Source            `json:"source"`
	FallbackReason string            `json:"fallbackReason,omitempty"`
	Error          string            `json:"error,omitempty"`
	DurationMs     int64             `json:"durationMs"`
	OccurredAt     time.Time         `json:"occurredAt"`
}

// Succeeded reports whether the resolver returned a value.
func (e ResolutionEvent) Succeeded() bool {
	return e.Error == ""
}
