package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/travelquery/internal/domain"
	"github.com/Domenick1991/travelquery/internal/generative"
	"github.com/Domenick1991/travelquery/internal/provider"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TravelUseCase interface {
	FlightStatus(ctx context.Context, flightNumber, date string) (domain.FlightStatus, error)
	SearchFlights(ctx context.Context, origin, destination, date string) ([]domain.FlightSearchResult, error)
	SeatMap(ctx context.Context, flightNumber string) ([]domain.SeatOption, error)
	ReservationPrice(ctx context.Context, reservation domain.ReservationDescription) (domain.ReservationPriceQuote, error)
}

// FlightProvider is the live data source. Implementations must tolerate a
// nil receiver and report it as not configured.
type FlightProvider interface {
	FetchFlightStatus(ctx context.Context, carrierCode, flightNumber, date string) provider.Result[domain.FlightStatus]
	SearchFlights(ctx context.Context, origin, destination, departureDate string, maxResults int) provider.Result[[]domain.FlightSearchResult]
	FetchSeatMap(ctx context.Context, flightOrderID string) provider.Result[[]domain.SeatOption]
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type TravelService struct {
	provider  FlightProvider
	generator generative.Generator
	producer  Producer
	topic     string
	logger    *zap.Logger
	now       func() time.Time
}

type TravelServiceOption func(*TravelService)

// WithProducer publishes a domain.ResolutionEvent to topic after every resolution.
func WithProducer(p Producer, topic string) TravelServiceOption {
	return func(s *TravelService) {
		s.producer = p
		s.topic = topic
	}
}

func WithLogger(l *zap.Logger) TravelServiceOption {
	return func(s *TravelService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now when defaulting the search date.
func WithClock(now func() time.Time) TravelServiceOption {
	return func(s *TravelService) {
		s.now = now
	}
}

// NewTravelService builds the resolvers. A nil provider routes every query
// to the generator.
func NewTravelService(p FlightProvider, generator generative.Generator, opts ...TravelServiceOption) *TravelService {
	s := &TravelService{
		provider:  p,
		generator: generator,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TravelService) FlightStatus(ctx context.Context, flightNumber, date string) (domain.FlightStatus, error) {
	flightNumber = normalizeCode(flightNumber)
	if err := validateFlightNumber(flightNumber); err != nil {
		return domain.FlightStatus{}, err
	}
	if err := validateDate(date); err != nil {
		return domain.FlightStatus{}, err
	}
	carrier, number := flightNumber[:2], flightNumber[2:]

	q := query{kind: domain.QueryFlightStatus, params: map[string]string{"flightNumber": flightNumber, "date": date}}
	return resolve(ctx, s, q,
		func(p FlightProvider) provider.Result[domain.FlightStatus] {
			return p.FetchFlightStatus(ctx, carrier, number, date)
		},
		func() (domain.FlightStatus, error) {
			prompt := fmt.Sprintf("Flight status for flight number %s on %s", flightNumber, date)
			status, err := generative.Object[domain.FlightStatus](ctx, s.generator, prompt, flightStatusSpec)
			if err != nil {
				return domain.FlightStatus{}, err
			}
			if err := checkTimestamps(generative.CardinalityObject, map[string]string{
				"departure.timestamp": status.Departure.Timestamp,
				"arrival.timestamp":   status.Arrival.Timestamp,
			}); err != nil {
				return domain.FlightStatus{}, err
			}
			status.FlightNumber = flightNumber
			return status.WithDefaults(), nil
		},
	)
}

// SearchFlights defaults an empty date to today in UTC.
func (s *TravelService) SearchFlights(ctx context.Context, origin, destination, date string) ([]domain.FlightSearchResult, error) {
	origin, destination = normalizeCode(origin), normalizeCode(destination)
	if err := validateAirport("origin", origin); err != nil {
		return nil, err
	}
	if err := validateAirport("destination", destination); err != nil {
		return nil, err
	}
	if date == "" {
		date = s.now().UTC().Format(dateLayout)
	} else if err := validateDate(date); err != nil {
		return nil, err
	}

	q := query{kind: domain.QueryFlightSearch, params: map[string]string{"origin": origin, "destination": destination, "date": date}}
	return resolve(ctx, s, q,
		func(p FlightProvider) provider.Result[[]domain.FlightSearchResult] {
			return p.SearchFlights(ctx, origin, destination, date, domain.MaxSearchResults)
		},
		func() ([]domain.FlightSearchResult, error) {
			prompt := fmt.Sprintf("Generate search results for flights from %s to %s on %s, limit to %d results",
				origin, destination, date, domain.MaxSearchResults)
			results, err := generative.Array[domain.FlightSearchResult](ctx, s.generator, prompt, flightSearchSpec)
			if err != nil {
				return nil, err
			}
			for i, r := range results {
				if err := checkTimestamps(generative.CardinalityArray, map[string]string{
					fmt.Sprintf("[%d].departure.timestamp", i): r.Departure.Timestamp,
					fmt.Sprintf("[%d].arrival.timestamp", i):   r.Arrival.Timestamp,
				}); err != nil {
					return nil, err
				}
			}
			return results, nil
		},
	)
}

func (s *TravelService) SeatMap(ctx context.Context, flightNumber string) ([]domain.SeatOption, error) {
	flightNumber = normalizeCode(flightNumber)
	if err := validateFlightNumber(flightNumber); err != nil {
		return nil, err
	}

	q := query{kind: domain.QuerySeatMap, params: map[string]string{"flightNumber": flightNumber}}
	return resolve(ctx, s, q,
		func(p FlightProvider) provider.Result[[]domain.SeatOption] {
			return p.FetchSeatMap(ctx, flightNumber)
		},
		func() ([]domain.SeatOption, error) {
			prompt := fmt.Sprintf("Simulate available seats for flight number %s, %d seats on each row and %d rows in total, adjust pricing based on location of seat",
				flightNumber, domain.SeatsPerRow, domain.SeatMapRows)
			return generative.Array[domain.SeatOption](ctx, s.generator, prompt, seatMapSpec)
		},
	)
}

// ReservationPrice has no live source and always generates.
func (s *TravelService) ReservationPrice(ctx context.Context, reservation domain.ReservationDescription) (domain.ReservationPriceQuote, error) {
	if strings.TrimSpace(reservation.FlightNumber) == "" {
		return domain.ReservationPriceQuote{}, fmt.Errorf("%w: flight number is required", domain.ErrInvalidQuery)
	}
	if len(reservation.Seats) == 0 {
		return domain.ReservationPriceQuote{}, fmt.Errorf("%w: at least one seat is required", domain.ErrInvalidQuery)
	}
	body, err := json.MarshalIndent(reservation, "", "  ")
	if err != nil {
		return domain.ReservationPriceQuote{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}

	q := query{kind: domain.QueryReservationPrice, params: map[string]string{"flightNumber": reservation.FlightNumber}}
	return resolve(ctx, s, q, nil, func() (domain.ReservationPriceQuote, error) {
		prompt := "Generate price for the following reservation \n\n" + string(body)
		return generative.Object[domain.ReservationPriceQuote](ctx, s.generator, prompt, priceQuoteSpec)
	})
}

var _ TravelUseCase = (*TravelService)(nil)

type query struct {
	kind   domain.QueryKind
	params map[string]string
}

const (
	reasonNotConfigured = "not_configured"
	reasonRequestFailed = "request_failed"
	reasonNoLiveSource  = "no_live_source"
)

// resolve tries primary once, then fallback once. A successful primary,
// even an empty one, is final. A nil primary goes straight to fallback.
func resolve[T any](
	ctx context.Context,
	s *TravelService,
	q query,
	primary func(FlightProvider) provider.Result[T],
	fallback func() (T, error),
) (T, error) {
	var zero T
	start := time.Now()

	reason := reasonNoLiveSource
	if primary != nil {
		res := provider.NotConfigured[T]()
		if s.provider != nil {
			res = primary(s.provider)
		}
		value, failure := res.Get()
		if failure == nil {
			s.record(ctx, q, start, domain.SourceProvider, "", nil)
			return value, nil
		}

		reason = s.logProviderFailure(q, failure)
		if err := ctx.Err(); err != nil {
			s.record(ctx, q, start, domain.SourceProvider, reason, err)
			return zero, err
		}
	}

	value, err := fallback()
	s.record(ctx, q, start, domain.SourceFallback, reason, err)
	if err != nil {
		return zero, err
	}
	return value, nil
}

func (s *TravelService) logProviderFailure(q query, failure *provider.Failure) string {
	if failure.Kind == domain.ErrProviderNotConfigured {
		s.logger.Debug("provider not configured, using fallback", zap.String("query", string(q.kind)))
		return reasonNotConfigured
	}
	s.logger.Warn("provider request failed, using fallback",
		zap.String("query", string(q.kind)),
		zap.Error(failure.Cause),
	)
	return reasonRequestFailed
}

// record logs the outcome and publishes it. Publishing never fails the query.
func (s *TravelService) record(ctx context.Context, q query, start time.Time, source domain.Source, reason string, err error) {
	event := domain.ResolutionEvent{
		ID:             uuid.NewString(),
		Query:          q.kind,
		Params:         q.params,
		Source:         source,
		FallbackReason: reason,
		DurationMs:     time.Since(start).Milliseconds(),
		OccurredAt:     time.Now().UTC(),
	}
	if err != nil {
		event.Error = err.Error()
	}

	fields := []zap.Field{
		zap.String("query", string(q.kind)),
		zap.String("source", string(source)),
		zap.Int64("duration_ms", event.DurationMs),
	}
	if reason != "" {
		fields = append(fields, zap.String("fallback_reason", reason))
	}
	if err != nil {
		s.logger.Warn("query failed", append(fields, zap.Error(err))...)
	} else {
		s.logger.Info("query resolved", fields...)
	}

	if s.producer == nil {
		return
	}
	if perr := s.producer.Publish(context.WithoutCancel(ctx), s.topic, string(q.kind), event); perr != nil {
		s.logger.Warn("failed to publish resolution event", zap.String("id", event.ID), zap.Error(perr))
	}
}
