package amadeus

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// envelope is the common {"data": [...]} wrapper of provider responses.
type envelope[T any] struct {
	Data   []T        `json:"data"`
	Errors []apiError `json:"errors,omitempty"`
}

type apiError struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type scheduleDTO struct {
	Departure schedulePointDTO `json:"departure"`
	Arrival   schedulePointDTO `json:"arrival"`
	Distance  *distanceDTO     `json:"distance,omitempty"`
}

type schedulePointDTO struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	Gate     string `json:"gate,omitempty"`
	At       string `json:"at"`
}

type distanceDTO struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

func (d scheduleDTO) validate() error {
	if err := d.Departure.validate("departure"); err != nil {
		return err
	}
	if err := d.Arrival.validate("arrival"); err != nil {
		return err
	}
	if d.Distance != nil && d.Distance.Value < 0 {
		return fmt.Errorf("negative distance %v", d.Distance.Value)
	}
	return nil
}

func (p schedulePointDTO) validate(name string) error {
	if p.IATACode == "" {
		return fmt.Errorf("%s: missing iataCode", name)
	}
	if err := validateTimestamp(p.At); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

type offerDTO struct {
	ID                     string         `json:"id"`
	ValidatingAirlineCodes []string       `json:"validatingAirlineCodes"`
	Itineraries            []itineraryDTO `json:"itineraries"`
	Price                  priceDTO       `json:"price"`
}

type itineraryDTO struct {
	Segments []segmentDTO `json:"segments"`
}

type segmentDTO struct {
	Departure segmentPointDTO `json:"departure"`
	Arrival   segmentPointDTO `json:"arrival"`
	Number    string          `json:"number"`
}

type segmentPointDTO struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type priceDTO struct {
	Currency string `json:"currency,omitempty"`
	Total    string `json:"total"`
}

func (p priceDTO) amount() (float64, error) {
	v, err := strconv.ParseFloat(p.Total, 64)
	if err != nil {
		return 0, fmt.Errorf("price total %q: %w", p.Total, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price %q", p.Total)
	}
	return v, nil
}

func (o offerDTO) validate() error {
	if len(o.ValidatingAirlineCodes) == 0 {
		return errors.New("offer without validating carrier")
	}
	if len(o.Itineraries) == 0 || len(o.Itineraries[0].Segments) == 0 {
		return errors.New("offer without segments")
	}
	for i, s := range o.Itineraries[0].Segments {
		if s.Departure.IATACode == "" || s.Arrival.IATACode == "" {
			return fmt.Errorf("segment %d: missing iataCode", i)
		}
		if err := validateTimestamp(s.Departure.At); err != nil {
			return fmt.Errorf("segment %d departure: %w", i, err)
		}
		if err := validateTimestamp(s.Arrival.At); err != nil {
			return fmt.Errorf("segment %d arrival: %w", i, err)
		}
	}
	if o.Itineraries[0].Segments[0].Number == "" {
		return errors.New("first segment without flight number")
	}
	_, err := o.Price.amount()
	return err
}

type seatMapDTO struct {
	Decks []deckDTO `json:"decks"`
}

type deckDTO struct {
	Seats []seatDTO `json:"seats"`
}

type seatDTO struct {
	Number          string               `json:"number"`
	TravelerPricing []travelerPricingDTO `json:"travelerPricing"`
}

type travelerPricingDTO struct {
	Status string   `json:"status"`
	Price  priceDTO `json:"price"`
}

func (m seatMapDTO) validate() error {
	if len(m.Decks) == 0 {
		return errors.New("seat map without decks")
	}
	for i, s := range m.Decks[0].Seats {
		if s.Number == "" {
			return fmt.Errorf("seat %d: missing number", i)
		}
		if len(s.TravelerPricing) == 0 {
			return fmt.Errorf("seat %s: missing traveler pricing", s.Number)
		}
		if _, err := s.TravelerPricing[0].Price.amount(); err != nil {
			return fmt.Errorf("seat %s: %w", s.Number, err)
		}
	}
	return nil
}

// The provider reports local times without an offset.
var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

func validateTimestamp(s string) error {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}
