package travel

import (
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/travelquery/internal/domain"
	"github.com/Domenick1991/travelquery/internal/generative"
)

const dateLayout = "2006-01-02"

// timestampLayouts are the date-time forms accepted from generated entities.
var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// validateFlightNumber expects a two-character carrier code followed by the number.
func validateFlightNumber(fn string) error {
	if len(fn) < 3 {
		return fmt.Errorf("%w: flight number %q is too short", domain.ErrInvalidQuery, fn)
	}
	for _, r := range fn {
		if !isAlnum(r) {
			return fmt.Errorf("%w: flight number %q has invalid characters", domain.ErrInvalidQuery, fn)
		}
	}
	return nil
}

func validateAirport(field, code string) error {
	if len(code) != 3 {
		return fmt.Errorf("%w: %s must be a three-letter IATA code", domain.ErrInvalidQuery, field)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: %s must be a three-letter IATA code", domain.ErrInvalidQuery, field)
		}
	}
	return nil
}

func validateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", domain.ErrInvalidQuery, date)
	}
	return nil
}

// checkTimestamps rejects generated endpoints whose timestamps are not real
// date-times; the schema pattern alone admits values like 2024-13-45T99:99.
func checkTimestamps(c generative.Cardinality, stamps map[string]string) error {
	for field, ts := range stamps {
		if !validTimestamp(ts) {
			return &generative.ValidationError{
				Cardinality: c,
				Cause:       fmt.Errorf("%s: %q is not an ISO 8601 date-time", field, ts),
			}
		}
	}
	return nil
}

func validTimestamp(ts string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, ts); err == nil {
			return true
		}
	}
	return false
}

func isAlnum(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
