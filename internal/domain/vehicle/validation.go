package vehicle

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const minModelYear = 1900

var vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// ValidateIntake validates fields required to take a vehicle into inventory.
func ValidateIntake(req IntakeRequest, now time.Time) error {
	if strings.TrimSpace(req.StockNumber) == "" {
		return fmt.Errorf("%w: stock number is required", ErrInvalidInput)
	}
	if strings.ContainsAny(req.StockNumber, "/?#") {
		return fmt.Errorf("%w: stock number %q contains reserved characters", ErrInvalidInput, req.StockNumber)
	}
	if vin := strings.TrimSpace(req.VIN); vin != "" && !vinPattern.MatchString(strings.ToUpper(vin)) {
		return fmt.Errorf("%w: VIN must be 17 characters without I, O or Q", ErrInvalidInput)
	}
	if req.Year != 0 && (req.Year < minModelYear || req.Year > now.Year()+2) {
		return fmt.Errorf("%w: year %d is out of range", ErrInvalidInput, req.Year)
	}
	if req.DateIn != nil && req.DateIn.After(now.Add(24*time.Hour)) {
		return fmt.Errorf("%w: date in is in the future", ErrInvalidInput)
	}
	return nil
}

// normalizeName title-cases lower-case input ("chevrolet" -> "Chevrolet") and
// leaves anything already capitalized alone, so "BMW" and "F-150" survive.
func normalizeName(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" || value != strings.ToLower(value) {
		return value
	}
	return cases.Title(language.Und).String(value)
}

// ParseDate reads an intake date given as RFC 3339 or a plain YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be RFC 3339 or YYYY-MM-DD", ErrInvalidInput, value)
	}
	return t, nil
}
