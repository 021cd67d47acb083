package loader

import (
	"fmt"
	"unicode"

	"github.com/golang/geo/s2"

	"github.com/dreamware/countries/internal/country"
)

// Warning describes a record that loaded but looks wrong. Warnings never
// fail a load; the display fields are served as-is.
type Warning struct {
	Index   int
	ID      uint8
	Message string
}

// Validate reports records with out-of-range capital coordinates or a
// country code that is not two letters.
func Validate(records []country.Record) []Warning {
	var out []Warning
	for i, r := range records {
		ll := s2.LatLngFromDegrees(float64(r.CapitalLatitude), float64(r.CapitalLongitude))
		if !ll.IsValid() {
			out = append(out, Warning{
				Index:   i,
				ID:      r.ID,
				Message: fmt.Sprintf("capital coordinates out of range (%g, %g)", r.CapitalLatitude, r.CapitalLongitude),
			})
		}
		if !isAlpha2(r.CountryCode) {
			out = append(out, Warning{
				Index:   i,
				ID:      r.ID,
				Message: fmt.Sprintf("country code %q is not two letters", r.CountryCode),
			})
		}
	}
	return out
}

func isAlpha2(code string) bool {
	n := 0
	for _, c := range code {
		if !unicode.IsLetter(c) {
			return false
		}
		n++
	}
	return n == 2
}
