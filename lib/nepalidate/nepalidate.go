// Package nepalidate converts Gregorian dates to Bikram Sambat for display.
// Conversion happens at the response-mapping edge only; balance arithmetic
// always runs on the underlying Gregorian dates.
package nepalidate

import (
	"fmt"
	"time"

	"github.com/opensource-nepal/go-nepali/dateConverter"
)

type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// FromTime converts the calendar date of t. Dates outside the conversion
// range of the library come back as an error, callers are expected to fall
// back to the Gregorian rendering.
func FromTime(t time.Time) (Date, error) {
	converted, err := dateConverter.EnglishToNepali(t.Year(), int(t.Month()), t.Day())
	if err != nil {
		return Date{}, err
	}
	return Date{Year: converted[0], Month: converted[1], Day: converted[2]}, nil
}
