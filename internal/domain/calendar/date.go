package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// keySeparator splits the year, month and day fields of a date key.
const keySeparator = "-"

// ErrMalformedKey is returned when a date key does not have three integer fields.
var ErrMalformedKey = errors.New("malformed date key")

// Date is a season calendar date as declared by the backend.
// Month is 1-12 and Day is 1-31; values are trusted, not range checked.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// New builds a Date.
func New(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// Key formats the date as an unpadded "Y-M-D" grouping key (e.g. 2024-1-15).
func (d Date) Key() string {
	return strconv.Itoa(d.Year) + keySeparator + strconv.Itoa(d.Month) + keySeparator + strconv.Itoa(d.Day)
}

// String implements fmt.Stringer using the grouping key.
func (d Date) String() string {
	return d.Key()
}

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d is chronologically before other.
func (d Date) Before(other Date) bool {
	return Compare(d, other) < 0
}

// AddDays shifts the date by n days, normalizing across month and year ends.
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return New(t.Year(), int(t.Month()), t.Day())
}

// ParseKey is the inverse of Date.Key.
func ParseKey(key string) (Date, error) {
	parts := strings.Split(key, keySeparator)
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q has %d fields", ErrMalformedKey, key, len(parts))
	}
	var fields [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q field %d is not an integer", ErrMalformedKey, key, i)
		}
		fields[i] = v
	}
	return Date{Year: fields[0], Month: fields[1], Day: fields[2]}, nil
}

// Compare orders dates by (year, month, day) and returns -1, 0 or 1.
func Compare(a, b Date) int {
	switch {
	case a.Year != b.Year:
		return sign(a.Year - b.Year)
	case a.Month != b.Month:
		return sign(a.Month - b.Month)
	default:
		return sign(a.Day - b.Day)
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
