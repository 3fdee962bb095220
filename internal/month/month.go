package month

import (
	"errors"
	"fmt"
	"time"
)

const layout = "2006-01"

var ErrInvalidKey = errors.New("invalid month key")

// Key identifies a calendar month. Its text form is "YYYY-MM".
type Key struct {
	Year  int
	Month time.Month
}

// New returns the key for the given year and month.
func New(year int, m time.Month) Key {
	return Key{Year: year, Month: m}
}

// Of returns the month containing t, in t's location.
func Of(t time.Time) Key {
	return Key{Year: t.Year(), Month: t.Month()}
}

// Parse reads a "YYYY-MM" key.
func Parse(s string) (Key, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}

	return Of(t), nil
}

func (k Key) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

func (k Key) IsZero() bool {
	return k.Year == 0 && k.Month == 0
}

// Start returns midnight of the first day of the month in loc.
func (k Key) Start(loc *time.Location) time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, loc)
}

// End returns the last instant of the month in loc.
func (k Key) End(loc *time.Location) time.Time {
	return k.Start(loc).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// Days returns the number of days in the month.
func (k Key) Days() int {
	return time.Date(k.Year, k.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (k Key) Next() Key {
	return Of(time.Date(k.Year, k.Month+1, 1, 0, 0, 0, 0, time.UTC))
}

func (k Key) Prev() Key {
	return Of(time.Date(k.Year, k.Month-1, 1, 0, 0, 0, 0, time.UTC))
}

func (k Key) Before(o Key) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}

	return k.Month < o.Month
}

func (k Key) Compare(o Key) int {
	switch {
	case k.Before(o):
		return -1
	case o.Before(k):
		return 1
	}

	return 0
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}
