package testutil

import (
	"time"

	"github.com/itbasis/go-clock"
)

// MockClockAt returns a mock clock set to t.
func MockClockAt(t time.Time) *clock.Mock {
	mock := clock.NewMock()
	mock.Set(t)
	return mock
}

// MustParseRFC3339 parses an RFC3339 timestamp or panics; intended for tests.
func MustParseRFC3339(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}
