package application

import "time"

// Clock keeps "today" injectable for tests
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns T.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }
