package ratelimit

import "time"

// Clock supplies the instant used to stamp and evaluate requests.
// Tests inject a manual clock to control window expiry.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
