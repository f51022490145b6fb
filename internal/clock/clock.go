// Package clock abstracts wall-clock time so day-boundary logic can be
// exercised with a fixed time in tests.
package clock

import "time"

// Clock defines an interface for getting the current time.
type Clock interface {
	Now() time.Time
}

// Real implements Clock using the actual system time.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed implements Clock returning a preset instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
