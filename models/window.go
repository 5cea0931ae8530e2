package models

import (
	"time"
)

// Window is a half-open time interval [Start, End) used to scope fact queries
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Length returns the window duration
func (w Window) Length() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// FeederScope is the result of resolving a location filter: either every
// feeder (Unrestricted) or an explicit, possibly empty, set of feeder IDs.
type FeederScope struct {
	Unrestricted bool
	FeederIDs    []uint
}

// UnrestrictedScope returns a scope that matches every feeder
func UnrestrictedScope() FeederScope {
	return FeederScope{Unrestricted: true}
}

// ScopeOf returns a scope restricted to the given feeder IDs
func ScopeOf(ids ...uint) FeederScope {
	return FeederScope{FeederIDs: ids}
}

// IsEmpty reports whether the scope matches no feeder at all
func (s FeederScope) IsEmpty() bool {
	return !s.Unrestricted && len(s.FeederIDs) == 0
}
