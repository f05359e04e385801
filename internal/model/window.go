package model

import "time"

const isoDate = "2006-01-02"

// Window is an inclusive range of calendar dates. Dates are expected at
// midnight UTC; Start after End describes an empty range.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a Window from two calendar dates
func NewWindow(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

// Days returns the number of calendar days covered, zero when inverted
func (w Window) Days() int {
	if w.Start.After(w.End) {
		return 0
	}
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Equal reports whether both windows cover the same calendar dates
func (w Window) Equal(o Window) bool {
	return sameDay(w.Start, o.Start) && sameDay(w.End, o.End)
}

// IsZero reports whether the window was never set
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

func (w Window) String() string {
	return w.Start.Format(isoDate) + ".." + w.End.Format(isoDate)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
