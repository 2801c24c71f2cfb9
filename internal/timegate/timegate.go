// Package timegate is the single source of truth for ET calendar-day
// bounds. No other package may compute day boundaries independently.
package timegate

import (
	"time"

	"github.com/sawpanic/sharpline/internal/model"
)

// Clock is injected so tests can pin "now" instead of depending on the
// wall clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

var eastern *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// time/tzdata is imported by cmd/sharpline so this should never
		// happen in a built binary; fall back to a fixed UTC-5 offset
		// rather than panicking across a package boundary.
		loc = time.FixedZone("America/New_York", -5*60*60)
	}
	eastern = loc
}

// Gate exposes the three Time Gate operations over an injected clock.
type Gate struct {
	clock Clock
}

// New returns a Gate using the real system clock.
func New() *Gate { return &Gate{clock: SystemClock{}} }

// NewWithClock returns a Gate using the given clock (tests only).
func NewWithClock(c Clock) *Gate { return &Gate{clock: c} }

// NowET returns the current time in America/New_York.
func (g *Gate) NowET() time.Time {
	return g.clock.Now().In(eastern)
}

// ETDayBounds returns [start, end) for the given ET calendar date ("" means
// today). end is exclusive: the same UTC instant as tomorrow's 00:00 ET is
// excluded from the window.
func (g *Gate) ETDayBounds(dateStr string) (start, end time.Time, resolvedDateStr string, err error) {
	var day time.Time
	if dateStr == "" {
		day = g.NowET()
	} else {
		day, err = time.ParseInLocation("2006-01-02", dateStr, eastern)
		if err != nil {
			return time.Time{}, time.Time{}, "", err
		}
	}
	start = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, eastern)
	end = time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, eastern)
	return start, end, start.Format("2006-01-02"), nil
}

// IsInETDay reports whether t falls within [start, end) for today's ET day.
// The upper bound is exclusive, so 00:00 ET of the next day is excluded and
// 00:00 ET of today is included.
func (g *Gate) IsInETDay(t time.Time) bool {
	start, end, _, err := g.ETDayBounds("")
	if err != nil {
		return false
	}
	tET := t.In(eastern)
	return !tET.Before(start) && tET.Before(end)
}

// FilterResult is the outcome of filtering a slate of events to today's ET window.
type FilterResult struct {
	Kept               []model.Event
	DroppedOutOfWindow []model.Event
	DroppedMissing     []model.Event
}

// FilterEventsET classifies each event IN / OUT / MISSING against today's ET
// window. A malformed or zero-value start time places the event in
// DroppedMissing rather than erroring the whole batch.
func (g *Gate) FilterEventsET(events []model.Event) FilterResult {
	start, end, _, err := g.ETDayBounds("")
	result := FilterResult{}
	if err != nil {
		result.DroppedMissing = append(result.DroppedMissing, events...)
		return result
	}
	for _, e := range events {
		if e.StartTimeUTC.IsZero() && e.StartTimeET.IsZero() {
			result.DroppedMissing = append(result.DroppedMissing, e)
			continue
		}
		startET := e.StartTimeET
		if startET.IsZero() {
			startET = e.StartTimeUTC.In(eastern)
		}
		if !startET.Before(start) && startET.Before(end) {
			result.Kept = append(result.Kept, e)
		} else {
			result.DroppedOutOfWindow = append(result.DroppedOutOfWindow, e)
		}
	}
	return result
}
