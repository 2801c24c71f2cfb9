package timegate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/sharpline/internal/model"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

func mustET(t *testing.T, s string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", s, loc)
	require.NoError(t, err)
	return parsed
}

func TestETDayBoundsExclusiveUpper(t *testing.T) {
	now := mustET(t, "2026-01-15 12:00:00")
	g := NewWithClock(fixedClock{now})

	start, end, dateStr, err := g.ETDayBounds("")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", dateStr)
	assert.True(t, g.IsInETDay(start), "start of day must be included")
	assert.False(t, g.IsInETDay(end), "start of next day must be excluded")
	assert.True(t, g.IsInETDay(end.Add(-time.Nanosecond)))
}

func TestIsInETDayEndOfDay(t *testing.T) {
	now := mustET(t, "2026-01-15 23:59:00")
	g := NewWithClock(fixedClock{now})
	eventAt2359 := mustET(t, "2026-01-15 23:59:00")
	eventAtNextMidnight := mustET(t, "2026-01-16 00:00:00")

	assert.True(t, g.IsInETDay(eventAt2359))
	assert.False(t, g.IsInETDay(eventAtNextMidnight))
}

func TestFilterEventsET(t *testing.T) {
	now := mustET(t, "2026-01-15 12:00:00")
	g := NewWithClock(fixedClock{now})

	kept := model.Event{EventID: "kept", StartTimeET: mustET(t, "2026-01-15 23:59:00")}
	outOfWindow := model.Event{EventID: "out", StartTimeET: mustET(t, "2026-01-16 00:00:00")}
	missing := model.Event{EventID: "missing"}

	result := g.FilterEventsET([]model.Event{kept, outOfWindow, missing})
	require.Len(t, result.Kept, 1)
	assert.Equal(t, "kept", result.Kept[0].EventID)
	require.Len(t, result.DroppedOutOfWindow, 1)
	assert.Equal(t, "out", result.DroppedOutOfWindow[0].EventID)
	require.Len(t, result.DroppedMissing, 1)
	assert.Equal(t, "missing", result.DroppedMissing[0].EventID)
}
