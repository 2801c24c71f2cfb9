package changemonitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffDetectsPickAddedAndRemoved(t *testing.T) {
	previous := Archive{"p1": {PickID: "p1"}}
	current := []Snapshot{{PickID: "p2"}}
	events := Diff(previous, current)
	require.Len(t, events, 2)
	types := map[EventType]bool{}
	for _, e := range events {
		types[e.Type] = true
	}
	assert.True(t, types[EventPickAdded])
	assert.True(t, types[EventPickRemoved])
}

func TestDiffOddsMoveSeverityEscalation(t *testing.T) {
	previous := Archive{"p1": {PickID: "p1", ImpliedProbability: 50.0}}
	infoEvents := Diff(previous, []Snapshot{{PickID: "p1", ImpliedProbability: 52.0}})
	require.Len(t, infoEvents, 1)
	assert.Equal(t, EventOddsMove, infoEvents[0].Type)
	assert.Equal(t, SeverityInfo, infoEvents[0].Severity)

	alertEvents := Diff(previous, []Snapshot{{PickID: "p1", ImpliedProbability: 54.0}})
	require.Len(t, alertEvents, 1)
	assert.Equal(t, SeverityAlert, alertEvents[0].Severity)
}

func TestDiffNoEventBelowThreshold(t *testing.T) {
	previous := Archive{"p1": {PickID: "p1", ImpliedProbability: 50.0}}
	events := Diff(previous, []Snapshot{{PickID: "p1", ImpliedProbability: 50.5}})
	assert.Empty(t, events)
}

func TestDiffLineMove(t *testing.T) {
	previous := Archive{"p1": {PickID: "p1", Line: 3.0, HasLine: true}}
	events := Diff(previous, []Snapshot{{PickID: "p1", Line: 4.5, HasLine: true}})
	require.Len(t, events, 1)
	assert.Equal(t, EventLineMove, events[0].Type)
	assert.Equal(t, SeverityAlert, events[0].Severity)
}

func TestDiffTierChangeDowngradeIsWarning(t *testing.T) {
	previous := Archive{"p1": {PickID: "p1", Tier: "GOLD_STAR"}}
	events := Diff(previous, []Snapshot{{PickID: "p1", Tier: "EDGE_LEAN"}})
	require.Len(t, events, 1)
	assert.Equal(t, EventTierChange, events[0].Type)
	assert.Equal(t, SeverityWarning, events[0].Severity)
}

func TestDiffTierChangeUpgradeIsInfo(t *testing.T) {
	previous := Archive{"p1": {PickID: "p1", Tier: "EDGE_LEAN"}}
	events := Diff(previous, []Snapshot{{PickID: "p1", Tier: "GOLD_STAR"}})
	require.Len(t, events, 1)
	assert.Equal(t, SeverityInfo, events[0].Severity)
}

func TestDiffInjuryFlip(t *testing.T) {
	previous := Archive{"p1": {PickID: "p1", InjuryStatus: "HEALTHY"}}
	events := Diff(previous, []Snapshot{{PickID: "p1", InjuryStatus: "OUT"}})
	require.Len(t, events, 1)
	assert.Equal(t, EventInjuryFlip, events[0].Type)
}

func TestDiffPropLineAddedAndRemoved(t *testing.T) {
	previous := Archive{"p1": {PickID: "p1"}}
	added := Diff(previous, []Snapshot{{PickID: "p1", HasPropLine: true, PropLine: 10.5}})
	require.Len(t, added, 1)
	assert.Equal(t, EventPropAdded, added[0].Type)

	previous2 := Archive{"p1": {PickID: "p1", HasPropLine: true, PropLine: 10.5}}
	removed := Diff(previous2, []Snapshot{{PickID: "p1"}})
	require.Len(t, removed, 1)
	assert.Equal(t, EventPropRemoved, removed[0].Type)
}
