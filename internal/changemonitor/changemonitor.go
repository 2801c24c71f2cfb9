// Package changemonitor implements the Change Monitor (C14): diffs the new
// pick list against the last persisted snapshot per sport and emits change
// events with severity.
package changemonitor

import "time"

// EventType enumerates the recognized change event kinds.
type EventType string

const (
	EventOddsMove          EventType = "ODDS_MOVE"
	EventLineMove          EventType = "LINE_MOVE"
	EventPropLineMove      EventType = "PROP_LINE_MOVE"
	EventTierChange        EventType = "TIER_CHANGE"
	EventPropAdded         EventType = "PROP_ADDED"
	EventPropRemoved       EventType = "PROP_REMOVED"
	EventPickAdded         EventType = "PICK_ADDED"
	EventPickRemoved       EventType = "PICK_REMOVED"
	EventInjuryFlip        EventType = "INJURY_FLIP"
	EventGoalieStatusChange EventType = "GOALIE_STATUS_CHANGE"
)

// Severity is the change event's alert level.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityAlert   Severity = "alert"
)

// Thresholds for ODDS_MOVE / LINE_MOVE severity escalation.
const (
	OddsMoveInfoThresholdPct  = 1.5
	OddsMoveAlertThresholdPct = 3.0
	LineMoveInfoThreshold     = 0.5
	LineMoveAlertThreshold    = 1.0
)

// ChangeEvent is one emitted diff between snapshots.
type ChangeEvent struct {
	Type       EventType
	Severity   Severity
	PickID     string
	Detail     string
	OldValue   *float64
	NewValue   *float64
}

// Snapshot is the minimal per-pick state persisted between slate requests.
type Snapshot struct {
	PickID            string
	ImpliedProbability float64
	Line              float64
	HasLine           bool
	PropLine          float64
	HasPropLine       bool
	Tier              string
	InjuryStatus      string
	GoalieStatus      string
}

// Archive is a sport's snapshot set, keyed by pick_id.
type Archive map[string]Snapshot

// Diff compares the previous archive to the current pick set and returns
// every change event in no particular cross-pick order (ordering within a
// pick's own event list follows the checks below).
func Diff(previous Archive, current []Snapshot) []ChangeEvent {
	var events []ChangeEvent
	currentByID := make(map[string]Snapshot, len(current))
	for _, c := range current {
		currentByID[c.PickID] = c
		prev, existed := previous[c.PickID]
		if !existed {
			events = append(events, ChangeEvent{Type: EventPickAdded, Severity: SeverityInfo, PickID: c.PickID})
			continue
		}
		events = append(events, diffPick(prev, c)...)
	}
	for id := range previous {
		if _, stillPresent := currentByID[id]; !stillPresent {
			events = append(events, ChangeEvent{Type: EventPickRemoved, Severity: SeverityWarning, PickID: id})
		}
	}
	return events
}

func diffPick(prev, curr Snapshot) []ChangeEvent {
	var events []ChangeEvent

	if prev.ImpliedProbability != curr.ImpliedProbability {
		delta := curr.ImpliedProbability - prev.ImpliedProbability
		if delta < 0 {
			delta = -delta
		}
		if delta >= OddsMoveInfoThresholdPct {
			sev := SeverityInfo
			if delta >= OddsMoveAlertThresholdPct {
				sev = SeverityAlert
			}
			old, newVal := prev.ImpliedProbability, curr.ImpliedProbability
			events = append(events, ChangeEvent{
				Type: EventOddsMove, Severity: sev, PickID: curr.PickID,
				OldValue: &old, NewValue: &newVal,
			})
		}
	}

	if prev.HasLine && curr.HasLine && prev.Line != curr.Line {
		delta := curr.Line - prev.Line
		if delta < 0 {
			delta = -delta
		}
		if delta >= LineMoveInfoThreshold {
			sev := SeverityInfo
			if delta >= LineMoveAlertThreshold {
				sev = SeverityAlert
			}
			old, newVal := prev.Line, curr.Line
			events = append(events, ChangeEvent{
				Type: EventLineMove, Severity: sev, PickID: curr.PickID,
				OldValue: &old, NewValue: &newVal,
			})
		}
	}

	switch {
	case !prev.HasPropLine && curr.HasPropLine:
		events = append(events, ChangeEvent{Type: EventPropAdded, Severity: SeverityInfo, PickID: curr.PickID})
	case prev.HasPropLine && !curr.HasPropLine:
		events = append(events, ChangeEvent{Type: EventPropRemoved, Severity: SeverityWarning, PickID: curr.PickID})
	case prev.HasPropLine && curr.HasPropLine && prev.PropLine != curr.PropLine:
		old, newVal := prev.PropLine, curr.PropLine
		events = append(events, ChangeEvent{
			Type: EventPropLineMove, Severity: SeverityInfo, PickID: curr.PickID,
			OldValue: &old, NewValue: &newVal,
		})
	}

	if prev.Tier != curr.Tier {
		sev := SeverityInfo
		if tierRank(curr.Tier) < tierRank(prev.Tier) {
			sev = SeverityWarning
		}
		events = append(events, ChangeEvent{
			Type: EventTierChange, Severity: sev, PickID: curr.PickID,
			Detail: prev.Tier + " -> " + curr.Tier,
		})
	}

	if prev.InjuryStatus != curr.InjuryStatus {
		events = append(events, ChangeEvent{
			Type: EventInjuryFlip, Severity: SeverityWarning, PickID: curr.PickID,
			Detail: prev.InjuryStatus + " -> " + curr.InjuryStatus,
		})
	}

	if prev.GoalieStatus != curr.GoalieStatus {
		events = append(events, ChangeEvent{
			Type: EventGoalieStatusChange, Severity: SeverityWarning, PickID: curr.PickID,
			Detail: prev.GoalieStatus + " -> " + curr.GoalieStatus,
		})
	}

	return events
}

// tierRank orders tiers from strongest to weakest for upgrade/downgrade
// classification; unrecognized tiers rank lowest.
var tierOrder = map[string]int{
	"TITANIUM_SMASH": 4, "GOLD_STAR": 3, "EDGE_LEAN": 2, "MONITOR": 1, "PASS": 0,
}

func tierRank(tier string) int {
	return tierOrder[tier]
}

// SnapshotMeta is the archival wrapper persisted as each sport's
// {sport}_latest.json: each save overwrites it. ArchivedAt is whatever the
// caller sets.
type SnapshotMeta struct {
	Sport       string
	ArchivedAt  time.Time
	Picks       []Snapshot
}
