package sanitize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStripInternalKeysRemovesSuffixedFields(t *testing.T) {
	in := map[string]interface{}{
		"pick_id":    "abc",
		"created_utc": "2026-07-31T00:00:00Z",
		"start_iso":   "2026-07-31T19:00:00Z",
		"fetched_epoch": 1690000000,
		"updated_timestamp": "now",
		"nested": map[string]interface{}{
			"inner_utc": "x",
			"keep":      "y",
		},
	}
	out := StripInternalKeys(in)
	assert.Contains(t, out, "pick_id")
	assert.NotContains(t, out, "created_utc")
	assert.NotContains(t, out, "start_iso")
	assert.NotContains(t, out, "fetched_epoch")
	assert.NotContains(t, out, "updated_timestamp")
	nested := out["nested"].(map[string]interface{})
	assert.NotContains(t, nested, "inner_utc")
	assert.Contains(t, nested, "keep")
}

func TestToETDisplayAppliesOffset(t *testing.T) {
	eastern, err := time.LoadLocation("America/New_York")
	if err != nil {
		eastern = time.FixedZone("EST", -5*60*60)
	}
	utc := time.Date(2026, 7, 31, 17, 0, 0, 0, time.UTC)
	s := ToETDisplay(utc, eastern)
	assert.Contains(t, s, "2026-07-31")
}
