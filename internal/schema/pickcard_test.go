package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/sharpline/internal/model"
)

func lineOf(v float64) *float64 { return &v }

func TestComputePickIDIsDeterministic(t *testing.T) {
	id1 := ComputePickID("evt1", model.MarketSpread, "Lakers", lineOf(-4.5), model.NoOverUnder)
	id2 := ComputePickID("evt1", model.MarketSpread, "Lakers", lineOf(-4.5), model.NoOverUnder)
	assert.Equal(t, id1, id2)
}

func TestComputePickIDDiffersOnInputChange(t *testing.T) {
	id1 := ComputePickID("evt1", model.MarketSpread, "Lakers", lineOf(-4.5), model.NoOverUnder)
	id2 := ComputePickID("evt1", model.MarketSpread, "Lakers", lineOf(-5.0), model.NoOverUnder)
	assert.NotEqual(t, id1, id2)
}

func TestFormatLineSignedSpread(t *testing.T) {
	assert.Equal(t, "+1.5", FormatLineSigned(model.MarketSpread, lineOf(1.5), model.NoOverUnder))
	assert.Equal(t, "-4.5", FormatLineSigned(model.MarketSpread, lineOf(-4.5), model.NoOverUnder))
}

func TestFormatLineSignedTotal(t *testing.T) {
	assert.Equal(t, "O 220.5", FormatLineSigned(model.MarketTotal, lineOf(220.5), model.Over))
	assert.Equal(t, "U 220.5", FormatLineSigned(model.MarketTotal, lineOf(220.5), model.Under))
}

func TestEnforceHomeAwayConsistencyCorrectsMismatch(t *testing.T) {
	card := &PickCard{BetInstruction: BetInstruction{Selection: "Warriors"}}
	EnforceHomeAwayConsistency(card, SideHome, "Lakers", "Warriors")
	assert.Equal(t, "Lakers", card.BetInstruction.Selection)
	assert.Contains(t, card.CorrectionFlags, "SELECTION_HOME_AWAY_CORRECTED")
	assert.Equal(t, SideHome, card.BetInstruction.SelectionHomeAway)
}

func TestEnforceHomeAwayConsistencyNoOpWhenAligned(t *testing.T) {
	card := &PickCard{BetInstruction: BetInstruction{Selection: "Lakers"}}
	EnforceHomeAwayConsistency(card, SideHome, "Lakers", "Warriors")
	assert.Empty(t, card.CorrectionFlags)
}

func TestBuildBetStringWithOddsAndBook(t *testing.T) {
	odds := -110
	s := BuildBetString("Lakers", "-4.5", &odds, model.BookDraftKings)
	assert.Equal(t, "Lakers -4.5 (-110) @ draftkings", s)
}

func TestBuildBetStringOddsNeverFabricated(t *testing.T) {
	s := BuildBetString("Lakers", "-4.5", nil, model.BookDraftKings)
	assert.NotContains(t, s, "-110")
}
