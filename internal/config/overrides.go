package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Overrides is the optional on-disk tuning surface for tiering thresholds
// and the esoteric altitude table. Absent a file, every package keeps its
// compiled-in defaults; this mirrors the rest of the codebase's rule that
// no package reads an external source directly — config is the one loader.
type Overrides struct {
	Tiering  TieringOverrides                  `yaml:"tiering"`
	Altitude map[string]AltitudeOverrideEntry   `yaml:"altitude"`
}

// TieringOverrides carries the subset of tiering.ThresholdOverrides this
// process may want to tune without a recompile. Nil fields leave the
// compiled-in default untouched.
type TieringOverrides struct {
	GoldStarThreshold      *float64 `yaml:"gold_star_threshold"`
	EdgeLeanThreshold      *float64 `yaml:"edge_lean_threshold"`
	MonitorThreshold       *float64 `yaml:"monitor_threshold"`
	TitaniumScoreThreshold *float64 `yaml:"titanium_score_threshold"`
	UnderPenalty           *float64 `yaml:"under_penalty"`
}

// AltitudeOverrideEntry mirrors internal/context.AltitudeAdjustment so this
// package stays free of an import on internal/context.
type AltitudeOverrideEntry struct {
	HomeBonus    float64 `yaml:"home_bonus"`
	OverBonus    float64 `yaml:"over_bonus"`
	UnderPenalty float64 `yaml:"under_penalty"`
}

// LoadOverrides reads and parses the YAML file at path. A missing file is
// not an error — it means no overrides are configured for this deploy —
// but a malformed file is, since a deploy that set the path clearly
// intended it to take effect.
func LoadOverrides(path string) (Overrides, error) {
	var o Overrides
	if path == "" {
		return o, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return o, nil
	}
	if err != nil {
		return o, err
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, err
	}
	return o, nil
}
