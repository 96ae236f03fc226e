package domain

import (
	"time"

	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// PhaseDurations holds the length of each daily window
type PhaseDurations struct {
	Camp      time.Duration
	Challenge time.Duration
	Vote      time.Duration
}

// GameModeConfig is the immutable per-mode season shape. Resolved once at
// season start and carried through the state machine; never re-read or
// mutated at runtime.
type GameModeConfig struct {
	Mode      string
	TotalDays int
	MergeDay  int
	Phases    PhaseDurations
}

// modes is the read-only mode table, populated at process start.
var modes = map[string]GameModeConfig{
	"classic": {
		Mode:      "classic",
		TotalDays: 14,
		MergeDay:  7,
		Phases:    PhaseDurations{Camp: 8 * time.Hour, Challenge: 3 * time.Hour, Vote: 1 * time.Hour},
	},
	"speed": {
		Mode:      "speed",
		TotalDays: 7,
		MergeDay:  4,
		Phases:    PhaseDurations{Camp: 1 * time.Hour, Challenge: 30 * time.Minute, Vote: 15 * time.Minute},
	},
	"hardcore": {
		Mode:      "hardcore",
		TotalDays: 21,
		MergeDay:  11,
		Phases:    PhaseDurations{Camp: 12 * time.Hour, Challenge: 4 * time.Hour, Vote: 2 * time.Hour},
	},
	"casual": {
		Mode:      "casual",
		TotalDays: 10,
		MergeDay:  5,
		Phases:    PhaseDurations{Camp: 16 * time.Hour, Challenge: 6 * time.Hour, Vote: 2 * time.Hour},
	},
}

// fastPhases is the fixed short-duration table selected by the legacy "fast"
// override, used for smoke seasons and demos.
var fastPhases = PhaseDurations{
	Camp:      30 * time.Second,
	Challenge: 20 * time.Second,
	Vote:      10 * time.Second,
}

// ResolveMode looks up a named game mode
func ResolveMode(mode string) (GameModeConfig, error) {
	cfg, ok := modes[mode]
	if !ok {
		return GameModeConfig{}, apperr.Validationf("unknown game mode %q", mode)
	}
	return cfg, nil
}

// ResolveOverride builds a config from the legacy explicit-days override.
// Fast selects the fixed short-duration table, otherwise the classic phase
// lengths apply. The merge fires at the midpoint, rounded up.
func ResolveOverride(totalDays int, fast bool) (GameModeConfig, error) {
	if totalDays < 2 {
		return GameModeConfig{}, apperr.Validationf("override totalDays must be at least 2, got %d", totalDays)
	}

	phases := modes["classic"].Phases
	mode := "custom"
	if fast {
		phases = fastPhases
		mode = "custom-fast"
	}

	return GameModeConfig{
		Mode:      mode,
		TotalDays: totalDays,
		MergeDay:  (totalDays + 1) / 2,
		Phases:    phases,
	}, nil
}

// ConfigForSeason rebuilds the mode config a stored season was started with,
// so a restarted process can resume with the same phase lengths.
func ConfigForSeason(s *Season) GameModeConfig {
	phases := modes["classic"].Phases
	if cfg, ok := modes[s.Mode]; ok {
		phases = cfg.Phases
	} else if s.Mode == "custom-fast" {
		phases = fastPhases
	}
	return GameModeConfig{
		Mode:      s.Mode,
		TotalDays: s.TotalDays,
		MergeDay:  s.MergeDay,
		Phases:    phases,
	}
}

// Modes returns the configured mode names
func Modes() []string {
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	return names
}
