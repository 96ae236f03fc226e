package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

func TestResolveModeKnownModes(t *testing.T) {
	for _, name := range Modes() {
		cfg, err := ResolveMode(name)
		assert.NoError(t, err)
		assert.Equal(t, name, cfg.Mode)
		assert.Greater(t, cfg.TotalDays, 1)
		assert.Greater(t, cfg.MergeDay, 0)
		assert.Less(t, cfg.MergeDay, cfg.TotalDays)
		assert.Greater(t, cfg.Phases.Camp, time.Duration(0))
	}
}

func TestResolveModeUnknown(t *testing.T) {
	_, err := ResolveMode("marathon")
	assert.True(t, apperr.IsValidation(err))
}

func TestResolveOverrideMidpointMerge(t *testing.T) {
	cfg, err := ResolveOverride(5, false)
	assert.NoError(t, err)
	assert.Equal(t, "custom", cfg.Mode)
	assert.Equal(t, 3, cfg.MergeDay) // midpoint rounded up
	assert.Equal(t, modes["classic"].Phases, cfg.Phases)

	cfg, err = ResolveOverride(4, false)
	assert.NoError(t, err)
	assert.Equal(t, 2, cfg.MergeDay)
}

func TestResolveOverrideFastTable(t *testing.T) {
	cfg, err := ResolveOverride(4, true)
	assert.NoError(t, err)
	assert.Equal(t, "custom-fast", cfg.Mode)
	assert.Equal(t, fastPhases, cfg.Phases)
}

func TestResolveOverrideTooShort(t *testing.T) {
	_, err := ResolveOverride(1, false)
	assert.True(t, apperr.IsValidation(err))
}

func TestConfigForSeasonRebuildsStoredShape(t *testing.T) {
	season := &Season{
		SeasonID:  "s1",
		Mode:      "custom-fast",
		TotalDays: 9,
		MergeDay:  5,
	}
	cfg := ConfigForSeason(season)
	assert.Equal(t, 9, cfg.TotalDays)
	assert.Equal(t, 5, cfg.MergeDay)
	assert.Equal(t, fastPhases, cfg.Phases)

	season.Mode = "speed"
	cfg = ConfigForSeason(season)
	assert.Equal(t, modes["speed"].Phases, cfg.Phases)
	// Stored day counts win over the mode table, in case the table changes
	// between releases.
	assert.Equal(t, 9, cfg.TotalDays)
}
