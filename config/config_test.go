package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 7, cfg.Pipeline.RiskWindowDays)
	assert.Equal(t, 0.7, cfg.Pipeline.HighRiskThreshold)
	assert.Equal(t, 30, cfg.Pipeline.MaxHorizonDays)
	assert.Empty(t, cfg.ClimateMultipliers)
}

func TestParseMultipliers(t *testing.T) {
	overrides := parseMultipliers("7=1.6, 8=1.55,junk,13=2.0,6=-1")
	assert.Equal(t, map[int]float64{7: 1.6, 8: 1.55}, overrides)

	assert.Empty(t, parseMultipliers(""))
}
