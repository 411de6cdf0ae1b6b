package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// DEFAULT CONFIG TESTS
// =============================================================================

func TestDefaultEngineConfig(t *testing.T) {
	// Test default values are set correctly.
	config := DefaultEngineConfig()

	// Confidence Thresholds
	assert.Equal(t, 0.7, config.ClarificationThreshold)
	assert.Equal(t, 0.9, config.HighConfidenceThreshold)

	// Attempt Control
	assert.Equal(t, 5, config.MaxAttempts)

	// Resume Buffer
	assert.Equal(t, 2*time.Minute, config.ResumeTTL)
	assert.Equal(t, 280, config.MaxSpokenRunes)
	assert.Equal(t, 40, config.MinRemainderLen)

	// Clarify Options
	assert.Equal(t, 3, config.MaxAnswerFormats)

	assert.Empty(t, config.Validate())
}

// =============================================================================
// FROM MAP TESTS
// =============================================================================

func TestEngineConfigFromMapPartial(t *testing.T) {
	// Test creating config from partial map.
	configMap := map[string]any{
		"clarification_threshold": 0.5,
		"max_attempts":            3,
		"resume_ttl_seconds":      90,
		"max_spoken_runes":        200,
		"unknown_key":             "ignored",
	}

	config := EngineConfigFromMap(configMap)

	assert.Equal(t, 0.5, config.ClarificationThreshold)
	assert.Equal(t, 3, config.MaxAttempts)
	assert.Equal(t, 90*time.Second, config.ResumeTTL)
	assert.Equal(t, 200, config.MaxSpokenRunes)

	// Untouched keys keep defaults.
	assert.Equal(t, 0.9, config.HighConfidenceThreshold)
	assert.Equal(t, 40, config.MinRemainderLen)
}

func TestEngineConfigFromMapJSONNumbers(t *testing.T) {
	// Numbers decoded from JSON arrive as float64.
	config := EngineConfigFromMap(map[string]any{
		"max_attempts":       float64(4),
		"resume_ttl_seconds": float64(120),
		"min_remainder_len":  float64(20),
		"max_answer_formats": float64(2),
	})

	assert.Equal(t, 4, config.MaxAttempts)
	assert.Equal(t, 2*time.Minute, config.ResumeTTL)
	assert.Equal(t, 20, config.MinRemainderLen)
	assert.Equal(t, 2, config.MaxAnswerFormats)
}

func TestEngineConfigFromMapEmpty(t *testing.T) {
	// An empty map yields pure defaults.
	config := EngineConfigFromMap(map[string]any{})
	assert.Equal(t, DefaultEngineConfig(), config)
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestEngineConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"threshold above one", func(c *EngineConfig) { c.ClarificationThreshold = 1.5 }},
		{"negative threshold", func(c *EngineConfig) { c.HighConfidenceThreshold = -0.1 }},
		{"zero attempts", func(c *EngineConfig) { c.MaxAttempts = 0 }},
		{"zero ttl", func(c *EngineConfig) { c.ResumeTTL = 0 }},
		{"tiny spoken cap", func(c *EngineConfig) { c.MaxSpokenRunes = 10 }},
		{"one answer format", func(c *EngineConfig) { c.MaxAnswerFormats = 1 }},
		{"four answer formats", func(c *EngineConfig) { c.MaxAnswerFormats = 4 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultEngineConfig()
			tt.mutate(config)

			assert.NotEmpty(t, config.Validate())
		})
	}
}

func TestEngineConfigValidateCollectsAllProblems(t *testing.T) {
	config := DefaultEngineConfig()
	config.MaxAttempts = 0
	config.ResumeTTL = 0

	assert.Len(t, config.Validate(), 2)
}
