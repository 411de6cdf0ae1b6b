// Package config provides decision-engine configuration - NO infrastructure URLs.
//
// This module contains ONLY configuration relevant to the turn-level decision
// cascade:
//   - Confidence thresholds
//   - Attempt caps and time windows
//   - Spoken-delivery limits
//
// Infrastructure configuration (OTLP endpoints, metrics addresses) belongs to
// the process bootstrap, not here. Environment parsing happens in the caller.
package config

import "time"

// EngineConfig holds decision-engine configuration.
//
// All values are plain data; the engine treats the config as immutable for
// the lifetime of a Decide call, which keeps decisions reproducible.
type EngineConfig struct {
	// Confidence Thresholds
	ClarificationThreshold  float64 `json:"clarification_threshold"`   // Clarify below this
	HighConfidenceThreshold float64 `json:"high_confidence_threshold"` // Memory usable at or above this

	// Attempt Control
	MaxAttempts int `json:"max_attempts"` // Cap for re-asked questions per pending key

	// Resume Buffer
	ResumeTTL       time.Duration `json:"resume_ttl"`        // Freshness window for unsaid remainders
	MaxSpokenRunes  int           `json:"max_spoken_runes"`  // Longest answer spoken in one turn
	MinRemainderLen int           `json:"min_remainder_len"` // Remainders shorter than this are spoken anyway

	// Clarify Options
	MaxAnswerFormats int `json:"max_answer_formats"` // Hard ceiling per the one-question rule
}

// DefaultEngineConfig returns an EngineConfig with default values.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		ClarificationThreshold:  0.7,
		HighConfidenceThreshold: 0.9,
		MaxAttempts:             5,
		ResumeTTL:               2 * time.Minute,
		MaxSpokenRunes:          280,
		MinRemainderLen:         40,
		MaxAnswerFormats:        3,
	}
}

// EngineConfigFromMap creates an EngineConfig from a map.
// Unknown keys are ignored.
func EngineConfigFromMap(cfg map[string]any) *EngineConfig {
	c := DefaultEngineConfig()

	if v, ok := cfg["clarification_threshold"].(float64); ok {
		c.ClarificationThreshold = v
	}
	if v, ok := cfg["high_confidence_threshold"].(float64); ok {
		c.HighConfidenceThreshold = v
	}
	if v, ok := cfg["max_attempts"].(int); ok {
		c.MaxAttempts = v
	} else if v, ok := cfg["max_attempts"].(float64); ok {
		c.MaxAttempts = int(v)
	}
	if v, ok := cfg["resume_ttl_seconds"].(int); ok {
		c.ResumeTTL = time.Duration(v) * time.Second
	} else if v, ok := cfg["resume_ttl_seconds"].(float64); ok {
		c.ResumeTTL = time.Duration(v) * time.Second
	}
	if v, ok := cfg["max_spoken_runes"].(int); ok {
		c.MaxSpokenRunes = v
	} else if v, ok := cfg["max_spoken_runes"].(float64); ok {
		c.MaxSpokenRunes = int(v)
	}
	if v, ok := cfg["min_remainder_len"].(int); ok {
		c.MinRemainderLen = v
	} else if v, ok := cfg["min_remainder_len"].(float64); ok {
		c.MinRemainderLen = int(v)
	}
	if v, ok := cfg["max_answer_formats"].(int); ok {
		c.MaxAnswerFormats = v
	} else if v, ok := cfg["max_answer_formats"].(float64); ok {
		c.MaxAnswerFormats = int(v)
	}

	return c
}

// Validate checks configuration invariants.
func (c *EngineConfig) Validate() []string {
	var problems []string
	if c.ClarificationThreshold < 0 || c.ClarificationThreshold > 1 {
		problems = append(problems, "clarification_threshold must be in [0,1]")
	}
	if c.HighConfidenceThreshold < 0 || c.HighConfidenceThreshold > 1 {
		problems = append(problems, "high_confidence_threshold must be in [0,1]")
	}
	if c.MaxAttempts < 1 {
		problems = append(problems, "max_attempts must be >= 1")
	}
	if c.ResumeTTL <= 0 {
		problems = append(problems, "resume_ttl must be positive")
	}
	if c.MaxSpokenRunes < 80 {
		problems = append(problems, "max_spoken_runes must be >= 80")
	}
	if c.MaxAnswerFormats < 2 || c.MaxAnswerFormats > 3 {
		problems = append(problems, "max_answer_formats must be 2 or 3")
	}
	return problems
}
