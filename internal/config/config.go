// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrogolib/log"
)

// Quirks selects between divergent historical interpreter behaviors.
type Quirks struct {
	// LegacyShift makes 8xy6 and 8xyE copy Vy into Vx before shifting,
	// otherwise Vx is shifted in place.
	LegacyShift bool
	// LegacyJumpOffset makes Bnnn jump to nnn plus Vx, where x is the high
	// nibble of nnn, otherwise the jump goes to nnn.
	LegacyJumpOffset bool
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
