package enhancer

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/Rafostar/clapper-enhancers/internal/manifest"
)

// Config holds configuration for the enhancer.
type Config struct {
	// Extractor produces MediaInfo records for URIs. Required for
	// Extract; Harvest can be used without it.
	Extractor Extractor

	// StrategyOrder overrides the manifest strategy priority.
	// If empty, package defaults are used (HLS, DASH, direct, playlist).
	StrategyOrder []manifest.Strategy

	// MaxPlaylistItems bounds playlist documents. 0 means the package
	// default.
	MaxPlaylistItems int

	// Expirations overrides the per-extractor manifest freshness hints,
	// keyed by extractor name. Entries merge over the package defaults.
	Expirations map[string]time.Duration

	// Logger receives diagnostics. If nil, logging is disabled.
	Logger *zerolog.Logger
}

func (c Config) logger() zerolog.Logger {
	if c.Logger == nil {
		return zerolog.Nop()
	}
	return *c.Logger
}
