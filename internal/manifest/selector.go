package manifest

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/Rafostar/clapper-enhancers/internal/types"
)

// Media types of the supported manifest kinds.
const (
	MediaTypeDASH     = "application/dash+xml"
	MediaTypeHLS      = "application/x-hls"
	MediaTypeURI      = "text/x-uri"
	MediaTypePlaylist = "application/clapper-playlist"
)

// Strategy names one manifest synthesis strategy.
type Strategy string

const (
	StrategyHLS      Strategy = "hls"
	StrategyDASH     Strategy = "dash"
	StrategyDirect   Strategy = "direct"
	StrategyPlaylist Strategy = "playlist"
)

// DefaultOrder is the strategy priority used when none is configured.
// Different deployments disagree on HLS-before-DASH, so the order is a
// policy knob rather than a constant.
var DefaultOrder = []Strategy{StrategyHLS, StrategyDASH, StrategyDirect, StrategyPlaylist}

// ErrNoManifest indicates that every strategy was tried and none
// produced a manifest.
var ErrNoManifest = errors.New("no strategy produced a playable manifest")

// Result is one synthesized manifest and its reported media type.
type Result struct {
	MediaType string
	Body      string
}

// Options tunes one Generate call.
type Options struct {
	// Order overrides the strategy priority. Unknown names are skipped.
	Order []Strategy
	// MaxPlaylistItems bounds playlist documents; 0 means the default.
	MaxPlaylistItems int
	// Logger receives per-strategy diagnostics. The zero value is silent.
	Logger zerolog.Logger
}

// Generate runs the strategies in priority order against one immutable
// info snapshot and returns the first non-empty manifest. It holds no
// state across calls and is safe for concurrent use.
//
// Cancellation is observed at two checkpoints: before strategy selection
// begins and immediately before a built manifest is returned. A set
// signal yields the context error, never a manifest.
func Generate(ctx context.Context, info *types.MediaInfo, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := info.Validate(); err != nil {
		return Result{}, err
	}

	order := opts.Order
	if len(order) == 0 {
		order = DefaultOrder
	}

	for _, strategy := range order {
		body, ok := runStrategy(strategy, info, opts)
		if !ok {
			opts.Logger.Debug().
				Str("strategy", string(strategy)).
				Msg("strategy produced no manifest")
			continue
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		opts.Logger.Debug().
			Str("strategy", string(strategy)).
			Int("size", len(body)).
			Msg("manifest generated")
		return Result{MediaType: mediaTypeFor(strategy), Body: body}, nil
	}
	return Result{}, ErrNoManifest
}

func runStrategy(strategy Strategy, info *types.MediaInfo, opts Options) (string, bool) {
	switch strategy {
	case StrategyHLS:
		return BuildHLS(info)
	case StrategyDASH:
		return BuildDASH(info)
	case StrategyDirect:
		return BuildDirect(info)
	case StrategyPlaylist:
		return BuildPlaylist(info, opts.MaxPlaylistItems)
	default:
		return "", false
	}
}

func mediaTypeFor(strategy Strategy) string {
	switch strategy {
	case StrategyHLS:
		return MediaTypeHLS
	case StrategyDASH:
		return MediaTypeDASH
	case StrategyDirect:
		return MediaTypeURI
	case StrategyPlaylist:
		return MediaTypePlaylist
	default:
		return ""
	}
}
