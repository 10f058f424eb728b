// Package enhancer turns extracted media info records into playback
// manifests a media pipeline can consume directly: a DASH MPD, an HLS
// master playlist, a bare direct URI or a playlist document.
package enhancer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rafostar/clapper-enhancers/internal/manifest"
	"github.com/Rafostar/clapper-enhancers/internal/types"
)

// Extractor is the external collaborator producing info records for
// URIs. Site-specific extraction (and any retries) live behind this
// boundary, not in the manifest engine.
type Extractor interface {
	Extract(ctx context.Context, uri string) (*types.MediaInfo, error)
}

// Harvest is the outcome of one extraction: the synthesized manifest
// plus the metadata the host embeds alongside it.
type Harvest struct {
	MediaType string
	Body      string

	Title    string
	Duration time.Duration
	Chapters []types.Chapter

	// Headers are the HTTP headers required to fetch the media, taken
	// from the first pre-selected format.
	Headers map[string]string

	// ExpiresIn hints how long the manifest stays fetchable, keyed by
	// which extractor produced the info.
	ExpiresIn time.Duration
}

// Enhancer synthesizes manifests from media info snapshots. It is
// stateless and safe for concurrent use.
type Enhancer struct {
	cfg Config
	log zerolog.Logger
}

func New(cfg Config) *Enhancer {
	return &Enhancer{cfg: cfg, log: cfg.logger()}
}

// Extract resolves a URI through the configured extractor and harvests
// a manifest from the result.
func (e *Enhancer) Extract(ctx context.Context, uri string) (*Harvest, error) {
	if e.cfg.Extractor == nil {
		return nil, fmt.Errorf("no extractor configured")
	}
	info, err := e.cfg.Extractor.Extract(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("extract %q: %w", uri, err)
	}
	return e.Harvest(ctx, info)
}

// Harvest synthesizes a manifest for one info snapshot and assembles
// the metadata side effects around it. Cancellation is observed at the
// engine checkpoints; a cancelled context yields the context error.
func (e *Enhancer) Harvest(ctx context.Context, info *types.MediaInfo) (*Harvest, error) {
	res, err := manifest.Generate(ctx, info, manifest.Options{
		Order:            e.cfg.StrategyOrder,
		MaxPlaylistItems: e.cfg.MaxPlaylistItems,
		Logger:           e.log,
	})
	if err != nil {
		return nil, err
	}

	h := &Harvest{
		MediaType: res.MediaType,
		Body:      res.Body,
		Title:     info.Title,
		Chapters:  info.Chapters,
		ExpiresIn: e.expiration(info.Extractor),
	}
	if info.Duration > 0 {
		h.Duration = time.Duration(info.Duration * float64(time.Second))
	}
	if selected := info.SelectedFormats(); len(selected) > 0 {
		h.Headers = selected[0].HTTPHeaders
	}

	e.log.Info().
		Str("media_type", h.MediaType).
		Str("extractor", info.Extractor).
		Dur("expires_in", h.ExpiresIn).
		Msg("harvest filled")
	return h, nil
}
