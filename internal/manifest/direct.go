package manifest

import (
	"github.com/Rafostar/clapper-enhancers/internal/policy"
	"github.com/Rafostar/clapper-enhancers/internal/types"
)

// httpsProtocol marks plain direct-download formats.
const httpsProtocol = "https"

// directContainer is the container extension preferred by the first
// selection pass.
const directContainer = "mp4"

// BuildDirect picks the single best plain-HTTP format when no adaptive
// strategy applies and returns its URL as the manifest body.
func BuildDirect(info *types.MediaInfo) (string, bool) {
	candidates := policy.Filter(info.Formats, policy.All(
		policy.ProtocolIs(httpsProtocol),
		policy.HasURL,
	))

	// First pass prefers the common container; second falls back to
	// audio-only formats.
	if best, ok := bestDirect(candidates, func(f *types.MediaFormat) bool {
		return f.Ext == directContainer
	}, true); ok {
		return best.URL, true
	}
	if best, ok := bestDirect(candidates, func(f *types.MediaFormat) bool {
		return f.VideoExt() == "none"
	}, false); ok {
		return best.URL, true
	}

	// A single pre-resolved record may carry the direct URL at the top
	// level instead of a formats list.
	if info.Protocol == httpsProtocol && info.URL != "" {
		return info.URL, true
	}
	return "", false
}

func bestDirect(candidates []types.MediaFormat, match policy.Predicate, wantVideo bool) (*types.MediaFormat, bool) {
	var best *types.MediaFormat
	for i := range candidates {
		f := &candidates[i]
		if !match(f) {
			continue
		}
		if best == nil || betterDirect(f, best, wantVideo) {
			best = f
		}
	}
	return best, best != nil
}

// betterDirect prefers higher height, then higher fps (video passes
// only), then higher bitrate.
func betterDirect(a, b *types.MediaFormat, wantVideo bool) bool {
	if a.Height != b.Height {
		return a.Height > b.Height
	}
	if wantVideo && a.FPS != b.FPS {
		return a.FPS > b.FPS
	}
	return a.Bandwidth() > b.Bandwidth()
}
