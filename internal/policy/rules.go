package policy

import (
	"strings"

	"github.com/Rafostar/clapper-enhancers/internal/types"
)

// Predicate reports whether a single format is acceptable for a target
// grouping. Formats failing a predicate are dropped silently; a defect
// local to one format never fails the whole manifest.
type Predicate func(f *types.MediaFormat) bool

// All composes predicates; every one must accept.
func All(preds ...Predicate) Predicate {
	return func(f *types.MediaFormat) bool {
		for _, p := range preds {
			if !p(f) {
				return false
			}
		}
		return true
	}
}

// Filter returns the formats accepted by the predicate, in input order.
func Filter(formats []types.MediaFormat, pred Predicate) []types.MediaFormat {
	var out []types.MediaFormat
	for i := range formats {
		if pred(&formats[i]) {
			out = append(out, formats[i])
		}
	}
	return out
}

// HasURL requires a non-empty format URL.
func HasURL(f *types.MediaFormat) bool { return f.URL != "" }

// drcSuffix marks dialogue-range-compressed variants, excluded by policy.
const drcSuffix = "-drc"

// NoDRC rejects dialogue-range-compressed variants.
func NoDRC(f *types.MediaFormat) bool {
	return f.FormatID != "" && !strings.HasSuffix(f.FormatID, drcSuffix)
}

// HasExt requires a real container extension.
func HasExt(f *types.MediaFormat) bool {
	return f.Ext != "" && f.Ext != "none"
}

// ProtocolIs requires an exact protocol match.
func ProtocolIs(protocol string) Predicate {
	return func(f *types.MediaFormat) bool { return f.Protocol == protocol }
}

// dashContainerSuffix marks containers fragmented for segment-base DASH.
const dashContainerSuffix = "_dash"

// ContainerDASH requires a DASH-fragmented container.
func ContainerDASH(f *types.MediaFormat) bool {
	return strings.HasSuffix(f.Container, dashContainerSuffix)
}

// VCodec requires the video codec to satisfy the selector.
func VCodec(sel types.CodecSelector) Predicate {
	return func(f *types.MediaFormat) bool { return sel.Matches(f.VCodec) }
}

// ACodec requires the audio codec to satisfy the selector.
func ACodec(sel types.CodecSelector) Predicate {
	return func(f *types.MediaFormat) bool { return sel.Matches(f.ACodec) }
}

// minVideoHeight is the "ultralow" cutoff for video tracks.
const minVideoHeight = 240

// NotUltralowVideo rejects ultralow video qualities. Apply only when a
// video track is requested.
func NotUltralowVideo(f *types.MediaFormat) bool {
	return f.Height >= minVideoHeight
}

// NotUltralowAudio rejects ultralow audio qualities. Apply only when an
// audio track is requested.
func NotUltralowAudio(f *types.MediaFormat) bool {
	return f.FormatNote != "ultralow"
}

// HasBandwidth requires a usable bitrate.
func HasBandwidth(f *types.MediaFormat) bool { return f.HasBandwidth() }

// HasSegmentIndex requires valid init and index byte ranges.
func HasSegmentIndex(f *types.MediaFormat) bool {
	return f.StreamingOptions.Indexed()
}

// LanguageIs requires an exact language tag match.
func LanguageIs(lang string) Predicate {
	return func(f *types.MediaFormat) bool { return f.Language == lang }
}
