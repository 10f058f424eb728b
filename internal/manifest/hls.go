package manifest

import (
	"strconv"
	"strings"

	"github.com/Rafostar/clapper-enhancers/internal/policy"
	"github.com/Rafostar/clapper-enhancers/internal/types"
)

const (
	// hlsProtocol prefixes the info-level protocol of HLS sources.
	hlsProtocol = "m3u8"
	// hlsNativeProtocol is the exact per-format protocol of HLS variants.
	hlsNativeProtocol = "m3u8_native"
)

// hlsAttempt is one master playlist build attempt.
type hlsAttempt struct {
	video    types.CodecSelector
	audio    types.CodecSelector
	separate bool
}

// BuildHLS emits an HLS master playlist for sources fetched over the
// HLS-native protocol. An empty result means the strategy does not apply.
func BuildHLS(info *types.MediaInfo) (string, bool) {
	if !strings.HasPrefix(info.Protocol, hlsProtocol) {
		return "", false
	}
	// "a+b" marks video and audio fetched as separate streams.
	separate := strings.Contains(info.Protocol, "+")

	video := types.SelectCodec(info.VCodec)
	audio := types.SelectCodec(info.ACodec)
	if video.Absent && audio.Absent {
		// Nothing pre-selected at the top level; assume the common
		// AVC + AAC pairing.
		video = types.SelectTag("avc1")
		audio = types.SelectTag("mp4a")
	}
	if video.Equal(audio) {
		return "", false
	}
	if separate && (video.Absent || audio.Absent) {
		return "", false
	}

	var attempts []hlsAttempt
	if !video.Absent && !audio.Absent {
		attempts = append(attempts, hlsAttempt{video: video, audio: audio, separate: true})
		attempts = append(attempts, hlsAttempt{video: video, audio: audio})
	}
	if !audio.Absent {
		attempts = append(attempts, hlsAttempt{video: types.CodecSelector{Absent: true}, audio: audio})
	}

	for _, attempt := range attempts {
		if body, ok := renderHLS(info, attempt); ok {
			return body, true
		}
	}
	return "", false
}

func renderHLS(info *types.MediaInfo, attempt hlsAttempt) (string, bool) {
	var b strings.Builder
	b.WriteString("#EXTM3U\n#EXT-X-INDEPENDENT-SEGMENTS\n")

	emitted := make(map[string]bool)
	if attempt.separate {
		// Audio section first: clients resolving AUDIO= group references
		// expect the group already declared.
		okAudio := writeHLSSection(&b, info, types.CodecSelector{Absent: true}, attempt.audio, emitted)
		okVideo := writeHLSSection(&b, info, attempt.video, types.CodecSelector{Absent: true}, emitted)
		if !okAudio || !okVideo {
			return "", false
		}
		return b.String(), true
	}

	if !writeHLSSection(&b, info, attempt.video, attempt.audio, emitted) {
		return "", false
	}
	return b.String(), true
}

// writeHLSSection filters, partitions and emits the formats matching one
// codec pair. Media (auxiliary) entries precede stream entries.
func writeHLSSection(b *strings.Builder, info *types.MediaInfo, video, audio types.CodecSelector, emitted map[string]bool) bool {
	preds := []policy.Predicate{
		policy.ProtocolIs(hlsNativeProtocol),
		policy.HasURL,
		policy.VCodec(video),
		policy.ACodec(audio),
		policy.NoDRC,
	}
	if !video.Absent {
		preds = append(preds, policy.NotUltralowVideo)
	}
	if !audio.Absent {
		preds = append(preds, policy.NotUltralowAudio)
	}
	formats := policy.Filter(info.Formats, policy.All(preds...))
	if len(formats) == 0 {
		return false
	}

	// Companion audio/caption tracks referenced by id from the variant
	// streams, looked up across the full format list. The order slice
	// keeps output deterministic.
	companions := make(map[string]*types.MediaFormat)
	var companionOrder []*types.MediaFormat
	for i := range formats {
		if formats[i].VCodec.Absent() {
			continue
		}
		for _, id := range []string{formats[i].AudioID, formats[i].CaptionsID} {
			if id == "" {
				continue
			}
			if _, seen := companions[id]; seen {
				continue
			}
			for j := range info.Formats {
				if info.Formats[j].FormatID == id {
					companions[id] = &info.Formats[j]
					companionOrder = append(companionOrder, &info.Formats[j])
					break
				}
			}
		}
	}

	var media, streams []*types.MediaFormat
	for i := range formats {
		if formats[i].TBR != nil {
			streams = append(streams, &formats[i])
		} else {
			media = append(media, &formats[i])
		}
	}

	// Companions without bandwidth that no codec filter admits (caption
	// tracks in particular) still need their rendition declared.
	for _, c := range companionOrder {
		if c.TBR != nil || emitted[c.FormatID] {
			continue
		}
		present := false
		for _, m := range media {
			if m.FormatID == c.FormatID {
				present = true
				break
			}
		}
		if !present {
			media = append(media, c)
		}
	}

	defaults := defaultMediaEntries(media)
	for _, f := range media {
		writeXMedia(b, f, defaults[f.FormatID])
		emitted[f.FormatID] = true
	}
	for _, f := range streams {
		writeXStreamInf(b, f, companions)
	}
	return true
}

// hlsGroupID truncates a format id to its group-identifying prefix, so
// language variants like "234-0" and "234-1" share one rendition group.
func hlsGroupID(formatID string) string {
	if idx := strings.Index(formatID, "-"); idx > 0 {
		return formatID[:idx]
	}
	return formatID
}

// defaultMediaEntries marks, per rendition group, the entry with the
// highest language preference (first seen wins ties) as the default.
func defaultMediaEntries(media []*types.MediaFormat) map[string]bool {
	best := make(map[string]*types.MediaFormat)
	for _, f := range media {
		group := hlsGroupID(f.FormatID)
		cur, ok := best[group]
		if !ok || f.LanguagePreference > cur.LanguagePreference {
			best[group] = f
		}
	}
	defaults := make(map[string]bool, len(best))
	for _, f := range best {
		defaults[f.FormatID] = true
	}
	return defaults
}

func writeXMedia(b *strings.Builder, f *types.MediaFormat, isDefault bool) {
	mediaType := "CLOSED-CAPTIONS"
	if !f.ACodec.Absent() {
		mediaType = "AUDIO"
	}
	b.WriteString("#EXT-X-MEDIA:TYPE=" + mediaType)
	b.WriteString(",GROUP-ID=\"" + hlsGroupID(f.FormatID) + "\"")

	name := "Default"
	if lang := types.PrimarySubtag(f.Language); lang != "" {
		name = lang
		b.WriteString(",LANGUAGE=\"" + lang + "\"")
	}
	b.WriteString(",NAME=\"" + name + "\"")
	if isDefault {
		b.WriteString(",DEFAULT=YES")
	} else {
		b.WriteString(",DEFAULT=NO")
	}
	b.WriteString(",AUTOSELECT=YES")
	b.WriteString(",URI=\"" + f.URL + "\"\n")
}

func writeXStreamInf(b *strings.Builder, f *types.MediaFormat, companions map[string]*types.MediaFormat) {
	audio := companions[f.AudioID]
	captions := companions[f.CaptionsID]

	b.WriteString("#EXT-X-STREAM-INF:BANDWIDTH=" + strconv.FormatInt(f.Bandwidth(), 10))

	acodec := f.ACodec
	if acodec.Absent() && audio != nil {
		acodec = audio.ACodec
	}
	if codecs := joinCodecs(f.VCodec, acodec); codecs != "" {
		b.WriteString(",CODECS=\"" + codecs + "\"")
	}

	if f.Width > 0 && f.Height > 0 {
		b.WriteString(",RESOLUTION=" + strconv.Itoa(f.Width) + "x" + strconv.Itoa(f.Height))
	}
	if f.FPS > 0 {
		b.WriteString(",FRAME-RATE=" + formatFloat(f.FPS))
	}
	if f.DynamicRange != "" {
		b.WriteString(",VIDEO-RANGE=" + f.DynamicRange)
	}
	if !f.VCodec.Absent() && audio != nil {
		b.WriteString(",AUDIO=\"" + hlsGroupID(audio.FormatID) + "\"")
	}
	if !f.VCodec.Absent() && captions != nil {
		b.WriteString(",CLOSED-CAPTIONS=\"" + hlsGroupID(captions.FormatID) + "\"")
	}
	b.WriteString("\n" + f.URL + "\n")
}
