package manifest

import (
	"encoding/xml"
	"slices"
	"strconv"

	"github.com/Rafostar/clapper-enhancers/internal/policy"
	"github.com/Rafostar/clapper-enhancers/internal/types"
)

// Ordered codec tag preferences tried when the extractor did not
// pre-select formats.
var (
	dashVideoTags = []string{"avc1", "av01", "hev1", "vp09"}
	dashAudioTags = []string{"mp4a", "opus"}
)

type mpdDocument struct {
	XMLName                   xml.Name  `xml:"MPD"`
	XMLNS                     string    `xml:"xmlns,attr"`
	XMLNSXSI                  string    `xml:"xmlns:xsi,attr"`
	SchemaLocation            string    `xml:"xsi:schemaLocation,attr"`
	Type                      string    `xml:"type,attr"`
	MediaPresentationDuration string    `xml:"mediaPresentationDuration,attr"`
	MinBufferTime             string    `xml:"minBufferTime,attr"`
	Profiles                  string    `xml:"profiles,attr"`
	Period                    mpdPeriod `xml:"Period"`
}

type mpdPeriod struct {
	AdaptationSets []mpdAdaptationSet `xml:"AdaptationSet"`
}

type mpdAdaptationSet struct {
	ContentType             string              `xml:"contentType,attr"`
	MimeType                string              `xml:"mimeType,attr"`
	SubsegmentAlignment     string              `xml:"subsegmentAlignment,attr"`
	SubsegmentStartsWithSAP string              `xml:"subsegmentStartsWithSAP,attr"`
	MaxWidth                int                 `xml:"maxWidth,attr,omitempty"`
	MaxHeight               int                 `xml:"maxHeight,attr,omitempty"`
	PAR                     string              `xml:"par,attr,omitempty"`
	MaxFrameRate            string              `xml:"maxFrameRate,attr,omitempty"`
	Lang                    string              `xml:"lang,attr,omitempty"`
	Representations         []mpdRepresentation `xml:"Representation"`
}

type mpdRepresentation struct {
	ID            string            `xml:"id,attr"`
	Bandwidth     int64             `xml:"bandwidth,attr"`
	Codecs        string            `xml:"codecs,attr,omitempty"`
	Width         int               `xml:"width,attr,omitempty"`
	Height        int               `xml:"height,attr,omitempty"`
	SAR           string            `xml:"sar,attr,omitempty"`
	FrameRate     string            `xml:"frameRate,attr,omitempty"`
	AudioChannels *mpdAudioChannels `xml:"AudioChannelConfiguration,omitempty"`
	BaseURL       string            `xml:"BaseURL"`
	Init          mpdInitialization `xml:"Initialization"`
	SegmentBase   mpdSegmentBase    `xml:"SegmentBase"`
}

type mpdAudioChannels struct {
	SchemeIDURI string `xml:"schemeIdUri,attr"`
	Value       int    `xml:"value,attr"`
}

type mpdInitialization struct {
	Range string `xml:"range,attr"`
}

type mpdSegmentBase struct {
	IndexRange      string `xml:"indexRange,attr"`
	IndexRangeExact string `xml:"indexRangeExact,attr"`
}

// dashCodecPair is one (video, audio) grouping attempt. Separate pairs
// build one adaptation set per content type; combined pairs build a
// single set of muxed formats.
type dashCodecPair struct {
	video    types.CodecSelector
	audio    types.CodecSelector
	separate bool
}

// BuildDASH emits a static, on-demand MPD for byte-range-indexed
// formats. An empty result means the strategy does not apply; the caller
// moves on to the next one.
func BuildDASH(info *types.MediaInfo) (string, bool) {
	// Only on-demand manifests are supported; live sources carry no
	// usable duration.
	duration := int64(info.Duration)
	if duration <= 0 {
		return "", false
	}

	for _, pair := range dashCodecPairs(info) {
		sets := dashAdaptationSets(info, pair)
		if len(sets) == 0 {
			continue
		}
		return renderMPD(duration, sets), true
	}
	return "", false
}

func dashCodecPairs(info *types.MediaInfo) []dashCodecPair {
	if selected := info.SelectedFormats(); len(selected) > 0 {
		v := types.SelectCodec(info.VCodec)
		a := types.SelectCodec(info.ACodec)
		separate := len(selected) > 1
		if v.Equal(a) {
			return nil
		}
		if separate && (v.Absent || a.Absent) {
			return nil
		}
		return []dashCodecPair{{video: v, audio: a, separate: separate}}
	}

	var pairs []dashCodecPair
	for _, separate := range []bool{true, false} {
		for _, vt := range dashVideoTags {
			for _, at := range dashAudioTags {
				pairs = append(pairs, dashCodecPair{
					video:    types.SelectTag(vt),
					audio:    types.SelectTag(at),
					separate: separate,
				})
			}
		}
	}
	return pairs
}

func dashAdaptationSets(info *types.MediaInfo, pair dashCodecPair) []mpdAdaptationSet {
	var sets []mpdAdaptationSet
	if !pair.separate {
		if set, ok := dashAdaptationSet(info, pair.video, pair.audio, ""); ok {
			sets = append(sets, set)
		}
		return sets
	}

	if set, ok := dashAdaptationSet(info, pair.video, types.CodecSelector{Absent: true}, ""); ok {
		sets = append(sets, set)
	}
	sets = append(sets, dashAudioAdaptationSets(info, pair.audio)...)
	return sets
}

// dashAudioAdaptationSets builds one audio set per language, default
// language first. The default is the highest language_preference seen,
// ties broken by encounter order.
func dashAudioAdaptationSets(info *types.MediaInfo, audio types.CodecSelector) []mpdAdaptationSet {
	var languages []string
	preference := 0
	defaultLang := ""
	for i := range info.Formats {
		lang := info.Formats[i].Language
		if lang == "" {
			continue
		}
		if pref := info.Formats[i].LanguagePreference; pref > preference {
			if defaultLang != "" && !slices.Contains(languages, defaultLang) {
				languages = append(languages, defaultLang)
			}
			defaultLang = lang
			preference = pref
		} else if lang != defaultLang && !slices.Contains(languages, lang) {
			languages = append(languages, lang)
		}
	}
	if defaultLang != "" {
		languages = append([]string{defaultLang}, languages...)
	}

	var sets []mpdAdaptationSet
	for _, lang := range languages {
		if set, ok := dashAdaptationSet(info, types.CodecSelector{Absent: true}, audio, lang); ok {
			sets = append(sets, set)
		}
	}
	if len(sets) == 0 {
		// No format carries a language; build one language-less set.
		if set, ok := dashAdaptationSet(info, types.CodecSelector{Absent: true}, audio, ""); ok {
			sets = append(sets, set)
		}
	}
	return sets
}

func dashAdaptationSet(info *types.MediaInfo, video, audio types.CodecSelector, lang string) (mpdAdaptationSet, bool) {
	preds := []policy.Predicate{
		policy.ContainerDASH,
		policy.VCodec(video),
		policy.ACodec(audio),
		policy.HasExt,
		policy.NoDRC,
		policy.HasBandwidth,
		policy.HasURL,
		policy.HasSegmentIndex,
	}
	if lang != "" {
		preds = append(preds, policy.LanguageIs(lang))
	}
	if !video.Absent {
		preds = append(preds, policy.NotUltralowVideo)
	}
	if !audio.Absent {
		preds = append(preds, policy.NotUltralowAudio)
	}

	formats := policy.Filter(info.Formats, policy.All(preds...))
	if len(formats) == 0 {
		return mpdAdaptationSet{}, false
	}

	maxW, maxH := 0, 0
	maxFPS := 0.0
	if !video.Absent {
		for i := range formats {
			maxW = max(maxW, formats[i].Width)
			maxH = max(maxH, formats[i].Height)
			maxFPS = max(maxFPS, formats[i].FPS)
		}
	}

	contentType := "video"
	if video.Absent {
		contentType = "audio"
	}

	// yt-dlp reports "m4a" where DASH expects "mp4".
	ext := formats[0].Ext
	if ext == "m4a" {
		ext = "mp4"
	}

	set := mpdAdaptationSet{
		ContentType:             contentType,
		MimeType:                contentType + "/" + ext,
		SubsegmentAlignment:     "true",
		SubsegmentStartsWithSAP: "1",
		MaxWidth:                maxW,
		MaxHeight:               maxH,
		PAR:                     aspectRatio(maxW, maxH),
		Lang:                    types.PrimarySubtag(lang),
	}
	if maxFPS > 0 {
		set.MaxFrameRate = formatFloat(maxFPS)
	}
	for i := range formats {
		set.Representations = append(set.Representations, dashRepresentation(&formats[i]))
	}
	return set, true
}

func dashRepresentation(f *types.MediaFormat) mpdRepresentation {
	rep := mpdRepresentation{
		ID:        f.FormatID,
		Bandwidth: f.Bandwidth(),
		Codecs:    joinCodecs(f.VCodec, f.ACodec),
		BaseURL:   f.URL,
		// Existence ensured by the segment index predicate.
		Init: mpdInitialization{Range: f.StreamingOptions.InitRange.String()},
		SegmentBase: mpdSegmentBase{
			IndexRange:      f.StreamingOptions.IndexRange.String(),
			IndexRangeExact: "true",
		},
	}

	if !f.VCodec.Absent() {
		if f.Width > 0 {
			rep.Width = f.Width
		}
		if f.Height > 0 {
			rep.Height = f.Height
			if f.Width > 0 {
				rep.SAR = aspectRatio(f.Width, f.Height)
			}
		}
		if f.FPS > 0 {
			rep.FrameRate = formatFloat(f.FPS)
		}
	}
	if !f.ACodec.Absent() && f.AudioChannels > 0 {
		rep.AudioChannels = &mpdAudioChannels{
			SchemeIDURI: "urn:mpeg:dash:23003:3:audio_channel_configuration:2011",
			Value:       f.AudioChannels,
		}
	}
	return rep
}

func renderMPD(duration int64, sets []mpdAdaptationSet) string {
	doc := mpdDocument{
		XMLNS:                     "urn:mpeg:dash:schema:mpd:2011",
		XMLNSXSI:                  "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation:            "urn:mpeg:dash:schema:mpd:2011 DASH-MPD.xsd",
		Type:                      "static",
		MediaPresentationDuration: "PT" + strconv.FormatInt(duration, 10) + "S",
		MinBufferTime:             "PT" + strconv.FormatInt(min(2, duration), 10) + "S",
		Profiles:                  "urn:mpeg:dash:profile:isoff-on-demand:2011",
		Period:                    mpdPeriod{AdaptationSets: sets},
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		// Marshaling a fully in-memory value cannot fail at runtime.
		return ""
	}
	return xml.Header + string(out)
}

// aspectRatio reduces a width/height pair to its "W:H" form. A zero side
// is never divided.
func aspectRatio(w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	div := gcd(w, h)
	return strconv.Itoa(w/div) + ":" + strconv.Itoa(h/div)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func joinCodecs(v, a types.Codec) string {
	switch {
	case !v.Absent() && !a.Absent():
		return v.String() + "," + a.String()
	case !v.Absent():
		return v.String()
	case !a.Absent():
		return a.String()
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
