package types

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Codec identifies one encoded track codec string (e.g. "avc1.64002a").
// The zero value means the format has no such track. The upstream sentinel
// "none" decodes to the zero value so it can never prefix-match a real tag.
type Codec string

// Absent reports whether the track is missing entirely.
func (c Codec) Absent() bool { return c == "" }

func (c Codec) String() string { return string(c) }

func (c *Codec) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "none" {
		s = ""
	}
	*c = Codec(s)
	return nil
}

// CodecSelector matches formats by a short codec tag prefix, or requires
// the track to be absent.
type CodecSelector struct {
	Tag    string
	Absent bool
}

// SelectCodec derives a selector from a codec value, truncated to the
// 4-character tag used throughout manifest grouping. An absent codec
// yields a selector that requires absence.
func SelectCodec(c Codec) CodecSelector {
	if c.Absent() {
		return CodecSelector{Absent: true}
	}
	tag := string(c)
	if len(tag) > 4 {
		tag = tag[:4]
	}
	return CodecSelector{Tag: tag}
}

// SelectTag builds a selector from a literal tag such as "avc1".
// The empty tag requires absence.
func SelectTag(tag string) CodecSelector {
	if tag == "" || tag == "none" {
		return CodecSelector{Absent: true}
	}
	return CodecSelector{Tag: tag}
}

// Matches reports whether the codec satisfies the selector.
func (s CodecSelector) Matches(c Codec) bool {
	if s.Absent {
		return c.Absent()
	}
	return !c.Absent() && strings.HasPrefix(string(c), s.Tag)
}

// Equal reports whether two selectors resolve to the same target.
func (s CodecSelector) Equal(o CodecSelector) bool {
	return s.Absent == o.Absent && s.Tag == o.Tag
}

// ByteRange addresses a span of bytes within one file. Serialized form is
// "start-end", both ends inclusive per the DASH byte range convention.
type ByteRange struct {
	Start int64
	End   int64
}

// Valid requires End > Start.
func (r ByteRange) Valid() bool { return r.End > r.Start }

func (r ByteRange) String() string {
	return strconv.FormatInt(r.Start, 10) + "-" + strconv.FormatInt(r.End, 10)
}

// ParseByteRange parses the "start-end" form.
func ParseByteRange(s string) (ByteRange, error) {
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return ByteRange{}, fmt.Errorf("byte range %q: missing separator", s)
	}
	a, err := strconv.ParseInt(start, 10, 64)
	if err != nil {
		return ByteRange{}, fmt.Errorf("byte range %q: %w", s, err)
	}
	b, err := strconv.ParseInt(end, 10, 64)
	if err != nil {
		return ByteRange{}, fmt.Errorf("byte range %q: %w", s, err)
	}
	r := ByteRange{Start: a, End: b}
	if !r.Valid() {
		return ByteRange{}, fmt.Errorf("byte range %q: end not after start", s)
	}
	return r, nil
}

func (r ByteRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *ByteRange) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseByteRange(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// StreamingOptions carries the byte-range index data required for
// segment-base DASH representations.
type StreamingOptions struct {
	InitRange  *ByteRange `json:"init_range,omitempty"`
	IndexRange *ByteRange `json:"index_range,omitempty"`
}

// Indexed reports whether both ranges are present and valid.
func (o *StreamingOptions) Indexed() bool {
	return o != nil &&
		o.InitRange != nil && o.InitRange.Valid() &&
		o.IndexRange != nil && o.IndexRange.Valid()
}

// MediaFormat is one encoded variant of a media resource.
type MediaFormat struct {
	FormatID           string            `json:"format_id"`
	Container          string            `json:"container,omitempty"`
	Protocol           string            `json:"protocol,omitempty"`
	Ext                string            `json:"ext,omitempty"`
	VCodec             Codec             `json:"vcodec,omitempty"`
	ACodec             Codec             `json:"acodec,omitempty"`
	Width              int               `json:"width,omitempty"`
	Height             int               `json:"height,omitempty"`
	FPS                float64           `json:"fps,omitempty"`
	TBR                *float64          `json:"tbr,omitempty"` // kbps; absence marks an auxiliary track
	AudioChannels      int               `json:"audio_channels,omitempty"`
	Language           string            `json:"language,omitempty"`
	LanguagePreference int               `json:"language_preference,omitempty"`
	FormatNote         string            `json:"format_note,omitempty"`
	DynamicRange       string            `json:"dynamic_range,omitempty"`
	URL                string            `json:"url,omitempty"`
	StreamingOptions   *StreamingOptions `json:"streaming_options,omitempty"`
	AudioID            string            `json:"audio_id,omitempty"`
	CaptionsID         string            `json:"captions_id,omitempty"`
	HTTPHeaders        map[string]string `json:"http_headers,omitempty"`
}

// HasBandwidth reports whether the format is a playable variant with a
// usable bitrate.
func (f *MediaFormat) HasBandwidth() bool {
	return f.TBR != nil && *f.TBR > 0
}

// Bandwidth returns the bitrate in bits per second, or 0 when absent.
func (f *MediaFormat) Bandwidth() int64 {
	if f.TBR == nil {
		return 0
	}
	return int64(math.Round(*f.TBR * 1000))
}

// VideoExt returns the container extension of the video track, or "none"
// for audio-only formats.
func (f *MediaFormat) VideoExt() string {
	if f.VCodec.Absent() {
		return "none"
	}
	return f.Ext
}

// Entry is one item of a playlist-shaped info record.
type Entry struct {
	Type     string  `json:"_type,omitempty"`
	URL      string  `json:"url,omitempty"`
	Title    string  `json:"title,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// IsURLReference reports whether the entry points at a playable URL.
func (e *Entry) IsURLReference() bool {
	return (e.Type == "url" || e.Type == "url_transparent") && e.URL != ""
}

// Chapter is one table-of-contents entry.
type Chapter struct {
	Title     string  `json:"title,omitempty"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// Thumbnail is one preview image candidate.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// MediaInfo is the normalized description of one media resource as
// produced by the external extraction collaborator. It is treated as an
// immutable snapshot for the duration of one manifest-generation call.
type MediaInfo struct {
	ID         string `json:"id,omitempty"`
	Type       string `json:"_type,omitempty"`
	Extractor  string `json:"extractor,omitempty"`
	Title      string `json:"title,omitempty"`
	WebpageURL string `json:"webpage_url,omitempty"`

	Duration  float64 `json:"duration,omitempty"`
	URL       string  `json:"url,omitempty"`
	Protocol  string  `json:"protocol,omitempty"`
	Container string  `json:"container,omitempty"`
	VCodec    Codec   `json:"vcodec,omitempty"`
	ACodec    Codec   `json:"acodec,omitempty"`

	Formats            []MediaFormat `json:"formats,omitempty"`
	RequestedFormats   []MediaFormat `json:"requested_formats,omitempty"`
	RequestedDownloads []MediaFormat `json:"requested_downloads,omitempty"`

	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
	Chapters   []Chapter   `json:"chapters,omitempty"`
	Entries    []Entry     `json:"entries,omitempty"`
}

// Decode reads one JSON-shaped info record.
func Decode(r io.Reader) (*MediaInfo, error) {
	var info MediaInfo
	if err := json.NewDecoder(r).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode media info: %w", err)
	}
	return &info, nil
}

// SelectedFormats returns the pre-selected subset when the extractor
// already chose which formats to fetch together.
func (i *MediaInfo) SelectedFormats() []MediaFormat {
	if len(i.RequestedFormats) > 0 {
		return i.RequestedFormats
	}
	return i.RequestedDownloads
}

// Validate rejects records no strategy could possibly serve.
func (i *MediaInfo) Validate() error {
	if i == nil {
		return fmt.Errorf("%w: nil info", ErrUnusableInfo)
	}
	if len(i.Formats) == 0 && len(i.Entries) == 0 && i.URL == "" {
		return fmt.Errorf("%w: no formats, entries or url", ErrUnusableInfo)
	}
	return nil
}

// PrimarySubtag reduces a language tag to its 2..3 letter primary subtag
// ("en-US" -> "en").
func PrimarySubtag(lang string) string {
	if lang == "" {
		return ""
	}
	if idx := strings.IndexAny(lang, "-_"); idx > 0 {
		return lang[:idx]
	}
	return lang
}
