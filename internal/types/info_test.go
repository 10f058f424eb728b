package types

import (
	"errors"
	"strings"
	"testing"
)

func TestCodecSentinelDecodesToAbsent(t *testing.T) {
	var f MediaFormat
	data := `{"format_id":"140","vcodec":"none","acodec":"mp4a.40.2"}`
	if err := decodeInto(data, &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !f.VCodec.Absent() {
		t.Fatalf("vcodec %q should be absent", f.VCodec)
	}
	if f.ACodec.Absent() {
		t.Fatal("acodec should be present")
	}
}

func decodeInto(data string, f *MediaFormat) error {
	info, err := Decode(strings.NewReader(`{"formats":[` + data + `]}`))
	if err != nil {
		return err
	}
	*f = info.Formats[0]
	return nil
}

func TestAbsentCodecNeverPrefixMatches(t *testing.T) {
	sel := SelectTag("none")
	if !sel.Absent {
		t.Fatal("selector for none should require absence")
	}
	if sel.Matches(Codec("avc1.64002a")) {
		t.Fatal("absence selector matched a real codec")
	}
	if !sel.Matches(Codec("")) {
		t.Fatal("absence selector should match an absent codec")
	}
	// A literal "none" string must not behave like a codec tag either.
	if SelectTag("avc1").Matches(Codec("")) {
		t.Fatal("tag selector matched an absent codec")
	}
}

func TestSelectCodecTruncatesToTag(t *testing.T) {
	sel := SelectCodec(Codec("avc1.64002a"))
	if sel.Tag != "avc1" || sel.Absent {
		t.Fatalf("unexpected selector %+v", sel)
	}
	if !sel.Matches(Codec("avc1.4d401f")) {
		t.Fatal("tag should match other avc1 profiles")
	}
}

func TestParseByteRange(t *testing.T) {
	r, err := ParseByteRange("0-741")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.Start != 0 || r.End != 741 {
		t.Fatalf("unexpected range %+v", r)
	}
	if r.String() != "0-741" {
		t.Fatalf("round trip = %q", r.String())
	}

	for _, bad := range []string{"", "741", "10-10", "10-5", "a-b"} {
		if _, err := ParseByteRange(bad); err == nil {
			t.Fatalf("ParseByteRange(%q) should fail", bad)
		}
	}
}

func TestDecodeInfoRecord(t *testing.T) {
	doc := `{
		"id": "jNQXAC9IVRw",
		"extractor": "Youtube",
		"title": "Me at the zoo",
		"duration": 19,
		"vcodec": "avc1.64002a",
		"acodec": "mp4a.40.2",
		"formats": [
			{
				"format_id": "140",
				"ext": "m4a",
				"container": "m4a_dash",
				"protocol": "https",
				"vcodec": "none",
				"acodec": "mp4a.40.2",
				"tbr": 129.473,
				"audio_channels": 2,
				"url": "https://example.com/a",
				"streaming_options": {"init_range": "0-741", "index_range": "742-1065"}
			}
		],
		"requested_formats": [{"format_id": "137"}, {"format_id": "140"}]
	}`
	info, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(info.Formats) != 1 {
		t.Fatalf("formats = %d", len(info.Formats))
	}
	f := info.Formats[0]
	if !f.HasBandwidth() {
		t.Fatal("tbr should be present")
	}
	if got := f.Bandwidth(); got != 129473 {
		t.Fatalf("bandwidth = %d, want 129473", got)
	}
	if !f.StreamingOptions.Indexed() {
		t.Fatal("streaming options should be indexed")
	}
	if f.VideoExt() != "none" {
		t.Fatalf("video ext = %q", f.VideoExt())
	}
	if sel := info.SelectedFormats(); len(sel) != 2 {
		t.Fatalf("selected formats = %d", len(sel))
	}
}

func TestValidateRejectsEmptyInfo(t *testing.T) {
	err := (&MediaInfo{}).Validate()
	if !errors.Is(err, ErrUnusableInfo) {
		t.Fatalf("err = %v, want ErrUnusableInfo", err)
	}
	ok := &MediaInfo{Entries: []Entry{{Type: "url", URL: "u"}}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("playlist-shaped info should validate: %v", err)
	}
}

func TestPrimarySubtag(t *testing.T) {
	cases := map[string]string{
		"en-US": "en",
		"pt_BR": "pt",
		"de":    "de",
		"":      "",
	}
	for in, want := range cases {
		if got := PrimarySubtag(in); got != want {
			t.Fatalf("PrimarySubtag(%q) = %q, want %q", in, got, want)
		}
	}
}
