package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rafostar/clapper-enhancers/internal/types"
)

func hlsInfo(formats ...types.MediaFormat) *types.MediaInfo {
	return &types.MediaInfo{
		Protocol: "m3u8_native+m3u8_native",
		VCodec:   "avc1.64002a",
		ACodec:   "mp4a.40.2",
		Formats:  formats,
	}
}

func TestHLSRequiresNativeProtocol(t *testing.T) {
	info := hlsInfo(hlsVideoFormat("270", 1080, 4400, ""))
	info.Protocol = "https"
	_, ok := BuildHLS(info)
	require.False(t, ok)
}

func TestHLSSeparateStreams(t *testing.T) {
	info := hlsInfo(
		hlsVideoFormat("270", 1080, 4400, "234"),
		hlsVideoFormat("232", 720, 2200, "234"),
		hlsAudioRendition("234", "en-US", 5),
	)
	body, ok := BuildHLS(info)
	require.True(t, ok)

	require.True(t, strings.HasPrefix(body, "#EXTM3U\n#EXT-X-INDEPENDENT-SEGMENTS\n"))
	require.Contains(t, body, `#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="234",LANGUAGE="en",NAME="en",DEFAULT=YES,AUTOSELECT=YES,URI="https://example.com/hls/234.m3u8"`)
	require.Contains(t, body, `#EXT-X-STREAM-INF:BANDWIDTH=4400000,CODECS="avc1.64002a,mp4a.40.2",RESOLUTION=1920x1080,FRAME-RATE=30,AUDIO="234"`)
	require.Contains(t, body, "\nhttps://example.com/hls/270.m3u8\n")

	// Media groups are declared before the variant streams that
	// reference them.
	require.Less(t, strings.Index(body, "#EXT-X-MEDIA"), strings.Index(body, "#EXT-X-STREAM-INF"))
}

func TestHLSDefaultFlagFollowsLanguagePreference(t *testing.T) {
	info := hlsInfo(
		hlsVideoFormat("270", 1080, 4400, "234-1"),
		hlsAudioRendition("234-0", "de-DE", 0),
		hlsAudioRendition("234-1", "en-US", 5),
	)
	body, ok := BuildHLS(info)
	require.True(t, ok)

	require.Contains(t, body, `GROUP-ID="234",LANGUAGE="en",NAME="en",DEFAULT=YES`)
	require.Contains(t, body, `GROUP-ID="234",LANGUAGE="de",NAME="de",DEFAULT=NO`)
	// Both language variants collapse into one rendition group.
	require.Contains(t, body, `AUDIO="234"`)
}

func TestHLSStreamCodecsFromCompanionAudio(t *testing.T) {
	video := hlsVideoFormat("270", 1080, 4400, "234")
	require.True(t, video.ACodec.Absent())
	info := hlsInfo(video, hlsAudioRendition("234", "", 0))

	body, ok := BuildHLS(info)
	require.True(t, ok)
	require.Contains(t, body, `CODECS="avc1.64002a,mp4a.40.2"`)
	require.Contains(t, body, `NAME="Default"`)
}

func TestHLSVideoRangeAndCaptions(t *testing.T) {
	video := hlsVideoFormat("270", 1080, 4400, "234")
	video.DynamicRange = "PQ"
	video.CaptionsID = "cc1"
	captions := types.MediaFormat{
		FormatID: "cc1",
		Protocol: "m3u8_native",
		URL:      "https://example.com/hls/cc1.m3u8",
	}
	info := hlsInfo(video, hlsAudioRendition("234", "", 0), captions)

	body, ok := BuildHLS(info)
	require.True(t, ok)
	require.Contains(t, body, ",VIDEO-RANGE=PQ")
	require.Contains(t, body, `,CLOSED-CAPTIONS="cc1"`)
	require.Contains(t, body, `#EXT-X-MEDIA:TYPE=CLOSED-CAPTIONS,GROUP-ID="cc1"`)
}

func TestHLSAudioOnlyFallback(t *testing.T) {
	audio := hlsAudioRendition("234", "en", 0)
	audio.TBR = kbps(129.473)
	info := hlsInfo(audio)
	info.Protocol = "m3u8_native"
	info.VCodec = ""

	body, ok := BuildHLS(info)
	require.True(t, ok)
	require.Contains(t, body, "#EXT-X-STREAM-INF:BANDWIDTH=129473")
	require.NotContains(t, body, "RESOLUTION=")
}

func TestHLSExcludesDRCVariants(t *testing.T) {
	drc := hlsAudioRendition("234-drc", "en", 0)
	info := hlsInfo(
		hlsVideoFormat("270", 1080, 4400, "234"),
		hlsAudioRendition("234", "en", 0),
		drc,
	)
	body, ok := BuildHLS(info)
	require.True(t, ok)
	require.NotContains(t, body, "234-drc")
}

func TestHLSRejectsIdenticalCodecPrefixes(t *testing.T) {
	info := hlsInfo(hlsVideoFormat("270", 1080, 4400, ""))
	info.VCodec = "avc1.64002a"
	info.ACodec = "avc1.64002a"
	_, ok := BuildHLS(info)
	require.False(t, ok)
}
