package manifest

import "github.com/Rafostar/clapper-enhancers/internal/types"

func kbps(v float64) *float64 { return &v }

func indexed(initStart, initEnd, indexStart, indexEnd int64) *types.StreamingOptions {
	init := types.ByteRange{Start: initStart, End: initEnd}
	index := types.ByteRange{Start: indexStart, End: indexEnd}
	return &types.StreamingOptions{InitRange: &init, IndexRange: &index}
}

func dashVideoFormat(id string, height int, tbr float64) types.MediaFormat {
	return types.MediaFormat{
		FormatID:         id,
		Container:        "mp4_dash",
		Protocol:         "https",
		Ext:              "mp4",
		VCodec:           "avc1.64002a",
		Width:            height * 16 / 9,
		Height:           height,
		FPS:              30,
		TBR:              kbps(tbr),
		URL:              "https://example.com/video/" + id,
		StreamingOptions: indexed(0, 741, 742, 1065),
	}
}

func dashAudioFormat(id, lang string, pref int) types.MediaFormat {
	return types.MediaFormat{
		FormatID:           id,
		Container:          "m4a_dash",
		Protocol:           "https",
		Ext:                "m4a",
		ACodec:             "mp4a.40.2",
		TBR:                kbps(129.473),
		AudioChannels:      2,
		Language:           lang,
		LanguagePreference: pref,
		URL:                "https://example.com/audio/" + id,
		StreamingOptions:   indexed(0, 591, 592, 900),
	}
}

func hlsVideoFormat(id string, height int, tbr float64, audioID string) types.MediaFormat {
	return types.MediaFormat{
		FormatID: id,
		Protocol: "m3u8_native",
		Ext:      "mp4",
		VCodec:   "avc1.64002a",
		Width:    height * 16 / 9,
		Height:   height,
		FPS:      30,
		TBR:      kbps(tbr),
		URL:      "https://example.com/hls/" + id + ".m3u8",
		AudioID:  audioID,
	}
}

func hlsAudioRendition(id, lang string, pref int) types.MediaFormat {
	return types.MediaFormat{
		FormatID:           id,
		Protocol:           "m3u8_native",
		Ext:                "m4a",
		ACodec:             "mp4a.40.2",
		Language:           lang,
		LanguagePreference: pref,
		URL:                "https://example.com/hls/" + id + ".m3u8",
	}
}
