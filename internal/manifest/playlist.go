package manifest

import (
	"encoding/json"

	"github.com/Rafostar/clapper-enhancers/internal/types"
)

// DefaultMaxPlaylistItems bounds playlist documents when no limit is
// configured.
const DefaultMaxPlaylistItems = 20

type playlistItem struct {
	URL      string  `json:"url"`
	Title    string  `json:"title,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

type playlistDocument struct {
	Entries []playlistItem `json:"entries"`
}

// BuildPlaylist materializes a multi-entry info record into an ordered
// playlist document. Entries that are not URL references are skipped;
// order and duplicates are preserved.
func BuildPlaylist(info *types.MediaInfo, maxItems int) (string, bool) {
	if maxItems <= 0 {
		maxItems = DefaultMaxPlaylistItems
	}

	var items []playlistItem
	for i := range info.Entries {
		e := &info.Entries[i]
		if !e.IsURLReference() {
			continue
		}
		items = append(items, playlistItem{
			URL:      e.URL,
			Title:    e.Title,
			Duration: e.Duration,
		})
		if len(items) == maxItems {
			break
		}
	}
	if len(items) == 0 {
		return "", false
	}

	out, err := json.Marshal(playlistDocument{Entries: items})
	if err != nil {
		return "", false
	}
	return string(out), true
}
