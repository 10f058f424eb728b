package enhancer

import (
	"github.com/Rafostar/clapper-enhancers/internal/manifest"
	"github.com/Rafostar/clapper-enhancers/internal/types"
)

var (
	// ErrNoManifest indicates that no strategy produced a playable
	// manifest.
	ErrNoManifest = manifest.ErrNoManifest
	// ErrBadInfo indicates a structurally unusable info record.
	ErrBadInfo = types.ErrUnusableInfo
)
