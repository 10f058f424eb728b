package enhancer

import "time"

// DefaultExpiration is the manifest freshness hint used when the
// extractor is not listed in the expiration table.
const DefaultExpiration = time.Hour

// defaultExpirations maps extractor names to how long their manifests
// stay fetchable. Stream URLs from these sites carry signed expiry
// parameters of roughly this magnitude.
var defaultExpirations = map[string]time.Duration{
	"Youtube":    6 * time.Hour,
	"YoutubeTab": 6 * time.Hour,
}

// expiration resolves the freshness hint for one extractor name,
// preferring configured overrides.
func (e *Enhancer) expiration(extractor string) time.Duration {
	if d, ok := e.cfg.Expirations[extractor]; ok {
		return d
	}
	if d, ok := defaultExpirations[extractor]; ok {
		return d
	}
	return DefaultExpiration
}
