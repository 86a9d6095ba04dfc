package domain

// CacheDecision is the outcome of reconciling the dependency cache layer
// against the project's current lockfile.
type CacheDecision string

const (
	// CacheReused means the layer's key matched the lockfile fingerprint
	// and its contents were kept.
	CacheReused CacheDecision = "reused"
	// CacheInvalidated means the key differed or was absent; the layer was
	// cleared and the new key persisted.
	CacheInvalidated CacheDecision = "invalidated"
	// CacheBypassed means the project vendors its own cache (zero-install)
	// and the layer was not touched.
	CacheBypassed CacheDecision = "bypassed"
)
