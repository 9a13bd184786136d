package skyview

// Kind classifies what a resolved request path should produce.
type Kind int

const (
	// KindNotFound means nothing under the mount matches the path.
	KindNotFound Kind = iota

	// KindAsset is a file from the embedded UI bundle.
	KindAsset

	// KindSpec is a registered OpenAPI document served from bytes.
	KindSpec

	// KindConfig is the rendered UI bootstrap configuration.
	KindConfig

	// KindIndex is the index document served inline for an extensionless
	// miss (deep-link fallback).
	KindIndex

	// KindRedirect is a redirect to the mount's index path, produced
	// instead of KindIndex when the mount was built WithRedirectFallback.
	KindRedirect
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindAsset:
		return "asset"
	case KindSpec:
		return "spec"
	case KindConfig:
		return "config"
	case KindIndex:
		return "index"
	case KindRedirect:
		return "redirect"
	default:
		return "not_found"
	}
}

// Target is the classified outcome of resolving one request path. Adapters
// translate it to a framework response and discard it; the byte slices are
// shared with the mount and must be treated as read-only.
type Target struct {
	Kind        Kind
	Body        []byte
	ContentType string

	// ETag is set for assets only. Identical bytes carry identical tags
	// across requests and restarts, so conditional GET works.
	ETag string

	// Location is set for KindRedirect.
	Location string
}

var notFound = Target{Kind: KindNotFound}
