package cache

// ScopedKeyer prefixes every key of an inner Keyer. The HTTP server uses it
// to keep its entries apart from the CLI's when both share a backend.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// FieldKey returns the prefixed field key.
func (k *ScopedKeyer) FieldKey(opts FieldKeyOpts) string {
	return k.prefix + k.inner.FieldKey(opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(fieldHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(fieldHash, opts)
}
