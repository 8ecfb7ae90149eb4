package docview

type serializeConfig struct {
	sort       bool
	binaryRefs bool
}

// Option configures how typed values are turned into a Property.
type Option func(*serializeConfig)

// WithSort sorts the values of multi-value properties before serialization so
// the output does not depend on the source order.
func WithSort(v bool) Option {
	return func(c *serializeConfig) { c.sort = v }
}

// WithBinaryReferences serializes binaries as their reference token when
// one is available.
func WithBinaryReferences(v bool) Option {
	return func(c *serializeConfig) { c.binaryRefs = v }
}

func newSerializeConfig(opts []Option) serializeConfig {
	var cfg serializeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

type readConfig struct {
	limits Limits
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

type writeConfig struct {
	limits      Limits
	compression Compression
}

type WriteOption func(*writeConfig)

func WithWriteLimits(l Limits) WriteOption {
	return func(c *writeConfig) { c.limits = l }
}

// WithCompression selects the payload compression. The default is CompZSTD.
func WithCompression(comp Compression) WriteOption {
	return func(c *writeConfig) { c.compression = comp }
}
