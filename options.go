package simdhash

// config collects the per-instance knobs every facade shares (spec §6).
// It's built from functional options (the teacher's own top-of-file
// design notes proposed exactly this: "probably use functional opts.
// Capacity is a hint.") rather than modeled after the C++ original's
// compile-time template parameters (spec §9, strategy (a)).
type config[K comparable] struct {
	mode         Mode
	bFix         bool
	maxLF        float64
	capacityHint uint32
	hash         HashFunc[K]
}

// Option configures a Map, Set or Index at construction time.
type Option[K comparable] func(*config[K])

// WithMode selects the capacity-sizing policy (spec §4.4). Default Fast.
func WithMode[K comparable](mode Mode) Option[K] {
	return func(c *config[K]) { c.mode = mode }
}

// WithBFix sets the bFix flag reported by BFix(), overriding the CPU
// auto-detection in autoBFix (spec §6's bFix option). The flag does not
// change which trailing-zero-count routine runs: the engine always uses
// trailingZeros (cpufix.go).
func WithBFix[K comparable](bFix bool) Option[K] {
	return func(c *config[K]) { c.bFix = bFix }
}

// WithMaxLoadFactor sets the growth threshold; setMaxLoadFactor accepts
// only values in [0.75, 0.99] and ignores others. Default 0.9766.
func WithMaxLoadFactor[K comparable](mlf float64) Option[K] {
	return func(c *config[K]) { c.maxLF = mlf }
}

// WithCapacityHint seeds the initial capacity for an expected element
// count (spec §3: "capacity is a hint, and at least"). Default MinSize.
func WithCapacityHint[K comparable](n int) Option[K] {
	return func(c *config[K]) {
		if n > 0 {
			c.capacityHint = uint32(n)
		}
	}
}

// WithHash overrides the hash function; without it, DefaultHash[K]() is
// used, which requires K to be a fixed-size, pointer-free type.
func WithHash[K comparable](hash HashFunc[K]) Option[K] {
	return func(c *config[K]) { c.hash = hash }
}

func buildConfig[K comparable](opts []Option[K]) config[K] {
	c := config[K]{
		mode:         Fast,
		bFix:         autoBFix(),
		maxLF:        defaultMaxLoadFactor,
		capacityHint: MinSize,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.hash == nil {
		c.hash = DefaultHash[K]()
	}
	return c
}
