// Package dedupe tracks report tokens for at-most-once match application.
package dedupe

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets how many tokens to keep.
// If maxSize > 0: bounded, oldest tokens evicted first.
// If maxSize <= 0: unbounded, nothing is evicted.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
