package cache

import "log/slog"

// Option configures a Cache at construction time, mirroring the
// functional-options style used across the pack (e.g. the teacher's
// Handler struct fields, set here through options passed to New instead).
type Option func(*Cache)

// WithNoParse switches Parse to no-parse mode (§4.6): instead of the
// rendered document, Parse returns a NoParseResult holding every tag's
// resolved value (after its explicit functions, without the implicit
// default escaping) and a pair of content/page hashes.
func WithNoParse() Option {
	return func(c *Cache) { c.noParse = true }
}

// WithLogger installs a structured logger for cache-boundary events: template
// load, reload-on-mtime, and reload suppressed due to I/O error. The pure
// compiler/renderer in package tagtpl never logs (§4.9).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}
