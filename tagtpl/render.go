package tagtpl

import (
	"crypto/md5"
	"encoding/hex"
)

// Render walks the compiled node tree against replacements, producing a
// single concatenated SafeString (C8, §4.6). A nil registry falls back to
// the built-in function set from NewFuncRegistry.
func (t *Template) Render(replacements map[string]any, registry *FuncRegistry) (SafeString, error) {
	if registry == nil {
		registry = NewFuncRegistry()
	}
	rs := &renderState{registry: registry}
	return renderBody(rs, replacements, t.Nodes)
}

// NoParseResult is the structured, unescaped rendering described in §4.6's
// no-parse mode: every Tag node's resolved (but un-rendered) text, keyed by
// its literal tag source, plus content/page hashes for cache invalidation.
// ContentHash is a digest of the fully rendered output (the same text Render
// would produce for these replacements); PageHash is a digest of the
// unrendered template source, so it stays stable across renders of the same
// template regardless of which replacement values are supplied.
type NoParseResult struct {
	TemplateName string
	Replacements map[string]string
	ContentHash  string
	PageHash     string
}

// RenderNoParse visits every Tag node in the tree — including those nested
// in conditional branches and loop bodies — and records its resolved text
// after the tag's explicit function pipeline, without the implicit default
// escaping, per §4.6. Tags that fail to resolve (NameError/KeyError) or whose
// pipeline returns an error are recorded as their own tag text (Tag.String).
// Only the built-in functions from NewFuncRegistry are available here.
func (t *Template) RenderNoParse(name string, replacements map[string]any) *NoParseResult {
	collector := &noParseCollector{tags: make(map[string]string)}
	registry := NewFuncRegistry()
	for _, n := range t.Nodes {
		n.walkTags(func(tag *Tag) {
			key := tag.String()
			if _, seen := collector.tags[key]; seen {
				return
			}
			value, err := Resolve(tag, replacements)
			if err != nil {
				collector.tags[key] = key
				return
			}
			for _, fn := range tag.Functions {
				value, err = registry.Apply(fn, value)
				if err != nil {
					collector.tags[key] = key
					return
				}
			}
			collector.tags[key] = stringify(value)
		})
	}

	// A render failure (an unrecoverable error Resolve/Apply would also have
	// hit above) leaves ContentHash over the empty string rather than
	// aborting RenderNoParse, which has no error return of its own.
	var rendered string
	if out, err := t.Render(replacements, registry); err == nil {
		rendered = out.Text
	}

	return &NoParseResult{
		TemplateName: name,
		Replacements: collector.tags,
		ContentHash:  md5Hex(rendered),
		PageHash:     md5Hex(t.Source),
	}
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
