package tagtpl

import (
	"html"
	"net/url"
)

// Safety is the escaping contract carried by a SafeString.
type Safety int

const (
	// SafetyRaw marks untrusted content; it is HTML-escaped by default on render.
	SafetyRaw Safety = iota
	// SafetyHTML marks content already safe to embed in HTML text/attribute context.
	SafetyHTML
	// SafetyURL marks content already safe to embed in a URL query component.
	SafetyURL
)

// SafeString is a string tagged with a safety class, not a subtype of
// string. It is the unit of value the renderer (C8) ultimately produces.
type SafeString struct {
	Text   string
	Safety Safety
}

// RawString wraps an untrusted value with no safety guarantee.
func RawString(s string) SafeString { return SafeString{Text: s, Safety: SafetyRaw} }

// HTMLString wraps a value already known to be HTML-safe.
func HTMLString(s string) SafeString { return SafeString{Text: s, Safety: SafetyHTML} }

// URLString wraps a value already known to be URL-query-safe.
func URLString(s string) SafeString { return SafeString{Text: s, Safety: SafetyURL} }

// IsSafe reports whether the value carries any escaping guarantee at all.
func (s SafeString) IsSafe() bool { return s.Safety != SafetyRaw }

func (s SafeString) String() string { return s.Text }

// Concat joins two SafeStrings, preserving safety when both sides agree and
// degrading to SafetyRaw otherwise — concatenation must never silently
// promote a string to a safety class neither side actually earned.
func (s SafeString) Concat(other SafeString) SafeString {
	if s.Safety == other.Safety {
		return SafeString{Text: s.Text + other.Text, Safety: s.Safety}
	}
	return SafeString{Text: s.Text + other.Text, Safety: SafetyRaw}
}

// EscapeHTML escapes v into an HTML-safe SafeString. Already-HTML-safe
// values pass through unchanged (idempotent, §8); other safety classes are
// still escaped, since being URL-safe says nothing about HTML context.
func EscapeHTML(v SafeString) SafeString {
	if v.Safety == SafetyHTML {
		return v
	}
	return HTMLString(html.EscapeString(v.Text))
}

// EscapeURL escapes v for use inside a URL query component.
func EscapeURL(v SafeString) SafeString {
	if v.Safety == SafetyURL {
		return v
	}
	return URLString(url.QueryEscape(v.Text))
}

// asSafeString coerces an arbitrary resolved value into a SafeString,
// treating values that are not already SafeString as raw/untrusted text.
func asSafeString(v any) SafeString {
	switch x := v.(type) {
	case SafeString:
		return x
	case string:
		return RawString(x)
	default:
		return RawString(stringify(v))
	}
}
