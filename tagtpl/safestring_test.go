package tagtpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeString_IsSafe(t *testing.T) {
	assert.False(t, RawString("x").IsSafe())
	assert.True(t, HTMLString("x").IsSafe())
	assert.True(t, URLString("x").IsSafe())
}

func TestSafeString_ConcatSameSafetyPreserves(t *testing.T) {
	got := HTMLString("a").Concat(HTMLString("b"))
	assert.Equal(t, HTMLString("ab"), got)
}

func TestSafeString_ConcatMismatchedSafetyDegradesToRaw(t *testing.T) {
	got := HTMLString("a").Concat(URLString("b"))
	assert.Equal(t, SafeString{Text: "ab", Safety: SafetyRaw}, got)
}

func TestEscapeHTML_EscapesRawAndIsIdempotentOnHTML(t *testing.T) {
	got := EscapeHTML(RawString("<b>"))
	assert.Equal(t, HTMLString("&lt;b&gt;"), got)

	already := HTMLString("<b>unescaped-by-convention</b>")
	assert.Equal(t, already, EscapeHTML(already))
}

func TestEscapeURL_EscapesAndIsIdempotentOnURL(t *testing.T) {
	got := EscapeURL(RawString("a b"))
	assert.Equal(t, URLString("a+b"), got)

	already := URLString("a%2Bb")
	assert.Equal(t, already, EscapeURL(already))
}

func TestAsSafeString_CoercesPlainValues(t *testing.T) {
	assert.Equal(t, RawString("x"), asSafeString("x"))
	assert.Equal(t, RawString("5"), asSafeString(int64(5)))
	assert.Equal(t, HTMLString("x"), asSafeString(HTMLString("x")))
}
