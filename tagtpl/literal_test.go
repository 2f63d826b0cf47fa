package tagtpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgList_Empty(t *testing.T) {
	got, err := parseArgList("")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseArgList_Mixed(t *testing.T) {
	got, err := parseArgList(`1, 2.5, 'a b', "c", true, false, none`)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), 2.5, "a b", "c", true, false, nil}, got)
}

func TestParseArgList_Tuple(t *testing.T) {
	got, err := parseArgList("(1, 2), 'x'")
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{int64(1), int64(2)}, "x"}, got)
}

func TestParseArgList_CommaInsideQuotesIsNotASplit(t *testing.T) {
	got, err := parseArgList(`'a, b', 'c'`)
	require.NoError(t, err)
	assert.Equal(t, []any{"a, b", "c"}, got)
}

func TestParseArgList_EscapedQuoteAndNewline(t *testing.T) {
	got, err := parseArgList(`'a\'b\nc'`)
	require.NoError(t, err)
	assert.Equal(t, []any{"a'b\nc"}, got)
}

func TestParseArgList_UnbalancedParens(t *testing.T) {
	_, err := parseArgList("(1, 2")
	require.Error(t, err)
	assert.Equal(t, KindSyntaxError, Kind(err))
}

func TestParseArgList_UnterminatedString(t *testing.T) {
	_, err := parseArgList("'abc")
	require.Error(t, err)
	assert.Equal(t, KindSyntaxError, Kind(err))
}

func TestParseArgList_InvalidLiteral(t *testing.T) {
	_, err := parseArgList("not_a_literal")
	require.Error(t, err)
	assert.Equal(t, KindSyntaxError, Kind(err))
}
