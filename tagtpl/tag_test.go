package tagtpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    *Tag
		wantErr bool
	}{
		{"bare name", "foo", &Tag{Name: "foo"}, false},
		{"with index", "foo:0", &Tag{Name: "foo", Indices: []string{"0"}}, false},
		{"with two indices", "user:0:name", &Tag{Name: "user", Indices: []string{"0", "name"}}, false},
		{"with function", "foo|html", &Tag{Name: "foo", Functions: []FunctionCall{{Name: "html"}}}, false},
		{"with function args", "foo|default(1,2)", &Tag{Name: "foo", Functions: []FunctionCall{
			{Name: "default", Args: []any{int64(1), int64(2)}, hasArgs: true},
		}}, false},
		{"missing name", "", nil, true},
		{"empty index", "foo:", nil, true},
		{"unbalanced args", "foo|bar(1", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTag(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, KindSyntaxError, Kind(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagString(t *testing.T) {
	tag := &Tag{
		Name:      "user",
		Indices:   []string{"0", "name"},
		Functions: []FunctionCall{{Name: "html"}, {Name: "default", Args: []any{"x"}, hasArgs: true}},
	}
	assert.Equal(t, `[user:0:name|html|default("x")]`, tag.String())
}

func TestScanBracketedTag(t *testing.T) {
	src := "hello [name] and [age|default(0)] and [broken"
	tag, end, ok := scanBracketedTag(src, 6)
	require.True(t, ok)
	assert.Equal(t, "name", tag.Name)
	assert.Equal(t, " and [", src[end:end+6])

	_, _, ok = scanBracketedTag(src, len(src)-7)
	assert.False(t, ok, "an unterminated bracket must not match")
}

func TestScanBracketedTag_NotATag(t *testing.T) {
	// A '[' immediately followed by something that isn't a valid name start
	// (e.g. a digit or punctuation) is not a tag; the reference parser
	// leaves it as ordinary text rather than raising a SyntaxError.
	_, _, ok := scanBracketedTag("price is [42] dollars", 9)
	assert.False(t, ok)
}
