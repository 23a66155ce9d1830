package action

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n[1,2]\n```", "[1,2]"},
		{"plain json unchanged", `[{"operation":"click","text":"Play"}]`, `[{"operation":"click","text":"Play"}]`},
		{"lines trimmed", "[\n   {\"operation\": \"click\"}  \n]", "[\n{\"operation\": \"click\"}\n]"},
		{"crlf normalized", "```json\r\n[1]\r\n```", "[1]"},
		{"trailing newline dropped", "[1]\n", "[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSON(tt.in))
		})
	}
}

func TestParseArray(t *testing.T) {
	content := "```json\n[\n  {\"operation\": \"click\", \"text\": \"Call\"},\n  {\"operation\": \"click\", \"text\": \"Confirm\"}\n]\n```"

	actions, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, KindClick, actions[0].Operation)
	assert.Equal(t, "Call", actions[0].Text)
	assert.Equal(t, "Confirm", actions[1].Text)
	assert.False(t, actions[0].Resolved())
}

func TestParseSingleObject(t *testing.T) {
	actions, err := Parse(`{"operation": "press", "keys": ["a"], "duration": 0.5}`)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, KindPress, actions[0].Operation)
	assert.Equal(t, []string{"a"}, actions[0].Keys)
	assert.Equal(t, 0.5, actions[0].Duration)
}

func TestDecodeEmptyArray(t *testing.T) {
	actions, err := Decode("[]")
	require.NoError(t, err)
	assert.NotNil(t, actions)
	assert.Empty(t, actions)
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"```json\n```",
		"I think you should click Play",
		`[{"operation": "click"`,
		`[{"text": "Play"}]`,
		"null",
		"```json\nnull\n```",
	} {
		_, err := Parse(in)
		var pe *ParseError
		assert.True(t, errors.As(err, &pe), "input %q: expected ParseError, got %v", in, err)
	}
}
