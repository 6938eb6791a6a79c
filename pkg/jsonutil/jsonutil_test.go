package jsonutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Title    string   `json:"title"`
	Versions []string `json:"affected_versions"`
}

func TestUnmarshalRead(t *testing.T) {
	t.Parallel()

	var got []record
	err := UnmarshalRead(strings.NewReader(`[{"title":"XSS","affected_versions":["1.0","1.1"]}]`), &got)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "XSS", got[0].Title)
	assert.Equal(t, []string{"1.0", "1.1"}, got[0].Versions)
}

func TestUnmarshalRead_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{`{invalid}`, ``, `[{"title":}]`} {
		var got any
		assert.Error(t, UnmarshalRead(strings.NewReader(in), &got), in)
	}
}

func TestEncoder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enc := NewStreamEncoder(&buf)
	require.NoError(t, enc.Encode(record{Title: "a"}))
	require.NoError(t, enc.Encode(record{Title: "b"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], `{"title":"b"`))
}
