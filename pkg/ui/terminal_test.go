package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripUnsafe(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain ascii", "plain ascii"},
		{"café", "café"},
		{"done ✅ ok", "done  ok"},
		{"⚠️ warn", " warn"},
		{"łódź", "łódź"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripUnsafe(tt.in), tt.in)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	assert.False(t, IsTerminal(f))
}

func TestPrintBanner(t *testing.T) {
	SetNoColor(true)
	var buf bytes.Buffer
	PrintBanner(&buf)

	out := buf.String()
	assert.Contains(t, out, "v1.4.0")
	assert.Contains(t, out, bannerSeparator)
	assert.True(t, IsNoColor())
}

func TestMarker(t *testing.T) {
	SetNoColor(true)
	assert.Equal(t, "[+]", Marker("+"))
	assert.Equal(t, "[!]", Marker("!"))
	assert.Equal(t, "[i]", Marker("i"))
	assert.Equal(t, "[?]", strings.TrimSpace(Marker("?")))
}

func TestPrintConfigLine(t *testing.T) {
	SetNoColor(true)
	var buf bytes.Buffer
	PrintConfigLine(&buf, "URL", "http://example.com/")
	assert.Contains(t, buf.String(), "URL:")
	assert.Contains(t, buf.String(), "http://example.com/")
}
