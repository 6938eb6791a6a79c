package hexutil

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeMatchesStdlib(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := []byte{byte(i), byte(255 - i)}
		assert.Equal(t, hex.EncodeToString(b), Encode(b))
	}
}

func TestEncodeDigest(t *testing.T) {
	sum := md5.Sum([]byte("wordpress"))
	assert.Equal(t, hex.EncodeToString(sum[:]), Encode(sum[:]))
	assert.Len(t, Encode(sum[:]), 32)
}

func TestEncodeEmpty(t *testing.T) {
	assert.Equal(t, "", Encode(nil))
}

func TestEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want bool
	}{
		{"abc123", "abc123", true},
		{"ABC123", "abc123", true},
		{" abc123\n", "abc123", true},
		{"abc123", "abc124", false},
		{"", "", false},
		{"", "abc", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Equal(tt.a, tt.b), "Equal(%q, %q)", tt.a, tt.b)
	}
}
