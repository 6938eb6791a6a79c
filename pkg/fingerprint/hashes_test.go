package fingerprint

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waftester/wpvane/pkg/target"
)

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestMatchDigests(t *testing.T) {
	t.Parallel()

	body := "tinymce build 3.5"
	tests := []struct {
		name   string
		hashes []VersionHash
		want   string
		ok     bool
	}{
		{
			name:   "strong digest wins even if weak differs",
			hashes: []VersionHash{{Version: "3.5", SHA256: sha256Hex(body), MD5: md5Hex("other")}},
			want:   "3.5",
			ok:     true,
		},
		{
			name:   "weak digest alone matches",
			hashes: []VersionHash{{Version: "3.4", MD5: md5Hex(body)}},
			want:   "3.4",
			ok:     true,
		},
		{
			name: "first matching entry wins",
			hashes: []VersionHash{
				{Version: "3.3", MD5: md5Hex("nope")},
				{Version: "3.5", MD5: md5Hex(body)},
				{Version: "3.6", SHA256: sha256Hex(body)},
			},
			want: "3.5",
			ok:   true,
		},
		{
			name:   "uppercase corpus digests",
			hashes: []VersionHash{{Version: "3.5", MD5: "  " + strings.ToUpper(md5Hex(body))}},
			want:   "3.5",
			ok:     true,
		},
		{
			name:   "no match",
			hashes: []VersionHash{{Version: "3.5", MD5: md5Hex("x"), SHA256: sha256Hex("y")}},
		},
		{
			name:   "empty digests never match",
			hashes: []VersionHash{{Version: "3.5"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := MatchDigests([]byte(body), tt.hashes)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReferenceURL(t *testing.T) {
	tg, err := target.New("http://example.com/", target.Options{ContentDir: "assets", PluginsDir: "mods"})
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/assets/themes/x/style.css", ReferenceURL(tg, "$wp-content$/themes/x/style.css"))
	assert.Equal(t, "http://example.com/mods/akismet/readme.txt", ReferenceURL(tg, "$wp-plugins$/akismet/readme.txt"))
	assert.Equal(t, "http://example.com/wp-includes/js/tinymce/tiny_mce.js", ReferenceURL(tg, "wp-includes/js/tinymce/tiny_mce.js"))
}

func TestHashStrategy_StopsAtFirstMatchingFile(t *testing.T) {
	tg, client := site(t, map[string]string{
		"/wp-includes/a.js":          "file a",
		"/wp-content/themes/b/b.css": "file b",
		"/wp-includes/c.js":          "file c",
	})

	corpus := &stubCorpus{files: []FileFingerprint{
		{Path: "wp-includes/missing.js", Hashes: []VersionHash{{Version: "9.9", MD5: md5Hex("404 page")}}},
		{Path: "wp-includes/a.js", Hashes: []VersionHash{{Version: "3.1", MD5: md5Hex("something else")}}},
		{Path: "$wp-content$/themes/b/b.css", Hashes: []VersionHash{{Version: "3.2", SHA256: sha256Hex("file b")}}},
		{Path: "wp-includes/c.js", Hashes: []VersionHash{{Version: "3.3", MD5: md5Hex("file c")}}},
	}}

	v, err := NewHashStrategy(client, corpus).Detect(t.Context(), tg)
	require.NoError(t, err)
	assert.Equal(t, "3.2", v)
}

func TestHashStrategy_NoMatch(t *testing.T) {
	tg, client := site(t, map[string]string{"/wp-includes/a.js": "file a"})
	corpus := &stubCorpus{files: []FileFingerprint{
		{Path: "wp-includes/a.js", Hashes: []VersionHash{{Version: "3.1", MD5: md5Hex("different")}}},
	}}

	v, err := NewHashStrategy(client, corpus).Detect(t.Context(), tg)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestHashStrategy_CorpusError(t *testing.T) {
	_, err := NewHashStrategy(nil, &stubCorpus{err: errCorpus}).Detect(t.Context(), mustTarget(t))
	assert.ErrorIs(t, err, errCorpus)
}
