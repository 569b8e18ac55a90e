package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandHome(t *testing.T) {
	home := "/home/reader"
	cases := map[string]string{
		"~":                 home,
		"~/Downloads":       "/home/reader/Downloads",
		"~/a/b/":            "/home/reader/a/b/",
		"~other/x":          "~other/x",
		"/tmp/~/x":          "/tmp/~/x",
		"relative/path.pdf": "relative/path.pdf",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equalf(t, want, ExpandHome(in, home), "ExpandHome(%q)", in)
	}
	assert.Equal(t, "/x", ExpandHome("~/x", "/"), "a root home does not double the separator")
}

func TestHasTrailingSeparator(t *testing.T) {
	assert.True(t, HasTrailingSeparator("/tmp/out/"))
	assert.True(t, HasTrailingSeparator("out"+string(filepath.Separator)))
	assert.False(t, HasTrailingSeparator("/tmp/out"))
	assert.False(t, HasTrailingSeparator(""))
}

func TestIsDirAndIsRegular(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))

	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(f))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))

	assert.True(t, IsRegular(f))
	assert.False(t, IsRegular(dir))
	assert.False(t, IsRegular(filepath.Join(dir, "missing")))
}
