package dirlist

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListWalk(t *testing.T) {
	root := t.TempDir()

	writeTree(t, root, map[string]string{
		"b.png":             string(pngHeader),
		"a.txt":             "0123456789",
		"c/":                "",
		"c/deeper/file.txt": "not listed",
		"c/inner.txt":       "not listed",
	})

	entries, err := NewOSLister().ListWalk(context.Background(), "label", root)
	require.NoError(t, err)

	want := []Entry{
		{Path: "label/a.txt", Size: ptr(int64(10)), Exists: true, MIME: ptr("text/plain")},
		{Path: "label/b.png", Size: ptr(int64(len(pngHeader))), Exists: true, MIME: ptr("image/png")},
		{Path: "label/c", IsDir: true, Exists: true},
	}

	assert.Equal(t, want, entries)
}

func TestListWalkMatchesNested(t *testing.T) {
	root := t.TempDir()

	writeTree(t, root, map[string]string{
		"one.svg":   "<svg/>",
		"two.svg":   "<svg/>",
		"three/":    "",
		"four.json": "{}",
	})

	lister := NewOSLister()
	ctx := context.Background()

	walked, err := lister.ListWalk(ctx, root, root)
	require.NoError(t, err)

	nested := lister.ListNested(ctx, root, root)

	require.Len(t, walked, len(nested))

	for i := range nested {
		assert.True(t, nested[i].Equal(walked[i]), "entry %d: %s != %s", i, nested[i], walked[i])
	}
}

func TestListWalkErrors(t *testing.T) {
	_, err := NewLister(afero.NewMemMapFs()).ListWalk(context.Background(), "x", "/")
	require.ErrorIs(t, err, ErrWalkUnsupported)

	root := t.TempDir()

	_, err = NewOSLister().ListWalk(context.Background(), "x", filepath.Join(root, "missing"))
	require.ErrorIs(t, err, ErrListDirectory)

	writeTree(t, root, map[string]string{"file": "x"})

	_, err = NewOSLister().ListWalk(context.Background(), "x", filepath.Join(root, "file"))
	require.ErrorIs(t, err, ErrListDirectory)
}

func TestListWalkEmpty(t *testing.T) {
	entries, err := NewOSLister().ListWalk(context.Background(), "x", t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestOSListerNestedMissingDirectory(t *testing.T) {
	var stderr bytes.Buffer

	entries := NewOSLister(WithErrorOutput(&stderr)).ListNested(context.Background(), "x", filepath.Join(t.TempDir(), "missing"))
	assert.Empty(t, entries)
	assert.Contains(t, stderr.String(), "error: streaming directory")
}

func TestSymlinkToDirectoryIsListedAsDirectory(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")

	writeTree(t, base, map[string]string{
		"root/a.txt":        "0123456789",
		"target/inside.txt": "not listed",
	})
	require.NoError(t, os.Symlink(filepath.Join(base, "target"), filepath.Join(root, "link")))
	require.NoError(t, os.Symlink(filepath.Join(base, "gone"), filepath.Join(root, "dangling")))

	lister := NewOSLister()
	ctx := context.Background()

	flat, err := lister.ListFlat(ctx, root)
	require.NoError(t, err)

	walked, err := lister.ListWalk(ctx, "x", root)
	require.NoError(t, err)

	nested := lister.ListNested(ctx, "x", root)

	for name, entries := range map[string][]Entry{"flat": flat, "nested": nested, "walk": walked} {
		t.Run(name, func(t *testing.T) {
			require.Len(t, entries, 3)

			// a.txt, dangling, link
			assert.False(t, entries[0].IsDir)
			assert.NotNil(t, entries[0].Size)

			assert.False(t, entries[1].IsDir)
			assert.Nil(t, entries[1].Size)

			assert.True(t, entries[2].IsDir, entries[2].String())
			assert.Nil(t, entries[2].Size)
			assert.Nil(t, entries[2].MIME)
		})
	}
}

func TestListWalkDebugOutputIsSerialised(t *testing.T) {
	root := t.TempDir()

	tree := map[string]string{}
	for i := 0; i < 64; i++ {
		tree[fmt.Sprintf("blob%02d.xyz", i)] = "\x00\x01"
	}

	writeTree(t, root, tree)

	var debug bytes.Buffer

	entries, err := NewOSLister(WithDebug(&debug)).ListWalk(context.Background(), "x", root)
	require.NoError(t, err)
	require.Len(t, entries, 64)

	lines := strings.Split(strings.TrimRight(debug.String(), "\n"), "\n")
	require.Len(t, lines, 64)

	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "[debug]: mime not detected: "), line)
	}
}
