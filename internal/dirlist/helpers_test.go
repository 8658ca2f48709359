package dirlist

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0A")

// scenarioFs holds a.txt (10 bytes), b.png (500 bytes) and the directory c.
func scenarioFs(t *testing.T) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()

	require.NoError(t, fsys.MkdirAll("/data/c", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/data/a.txt", bytes.Repeat([]byte("a"), 10), 0o644))

	png := append([]byte{}, pngHeader...)
	png = append(png, make([]byte, 500-len(png))...)
	require.NoError(t, afero.WriteFile(fsys, "/data/b.png", png, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/data/c/inner.txt", []byte("inner"), 0o644))

	return fsys
}

// writeTree creates files (name -> content) and directories (name ending in /) under root.
func writeTree(t *testing.T, root string, tree map[string]string) {
	t.Helper()

	for name, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(name))

		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))

			continue
		}

		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// trackingFs counts opened and closed handles and can fail directory reads.
type trackingFs struct {
	afero.Fs

	opened      int
	closed      int
	failReaddir bool
}

func (t *trackingFs) Open(name string) (afero.File, error) {
	f, err := t.Fs.Open(name)
	if err != nil {
		return nil, err
	}

	t.opened++

	return &trackingFile{File: f, fs: t}, nil
}

type trackingFile struct {
	afero.File

	fs *trackingFs
}

func (f *trackingFile) Close() error {
	f.fs.closed++

	return f.File.Close()
}

func (f *trackingFile) Readdir(count int) ([]os.FileInfo, error) {
	if f.fs.failReaddir {
		return nil, errors.New("readdir failed")
	}

	return f.File.Readdir(count)
}

func ptr[T any](v T) *T {
	return &v
}
