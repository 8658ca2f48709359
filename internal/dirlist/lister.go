package dirlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/spf13/afero"
)

// DefaultBatchSize is the number of entries read per call by the nested strategy.
const DefaultBatchSize = 256

var (
	// ErrListDirectory is returned when a directory cannot be read in bulk.
	ErrListDirectory = errors.New("listing directory")
	// ErrWalkUnsupported is returned by ListWalk on a lister not backed by the OS.
	ErrWalkUnsupported = errors.New("walk strategy requires the OS filesystem")
)

// Lister lists the children of a directory on an afero filesystem.
type Lister struct {
	fs        afero.Fs
	native    bool
	batchSize int
	errOut    io.Writer
	log       logger
	listed    atomic.Int64
}

// ListerOption configures a Lister.
type ListerOption func(*Lister)

// WithBatchSize sets how many entries the nested strategy reads per call.
func WithBatchSize(n int) ListerOption {
	return func(l *Lister) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// WithErrorOutput sets where recovered errors are reported.
func WithErrorOutput(w io.Writer) ListerOption {
	return func(l *Lister) {
		l.errOut = w
	}
}

// WithDebug enables debug output to w.
func WithDebug(w io.Writer) ListerOption {
	return func(l *Lister) {
		l.log = newLogger(true, w)
	}
}

// NewLister creates a Lister reading from fsys.
func NewLister(fsys afero.Fs, opts ...ListerOption) *Lister {
	l := &Lister{
		fs:        fsys,
		batchSize: DefaultBatchSize,
		errOut:    os.Stderr,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// NewOSLister creates a Lister over a read-only view of the OS filesystem.
func NewOSLister(opts ...ListerOption) *Lister {
	l := NewLister(afero.NewReadOnlyFs(afero.NewOsFs()), opts...)
	l.native = true

	return l
}

// Listed returns the number of entries described since the lister was created.
func (l *Lister) Listed() int64 {
	return l.listed.Load()
}

// isDir reports whether the child at full is a directory. Symlinks are
// resolved so a link to a directory is listed as one.
func (l *Lister) isDir(full string, mode os.FileMode) bool {
	if mode&os.ModeSymlink == 0 {
		return mode.IsDir()
	}

	info, err := l.fs.Stat(full)
	if err != nil {
		l.log.printf("dangling symlink: %s\n", full)

		return false
	}

	return info.IsDir()
}

// describe builds the entry for the child at full. Size and MIME type are
// only filled in for non-directories, and only when the lookup succeeds.
func (l *Lister) describe(full string, isDir bool) Entry {
	entry := Entry{
		IsDir:  isDir,
		Exists: true,
	}

	if !isDir {
		if size, ok := probeSize(l.fs, full); ok {
			entry.Size = &size
		} else {
			l.log.printf("size unavailable: %s\n", full)
		}

		if mimeType, ok := probeMIME(l.fs, full); ok {
			entry.MIME = &mimeType
		} else {
			l.log.printf("mime not detected: %s\n", full)
		}
	}

	l.listed.Add(1)

	return entry
}

// ListFlat reads all children of path in one call, sorts them by name and
// describes each one.
func (l *Lister) ListFlat(ctx context.Context, path string) ([]Entry, error) {
	infos, err := l.readDirFlat(path)
	if err != nil {
		return nil, err
	}

	return l.describeFlat(ctx, path, infos)
}

// readDirFlat reads all children of path at once.
func (l *Lister) readDirFlat(path string) ([]os.FileInfo, error) {
	infos, err := afero.ReadDir(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrListDirectory, path, err)
	}

	return infos, nil
}

// describeFlat sorts infos by name and describes each one.
func (l *Lister) describeFlat(ctx context.Context, path string, infos []os.FileInfo) ([]Entry, error) {
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})

	entries := make([]Entry, 0, len(infos))

	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		full := filepath.Join(path, info.Name())

		entry := l.describe(full, l.isDir(full, info.Mode()))
		entry.Filename = info.Name()
		entries = append(entries, entry)
	}

	return entries, nil
}

// ListNested streams the children of path through an open directory handle,
// sorts them by full path and labels each one as parent/name.
//
// Failing to open or iterate the directory is reported to the error output
// and yields an empty listing.
func (l *Lister) ListNested(ctx context.Context, parent, path string) []Entry {
	infos, err := l.readDirStream(ctx, path)
	if err != nil {
		fmt.Fprintf(l.errOut, "error: streaming directory %q: %v\n", path, err)

		return []Entry{}
	}

	entries := make([]Entry, 0, len(infos))

	for _, info := range infos {
		full := filepath.Join(path, info.Name())

		entry := l.describe(full, l.isDir(full, info.Mode()))
		entry.Path = parent + "/" + info.Name()
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries
}

// readDirStream reads the directory batchSize entries at a time. The handle
// is closed on every return path.
func (l *Lister) readDirStream(ctx context.Context, path string) (infos []os.FileInfo, err error) {
	dir, err := l.fs.Open(path)
	if err != nil {
		return nil, err
	}

	defer func() {
		if cerr := dir.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := dir.Readdir(l.batchSize)
		infos = append(infos, batch...)

		l.log.printf("read batch of %d from %s\n", len(batch), path)

		if errors.Is(err, io.EOF) {
			return infos, nil
		}

		if err != nil {
			return nil, err
		}

		if len(batch) == 0 {
			return infos, nil
		}
	}
}
