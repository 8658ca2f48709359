package dirlist

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// ListWalk enumerates the children of path with fastwalk, one level deep.
// Subdirectories and links to directories are reported but not descended into. Entries are labelled parent/name and
// sorted by that label.
func (l *Lister) ListWalk(ctx context.Context, parent, path string) ([]Entry, error) {
	if !l.native {
		return nil, ErrWalkUnsupported
	}

	root := filepath.Clean(path)

	if info, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrListDirectory, path, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%w %q: not a directory", ErrListDirectory, path)
	}

	var (
		mu      sync.Mutex
		entries []Entry
	)

	conf := &fastwalk.Config{
		Follow:   false,
		MaxDepth: 1,
	}

	//nolint:varnamelen // d is standard for DirEntry
	err := fastwalk.Walk(conf, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			l.log.printf("error accessing path %s: %v\n", p, err)

			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if filepath.Clean(p) == root {
			return nil
		}

		entry := l.describe(p, l.isDir(p, d.Type()))
		entry.Path = parent + "/" + d.Name()

		mu.Lock()
		entries = append(entries, entry)
		mu.Unlock()

		// Fallback; MaxDepth already stops descent.
		if d.IsDir() {
			return filepath.SkipDir
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	if entries == nil {
		entries = []Entry{}
	}

	return entries, nil
}
