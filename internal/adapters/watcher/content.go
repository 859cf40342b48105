package watcher

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ContentFilter remembers the content hash of every file it has seen so that
// events which leave a file's bytes unchanged, such as a save without edits or
// a touch, do not count as changes.
type ContentFilter struct {
	mu     sync.Mutex
	hashes map[string]uint64
}

// NewContentFilter creates an empty filter.
func NewContentFilter() *ContentFilter {
	return &ContentFilter{hashes: make(map[string]uint64)}
}

// Changed reports whether path's content differs from the last time it was seen.
// A file seen for the first time, a removed file and an unreadable file all count as changed.
// Directories never do.
func (f *ContentFilter) Changed(path string) bool {
	sum, err := hashFile(path)

	f.mu.Lock()
	defer f.mu.Unlock()

	if errors.Is(err, errDirectory) {
		return false
	}
	if err != nil {
		_, known := f.hashes[path]
		delete(f.hashes, path)
		return known || !errors.Is(err, fs.ErrNotExist)
	}

	prev, known := f.hashes[path]
	f.hashes[path] = sum
	return !known || prev != sum
}

// Len returns the number of tracked files.
func (f *ContentFilter) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.hashes)
}

var errDirectory = errors.New("is a directory")

func hashFile(path string) (uint64, error) {
	file, err := os.Open(path) //nolint:gosec // paths come from the watched tree
	if err != nil {
		return 0, err
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, errDirectory
	}

	h := xxhash.New()
	if _, err := io.Copy(h, file); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
