// Package discovery locates genie sockets on an ordered search path.
//
// Each directory holds at most one socket file per genie, named
// "{name}.{id}.sock". A directory's position in the path is its priority.
// Discovery only looks at file names; it never opens a socket.
package discovery

import (
	"os"
	"path/filepath"
	"regexp"

	"go.trai.ch/genie/internal/core/domain"
	"go.trai.ch/zerr"
)

// socketPattern also accepts the hidden ".name.id.sock" form.
var socketPattern = regexp.MustCompile(`^\.?([a-z0-9]+)\.([a-z0-9]+)\.sock$`)

// SearchPath is an ordered list of socket directories.
type SearchPath []string

// Nth returns the directory at position n.
func (p SearchPath) Nth(n int) (string, error) {
	if n < 0 || n >= len(p) {
		return "", zerr.With(zerr.Wrap(domain.ErrPathExhausted, "no such search path entry"), "index", n)
	}
	return p[n], nil
}

// Find returns the first socket on the path for name, and for id when id is not empty.
// Unreadable directories are skipped.
func (p SearchPath) Find(name, id string) (domain.Location, error) {
	for i, dir := range p {
		for _, loc := range scan(dir, i) {
			if loc.Name == name && (id == "" || loc.ID == id) {
				return loc, nil
			}
		}
	}

	err := zerr.With(zerr.Wrap(domain.ErrGenieNotFound, "no matching socket"), "name", name)
	if id != "" {
		err = zerr.With(err, "id", id)
	}
	return domain.Location{}, err
}

// List returns every socket on the path, in path order then file name order.
func (p SearchPath) List() []domain.Location {
	var all []domain.Location
	for i, dir := range p {
		all = append(all, scan(dir, i)...)
	}
	return all
}

// Promote finds a genie and moves its socket file into the directory at targetIndex.
// The file name is kept. It returns the new location.
func (p SearchPath) Promote(name, id string, targetIndex int) (domain.Location, error) {
	found, err := p.Find(name, id)
	if err != nil {
		return domain.Location{}, err
	}
	return p.Move(found, targetIndex)
}

// Move relocates a discovered socket into the directory at targetIndex.
func (p SearchPath) Move(loc domain.Location, targetIndex int) (domain.Location, error) {
	dir, err := p.Nth(targetIndex)
	if err != nil {
		return domain.Location{}, zerr.With(err, "name", loc.Name)
	}

	dest := filepath.Join(dir, filepath.Base(loc.Path))
	if err := os.Rename(loc.Path, dest); err != nil {
		wrapped := zerr.With(zerr.Wrap(domain.ErrSocketRelocateFailed, err.Error()), "from", loc.Path)
		return domain.Location{}, zerr.With(wrapped, "to", dest)
	}

	loc.Path = dest
	loc.Index = targetIndex
	return loc, nil
}

// scan lists the sockets of one directory. os.ReadDir sorts by file name.
func scan(dir string, index int) []domain.Location {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var found []domain.Location
	for _, entry := range entries {
		m := socketPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		found = append(found, domain.Location{
			Name:  m[1],
			ID:    m[2],
			Path:  filepath.Join(dir, entry.Name()),
			Index: index,
		})
	}
	return found
}
