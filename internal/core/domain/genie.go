// Package domain contains the core types shared by genie daemons and clients.
package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Cookie is an opaque client-chosen token. It keys long-poll deduplication and
// doubles as the shared secret handed to whoever launched the daemon.
type Cookie string

// Validate reports whether the cookie is one or more ASCII alphanumerics.
func (c Cookie) Validate() error {
	if c == "" {
		return ErrInvalidCookie
	}
	for i := 0; i < len(c); i++ {
		if !IsAlphanumeric(c[i]) {
			return zerr.With(zerr.Wrap(ErrInvalidCookie, "invalid cookie"), "cookie", string(c))
		}
	}
	return nil
}

// Genie identifies one running daemon.
type Genie struct {
	// Name is the logical kind, e.g. "watch" or "tsc".
	Name string
	// ID disambiguates genies sharing a name. Daemons use their pid.
	ID string
	// SocketPath is where the daemon listens.
	SocketPath string
}

// NewGenie builds a Genie whose socket lives in dir.
func NewGenie(name, id, dir string) (Genie, error) {
	file, err := SocketName(name, id)
	if err != nil {
		return Genie{}, err
	}
	return Genie{
		Name:       name,
		ID:         id,
		SocketPath: filepath.Join(dir, file),
	}, nil
}

// Location is a genie socket found on the search path.
type Location struct {
	Name  string
	ID    string
	Path  string
	Index int
}

// SocketName formats the socket file name for a genie.
func SocketName(name, id string) (string, error) {
	if !isLowerAlphanumeric(name) || !isLowerAlphanumeric(id) {
		err := zerr.With(zerr.Wrap(ErrInvalidGenieName, "invalid socket name"), "name", name)
		return "", zerr.With(err, "id", id)
	}
	return name + "." + id + SocketSuffix, nil
}

// ParseRef splits a "name" or "name.id" reference as typed on the command line.
// The returned id is empty when none was given.
func ParseRef(ref string) (name, id string, err error) {
	name, id, _ = strings.Cut(ref, ".")
	if !isLowerAlphanumeric(name) || (id != "" && !isLowerAlphanumeric(id)) {
		return "", "", zerr.With(zerr.Wrap(ErrInvalidGenieName, "invalid genie reference"), "ref", ref)
	}
	return name, id, nil
}

// IsAlphanumeric reports whether b is an ASCII letter or digit.
func IsAlphanumeric(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

func isLowerAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !('a' <= b && b <= 'z') && !('0' <= b && b <= '9') {
			return false
		}
	}
	return true
}
