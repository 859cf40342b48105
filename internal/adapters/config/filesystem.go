package config

import (
	"os"
)

// FileSystem abstracts the filesystem and environment reads of the loader for testability.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Getenv returns the value of an environment variable, empty when unset.
	Getenv(key string) string
	// UserHomeDir returns the current user's home directory.
	UserHomeDir() (string, error)
	// UserConfigDir returns the default root directory for user config files.
	UserConfigDir() (string, error)
}

// OSFS implements FileSystem using the standard library.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// ReadFile reads the entire file at path.
func (o *OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- the config path is chosen by the user
	return os.ReadFile(path)
}

// Getenv returns the value of an environment variable.
func (o *OSFS) Getenv(key string) string {
	return os.Getenv(key)
}

// UserHomeDir returns the current user's home directory.
func (o *OSFS) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

// UserConfigDir returns $XDG_CONFIG_HOME or its platform default.
func (o *OSFS) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}
