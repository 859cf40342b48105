// Package config provides the configuration loader for genie.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.trai.ch/genie/internal/core/domain"
	"go.trai.ch/genie/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader.
//
// Sources are merged lowest precedence first: built-in defaults, the YAML
// file, then GENIE_PATH and GENIE_COOKIE. Command-line flags are applied on
// top by the caller.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the real filesystem and environment.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// Load returns the merged configuration. An empty path selects $GENIE_CONFIG,
// then the user config directory; a missing default file is not an error.
func (l *Loader) Load(path string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	file, err := l.readFile(path)
	if err != nil {
		return nil, err
	}
	if file != nil {
		if err := l.apply(cfg, file); err != nil {
			return nil, err
		}
	}

	if value := l.FS.Getenv(domain.EnvPath); value != "" {
		cfg.SearchPath = domain.ParseSearchPath(value)
	}
	if value := l.FS.Getenv(domain.EnvCookie); value != "" {
		cfg.Cookie = domain.Cookie(value)
	}

	for i, dir := range cfg.SearchPath {
		cfg.SearchPath[i] = l.ExpandHome(dir)
	}
	cfg.Dir = l.ExpandHome(cfg.Dir)

	return cfg, nil
}

func (l *Loader) readFile(path string) (*File, error) {
	explicit := true
	if path == "" {
		path = l.FS.Getenv(domain.EnvConfig)
	}
	if path == "" {
		explicit = false
		dir, err := l.FS.UserConfigDir()
		if err != nil {
			return nil, nil //nolint:nilerr // no config dir means no config file
		}
		path = filepath.Join(dir, domain.ConfigDirName, domain.ConfigFileName)
	}

	data, err := l.FS.ReadFile(l.ExpandHome(path))
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
	}
	return &file, nil
}

func (l *Loader) apply(cfg *domain.Config, file *File) error {
	if file.Path != "" {
		cfg.SearchPath = domain.ParseSearchPath(file.Path)
	}
	if file.Cookie != "" {
		cfg.Cookie = domain.Cookie(file.Cookie)
	}
	if file.Dir != "" {
		cfg.Dir = file.Dir
	}

	if w := file.Watch; w != nil {
		if w.Interval != "" {
			interval, err := time.ParseDuration(w.Interval)
			if err != nil || interval <= 0 {
				return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "watch interval must be a positive duration"), "interval", w.Interval)
			}
			cfg.Watch.Interval = interval
		}
		if w.Shell != "" {
			cfg.Watch.Shell = w.Shell
		}
		if w.Bell != nil {
			cfg.Watch.Bell = *w.Bell
		}
		if w.TTY != nil {
			cfg.Watch.TTY = *w.TTY
		}
	}

	for name, dto := range file.Compilers {
		compiler, err := mergeCompiler(cfg.Compilers[name], name, dto)
		if err != nil {
			return err
		}
		cfg.Compilers[name] = compiler
	}
	return nil
}

// mergeCompiler overlays a profile from the file on the built-in one of the same name.
func mergeCompiler(base domain.CompilerConfig, name string, dto *CompilerDTO) (domain.CompilerConfig, error) {
	if dto != nil {
		if len(dto.Command) > 0 {
			base.Command = dto.Command
		}
		if dto.Start != "" {
			base.Start = dto.Start
		}
		if dto.End != "" {
			base.End = dto.End
		}
	}

	if len(base.Command) == 0 {
		return base, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "compiler has no command"), "compiler", name)
	}
	if base.Start == "" || base.End == "" {
		return base, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "compiler needs start and end patterns"), "compiler", name)
	}
	if _, err := regexp.Compile(base.Start); err != nil {
		return base, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "compiler", name)
	}
	end, err := regexp.Compile(base.End)
	if err != nil {
		return base, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "compiler", name)
	}
	if end.NumSubexp() < 1 {
		msg := fmt.Sprintf("end pattern %q must capture the error count", base.End)
		return base, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, msg), "compiler", name)
	}
	return base, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func (l *Loader) ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := l.FS.UserHomeDir()
	if err != nil {
		l.Logger.Warn(fmt.Sprintf("cannot expand %s: %v", path, err))
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
