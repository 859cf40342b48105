// Package app implements the application layer for genie.
package app

import (
	"io"
	"os"

	"go.trai.ch/genie/internal/adapters/client"
	"go.trai.ch/genie/internal/adapters/discovery"
	"go.trai.ch/genie/internal/core/domain"
	"go.trai.ch/genie/internal/core/ports"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader   ports.ConfigLoader
	runner   ports.CommandRunner
	starter  ports.ProcessStarter
	spawner  ports.DaemonSpawner
	watchers ports.WatcherFactory
	tracer   ports.Tracer
	logger   ports.Logger

	stdout     io.Writer
	getenv     func(string) string
	pid        int
	clientOpts []client.Option
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	runner ports.CommandRunner,
	starter ports.ProcessStarter,
	spawner ports.DaemonSpawner,
	watchers ports.WatcherFactory,
	tracer ports.Tracer,
	log ports.Logger,
) *App {
	return &App{
		loader:   loader,
		runner:   runner,
		starter:  starter,
		spawner:  spawner,
		watchers: watchers,
		tracer:   tracer,
		logger:   log,
		stdout:   os.Stdout,
		getenv:   os.Getenv,
		pid:      os.Getpid(),
	}
}

// WithOutput redirects what the App prints for the user: poll replies,
// streamed responses, listings and daemon announcements.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithGetenv replaces the environment lookup. This is primarily used for testing.
func (a *App) WithGetenv(getenv func(string) string) *App {
	a.getenv = getenv
	return a
}

// WithPID sets the id daemons register under. This is primarily used for testing
// to run several genies of the same name in one process.
func (a *App) WithPID(pid int) *App {
	a.pid = pid
	return a
}

// WithClientOptions configures the clients built for client commands.
func (a *App) WithClientOptions(opts ...client.Option) *App {
	a.clientOpts = append(a.clientOpts, opts...)
	return a
}

// Settings are the global flags shared by every command.
// Non-empty values override the configuration.
type Settings struct {
	ConfigPath string
	Path       string
	Cookie     string
	Color      string
	Verbose    bool
	JSONLogs   bool
}

type logControl interface {
	SetVerbose(enable bool)
	SetJSON(enable bool)
}

func (a *App) configure(s Settings) (*domain.Config, error) {
	if lc, ok := a.logger.(logControl); ok {
		lc.SetVerbose(s.Verbose)
		lc.SetJSON(s.JSONLogs)
	}

	cfg, err := a.loader.Load(s.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if s.Path != "" {
		cfg.SearchPath = domain.ParseSearchPath(s.Path)
		for i, dir := range cfg.SearchPath {
			cfg.SearchPath[i] = a.loader.ExpandHome(dir)
		}
	}
	if s.Cookie != "" {
		cfg.Cookie = domain.Cookie(s.Cookie)
	}
	return cfg, nil
}

func (a *App) client(cfg *domain.Config, needCookie bool) (*client.Client, error) {
	if len(cfg.SearchPath) == 0 {
		return nil, domain.ErrEmptySearchPath
	}
	if needCookie && cfg.Cookie == "" {
		return nil, domain.ErrMissingCookie
	}
	return client.New(discovery.SearchPath(cfg.SearchPath), cfg.Cookie, a.logger, a.clientOpts...), nil
}
