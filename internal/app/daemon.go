package app

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/genie/internal/adapters/daemon"
	"go.trai.ch/genie/internal/adapters/watcher"
	"go.trai.ch/genie/internal/core/domain"
	"go.trai.ch/genie/internal/core/ports"
	"go.trai.ch/genie/internal/engine/supervisor"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWatchName is the name periodic genies register under.
	DefaultWatchName = "watch"

	evictInterval = time.Minute
)

// DaemonOptions are the flags shared by every daemon command.
type DaemonOptions struct {
	// Name overrides the genie name.
	Name string
	// Dir overrides the socket directory.
	Dir string
	// IdleTimeout shuts the daemon down after this long without a request. Zero disables it.
	IdleTimeout time.Duration
	// EvictLag forgets cookies more than this many iterations behind. Zero disables eviction.
	EvictLag uint64
	// Detach re-executes the daemon in a new session and returns once it has announced itself.
	Detach bool
	// Reexec is the command line re-executed by Detach.
	Reexec []string
}

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	DaemonOptions

	Command  []string
	Interval time.Duration
	Bell     bool
	TTY      bool
	// WatchDir re-runs the command early when files below it change.
	WatchDir string
}

// CompilerOptions configuration for the Compile method.
type CompilerOptions struct {
	DaemonOptions

	// Profile selects a configured compiler. Defaults to tsc.
	Profile string
	Start   string
	End     string
	// Args are appended to the profile's command.
	Args []string
}

// Watch runs a periodic genie re-running opts.Command through the configured shell.
func (a *App) Watch(ctx context.Context, s Settings, opts WatchOptions) error {
	if len(opts.Command) == 0 {
		return domain.ErrEmptyCommand
	}

	cfg, err := a.configure(s)
	if err != nil {
		return err
	}

	genie, err := a.genie(cfg, opts.DaemonOptions, DefaultWatchName)
	if err != nil {
		return err
	}
	if a.detaching(opts.DaemonOptions) {
		return a.detach(ctx, genie, opts.Reexec)
	}

	interval := cfg.Watch.Interval
	if opts.Interval > 0 {
		interval = opts.Interval
	}
	cmd := domain.ShellCommand(cfg.Watch.Shell, strings.Join(opts.Command, " "), opts.TTY || cfg.Watch.TTY)
	encoder := daemon.CommandEncoder{Bell: opts.Bell || cfg.Watch.Bell}

	var (
		jobs         []func(context.Context) error
		periodicOpts []supervisor.PeriodicOption
	)
	if opts.WatchDir != "" {
		w, err := a.watchers()
		if err != nil {
			return zerr.Wrap(err, "failed to create file watcher")
		}
		logPath := domain.LogPath(filepath.Dir(genie.SocketPath), genie.Name)
		trigger := watcher.NewTrigger(w, domain.DefaultWatchDebounce, a.logger, watcher.WithIgnore(genie.SocketPath, logPath))
		periodicOpts = append(periodicOpts, supervisor.WithWake(trigger.C()))
		jobs = append(jobs, func(ctx context.Context) error {
			return trigger.Run(ctx, opts.WatchDir)
		})
	}

	a.logger.Info(fmt.Sprintf("running %q every %s", cmd.String(), interval))
	sup := supervisor.NewPeriodic(a.runner, cmd, interval, a.tracer, a.logger, periodicOpts...)
	return serve[*domain.CommandResult](ctx, a, genie, sup, encoder, opts.DaemonOptions, jobs...)
}

// Compile runs an incremental compiler genie, publishing one snapshot per
// compilation cycle.
func (a *App) Compile(ctx context.Context, s Settings, opts CompilerOptions) error {
	cfg, err := a.configure(s)
	if err != nil {
		return err
	}

	profile := opts.Profile
	if profile == "" {
		profile = domain.DefaultCompiler
	}
	compiler, ok := cfg.Compilers[profile]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrUnknownCompiler, "unknown compiler profile"), "profile", profile)
	}

	start, end := compiler.Start, compiler.End
	if opts.Start != "" {
		start = opts.Start
	}
	if opts.End != "" {
		end = opts.End
	}
	startRe, endRe, err := supervisor.CompilePatterns(start, end)
	if err != nil {
		return err
	}

	argv := append(slices.Clone(compiler.Command), opts.Args...)
	if len(argv) == 0 {
		return domain.ErrEmptyCommand
	}

	genie, err := a.genie(cfg, opts.DaemonOptions, profile)
	if err != nil {
		return err
	}
	if a.detaching(opts.DaemonOptions) {
		return a.detach(ctx, genie, opts.Reexec)
	}

	a.logger.Info(fmt.Sprintf("supervising %q", strings.Join(argv, " ")))
	sup := supervisor.NewMerge(a.starter, argv, startRe, endRe, a.tracer, a.logger)
	return serve[*domain.CycleResult](ctx, a, genie, sup, daemon.CycleEncoder{}, opts.DaemonOptions)
}

func (a *App) socketDir(cfg *domain.Config, opts DaemonOptions) string {
	if opts.Dir != "" {
		return opts.Dir
	}
	return cfg.SocketDir()
}

func (a *App) genie(cfg *domain.Config, opts DaemonOptions, defaultName string) (domain.Genie, error) {
	name := opts.Name
	if name == "" {
		name = defaultName
	}
	return domain.NewGenie(name, strconv.Itoa(a.pid), a.socketDir(cfg, opts))
}

func (a *App) detaching(opts DaemonOptions) bool {
	return opts.Detach && a.getenv(domain.EnvDetached) == ""
}

func (a *App) detach(ctx context.Context, genie domain.Genie, args []string) error {
	logPath := domain.LogPath(filepath.Dir(genie.SocketPath), genie.Name)
	if err := a.spawner.Spawn(ctx, args, logPath, a.stdout); err != nil {
		return zerr.With(err, "genie", genie.Name)
	}
	return nil
}

type genieTagger interface {
	SetGenie(name, id string)
}

// serve binds the genie's socket, announces it, then runs the server, the
// supervisor and any extra jobs until one of them stops.
func serve[P any](
	ctx context.Context,
	a *App,
	genie domain.Genie,
	sup ports.Supervisor[P],
	encoder daemon.Encoder[P],
	opts DaemonOptions,
	jobs ...func(context.Context) error,
) error {
	cache := daemon.NewCache[P]()
	lc := daemon.NewLifecycle(opts.IdleTimeout)
	srv := daemon.NewServer(genie, cache, encoder, lc, a.logger)

	if err := srv.Listen(); err != nil {
		return err
	}
	if t, ok := a.logger.(genieTagger); ok {
		t.SetGenie(genie.Name, genie.ID)
	}
	if _, err := fmt.Fprintf(a.stdout, "%s\n%s\n", genie.Name, genie.SocketPath); err != nil {
		return zerr.Wrap(err, "failed to announce genie")
	}

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return srv.Serve(ctx)
	})

	g.Go(func() error {
		defer cancel()
		return sup.Supervise(ctx, cache)
	})

	for _, job := range jobs {
		g.Go(func() error {
			defer cancel()
			return job(ctx)
		})
	}

	if opts.EvictLag > 0 {
		g.Go(func() error {
			evict(ctx, cache, opts.EvictLag, a.logger)
			return nil
		})
	}

	return g.Wait()
}

func evict[P any](ctx context.Context, cache *daemon.Cache[P], lag uint64, logger ports.Logger) {
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := cache.Evict(lag); n > 0 {
				logger.Debug(fmt.Sprintf("evicted %d idle cookies, %d remain", n, cache.Stats().Cookies))
			}
		}
	}
}
