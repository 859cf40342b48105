package config_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/genie/internal/adapters/config"
	"go.trai.ch/genie/internal/core/domain"
	"go.trai.ch/genie/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// memFS serves files and environment variables from maps.
type memFS struct {
	files map[string]string
	env   map[string]string
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

func (m *memFS) Getenv(key string) string { return m.env[key] }

func (m *memFS) UserHomeDir() (string, error) { return "/home/dev", nil }

func (m *memFS) UserConfigDir() (string, error) { return "/home/dev/.config", nil }

const defaultConfigPath = "/home/dev/.config/genie/config.yaml"

func newLoader(t *testing.T, files, env map[string]string) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return &config.Loader{Logger: logger, FS: &memFS{files: files, env: env}}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := newLoader(t, nil, nil).Load("")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultConfig(), cfg)
	assert.Equal(t, 2*time.Second, cfg.Watch.Interval)
	assert.Equal(t, []string{"tsc", "--watch"}, cfg.Compilers["tsc"].Command)
}

func TestLoad_File(t *testing.T) {
	files := map[string]string{defaultConfigPath: `
path: ~/.genies:/tmp/genies
cookie: abc123
dir: ~/.genies
watch:
  interval: 500ms
  shell: zsh
  bell: true
compilers:
  tsc:
    command: [npx, tsc, --watch, --preserveWatchOutput]
  vite:
    command: [vite, build, --watch]
    start: "build started"
    end: "built with ([0-9]+) errors"
`}

	cfg, err := newLoader(t, files, nil).Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"/home/dev/.genies", "/tmp/genies"}, cfg.SearchPath)
	assert.Equal(t, domain.Cookie("abc123"), cfg.Cookie)
	assert.Equal(t, "/home/dev/.genies", cfg.Dir)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Interval)
	assert.Equal(t, "zsh", cfg.Watch.Shell)
	assert.True(t, cfg.Watch.Bell)
	assert.False(t, cfg.Watch.TTY)

	tsc := cfg.Compilers["tsc"]
	assert.Equal(t, []string{"npx", "tsc", "--watch", "--preserveWatchOutput"}, tsc.Command)
	assert.Equal(t, domain.DefaultCycleStartPattern, tsc.Start, "unset fields keep the built-in profile")
	assert.Equal(t, "built with ([0-9]+) errors", cfg.Compilers["vite"].End)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	files := map[string]string{defaultConfigPath: "path: /from/file\ncookie: fromfile\n"}
	env := map[string]string{
		domain.EnvPath:   "/from/env:~/more",
		domain.EnvCookie: "fromenv",
	}

	cfg, err := newLoader(t, files, env).Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"/from/env", "/home/dev/more"}, cfg.SearchPath)
	assert.Equal(t, domain.Cookie("fromenv"), cfg.Cookie)
}

func TestLoader_ExpandHome(t *testing.T) {
	l := newLoader(t, nil, nil)

	assert.Equal(t, "/home/dev", l.ExpandHome("~"))
	assert.Equal(t, "/home/dev/.genies", l.ExpandHome("~/.genies"))
	assert.Equal(t, "~other/.genies", l.ExpandHome("~other/.genies"), "only the current user's home is expanded")
	assert.Equal(t, "/tmp/genies", l.ExpandHome("/tmp/genies"))
}

func TestLoad_ConfigLocation(t *testing.T) {
	files := map[string]string{
		"/etc/genie.yaml":  "cookie: fromenvpath\n",
		"/srv/custom.yaml": "cookie: fromflag\n",
	}

	cfg, err := newLoader(t, files, map[string]string{domain.EnvConfig: "/etc/genie.yaml"}).Load("")
	require.NoError(t, err)
	assert.Equal(t, domain.Cookie("fromenvpath"), cfg.Cookie)

	cfg, err = newLoader(t, files, map[string]string{domain.EnvConfig: "/etc/genie.yaml"}).Load("/srv/custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, domain.Cookie("fromflag"), cfg.Cookie, "an explicit path wins over GENIE_CONFIG")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		wantErr error
		wantMsg string
	}{
		{
			name:    "explicit file missing",
			path:    "/nope.yaml",
			wantErr: domain.ErrConfigReadFailed,
		},
		{
			name:    "not yaml",
			content: "path: [unterminated",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "bad interval",
			content: "watch: {interval: often}",
			wantErr: domain.ErrInvalidConfig,
			wantMsg: "positive duration",
		},
		{
			name:    "negative interval",
			content: "watch: {interval: -1s}",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "bad regex",
			content: "compilers: {tsc: {start: \"(\"}}",
			wantErr: domain.ErrInvalidConfig,
			wantMsg: "missing closing )",
		},
		{
			name:    "end without capture",
			content: "compilers: {tsc: {end: \"Found errors\"}}",
			wantErr: domain.ErrInvalidConfig,
			wantMsg: "must capture the error count",
		},
		{
			name:    "new profile without command",
			content: "compilers: {vite: {start: a, end: (b)}}",
			wantErr: domain.ErrInvalidConfig,
			wantMsg: "no command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{}
			if tt.content != "" {
				files[defaultConfigPath] = tt.content
			}

			_, err := newLoader(t, files, nil).Load(tt.path)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.ErrorContains(t, err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_UnreadableDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	loader := &config.Loader{Logger: logger, FS: &failingFS{}}

	_, err := loader.Load("")
	require.ErrorIs(t, err, domain.ErrConfigReadFailed)
}

type failingFS struct{ memFS }

func (f *failingFS) ReadFile(string) ([]byte, error) { return nil, errors.New("permission denied") }

func TestLoad_RealFile(t *testing.T) {
	t.Setenv(domain.EnvPath, "")
	t.Setenv(domain.EnvCookie, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watch: {tty: true}\n"), domain.PrivateFilePerm))

	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	cfg, err := loader.Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Watch.TTY)
}
