package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/genie/internal/core/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()

	assert.Equal(t, domain.DefaultInterval, cfg.Watch.Interval)
	assert.Equal(t, "bash", cfg.Watch.Shell)
	assert.Empty(t, cfg.SearchPath)

	tsc, ok := cfg.Compilers[domain.DefaultCompiler]
	assert.True(t, ok)
	assert.Equal(t, []string{"tsc", "--watch"}, tsc.Command)
	assert.Equal(t, domain.DefaultCycleEndPattern, tsc.End)
}

func TestConfig_SocketDir(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.Config
		want string
	}{
		{"explicit dir wins", domain.Config{Dir: "/d", SearchPath: []string{"/a"}}, "/d"},
		{"first path entry", domain.Config{SearchPath: []string{"/a", "/b"}}, "/a"},
		{"skips empty entries", domain.Config{SearchPath: []string{"", "/b"}}, "/b"},
		{"falls back to cwd", domain.Config{}, "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.SocketDir())
		})
	}
}

func TestParseSearchPath(t *testing.T) {
	assert.Nil(t, domain.ParseSearchPath(""))
	assert.Equal(t, []string{"/a"}, domain.ParseSearchPath("/a"))
	assert.Equal(t, []string{"/a", "", "/b"}, domain.ParseSearchPath("/a::/b"))
}

func TestLogPath(t *testing.T) {
	assert.Equal(t, "/tmp/g/watch.log", domain.LogPath("/tmp/g", "watch"))
}
