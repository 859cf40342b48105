package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/genie/internal/adapters/watcher"
)

type calls struct {
	mu    sync.Mutex
	count int
	paths []string
}

func (c *calls) record(paths []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	c.paths = paths
}

func (c *calls) get() (int, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count, c.paths
}

func TestDebouncer_CoalescesPaths(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &calls{}
		d := watcher.NewDebouncer(100*time.Millisecond, c.record)

		d.Add("/project/src/a.ts")
		d.Add("/project/src/b.ts")
		d.Add("/project/src/a.ts")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		count, paths := c.get()
		require.Equal(t, 1, count)
		assert.ElementsMatch(t, []string{"/project/src/a.ts", "/project/src/b.ts"}, paths)
	})
}

func TestDebouncer_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &calls{}
		d := watcher.NewDebouncer(100*time.Millisecond, c.record)

		d.Add("/project/a")
		time.Sleep(50 * time.Millisecond)
		d.Add("/project/b")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		count, _ := c.get()
		assert.Equal(t, 0, count, "a new path restarts the window")

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		count, _ = c.get()
		assert.Equal(t, 1, count)
	})
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &calls{}
		d := watcher.NewDebouncer(100*time.Millisecond, c.record)

		d.Add("/project/a")
		time.Sleep(200 * time.Millisecond)
		d.Add("/project/b")
		time.Sleep(200 * time.Millisecond)
		synctest.Wait()

		count, paths := c.get()
		assert.Equal(t, 2, count)
		assert.Equal(t, []string{"/project/b"}, paths)
	})
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &calls{}
		d := watcher.NewDebouncer(100*time.Millisecond, c.record)

		d.Add("/project/a")
		d.Stop()

		time.Sleep(200 * time.Millisecond)
		synctest.Wait()

		count, _ := c.get()
		assert.Equal(t, 0, count)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		d.Add("/project/a")

		assert.NotPanics(t, func() {
			time.Sleep(20 * time.Millisecond)
			synctest.Wait()
		})
	})
}
