package daemon_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/genie/internal/adapters/daemon"
	"go.trai.ch/genie/internal/core/domain"
)

func output(s string) *domain.CommandResult {
	return &domain.CommandResult{Exited: true, Stdout: []byte(s)}
}

func TestCache_EmptyIsNotAvailable(t *testing.T) {
	cache := daemon.NewCache[*domain.CommandResult]()

	payload, outcome := cache.Poll("a")
	assert.Equal(t, daemon.NotAvailable, outcome)
	assert.Nil(t, payload)

	payload, outcome = cache.Get("a")
	assert.Equal(t, daemon.NotAvailable, outcome)
	assert.Nil(t, payload)
}

func TestCache_FirstPollIsAvailable(t *testing.T) {
	cache := daemon.NewCache[*domain.CommandResult]()
	cache.Update(0, output("x"))

	payload, outcome := cache.Poll("a")
	require.Equal(t, daemon.Available, outcome)
	assert.Equal(t, "x", string(payload.Stdout))
}

func TestCache_PollDeduplicatesPerCookie(t *testing.T) {
	cache := daemon.NewCache[*domain.CommandResult]()
	cache.Update(0, output("x"))

	_, outcome := cache.Poll("a")
	assert.Equal(t, daemon.Available, outcome)

	_, outcome = cache.Poll("a")
	assert.Equal(t, daemon.NoChange, outcome)

	// A different cookie is tracked independently.
	_, outcome = cache.Poll("b")
	assert.Equal(t, daemon.Available, outcome)

	cache.Update(1, output("y"))

	payload, outcome := cache.Poll("a")
	require.Equal(t, daemon.Available, outcome)
	assert.Equal(t, "y", string(payload.Stdout))

	_, outcome = cache.Poll("a")
	assert.Equal(t, daemon.NoChange, outcome)
}

func TestCache_GetReturnsLastPolledSnapshot(t *testing.T) {
	cache := daemon.NewCache[*domain.CommandResult]()
	cache.Update(0, output("x"))
	cache.Poll("a")
	cache.Update(1, output("y"))

	payload, outcome := cache.Get("a")
	require.Equal(t, daemon.Available, outcome)
	assert.Equal(t, "x", string(payload.Stdout))

	payload, outcome = cache.Get("b")
	require.Equal(t, daemon.Available, outcome)
	assert.Equal(t, "y", string(payload.Stdout))
}

func TestCache_GetDoesNotRecord(t *testing.T) {
	cache := daemon.NewCache[*domain.CommandResult]()
	cache.Update(0, output("x"))

	cache.Get("a")
	cache.Get("a")

	_, outcome := cache.Poll("a")
	assert.Equal(t, daemon.Available, outcome)
	assert.Equal(t, 1, cache.Stats().Cookies)
}

func TestCache_UpdateHasNoOrderingCheck(t *testing.T) {
	cache := daemon.NewCache[*domain.CommandResult]()
	cache.Update(5, output("five"))
	cache.Poll("a")
	cache.Update(2, output("two"))

	payload, outcome := cache.Poll("a")
	require.Equal(t, daemon.Available, outcome)
	assert.Equal(t, "two", string(payload.Stdout))
	assert.Equal(t, uint64(2), cache.Stats().Iteration)
}

func TestCache_NilPayloadIsStillAvailable(t *testing.T) {
	cache := daemon.NewCache[*domain.CycleResult]()
	cache.Update(0, nil)

	payload, outcome := cache.Poll("a")
	assert.Equal(t, daemon.Available, outcome)
	assert.Nil(t, payload)

	_, outcome = cache.Poll("a")
	assert.Equal(t, daemon.NoChange, outcome)
}

func TestCache_Evict(t *testing.T) {
	cache := daemon.NewCache[*domain.CommandResult]()
	assert.Zero(t, cache.Evict(0))

	cache.Update(0, output("0"))
	cache.Poll("old")
	cache.Update(5, output("5"))
	cache.Poll("recent")
	cache.Update(7, output("7"))
	cache.Poll("current")

	assert.Equal(t, 1, cache.Evict(3))
	assert.Equal(t, 2, cache.Stats().Cookies)

	// The evicted cookie behaves as if it had never polled.
	payload, outcome := cache.Get("old")
	require.Equal(t, daemon.Available, outcome)
	assert.Equal(t, "7", string(payload.Stdout))

	assert.Equal(t, 1, cache.Evict(0))
	assert.Equal(t, 1, cache.Stats().Cookies)
}

func TestCache_Stats(t *testing.T) {
	cache := daemon.NewCache[*domain.CommandResult]()
	assert.Equal(t, daemon.CacheStats{}, cache.Stats())

	cache.Update(3, output("x"))
	cache.Poll("a")
	cache.Poll("b")

	assert.Equal(t, daemon.CacheStats{Cookies: 2, Iteration: 3, HasSnapshot: true}, cache.Stats())
}

func TestCache_Concurrent(t *testing.T) {
	cache := daemon.NewCache[*domain.CommandResult]()

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines * 3)

	for i := range goroutines {
		go func(idx int) {
			defer wg.Done()
			cache.Update(uint64(idx), output(fmt.Sprintf("%d", idx)))
		}(i)

		go func(idx int) {
			defer wg.Done()
			cache.Poll(domain.Cookie(fmt.Sprintf("c%d", idx)))
		}(i)

		go func(idx int) {
			defer wg.Done()
			cache.Get(domain.Cookie(fmt.Sprintf("c%d", idx)))
		}(i)
	}

	wg.Wait()

	stats := cache.Stats()
	assert.True(t, stats.HasSnapshot)
	assert.LessOrEqual(t, stats.Cookies, goroutines)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "not-available", daemon.NotAvailable.String())
	assert.Equal(t, "no-change", daemon.NoChange.String())
	assert.Equal(t, "available", daemon.Available.String())
	assert.Equal(t, "unknown", daemon.Outcome(42).String())
}
