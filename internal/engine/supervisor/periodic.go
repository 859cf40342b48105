// Package supervisor contains the engines that produce genie snapshots:
// a periodic command runner and an incremental compiler output merger.
package supervisor

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/genie/internal/core/domain"
	"go.trai.ch/genie/internal/core/ports"
)

// Periodic re-runs a command forever, publishing each completed run.
type Periodic struct {
	runner   ports.CommandRunner
	command  domain.Command
	interval time.Duration
	wake     <-chan struct{}
	tracer   ports.Tracer
	logger   ports.Logger
}

// PeriodicOption configures a Periodic.
type PeriodicOption func(*Periodic)

// WithWake ends the pause between runs early whenever wake receives.
func WithWake(wake <-chan struct{}) PeriodicOption {
	return func(p *Periodic) {
		p.wake = wake
	}
}

// NewPeriodic creates a runner for command that pauses interval between runs.
func NewPeriodic(
	runner ports.CommandRunner,
	command domain.Command,
	interval time.Duration,
	tracer ports.Tracer,
	logger ports.Logger,
	opts ...PeriodicOption,
) *Periodic {
	p := &Periodic{
		runner:   runner,
		command:  command,
		interval: interval,
		tracer:   tracer,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Supervise runs the command, publishes the result, waits, and repeats.
// Runs are strictly serial. A command that cannot be started ends supervision
// with an error; a non-zero exit is published like any other result.
func (p *Periodic) Supervise(ctx context.Context, pub ports.Publisher[*domain.CommandResult]) error {
	var iteration uint64
	for {
		res, err := p.runOnce(ctx, iteration)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}

		pub.Update(iteration, res)
		p.logger.Debug(fmt.Sprintf("published run %d (exit %d)", iteration, res.ExitCode))

		if !p.pause(ctx) {
			return nil
		}
		iteration++
	}
}

func (p *Periodic) runOnce(ctx context.Context, iteration uint64) (*domain.CommandResult, error) {
	ctx, span := p.tracer.Start(ctx, "genie.run")
	defer span.End()
	span.SetAttribute("genie.iteration", iteration)

	res, err := p.runner.Run(ctx, p.command)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("genie.exit_code", res.ExitCode)
	return res, nil
}

// pause waits for the interval or a wake signal. It reports false when ctx is done.
func (p *Periodic) pause(ctx context.Context) bool {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	case <-p.wake:
		p.logger.Debug("change detected, re-running early")
	}
	return true
}
