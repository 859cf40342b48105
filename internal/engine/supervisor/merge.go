package supervisor

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/genie/internal/core/domain"
	"go.trai.ch/genie/internal/core/ports"
	"go.trai.ch/zerr"
)

// CompilePatterns compiles the start and end patterns of a compilation cycle.
// The end pattern must capture the error count in its first group.
func CompilePatterns(start, end string) (startRe, endRe *regexp.Regexp, err error) {
	startRe, err = regexp.Compile(start)
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "start", start)
	}
	endRe, err = regexp.Compile(end)
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, err.Error()), "end", end)
	}
	if endRe.NumSubexp() < 1 {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "end pattern has no capture group"), "end", end)
	}
	return startRe, endRe, nil
}

// Merge supervises a long-lived incremental compiler, turning its output into
// one snapshot per compilation cycle.
type Merge struct {
	starter ports.ProcessStarter
	argv    []string
	start   *regexp.Regexp
	end     *regexp.Regexp
	tracer  ports.Tracer
	logger  ports.Logger
}

// NewMerge creates a runner for argv whose cycles are delimited by start and end.
func NewMerge(
	starter ports.ProcessStarter,
	argv []string,
	start, end *regexp.Regexp,
	tracer ports.Tracer,
	logger ports.Logger,
) *Merge {
	return &Merge{
		starter: starter,
		argv:    argv,
		start:   start,
		end:     end,
		tracer:  tracer,
		logger:  logger,
	}
}

// Supervise spawns the compiler once and feeds its merged output through a Cycler.
// It returns when the compiler exits, which is always an error unless ctx is done.
func (m *Merge) Supervise(ctx context.Context, pub ports.Publisher[*domain.CycleResult]) error {
	procCtx, kill := context.WithCancel(ctx)
	defer kill()

	proc, err := m.starter.Start(procCtx, m.argv)
	if err != nil {
		return err
	}

	lines, streamErr := MergeLines(ctx, proc.Stdout(), proc.Stderr(), func(err error) {
		m.logger.Warn(fmt.Sprintf("stopping %s: %v", m.argv[0], err))
		kill()
	})
	cycler := NewCycler(m.start, m.end, pub, m.tracer, m.logger)
	for line := range lines {
		cycler.Feed(ctx, line)
	}
	cycler.Close()

	readErr := streamErr()
	waitErr := proc.Wait()
	if ctx.Err() != nil {
		return nil
	}
	if readErr != nil {
		return zerr.Wrap(readErr, domain.ErrStreamUnavailable.Error())
	}
	if waitErr != nil {
		return zerr.With(zerr.Wrap(domain.ErrChildExited, waitErr.Error()), "command", strings.Join(m.argv, " "))
	}
	return zerr.With(zerr.Wrap(domain.ErrChildExited, "compiler exited"), "command", strings.Join(m.argv, " "))
}

// Cycler is the Idle/Compiling state machine fed one merged line at a time.
//
// A primary line matching the start pattern discards the buffer and publishes
// nil. Every line is buffered, secondary lines with a prefix. A primary line
// matching the end pattern publishes the buffer and its error count.
// Each publish uses a new iteration.
type Cycler struct {
	start     *regexp.Regexp
	end       *regexp.Regexp
	pub       ports.Publisher[*domain.CycleResult]
	tracer    ports.Tracer
	logger    ports.Logger
	buf       []string
	iteration uint64
	span      ports.Span
}

// NewCycler creates a cycler publishing to pub.
func NewCycler(
	start, end *regexp.Regexp,
	pub ports.Publisher[*domain.CycleResult],
	tracer ports.Tracer,
	logger ports.Logger,
) *Cycler {
	return &Cycler{
		start:  start,
		end:    end,
		pub:    pub,
		tracer: tracer,
		logger: logger,
	}
}

// Feed advances the state machine by one line.
func (c *Cycler) Feed(ctx context.Context, line Line) {
	if line.Origin == Secondary {
		c.buf = append(c.buf, domain.SecondaryLinePrefix+line.Text)
		return
	}

	if c.start.MatchString(line.Text) {
		c.buf = c.buf[:0]
		c.beginSpan(ctx)
		c.publish(nil)
	}

	c.buf = append(c.buf, line.Text)

	if match := c.end.FindStringSubmatch(line.Text); match != nil {
		count, err := strconv.Atoi(match[1])
		if err != nil {
			c.logger.Warn(fmt.Sprintf("cannot parse error count %q: %v", match[1], err))
		}
		c.publish(&domain.CycleResult{ErrorCount: count, Text: strings.Join(c.buf, "\n")})
		c.buf = nil
		c.endSpan(ctx, count)
	}
}

// Close ends a cycle left open when the output stopped.
func (c *Cycler) Close() {
	if c.span != nil {
		c.span.End()
		c.span = nil
	}
}

func (c *Cycler) publish(res *domain.CycleResult) {
	c.pub.Update(c.iteration, res)
	if res == nil {
		c.logger.Debug(fmt.Sprintf("published cycle %d (compiling)", c.iteration))
	} else {
		c.logger.Debug(fmt.Sprintf("published cycle %d (%d errors)", c.iteration, res.ErrorCount))
	}
	c.iteration++
}

func (c *Cycler) beginSpan(ctx context.Context) {
	c.Close()
	_, c.span = c.tracer.Start(ctx, "genie.cycle")
}

func (c *Cycler) endSpan(ctx context.Context, count int) {
	if c.span == nil {
		// an end line without a start still counts as a cycle
		_, c.span = c.tracer.Start(ctx, "genie.cycle")
	}
	c.span.SetAttribute("genie.error_count", count)
	c.Close()
}
