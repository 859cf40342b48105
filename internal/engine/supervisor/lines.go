package supervisor

import (
	"bufio"
	"context"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	initialLineBuffer = 64 * 1024
	maxLineSize       = 1024 * 1024
)

// Origin tells which output stream a line came from.
type Origin uint8

const (
	// Primary is the child's standard output.
	Primary Origin = iota
	// Secondary is the child's standard error.
	Secondary
)

// Line is one line of child output, without its terminator.
type Line struct {
	Origin Origin
	Text   string
}

// MergeLines reads both streams concurrently and delivers their lines on one
// channel in arrival order. The channel is closed once both streams end; the
// returned function then reports the first read error, if any.
//
// A stream that fails does not end the other one. onFailure, when not nil, is
// called with the first read error as soon as it happens so the caller can
// close the remaining stream, typically by killing the child.
func MergeLines(ctx context.Context, primary, secondary io.Reader, onFailure func(error)) (<-chan Line, func() error) {
	out := make(chan Line)
	g, gctx := errgroup.WithContext(ctx)

	var once sync.Once
	scan := func(r io.Reader, origin Origin) func() error {
		return func() error {
			err := scanLines(gctx, r, origin, out)
			if err != nil && ctx.Err() == nil && onFailure != nil {
				once.Do(func() { onFailure(err) })
			}
			return err
		}
	}
	g.Go(scan(primary, Primary))
	g.Go(scan(secondary, Secondary))

	done := make(chan struct{})
	var err error
	go func() {
		err = g.Wait()
		close(out)
		close(done)
	}()

	return out, func() error {
		<-done
		return err
	}
}

func scanLines(ctx context.Context, r io.Reader, origin Origin, out chan<- Line) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineSize)
	for scanner.Scan() {
		select {
		case out <- Line{Origin: origin, Text: scanner.Text()}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return scanner.Err()
}
