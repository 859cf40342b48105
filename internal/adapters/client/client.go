// Package client implements the client side of the genie protocol:
// broadcast poll, get by name, exit, listing and promotion.
package client

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"time"

	"go.trai.ch/genie/internal/adapters/discovery"
	"go.trai.ch/genie/internal/adapters/protocol"
	"go.trai.ch/genie/internal/core/domain"
	"go.trai.ch/genie/internal/core/ports"
	"go.trai.ch/zerr"
)

// Client talks to the genies found on a search path.
type Client struct {
	path        discovery.SearchPath
	cookie      domain.Cookie
	logger      ports.Logger
	pollTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithPollTimeout bounds how long a broadcast poll waits for each genie.
func WithPollTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.pollTimeout = d
	}
}

// New creates a client for the genies on path, identifying itself with cookie.
func New(path discovery.SearchPath, cookie domain.Cookie, logger ports.Logger, opts ...Option) *Client {
	c := &Client{
		path:        path,
		cookie:      cookie,
		logger:      logger,
		pollTimeout: domain.DefaultPollTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reply is the non-empty answer of one genie to a broadcast poll.
type Reply struct {
	Location domain.Location
	Body     []byte
}

// PollAll sends a poll to every genie on the path and renders the non-empty
// replies to r. Sockets refusing connections are stale and get removed.
// Any other failure is logged and the scan moves on to the next genie.
func (c *Client) PollAll(ctx context.Context, r *Renderer) error {
	if err := c.cookie.Validate(); err != nil {
		return err
	}

	for _, loc := range c.path.List() {
		if ctx.Err() != nil {
			return nil
		}

		body, err := c.pollOne(ctx, loc)
		if err != nil {
			if errors.Is(err, errStale) {
				c.logger.Debug(fmt.Sprintf("removed stale socket %s", loc.Path))
				continue
			}
			c.logger.Error(err)
			continue
		}
		if len(body) == 0 {
			continue
		}
		if err := r.Reply(Reply{Location: loc, Body: body}); err != nil {
			return zerr.Wrap(err, "failed to write poll output")
		}
	}

	return r.Finish()
}

func (c *Client) pollOne(ctx context.Context, loc domain.Location) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	conn, err := c.dial(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := send(conn, protocol.Poll(c.cookie)); err != nil {
		return nil, zerr.With(err, "genie", loc.Name)
	}

	body, err := io.ReadAll(conn)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read from genie"), "genie", loc.Name)
	}
	return body, nil
}

// Get finds a genie by name, and id when not empty, and streams its full
// response to w until the genie closes the connection.
func (c *Client) Get(ctx context.Context, name, id string, w io.Writer) error {
	if err := c.cookie.Validate(); err != nil {
		return err
	}

	loc, err := c.path.Find(name, id)
	if err != nil {
		return err
	}

	conn, err := c.dial(ctx, loc)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := send(conn, protocol.Get(c.cookie)); err != nil {
		return zerr.With(err, "genie", loc.Name)
	}

	if _, err := io.Copy(w, conn); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return zerr.With(zerr.Wrap(err, "failed to stream genie response"), "genie", loc.Name)
	}
	return nil
}

// Exit asks a genie to shut down. The genie sends no response.
func (c *Client) Exit(ctx context.Context, name, id string) (domain.Location, error) {
	loc, err := c.path.Find(name, id)
	if err != nil {
		return domain.Location{}, err
	}

	conn, err := c.dial(ctx, loc)
	if err != nil {
		return domain.Location{}, err
	}
	defer func() { _ = conn.Close() }()

	if err := send(conn, protocol.Exit()); err != nil {
		return domain.Location{}, zerr.With(err, "genie", loc.Name)
	}
	return loc, nil
}

// Status is a discovered genie and whether its socket accepts connections.
type Status struct {
	Location domain.Location
	Alive    bool
}

// Statuses lists every genie on the path and dials its socket.
// Stale sockets are reported, not removed.
func (c *Client) Statuses(ctx context.Context) []Status {
	locs := c.path.List()
	statuses := make([]Status, 0, len(locs))
	for _, loc := range locs {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "unix", loc.Path)
		if err == nil {
			_ = conn.Close()
		}
		statuses = append(statuses, Status{Location: loc, Alive: err == nil})
	}
	return statuses
}

// Promote moves a genie's socket one directory further down the search path.
func (c *Client) Promote(name, id string) (domain.Location, error) {
	found, err := c.path.Find(name, id)
	if err != nil {
		return domain.Location{}, err
	}
	return c.path.Move(found, found.Index+1)
}

var errStale = errors.New("stale socket")

// dial connects to a genie. A refused connection means nothing listens on the
// socket any more: the file is removed and errStale returned.
func (c *Client) dial(ctx context.Context, loc domain.Location) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", loc.Path)
	if err == nil {
		return conn, nil
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		if rmErr := os.Remove(loc.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			c.logger.Warn(fmt.Sprintf("cannot remove stale socket %s: %v", loc.Path, rmErr))
		}
		return nil, zerr.With(zerr.Wrap(errStale, domain.ErrConnectFailed.Error()), "socket", loc.Path)
	}

	wrapped := zerr.With(zerr.Wrap(domain.ErrConnectFailed, err.Error()), "socket", loc.Path)
	return nil, wrapped
}

// send writes a request and half-closes the connection so the genie sees EOF
// after it.
func send(conn net.Conn, req protocol.Request) error {
	w := bufio.NewWriter(conn)
	if _, err := w.Write(protocol.Encode(req)); err != nil {
		return zerr.Wrap(err, "failed to write request")
	}
	if err := w.Flush(); err != nil {
		return zerr.Wrap(err, "failed to write request")
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		_ = uc.CloseWrite()
	}
	return nil
}

// lines splits a reply body into lines without their terminators.
// A trailing newline does not start an empty line.
func lines(body []byte) [][]byte {
	body = bytes.TrimSuffix(body, []byte("\n"))
	split := bytes.Split(body, []byte("\n"))
	for i, line := range split {
		split[i] = bytes.TrimSuffix(line, []byte("\r"))
	}
	return split
}
