package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/genie/internal/adapters/protocol"
	"go.trai.ch/genie/internal/core/domain"
	"go.trai.ch/genie/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	acceptRetryDelay = 10 * time.Millisecond
	shutdownGrace    = time.Second
)

// Server accepts connections on a genie socket and answers them from a Cache.
type Server[P any] struct {
	genie     domain.Genie
	cache     *Cache[P]
	encoder   Encoder[P]
	lifecycle *Lifecycle
	logger    ports.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    sync.WaitGroup
}

// NewServer creates a server for genie backed by cache.
func NewServer[P any](
	genie domain.Genie,
	cache *Cache[P],
	encoder Encoder[P],
	lifecycle *Lifecycle,
	logger ports.Logger,
) *Server[P] {
	return &Server[P]{
		genie:     genie,
		cache:     cache,
		encoder:   encoder,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// Genie returns the identity the server listens as.
func (s *Server[P]) Genie() domain.Genie {
	return s.genie
}

// Listen binds the socket. It is separate from Serve so that the caller can
// announce the socket path only once clients are able to connect.
func (s *Server[P]) Listen() error {
	socketPath := s.genie.SocketPath

	if err := os.MkdirAll(filepath.Dir(socketPath), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSocketBindFailed.Error()), "path", socketPath)
	}

	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return zerr.With(zerr.Wrap(err, "failed to remove stale socket"), "path", socketPath)
	}

	lis, err := net.Listen("unix", socketPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSocketBindFailed.Error()), "path", socketPath)
	}

	if err := os.Chmod(socketPath, domain.SocketPerm); err != nil {
		_ = lis.Close()
		return zerr.With(zerr.Wrap(err, "failed to set socket permissions"), "path", socketPath)
	}

	s.mu.Lock()
	s.listener = lis
	s.mu.Unlock()
	return nil
}

// Serve accepts connections until ctx is cancelled or the lifecycle shuts
// down, then removes the socket. It binds first if Listen was not called.
// Connections already accepted get a short grace period to finish.
func (s *Server[P]) Serve(ctx context.Context) error {
	s.mu.Lock()
	lis := s.listener
	s.mu.Unlock()
	if lis == nil {
		if err := s.Listen(); err != nil {
			return err
		}
		s.mu.Lock()
		lis = s.listener
		s.mu.Unlock()
	}
	defer s.cleanup()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.acceptLoop(lis)
	}()

	select {
	case <-ctx.Done():
		s.logger.Debug("context cancelled, closing listener")
	case <-s.lifecycle.ShutdownChan():
		idle := time.Since(s.lifecycle.LastActivity()).Round(time.Second)
		s.logger.Info(fmt.Sprintf("%s shutting down after %s, idle for %s", s.genie.Name, s.lifecycle.Uptime().Round(time.Second), idle))
	case err := <-errCh:
		return err
	}

	_ = lis.Close()
	<-errCh
	s.drain()
	return nil
}

// drain gives in-flight connections a grace period to finish writing.
func (s *Server[P]) drain() {
	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownGrace):
		s.logger.Warn("in-flight connections still open at shutdown")
	}
}

func (s *Server[P]) cleanup() {
	_ = os.Remove(s.genie.SocketPath)
}

func (s *Server[P]) acceptLoop(lis net.Listener) error {
	for {
		conn, err := lis.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn(fmt.Sprintf("accept failed: %v", err))
			time.Sleep(acceptRetryDelay)
			continue
		}
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConn(conn)
		}()
	}
}

func (s *Server[P]) handleConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	req, err := readRequest(conn)
	if err != nil {
		s.logger.Debug(fmt.Sprintf("dropping connection: %v", err))
		return
	}
	s.lifecycle.ResetTimer()

	var (
		payload P
		outcome Outcome
		encode  func(io.Writer, P) error
	)
	switch req.Kind {
	case protocol.KindExit:
		s.logger.Info("exit requested")
		s.lifecycle.Shutdown()
		return
	case protocol.KindPoll:
		payload, outcome = s.cache.Poll(req.Cookie)
		encode = s.encoder.EncodePoll
	case protocol.KindGet:
		payload, outcome = s.cache.Get(req.Cookie)
		encode = s.encoder.EncodeGet
	default:
		return
	}

	s.logger.Debug(fmt.Sprintf("%s from %s: %s", req.Kind, req.Cookie, outcome))
	if outcome != Available {
		return
	}
	if err := encode(conn, payload); err != nil {
		s.logger.Debug(fmt.Sprintf("write %s response: %v", req.Kind, err))
	}
}

// readRequest reads until a complete request parses, the peer stops sending,
// or the buffer fills.
func readRequest(r io.Reader) (protocol.Request, error) {
	buf := make([]byte, domain.RequestBufferSize)
	n := 0
	for {
		if n == len(buf) {
			return protocol.Request{}, domain.ErrRequestTooLarge
		}
		m, err := r.Read(buf[n:])
		n += m
		if m > 0 {
			req, _, parseErr := protocol.Parse(buf[:n])
			if parseErr == nil {
				return req, nil
			}
			if !errors.Is(parseErr, domain.ErrIncompleteRequest) {
				return protocol.Request{}, parseErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return protocol.Request{}, domain.ErrIncompleteRequest
			}
			return protocol.Request{}, zerr.Wrap(err, "read request")
		}
	}
}
