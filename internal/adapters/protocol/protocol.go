// Package protocol implements the line-oriented request format spoken on genie sockets.
//
// A request is one of:
//
//	poll\n{cookie}\n
//	get\n{cookie}\n
//	exit\n
//
// Responses carry no framing: the daemon writes raw bytes and closes the connection.
package protocol

import (
	"bytes"

	"go.trai.ch/genie/internal/core/domain"
)

// Kind identifies the request verb.
type Kind uint8

const (
	// KindPoll asks for the latest output only if it changed since this cookie last polled.
	KindPoll Kind = iota + 1
	// KindGet asks for the output this cookie was last told about.
	KindGet
	// KindExit asks the daemon to remove its socket and terminate.
	KindExit
)

// String returns the wire verb of the kind.
func (k Kind) String() string {
	switch k {
	case KindPoll:
		return "poll"
	case KindGet:
		return "get"
	case KindExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Request is a single parsed client request.
type Request struct {
	Kind   Kind
	Cookie domain.Cookie
}

// Poll builds a poll request.
func Poll(cookie domain.Cookie) Request {
	return Request{Kind: KindPoll, Cookie: cookie}
}

// Get builds a get request.
func Get(cookie domain.Cookie) Request {
	return Request{Kind: KindGet, Cookie: cookie}
}

// Exit builds an exit request.
func Exit() Request {
	return Request{Kind: KindExit}
}

var verbs = []struct {
	kind      Kind
	tag       []byte
	hasCookie bool
}{
	{KindPoll, []byte("poll\n"), true},
	{KindGet, []byte("get\n"), true},
	{KindExit, []byte("exit\n"), false},
}

// Parse decodes a request from the bytes received so far.
//
// On success it returns the request and the number of bytes consumed; anything
// after that is ignored. It returns domain.ErrIncompleteRequest when buf is a
// strict prefix of some valid request and domain.ErrMalformedRequest when no
// amount of further input could make it valid.
func Parse(buf []byte) (Request, int, error) {
	for _, v := range verbs {
		if len(buf) < len(v.tag) {
			if bytes.HasPrefix(v.tag, buf) {
				return Request{}, 0, domain.ErrIncompleteRequest
			}
			continue
		}
		if !bytes.HasPrefix(buf, v.tag) {
			continue
		}
		if !v.hasCookie {
			return Request{Kind: v.kind}, len(v.tag), nil
		}
		cookie, n, err := parseCookieLine(buf[len(v.tag):])
		if err != nil {
			return Request{}, 0, err
		}
		return Request{Kind: v.kind, Cookie: cookie}, len(v.tag) + n, nil
	}
	return Request{}, 0, domain.ErrMalformedRequest
}

// parseCookieLine reads one or more alphanumerics followed by a newline.
func parseCookieLine(buf []byte) (domain.Cookie, int, error) {
	n := 0
	for n < len(buf) && domain.IsAlphanumeric(buf[n]) {
		n++
	}
	switch {
	case n == len(buf):
		return "", 0, domain.ErrIncompleteRequest
	case n == 0, buf[n] != '\n':
		return "", 0, domain.ErrMalformedRequest
	}
	return domain.Cookie(buf[:n]), n + 1, nil
}

// Encode returns the wire form of req.
func Encode(req Request) []byte {
	switch req.Kind {
	case KindPoll, KindGet:
		out := make([]byte, 0, len(req.Kind.String())+len(req.Cookie)+2)
		out = append(out, req.Kind.String()...)
		out = append(out, '\n')
		out = append(out, req.Cookie...)
		return append(out, '\n')
	case KindExit:
		return []byte("exit\n")
	default:
		return nil
	}
}
