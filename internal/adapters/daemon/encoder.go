package daemon

import (
	"fmt"
	"io"

	"go.trai.ch/genie/internal/core/domain"
)

const (
	bell          = 0x07
	compilingText = "compiling..."
	noOutputText  = "... no output ..."
)

// Encoder renders a payload onto a client connection.
type Encoder[P any] interface {
	// EncodePoll writes the short answer to a poll that produced a new snapshot.
	EncodePoll(w io.Writer, payload P) error
	// EncodeGet writes the full answer to a get.
	EncodeGet(w io.Writer, payload P) error
}

// CommandEncoder renders the output of a periodic command.
type CommandEncoder struct {
	// Bell prefixes poll responses of failed runs with an ASCII BEL.
	Bell bool
}

// EncodePoll writes stderr then stdout, preceded by a bell when enabled and the run failed.
func (e CommandEncoder) EncodePoll(w io.Writer, res *domain.CommandResult) error {
	if res == nil {
		return nil
	}
	if e.Bell && res.Failed() {
		if _, err := w.Write([]byte{bell}); err != nil {
			return err
		}
	}
	return writeStreams(w, res)
}

// EncodeGet writes stderr then stdout.
func (e CommandEncoder) EncodeGet(w io.Writer, res *domain.CommandResult) error {
	if res == nil {
		return nil
	}
	return writeStreams(w, res)
}

func writeStreams(w io.Writer, res *domain.CommandResult) error {
	if len(res.Stderr) > 0 {
		if _, err := w.Write(res.Stderr); err != nil {
			return err
		}
	}
	if len(res.Stdout) > 0 {
		if _, err := w.Write(res.Stdout); err != nil {
			return err
		}
	}
	return nil
}

// CycleEncoder renders the result of an incremental compilation cycle.
type CycleEncoder struct{}

// EncodePoll writes the error count of a completed cycle and nothing while compiling.
func (CycleEncoder) EncodePoll(w io.Writer, res *domain.CycleResult) error {
	if res == nil {
		return nil
	}
	_, err := fmt.Fprintf(w, "%d errors", res.ErrorCount)
	return err
}

// EncodeGet writes the text of a completed cycle, or a placeholder.
func (CycleEncoder) EncodeGet(w io.Writer, res *domain.CycleResult) error {
	text := compilingText
	if res != nil {
		text = res.Text
		if text == "" {
			text = noOutputText
		}
	}
	_, err := io.WriteString(w, text)
	return err
}
