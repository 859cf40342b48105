package client

import (
	"io"

	"github.com/muesli/termenv"
	"go.trai.ch/genie/internal/ui/output"
	"go.trai.ch/genie/internal/ui/style"
)

const header = "~~~"

// Renderer writes broadcast poll replies.
//
// A header line is printed once before the first reply, every reply line is
// prefixed with "{name}({id}): ", and a blank line closes the output when
// anything was printed.
type Renderer struct {
	out     *termenv.Output
	printed bool
}

// NewRenderer creates a renderer writing to w, with colors when color is true.
func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{
		out: output.NewWithProfile(w, output.Fixed(color)),
	}
}

// Reply renders one genie's answer.
func (r *Renderer) Reply(reply Reply) error {
	if !r.printed {
		r.printed = true
		styled := r.out.String(header).Foreground(r.out.Color(string(style.Cyan)))
		if _, err := r.out.WriteString("\n" + styled.String() + "\n\n"); err != nil {
			return err
		}
	}

	name := r.out.String(reply.Location.Name).Foreground(r.out.Color(string(style.Magenta))).String()
	prefix := name + "(" + reply.Location.ID + "): "
	for _, line := range lines(reply.Body) {
		if _, err := r.out.WriteString(prefix + string(line) + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Finish closes the output with a blank line if any reply was rendered.
func (r *Renderer) Finish() error {
	if !r.printed {
		return nil
	}
	_, err := r.out.WriteString("\n")
	return err
}
