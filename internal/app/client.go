package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"go.trai.ch/genie/internal/adapters/client"
	"go.trai.ch/genie/internal/adapters/detector"
	"go.trai.ch/genie/internal/core/domain"
	"go.trai.ch/genie/internal/ui/output"
	"go.trai.ch/genie/internal/ui/style"
)

// Poll asks every genie on the search path for news and prints the replies.
func (a *App) Poll(ctx context.Context, s Settings) error {
	cfg, err := a.configure(s)
	if err != nil {
		return err
	}
	c, err := a.client(cfg, true)
	if err != nil {
		return err
	}
	return c.PollAll(ctx, client.NewRenderer(a.stdout, detector.UseColor(a.stdout, s.Color)))
}

// Get streams the full response of the genie named by ref ("name" or "name.id").
func (a *App) Get(ctx context.Context, s Settings, ref string) error {
	name, id, err := domain.ParseRef(ref)
	if err != nil {
		return err
	}
	cfg, err := a.configure(s)
	if err != nil {
		return err
	}
	c, err := a.client(cfg, true)
	if err != nil {
		return err
	}
	return c.Get(ctx, name, id, a.stdout)
}

// Exit asks the genie named by ref to shut down.
func (a *App) Exit(ctx context.Context, s Settings, ref string) error {
	name, id, err := domain.ParseRef(ref)
	if err != nil {
		return err
	}
	cfg, err := a.configure(s)
	if err != nil {
		return err
	}
	c, err := a.client(cfg, false)
	if err != nil {
		return err
	}
	loc, err := c.Exit(ctx, name, id)
	if err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("asked %s(%s) to exit", loc.Name, loc.ID))
	return nil
}

// Promote moves each referenced genie one directory further down the search path.
// A failing reference does not stop the others.
func (a *App) Promote(_ context.Context, s Settings, refs []string) error {
	cfg, err := a.configure(s)
	if err != nil {
		return err
	}
	c, err := a.client(cfg, false)
	if err != nil {
		return err
	}

	var errs error
	for _, ref := range refs {
		name, id, err := domain.ParseRef(ref)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		loc, err := c.Promote(name, id)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		a.logger.Info(fmt.Sprintf("moved %s(%s) to %s", loc.Name, loc.ID, loc.Path))
	}
	return errs
}

// List prints every genie on the search path with the index of its directory
// and whether it still answers.
func (a *App) List(ctx context.Context, s Settings) error {
	cfg, err := a.configure(s)
	if err != nil {
		return err
	}
	c, err := a.client(cfg, false)
	if err != nil {
		return err
	}

	statuses := c.Statuses(ctx)
	if len(statuses) == 0 {
		a.logger.Info("no genies found")
		return nil
	}

	out := output.NewWithProfile(a.stdout, output.Fixed(detector.UseColor(a.stdout, s.Color)))
	alive := out.String(style.Check + " alive").Foreground(out.Color(string(style.Green))).String()
	stale := out.String(style.Circle + " stale").Foreground(out.Color(string(style.Slate))).String()

	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		state := alive
		if !st.Alive {
			state = stale
		}
		rows = append(rows, []string{st.Location.Name, st.Location.ID, strconv.Itoa(st.Location.Index), st.Location.Path, state})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(2)
		}).
		Headers("NAME", "ID", "INDEX", "SOCKET", "STATE").
		Rows(rows...)

	_, err = fmt.Fprintln(a.stdout, t.String())
	return err
}

// NewCookie prints a fresh random cookie.
func (a *App) NewCookie() error {
	cookie := strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err := fmt.Fprintln(a.stdout, cookie)
	return err
}
