// Package tui is the terminal frontend: the app title, the username form
// and the card list in one bubbletea program.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcusziade/githubcards/pkg/app"
	"github.com/marcusziade/githubcards/pkg/form"
	"github.com/marcusziade/githubcards/pkg/models"
	"github.com/marcusziade/githubcards/pkg/render"
)

// submitResultMsg carries the outcome of a lookup back to Update
type submitResultMsg struct {
	username string
	profile  *models.Profile
	err      error
}

// Model is the root bubbletea model
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	app    *app.App
	form   *form.Form
	input  textinput.Model
	styles render.Styles

	pending string // username being looked up
	notice  string
}

// New creates the model. Cancelling ctx, or quitting, abandons any
// lookup still in flight.
func New(ctx context.Context, a *app.App, styles render.Styles) Model {
	ctx, cancel := context.WithCancel(ctx)
	f := a.NewForm()

	ti := textinput.New()
	ti.Placeholder = f.Input().Placeholder
	ti.CharLimit = 39
	ti.Width = 40
	ti.Focus()

	return Model{
		ctx:    ctx,
		cancel: cancel,
		app:    a,
		form:   f,
		input:  ti,
		styles: styles,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if w := msg.Width - 4; w > 0 && w < 40 {
			m.input.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancel()
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.form.Mode() == form.Controlled {
			// state first, then the widget shows what the state holds
			m.form.HandleChange(m.input.Value())
			m.input.SetValue(m.form.Value())
		}
		return m, cmd

	case submitResultMsg:
		m.pending = ""
		err := m.form.Finish(msg.profile, msg.err)
		if err != nil {
			m.notice = render.ErrorMessage(err, msg.username)
		} else {
			m.notice = ""
		}
		// a failed lookup leaves an uncontrolled widget alone, keeping
		// anything typed while it ran
		if err == nil || m.form.Mode() == form.Controlled {
			m.input.SetValue(m.form.Input().Value())
			m.input.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.form.Mode() == form.Uncontrolled {
		// the widget owns the text; read it only now
		m.form.Input().SetValue(m.input.Value())
	}

	username, err := m.form.Start()
	switch {
	case errors.Is(err, form.ErrInFlight):
		return m, nil
	case err != nil:
		m.notice = render.ErrorMessage(err, username)
		return m, nil
	}

	m.pending = username
	m.notice = ""
	f, ctx := m.form, m.ctx
	return m, func() tea.Msg {
		profile, err := f.Run(ctx, username)
		return submitResultMsg{username: username, profile: profile, err: err}
	}
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.app.Title()))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("  [enter] Add card\n")

	switch {
	case m.form.Status() == form.Fetching:
		b.WriteString(m.styles.Status.Render(fmt.Sprintf("Looking up %s...", m.pending)))
	case m.notice != "":
		b.WriteString(m.styles.Error.Render(m.notice))
	}
	b.WriteString("\n\n")

	b.WriteString(m.styles.TermCardList(m.app.Profiles().Profiles()))
	b.WriteString("\n")
	b.WriteString(m.styles.Status.Render("esc to quit"))
	b.WriteString("\n")

	return b.String()
}

// Run starts the terminal program and blocks until it exits
func Run(ctx context.Context, a *app.App, styles render.Styles, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(ctx, a, styles), opts...)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
