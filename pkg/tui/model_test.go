package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcusziade/githubcards/pkg/app"
	"github.com/marcusziade/githubcards/pkg/client"
	"github.com/marcusziade/githubcards/pkg/form"
	"github.com/marcusziade/githubcards/pkg/models"
	"github.com/marcusziade/githubcards/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubFetcher struct {
	calls []string
}

func (s *stubFetcher) FetchUser(_ context.Context, username string) (*models.Profile, error) {
	s.calls = append(s.calls, username)
	switch username {
	case "octocat":
		return &models.Profile{Name: "The Octocat", AvatarURL: "U1", Company: "GitHub"}, nil
	case "boom":
		return nil, errors.New("connection refused")
	default:
		return nil, client.ErrNotFound
	}
}

func newModel(t *testing.T, variant app.Variant) (Model, *app.App, *stubFetcher) {
	t.Helper()
	fetcher := &stubFetcher{}
	a, err := app.New("The GitHub Cards App", app.WithFetcher(fetcher), app.WithVariant(variant))
	require.NoError(t, err)
	m := New(context.Background(), a, render.PlainStyles())
	t.Cleanup(m.cancel)
	return m, a, fetcher
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

// submit presses enter and, when a lookup starts, runs it and feeds the result back
func submit(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		return m
	}
	msg := cmd()
	_, ok := msg.(submitResultMsg)
	require.True(t, ok)
	m, _ = update(t, m, msg)
	return m
}

func TestViewShowsSeedCards(t *testing.T) {
	m, _, _ := newModel(t, app.VariantRef)
	view := m.View()

	assert.Contains(t, view, "The GitHub Cards App")
	assert.Contains(t, view, "GitHub username")
	for _, p := range models.SeedProfiles() {
		assert.Contains(t, view, p.Name)
		assert.Contains(t, view, p.Company)
	}
}

func TestSubmitAddsCard(t *testing.T) {
	m, a, fetcher := newModel(t, app.VariantRef)

	m = typeText(t, m, "octocat")
	assert.Equal(t, "", m.form.Input().Value(), "element is only read on submit")

	m = submit(t, m)
	assert.Equal(t, []string{"octocat"}, fetcher.calls)
	require.Equal(t, 4, a.Profiles().Len())
	assert.Equal(t, "The Octocat", a.Profiles().At(3).Name)
	assert.Equal(t, "", m.input.Value())
	assert.Equal(t, form.Idle, m.form.Status())
	assert.Contains(t, m.View(), "The Octocat")
}

func TestSubmitShowsFetchingWhileInFlight(t *testing.T) {
	m, _, _ := newModel(t, app.VariantRef)
	m = typeText(t, m, "octocat")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Looking up octocat...")

	// a second enter is ignored until the first result arrives
	m, again := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, again)

	m, _ = update(t, m, cmd())
	assert.NotContains(t, m.View(), "Looking up")
}

func TestSubmitUnknownUserKeepsInput(t *testing.T) {
	m, a, _ := newModel(t, app.VariantRef)

	m = typeText(t, m, "nobody")
	m = submit(t, m)

	assert.Equal(t, 3, a.Profiles().Len())
	assert.Equal(t, "nobody", m.input.Value())
	assert.Equal(t, form.Failed, m.form.Status())
	assert.Contains(t, m.View(), `User "nobody" not found`)

	m = submit(t, m)
	assert.Equal(t, form.Failed, m.form.Status())
}

func TestFailedLookupKeepsTextTypedWhileFetching(t *testing.T) {
	m, _, _ := newModel(t, app.VariantRef)
	m = typeText(t, m, "nobody")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m = typeText(t, m, "x")
	require.Equal(t, "nobodyx", m.input.Value())

	m, _ = update(t, m, cmd())
	assert.Equal(t, form.Failed, m.form.Status())
	assert.Equal(t, "nobodyx", m.input.Value())
	assert.Contains(t, m.View(), `User "nobody" not found`)
}

func TestSubmitUpstreamError(t *testing.T) {
	m, a, _ := newModel(t, app.VariantRef)

	m = typeText(t, m, "boom")
	m = submit(t, m)

	assert.Equal(t, 3, a.Profiles().Len())
	assert.Contains(t, m.View(), `Could not look up "boom"`)
}

func TestSubmitEmptyNeverLooksUp(t *testing.T) {
	m, _, fetcher := newModel(t, app.VariantRef)

	m = submit(t, m)
	assert.Empty(t, fetcher.calls)
	assert.Contains(t, m.View(), "Please enter a GitHub username")
}

func TestValueVariantTracksKeystrokes(t *testing.T) {
	m, a, fetcher := newModel(t, app.VariantValue)

	m = typeText(t, m, "oct")
	m = typeText(t, m, "o")
	assert.Equal(t, "octo", m.form.Value())
	assert.Equal(t, 2, m.form.Renders())

	m = submit(t, m)
	assert.Empty(t, fetcher.calls)
	assert.Equal(t, 3, a.Profiles().Len())
	assert.Equal(t, "octo", m.input.Value())
}

func TestEscQuits(t *testing.T) {
	m, _, _ := newModel(t, app.VariantRef)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Error(t, m.ctx.Err())
}
