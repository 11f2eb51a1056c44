// Package form implements the username form that adds profile cards.
//
// A Form pairs an input ownership Mode with a submit Strategy. In
// Uncontrolled mode the Input element owns the text and the form reads it
// only when submitted. In Controlled mode every change goes through the
// form's own state and the element just mirrors it.
package form

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/marcusziade/githubcards/pkg/models"
	"go.uber.org/zap"
)

var (
	// ErrRequired is returned when an empty username is submitted
	ErrRequired = errors.New("username is required")
	// ErrInFlight is returned when a submit starts before the last one finished
	ErrInFlight = errors.New("a submission is already in flight")
)

var validate = validator.New()

type submission struct {
	Username string `validate:"required"`
}

// Mode selects who owns the input's value
type Mode int

const (
	Uncontrolled Mode = iota
	Controlled
)

func (m Mode) String() string {
	if m == Controlled {
		return "controlled"
	}
	return "uncontrolled"
}

// Status is the submit state of a form
type Status int

const (
	Idle Status = iota
	Fetching
	Failed
)

func (s Status) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Input is the text field element
type Input struct {
	Placeholder string
	Required    bool
	value       string
}

// NewInput returns the required username field
func NewInput() *Input {
	return &Input{Placeholder: "GitHub username", Required: true}
}

// Value returns the element's current text
func (i *Input) Value() string { return i.value }

// SetValue replaces the element's text
func (i *Input) SetValue(v string) { i.value = v }

// Form is the username form component
type Form struct {
	mode     Mode
	strategy Strategy
	onSubmit func(models.Profile)
	input    *Input

	// Controlled mode state
	username string
	renders  int

	status Status
	err    error
}

// New creates a form. onSubmit receives every profile the strategy yields.
func New(mode Mode, strategy Strategy, onSubmit func(models.Profile)) *Form {
	if onSubmit == nil {
		onSubmit = func(models.Profile) {}
	}
	return &Form{
		mode:     mode,
		strategy: strategy,
		onSubmit: onSubmit,
		input:    NewInput(),
	}
}

// NewRefForm creates the uncontrolled form that looks users up
func NewRefForm(fetcher Fetcher, onSubmit func(models.Profile)) *Form {
	return New(Uncontrolled, NewLookup(fetcher), onSubmit)
}

// NewValueForm creates the controlled form that only logs submissions
func NewValueForm(logger *zap.Logger) *Form {
	return New(Controlled, NewEcho(logger), nil)
}

// Mode returns the input ownership mode
func (f *Form) Mode() Mode { return f.mode }

// Input returns the rendered element
func (f *Form) Input() *Input { return f.input }

// Status returns the submit state
func (f *Form) Status() Status { return f.status }

// Err returns the error of the last failed submission
func (f *Form) Err() error { return f.err }

// Renders counts state updates made by change events
func (f *Form) Renders() int { return f.renders }

// Value returns the text the form would submit right now
func (f *Form) Value() string {
	if f.mode == Controlled {
		return f.username
	}
	return f.input.Value()
}

// HandleChange applies one change event from the input
func (f *Form) HandleChange(v string) {
	if f.mode == Controlled {
		f.username = v
		f.renders++
		f.input.SetValue(f.username)
		return
	}
	f.input.SetValue(v)
}

// HandleSubmit runs a whole submission: Start, Run and Finish
func (f *Form) HandleSubmit(ctx context.Context) error {
	username, err := f.Start()
	if err != nil {
		return err
	}
	profile, err := f.Run(ctx, username)
	return f.Finish(profile, err)
}

// Start reads the username and moves the form to Fetching.
// An empty username is rejected before any lookup happens.
func (f *Form) Start() (string, error) {
	if f.status == Fetching {
		return "", ErrInFlight
	}

	username := f.Value()
	if f.input.Required {
		if err := validate.Struct(submission{Username: username}); err != nil {
			return "", ErrRequired
		}
	}

	f.status = Fetching
	f.err = nil
	return username, nil
}

// Run asks the strategy for a profile. It touches no form state, so it
// may run away from the goroutine that owns the form.
func (f *Form) Run(ctx context.Context, username string) (*models.Profile, error) {
	return f.strategy.Submit(ctx, username)
}

// Finish applies the outcome of Run. On failure the input keeps its text.
func (f *Form) Finish(profile *models.Profile, err error) error {
	if err != nil {
		f.status = Failed
		f.err = err
		return err
	}

	f.status = Idle
	if profile == nil {
		return nil
	}

	f.onSubmit(*profile)
	f.clear()
	return nil
}

func (f *Form) clear() {
	if f.mode == Controlled {
		f.username = ""
		f.renders++
	}
	f.input.SetValue("")
}
