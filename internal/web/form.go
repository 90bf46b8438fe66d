package web

import (
	"context"
	"errors"
	"sync"

	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/service"
	"github.com/rs/zerolog/log"
)

// ErrBusy is returned when a submission arrives while another one is in flight.
var ErrBusy = errors.New("a submission is already in progress")

const saveFailedFallback = "Could not save to database"

// State is the state of a Form.
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	if s == StateSubmitting {
		return "submitting"
	}
	return "idle"
}

// Notice is a transient, user-facing message.
type Notice struct {
	Title   string
	Message string
	Error   bool
}

// Shortener persists a new mapping for a raw user input.
type Shortener interface {
	Shorten(ctx context.Context, input string) (model.URLMapping, error)
}

// Form orchestrates a single shorten submission.
type Form struct {
	mu          sync.Mutex
	state       State
	input       string
	shortener   Shortener
	onShortened func(model.URLMapping)
}

// NewForm returns an idle form. onShortened receives the stored mapping and may be nil.
func NewForm(shortener Shortener, onShortened func(model.URLMapping)) *Form {
	return &Form{
		shortener:   shortener,
		onShortened: onShortened,
	}
}

// State reports the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Input returns the value the form should be re-rendered with.
func (f *Form) Input() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// Submit validates input and, if it is acceptable, persists it. Validation
// failures never reach the shortener. The returned error is nil only on success.
func (f *Form) Submit(ctx context.Context, input string) (Notice, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return Notice{Title: "Please wait", Message: ErrBusy.Error(), Error: true}, ErrBusy
	}
	f.input = input

	normalized, err := service.NormalizeURL(input)
	if err != nil {
		f.mu.Unlock()
		if errors.Is(err, service.ErrEmptyURL) {
			return Notice{Title: "Error", Message: "Please enter a URL to shorten", Error: true}, err
		}
		return Notice{Title: "Invalid URL", Message: "Please enter a valid URL", Error: true}, err
	}

	f.state = StateSubmitting
	f.mu.Unlock()

	mapping, err := f.shortener.Shorten(ctx, normalized)

	f.mu.Lock()
	f.state = StateIdle
	if err != nil {
		f.mu.Unlock()
		log.Error().Err(err).Str("url", normalized).Msg("Failed to save short URL")

		msg := err.Error()
		if msg == "" {
			msg = saveFailedFallback
		}
		return Notice{Title: "Failed to save", Message: msg, Error: true}, err
	}
	f.input = ""
	f.mu.Unlock()

	if f.onShortened != nil {
		f.onShortened(mapping)
	}

	return Notice{Title: "Success!", Message: "Your URL has been shortened successfully"}, nil
}
