package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"copysmith-backend/internal/gen"
	"copysmith-backend/internal/models"
)

var (
	ErrMissingFields = errors.New("product name and features are required")
	ErrInvalidTone   = errors.New("unsupported tone")
	ErrBusy          = errors.New("a generation is already in progress")
	ErrStaleSession  = errors.New("session changed while generating")
	ErrInvalidView   = errors.New("unknown view")
)

// copyWindow is how long a slot stays marked as just-copied
const copyWindow = 2 * time.Second

// App holds the session-scoped generation state for one principal: the
// form input, the last generated result, the history cache, the copy
// affordance and the active view. All remote failures are handled here;
// none propagate past the component uncaught.
type App struct {
	mu        sync.Mutex
	principal models.Principal
	store     DescriptionStore
	generator gen.Generator
	history   *History

	input         models.ProductInput
	lastGenerated string
	generating    bool
	view          View

	copiedSlot string
	copyTimer  *time.Timer
	copyWindow time.Duration

	// epoch is bumped on every reset; a generation started under an
	// older epoch discards its result instead of applying it to state
	// that now belongs to nobody.
	epoch uint64
}

// NewApp creates the workflow state for one signed-in principal
func NewApp(principal models.Principal, store DescriptionStore, generator gen.Generator) *App {
	return &App{
		principal:  principal,
		store:      store,
		generator:  generator,
		history:    newHistory(principal.UserID, store),
		input:      models.ProductInput{Tone: models.ToneProfessional},
		view:       ViewDashboard,
		copyWindow: copyWindow,
	}
}

// Principal returns the identity this app belongs to
func (a *App) Principal() models.Principal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.principal
}

// History returns the per-user history cache
func (a *App) History() *History {
	return a.history
}

// Generate validates the input, calls the generation gateway, stores the
// result and refreshes the history cache exactly once. The busy flag is
// always cleared. An insert failure is logged but the generated text is
// still returned; a gateway failure leaves the last generated result
// untouched.
func (a *App) Generate(ctx context.Context, input models.ProductInput) (string, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Features) == "" {
		return "", ErrMissingFields
	}
	if input.Tone == "" {
		input.Tone = models.ToneProfessional
	}
	if !models.ValidTone(input.Tone) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTone, input.Tone)
	}

	a.mu.Lock()
	if a.generating {
		a.mu.Unlock()
		return "", ErrBusy
	}
	a.generating = true
	a.input = input
	epoch := a.epoch
	userID := a.principal.UserID
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.generating = false
		a.mu.Unlock()
	}()

	result, err := a.generator.Generate(ctx, gen.BuildPrompt(input))
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	a.mu.Lock()
	if a.epoch != epoch {
		a.mu.Unlock()
		log.Printf("discarding generation result for user %d: session changed mid-flight", userID)
		return "", ErrStaleSession
	}
	a.lastGenerated = result
	a.mu.Unlock()

	// Best-effort persistence: the user still gets the text even if the
	// row could not be saved.
	if err := a.store.Insert(&models.Description{
		UserID:      userID,
		ProductName: input.Name,
		Description: result,
	}); err != nil {
		log.Printf("save description for user %d: %v", userID, err)
	}

	a.history.Fetch()

	return result, nil
}

// LastGenerated returns the result of the most recent successful generation
func (a *App) LastGenerated() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastGenerated
}

// Generating reports whether a generation is in flight
func (a *App) Generating() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generating
}

// Input returns the current form state
func (a *App) Input() models.ProductInput {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.input
}

// MarkCopied flags slot as just-copied for the copy window. A newer call
// overwrites the previous slot and restarts the window.
func (a *App) MarkCopied(slot string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.copiedSlot = slot
	if a.copyTimer != nil {
		a.copyTimer.Stop()
	}
	a.copyTimer = time.AfterFunc(a.copyWindow, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.copiedSlot == slot {
			a.copiedSlot = ""
		}
	})
}

// CopiedSlot returns the slot currently marked as copied, or ""
func (a *App) CopiedSlot() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.copiedSlot
}

// Navigate switches between the dashboard and history views
func (a *App) Navigate(v View) error {
	if !ValidView(v) || v == ViewAuth {
		return ErrInvalidView
	}

	a.mu.Lock()
	a.view = v
	a.mu.Unlock()
	return nil
}

// View returns the active view
func (a *App) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// Reset returns the app to its initial signed-out state: form, last
// generated result, copy affordance and history cache are all cleared,
// and any in-flight generation is invalidated.
func (a *App) Reset() {
	a.mu.Lock()
	a.epoch++
	a.input = models.ProductInput{Tone: models.ToneProfessional}
	a.lastGenerated = ""
	a.copiedSlot = ""
	if a.copyTimer != nil {
		a.copyTimer.Stop()
		a.copyTimer = nil
	}
	a.view = ViewAuth
	a.mu.Unlock()

	a.history.clear()
}
