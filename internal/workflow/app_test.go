package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copysmith-backend/internal/database"
	"copysmith-backend/internal/models"
)

type fakeStore struct {
	mu        sync.Mutex
	items     []*models.Description
	insertErr error
	listErr   error
	deleteErr error
	inserts   int
	lists     int
}

func (f *fakeStore) Insert(d *models.Description) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	if d.ID == "" {
		d.ID = fmt.Sprintf("d%d", f.inserts)
	}
	d.CreatedAt = time.Now()
	f.items = append(f.items, d)
	return nil
}

func (f *fakeStore) ListByUser(userID int64) ([]*models.Description, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	// Most recent first, scoped to the owner
	var out []*models.Description
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].UserID == userID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(id string, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, d := range f.items {
		if d.ID == id && d.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return database.ErrDescriptionNotFound
}

func (f *fakeStore) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

func (f *fakeStore) insertCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inserts
}

type fakeGenerator struct {
	mu         sync.Mutex
	result     string
	err        error
	calls      int
	lastPrompt string
	block      chan struct{} // if non-nil, Generate waits until closed
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.lastPrompt = prompt
	block := g.block
	g.mu.Unlock()

	if block != nil {
		<-block
	}
	if g.err != nil {
		return "", g.err
	}
	return g.result, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

var testPrincipal = models.Principal{UserID: 1, Email: "jess@example.com"}

func newTestApp(store *fakeStore, generator *fakeGenerator) *App {
	return NewApp(testPrincipal, store, generator)
}

func TestGenerateRejectsMissingFields(t *testing.T) {
	store := &fakeStore{}
	generator := &fakeGenerator{result: "text"}
	app := newTestApp(store, generator)

	cases := []models.ProductInput{
		{},
		{Name: "Widget"},
		{Features: "small"},
		{Name: "   ", Features: "small"},
		{Name: "Widget", Features: "  \n "},
	}
	for _, input := range cases {
		_, err := app.Generate(context.Background(), input)
		assert.ErrorIs(t, err, ErrMissingFields)
	}

	// The gateway must never be invoked for invalid input
	assert.Equal(t, 0, generator.callCount())
	assert.Equal(t, 0, store.insertCalls())
}

func TestGenerateRejectsUnknownTone(t *testing.T) {
	store := &fakeStore{}
	generator := &fakeGenerator{result: "text"}
	app := newTestApp(store, generator)

	_, err := app.Generate(context.Background(), models.ProductInput{
		Name: "Widget", Features: "small", Tone: "Sarcastic",
	})

	assert.ErrorIs(t, err, ErrInvalidTone)
	assert.Equal(t, 0, generator.callCount())
}

func TestGenerateSuccess(t *testing.T) {
	store := &fakeStore{}
	generator := &fakeGenerator{result: "# EcoBottl 2.0\nStay hydrated."}
	app := newTestApp(store, generator)

	result, err := app.Generate(context.Background(), models.ProductInput{
		Name:           "EcoBottl 2.0",
		Features:       "BPA Free\n24hr retention",
		TargetAudience: "Athletes",
		Tone:           models.ToneProfessional,
	})

	require.NoError(t, err)
	assert.Equal(t, "# EcoBottl 2.0\nStay hydrated.", result)
	assert.Equal(t, result, app.LastGenerated())
	assert.False(t, app.Generating())

	// One insert, one history refresh
	assert.Equal(t, 1, store.insertCalls())
	assert.Equal(t, 1, store.listCalls())

	items := app.History().Items()
	require.Len(t, items, 1)
	assert.Equal(t, "EcoBottl 2.0", items[0].ProductName)
	assert.Equal(t, result, items[0].Description)
	assert.Equal(t, testPrincipal.UserID, items[0].UserID)
}

func TestGenerateGatewayFailure(t *testing.T) {
	store := &fakeStore{}
	generator := &fakeGenerator{result: "first"}
	app := newTestApp(store, generator)

	_, err := app.Generate(context.Background(), models.ProductInput{Name: "Widget", Features: "small"})
	require.NoError(t, err)

	generator.err = errors.New("quota exceeded")
	_, err = app.Generate(context.Background(), models.ProductInput{Name: "Widget", Features: "small"})

	require.Error(t, err)
	// The previous result must be left untouched and nothing inserted
	assert.Equal(t, "first", app.LastGenerated())
	assert.Equal(t, 1, store.insertCalls())
	assert.False(t, app.Generating())
}

func TestGenerateInsertFailureStillReturnsText(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("disk full")}
	generator := &fakeGenerator{result: "generated copy"}
	app := newTestApp(store, generator)

	result, err := app.Generate(context.Background(), models.ProductInput{Name: "Widget", Features: "small"})

	// Best-effort persistence: the user still sees the text
	require.NoError(t, err)
	assert.Equal(t, "generated copy", result)
	assert.Equal(t, "generated copy", app.LastGenerated())

	// The refresh still fires even though the insert failed
	assert.Equal(t, 1, store.listCalls())
	assert.Empty(t, app.History().Items())
}

func TestTwoGenerationsOrderedNewestFirst(t *testing.T) {
	store := &fakeStore{}
	generator := &fakeGenerator{result: "copy one"}
	app := newTestApp(store, generator)

	_, err := app.Generate(context.Background(), models.ProductInput{Name: "First", Features: "a"})
	require.NoError(t, err)

	generator.result = "copy two"
	_, err = app.Generate(context.Background(), models.ProductInput{Name: "Second", Features: "b"})
	require.NoError(t, err)

	items := app.History().Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Second", items[0].ProductName)
	assert.Equal(t, "First", items[1].ProductName)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestGenerateWhileBusy(t *testing.T) {
	store := &fakeStore{}
	generator := &fakeGenerator{result: "slow copy", block: make(chan struct{})}
	app := newTestApp(store, generator)

	done := make(chan error, 1)
	go func() {
		_, err := app.Generate(context.Background(), models.ProductInput{Name: "Widget", Features: "small"})
		done <- err
	}()

	require.Eventually(t, app.Generating, time.Second, time.Millisecond)

	// Submission is disabled while a generation is in flight
	_, err := app.Generate(context.Background(), models.ProductInput{Name: "Widget", Features: "small"})
	assert.ErrorIs(t, err, ErrBusy)

	close(generator.block)
	require.NoError(t, <-done)
	assert.False(t, app.Generating())
	assert.Equal(t, "slow copy", app.LastGenerated())
}

func TestResetDiscardsInFlightResult(t *testing.T) {
	store := &fakeStore{}
	generator := &fakeGenerator{result: "late copy", block: make(chan struct{})}
	app := newTestApp(store, generator)

	done := make(chan error, 1)
	go func() {
		_, err := app.Generate(context.Background(), models.ProductInput{Name: "Widget", Features: "small"})
		done <- err
	}()

	require.Eventually(t, app.Generating, time.Second, time.Millisecond)

	// Sign-out happens while the call is outstanding
	app.Reset()
	close(generator.block)

	err := <-done
	assert.ErrorIs(t, err, ErrStaleSession)
	assert.Empty(t, app.LastGenerated())
	assert.Equal(t, 0, store.insertCalls())
	assert.False(t, app.Generating())
}

func TestResetClearsAllState(t *testing.T) {
	store := &fakeStore{}
	generator := &fakeGenerator{result: "copy"}
	app := newTestApp(store, generator)

	_, err := app.Generate(context.Background(), models.ProductInput{Name: "Widget", Features: "small"})
	require.NoError(t, err)
	app.MarkCopied("last")
	require.NoError(t, app.Navigate(ViewHistory))

	app.Reset()

	assert.Empty(t, app.LastGenerated())
	assert.Empty(t, app.CopiedSlot())
	assert.Empty(t, app.History().Items())
	assert.Equal(t, ViewAuth, app.View())
	assert.Equal(t, models.ProductInput{Tone: models.ToneProfessional}, app.Input())
}

func TestDeleteItemRefreshesCache(t *testing.T) {
	store := &fakeStore{}
	generator := &fakeGenerator{result: "copy"}
	app := newTestApp(store, generator)

	_, err := app.Generate(context.Background(), models.ProductInput{Name: "Widget", Features: "small"})
	require.NoError(t, err)

	items := app.History().Items()
	require.Len(t, items, 1)

	require.NoError(t, app.History().DeleteItem(items[0].ID))
	assert.Empty(t, app.History().Items())
}

func TestDeleteItemFailureLeavesCache(t *testing.T) {
	store := &fakeStore{}
	generator := &fakeGenerator{result: "copy"}
	app := newTestApp(store, generator)

	_, err := app.Generate(context.Background(), models.ProductInput{Name: "Widget", Features: "small"})
	require.NoError(t, err)

	store.deleteErr = errors.New("store unavailable")
	err = app.History().DeleteItem(app.History().Items()[0].ID)

	assert.Error(t, err)
	assert.Len(t, app.History().Items(), 1)
}

func TestFetchFailureLeavesCache(t *testing.T) {
	store := &fakeStore{}
	generator := &fakeGenerator{result: "copy"}
	app := newTestApp(store, generator)

	_, err := app.Generate(context.Background(), models.ProductInput{Name: "Widget", Features: "small"})
	require.NoError(t, err)
	require.Len(t, app.History().Items(), 1)

	store.mu.Lock()
	store.listErr = errors.New("store unavailable")
	store.mu.Unlock()

	assert.Error(t, app.History().Fetch())
	assert.Len(t, app.History().Items(), 1)
}

func TestMarkCopiedRevertsAfterWindow(t *testing.T) {
	app := newTestApp(&fakeStore{}, &fakeGenerator{})
	app.copyWindow = 50 * time.Millisecond

	app.MarkCopied("last")
	assert.Equal(t, "last", app.CopiedSlot())

	require.Eventually(t, func() bool {
		return app.CopiedSlot() == ""
	}, time.Second, 5*time.Millisecond)
}

func TestMarkCopiedOverwrite(t *testing.T) {
	app := newTestApp(&fakeStore{}, &fakeGenerator{})
	app.copyWindow = 50 * time.Millisecond

	app.MarkCopied("a")
	app.MarkCopied("b")
	assert.Equal(t, "b", app.CopiedSlot())

	require.Eventually(t, func() bool {
		return app.CopiedSlot() == ""
	}, time.Second, 5*time.Millisecond)
}

func TestNavigate(t *testing.T) {
	app := newTestApp(&fakeStore{}, &fakeGenerator{})

	assert.Equal(t, ViewDashboard, app.View())

	require.NoError(t, app.Navigate(ViewHistory))
	assert.Equal(t, ViewHistory, app.View())

	require.NoError(t, app.Navigate(ViewDashboard))
	assert.Equal(t, ViewDashboard, app.View())

	assert.ErrorIs(t, app.Navigate(ViewAuth), ErrInvalidView)
	assert.ErrorIs(t, app.Navigate(View("settings")), ErrInvalidView)
	assert.Equal(t, ViewDashboard, app.View())
}
