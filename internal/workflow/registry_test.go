package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copysmith-backend/internal/auth"
	"copysmith-backend/internal/models"
)

func TestRegistryCreatesAndPrimesApp(t *testing.T) {
	store := &fakeStore{}
	store.items = append(store.items, &models.Description{
		ID: "d1", UserID: testPrincipal.UserID, ProductName: "Widget",
	})
	registry := NewRegistry(store, &fakeGenerator{})

	app := registry.For(testPrincipal)

	require.Len(t, app.History().Items(), 1)
	assert.Equal(t, 1, registry.Len())

	// Same principal gets the same app back
	assert.Same(t, app, registry.For(testPrincipal))
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryResetsOnSignOut(t *testing.T) {
	store := &fakeStore{}
	generator := &fakeGenerator{result: "copy"}
	registry := NewRegistry(store, generator)

	notifier := auth.NewNotifier()
	registry.Observe(notifier)
	defer registry.Close()

	app := registry.For(testPrincipal)
	_, err := app.Generate(context.Background(), models.ProductInput{Name: "Widget", Features: "small"})
	require.NoError(t, err)
	require.NotEmpty(t, app.LastGenerated())

	notifier.Publish(auth.SessionEvent{Kind: auth.EventSignedOut, Principal: testPrincipal})

	// The old app is cleared and dropped
	assert.Empty(t, app.LastGenerated())
	assert.Empty(t, app.History().Items())
	assert.Equal(t, 0, registry.Len())

	// The next use gets a fresh app rebuilt from the store
	fresh := registry.For(testPrincipal)
	assert.NotSame(t, app, fresh)
	assert.Len(t, fresh.History().Items(), 1)
}

func TestRegistryResetsOnUserUpdate(t *testing.T) {
	registry := NewRegistry(&fakeStore{}, &fakeGenerator{result: "copy"})

	notifier := auth.NewNotifier()
	registry.Observe(notifier)
	defer registry.Close()

	app := registry.For(testPrincipal)
	app.MarkCopied("last")

	notifier.Publish(auth.SessionEvent{Kind: auth.EventUserUpdated, Principal: testPrincipal})

	assert.Empty(t, app.CopiedSlot())
	assert.Equal(t, 0, registry.Len())
}

func TestRegistryIgnoresOtherPrincipals(t *testing.T) {
	registry := NewRegistry(&fakeStore{}, &fakeGenerator{result: "copy"})

	notifier := auth.NewNotifier()
	registry.Observe(notifier)
	defer registry.Close()

	app := registry.For(testPrincipal)
	_, err := app.Generate(context.Background(), models.ProductInput{Name: "Widget", Features: "small"})
	require.NoError(t, err)

	other := models.Principal{UserID: 99, Email: "other@example.com"}
	notifier.Publish(auth.SessionEvent{Kind: auth.EventSignedOut, Principal: other})

	// An unrelated sign-out must not clear this principal's state
	assert.NotEmpty(t, app.LastGenerated())
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryCloseStopsObserving(t *testing.T) {
	registry := NewRegistry(&fakeStore{}, &fakeGenerator{result: "copy"})

	notifier := auth.NewNotifier()
	registry.Observe(notifier)

	app := registry.For(testPrincipal)
	_, err := app.Generate(context.Background(), models.ProductInput{Name: "Widget", Features: "small"})
	require.NoError(t, err)

	registry.Close()
	notifier.Publish(auth.SessionEvent{Kind: auth.EventSignedOut, Principal: testPrincipal})

	assert.NotEmpty(t, app.LastGenerated())
	assert.Equal(t, 1, registry.Len())
}
