package batch

import (
	"testing"
	"time"

	"github.com/phambaophuc/id-photo-studio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionLifecycle(t *testing.T) {
	store := NewSessionStore(time.Hour, zap.NewNop())

	s := store.Create("")
	assert.Empty(t, s.Credential())
	assert.Equal(t, models.DefaultSettings(), s.Settings())

	got, err := store.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	s.SetCredential("sk-1")
	assert.Equal(t, "sk-1", s.Credential())

	require.NoError(t, store.Delete(s.ID))
	_, err = store.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, store.Delete(s.ID), ErrSessionNotFound)
}

func TestSessionItemsKeepUploadOrder(t *testing.T) {
	store := NewSessionStore(time.Hour, zap.NewNop())
	s := store.Create("")
	now := time.Now()

	added := s.AddItems([]Upload{
		{Data: []byte("a"), ContentType: "image/jpeg"},
		{Data: []byte("b"), ContentType: "image/png"},
	}, now)
	require.Len(t, added, 2)
	more := s.AddItems([]Upload{{Data: []byte("c"), ContentType: "image/jpeg"}}, now)

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, added[0].ID, items[0].ID)
	assert.Equal(t, added[1].ID, items[1].ID)
	assert.Equal(t, more[0].ID, items[2].ID)
	for _, item := range items {
		assert.Equal(t, models.StatusPending, item.Status)
	}
	assert.Equal(t, 3, s.PendingCount())

	require.NoError(t, s.RemoveItem(items[1].ID))
	assert.Len(t, s.Items(), 2)
	assert.ErrorIs(t, s.RemoveItem(items[1].ID), ErrItemNotFound)

	_, err := s.Item("missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItemRefusesInFlightItem(t *testing.T) {
	s := NewSessionStore(time.Hour, zap.NewNop()).Create("")
	items := s.AddItems([]Upload{{Data: []byte("a")}}, time.Now())

	s.mu.Lock()
	require.NoError(t, s.find(items[0].ID).Transition(models.StatusProcessing, time.Now()))
	s.mu.Unlock()

	assert.ErrorIs(t, s.RemoveItem(items[0].ID), ErrItemProcessing)
}

func TestUpdateSettingsValidates(t *testing.T) {
	s := NewSessionStore(time.Hour, zap.NewNop()).Create("")

	settings := models.DefaultSettings()
	settings.Background = models.BackgroundWhite
	require.NoError(t, s.UpdateSettings(settings))
	assert.Equal(t, models.BackgroundWhite, s.Settings().Background)

	settings.BeautyLevel = 101
	assert.Error(t, s.UpdateSettings(settings))
	assert.Equal(t, 50, s.Settings().BeautyLevel)
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewSessionStore(time.Hour, zap.NewNop())
	store.now = clock.Now

	idle := store.Create("")
	active := store.Create("")
	running := store.Create("")
	running.mu.Lock()
	running.batchRunning = true
	running.mu.Unlock()

	clock.Advance(50 * time.Minute)
	_, err := store.Get(active.ID)
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	assert.Equal(t, 1, store.Sweep(clock.Now()))

	_, err = store.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(active.ID)
	assert.NoError(t, err)
	_, err = store.Get(running.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}
