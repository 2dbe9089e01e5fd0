package batch

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/id-photo-studio/internal/models"
)

// Session is one editor tab: its credential, settings and uploaded items.
// The credential lives only in memory.
type Session struct {
	ID string

	mu           sync.Mutex
	credential   string
	settings     models.PhotoSettings
	items        []*models.BatchItem
	batchRunning bool
	createdAt    time.Time
	lastActive   time.Time
}

type Upload struct {
	Data        []byte
	ContentType string
}

func (s *Session) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

func (s *Session) SetCredential(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
}

func (s *Session) Settings() models.PhotoSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Session) UpdateSettings(settings models.PhotoSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

func (s *Session) AddItems(uploads []Upload, now time.Time) []models.BatchItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]models.BatchItem, 0, len(uploads))
	for _, upload := range uploads {
		item := models.NewBatchItem(uuid.New().String(), upload.Data, upload.ContentType, now)
		s.items = append(s.items, item)
		added = append(added, item.Clone())
	}
	return added
}

// Items returns copies in upload order.
func (s *Session) Items() []models.BatchItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.BatchItem, len(s.items))
	for i, item := range s.items {
		items[i] = item.Clone()
	}
	return items
}

func (s *Session) Item(itemID string) (models.BatchItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.find(itemID)
	if item == nil {
		return models.BatchItem{}, ErrItemNotFound
	}
	return item.Clone(), nil
}

// RemoveItem drops an item unless a provider call for it is in flight.
func (s *Session) RemoveItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID != itemID {
			continue
		}
		if item.Status == models.StatusProcessing {
			return ErrItemProcessing
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		return nil
	}
	return ErrItemNotFound
}

func (s *Session) BatchRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batchRunning
}

func (s *Session) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pendingIDs())
}

func (s *Session) find(itemID string) *models.BatchItem {
	for _, item := range s.items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}

func (s *Session) pendingIDs() []string {
	var ids []string
	for _, item := range s.items {
		if item.Status == models.StatusPending {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActive), s.batchRunning
}
