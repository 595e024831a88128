// internal/services/draft_service.go
package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-admin/internal/config"
	"github.com/javajoker/catalog-admin/internal/models"
)

// Draft is one edit session: the item under edit plus what submit should do with it.
type Draft struct {
	ID        uuid.UUID   `json:"id"`
	Mode      EncodeMode  `json:"mode"`
	ItemID    string      `json:"item_id,omitempty"`
	Item      models.Item `json:"item"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// DraftService keeps open drafts in memory. Each draft belongs to a single session;
// the mutex only guards the map and the swap of a draft's item.
type DraftService struct {
	mtx    sync.Mutex
	drafts map[uuid.UUID]*Draft
	ttl    time.Duration
	every  time.Duration
	now    func() time.Time
	sizes  models.SizeSet
}

func NewDraftService(cfg *config.Config) *DraftService {
	return &DraftService{
		drafts: make(map[uuid.UUID]*Draft),
		ttl:    cfg.Drafts.IdleTTL,
		every:  cfg.Drafts.SweepInterval,
		now:    time.Now,
		sizes:  models.ParseSizeSet(cfg.Catalog.Sizes),
	}
}

// SetClock replaces the time source. Tests use it to age drafts.
func (s *DraftService) SetClock(now func() time.Time) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.now = now
}

func (s *DraftService) Sizes() models.SizeSet {
	return append(models.SizeSet(nil), s.sizes...)
}

// Open stores a new draft. Edit mode requires the backend id of the item.
func (s *DraftService) Open(item models.Item, mode EncodeMode, itemID string) Draft {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if mode != EncodeModeEdit {
		mode = EncodeModeCreate
		itemID = ""
	}
	if itemID != "" {
		item.ID = itemID
	}

	now := s.now()
	draft := &Draft{
		ID:        uuid.New(),
		Mode:      mode,
		ItemID:    itemID,
		Item:      item.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.drafts[draft.ID] = draft
	return s.snapshot(draft)
}

func (s *DraftService) Get(id uuid.UUID) (Draft, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	draft, ok := s.drafts[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	draft.UpdatedAt = s.now()
	return s.snapshot(draft), nil
}

// Apply replaces the draft's item with fn(item). fn receives a private copy.
func (s *DraftService) Apply(id uuid.UUID, fn func(models.Item) models.Item) (Draft, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	draft, ok := s.drafts[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	draft.Item = fn(draft.Item.Clone())
	draft.UpdatedAt = s.now()
	return s.snapshot(draft), nil
}

func (s *DraftService) Discard(id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(s.drafts, id)
	return nil
}

func (s *DraftService) Count() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.drafts)
}

// Sweep drops drafts idle for longer than the configured TTL and returns how many.
func (s *DraftService) Sweep() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, draft := range s.drafts {
		if draft.UpdatedAt.Before(cutoff) {
			delete(s.drafts, id)
			removed++
		}
	}
	return removed
}

// Run sweeps on the configured interval until ctx is done.
func (s *DraftService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				logrus.WithField("removed", removed).Info("Expired idle drafts")
			}
		}
	}
}

func (s *DraftService) snapshot(draft *Draft) Draft {
	out := *draft
	out.Item = draft.Item.Clone()
	return out
}
