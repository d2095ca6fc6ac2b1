package repository

import (
	"context"
	"sync"
	"time"

	"advisormetric/internal/models"
)

// MemoryStore keeps feedback in a map for the lifetime of the process.
// Used when no durable backend is configured.
type MemoryStore struct {
	sync.RWMutex
	data  map[string]*models.FeedbackResponse
	clock Clock
}

// NewMemoryStore creates an empty volatile store.
func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = SystemClock
	}
	return &MemoryStore{data: map[string]*models.FeedbackResponse{}, clock: clock}
}

func (s *MemoryStore) Create(ctx context.Context, in models.FeedbackInput) (*models.FeedbackResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := &models.FeedbackResponse{
		ID:            newID(),
		FeedbackInput: in,
		CreatedAt:     s.clock(),
	}
	f = f.Clone()

	s.Lock()
	defer s.Unlock()
	s.data[f.ID] = f
	return f.Clone(), nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]*models.FeedbackResponse, error) {
	return s.filter(ctx, func(*models.FeedbackResponse) bool { return true })
}

func (s *MemoryStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.FeedbackResponse, error) {
	return s.filter(ctx, func(f *models.FeedbackResponse) bool {
		return !f.CreatedAt.Before(start) && !f.CreatedAt.After(end)
	})
}

// Len reports how many records are held.
func (s *MemoryStore) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) filter(ctx context.Context, keep func(*models.FeedbackResponse) bool) ([]*models.FeedbackResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.RLock()
	out := make([]*models.FeedbackResponse, 0, len(s.data))
	for _, f := range s.data {
		if keep(f) {
			out = append(out, f.Clone())
		}
	}
	s.RUnlock()

	sortNewestFirst(out)
	return out, nil
}
