package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"advisormetric/internal/models"

	"github.com/google/uuid"
)

// ErrStorageUnavailable wraps any failure of the backing medium.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Storage is the feedback persistence contract. Every backing store has the
// same read/write semantics.
type Storage interface {
	// Create assigns an id and creation time, stores the record and returns it.
	Create(ctx context.Context, in models.FeedbackInput) (*models.FeedbackResponse, error)
	// ListAll returns every record, most recent first.
	ListAll(ctx context.Context) ([]*models.FeedbackResponse, error)
	// ListByDateRange returns records with start <= createdAt <= end, most recent first.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.FeedbackResponse, error)
}

// Clock returns the current time. Stores take one so tests can pin it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC, truncated to microseconds so values
// survive a round trip through Postgres unchanged.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func newID() string {
	return uuid.NewString()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

func sortNewestFirst(list []*models.FeedbackResponse) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
