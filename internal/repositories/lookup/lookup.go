package lookup

import (
	"context"
	"time"

	"github.com/orgball2608/insta-viewer/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=lookup.go -destination=mocks/mock.go
type Repository interface {
	// Create stores one profile lookup
	Create(ctx context.Context, l domain.Lookup) error

	// ListRecent returns the newest lookups first, at most limit of them
	ListRecent(ctx context.Context, limit int) ([]domain.Lookup, error)

	// DeleteOlderThan removes lookups created before cutoff and reports how many went
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
