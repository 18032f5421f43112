package lookup

import (
	"context"
	"time"

	"github.com/orgball2608/insta-viewer/internal/domain"
)

// Nop stands in when no database is configured. Lookups are dropped.
type Nop struct{}

var _ Repository = Nop{}

func (Nop) Create(context.Context, domain.Lookup) error { return nil }

func (Nop) ListRecent(context.Context, int) ([]domain.Lookup, error) {
	return []domain.Lookup{}, nil
}

func (Nop) DeleteOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }
