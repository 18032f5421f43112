package lookup

import (
	"context"

	"github.com/orgball2608/insta-viewer/internal/domain"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

//go:generate go run go.uber.org/mock/mockgen -source=lookup.go -destination=mocks/mock.go
type Client interface {
	Record(ctx context.Context, username, userID string, success bool) error
	Recent(ctx context.Context, limit int) ([]domain.Lookup, error)
	Cleanup(ctx context.Context) (int64, error)
	ScheduleCleanup(ctx context.Context) error
}

// ClampLimit maps a requested page size onto [1, MaxLimit], using DefaultLimit for anything non-positive.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
