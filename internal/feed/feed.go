package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/orgball2608/insta-viewer/internal/domain"
	"github.com/orgball2608/insta-viewer/internal/instagram"
	"github.com/orgball2608/insta-viewer/pkg/logger"
)

// ErrStale is returned when a page arrives for a feed that has been reset in the meantime.
var ErrStale = errors.New("page belongs to a superseded feed")

type PageFetcher interface {
	Media(ctx context.Context, vars instagram.MediaVariables) (domain.FeedPage, error)
}

// Feed is the append-only timeline of one profile plus its continuation cursor.
// At most one page fetch is outstanding per generation.
type Feed struct {
	mu       sync.Mutex
	fetcher  PageFetcher
	pageSize int
	logger   logger.Logger

	userID     string
	entries    []domain.MediaEntry
	cursor     string
	hasMore    bool
	inFlight   bool
	generation uint64
}

func New(fetcher PageFetcher, pageSize int, log logger.Logger) *Feed {
	if pageSize <= 0 {
		pageSize = instagram.DefaultPageSize
	}
	return &Feed{
		fetcher:  fetcher,
		pageSize: pageSize,
		logger:   log.WithComponent("feed"),
	}
}

// Initialize replaces the feed with the first page of userID's timeline.
func (f *Feed) Initialize(userID string, page domain.FeedPage) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	f.userID = userID
	f.entries = append([]domain.MediaEntry(nil), page.Entries...)
	f.cursor = page.Cursor
	f.hasMore = page.HasMore && page.Cursor != ""
	f.inFlight = false
}

// Clear empties the feed. Pages still in flight are discarded when they land.
func (f *Feed) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	f.userID = ""
	f.entries = nil
	f.cursor = ""
	f.hasMore = false
	f.inFlight = false
}

// FetchNextPage loads the page after the cursor and appends it. It reports how many entries were added.
// It does nothing when there is nothing more to load or a fetch is already outstanding.
// Any failure ends pagination for the current feed.
func (f *Feed) FetchNextPage(ctx context.Context) (int, error) {
	f.mu.Lock()
	if !f.canFetchLocked() {
		f.mu.Unlock()
		return 0, nil
	}
	f.inFlight = true
	gen := f.generation
	vars := instagram.MediaVariables{ID: f.userID, After: f.cursor, First: f.pageSize}
	f.mu.Unlock()

	page, err := f.fetcher.Media(ctx, vars)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		f.logger.Debug("Dropping page for superseded feed", "user_id", vars.ID)
		return 0, ErrStale
	}
	f.inFlight = false

	if err != nil {
		f.hasMore = false
		f.logger.Warn("Failed to fetch next page, pagination stopped", "user_id", vars.ID, "error", err)
		return 0, err
	}
	if len(page.Entries) == 0 {
		f.hasMore = false
		return 0, nil
	}

	f.entries = append(f.entries, page.Entries...)
	f.cursor = page.Cursor
	f.hasMore = page.HasMore && page.Cursor != ""
	return len(page.Entries), nil
}

func (f *Feed) canFetchLocked() bool {
	return f.hasMore && f.cursor != "" && f.userID != "" && !f.inFlight
}

// Snapshot copies the current state for rendering and navigation.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Snapshot{
		UserID:   f.userID,
		Entries:  f.entries[:len(f.entries):len(f.entries)],
		Cursor:   f.cursor,
		HasMore:  f.hasMore,
		InFlight: f.inFlight,
	}
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *Feed) ItemCount(entry int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry < 0 || entry >= len(f.entries) {
		return 0
	}
	return f.entries[entry].Len()
}

func (f *Feed) CanFetch() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canFetchLocked()
}

// Snapshot is a point-in-time view of a Feed. Entries must not be modified.
type Snapshot struct {
	UserID   string
	Entries  []domain.MediaEntry
	Cursor   string
	HasMore  bool
	InFlight bool
}

func (s Snapshot) Len() int { return len(s.Entries) }

func (s Snapshot) ItemCount(entry int) int {
	if entry < 0 || entry >= len(s.Entries) {
		return 0
	}
	return s.Entries[entry].Len()
}

func (s Snapshot) CanFetch() bool {
	return s.HasMore && s.Cursor != "" && s.UserID != "" && !s.InFlight
}

// TotalItems counts browsable items across all entries.
func (s Snapshot) TotalItems() int {
	n := 0
	for _, e := range s.Entries {
		n += e.Len()
	}
	return n
}
