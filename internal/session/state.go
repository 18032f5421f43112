package session

import (
	"github.com/orgball2608/insta-viewer/internal/domain"
	"github.com/orgball2608/insta-viewer/internal/feed"
)

// State is a copy of a Session for rendering.
type State struct {
	Username string
	Profile  *domain.Profile
	Loading  bool
	Err      string
	Feed     feed.Snapshot
	Position domain.Position
}

// Current returns the entry and item under the lightbox cursor.
func (s State) Current() (domain.MediaEntry, domain.MediaItem, bool) {
	if s.Feed.Len() == 0 {
		return nil, domain.MediaItem{}, false
	}
	entry := s.Feed.Entries[s.Position.Entry]
	return entry, entry.Item(s.Position.Item), true
}

func (s State) CanPrevious() bool {
	return s.Feed.Len() > 0 && s.Position != (domain.Position{})
}

// CanNext is false on the last item of the last loaded entry, even while more pages exist.
func (s State) CanNext() bool {
	n := s.Feed.Len()
	if n == 0 {
		return false
	}
	return s.Position.Entry < n-1 || s.Position.Item < s.Feed.ItemCount(s.Position.Entry)-1
}
