package domain

// FeedPage is one batch of the timeline. Cursor and HasMore travel together:
// HasMore is never true without a cursor.
type FeedPage struct {
	Entries []MediaEntry
	Cursor  string
	HasMore bool
}

func NewFeedPage(entries []MediaEntry, cursor string, hasMore bool) FeedPage {
	return FeedPage{
		Entries: entries,
		Cursor:  cursor,
		HasMore: hasMore && cursor != "",
	}
}
