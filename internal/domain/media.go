package domain

type MediaItem struct {
	DisplayURL string
	IsVideo    bool
	VideoURL   string
}

// SourceURL is the URL to play or show: the video for videos that have one, the image otherwise.
func (m MediaItem) SourceURL() string {
	if m.IsVideo && m.VideoURL != "" {
		return m.VideoURL
	}
	return m.DisplayURL
}

// MediaEntry is one post of a feed. It is either a Single or a Carousel.
type MediaEntry interface {
	EntryID() string
	// Cover is what the thumbnail list shows.
	Cover() MediaItem
	// Len is the number of browsable items, always at least 1.
	Len() int
	Item(i int) MediaItem

	isMediaEntry()
}

type Single struct {
	ID    string
	Media MediaItem
}

func (s Single) EntryID() string    { return s.ID }
func (s Single) Cover() MediaItem   { return s.Media }
func (s Single) Len() int           { return 1 }
func (s Single) Item(int) MediaItem { return s.Media }
func (Single) isMediaEntry()        {}

type Carousel struct {
	ID        string
	Thumbnail MediaItem
	Items     []MediaItem
}

// NewEntry builds a Carousel when children are present and a Single otherwise.
func NewEntry(id string, cover MediaItem, children []MediaItem) MediaEntry {
	if len(children) == 0 {
		return Single{ID: id, Media: cover}
	}
	return Carousel{ID: id, Thumbnail: cover, Items: children}
}

func (c Carousel) EntryID() string  { return c.ID }
func (c Carousel) Cover() MediaItem { return c.Thumbnail }
func (c Carousel) Len() int         { return len(c.Items) }

func (c Carousel) Item(i int) MediaItem {
	if i < 0 || i >= len(c.Items) {
		return c.Thumbnail
	}
	return c.Items[i]
}

func (Carousel) isMediaEntry() {}

// Position is the lightbox cursor: the feed entry and, for carousels, the item inside it.
type Position struct {
	Entry int
	Item  int
}
