package navigation

import (
	"sync"

	"github.com/orgball2608/insta-viewer/internal/domain"
)

type Direction int

const (
	Previous Direction = iota
	Next
	Up   // previous entry, first item
	Down // next entry, skipping the rest of a carousel
	First
	Last
)

func (d Direction) String() string {
	switch d {
	case Previous:
		return "previous"
	case Next:
		return "next"
	case Up:
		return "up"
	case Down:
		return "down"
	case First:
		return "first"
	case Last:
		return "last"
	default:
		return "unknown"
	}
}

// Feed is what the navigator needs to know about the loaded timeline.
type Feed interface {
	Len() int
	ItemCount(entry int) int
	CanFetch() bool
}

// Transition describes the effect of one input. Prefetch asks the caller to load the next page.
type Transition struct {
	From     domain.Position
	To       domain.Position
	Prefetch bool
}

func (t Transition) Moved() bool { return t.From != t.To }

type move func(pos domain.Position, f Feed) domain.Position

var moves = map[Direction]move{
	Previous: movePrevious,
	Next:     moveNext,
	Up:       moveUp,
	Down:     moveDown,
	First:    func(domain.Position, Feed) domain.Position { return domain.Position{} },
	Last: func(_ domain.Position, f Feed) domain.Position {
		return domain.Position{Entry: f.Len() - 1}
	},
}

// forward directions may ask for the next page once the last loaded entry is reached.
var forward = map[Direction]bool{Next: true, Down: true, Last: true}

// Navigator holds the lightbox position within a feed.
type Navigator struct {
	mu  sync.Mutex
	pos domain.Position
}

func New() *Navigator {
	return &Navigator{}
}

func (n *Navigator) Position() domain.Position {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pos
}

// Reset goes back to the first item of the first entry.
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pos = domain.Position{}
}

// Move applies dir against f. On an empty feed every move is a no-op.
func (n *Navigator) Move(f Feed, dir Direction) Transition {
	n.mu.Lock()
	defer n.mu.Unlock()

	from := clamp(n.pos, f)
	t := Transition{From: from, To: from}

	length := f.Len()
	m, ok := moves[dir]
	if !ok || length == 0 {
		return t
	}

	t.To = clamp(m(from, f), f)
	n.pos = t.To

	// Carousel steps stay inside one entry and never load more.
	if forward[dir] && (t.To.Entry != from.Entry || t.To == from || dir == Last) {
		t.Prefetch = t.To.Entry >= length-1 && f.CanFetch()
	}
	return t
}

// Select jumps to an entry, as a thumbnail click does. Out of range indexes are ignored.
func (n *Navigator) Select(f Feed, entry int) Transition {
	n.mu.Lock()
	defer n.mu.Unlock()

	from := clamp(n.pos, f)
	t := Transition{From: from, To: from}
	if entry < 0 || entry >= f.Len() {
		return t
	}

	t.To = domain.Position{Entry: entry}
	n.pos = t.To
	return t
}

func movePrevious(pos domain.Position, _ Feed) domain.Position {
	if pos.Item > 0 {
		return domain.Position{Entry: pos.Entry, Item: pos.Item - 1}
	}
	if pos.Entry > 0 {
		return domain.Position{Entry: pos.Entry - 1}
	}
	return pos
}

func moveNext(pos domain.Position, f Feed) domain.Position {
	if pos.Item < f.ItemCount(pos.Entry)-1 {
		return domain.Position{Entry: pos.Entry, Item: pos.Item + 1}
	}
	if pos.Entry < f.Len()-1 {
		return domain.Position{Entry: pos.Entry + 1}
	}
	return pos
}

func moveUp(pos domain.Position, _ Feed) domain.Position {
	if pos.Entry > 0 {
		return domain.Position{Entry: pos.Entry - 1}
	}
	return domain.Position{}
}

func moveDown(pos domain.Position, f Feed) domain.Position {
	if pos.Entry < f.Len()-1 {
		return domain.Position{Entry: pos.Entry + 1}
	}
	return pos
}

// clamp pulls pos back inside f. An empty feed maps everything to the zero position.
func clamp(pos domain.Position, f Feed) domain.Position {
	length := f.Len()
	if length == 0 {
		return domain.Position{}
	}
	if pos.Entry < 0 {
		pos.Entry = 0
	}
	if pos.Entry >= length {
		pos = domain.Position{Entry: length - 1}
	}

	items := f.ItemCount(pos.Entry)
	if items < 1 {
		items = 1
	}
	if pos.Item < 0 || pos.Item >= items {
		pos.Item = 0
	}
	return pos
}
