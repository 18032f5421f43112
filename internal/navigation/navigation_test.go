package navigation

import (
	"math/rand"
	"testing"

	"github.com/orgball2608/insta-viewer/internal/domain"
)

// stubFeed has len(items) entries; items[i] is the carousel size of entry i.
type stubFeed struct {
	items    []int
	canFetch bool
}

func (s stubFeed) Len() int { return len(s.items) }
func (s stubFeed) ItemCount(i int) int {
	if i < 0 || i >= len(s.items) {
		return 0
	}
	return s.items[i]
}
func (s stubFeed) CanFetch() bool { return s.canFetch }

func singles(n int, canFetch bool) stubFeed {
	items := make([]int, n)
	for i := range items {
		items[i] = 1
	}
	return stubFeed{items: items, canFetch: canFetch}
}

func pos(entry, item int) domain.Position {
	return domain.Position{Entry: entry, Item: item}
}

func TestMove_NextWalksCarouselThenEntries(t *testing.T) {
	f := stubFeed{items: []int{3, 1, 1}}
	n := New()

	want := []domain.Position{pos(0, 1), pos(0, 2), pos(1, 0), pos(2, 0), pos(2, 0)}
	for i, w := range want {
		if got := n.Move(f, Next).To; got != w {
			t.Fatalf("step %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestMove_PreviousResetsItemOnEntryChange(t *testing.T) {
	f := stubFeed{items: []int{3, 2}}
	n := New()
	n.Move(f, Next)
	n.Move(f, Next)
	n.Move(f, Next)
	n.Move(f, Next) // (1,1)

	want := []domain.Position{pos(1, 0), pos(0, 0), pos(0, 0)}
	for i, w := range want {
		tr := n.Move(f, Previous)
		if tr.To != w {
			t.Fatalf("step %d: expected %+v, got %+v", i, w, tr.To)
		}
		if tr.Prefetch {
			t.Fatalf("step %d: previous must never prefetch", i)
		}
	}
}

func TestMove_UpDown(t *testing.T) {
	f := stubFeed{items: []int{3, 2, 1}}
	n := New()
	n.Move(f, Next) // (0,1)

	if got := n.Move(f, Down).To; got != pos(1, 0) {
		t.Fatalf("down: expected (1,0), got %+v", got)
	}
	if got := n.Move(f, Down).To; got != pos(2, 0) {
		t.Fatalf("down: expected (2,0), got %+v", got)
	}
	if got := n.Move(f, Up).To; got != pos(1, 0) {
		t.Fatalf("up: expected (1,0), got %+v", got)
	}
	n.Move(f, Next) // (1,1)
	n.Move(f, Up)
	if got := n.Move(f, Up).To; got != pos(0, 0) {
		t.Fatalf("up at top: expected (0,0), got %+v", got)
	}
}

func TestMove_FirstLast(t *testing.T) {
	f := singles(5, false)
	n := New()

	if got := n.Move(f, Last).To; got != pos(4, 0) {
		t.Fatalf("last: expected (4,0), got %+v", got)
	}
	if got := n.Move(f, First).To; got != pos(0, 0) {
		t.Fatalf("first: expected (0,0), got %+v", got)
	}
}

func TestMove_PrefetchOnlyFromSecondToLast(t *testing.T) {
	const length = 6
	for start := 0; start < length-1; start++ {
		f := singles(length, true)
		n := New()
		n.Select(f, start)

		tr := n.Move(f, Next)
		wantPrefetch := start == length-2
		if tr.Prefetch != wantPrefetch {
			t.Errorf("from %d: expected prefetch=%v, got %v", start, wantPrefetch, tr.Prefetch)
		}
	}
}

func TestMove_NoPrefetchWhenFeedCannotFetch(t *testing.T) {
	f := singles(3, false)
	n := New()
	n.Select(f, 1)

	tr := n.Move(f, Next)
	if tr.Prefetch {
		t.Fatal("expected no prefetch when nothing more can be loaded")
	}

	tr = n.Move(f, Next)
	if tr.Moved() || tr.Prefetch {
		t.Fatalf("expected idempotent no-op at the end, got %+v", tr)
	}
}

func TestMove_NextAtEndRequestsMore(t *testing.T) {
	f := singles(2, true)
	n := New()
	n.Select(f, 1)

	tr := n.Move(f, Next)
	if tr.Moved() || !tr.Prefetch {
		t.Fatalf("expected to stay put and prefetch, got %+v", tr)
	}
}

func TestMove_CarouselStepDoesNotPrefetch(t *testing.T) {
	f := stubFeed{items: []int{1, 3}, canFetch: true}
	n := New()
	n.Select(f, 1)

	if tr := n.Move(f, Next); tr.Prefetch || tr.To != pos(1, 1) {
		t.Fatalf("expected carousel step without prefetch, got %+v", tr)
	}
}

func TestMove_EmptyFeedIsNoOp(t *testing.T) {
	n := New()
	for _, d := range []Direction{Previous, Next, Up, Down, First, Last} {
		tr := n.Move(stubFeed{canFetch: true}, d)
		if tr.Moved() || tr.Prefetch || tr.To != pos(0, 0) {
			t.Fatalf("%s: expected no-op, got %+v", d, tr)
		}
	}
}

func TestSelect_IgnoresOutOfRange(t *testing.T) {
	f := singles(3, false)
	n := New()
	n.Select(f, 2)

	if tr := n.Select(f, 7); tr.Moved() {
		t.Fatalf("expected out of range select to be ignored, got %+v", tr)
	}
	if got := n.Position(); got != pos(2, 0) {
		t.Fatalf("expected (2,0), got %+v", got)
	}
}

func TestMove_ClampsAfterFeedShrinks(t *testing.T) {
	n := New()
	n.Select(singles(5, false), 4)

	tr := n.Move(singles(2, false), Previous)
	if tr.From != pos(1, 0) || tr.To != pos(0, 0) {
		t.Fatalf("expected clamp to the shorter feed, got %+v", tr)
	}
}

func TestMove_StaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	dirs := []Direction{Previous, Next, Up, Down, First, Last}

	for run := 0; run < 50; run++ {
		items := make([]int, 1+rng.Intn(8))
		for i := range items {
			items[i] = 1 + rng.Intn(4)
		}
		f := stubFeed{items: items, canFetch: rng.Intn(2) == 0}
		n := New()

		for step := 0; step < 200; step++ {
			p := n.Move(f, dirs[rng.Intn(len(dirs))]).To
			if p.Entry < 0 || p.Entry >= f.Len() || p.Item < 0 || p.Item >= f.ItemCount(p.Entry) {
				t.Fatalf("run %d step %d: position %+v out of bounds for %v", run, step, p, items)
			}
		}
	}
}
