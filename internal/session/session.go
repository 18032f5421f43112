package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/insta-viewer/internal/domain"
	"github.com/orgball2608/insta-viewer/internal/feed"
	"github.com/orgball2608/insta-viewer/internal/navigation"
	"github.com/orgball2608/insta-viewer/internal/relay"
	"github.com/orgball2608/insta-viewer/pkg/logger"
)

// User-visible messages.
const (
	MsgInvalidUsername = "Username can only contain letters, numbers, underscores, and periods"
	MsgFetchFailed     = "Error fetching profile data"
)

var (
	ErrInvalidUsername = errors.New("invalid username")
	// ErrSuperseded is returned by Search when another search or Clear happened while it was in flight.
	ErrSuperseded = errors.New("search superseded")
)

const (
	DefaultScrollDebounce  = 150 * time.Millisecond
	DefaultScrollThreshold = 3
)

type Opts struct {
	Relay  relay.Client
	Logger logger.Logger
	// Clock drives the scroll debounce. Defaults to the real clock.
	Clock           clockwork.Clock
	PageSize        int
	ScrollDebounce  time.Duration
	ScrollThreshold int
}

// Session is the state of one viewer: the profile being looked at, its feed and the lightbox position.
type Session struct {
	mu     sync.Mutex
	relay  relay.Client
	logger logger.Logger
	feed   *feed.Feed
	nav    *navigation.Navigator
	scroll *navigation.ScrollTrigger

	ctx    context.Context
	cancel context.CancelFunc

	username   string
	profile    *domain.Profile
	loading    bool
	errMsg     string
	generation uint64
	onChange   func()
}

func New(opts Opts) *Session {
	if opts.ScrollDebounce <= 0 {
		opts.ScrollDebounce = DefaultScrollDebounce
	}
	if opts.ScrollThreshold <= 0 {
		opts.ScrollThreshold = DefaultScrollThreshold
	}
	log := opts.Logger.WithComponent("session")

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		relay:  opts.Relay,
		logger: log,
		feed:   feed.New(opts.Relay, opts.PageSize, opts.Logger),
		nav:    navigation.New(),
		scroll: navigation.NewScrollTrigger(opts.Clock, opts.ScrollDebounce, opts.ScrollThreshold),
		ctx:    ctx,
		cancel: cancel,
	}
}

// OnChange registers fn to be called after every state change. fn must not block.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Search validates username and loads its profile and first feed page.
// A response replaces whatever the session showed before, success or failure.
func (s *Session) Search(ctx context.Context, username string) error {
	if !domain.ValidUsername(username) {
		s.update(func() { s.errMsg = MsgInvalidUsername })
		return ErrInvalidUsername
	}

	var gen uint64
	s.update(func() {
		s.generation++
		gen = s.generation
		s.username = username
		s.errMsg = ""
		s.loading = true
	})

	res, err := s.relay.Profile(ctx, username)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("Discarding superseded profile response", "username", username)
		return ErrSuperseded
	}

	s.loading = false
	s.nav.Reset()
	if err != nil {
		s.profile = nil
		s.feed.Clear()
		s.errMsg = MsgFetchFailed
	} else {
		profile := res.Profile
		s.profile = &profile
		s.feed.Initialize(profile.ID, res.FirstPage)
	}
	notify := s.onChange
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Profile fetch failed", "username", username, "error", err)
	} else {
		s.logger.Info("Profile loaded", "username", username, "entries", len(res.FirstPage.Entries), "has_more", res.FirstPage.HasMore)
	}
	if notify != nil {
		notify()
	}
	return err
}

// Navigate follows a change of the target username. An empty username clears the session.
func (s *Session) Navigate(ctx context.Context, username string) error {
	if username == "" {
		s.Clear()
		return nil
	}
	return s.Search(ctx, username)
}

// Clear drops the profile and feed. Responses still in flight are discarded.
func (s *Session) Clear() {
	s.scroll.Stop()
	s.update(func() {
		s.generation++
		s.username = ""
		s.profile = nil
		s.loading = false
		s.errMsg = ""
		s.feed.Clear()
		s.nav.Reset()
	})
}

// Move applies a directional input. When the returned transition asks for a prefetch
// the caller is expected to run FetchNextPage.
func (s *Session) Move(dir navigation.Direction) navigation.Transition {
	t := s.nav.Move(s.feed.Snapshot(), dir)
	if t.Moved() {
		s.notify()
	}
	return t
}

// Select jumps to a feed entry.
func (s *Session) Select(entry int) navigation.Transition {
	t := s.nav.Select(s.feed.Snapshot(), entry)
	if t.Moved() {
		s.notify()
	}
	return t
}

// FetchNextPage loads one more page of the current feed if one is available and none is in flight.
func (s *Session) FetchNextPage(ctx context.Context) (int, error) {
	if !s.feed.CanFetch() {
		return 0, nil
	}
	s.notify() // in-flight indicator

	n, err := s.feed.FetchNextPage(ctx)
	if errors.Is(err, feed.ErrStale) {
		return 0, err
	}
	s.notify()
	return n, err
}

// ScrollSignal reports how far the thumbnail list is from its end. Bursts of signals are
// debounced and a fetch runs once the list settles close enough to the end.
func (s *Session) ScrollSignal(distance int) {
	if s.feed.Snapshot().InFlight {
		return
	}
	s.scroll.Signal(distance, func() {
		if _, err := s.FetchNextPage(s.ctx); err != nil && !errors.Is(err, feed.ErrStale) {
			s.logger.Debug("Scroll triggered fetch failed", "error", err)
		}
	})
}

// ProxiedURL routes a media URL through the relay image proxy.
func (s *Session) ProxiedURL(raw string) string {
	return s.relay.ImageURL(raw)
}

// Close stops pending scroll work and cancels scroll-triggered fetches.
func (s *Session) Close() {
	s.scroll.Stop()
	s.cancel()
}

func (s *Session) State() State {
	s.mu.Lock()
	st := State{
		Username: s.username,
		Loading:  s.loading,
		Err:      s.errMsg,
	}
	if s.profile != nil {
		profile := *s.profile
		st.Profile = &profile
	}
	s.mu.Unlock()

	st.Feed = s.feed.Snapshot()
	st.Position = clampPosition(s.nav.Position(), st.Feed)
	return st
}

func (s *Session) update(fn func()) {
	s.mu.Lock()
	fn()
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}

func (s *Session) notify() {
	s.update(func() {})
}

func clampPosition(pos domain.Position, f feed.Snapshot) domain.Position {
	if pos.Entry < 0 || pos.Entry >= f.Len() {
		return domain.Position{}
	}
	if pos.Item < 0 || pos.Item >= f.ItemCount(pos.Entry) {
		pos.Item = 0
	}
	return pos
}
