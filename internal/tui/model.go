package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orgball2608/insta-viewer/internal/domain"
	"github.com/orgball2608/insta-viewer/internal/navigation"
	"github.com/orgball2608/insta-viewer/internal/session"
	"github.com/orgball2608/insta-viewer/pkg/formatter"
)

// PlaceholderURL stands in for media without a usable URL.
const PlaceholderURL = "https://via.placeholder.com/800x800?text=No+Image"

const (
	maxUsernameLen = 30
	headerRows     = 12
	minListRows    = 3
)

type Session interface {
	Navigate(ctx context.Context, username string) error
	Move(dir navigation.Direction) navigation.Transition
	Select(entry int) navigation.Transition
	FetchNextPage(ctx context.Context) (int, error)
	ScrollSignal(distance int)
	ProxiedURL(raw string) string
	State() session.State
}

// SessionChanged tells the program the session state moved underneath it.
type SessionChanged struct{}

type searchDoneMsg struct {
	err error
}

type fetchDoneMsg struct {
	added int
	err   error
}

type openURLMsg struct {
	status string
}

type action func(m Model) (Model, tea.Cmd)

type Model struct {
	sess    Session
	ctx     context.Context
	keys    map[string]action
	initial string

	editing bool
	input   []rune

	listTop int
	width   int
	height  int
	status  string

	openURLFn func(string) error
}

// NewModel builds the viewer. A non-empty username is searched on start.
func NewModel(ctx context.Context, sess Session, username string) Model {
	return Model{
		sess:      sess,
		ctx:       ctx,
		keys:      defaultKeys(),
		initial:   username,
		height:    headerRows + 10,
		openURLFn: openURLInBrowser,
	}
}

func defaultKeys() map[string]action {
	move := func(dir navigation.Direction) action {
		return func(m Model) (Model, tea.Cmd) { return m.move(dir) }
	}
	quit := func(m Model) (Model, tea.Cmd) { return m, tea.Quit }

	keys := map[string]action{
		"left":   move(navigation.Previous),
		"h":      move(navigation.Previous),
		"right":  move(navigation.Next),
		"l":      move(navigation.Next),
		"up":     move(navigation.Up),
		"k":      move(navigation.Up),
		"down":   move(navigation.Down),
		"j":      move(navigation.Down),
		"home":   move(navigation.First),
		"g":      move(navigation.First),
		"end":    move(navigation.Last),
		"G":      move(navigation.Last),
		"/":      Model.startEditing,
		"o":      Model.openCurrent,
		"q":      quit,
		"ctrl+c": quit,
	}
	for row := 1; row <= 9; row++ {
		row := row
		keys[fmt.Sprint(row)] = func(m Model) (Model, tea.Cmd) { return m.selectRow(row - 1) }
	}
	return keys
}

func (m Model) Init() tea.Cmd {
	if m.initial == "" {
		return nil
	}
	return navigateCmd(m.ctx, m.sess, m.initial)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.follow()
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		if act, ok := m.keys[msg.String()]; ok {
			return act(m)
		}
		return m, nil
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case SessionChanged:
		// Keep the wheel position, only pull the window back inside the feed.
		m.clampTop(m.sess.State().Feed.Len())
		return m, nil
	case searchDoneMsg:
		m.listTop = 0
		m.status = ""
		return m, nil
	case fetchDoneMsg:
		if msg.err != nil {
			m.status = "Could not load more posts"
		}
		return m, nil
	case openURLMsg:
		m.status = msg.status
		return m, nil
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.editing = false
		m.input = nil
		return m, nil
	case "enter":
		m.editing = false
		username := strings.TrimSpace(string(m.input))
		m.input = nil
		return m, navigateCmd(m.ctx, m.sess, username)
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	}

	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if len(m.input) < maxUsernameLen {
				m.input = append(m.input, r)
			}
		}
	}
	return m, nil
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	total := m.sess.State().Feed.Len()
	switch msg.Button {
	case tea.MouseButtonWheelDown:
		if m.listTop+m.listRows() < total {
			m.listTop++
		}
		m.sess.ScrollSignal(m.remainingRows(total))
	case tea.MouseButtonWheelUp:
		if m.listTop > 0 {
			m.listTop--
		}
	}
	return m, nil
}

func (m Model) move(dir navigation.Direction) (Model, tea.Cmd) {
	t := m.sess.Move(dir)
	m.follow()
	if t.Prefetch {
		return m, fetchCmd(m.ctx, m.sess)
	}
	return m, nil
}

// selectRow jumps to the entry shown on the given row of the thumbnail window.
func (m Model) selectRow(row int) (Model, tea.Cmd) {
	if row >= m.listRows() {
		return m, nil
	}
	m.sess.Select(m.listTop + row)
	m.follow()
	return m, nil
}

func (m Model) startEditing() (Model, tea.Cmd) {
	m.editing = true
	m.input = []rune(m.sess.State().Username)
	return m, nil
}

func (m Model) openCurrent() (Model, tea.Cmd) {
	_, item, ok := m.sess.State().Current()
	if !ok {
		return m, nil
	}
	return m, openURLCmd(m.mediaURL(item), m.openURLFn)
}

// mediaURL is the proxied URL of an item, or the placeholder when the item has none.
func (m Model) mediaURL(item domain.MediaItem) string {
	src := item.SourceURL()
	if src == "" {
		return PlaceholderURL
	}
	return m.sess.ProxiedURL(src)
}

// follow scrolls the thumbnail window so the selected entry stays visible.
func (m *Model) follow() {
	st := m.sess.State()
	rows := m.listRows()
	selected := st.Position.Entry

	if selected < m.listTop {
		m.listTop = selected
	}
	if selected >= m.listTop+rows {
		m.listTop = selected - rows + 1
	}
	m.clampTop(st.Feed.Len())
}

func (m *Model) clampTop(total int) {
	if maxTop := total - m.listRows(); m.listTop > maxTop {
		m.listTop = maxTop
	}
	if m.listTop < 0 {
		m.listTop = 0
	}
}

func (m Model) listRows() int {
	if rows := m.height - headerRows; rows > minListRows {
		return rows
	}
	return minListRows
}

func (m Model) remainingRows(total int) int {
	if rest := total - (m.listTop + m.listRows()); rest > 0 {
		return rest
	}
	return 0
}

func (m Model) View() string {
	st := m.sess.State()
	var b strings.Builder

	b.WriteString("Instagram Viewer\n")
	if m.editing {
		fmt.Fprintf(&b, "Username: %s█\n", string(m.input))
	} else {
		fmt.Fprintf(&b, "Username: %s\n", st.Username)
	}
	b.WriteString("\n")

	switch {
	case st.Loading:
		b.WriteString("Loading...\n")
	case st.Profile != nil:
		b.WriteString(m.profileView(st))
		b.WriteString("\n")
		b.WriteString(m.lightboxView(st))
		b.WriteString("\n")
		b.WriteString(m.thumbnailsView(st))
	default:
		b.WriteString("Press / to look up a profile.\n")
	}

	b.WriteString("\n")
	if st.Err != "" {
		b.WriteString("Error: " + st.Err + "\n")
	} else if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString("←/→: prev/next | ↑/↓: entry | 1-9: pick | g/G: first/last | /: username | o: open | q: quit\n")
	return b.String()
}

func (m Model) profileView(st session.State) string {
	p := st.Profile
	var b strings.Builder

	name := p.FullName
	if name == "" {
		name = p.Username
	}
	fmt.Fprintf(&b, "%s (@%s)", name, p.Username)
	if p.IsVerified {
		b.WriteString(" ✓")
	}
	if p.IsPrivate {
		b.WriteString(" [private]")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s posts  %s followers  %s following\n",
		formatter.FormatNumber(p.PostCount),
		formatter.FormatNumber(p.FollowerCount),
		formatter.FormatNumber(p.FollowingCount),
	)
	if p.Biography != "" {
		b.WriteString(formatter.Truncate(p.Biography, m.lineWidth()) + "\n")
	}
	if p.AvatarURL != "" {
		b.WriteString("Avatar: " + m.sess.ProxiedURL(p.AvatarURL) + "\n")
	}
	return b.String()
}

func (m Model) lightboxView(st session.State) string {
	entry, item, ok := st.Current()
	if !ok {
		return "No posts.\n"
	}

	var b strings.Builder
	prev, next := " ", " "
	if st.CanPrevious() {
		prev = "←"
	}
	if st.CanNext() {
		next = "→"
	}
	fmt.Fprintf(&b, "%s Post %s %s", prev, formatter.Counter(st.Position.Entry, st.Feed.Len()), next)
	if entry.Len() > 1 {
		fmt.Fprintf(&b, "  item %s", formatter.Counter(st.Position.Item, entry.Len()))
	}
	b.WriteString("\n")

	kind := "Photo"
	if item.IsVideo {
		kind = "Video"
	}
	fmt.Fprintf(&b, "%s: %s\n", kind, formatter.Truncate(m.mediaURL(item), m.lineWidth()))
	return b.String()
}

func (m Model) thumbnailsView(st session.State) string {
	var b strings.Builder
	total := st.Feed.Len()
	end := m.listTop + m.listRows()
	if end > total {
		end = total
	}

	for i := m.listTop; i < end; i++ {
		entry := st.Feed.Entries[i]
		marker := " "
		if i == st.Position.Entry {
			marker = ">"
		}
		label := "photo"
		switch {
		case entry.Len() > 1:
			label = fmt.Sprintf("carousel of %d", entry.Len())
		case entry.Cover().IsVideo:
			label = "video"
		}
		fmt.Fprintf(&b, "%s %s %3d. %-14s %s\n", marker, rowKey(i-m.listTop), i+1, label, entry.EntryID())
	}

	if st.Feed.InFlight {
		b.WriteString("Loading more...\n")
	} else if rest := total - end; rest > 0 {
		fmt.Fprintf(&b, "  … %d more\n", rest)
	}
	return b.String()
}

// rowKey labels the rows that a digit key can select.
func rowKey(row int) string {
	if row < 9 {
		return fmt.Sprintf("%d)", row+1)
	}
	return "  "
}

func (m Model) lineWidth() int {
	if m.width > 0 {
		return m.width
	}
	return 80
}

// navigateCmd searches username, or clears the session when it is empty.
func navigateCmd(ctx context.Context, sess Session, username string) tea.Cmd {
	return func() tea.Msg {
		return searchDoneMsg{err: sess.Navigate(ctx, username)}
	}
}

func fetchCmd(ctx context.Context, sess Session) tea.Cmd {
	return func() tea.Msg {
		n, err := sess.FetchNextPage(ctx)
		return fetchDoneMsg{added: n, err: err}
	}
}

func openURLCmd(url string, openFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return openURLMsg{status: "Opened " + url}
			}
		}
		return openURLMsg{status: "Could not open browser: " + url}
	}
}

func openURLInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Run()
}
