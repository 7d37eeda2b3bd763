package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/newsroomhq/newsroom/internal/api"
	"github.com/newsroomhq/newsroom/internal/errors"
	"github.com/newsroomhq/newsroom/internal/flow"
)

const newsPageSize = 6

// newsPageMsg carries one fetched page of articles
type newsPageMsg struct {
	page    *api.NewsPage
	pageNum int
	err     error
}

// newsDeletedMsg reports an article deletion
type newsDeletedMsg struct {
	err error
}

// profileRefreshedMsg reports the advisory profile refetch finishing
type profileRefreshedMsg struct{}

// newsListScreen is the landing screen: a paged article list. Journalists get
// publishing affordances and authors can edit or delete their own articles;
// all of it advisory, the backend re-checks every action.
type newsListScreen struct {
	*shared

	items      []api.News
	page       int
	totalPages int
	cursor     int

	confirmDelete bool
	loading       bool
	errMsg        string
}

func newNewsListScreen(s *shared) *newsListScreen {
	return &newsListScreen{shared: s, loading: true}
}

func (m *newsListScreen) init() tea.Cmd {
	return tea.Batch(m.fetchPage(m.page), m.refreshProfile())
}

func (m *newsListScreen) fetchPage(page int) tea.Cmd {
	return func() tea.Msg {
		result, err := m.api.ListNews(context.Background(), page, newsPageSize)
		return newsPageMsg{page: result, pageNum: page, err: err}
	}
}

// refreshProfile keeps the role-based affordances current
func (m *newsListScreen) refreshProfile() tea.Cmd {
	return func() tea.Msg {
		m.session.RefreshProfile(context.Background())
		return profileRefreshedMsg{}
	}
}

func (m *newsListScreen) update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case newsPageMsg:
		m.loading = false
		if msg.err != nil {
			if errors.IsSessionExpired(msg.err) {
				return m, nil
			}
			m.log.WithError(msg.err).Warn("loading news failed")
			m.errMsg = "Could not load the news. Please retry."
			return m, nil
		}
		m.errMsg = ""
		m.items = msg.page.News
		m.totalPages = msg.page.TotalPages
		m.page = msg.pageNum
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}
		return m, nil

	case newsDeletedMsg:
		if msg.err != nil && !errors.IsSessionExpired(msg.err) {
			m.log.WithError(msg.err).Warn("deleting news failed")
			m.errMsg = "Could not delete the article."
			return m, nil
		}
		return m, m.fetchPage(m.page)

	case profileRefreshedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *newsListScreen) handleKey(msg tea.KeyMsg) (screenModel, tea.Cmd) {
	if m.confirmDelete {
		switch msg.String() {
		case "y":
			m.confirmDelete = false
			id := m.items[m.cursor].ID
			return m, func() tea.Msg {
				return newsDeletedMsg{err: m.api.DeleteNews(context.Background(), id)}
			}
		default:
			m.confirmDelete = false
		}
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "l", "right":
		if m.page < m.totalPages-1 {
			m.loading = true
			return m, m.fetchPage(m.page + 1)
		}

	case "h", "left":
		if m.page > 0 {
			m.loading = true
			return m, m.fetchPage(m.page - 1)
		}

	case "enter":
		if len(m.items) > 0 {
			return m, navigate(flow.NewsRoute(m.items[m.cursor].ID))
		}

	case "n":
		if m.isJournalist() {
			return m, navigate(flow.RouteNewsCreate)
		}

	case "e":
		if m.ownsSelected() {
			return m, navigate(flow.NewsEditRoute(m.items[m.cursor].ID))
		}

	case "d":
		if m.ownsSelected() {
			m.confirmDelete = true
		}

	case "p":
		return m, navigate(flow.RouteProfile)

	case "q":
		m.session.Close()
		return m, tea.Quit

	case "ctrl+l":
		m.flow.Logout()
		return m, navigate(flow.RouteAuth)
	}
	return m, nil
}

func (m *newsListScreen) isJournalist() bool {
	user := m.session.User()
	return user != nil && user.Role == api.RoleJournalist
}

func (m *newsListScreen) ownsSelected() bool {
	user := m.session.User()
	return user != nil && len(m.items) > 0 && m.items[m.cursor].Author == user.Username
}

func (m *newsListScreen) view(width int) string {
	var b strings.Builder

	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg) + "\n\n")
	}
	if m.loading {
		b.WriteString(m.styles.Muted.Render("Loading..."))
		return b.String()
	}
	if len(m.items) == 0 {
		b.WriteString(m.styles.Muted.Render("No news yet."))
		return b.String()
	}

	for i, n := range m.items {
		title := n.Title
		if i == m.cursor {
			title = m.styles.Highlighted.Render(title)
		}
		b.WriteString(title + "\n")
		b.WriteString(m.styles.Muted.Render(
			fmt.Sprintf("  %s by %s", n.Time.Format("Jan 2, 2006 15:04"), n.Author)))
		b.WriteString("\n")
	}

	b.WriteString("\n" + m.styles.Muted.Render(
		fmt.Sprintf("Page %d of %d", m.page+1, max(m.totalPages, 1))))

	if m.confirmDelete {
		b.WriteString("\n\n" + m.styles.Error.Render("Delete this article? y/n"))
	}

	return b.String()
}

func (m *newsListScreen) help() string {
	base := "j/k move • h/l page • enter open • p profile • ctrl+l logout • q quit"
	if m.isJournalist() {
		base = "n new • e edit • d delete • " + base
	}
	return base
}
