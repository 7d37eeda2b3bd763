package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/newsroomhq/newsroom/internal/api"
	"github.com/newsroomhq/newsroom/internal/errors"
	"github.com/newsroomhq/newsroom/internal/flow"
)

// detailLoadedMsg carries an article and its comments
type detailLoadedMsg struct {
	news     *api.News
	comments []api.Comment
	err      error
}

// commentActedMsg reports a comment mutation (add/edit/delete/like)
type commentActedMsg struct {
	err error
}

// detailScreen shows one article with its comments. Subscribers can comment
// and like; comment authors can edit and delete. A 404 anywhere flips the
// screen to the deleted banner instead of surfacing a generic error.
type detailScreen struct {
	*shared

	id       int64
	news     *api.News
	comments []api.Comment
	cursor   int

	composing bool
	input     textinput.Model

	editingID int64
	editInput textinput.Model

	confirmDelete bool
	deleted       bool
	loading       bool
	errMsg        string
}

func newDetailScreen(s *shared, id int64) *detailScreen {
	input := textinput.New()
	input.Placeholder = "Add a comment..."
	input.CharLimit = 500

	editInput := textinput.New()
	editInput.CharLimit = 500

	return &detailScreen{
		shared:    s,
		id:        id,
		input:     input,
		editInput: editInput,
		loading:   true,
	}
}

func (m *detailScreen) init() tea.Cmd {
	return m.fetch()
}

func (m *detailScreen) fetch() tea.Cmd {
	return func() tea.Msg {
		news, err := m.api.GetNews(context.Background(), m.id)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		page, err := m.api.ListComments(context.Background(), m.id, 0, 50)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		return detailLoadedMsg{news: news, comments: page.Comments}
	}
}

func (m *detailScreen) update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.absorb(msg.err)
		}
		m.errMsg = ""
		m.news = msg.news
		m.comments = msg.comments
		if m.cursor >= len(m.comments) {
			m.cursor = 0
		}
		return m, nil

	case commentActedMsg:
		if msg.err != nil {
			return m, m.absorb(msg.err)
		}
		return m, m.fetch()

	case tea.KeyMsg:
		if m.deleted {
			if msg.String() == "esc" || msg.String() == "enter" {
				return m, navigate(flow.RouteHome)
			}
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// absorb applies the screen's error policy: a vanished article becomes the
// banner, an expired session is already handled, everything else is generic.
func (m *detailScreen) absorb(err error) tea.Cmd {
	switch {
	case errors.IsNotFound(err):
		m.deleted = true
	case errors.IsSessionExpired(err):
	default:
		m.log.WithError(err).Warn("news detail action failed")
		m.errMsg = "Something went wrong. Please retry."
	}
	return nil
}

func (m *detailScreen) handleKey(msg tea.KeyMsg) (screenModel, tea.Cmd) {
	if m.composing {
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				m.errMsg = "Comment cannot be empty"
				return m, nil
			}
			m.errMsg = ""
			m.composing = false
			m.input.Blur()
			m.input.SetValue("")
			return m, func() tea.Msg {
				return commentActedMsg{err: m.api.AddComment(context.Background(), m.id, text)}
			}
		case "esc":
			m.composing = false
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if m.editingID != 0 {
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.editInput.Value())
			if text == "" {
				m.errMsg = "Edited text cannot be empty"
				return m, nil
			}
			m.errMsg = ""
			id := m.editingID
			m.editingID = 0
			m.editInput.Blur()
			return m, func() tea.Msg {
				return commentActedMsg{err: m.api.UpdateComment(context.Background(), m.id, id, text)}
			}
		case "esc":
			m.editingID = 0
			m.editInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.editInput, cmd = m.editInput.Update(msg)
		return m, cmd
	}

	if m.confirmDelete {
		if msg.String() == "y" && m.ownsSelected() {
			id := m.comments[m.cursor].ID
			m.confirmDelete = false
			return m, func() tea.Msg {
				return commentActedMsg{err: m.api.DeleteComment(context.Background(), m.id, id)}
			}
		}
		m.confirmDelete = false
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, navigate(flow.RouteHome)

	case "j", "down":
		if m.cursor < len(m.comments)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "c":
		if m.isSubscriber() {
			m.composing = true
			m.input.Focus()
			return m, textinput.Blink
		}

	case "l":
		if len(m.comments) > 0 {
			return m, m.toggleLike(m.comments[m.cursor])
		}

	case "e":
		if m.ownsSelected() {
			m.editingID = m.comments[m.cursor].ID
			m.editInput.SetValue(m.comments[m.cursor].Text)
			m.editInput.Focus()
			return m, textinput.Blink
		}

	case "x":
		if m.ownsSelected() {
			m.confirmDelete = true
		}
	}
	return m, nil
}

func (m *detailScreen) toggleLike(c api.Comment) tea.Cmd {
	return func() tea.Msg {
		var err error
		if c.LikedByMe {
			err = m.api.UnlikeComment(context.Background(), m.id, c.ID)
		} else {
			err = m.api.LikeComment(context.Background(), m.id, c.ID)
		}
		return commentActedMsg{err: err}
	}
}

func (m *detailScreen) isSubscriber() bool {
	user := m.session.User()
	return user != nil && user.Role == api.RoleSubscriber
}

func (m *detailScreen) ownsSelected() bool {
	user := m.session.User()
	return user != nil && len(m.comments) > 0 && m.comments[m.cursor].Author == user.Username
}

func (m *detailScreen) view(width int) string {
	if m.deleted {
		banner := m.styles.Banner.Render("Oops, this news has been deleted.")
		return banner + "\n\n" + m.styles.Muted.Render("Press esc to go back to all news.")
	}

	var b strings.Builder

	if m.loading || m.news == nil {
		b.WriteString(m.styles.Muted.Render("Loading..."))
		return b.String()
	}

	b.WriteString(m.styles.Title.Render(m.news.Title) + "\n")
	b.WriteString(m.news.Text + "\n\n")
	b.WriteString(m.styles.Subtitle.Render("Comments") + "\n")

	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg) + "\n")
	}

	if len(m.comments) == 0 {
		b.WriteString(m.styles.Muted.Render("No comments yet.") + "\n")
	}
	for i, c := range m.comments {
		if m.editingID == c.ID {
			b.WriteString(m.editInput.View() + "\n")
			continue
		}
		line := fmt.Sprintf("%s: %s", c.Author, c.Text)
		if i == m.cursor {
			line = m.styles.Highlighted.Render(line)
		}
		like := "♡"
		if c.LikedByMe {
			like = "♥"
		}
		b.WriteString(fmt.Sprintf("%s  %s %d\n", line, like, c.Likes))
	}

	if m.composing {
		b.WriteString("\n" + m.input.View() + "\n")
	}
	if m.confirmDelete {
		b.WriteString("\n" + m.styles.Error.Render("Delete this comment? y/n"))
	}

	return b.String()
}

func (m *detailScreen) help() string {
	base := "j/k move • l like • esc back"
	if m.isSubscriber() {
		base = "c comment • " + base
	}
	if m.ownsSelected() {
		base = "e edit • x delete • " + base
	}
	return base
}
