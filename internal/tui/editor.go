package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/newsroomhq/newsroom/internal/api"
	"github.com/newsroomhq/newsroom/internal/errors"
	"github.com/newsroomhq/newsroom/internal/flow"
	"github.com/newsroomhq/newsroom/internal/validate"
)

// draftLoadedMsg carries the article being edited
type draftLoadedMsg struct {
	news *api.News
	err  error
}

// newsSavedMsg reports a create/update round-trip
type newsSavedMsg struct {
	news *api.News
	err  error
}

// editorScreen composes a new article (id == 0) or edits an existing one
type editorScreen struct {
	*shared

	id    int64
	title textinput.Model
	body  textarea.Model

	focusBody bool
	loading   bool
	busy      bool
	deleted   bool
	errMsg    string
}

func newEditorScreen(s *shared, id int64) *editorScreen {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200
	title.Focus()

	body := textarea.New()
	body.Placeholder = "Write your article..."
	body.CharLimit = 0

	return &editorScreen{
		shared:  s,
		id:      id,
		title:   title,
		body:    body,
		loading: id != 0,
	}
}

func (m *editorScreen) init() tea.Cmd {
	if m.id == 0 {
		return textinput.Blink
	}
	id := m.id
	return func() tea.Msg {
		news, err := m.api.GetNews(context.Background(), id)
		return draftLoadedMsg{news: news, err: err}
	}
}

func (m *editorScreen) update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case draftLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if errors.IsNotFound(msg.err) {
				m.deleted = true
				return m, nil
			}
			if !errors.IsSessionExpired(msg.err) {
				m.log.WithError(msg.err).Warn("loading draft failed")
				m.errMsg = "Could not load the article."
			}
			return m, nil
		}
		m.title.SetValue(msg.news.Title)
		m.body.SetValue(msg.news.Text)
		return m, nil

	case newsSavedMsg:
		m.busy = false
		if msg.err != nil {
			if errors.IsNotFound(msg.err) {
				m.deleted = true
				return m, nil
			}
			if !errors.IsSessionExpired(msg.err) {
				m.log.WithError(msg.err).Warn("saving news failed")
				m.errMsg = "Could not save the article. Please retry."
			}
			return m, nil
		}
		if m.id == 0 {
			return m, navigateFlash(flow.RouteHome, "Article published.", false)
		}
		return m, navigate(flow.NewsRoute(m.id))

	case tea.KeyMsg:
		if m.deleted {
			if msg.String() == "esc" || msg.String() == "enter" {
				return m, navigate(flow.RouteHome)
			}
			return m, nil
		}
		if m.busy {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, navigate(flow.RouteHome)

		case "tab":
			m.focusBody = !m.focusBody
			if m.focusBody {
				m.title.Blur()
				return m, m.body.Focus()
			}
			m.body.Blur()
			return m, m.title.Focus()

		case "ctrl+s":
			return m, m.save()
		}
	}

	var cmd tea.Cmd
	if m.focusBody {
		m.body, cmd = m.body.Update(msg)
	} else {
		m.title, cmd = m.title.Update(msg)
	}
	return m, cmd
}

func (m *editorScreen) save() tea.Cmd {
	title := strings.TrimSpace(m.title.Value())
	text := strings.TrimSpace(m.body.Value())
	if validate.NonEmpty("title", title) != nil || validate.NonEmpty("body", text) != nil {
		m.errMsg = "Both title and body must be non-empty."
		return nil
	}

	m.errMsg = ""
	m.busy = true
	draft := api.NewsDraft{Title: title, Text: text}
	id := m.id
	return func() tea.Msg {
		if id == 0 {
			news, err := m.api.CreateNews(context.Background(), draft)
			return newsSavedMsg{news: news, err: err}
		}
		news, err := m.api.UpdateNews(context.Background(), id, draft)
		return newsSavedMsg{news: news, err: err}
	}
}

func (m *editorScreen) view(width int) string {
	if m.deleted {
		banner := m.styles.Banner.Render("Oops, this news has been deleted.")
		return banner + "\n\n" + m.styles.Muted.Render("Press esc to go back to all news.")
	}

	var b strings.Builder
	heading := "New article"
	if m.id != 0 {
		heading = "Edit article"
	}
	b.WriteString(m.styles.Subtitle.Render(heading) + "\n")

	if m.loading {
		b.WriteString(m.styles.Muted.Render("Loading..."))
		return b.String()
	}

	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg) + "\n")
	}

	b.WriteString(m.title.View() + "\n\n")
	b.WriteString(m.body.View() + "\n")

	if m.busy {
		b.WriteString("\n" + m.styles.Muted.Render("Saving..."))
	}
	return b.String()
}

func (m *editorScreen) help() string {
	return "tab title/body • ctrl+s save • esc cancel"
}
