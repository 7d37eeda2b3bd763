package tui

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/newsroomhq/newsroom/internal/api"
	"github.com/newsroomhq/newsroom/internal/errors"
	"github.com/newsroomhq/newsroom/internal/flow"
)

func listWithItems(s *shared, items []api.News, totalPages int) *newsListScreen {
	m := newNewsListScreen(s)
	updated, _ := m.update(newsPageMsg{page: &api.NewsPage{News: items, TotalPages: totalPages}})
	return updated.(*newsListScreen)
}

func someNews() []api.News {
	return []api.News{
		{ID: 1, Title: "First", Author: "ada", Time: time.Now()},
		{ID: 2, Title: "Second", Author: "bob", Time: time.Now()},
	}
}

// TestNewsListNavigation tests cursor movement and opening an article
func TestNewsListNavigation(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	m := listWithItems(s, someNews(), 1)

	updated, _ := m.update(keyRune('j'))
	l := updated.(*newsListScreen)
	if l.cursor != 1 {
		t.Errorf("expected cursor 1, got %d", l.cursor)
	}

	_, cmd := l.update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected navigation to the article")
	}
	nav, ok := cmd().(navMsg)
	if !ok || nav.to != flow.NewsRoute(2) {
		t.Errorf("expected /news/2, got %#v", nav)
	}
}

// TestNewsListJournalistAffordances tests that publishing is role-gated
func TestNewsListJournalistAffordances(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	m := listWithItems(s, someNews(), 1)

	// no profile yet: 'n' does nothing
	if _, cmd := m.update(keyRune('n')); cmd != nil {
		t.Error("expected no composer without a journalist profile")
	}

	s.session.SetUser(&api.User{Username: "ada", Role: api.RoleJournalist})
	_, cmd := m.update(keyRune('n'))
	if cmd == nil {
		t.Fatal("expected the composer for a journalist")
	}
	if nav := cmd().(navMsg); nav.to != flow.RouteNewsCreate {
		t.Errorf("expected the composer route, got %s", nav.to)
	}
}

// TestNewsListOwnershipGatesEditDelete tests author-only actions
func TestNewsListOwnershipGatesEditDelete(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	s.session.SetUser(&api.User{Username: "ada", Role: api.RoleJournalist})
	m := listWithItems(s, someNews(), 1)

	// cursor on ada's article
	_, cmd := m.update(keyRune('e'))
	if cmd == nil {
		t.Fatal("expected edit for own article")
	}
	if nav := cmd().(navMsg); nav.to != flow.NewsEditRoute(1) {
		t.Errorf("expected edit route, got %s", nav.to)
	}

	// move to bob's article: edit and delete do nothing
	updated, _ := m.update(keyRune('j'))
	l := updated.(*newsListScreen)
	if _, cmd := l.update(keyRune('e')); cmd != nil {
		t.Error("expected no edit for someone else's article")
	}
	l.update(keyRune('d'))
	if l.confirmDelete {
		t.Error("expected no delete confirmation for someone else's article")
	}
}

// TestNewsListDeleteConfirmation tests the y/n prompt
func TestNewsListDeleteConfirmation(t *testing.T) {
	f := newFakeServer(t)
	s := newTestShared(t, f)
	s.session.SetUser(&api.User{Username: "ada", Role: api.RoleJournalist})
	m := listWithItems(s, someNews(), 1)

	m.update(keyRune('d'))
	if !m.confirmDelete {
		t.Fatal("expected the delete confirmation")
	}

	// anything but y cancels
	m.update(keyRune('n'))
	if m.confirmDelete {
		t.Error("expected the confirmation dismissed")
	}
	if got := f.callCount("/news/1"); got != 0 {
		t.Errorf("expected no delete request, got %d", got)
	}

	m.update(keyRune('d'))
	_, cmd := m.update(keyRune('y'))
	if cmd == nil {
		t.Fatal("expected the delete command")
	}
	if _, ok := cmd().(newsDeletedMsg); !ok {
		t.Fatal("expected newsDeletedMsg")
	}
	if got := f.callCount("/news/1"); got != 1 {
		t.Errorf("expected one delete request, got %d", got)
	}
}

// TestNewsListPaging tests the page bounds
func TestNewsListPaging(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	m := listWithItems(s, someNews(), 3)

	if _, cmd := m.update(keyRune('h')); cmd != nil {
		t.Error("expected no fetch below the first page")
	}

	_, cmd := m.update(keyRune('l'))
	if cmd == nil {
		t.Error("expected a fetch for the next page")
	}

	m.page = 2
	if _, cmd := m.update(keyRune('l')); cmd != nil {
		t.Error("expected no fetch past the last page")
	}
}

// TestNewsListLogout tests ctrl+l returning to the auth screen
func TestNewsListLogout(t *testing.T) {
	f := newFakeServer(t)
	s := newTestShared(t, f)
	m := listWithItems(s, someNews(), 1)

	_, cmd := m.update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if cmd == nil {
		t.Fatal("expected navigation to the auth screen")
	}
	if nav := cmd().(navMsg); nav.to != flow.RouteAuth {
		t.Errorf("expected auth route, got %s", nav.to)
	}
	if s.session.Token() != "" {
		t.Error("expected the session cleared")
	}
}

// TestEditorRequiresBothFields tests local draft validation
func TestEditorRequiresBothFields(t *testing.T) {
	f := newFakeServer(t)
	s := newTestShared(t, f)
	m := newEditorScreen(s, 0)

	m.title.SetValue("Breaking")
	_, cmd := m.update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("expected an empty body to stay local")
	}
	if !strings.Contains(m.view(80), "must be non-empty") {
		t.Error("expected the validation message in the view")
	}
	if got := f.callCount("/news"); got != 0 {
		t.Errorf("expected no create request, got %d", got)
	}
}

// TestEditorPublish tests the create path and the success banner
func TestEditorPublish(t *testing.T) {
	f := newFakeServer(t)
	f.bodies["/news"] = `{"id":7,"title":"Breaking","text":"body","author":"ada"}`

	s := newTestShared(t, f)
	m := newEditorScreen(s, 0)
	m.title.SetValue("Breaking")
	m.body.SetValue("body")

	_, cmd := m.update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected the save command")
	}

	saved := cmd().(newsSavedMsg)
	if saved.err != nil {
		t.Fatalf("unexpected error: %v", saved.err)
	}

	_, cmd = m.update(saved)
	if cmd == nil {
		t.Fatal("expected navigation after publishing")
	}
	nav := cmd().(navMsg)
	if nav.to != flow.RouteHome || nav.flash != "Article published." {
		t.Errorf("expected home with the publish banner, got %#v", nav)
	}
}

// TestEditorVanishedArticle tests the deleted banner while editing
func TestEditorVanishedArticle(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	m := newEditorScreen(s, 42)

	updated, _ := m.update(draftLoadedMsg{err: errors.NewNewsNotFoundError(42)})
	e := updated.(*editorScreen)

	if !e.deleted {
		t.Fatal("expected the deleted flag")
	}
	if !strings.Contains(e.view(80), "Oops, this news has been deleted.") {
		t.Error("expected the deleted banner in the view")
	}
}

// TestProfileValidation tests the save-time checks
func TestProfileValidation(t *testing.T) {
	f := newFakeServer(t)
	s := newTestShared(t, f)
	s.session.SetUser(&api.User{Username: "ada", Email: "ada@example.com"})
	m := newProfileScreen(s)

	m.inputs[profEmail].SetValue("not-an-email")
	_, cmd := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected invalid input to stay local")
	}
	if !strings.Contains(m.view(80), "Invalid email format.") {
		t.Error("expected the email validation message")
	}
}

// TestProfileEmailCollision tests the conflict message
func TestProfileEmailCollision(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	m := newProfileScreen(s)

	updated, _ := m.update(profileSavedMsg{err: errors.NewProfileConflictError("taken@example.com")})
	p := updated.(*profileScreen)

	if !strings.Contains(p.view(80), "That email is already in use.") {
		t.Error("expected the collision message in the view")
	}
}

// TestProfileSaveSuccess tests the session snapshot update and banner
func TestProfileSaveSuccess(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	m := newProfileScreen(s)

	fresh := &api.User{Username: "ada2", Email: "ada2@example.com", Role: api.RoleSubscriber}
	_, cmd := m.update(profileSavedMsg{user: fresh})
	if cmd == nil {
		t.Fatal("expected navigation after saving")
	}
	nav := cmd().(navMsg)
	if nav.to != flow.RouteHome || nav.flash != "Profile saved." {
		t.Errorf("expected home with the saved banner, got %#v", nav)
	}
	if s.session.User() != fresh {
		t.Error("expected the session snapshot replaced")
	}
}

// TestSetupFailureReturnsHomeWithBanner tests the abort path
func TestSetupFailureReturnsHomeWithBanner(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	m := newSetupScreen(s)

	_, cmd := m.update(setupReadyMsg{err: errors.New(errors.ErrCodeTwoFASetupFailed, "boom")})
	if cmd == nil {
		t.Fatal("expected navigation home")
	}
	nav := cmd().(navMsg)
	if nav.to != flow.RouteHome || nav.flash != "Failed to fetch 2FA setup." || !nav.isErr {
		t.Errorf("expected home with the failure banner, got %#v", nav)
	}
}

// TestSetupSkipsToVerify tests the already-provisioned shortcut
func TestSetupSkipsToVerify(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	m := newSetupScreen(s)

	_, cmd := m.update(setupReadyMsg{skipToVerify: true})
	if cmd == nil {
		t.Fatal("expected navigation to verification")
	}
	if nav := cmd().(navMsg); nav.to != flow.RouteTwoFAVerify {
		t.Errorf("expected the verify route, got %s", nav.to)
	}
}

// TestSetupSavesQRToStateDir tests the QR landing on disk
func TestSetupSavesQRToStateDir(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	s.cfg.StateDir = t.TempDir()
	m := newSetupScreen(s)

	png := []byte("\x89PNG fake")
	_, cmd := m.update(setupReadyMsg{qrPNG: png})
	if cmd == nil {
		t.Fatal("expected the save command")
	}

	saved := cmd().(qrSavedMsg)
	if saved.err != nil {
		t.Fatalf("unexpected error: %v", saved.err)
	}

	data, err := os.ReadFile(saved.path)
	if err != nil {
		t.Fatalf("read QR file: %v", err)
	}
	if string(data) != string(png) {
		t.Error("expected the decoded PNG on disk")
	}

	m.update(saved)
	if !strings.Contains(m.view(80), saved.path) {
		t.Error("expected the QR path in the view")
	}
}
