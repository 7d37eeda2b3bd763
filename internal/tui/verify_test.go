package tui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/newsroomhq/newsroom/internal/api"
	"github.com/newsroomhq/newsroom/internal/config"
	"github.com/newsroomhq/newsroom/internal/errors"
	"github.com/newsroomhq/newsroom/internal/flow"
	"github.com/newsroomhq/newsroom/internal/log"
	"github.com/newsroomhq/newsroom/internal/session"
)

// fakeServer counts requests per path and serves canned bodies
type fakeServer struct {
	srv *httptest.Server

	mu     sync.Mutex
	calls  map[string]int
	bodies map[string]string
	status map[string]int
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{
		calls:  make(map[string]int),
		bodies: make(map[string]string),
		status: make(map[string]int),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[r.URL.Path]++
		body, status := f.bodies[r.URL.Path], f.status[r.URL.Path]
		f.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}
		if body == "" {
			body = `{}`
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.srv.Close)

	f.bodies["/auth/me"] = `{"id":1,"username":"ada","email":"ada@example.com","role":"SUBSCRIBER"}`
	return f
}

func (f *fakeServer) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

// newTestShared builds the screen collaborators over the fake server
func newTestShared(t *testing.T, f *fakeServer) *shared {
	t.Helper()
	client := api.NewClient(f.srv.URL, nil)
	store, err := session.New(&session.MemorySlot{}, client, client, session.NewBus(), nil)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	t.Cleanup(store.Close)

	return &shared{
		cfg:     &config.Config{APIBaseURL: f.srv.URL},
		api:     client,
		session: store,
		flow:    flow.NewController(client, store, nil),
		log:     log.DefaultLogger(),
		styles:  DefaultStyles(),
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeDigits(m screenModel, digits string) (screenModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, r := range digits {
		m, cmd = m.update(keyRune(r))
	}
	return m, cmd
}

// TestVerifyDigitsAdvanceFocus tests cell fill and focus movement
func TestVerifyDigitsAdvanceFocus(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	m := newVerifyScreen(s)

	updated, cmd := typeDigits(m, "422")
	v := updated.(*verifyScreen)

	if cmd != nil {
		t.Fatal("expected no submission before the sixth digit")
	}
	if v.focus != 3 {
		t.Errorf("expected focus 3, got %d", v.focus)
	}
	if v.cells[0] != "4" || v.cells[1] != "2" || v.cells[2] != "2" {
		t.Errorf("unexpected cells: %v", v.cells)
	}
}

// TestVerifyIgnoresNonDigits tests that letters never fill a cell
func TestVerifyIgnoresNonDigits(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	m := newVerifyScreen(s)

	updated, cmd := m.update(keyRune('x'))
	v := updated.(*verifyScreen)

	if cmd != nil {
		t.Fatal("expected no command for a non-digit")
	}
	if v.cells[0] != "" || v.focus != 0 {
		t.Errorf("non-digit must not change state: cells=%v focus=%d", v.cells, v.focus)
	}
}

// TestVerifyBackspace tests correction behavior
func TestVerifyBackspace(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	m := newVerifyScreen(s)

	updated, _ := typeDigits(m, "42")
	updated, _ = updated.update(tea.KeyMsg{Type: tea.KeyBackspace})
	v := updated.(*verifyScreen)

	if v.cells[1] != "" {
		t.Errorf("expected second cell cleared, got %q", v.cells[1])
	}
	if v.focus != 1 {
		t.Errorf("expected focus 1, got %d", v.focus)
	}
}

// TestVerifySixthDigitSubmitsOnce tests the auto-submit with the assembled code
func TestVerifySixthDigitSubmitsOnce(t *testing.T) {
	f := newFakeServer(t)
	f.bodies["/auth/2fa/verify"] = `{"token":"verified"}`

	s := newTestShared(t, f)
	m := newVerifyScreen(s)

	updated, cmd := typeDigits(m, "422000")
	v := updated.(*verifyScreen)

	if cmd == nil {
		t.Fatal("expected the sixth digit to submit")
	}
	if !v.busy {
		t.Fatal("expected busy during submission")
	}

	// further keys while busy must not re-submit
	if _, extra := updated.update(keyRune('9')); extra != nil {
		t.Fatal("expected keys to be ignored while busy")
	}

	msg := cmd()
	done, ok := msg.(verifyDoneMsg)
	if !ok {
		t.Fatalf("expected verifyDoneMsg, got %T", msg)
	}
	if done.err != nil {
		t.Fatalf("unexpected error: %v", done.err)
	}
	if done.route != flow.RouteHome {
		t.Errorf("expected home route, got %s", done.route)
	}
	if got := f.callCount("/auth/2fa/verify"); got != 1 {
		t.Errorf("expected exactly one verification request, got %d", got)
	}
	if s.session.Token() != "verified" {
		t.Errorf("expected installed token, got %q", s.session.Token())
	}
}

// TestVerifyRejectionClearsCells tests the reset after a rejected code
func TestVerifyRejectionClearsCells(t *testing.T) {
	f := newFakeServer(t)
	f.status["/auth/2fa/verify"] = http.StatusUnauthorized

	s := newTestShared(t, f)
	m := newVerifyScreen(s)

	updated, cmd := typeDigits(m, "000000")
	if cmd == nil {
		t.Fatal("expected submission")
	}

	updated, next := updated.update(cmd())
	v := updated.(*verifyScreen)

	if next != nil {
		t.Fatal("expected no navigation after a rejection")
	}
	for i, c := range v.cells {
		if c != "" {
			t.Errorf("expected cell %d cleared, got %q", i, c)
		}
	}
	if v.focus != 0 {
		t.Errorf("expected focus back on the first cell, got %d", v.focus)
	}
	if v.busy {
		t.Error("expected busy cleared")
	}
	if !strings.Contains(v.view(80), "Invalid code") {
		t.Error("expected the rejection message in the view")
	}
}

// TestVerifyTransportFailureKeepsGenericMessage tests non-credential errors
func TestVerifyTransportFailureKeepsGenericMessage(t *testing.T) {
	s := newTestShared(t, newFakeServer(t))
	m := newVerifyScreen(s)

	updated, _ := m.update(verifyDoneMsg{err: errors.New(errors.ErrCodeRequestFailed, "down")})
	v := updated.(*verifyScreen)

	if !strings.Contains(v.view(80), "Something went wrong") {
		t.Error("expected the generic failure message in the view")
	}
}
