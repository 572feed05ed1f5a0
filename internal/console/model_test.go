package console

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// promptServer is a one-row prompts backend whose state mutations are visible
// on the next list request.
type promptServer struct {
	mu      sync.Mutex
	active  bool
	deleted bool
}

func (s *promptServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			items := []map[string]any{}
			total := 0
			if !s.deleted {
				items = append(items, map[string]any{"id": 1, "name": "welcome", "active": s.active})
				total = 1
			}
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"prompts": items,
				"pagination": map[string]int{
					"total": total, "page": 1, "pageSize": 5,
				},
			})
		case http.MethodPatch:
			var body struct {
				Status bool `json:"status"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			s.active = body.Status
			fmt.Fprint(w, `{"success":true}`)
		case http.MethodDelete:
			s.deleted = true
			fmt.Fprint(w, `{"success":true}`)
		default:
			fmt.Fprint(w, `{"success":true}`)
		}
	})
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// step runs one key press and, when it produced a command, feeds the
// command's message back in, the way the bubbletea runtime would.
func step(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	if cmd != nil {
		_, _ = m.Update(cmd())
	}
}

func newTestModel(t *testing.T, srv *httptest.Server) *Model {
	t.Helper()
	m, err := New(Options{Server: srv.URL, Resource: "prompts", PageSize: 5})
	require.NoError(t, err)
	_, _ = m.Update(m.loadCmd()())
	return m
}

func TestToggleShowsNewStatusImmediately(t *testing.T) {
	backend := &promptServer{active: true}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	m := newTestModel(t, srv)
	require.Len(t, m.rows, 1)
	require.Equal(t, true, m.rows[0]["active"])

	// the row rendered right after the toggle resolves must already carry
	// the confirmed status
	step(t, m, key('t'))
	require.Len(t, m.rows, 1)
	assert.Equal(t, false, m.rows[0]["active"])
}

func TestConfirmedDeleteRemovesRowImmediately(t *testing.T) {
	backend := &promptServer{active: true}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	m := newTestModel(t, srv)
	require.Len(t, m.rows, 1)

	step(t, m, key('d'))
	require.Equal(t, modeConfirm, m.mode)
	step(t, m, key('y'))

	assert.Empty(t, m.rows)
}

func TestDeclinedDeleteKeepsRowAndSendsNothing(t *testing.T) {
	backend := &promptServer{active: true}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	m := newTestModel(t, srv)
	step(t, m, key('d'))
	step(t, m, key('n'))

	assert.Len(t, m.rows, 1)
	assert.False(t, backend.deleted)
}

func TestQueueSettledKeepsNewestValue(t *testing.T) {
	m := &Model{settled: make(chan string, 1)}

	m.queueSettled("ro")
	m.queueSettled("roadmap")

	select {
	case got := <-m.settled:
		assert.Equal(t, "roadmap", got)
	default:
		t.Fatal("no settled value queued")
	}
}
