package manage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleStatusBooleanSuccess(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	refreshed := false
	var patchedID string
	var patchedStatus any
	tg := &Toggler{
		Client:    NewClient(srv.URL),
		Path:      "/api/admin/prompts",
		OnRefresh: func() { refreshed = true },
		PatchDetail: func(id string, status any) {
			patchedID, patchedStatus = id, status
		},
	}

	require.NoError(t, tg.ToggleStatus(context.Background(), "5", true))

	// the server saw the negated value
	assert.Equal(t, "5", body["id"])
	assert.Equal(t, false, body["status"])
	// both the list (via refresh) and the open detail view converge on it
	assert.True(t, refreshed)
	assert.Equal(t, "5", patchedID)
	assert.Equal(t, false, patchedStatus)
	assert.False(t, tg.Toggling("5"))
}

func TestToggleStatusEnumTransition(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	tg := &Toggler{
		Client: NewClient(srv.URL),
		Path:   "/api/admin/content",
		Next: EnumNext(map[string]string{
			"draft":       "published",
			"published":   "draft",
			"coming_soon": "published",
		}),
	}

	require.NoError(t, tg.ToggleStatus(context.Background(), "9", "draft"))
	assert.Equal(t, "published", body["status"])
}

func TestToggleStatusFailureRetainsOldValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "status locked"})
	}))
	defer srv.Close()

	notify := &fakeNotifier{}
	refreshed, patched := false, false
	tg := &Toggler{
		Client:      NewClient(srv.URL),
		Path:        "/api/admin/prompts",
		Notify:      notify,
		OnRefresh:   func() { refreshed = true },
		PatchDetail: func(string, any) { patched = true },
	}

	err := tg.ToggleStatus(context.Background(), "1", true)
	require.Error(t, err)
	// not optimistic-first: nothing was patched, the visible value stays true
	assert.False(t, refreshed)
	assert.False(t, patched)
	assert.Equal(t, []string{"status locked"}, notify.errors)
}

func TestToggleStatusSerializedPerID(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	tg := &Toggler{Client: NewClient(srv.URL), Path: "/api/admin/prompts"}

	done := make(chan error, 1)
	go func() { done <- tg.ToggleStatus(context.Background(), "1", true) }()
	<-entered

	assert.True(t, tg.Toggling("1"))
	// a second toggle on the same id is rejected instead of double-flipping
	err := tg.ToggleStatus(context.Background(), "1", true)
	assert.ErrorIs(t, err, ErrToggleInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, tg.Toggling("1"))
}

func TestToggleStatusBadCurrentValue(t *testing.T) {
	notify := &fakeNotifier{}
	tg := &Toggler{Client: NewClient("http://127.0.0.1:0"), Notify: notify}

	err := tg.ToggleStatus(context.Background(), "1", "not-a-bool")
	require.Error(t, err)
	assert.NotEmpty(t, notify.errors)
}
