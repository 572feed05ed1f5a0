package manage

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// NextValue computes the status a toggle moves to. For boolean status fields
// use BoolNext; for enumerated fields build one with EnumNext.
type NextValue func(current any) (any, error)

// BoolNext negates a boolean status field.
func BoolNext(current any) (any, error) {
	b, ok := current.(bool)
	if !ok {
		return nil, fmt.Errorf("status is not a boolean: %T", current)
	}
	return !b, nil
}

// EnumNext builds a NextValue from an explicit transition table, e.g.
// {"draft": "published", "published": "draft"}.
func EnumNext(transitions map[string]string) NextValue {
	return func(current any) (any, error) {
		s, ok := current.(string)
		if !ok {
			return nil, fmt.Errorf("status is not a string: %T", current)
		}
		next, ok := transitions[s]
		if !ok {
			return nil, fmt.Errorf("no transition from status %q", s)
		}
		return next, nil
	}
}

// Toggler flips the status field of one record via PATCH. The toggle is
// applied only after the server confirms success; on failure both the list
// and any open detail view keep their pre-toggle values.
//
// Overlapping toggles on the same id would both compute "next" from the same
// stale value and double-flip, so toggles are serialized per id: a toggle for
// an id already in flight is rejected immediately, and Toggling lets the UI
// disable the control meanwhile.
type Toggler struct {
	Client *Client
	Path   string

	// Next computes the target status. Nil means boolean negation.
	Next NextValue

	Notify Notifier
	// OnRefresh resynchronizes the authoritative list after a confirmed
	// toggle.
	OnRefresh func()
	// PatchDetail, when set, is called synchronously with the confirmed
	// status so an open detail view never shows the stale value while the
	// list refetches in the background.
	PatchDetail func(id string, status any)

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// ErrToggleInFlight is returned when a toggle for the same id has not yet
// resolved.
var ErrToggleInFlight = fmt.Errorf("a toggle for this record is already in flight")

// Toggling reports whether a toggle for id is currently unresolved.
func (t *Toggler) Toggling(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.inFlight[id]
	return ok
}

// ToggleStatus computes the next status from current and PATCHes it.
func (t *Toggler) ToggleStatus(ctx context.Context, id string, current any) error {
	next := t.Next
	if next == nil {
		next = BoolNext
	}
	target, err := next(current)
	if err != nil {
		t.notifier().Error(err.Error())
		return err
	}

	if !t.acquire(id) {
		return ErrToggleInFlight
	}
	defer t.release(id)

	payload := map[string]any{"id": id, "status": target}
	if err := t.Client.Send(ctx, http.MethodPatch, t.Path, nil, payload); err != nil {
		if IsAPIError(err) {
			t.notifier().Error(err.Error())
		} else {
			t.notifier().Error("network error, please try again")
		}
		return err
	}

	// server confirmed: patch the detail view first so it never lags the
	// list refresh
	if t.PatchDetail != nil {
		t.PatchDetail(id, target)
	}
	if t.OnRefresh != nil {
		t.OnRefresh()
	}
	return nil
}

func (t *Toggler) acquire(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight == nil {
		t.inFlight = make(map[string]struct{})
	}
	if _, ok := t.inFlight[id]; ok {
		return false
	}
	t.inFlight[id] = struct{}{}
	return true
}

func (t *Toggler) release(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, id)
}

func (t *Toggler) notifier() Notifier {
	if t.Notify == nil {
		return NopNotifier{}
	}
	return t.Notify
}
