package manage

import (
	"context"
	"net/http"
	"net/url"
)

// Notifier surfaces operation outcomes to the user. Implementations decide
// the medium (toast, status bar, log line).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Confirmer asks the user to approve a destructive action. Declining must
// abort the action before any request is sent.
type Confirmer interface {
	Confirm(msg string) bool
}

// NopNotifier drops all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// Orchestrator issues create/update/delete requests for one resource type.
// It never touches the list cache directly: every visible change flows
// through OnRefresh, so the fetcher stays the single owner of the page data.
type Orchestrator struct {
	Client *Client
	Path   string

	Notify  Notifier
	Confirm Confirmer

	// OnRefresh resynchronizes the authoritative list after a successful
	// mutation.
	OnRefresh func()
	// OnSaveSuccess runs after a successful save, before OnRefresh. Panels
	// use it to close the edit dialog.
	OnSaveSuccess func()

	// SaveMessage overrides the default success notification for saves.
	SaveMessage string
	// DeleteMessage overrides the default success notification for deletes.
	DeleteMessage string
}

// SaveItem creates (POST) or updates (PUT) one record. On failure nothing is
// refreshed and OnSaveSuccess does not run, so an open edit surface stays
// open with the user's input intact.
func (o *Orchestrator) SaveItem(ctx context.Context, item any, isCreate bool) error {
	method := http.MethodPut
	if isCreate {
		method = http.MethodPost
	}

	if err := o.Client.Send(ctx, method, o.Path, nil, item); err != nil {
		o.notifyError(err)
		return err
	}

	if o.OnSaveSuccess != nil {
		o.OnSaveSuccess()
	}
	if o.OnRefresh != nil {
		o.OnRefresh()
	}
	msg := o.SaveMessage
	if msg == "" {
		msg = "saved"
	}
	o.notifier().Success(msg)
	return nil
}

// DeleteItem removes one record after interactive confirmation. Declining is
// a no-op: no request is issued and no state changes. On server failure the
// record stays visible, since the delete did not actually happen.
func (o *Orchestrator) DeleteItem(ctx context.Context, id, confirmMessage string) error {
	if o.Confirm == nil || !o.Confirm.Confirm(confirmMessage) {
		return nil
	}

	q := url.Values{}
	q.Set("id", id)
	if err := o.Client.Send(ctx, http.MethodDelete, o.Path, q, nil); err != nil {
		o.notifyError(err)
		return err
	}

	if o.OnRefresh != nil {
		o.OnRefresh()
	}
	msg := o.DeleteMessage
	if msg == "" {
		msg = "deleted"
	}
	o.notifier().Success(msg)
	return nil
}

func (o *Orchestrator) notifier() Notifier {
	if o.Notify == nil {
		return NopNotifier{}
	}
	return o.Notify
}

func (o *Orchestrator) notifyError(err error) {
	if IsAPIError(err) {
		// server understood the request; show its message verbatim
		o.notifier().Error(err.Error())
		return
	}
	o.notifier().Error("network error, please try again")
}
