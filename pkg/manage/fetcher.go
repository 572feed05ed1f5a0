package manage

import (
	"context"
	"net/url"
	"strconv"
	"sync"
)

// State is a point-in-time snapshot of a Fetcher.
type State[T any] struct {
	Data       []T
	Loading    bool
	Err        error
	Page       int
	PageSize   int
	TotalPages int
	TotalCount int
	Filters    map[string]string
}

// FetcherConfig binds a Fetcher to one resource endpoint.
type FetcherConfig struct {
	Client   *Client
	Path     string // e.g. /api/admin/prompts
	DataKey  string // envelope key holding the item array, e.g. "prompts"
	PageSize int
	// Filters are the initial query filters, merged over by SetFilters.
	Filters map[string]string
	// OnChange, when set, runs after every committed state change.
	OnChange func()
}

// Fetcher owns the authoritative in-memory page cache for one resource. It
// re-fetches on page or filter change and discards stale responses: when two
// requests overlap, only the most recently issued one may commit (a response
// for an old page/filter combination is silently dropped).
type Fetcher[T any] struct {
	cfg FetcherConfig

	mu         sync.Mutex
	gen        uint64 // bumped on every issued request; commit requires a match
	data       []T
	loading    bool
	err        error
	page       int
	totalPages int
	totalCount int
	filters    map[string]string
}

// NewFetcher builds a Fetcher. PageSize defaults to 20 when unset.
func NewFetcher[T any](cfg FetcherConfig) *Fetcher[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	filters := make(map[string]string, len(cfg.Filters))
	for k, v := range cfg.Filters {
		filters[k] = v
	}
	return &Fetcher[T]{cfg: cfg, page: 1, filters: filters}
}

// State returns a snapshot. The Data slice is shared; callers must treat it
// as read-only.
func (f *Fetcher[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	filters := make(map[string]string, len(f.filters))
	for k, v := range f.filters {
		filters[k] = v
	}
	return State[T]{
		Data:       f.data,
		Loading:    f.loading,
		Err:        f.err,
		Page:       f.page,
		PageSize:   f.cfg.PageSize,
		TotalPages: f.totalPages,
		TotalCount: f.totalCount,
		Filters:    filters,
	}
}

// Load fetches the current page with the current filters. Safe to call
// concurrently; if a newer request is issued while this one is in flight,
// this one's response is discarded.
func (f *Fetcher[T]) Load(ctx context.Context) error {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	page := f.page
	query := f.buildQueryLocked(page)
	f.loading = true
	f.mu.Unlock()
	f.changed()

	var items []T
	info, err := f.cfg.Client.List(ctx, f.cfg.Path, f.cfg.DataKey, query, &items)

	f.mu.Lock()
	if gen != f.gen {
		// stale response: a newer request supersedes this one
		f.mu.Unlock()
		return nil
	}
	f.loading = false
	if err != nil {
		f.err = err
		f.data = nil
		f.mu.Unlock()
		f.changed()
		return err
	}
	f.err = nil
	f.data = items
	if info != nil {
		f.totalCount = info.Total
	} else {
		f.totalCount = len(items)
	}
	f.totalPages = TotalPages(f.totalCount, f.cfg.PageSize)
	f.mu.Unlock()
	f.changed()
	return nil
}

// Refresh re-issues the request for the current page and filter state.
func (f *Fetcher[T]) Refresh(ctx context.Context) error {
	return f.Load(ctx)
}

// GoToPage moves to page n and loads it. Out-of-range pages are a no-op.
func (f *Fetcher[T]) GoToPage(ctx context.Context, n int) error {
	f.mu.Lock()
	last := f.totalPages
	if last == 0 {
		// nothing loaded yet; only the first page is addressable
		last = 1
	}
	if n < 1 || n > last {
		f.mu.Unlock()
		return nil
	}
	f.page = n
	f.mu.Unlock()
	return f.Load(ctx)
}

// SetFilters merges partial into the active filter set and reloads from page
// one. An empty value removes that filter key.
func (f *Fetcher[T]) SetFilters(ctx context.Context, partial map[string]string) error {
	f.mu.Lock()
	for k, v := range partial {
		if v == "" {
			delete(f.filters, k)
			continue
		}
		f.filters[k] = v
	}
	f.page = 1
	f.mu.Unlock()
	return f.Load(ctx)
}

func (f *Fetcher[T]) buildQueryLocked(page int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(f.cfg.PageSize))
	for k, v := range f.filters {
		q.Set(k, v)
	}
	return q
}

func (f *Fetcher[T]) changed() {
	if f.cfg.OnChange != nil {
		f.cfg.OnChange()
	}
}

// TotalPages computes the page count for a total and page size.
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
