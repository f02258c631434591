// Package table keeps the user table's view state (page, size, sort, search,
// filters and selection) in sync with a Fetcher.
//
// Every state-affecting input starts a new fetch tagged with a sequence
// number. Starting a fetch cancels the previous one, and a response whose
// sequence number is no longer the latest is dropped, so results can never
// arrive out of order.
package table

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/ports"
)

const (
	DefaultPageSize     = 5
	DefaultFetchTimeout = 10 * time.Second
)

// PageSizes are the page sizes the page-size picker offers.
var PageSizes = []int{5, 10, 20, 50}

// ErrFetchTimeout is reported when a fetch outlives the configured timeout.
var ErrFetchTimeout = errors.New("loading users timed out")

// Fetcher returns a page of users. It is satisfied by the in-process user
// service and by the HTTP admin client.
type Fetcher interface {
	ListUsers(ctx context.Context, q ports.UserQuery) (*ports.UserPage, error)
}

// State is the controller's loading state.
type State int

const (
	Idle State = iota
	Fetching
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Options configures a Controller.
type Options struct {
	PageSize int
	Timeout  time.Duration
	Logger   zerolog.Logger
	// OnChange, when set, is called with a fresh snapshot after every state
	// change. It runs outside the controller's lock.
	OnChange func(Snapshot)
}

// Snapshot is everything the presentation layer renders.
type Snapshot struct {
	State     State
	Loading   bool
	Rows      []Row
	Total     int
	Page      int
	PageSize  int
	PageCount int
	Search    string
	Filters   map[string]string
	Sort      Sort
	Selected  []string
	// Error is the last fetch failure message, empty when the last fetch
	// succeeded.
	Error string
}

// Controller owns the table view state. It is safe for concurrent use.
type Controller struct {
	fetcher  Fetcher
	timeout  time.Duration
	logger   zerolog.Logger
	onChange func(Snapshot)

	mu        sync.Mutex
	page      int
	pageSize  int
	search    string
	filters   map[string]string
	sort      Sort
	selected  map[string]struct{}
	state     State
	err       error
	users     []ports.UserView
	total     int
	pageCount int
	seq       uint64
	cancel    context.CancelFunc
	closed    bool

	wg sync.WaitGroup
}

// New returns an idle controller on page 1. Call Refresh to load data.
func New(fetcher Fetcher, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultFetchTimeout
	}
	return &Controller{
		fetcher:  fetcher,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
		onChange: opts.OnChange,
		page:     1,
		pageSize: opts.PageSize,
		filters:  make(map[string]string),
		selected: make(map[string]struct{}),
	}
}

// SetPage moves to a 1-based page.
func (c *Controller) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	c.mutate(func() { c.page = page })
}

// SetPageSize changes the page size and returns to the first page.
func (c *Controller) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	c.mutate(func() {
		c.pageSize = size
		c.page = 1
	})
}

// SetSearch changes the global search text and returns to the first page.
func (c *Controller) SetSearch(text string) {
	c.mutate(func() {
		c.search = text
		c.page = 1
	})
}

// SetFilter sets a per-column filter. An empty value or "all" clears it.
func (c *Controller) SetFilter(field, value string) {
	c.mutate(func() {
		if value == "" || value == ports.FilterAll {
			delete(c.filters, field)
		} else {
			c.filters[field] = value
		}
		c.page = 1
	})
}

// ClearFilters drops the search text and every column filter.
func (c *Controller) ClearFilters() {
	c.mutate(func() {
		c.search = ""
		clear(c.filters)
		c.page = 1
	})
}

// Refresh re-fetches with the current view state.
func (c *Controller) Refresh() {
	c.mutate(func() {})
}

// NextPage and PrevPage step within [1, PageCount].
func (c *Controller) NextPage() {
	c.mutate(func() {
		if c.page < c.pageCount {
			c.page++
		}
	})
}

func (c *Controller) PrevPage() {
	c.mutate(func() {
		if c.page > 1 {
			c.page--
		}
	})
}

// Run executes a create, update or delete command and refreshes the table
// when it succeeds. A failed command leaves the table untouched and its
// error is returned to the caller.
func (c *Controller) Run(ctx context.Context, cmd func(context.Context) error) error {
	if err := cmd(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("table command failed")
		return err
	}
	c.Refresh()
	return nil
}

// SetSort orders the rows of the current page. Sorting never triggers a
// fetch and does not span pages.
func (c *Controller) SetSort(column string, dir Direction) {
	c.mu.Lock()
	c.sort = Sort{Column: column, Direction: dir}
	c.mu.Unlock()
	c.notify()
}

// Select adds or removes a row from the selection.
func (c *Controller) Select(id string, on bool) {
	c.mu.Lock()
	if on {
		if slices.ContainsFunc(c.users, func(u ports.UserView) bool { return u.ID == id }) {
			c.selected[id] = struct{}{}
		}
	} else {
		delete(c.selected, id)
	}
	c.mu.Unlock()
	c.notify()
}

// SelectAll selects or clears every row on the current page.
func (c *Controller) SelectAll(on bool) {
	c.mu.Lock()
	clear(c.selected)
	if on {
		for _, u := range c.users {
			c.selected[u.ID] = struct{}{}
		}
	}
	c.mu.Unlock()
	c.notify()
}

// Snapshot returns the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Wait blocks until every in-flight fetch has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels the in-flight fetch. Later inputs are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// mutate applies a view-state change and starts a fetch for it.
func (c *Controller) mutate(change func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	change()
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	q := ports.UserQuery{
		Page:     c.page,
		PageSize: c.pageSize,
		Search:   c.search,
		Filters:  maps.Clone(c.filters),
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	c.cancel = cancel
	c.state = Fetching
	c.wg.Add(1)
	c.mu.Unlock()

	c.notify()
	go c.fetch(ctx, cancel, seq, q)
}

func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, seq uint64, q ports.UserQuery) {
	defer c.wg.Done()
	defer cancel()

	page, err := c.fetcher.ListUsers(ctx, q)
	if err == nil && page == nil {
		err = errors.New("empty response")
	}
	if err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		err = ErrFetchTimeout
	}

	c.mu.Lock()
	if seq != c.seq || c.closed {
		latest := c.seq
		c.mu.Unlock()
		c.logger.Debug().Uint64("seq", seq).Uint64("latest", latest).Msg("discarding stale fetch")
		return
	}
	c.cancel = nil
	if err != nil {
		c.state = Failed
		c.err = err
		c.mu.Unlock()
		c.logger.Warn().Err(err).Uint64("seq", seq).Msg("fetch users failed")
		c.notify()
		return
	}
	c.state = Idle
	c.err = nil
	c.users = page.Users
	c.total = page.Total
	c.pageCount = page.TotalPages
	if page.Page > 0 {
		c.page = page.Page
	}
	if page.PageSize > 0 {
		c.pageSize = page.PageSize
	}
	clear(c.selected)
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) notify() {
	if c.onChange == nil {
		return
	}
	c.onChange(c.Snapshot())
}

func (c *Controller) snapshotLocked() Snapshot {
	users := slices.Clone(c.users)
	sortUsers(users, c.sort)
	rows := make([]Row, len(users))
	for i, u := range users {
		rows[i] = RowOf(u)
	}

	selected := make([]string, 0, len(c.selected))
	for id := range c.selected {
		selected = append(selected, id)
	}
	slices.Sort(selected)

	s := Snapshot{
		State:     c.state,
		Loading:   c.state == Fetching,
		Rows:      rows,
		Total:     c.total,
		Page:      c.page,
		PageSize:  c.pageSize,
		PageCount: c.pageCount,
		Search:    c.search,
		Filters:   maps.Clone(c.filters),
		Sort:      c.sort,
		Selected:  selected,
	}
	if c.err != nil {
		s.Error = c.err.Error()
	}
	return s
}
