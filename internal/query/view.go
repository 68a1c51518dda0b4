package query

import (
	"context"
	"sync"

	"github.com/clubledger/backend/internal/domain/transaction"
)

// State is the loading state of a paginated table view
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

// View tracks one UI table over a paginated query: current items, cursor,
// filters, and the Idle -> Loading -> (Loaded | Errored) state machine.
//
// Each fetch is tagged with a sequence number taken when it is issued. A
// response whose tag is no longer current (the user changed filters or
// refreshed mid-flight) is discarded instead of being applied to the newer
// state; this is the one realistic race in the engine.
//
// A failed fetch keeps the previously loaded items so a table never blanks
// out on a bad refresh; retry is simply calling the same method again.
type View struct {
	mu    sync.Mutex
	pager *Pager

	bookID   string
	pageSize int

	state      State
	items      []transaction.Transaction
	filter     *transaction.Filter
	sort       transaction.Sort
	nextCursor string
	hasMore    bool
	err        error
	seq        uint64
}

// NewView creates an idle view over the pager
func NewView(pager *Pager, bookID string, pageSize int) *View {
	return &View{
		pager:    pager,
		bookID:   bookID,
		pageSize: pageSize,
		state:    StateIdle,
		sort:     transaction.DefaultSort(),
	}
}

// Load replaces the view's filter/sort combination and fetches the first
// page. Any cursor from the previous combination is discarded: filter or
// sort changes always restart at page one.
func (v *View) Load(ctx context.Context, filter *transaction.Filter, sort transaction.Sort) error {
	v.mu.Lock()
	v.filter = filter
	if sort.Field == "" {
		sort = transaction.DefaultSort()
	}
	v.sort = sort
	v.state = StateLoading
	v.seq++
	mySeq := v.seq
	v.mu.Unlock()

	page, err := v.pager.FetchPage(ctx, v.bookID, filter, sort, v.pageSize, "")

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seq != mySeq {
		// A newer load superseded this one while it was in flight
		return nil
	}
	if err != nil {
		v.state = StateErrored
		v.err = err
		return err
	}
	v.items = page.Items
	v.nextCursor = page.NextCursor
	v.hasMore = page.HasMore
	v.state = StateLoaded
	v.err = nil
	return nil
}

// LoadMore appends the next page under the current filters. A no-op when
// there is nothing more or no page has been loaded yet.
func (v *View) LoadMore(ctx context.Context) error {
	v.mu.Lock()
	if v.state != StateLoaded || !v.hasMore {
		v.mu.Unlock()
		return nil
	}
	filter, sort, cursor := v.filter, v.sort, v.nextCursor
	v.state = StateLoading
	v.seq++
	mySeq := v.seq
	v.mu.Unlock()

	page, err := v.pager.FetchPage(ctx, v.bookID, filter, sort, v.pageSize, cursor)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seq != mySeq {
		return nil
	}
	if err != nil {
		v.state = StateErrored
		v.err = err
		return err
	}
	v.items = append(v.items, page.Items...)
	v.nextCursor = page.NextCursor
	v.hasMore = page.HasMore
	v.state = StateLoaded
	v.err = nil
	return nil
}

// Refresh re-fetches the first page under the current filters
func (v *View) Refresh(ctx context.Context) error {
	v.mu.Lock()
	filter, sort := v.filter, v.sort
	v.mu.Unlock()
	return v.Load(ctx, filter, sort)
}

// State returns the current loading state
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Items returns the currently loaded transactions
func (v *View) Items() []transaction.Transaction {
	v.mu.Lock()
	defer v.mu.Unlock()
	items := make([]transaction.Transaction, len(v.items))
	copy(items, v.items)
	return items
}

// HasMore reports whether another page is available
func (v *View) HasMore() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hasMore
}

// Err returns the error of the last failed fetch, if the view is errored
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}
