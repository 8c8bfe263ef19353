package engine

import (
	"context"
	"fmt"

	"fedadmin/internal/errs"
)

// FetchStatus is the lifecycle of a collection fetch.
type FetchStatus int

const (
	StatusIdle FetchStatus = iota
	StatusLoading
	StatusError
)

func (s FetchStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("FetchStatus(%d)", int(s))
	}
}

// Collection holds the last successfully fetched page of a domain, its
// aggregate stats and the fetch status. Every fetch is tagged with a
// monotonically increasing sequence number and only the result of the
// latest one is ever applied.
type Collection[T Entity] struct {
	items  []T
	stats  Stats
	status FetchStatus
	err    error
	loaded bool

	seq     uint64
	pending bool
	query   ListQuery
	cancel  context.CancelFunc
}

func NewCollection[T Entity]() *Collection[T] {
	return &Collection[T]{stats: Stats{}}
}

// FetchRequest is one issued fetch. Run it from any goroutine and hand the
// result back to Collection.Apply on the owner goroutine.
type FetchRequest[T Entity] struct {
	Seq   uint64
	Query ListQuery
	ctx   context.Context
}

// FetchResult is the outcome of a FetchRequest.
type FetchResult[T Entity] struct {
	Seq   uint64
	Query ListQuery
	Page  Page[T]
	Err   error
}

// Begin issues a new fetch. The previous in-flight fetch, if any, is
// cancelled and its result will be discarded. Status becomes loading and
// any previous error is cleared.
func (c *Collection[T]) Begin(parent context.Context, q ListQuery) FetchRequest[T] {
	if q.Page < 1 {
		q.Page = 1
	}
	if c.cancel != nil {
		c.cancel()
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	c.seq++
	c.cancel = cancel
	c.pending = true
	c.query = q
	c.status = StatusLoading
	c.err = nil

	return FetchRequest[T]{Seq: c.seq, Query: q, ctx: ctx}
}

// Run performs the fetch. It touches no collection state and never panics.
func (r FetchRequest[T]) Run(backend Lister[T]) (res FetchResult[T]) {
	res = FetchResult[T]{Seq: r.Seq, Query: r.Query}
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("list panicked: %v", p)
		}
	}()

	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	res.Page, res.Err = backend.List(ctx, r.Query)
	return res
}

// Pending returns the query of the in-flight fetch, if any.
func (c *Collection[T]) Pending() (ListQuery, bool) {
	return c.query, c.pending
}

// Apply folds res into the collection and reports whether it was the
// latest fetch. Superseded results are dropped without touching state. A
// failed fetch keeps the previous items and stats.
func (c *Collection[T]) Apply(res FetchResult[T]) bool {
	if !c.pending || res.Seq != c.seq {
		return false
	}
	c.pending = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if res.Err != nil {
		c.status = StatusError
		c.err = errs.Wrap(res.Err, errs.CodeFetchFailure, fmt.Sprintf("fetching page %d", res.Query.Page))
		return true
	}

	c.items = res.Page.Items
	c.stats = res.Page.Stats
	if c.stats == nil {
		c.stats = Stats{}
	}
	c.status = StatusIdle
	c.err = nil
	c.loaded = true
	return true
}

// Abort cancels the in-flight fetch, if any, and returns to idle. The
// pending result will be discarded.
func (c *Collection[T]) Abort() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.pending {
		c.pending = false
		c.seq++
		if c.status == StatusLoading {
			c.status = StatusIdle
		}
	}
}

func (c *Collection[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Len() int { return len(c.items) }

// At returns the item displayed at row i.
func (c *Collection[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(c.items) {
		return zero, false
	}
	return c.items[i], true
}

// Find returns the displayed item with id.
func (c *Collection[T]) Find(id int64) (T, bool) {
	for _, item := range c.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) IDs() []int64 {
	ids := make([]int64, len(c.items))
	for i, item := range c.items {
		ids[i] = item.EntityID()
	}
	return ids
}

func (c *Collection[T]) Stats() Stats {
	out := make(Stats, len(c.stats))
	for k, v := range c.stats {
		out[k] = v
	}
	return out
}

func (c *Collection[T]) Status() FetchStatus { return c.status }

// Err is the FetchError of the latest fetch, nil unless Status is StatusError.
func (c *Collection[T]) Err() error { return c.err }

// Loaded reports whether any fetch has succeeded yet. A failure before the
// first success has no previous data to keep on screen.
func (c *Collection[T]) Loaded() bool { return c.loaded }

func (c *Collection[T]) Loading() bool { return c.status == StatusLoading }

// Seq is the sequence number of the latest issued fetch.
func (c *Collection[T]) Seq() uint64 { return c.seq }
