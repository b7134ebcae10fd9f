// Package fetcher implements a paged retrieval controller for the customer
// listing. A [Fetcher] owns the current page, issues loads through a
// [PageLister], and notifies subscribers as loads start and finish.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/log"
	"github.com/macropower/leads/pkg/pagination"
)

const (
	// DefaultLimit is the page size used when none is configured.
	DefaultLimit = 10

	// DefaultErrorMessage is shown to users when a load fails.
	DefaultErrorMessage = "failed to load customers"
)

// ErrSuperseded is returned by a load whose result was discarded because a
// newer load was issued.
var ErrSuperseded = errors.New("load superseded")

// PageLister retrieves one page of customers.
type PageLister interface {
	ListPage(ctx context.Context, page, limit int, f customer.Filters) (*customer.Page, error)
}

// Status is the state of a [Fetcher].
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	}

	return fmt.Sprintf("status(%d)", int(s))
}

// Snapshot is a consistent copy of a [Fetcher]'s state.
type Snapshot struct {
	Err          error
	Customers    []customer.Customer
	Filters      customer.Filters
	ErrorMessage string
	Pagination   pagination.Info
	Status       Status
}

// Fetcher is a paged retrieval controller. Only the result of the most
// recently issued load is ever applied: issuing a load cancels the one in
// flight, and a result arriving for a superseded load is discarded.
type Fetcher struct {
	tracer       trace.Tracer
	source       PageLister
	cancelFunc   context.CancelFunc
	filters      customer.Filters
	errorMessage string
	listeners    []chan<- Event
	state        Snapshot
	generation   uint64
	limit        int
	initialPage  int
	timeout      time.Duration
	startOnce    sync.Once
	mu           sync.Mutex
	listenersMu  sync.RWMutex
	loaded       bool
}

// Opt configures a [Fetcher].
type Opt func(f *Fetcher)

// WithLimit sets the page size.
func WithLimit(limit int) Opt {
	return func(f *Fetcher) {
		if limit > 0 {
			f.limit = limit
		}
	}
}

// WithInitialPage sets the page loaded by [Fetcher.Start].
func WithInitialPage(page int) Opt {
	return func(f *Fetcher) {
		if page > 0 {
			f.initialPage = page
		}
	}
}

// WithTimeout bounds each load. A load that exceeds it ends in the error
// state. Zero disables the timeout.
func WithTimeout(d time.Duration) Opt {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithFilters sets the initial listing filters.
func WithFilters(filters customer.Filters) Opt {
	return func(f *Fetcher) {
		f.filters = filters
	}
}

// WithErrorMessage sets the message stored when a load fails.
func WithErrorMessage(msg string) Opt {
	return func(f *Fetcher) {
		if msg != "" {
			f.errorMessage = msg
		}
	}
}

// New creates a new [Fetcher] reading pages from source.
func New(source PageLister, opts ...Opt) *Fetcher {
	f := &Fetcher{
		tracer:       otel.Tracer("fetcher"),
		source:       source,
		limit:        DefaultLimit,
		initialPage:  1,
		errorMessage: DefaultErrorMessage,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.state = Snapshot{
		Pagination: pagination.Empty(f.limit),
		Filters:    f.filters,
		Status:     StatusIdle,
	}

	return f
}

// Subscribe registers ch to receive every subsequent [Event]. Sends are
// blocking, so subscribers must keep draining ch.
func (f *Fetcher) Subscribe(ch chan<- Event) {
	f.listenersMu.Lock()
	defer f.listenersMu.Unlock()

	f.listeners = append(f.listeners, ch)
}

// Snapshot returns a copy of the current state.
func (f *Fetcher) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.snapshotLocked()
}

func (f *Fetcher) snapshotLocked() Snapshot {
	s := f.state
	s.Customers = slices.Clone(f.state.Customers)

	return s
}

// Limit returns the page size.
func (f *Fetcher) Limit() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.limit
}

// Start loads the initial page. Only the first call has any effect.
func (f *Fetcher) Start(ctx context.Context) error {
	var err error

	f.startOnce.Do(func() {
		err = f.Load(ctx, f.initialPage)
	})

	return err
}

// Load fetches page and makes it the current state. It blocks until the
// load completes, fails, or is superseded by a later call, in which case
// [ErrSuperseded] is returned and the state is left to the later load.
func (f *Fetcher) Load(ctx context.Context, page int) error {
	ctx, span := f.tracer.Start(ctx, "load", trace.WithAttributes(
		attribute.Int("page", page),
	))
	defer span.End()

	logger := log.WithContext(ctx)

	f.mu.Lock()

	if f.cancelFunc != nil {
		// The superseded load broadcasts its own cancel event.
		f.cancelFunc()
	}

	f.generation++
	gen := f.generation

	loadCtx, cancel := f.loadContext(ctx)
	f.cancelFunc = cancel

	f.state.Status = StatusLoading
	limit := f.limit
	filters := f.filters

	f.mu.Unlock()

	defer cancel()

	f.broadcast(NewEventStart(ctx, page))

	result, err := f.source.ListPage(loadCtx, page, limit, filters)
	if err == nil && result != nil && pastLastPage(result.Pagination) {
		// The listing shrank, e.g. after deleting the last row of the last page.
		last := result.Pagination.TotalPages
		logger.DebugContext(ctx, "page out of range, loading last page",
			slog.Int("page", page),
			slog.Int("last", last),
		)

		page = last
		result, err = f.source.ListPage(loadCtx, page, limit, filters)
	}

	f.mu.Lock()

	if gen != f.generation {
		f.mu.Unlock()

		logger.DebugContext(ctx, "discarding superseded load", slog.Int("page", page))
		f.broadcast(NewEventCancel(ctx, page))

		return ErrSuperseded
	}

	f.cancelFunc = nil

	if err == nil && result == nil {
		err = errors.New("empty page")
	}

	if err != nil && (errors.Is(ctx.Err(), context.Canceled) || errors.Is(loadCtx.Err(), context.Canceled)) {
		// The caller gave up or [Fetcher.Cancel] was called; keep the previous data.
		f.state.Status = f.settledStatusLocked()
		f.mu.Unlock()

		f.broadcast(NewEventCancel(ctx, page))

		return fmt.Errorf("load page %d: %w", page, context.Canceled)
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("load page %d: timed out after %s: %w", page, f.timeout, err)
		} else {
			err = fmt.Errorf("load page %d: %w", page, err)
		}

		f.loaded = false
		f.state = Snapshot{
			Pagination:   pagination.Empty(limit),
			Filters:      filters,
			Status:       StatusError,
			Err:          err,
			ErrorMessage: f.errorMessage,
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "load customers", slog.Int("page", page), slog.Any("err", err))
	} else {
		f.loaded = true
		f.state = Snapshot{
			Customers:  result.Customers,
			Pagination: result.Pagination,
			Filters:    filters,
			Status:     StatusReady,
		}
		if f.state.Pagination.Limit <= 0 {
			f.state.Pagination.Limit = limit
		}
		if len(f.state.Customers) > f.state.Pagination.Limit {
			f.state.Customers = f.state.Customers[:f.state.Pagination.Limit]
		}

		logger.DebugContext(ctx, "loaded customers",
			slog.Int("page", result.Pagination.Page),
			slog.Int("count", len(result.Customers)),
			slog.Int("total", result.Pagination.Total),
		)
	}

	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.broadcast(NewEventEnd(ctx, snap))

	return err
}

// GoToPage loads page n. It does nothing unless 1 <= n <= totalPages.
func (f *Fetcher) GoToPage(ctx context.Context, n int) error {
	f.mu.Lock()
	ok := f.state.Pagination.Contains(n)
	f.mu.Unlock()

	if !ok {
		return nil
	}

	return f.Load(ctx, n)
}

// GoToNext loads the page after the current one, if any.
func (f *Fetcher) GoToNext(ctx context.Context) error {
	return f.GoToPage(ctx, f.Snapshot().Pagination.Page+1)
}

// GoToPrevious loads the page before the current one, if any.
func (f *Fetcher) GoToPrevious(ctx context.Context) error {
	return f.GoToPage(ctx, f.Snapshot().Pagination.Page-1)
}

// Refetch reloads the current page.
func (f *Fetcher) Refetch(ctx context.Context) error {
	return f.Load(ctx, f.Snapshot().Pagination.Page)
}

// SetFilters replaces the listing filters and loads the first page.
func (f *Fetcher) SetFilters(ctx context.Context, filters customer.Filters) error {
	f.mu.Lock()
	f.filters = filters
	f.mu.Unlock()

	return f.Load(ctx, 1)
}

// SetLimit changes the page size and loads the first page.
func (f *Fetcher) SetLimit(ctx context.Context, limit int) error {
	if limit <= 0 {
		return fmt.Errorf("page size must be positive, got %d", limit)
	}

	f.mu.Lock()
	f.limit = limit
	f.mu.Unlock()

	return f.Load(ctx, 1)
}

// Cancel aborts the load in flight, if any. The aborted load keeps the
// previous state and broadcasts [EventCancel].
func (f *Fetcher) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancelFunc != nil {
		f.cancelFunc()
	}
}

func pastLastPage(info pagination.Info) bool {
	return info.TotalPages > 0 && info.Page > info.TotalPages
}

func (f *Fetcher) loadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout > 0 {
		return context.WithTimeout(ctx, f.timeout)
	}

	return context.WithCancel(ctx)
}

// settledStatusLocked returns the status to restore after a canceled load.
func (f *Fetcher) settledStatusLocked() Status {
	switch {
	case f.state.Err != nil:
		return StatusError
	case f.loaded:
		return StatusReady
	}

	return StatusIdle
}

func (f *Fetcher) broadcast(evt Event) {
	ctx := evt.GetContext()

	log.WithContext(ctx).DebugContext(ctx, "broadcasting event",
		slog.String("event", fmt.Sprintf("%T", evt)),
	)

	f.listenersMu.RLock()
	defer f.listenersMu.RUnlock()

	for _, ch := range f.listeners {
		ch <- evt
	}
}
