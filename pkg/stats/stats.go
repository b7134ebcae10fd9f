// Package stats loads the dashboard statistics. Each section is fetched
// independently, so a failing endpoint only degrades its own section.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/log"
)

// DefaultTodayIndex is the position of today's entry in the daily series,
// which the backend orders Sunday first and ends with the current day.
const DefaultTodayIndex = 6

// ErrNoToday is returned when the daily series has no entry at the
// configured index.
var ErrNoToday = errors.New("daily series has no entry for today")

// Section identifies one part of the dashboard statistics.
type Section string

const (
	SectionTotal   Section = "total"
	SectionDaily   Section = "daily"
	SectionLetters Section = "letters"
	SectionLevels  Section = "levels"
)

// Source provides the statistics endpoints.
type Source interface {
	TotalCustomers(ctx context.Context) (int, error)
	DailyCounts(ctx context.Context) ([]customer.DailyCount, error)
	LetterCounts(ctx context.Context) ([]customer.LetterCount, error)
	LevelCounts(ctx context.Context) ([]customer.LevelCount, error)
}

// Fallback holds the values shown for sections that failed to load.
type Fallback struct {
	Total    int `json:"total"    jsonschema:"title=Total"`
	NewToday int `json:"newToday" jsonschema:"title=New Today"`
}

// Result is the outcome of a [Loader.Load].
type Result struct {
	Errors map[Section]error
	Stats  customer.DashboardStats
}

// Failed reports whether section could not be loaded.
func (r *Result) Failed(section Section) bool {
	return r.Errors[section] != nil
}

// Err joins all section errors.
func (r *Result) Err() error {
	errs := make([]error, 0, len(r.Errors))
	for _, s := range []Section{SectionTotal, SectionDaily, SectionLetters, SectionLevels} {
		if err := r.Errors[s]; err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s, err))
		}
	}

	return errors.Join(errs...)
}

// Loader fetches [customer.DashboardStats].
type Loader struct {
	tracer     trace.Tracer
	src        Source
	fallback   Fallback
	todayIndex int
	timeout    time.Duration
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(l *Loader)

// WithTodayIndex sets the position of today's entry in the daily series.
// Negative values count from the end, so -1 selects the last entry.
func WithTodayIndex(i int) LoaderOpt {
	return func(l *Loader) {
		l.todayIndex = i
	}
}

// WithFallback sets the values used for failed sections.
func WithFallback(f Fallback) LoaderOpt {
	return func(l *Loader) {
		l.fallback = f
	}
}

// WithTimeout bounds the whole load.
func WithTimeout(d time.Duration) LoaderOpt {
	return func(l *Loader) {
		l.timeout = d
	}
}

// NewLoader creates a new [Loader].
func NewLoader(src Source, opts ...LoaderOpt) *Loader {
	l := &Loader{
		tracer:     otel.Tracer("stats"),
		src:        src,
		todayIndex: DefaultTodayIndex,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load fetches every section concurrently. It never fails as a whole:
// failed sections are reported in [Result.Errors] and filled from the
// fallback values, or left empty.
func (l *Loader) Load(ctx context.Context) *Result {
	ctx, span := l.tracer.Start(ctx, "load-stats")
	defer span.End()

	if l.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
		r  = &Result{Errors: map[Section]error{}}
	)

	fail := func(s Section, err error) {
		mu.Lock()
		defer mu.Unlock()

		r.Errors[s] = err
	}

	g.Go(func() error {
		total, err := l.src.TotalCustomers(ctx)
		if err != nil {
			fail(SectionTotal, err)

			total = l.fallback.Total
		}

		mu.Lock()
		r.Stats.Total = total
		mu.Unlock()

		return nil
	})

	g.Go(func() error {
		daily, err := l.src.DailyCounts(ctx)
		if err != nil {
			fail(SectionDaily, err)
		}

		today, todayErr := l.today(daily)
		if err == nil && todayErr != nil {
			fail(SectionDaily, todayErr)
		}

		mu.Lock()
		r.Stats.Daily = daily
		r.Stats.NewToday = today
		mu.Unlock()

		return nil
	})

	g.Go(func() error {
		letters, err := l.src.LetterCounts(ctx)
		if err != nil {
			fail(SectionLetters, err)
		}

		mu.Lock()
		r.Stats.Letters = NormalizeLetters(letters)
		mu.Unlock()

		return nil
	})

	g.Go(func() error {
		levels, err := l.src.LevelCounts(ctx)
		if err != nil {
			fail(SectionLevels, err)
		}

		mu.Lock()
		r.Stats.Levels = NormalizeLevels(levels)
		mu.Unlock()

		return nil
	})

	_ = g.Wait() //nolint:errcheck // Section errors are collected in r.Errors.

	if err := r.Err(); err != nil {
		log.WithContext(ctx).WarnContext(ctx, "some statistics are unavailable", slog.Any("err", err))
	}

	return r
}

func (l *Loader) today(daily []customer.DailyCount) (int, error) {
	i := l.todayIndex
	if i < 0 {
		i += len(daily)
	}

	if i < 0 || i >= len(daily) {
		return l.fallback.NewToday, fmt.Errorf("%w: index %d of %d", ErrNoToday, l.todayIndex, len(daily))
	}

	return daily[i].Count, nil
}

// NormalizeLetters returns one entry per known letter tier, in order,
// followed by any unknown tiers the backend reported.
func NormalizeLetters(in []customer.LetterCount) []customer.LetterCount {
	return normalize(in, customer.Letters,
		func(c customer.LetterCount) string { return c.Letter },
		func(k string) customer.LetterCount { return customer.LetterCount{Letter: k} },
	)
}

// NormalizeLevels returns one entry per known level tier, in order,
// followed by any unknown tiers the backend reported.
func NormalizeLevels(in []customer.LevelCount) []customer.LevelCount {
	return normalize(in, customer.Levels,
		func(c customer.LevelCount) string { return c.Level },
		func(k string) customer.LevelCount { return customer.LevelCount{Level: k} },
	)
}

func normalize[T any](in []T, known []string, key func(T) string, zero func(string) T) []T {
	out := make([]T, 0, max(len(known), len(in)))

	for _, k := range known {
		i := slices.IndexFunc(in, func(c T) bool { return key(c) == k })
		if i >= 0 {
			out = append(out, in[i])
		} else {
			out = append(out, zero(k))
		}
	}

	for _, c := range in {
		if !slices.Contains(known, key(c)) {
			out = append(out, c)
		}
	}

	return out
}
