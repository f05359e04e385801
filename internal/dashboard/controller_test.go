package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/neows/internal/dateutil"
	"github.com/jjenkins/neows/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

// fakeFetcher returns one record per day, with an epoch matching the day,
// and records each requested window.
type fakeFetcher struct {
	mu      sync.Mutex
	windows []model.Window
	err     error
}

func (f *fakeFetcher) FetchRange(_ context.Context, w model.Window) ([]model.NearEarthObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.windows = append(f.windows, w)
	if f.err != nil {
		return nil, f.err
	}
	return recordsFor(w), nil
}

func (f *fakeFetcher) calls() []model.Window {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Window(nil), f.windows...)
}

func recordsFor(w model.Window) []model.NearEarthObject {
	var out []model.NearEarthObject
	for d := w.Start; !d.After(w.End); d = dateutil.AddDays(d, 1) {
		key := dateutil.FormatISODate(d)
		out = append(out, model.NearEarthObject{
			ID:        "neo-" + key,
			Name:      "NEO " + key,
			Date:      key,
			Hazardous: d.Day()%2 == 0,
			CloseApproaches: []model.CloseApproach{{
				Date:        key,
				EpochMillis: sql.NullInt64{Int64: d.UnixMilli(), Valid: true},
			}},
		})
	}
	return out
}

func newTestController(f RangeFetcher) *Controller {
	c := NewController(f)
	c.now = func() time.Time { return time.Date(2024, time.January, 1, 15, 30, 0, 0, time.UTC) }
	return c
}

func ids(list []model.NearEarthObject) []string {
	out := make([]string, len(list))
	for i, neo := range list {
		out[i] = neo.ID
	}
	return out
}

func TestActivateLoadsDefaultWindowOnce(t *testing.T) {
	f := &fakeFetcher{}
	c := newTestController(f)

	require.NoError(t, c.Activate(context.Background()))
	require.NoError(t, c.Activate(context.Background()))

	calls := f.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "2024-01-01..2024-01-04", calls[0].String())

	s := c.Snapshot()
	assert.Len(t, s.Items, 4)
	assert.Equal(t, "2024-01-01..2024-01-04", s.LoadedWindow.String())
	assert.False(t, s.Dirty())
	assert.False(t, s.Loading)
}

func TestSearchReplacesList(t *testing.T) {
	f := &fakeFetcher{}
	c := newTestController(f)

	require.NoError(t, c.Search(context.Background(), model.NewWindow(day(1), day(2))))
	require.NoError(t, c.Search(context.Background(), model.NewWindow(day(5), day(6))))

	s := c.Snapshot()
	assert.Equal(t, []string{"neo-2024-01-05", "neo-2024-01-06"}, ids(s.All))
	assert.Equal(t, "2024-01-05..2024-01-06", s.LoadedWindow.String())
}

func TestDirtyIsDerived(t *testing.T) {
	c := newTestController(&fakeFetcher{})
	require.NoError(t, c.Search(context.Background(), model.NewWindow(day(1), day(3))))

	c.SetWindow(model.NewWindow(day(1), day(9)))
	assert.True(t, c.Snapshot().Dirty())

	c.SetWindow(model.NewWindow(day(1), day(3)))
	assert.False(t, c.Snapshot().Dirty())
}

func TestReloadClearsSelectionAndFetchesOnce(t *testing.T) {
	f := &fakeFetcher{}
	c := newTestController(f)
	require.NoError(t, c.Search(context.Background(), model.NewWindow(day(1), day(3))))

	require.True(t, c.ToggleSelection("neo-2024-01-01", true))
	require.True(t, c.ToggleSelection("neo-2024-01-02", true))
	require.Equal(t, 2, c.Snapshot().SelectionCount)

	before := len(f.calls())
	require.NoError(t, c.Reload(context.Background()))

	calls := f.calls()
	assert.Len(t, calls, before+1, "exactly one full-range fetch")
	assert.Equal(t, "2024-01-01..2024-01-03", calls[len(calls)-1].String())
	assert.Equal(t, 0, c.Snapshot().SelectionCount)
	assert.Empty(t, c.Selected())
}

func TestLoadMoreAppendsNextThreeDays(t *testing.T) {
	f := &fakeFetcher{}
	c := newTestController(f)
	require.NoError(t, c.Search(context.Background(), model.NewWindow(day(8), day(10))))
	prior := ids(c.Snapshot().All)

	require.NoError(t, c.LoadMore(context.Background()))

	calls := f.calls()
	assert.Equal(t, "2024-01-11..2024-01-13", calls[len(calls)-1].String())

	s := c.Snapshot()
	require.Len(t, s.All, 6)
	assert.Equal(t, prior, ids(s.All[:3]), "prior entries keep their order")
	assert.Equal(t, []string{"neo-2024-01-11", "neo-2024-01-12", "neo-2024-01-13"}, ids(s.All[3:]))
	assert.Equal(t, "2024-01-08..2024-01-13", s.LoadedWindow.String())
	assert.False(t, s.Dirty(), "untouched pickers follow the loaded end")
}

func TestLoadMoreIgnoresEditedPickers(t *testing.T) {
	f := &fakeFetcher{}
	c := newTestController(f)
	require.NoError(t, c.Search(context.Background(), model.NewWindow(day(1), day(10))))

	c.SetWindow(model.NewWindow(day(1), day(20)))
	require.NoError(t, c.LoadMore(context.Background()))

	calls := f.calls()
	assert.Equal(t, "2024-01-11..2024-01-13", calls[len(calls)-1].String())

	s := c.Snapshot()
	assert.Equal(t, "2024-01-01..2024-01-20", s.Requested.String())
	assert.Equal(t, "2024-01-01..2024-01-13", s.LoadedWindow.String())
}

func TestLoadMoreBeforeLoad(t *testing.T) {
	c := newTestController(&fakeFetcher{})
	assert.ErrorIs(t, c.LoadMore(context.Background()), ErrNothingLoaded)
}

func TestFailedFetchKeepsLoadedData(t *testing.T) {
	f := &fakeFetcher{}
	c := newTestController(f)
	require.NoError(t, c.Search(context.Background(), model.NewWindow(day(1), day(2))))

	boom := errors.New("NASA API error 500: boom")
	f.err = boom
	err := c.Search(context.Background(), model.NewWindow(day(3), day(4)))
	require.ErrorIs(t, err, boom)

	s := c.Snapshot()
	assert.ErrorIs(t, s.Err, boom)
	assert.Len(t, s.All, 2, "stale data stays in memory")
	assert.Equal(t, "2024-01-01..2024-01-02", s.LoadedWindow.String())
	assert.True(t, s.Dirty())

	f.err = nil
	require.NoError(t, c.Reload(context.Background()))
	assert.NoError(t, c.Snapshot().Err)
}

func TestFilterAndSortNeverFetch(t *testing.T) {
	f := &fakeFetcher{}
	c := newTestController(f)
	require.NoError(t, c.Search(context.Background(), model.NewWindow(day(1), day(4))))
	before := len(f.calls())

	c.SetHazardousOnly(true)
	c.SetSortOrder(SortDescending)

	s := c.Snapshot()
	assert.Equal(t, []string{"neo-2024-01-04", "neo-2024-01-02"}, ids(s.Items))
	assert.Len(t, s.All, 4)

	c.SetHazardousOnly(false)
	c.SetSortOrder(SortAscending)
	assert.Equal(t, []string{"neo-2024-01-01", "neo-2024-01-02", "neo-2024-01-03", "neo-2024-01-04"}, ids(c.Snapshot().Items))

	assert.Len(t, f.calls(), before)
}

func TestGroupsByDate(t *testing.T) {
	c := newTestController(&fakeFetcher{})
	require.NoError(t, c.Search(context.Background(), model.NewWindow(day(1), day(3))))
	c.SetSortOrder(SortDescending)

	groups := c.Snapshot().Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, "2024-01-03", groups[0].Date)
	assert.Equal(t, "2024-01-01", groups[2].Date)
	assert.Len(t, groups[0].Objects, 1)
}

func TestSelectionSurvivesSearch(t *testing.T) {
	c := newTestController(&fakeFetcher{})
	require.NoError(t, c.Search(context.Background(), model.NewWindow(day(1), day(2))))

	require.True(t, c.ToggleSelection("neo-2024-01-01", true))
	assert.False(t, c.ToggleSelection("unknown", true))

	require.NoError(t, c.Search(context.Background(), model.NewWindow(day(5), day(6))))
	c.SetHazardousOnly(true)

	assert.True(t, c.IsSelected("neo-2024-01-01"))
	selected := c.Selected()
	require.Len(t, selected, 1)
	assert.Equal(t, "NEO 2024-01-01", selected[0].Name)

	neo, ok := c.Find("neo-2024-01-01")
	assert.True(t, ok, "selected records stay reachable after the list changes")
	assert.Equal(t, "2024-01-01", neo.Date)

	assert.True(t, c.ToggleSelection("neo-2024-01-01", false))
	assert.False(t, c.IsSelected("neo-2024-01-01"))
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortDescending, ParseSortOrder("DESC"))
	assert.Equal(t, SortAscending, ParseSortOrder("asc"))
	assert.Equal(t, SortAscending, ParseSortOrder("sideways"))
}

// blockingFetcher holds each fetch until released, so tests can finish
// requests out of order.
type blockingFetcher struct {
	started chan model.Window
	release map[string]chan struct{}
	mu      sync.Mutex
}

func newBlockingFetcher() *blockingFetcher {
	return &blockingFetcher{
		started: make(chan model.Window, 4),
		release: make(map[string]chan struct{}),
	}
}

func (b *blockingFetcher) gate(w model.Window) chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.release[w.String()]
	if !ok {
		ch = make(chan struct{})
		b.release[w.String()] = ch
	}
	return ch
}

func (b *blockingFetcher) FetchRange(ctx context.Context, w model.Window) ([]model.NearEarthObject, error) {
	gate := b.gate(w)
	b.started <- w
	select {
	case <-gate:
		return recordsFor(w), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	b := newBlockingFetcher()
	c := newTestController(b)
	older := model.NewWindow(day(1), day(2))
	newer := model.NewWindow(day(5), day(6))

	olderDone := make(chan error, 1)
	go func() { olderDone <- c.Search(context.Background(), older) }()
	<-b.started

	newerDone := make(chan error, 1)
	go func() { newerDone <- c.Search(context.Background(), newer) }()
	<-b.started

	assert.True(t, c.Snapshot().Loading)

	close(b.gate(newer))
	require.NoError(t, <-newerDone)

	close(b.gate(older))
	assert.ErrorIs(t, <-olderDone, ErrSuperseded)

	s := c.Snapshot()
	assert.Equal(t, []string{"neo-2024-01-05", "neo-2024-01-06"}, ids(s.All))
	assert.Equal(t, newer.String(), s.LoadedWindow.String())
	assert.False(t, s.Loading)
}

func TestDuplicateActionRejected(t *testing.T) {
	b := newBlockingFetcher()
	c := newTestController(b)
	w := model.NewWindow(day(1), day(2))

	done := make(chan error, 1)
	go func() { done <- c.Search(context.Background(), w) }()
	<-b.started

	assert.ErrorIs(t, c.Search(context.Background(), w), ErrInFlight)

	close(b.gate(w))
	require.NoError(t, <-done)
	assert.Len(t, c.Snapshot().All, 2)
}
