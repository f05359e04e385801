// Package dashboard owns the per-visitor view state: the requested and
// loaded date windows, the loaded list, filter and sort settings, and the
// cross-page selection used by the comparison view.
package dashboard

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jjenkins/neows/internal/dateutil"
	"github.com/jjenkins/neows/internal/model"
)

const (
	// DefaultSpanDays is how far past today the initial load reaches.
	DefaultSpanDays = 3
	// LoadMoreDays is the number of days appended by LoadMore.
	LoadMoreDays = 3
)

var (
	// ErrInFlight is returned when the same action for the same window is
	// already running.
	ErrInFlight = errors.New("request already in progress")
	// ErrSuperseded is returned when a newer action finished first; the
	// result of the older one is discarded.
	ErrSuperseded = errors.New("request superseded by a newer one")
	// ErrNothingLoaded is returned by LoadMore before any window has loaded.
	ErrNothingLoaded = errors.New("nothing loaded yet")
)

// RangeFetcher retrieves every record in a date window.
type RangeFetcher interface {
	FetchRange(ctx context.Context, w model.Window) ([]model.NearEarthObject, error)
}

// SortOrder orders records by their primary close-approach epoch.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ParseSortOrder maps user input to a SortOrder, defaulting to ascending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDescending)) {
		return SortDescending
	}
	return SortAscending
}

type action int

const (
	actionSearch action = iota
	actionLoadMore
)

type pending struct {
	action action
	window model.Window
}

// Group is the records sharing one feed date, in display order.
type Group struct {
	Date    string
	Objects []model.NearEarthObject
}

// Controller sequences dashboard actions into range fetches. Its methods
// are safe for concurrent use; the lock is never held across a fetch.
type Controller struct {
	fetcher RangeFetcher
	now     func() time.Time

	mu            sync.Mutex
	activated     bool
	requested     model.Window
	loaded        model.Window
	list          []model.NearEarthObject
	hazardousOnly bool
	order         SortOrder
	err           error
	selections    map[string]model.NearEarthObject

	generation uint64 // id of the latest issued fetch
	inflight   map[uint64]pending
}

// NewController creates a Controller backed by fetcher.
func NewController(fetcher RangeFetcher) *Controller {
	return &Controller{
		fetcher:    fetcher,
		now:        time.Now,
		order:      SortAscending,
		selections: make(map[string]model.NearEarthObject),
		inflight:   make(map[uint64]pending),
	}
}

// DefaultWindow is today through today+DefaultSpanDays.
func (c *Controller) DefaultWindow() model.Window {
	today := dateutil.Today(c.now())
	return model.NewWindow(today, dateutil.AddDays(today, DefaultSpanDays))
}

// Activate performs the initial load the first time it is called.
func (c *Controller) Activate(ctx context.Context) error {
	c.mu.Lock()
	if c.activated {
		c.mu.Unlock()
		return nil
	}
	c.activated = true
	c.requested = c.DefaultWindow()
	w := c.requested
	c.mu.Unlock()

	return c.search(ctx, w)
}

// SetWindow changes the requested window without fetching, as when the date
// pickers are edited before pressing Search.
func (c *Controller) SetWindow(w model.Window) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activated = true
	c.requested = w
}

// Search replaces the list with every record in w.
func (c *Controller) Search(ctx context.Context, w model.Window) error {
	c.SetWindow(w)
	return c.search(ctx, w)
}

// Reload clears the selection and re-fetches the requested window.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	c.activated = true
	if c.requested.IsZero() {
		c.requested = c.DefaultWindow()
	}
	c.selections = make(map[string]model.NearEarthObject)
	w := c.requested
	c.mu.Unlock()

	return c.search(ctx, w)
}

func (c *Controller) search(ctx context.Context, w model.Window) error {
	gen, err := c.begin(actionSearch, w)
	if err != nil {
		return err
	}

	list, err := c.fetcher.FetchRange(ctx, w)

	return c.finish(gen, err, func() {
		c.list = list
		c.loaded = w
	})
}

// LoadMore appends the LoadMoreDays days following the loaded end date and
// advances the loaded end. The requested end moves along with it unless the
// visitor has edited it since the last load.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.loaded.IsZero() {
		c.mu.Unlock()
		return ErrNothingLoaded
	}
	prevEnd := c.loaded.End
	c.mu.Unlock()

	w := model.NewWindow(dateutil.AddDays(prevEnd, 1), dateutil.AddDays(prevEnd, LoadMoreDays))

	gen, err := c.begin(actionLoadMore, w)
	if err != nil {
		return err
	}

	more, err := c.fetcher.FetchRange(ctx, w)

	return c.finish(gen, err, func() {
		c.list = append(c.list, more...)
		if c.requested.Equal(c.loaded) {
			c.requested.End = w.End
		}
		c.loaded.End = w.End
	})
}

// begin registers a fetch and returns its generation.
func (c *Controller) begin(a action, w model.Window) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.inflight {
		if p.action == a && p.window.Equal(w) {
			return 0, ErrInFlight
		}
	}

	c.generation++
	c.inflight[c.generation] = pending{action: a, window: w}
	return c.generation, nil
}

// finish applies a fetch result if gen is still the latest generation.
func (c *Controller) finish(gen uint64, fetchErr error, apply func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inflight, gen)
	if gen != c.generation {
		return ErrSuperseded
	}

	if fetchErr != nil {
		c.err = fetchErr
		return fetchErr
	}

	c.err = nil
	apply()
	return nil
}

// SetHazardousOnly toggles the hazardous filter. It never fetches.
func (c *Controller) SetHazardousOnly(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hazardousOnly = on
}

// SetSortOrder changes the sort order. It never fetches.
func (c *Controller) SetSortOrder(o SortOrder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = o
}

// ToggleSelection selects or deselects the loaded record with the given id.
// It reports false when no loaded record has that id.
func (c *Controller) ToggleSelection(id string, checked bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !checked {
		delete(c.selections, id)
		return true
	}

	for _, neo := range c.list {
		if neo.ID == id {
			c.selections[neo.ID] = neo
			return true
		}
	}
	return false
}

// IsSelected reports whether id is in the selection.
func (c *Controller) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selections[id]
	return ok
}

// Selected returns the selection ordered by name.
func (c *Controller) Selected() []model.NearEarthObject {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.NearEarthObject, 0, len(c.selections))
	for _, neo := range c.selections {
		out = append(out, neo)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Find returns a loaded record by id.
func (c *Controller) Find(id string) (model.NearEarthObject, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, neo := range c.list {
		if neo.ID == id {
			return neo, true
		}
	}
	if neo, ok := c.selections[id]; ok {
		return neo, true
	}
	return model.NearEarthObject{}, false
}

// State is a point-in-time copy of the view state.
type State struct {
	Requested      model.Window
	LoadedWindow   model.Window
	Loading        bool
	Err            error
	HazardousOnly  bool
	Order          SortOrder
	Items          []model.NearEarthObject // filtered and sorted
	All            []model.NearEarthObject // loaded order, unfiltered
	SelectionCount int
	Selected       map[string]bool
}

// Dirty reports whether the requested window differs from the loaded one.
func (s State) Dirty() bool {
	return !s.Requested.Equal(s.LoadedWindow)
}

// Groups splits Items by feed date, keeping first-appearance order.
func (s State) Groups() []Group {
	var groups []Group
	index := make(map[string]int)
	for _, neo := range s.Items {
		i, ok := index[neo.Date]
		if !ok {
			i = len(groups)
			index[neo.Date] = i
			groups = append(groups, Group{Date: neo.Date})
		}
		groups[i].Objects = append(groups[i].Objects, neo)
	}
	return groups
}

// Snapshot returns the current state with the filter and sort applied.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	selected := make(map[string]bool, len(c.selections))
	for id := range c.selections {
		selected[id] = true
	}

	return State{
		Requested:      c.requested,
		LoadedWindow:   c.loaded,
		Loading:        len(c.inflight) > 0,
		Err:            c.err,
		HazardousOnly:  c.hazardousOnly,
		Order:          c.order,
		Items:          view(c.list, c.hazardousOnly, c.order),
		All:            append([]model.NearEarthObject(nil), c.list...),
		SelectionCount: len(c.selections),
		Selected:       selected,
	}
}

// view filters and sorts a copy of list; the loaded order is left intact.
func view(list []model.NearEarthObject, hazardousOnly bool, order SortOrder) []model.NearEarthObject {
	out := make([]model.NearEarthObject, 0, len(list))
	for _, neo := range list {
		if hazardousOnly && !neo.Hazardous {
			continue
		}
		out = append(out, neo)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if order == SortDescending {
			return out[i].ApproachEpoch() > out[j].ApproachEpoch()
		}
		return out[i].ApproachEpoch() < out[j].ApproachEpoch()
	})
	return out
}
