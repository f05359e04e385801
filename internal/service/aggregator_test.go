package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/neows/internal/dateutil"
	"github.com/jjenkins/neows/internal/model"
)

// recordingFetcher returns one record per day of each requested window and
// remembers the windows it was asked for.
type recordingFetcher struct {
	windows []model.Window
	failOn  int // 1-based call number that fails, 0 = never
}

func (f *recordingFetcher) FetchWindow(_ context.Context, w model.Window) (*model.Feed, error) {
	f.windows = append(f.windows, w)
	if f.failOn == len(f.windows) {
		return nil, &APIError{StatusCode: http.StatusInternalServerError, Body: "boom"}
	}

	feed := &model.Feed{ByDate: map[string][]model.NearEarthObject{}}
	for d := w.Start; !d.After(w.End); d = dateutil.AddDays(d, 1) {
		key := dateutil.FormatISODate(d)
		feed.ByDate[key] = []model.NearEarthObject{{ID: "neo-" + key, Name: key}}
		feed.ElementCount++
	}
	return feed, nil
}

func TestSplitWindowTenDays(t *testing.T) {
	chunks := SplitWindow(model.NewWindow(day(1), day(10)), MaxWindowDays)

	require.Len(t, chunks, 2)
	assert.Equal(t, "2024-01-01..2024-01-07", chunks[0].String())
	assert.Equal(t, "2024-01-08..2024-01-10", chunks[1].String())
}

func TestSplitWindowCoverage(t *testing.T) {
	for start := 1; start <= 5; start++ {
		for length := 1; length <= 30; length++ {
			w := model.NewWindow(day(start), dateutil.AddDays(day(start), length-1))
			t.Run(w.String(), func(t *testing.T) {
				chunks := SplitWindow(w, MaxWindowDays)
				require.NotEmpty(t, chunks)

				assert.True(t, chunks[0].Start.Equal(w.Start))
				assert.True(t, chunks[len(chunks)-1].End.Equal(w.End))

				covered := 0
				for i, c := range chunks {
					assert.LessOrEqual(t, c.Days(), MaxWindowDays)
					assert.GreaterOrEqual(t, c.Days(), 1)
					if i > 0 {
						assert.True(t, c.Start.Equal(dateutil.AddDays(chunks[i-1].End, 1)), "no gap or overlap")
					}
					covered += c.Days()
				}
				assert.Equal(t, w.Days(), covered)
			})
		}
	}
}

func TestSplitWindowInverted(t *testing.T) {
	assert.Empty(t, SplitWindow(model.NewWindow(day(5), day(4)), MaxWindowDays))
}

func TestFetchRangeSequentialChunks(t *testing.T) {
	fetcher := &recordingFetcher{}
	agg := NewAggregator(fetcher).WithLogger(testLogger)

	list, err := agg.FetchRange(context.Background(), model.NewWindow(day(1), day(10)))
	require.NoError(t, err)

	require.Len(t, fetcher.windows, 2)
	assert.Equal(t, "2024-01-01..2024-01-07", fetcher.windows[0].String())
	assert.Equal(t, "2024-01-08..2024-01-10", fetcher.windows[1].String())

	require.Len(t, list, 10)
	for i, neo := range list {
		assert.Equal(t, dateutil.FormatISODate(day(i+1)), neo.Date)
	}
}

func TestFetchRangeFailureDiscardsAll(t *testing.T) {
	fetcher := &recordingFetcher{failOn: 2}
	agg := NewAggregator(fetcher).WithLogger(testLogger)

	list, err := agg.FetchRange(context.Background(), model.NewWindow(day(1), day(20)))
	require.Error(t, err)
	assert.Nil(t, list)
	assert.Len(t, fetcher.windows, 2, "stops at the failing chunk")

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "chunk 2/3")
}

func TestFetchRangeThroughClient(t *testing.T) {
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Query().Get("start_date")+".."+r.URL.Query().Get("end_date"))
		w.Write([]byte(emptyFeed))
	}))
	defer srv.Close()

	client, _, _ := newTestClient(srv)
	agg := NewAggregator(client).WithLogger(testLogger)

	_, err := agg.FetchRange(context.Background(), model.NewWindow(day(1), day(10)))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01..2024-01-07", "2024-01-08..2024-01-10"}, requested)
}

func TestFlatten(t *testing.T) {
	feed, err := NewParser().ParseFeed([]byte(feedFixture))
	require.NoError(t, err)

	list := Flatten(feed)

	total := 0
	for _, records := range feed.ByDate {
		total += len(records)
	}
	require.Len(t, list, total)

	assert.Equal(t, []string{"2465633", "3426410", "3542519"}, ids(list), "dates ascending, provider order within a date")
	assert.Equal(t, "2024-01-01", list[0].Date)
	assert.Equal(t, "2024-01-02", list[2].Date)
}

func TestFlattenIdempotentOnSortedInput(t *testing.T) {
	feed, err := NewParser().ParseFeed([]byte(feedFixture))
	require.NoError(t, err)

	once := Flatten(feed)
	regrouped := &model.Feed{ByDate: map[string][]model.NearEarthObject{}}
	for _, neo := range once {
		regrouped.ByDate[neo.Date] = append(regrouped.ByDate[neo.Date], neo)
	}

	assert.Equal(t, once, Flatten(regrouped))
	assert.Nil(t, Flatten(nil))
}

func ids(list []model.NearEarthObject) []string {
	out := make([]string, len(list))
	for i, neo := range list {
		out[i] = neo.ID
	}
	return out
}
