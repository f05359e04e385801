package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/jjenkins/neows/internal/dateutil"
	"github.com/jjenkins/neows/internal/model"
)

// MaxWindowDays is the longest span NeoWs accepts in one feed request
const MaxWindowDays = 7

// WindowFetcher retrieves a single feed window of at most MaxWindowDays
type WindowFetcher interface {
	FetchWindow(ctx context.Context, w model.Window) (*model.Feed, error)
}

// Aggregator turns an arbitrary date range into sequential feed requests and
// merges the results into one chronological list
type Aggregator struct {
	client WindowFetcher
	logger *log.Logger
}

// NewAggregator creates a new Aggregator
func NewAggregator(client WindowFetcher) *Aggregator {
	return &Aggregator{
		client: client,
		logger: log.New(os.Stdout, "", log.LstdFlags),
	}
}

// WithLogger replaces the aggregator's logger
func (a *Aggregator) WithLogger(l *log.Logger) *Aggregator {
	a.logger = l
	return a
}

// SplitWindow cuts w into consecutive windows of at most maxDays days. The
// pieces cover w exactly, without gaps or overlaps. An inverted window
// yields no pieces.
func SplitWindow(w model.Window, maxDays int) []model.Window {
	if maxDays <= 0 {
		maxDays = MaxWindowDays
	}

	var chunks []model.Window
	for cur := w.Start; !cur.After(w.End); {
		chunkEnd := dateutil.AddDays(cur, maxDays-1)
		if chunkEnd.After(w.End) {
			chunkEnd = w.End
		}
		chunks = append(chunks, model.NewWindow(cur, chunkEnd))
		cur = dateutil.AddDays(chunkEnd, 1)
	}
	return chunks
}

// FetchRange fetches every chunk of w one after another. A failing chunk
// fails the whole range; nothing fetched before it is returned.
func (a *Aggregator) FetchRange(ctx context.Context, w model.Window) ([]model.NearEarthObject, error) {
	chunks := SplitWindow(w, MaxWindowDays)
	if len(chunks) > 1 {
		a.logger.Printf("Fetching %s in %d requests", w, len(chunks))
	}

	var acc []model.NearEarthObject
	for idx, chunk := range chunks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		feed, err := a.client.FetchWindow(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch range %s (chunk %d/%d): %w", w, idx+1, len(chunks), err)
		}
		acc = append(acc, Flatten(feed)...)
	}

	return acc, nil
}

// Flatten lists a feed's records by ascending date key, keeping the
// provider's order within each date. Every record carries its date bucket.
func Flatten(feed *model.Feed) []model.NearEarthObject {
	if feed == nil {
		return nil
	}

	dates := make([]string, 0, len(feed.ByDate))
	total := 0
	for date, records := range feed.ByDate {
		dates = append(dates, date)
		total += len(records)
	}
	sort.Strings(dates)

	list := make([]model.NearEarthObject, 0, total)
	for _, date := range dates {
		for _, neo := range feed.ByDate[date] {
			neo.Date = date
			list = append(list, neo)
		}
	}
	return list
}
