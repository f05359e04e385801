package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jjenkins/neows/internal/dashboard"
	"github.com/jjenkins/neows/internal/dateutil"
	"github.com/jjenkins/neows/internal/model"
	"github.com/jjenkins/neows/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	feedStart     string
	feedEnd       string
	feedHazardous bool
	feedOrder     string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print close approaches for a date range",
	Long: `Feed fetches every close approach between --start and --end from NeoWs and
prints them as a table followed by a summary.

Ranges longer than 7 days are fetched as consecutive 7-day requests.

Examples:
  # The next four days
  ./neows feed

  # A specific range, hazardous objects only, latest first
  ./neows feed --start 2024-01-01 --end 2024-01-10 --hazardous --order desc`,
	Run: runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)

	today := dateutil.Today(time.Now())
	feedCmd.Flags().StringVarP(&feedStart, "start", "s", dateutil.FormatISODate(today), "First date to fetch (YYYY-MM-DD)")
	feedCmd.Flags().StringVarP(&feedEnd, "end", "e", dateutil.FormatISODate(dateutil.AddDays(today, dashboard.DefaultSpanDays)), "Last date to fetch (YYYY-MM-DD)")
	feedCmd.Flags().BoolVar(&feedHazardous, "hazardous", false, "Only show potentially hazardous objects")
	feedCmd.Flags().StringVarP(&feedOrder, "order", "o", "asc", "Sort by approach time: asc or desc")
}

func runFeed(cmd *cobra.Command, args []string) {
	start, err := dateutil.ParseISODate(feedStart)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}
	end, err := dateutil.ParseISODate(feedEnd)
	if err != nil {
		log.Fatalf("Invalid end date: %v", err)
	}
	if end.Before(start) {
		log.Fatalf("End date %s is before start date %s", feedEnd, feedStart)
	}

	cfg := loadConfig()
	ctx, cancel := interruptible()
	defer cancel()

	ctl := dashboard.NewController(service.NewAggregator(newClient(cfg)))
	ctl.SetHazardousOnly(feedHazardous)
	ctl.SetSortOrder(dashboard.ParseSortOrder(feedOrder))

	w := model.NewWindow(start, end)
	log.Printf("Fetching %s (%d days)", w, w.Days())
	if err := ctl.Search(ctx, w); err != nil {
		if ctx.Err() != nil {
			log.Println("Fetch cancelled")
			os.Exit(1)
		}
		log.Fatalf("Fetch failed: %v", err)
	}

	items := ctl.Snapshot().Items
	printFeedTable(os.Stdout, items, nameWidth())
	printFeedSummary(os.Stdout, service.Summarize(items))
}

// nameWidth sizes the name column to the terminal, or leaves it unbounded
// when stdout is not a terminal.
func nameWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	// Date, approach, hazard, diameter, velocity and distance columns
	const otherColumns = 88
	if width-otherColumns < 12 {
		return 12
	}
	return width - otherColumns
}

func printFeedTable(out io.Writer, items []model.NearEarthObject, maxName int) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tNAME\tAPPROACH\tHAZARD\tDIAMETER\tVELOCITY\tMISS DISTANCE")

	for _, neo := range items {
		hazard := "-"
		if neo.Hazardous {
			hazard = "yes"
		}

		approach, velocity, distance := "N/A", "N/A", "N/A"
		if cad, ok := neo.ClosestApproach(); ok {
			approach = dateutil.FormatReadableWithTime(cad.Timestamp, false)
			if cad.RelativeVelocityKps.Valid {
				velocity = fmt.Sprintf("%.3f km/s", cad.RelativeVelocityKps.Float64)
			}
			if cad.MissDistanceKm.Valid {
				distance = humanize.Comma(int64(cad.MissDistanceKm.Float64+0.5)) + " km"
			}
		}

		diameter := "N/A"
		if avg, ok := neo.AverageKmDiameter(); ok {
			diameter = fmt.Sprintf("%.3f km", avg)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			neo.Date, truncate(neo.DisplayName(), maxName), approach, hazard, diameter, velocity, distance)
	}
	tw.Flush()
}

func printFeedSummary(out io.Writer, s service.FeedSummary) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Summary ===")
	fmt.Fprintf(out, "Objects:      %d over %d days\n", s.TotalObjects, s.Dates)
	fmt.Fprintf(out, "Hazardous:    %d\n", s.HazardousObjects)
	if s.HasClosest {
		fmt.Fprintf(out, "Closest:      %s (%s km)\n", s.ClosestName, humanize.Comma(int64(s.ClosestKm+0.5)))
	}
	if s.HasFastest {
		fmt.Fprintf(out, "Fastest:      %s (%.3f km/s)\n", s.FastestName, s.FastestKps)
	}
	if s.HasLargest {
		fmt.Fprintf(out, "Largest:      %s (%.3f km)\n", s.LargestName, s.LargestKm)
	}
	if s.DiameterSample > 0 {
		fmt.Fprintf(out, "Avg diameter: %.3f km over %d objects\n", s.AverageDiamKm, s.DiameterSample)
	}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
