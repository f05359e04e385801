package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/jjenkins/neows/internal/dateutil"
	"github.com/jjenkins/neows/internal/model"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <id>",
	Short: "Print one object's details and orbit",
	Long: `Lookup fetches a single near-earth object by its NeoWs id and prints its
size estimate, orbit solution and every recorded close approach.

Example:
  ./neows lookup 2099942`,
	Args: cobra.ExactArgs(1),
	Run:  runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	ctx, cancel := interruptible()
	defer cancel()

	detail, err := newClient(cfg).FetchDetails(ctx, args[0])
	if err != nil {
		log.Fatalf("Lookup failed: %v", err)
	}

	printDetail(os.Stdout, detail)
}

func printDetail(out io.Writer, d *model.NeoDetail) {
	fmt.Fprintf(out, "%s (id %s)\n", d.DisplayName(), d.ID)
	if d.Hazardous {
		fmt.Fprintln(out, "Potentially hazardous")
	}
	if d.Sentry {
		fmt.Fprintln(out, "On the Sentry impact-risk list")
	}
	if d.AbsoluteMagnitude.Valid {
		fmt.Fprintf(out, "Absolute magnitude: %.2f\n", d.AbsoluteMagnitude.Float64)
	}
	if avg, ok := d.AverageKmDiameter(); ok {
		fmt.Fprintf(out, "Average diameter:   %.3f km\n", avg)
	} else {
		fmt.Fprintln(out, "Average diameter:   N/A")
	}
	if d.JPLURL != "" {
		fmt.Fprintf(out, "JPL:                %s\n", d.JPLURL)
	}

	if o := d.Orbit; o != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "=== Orbit ===")
		fmt.Fprintf(out, "Orbit ID:         %s\n", o.OrbitID)
		fmt.Fprintf(out, "Class:            %s %s\n", o.OrbitClass, o.OrbitClassDescription)
		fmt.Fprintf(out, "First observed:   %s\n", dateutil.FormatReadable(o.FirstObservationDate, false))
		fmt.Fprintf(out, "Last observed:    %s\n", dateutil.FormatReadable(o.LastObservationDate, false))
		if o.Eccentricity.Valid {
			fmt.Fprintf(out, "Eccentricity:     %.4f\n", o.Eccentricity.Float64)
		}
		if o.SemiMajorAxisAU.Valid {
			fmt.Fprintf(out, "Semi-major axis:  %.4f AU\n", o.SemiMajorAxisAU.Float64)
		}
		if o.InclinationDeg.Valid {
			fmt.Fprintf(out, "Inclination:      %.2f°\n", o.InclinationDeg.Float64)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "=== Close approaches (%d) ===\n", len(d.CloseApproaches))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tBODY\tMISS DISTANCE\tVELOCITY")
	for _, cad := range d.CloseApproaches {
		ts := cad.DateFull
		if ts == "" {
			ts = cad.Date
		}
		distance, velocity := "N/A", "N/A"
		if cad.MissDistanceKm.Valid {
			distance = humanize.Comma(int64(cad.MissDistanceKm.Float64+0.5)) + " km"
		}
		if cad.RelativeVelocityKps.Valid {
			velocity = fmt.Sprintf("%.3f km/s", cad.RelativeVelocityKps.Float64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", dateutil.FormatReadable(ts, false), cad.OrbitingBody, distance, velocity)
	}
	tw.Flush()
}
