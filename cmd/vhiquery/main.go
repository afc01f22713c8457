// Command vhiquery answers table and plot queries against an existing
// workspace of NOAA exports without starting the dashboard. It uses the same
// domain package as the server, so results match the HTTP API.
//
// Usage:
//
//	go run ./cmd/vhiquery -dir data -region 9 -years 2020-2020 -weeks 1-52 -indicator VHI
//	go run ./cmd/vhiquery -dir data -region 9 -years 1982-2024 -indicator TCI -plot
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/vhi-dashboard/internal/adapter/workspace"
	"github.com/couchcryptid/vhi-dashboard/internal/domain"
	"github.com/couchcryptid/vhi-dashboard/internal/ingest"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("vhiquery", flag.ContinueOnError)
	dir := fs.String("dir", "data", "workspace directory holding vhi_id_*.csv exports")
	region := fs.Int("region", 1, "canonical region id (1-27)")
	years := fs.String("years", "1982-2024", "inclusive year range, start-end")
	weeks := fs.String("weeks", "1-52", "inclusive week range, start-end (table only)")
	indicator := fs.String("indicator", "VHI", "VCI, TCI or VHI")
	plot := fs.Bool("plot", false, "print per-year means of the plot series instead of the table")
	asJSON := fs.Bool("json", false, "print JSON instead of a text table")
	strict := fs.Bool("strict", false, "fail on the first malformed file instead of skipping it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ind, err := domain.ParseIndicator(*indicator)
	if err != nil {
		return err
	}
	yr, err := domain.ParseRange(*years)
	if err != nil {
		return err
	}
	wk, err := domain.ParseRange(*weeks)
	if err != nil {
		return err
	}

	ds, err := load(*dir, *strict)
	if err != nil {
		return err
	}

	if *plot {
		means := domain.YearlyMeans(ds.Plot(domain.PlotQuery{Region: *region, Years: yr, Indicator: ind}))
		if *asJSON {
			return json.NewEncoder(out).Encode(means)
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(tw, "Year\tWeeks\tMean %s\t\n", ind)
		for _, m := range means {
			fmt.Fprintf(tw, "%d\t%d\t%.2f\t\n", m.Year, m.Weeks, m.Mean)
		}
		return tw.Flush()
	}

	rows := ds.Table(domain.TableQuery{Region: *region, Years: yr, Weeks: wk, Indicator: ind})
	if *asJSON {
		return json.NewEncoder(out).Encode(rows)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Year\tWeek\t%s\t\n", ind)
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t\n", r.Year, r.Week, r.Value)
	}
	return tw.Flush()
}

func load(dir string, strict bool) (*domain.Dataset, error) {
	paths, err := workspace.New(dir, nil).Paths()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no exports found in %s", dir)
	}
	if strict {
		return domain.Assemble(paths)
	}

	ds, err := ingest.AssembleTolerant(paths, func(p string, err error) {
		if src, ok := workspace.Describe(p); ok {
			log.Printf("skipping province %d (fetched %s): %v", src.ProvinceID, src.FetchedAt.Format(time.DateTime), err)
			return
		}
		log.Printf("skipping %s: %v", p, err)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return ds, nil
}
