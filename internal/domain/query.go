package domain

import (
	"fmt"
	"slices"
)

// TableQuery selects one indicator for a region within year and week bounds.
type TableQuery struct {
	Region    int
	Years     Range
	Weeks     Range
	Indicator Indicator
}

// CacheKey is a stable textual form of the query.
func (q TableQuery) CacheKey() string {
	return fmt.Sprintf("table|%d|%s|%s|%s", q.Region, q.Years, q.Weeks, q.Indicator)
}

// PlotQuery selects one indicator for a region within year bounds. The
// week control is not part of a plot query.
type PlotQuery struct {
	Region    int
	Years     Range
	Indicator Indicator
}

// CacheKey is a stable textual form of the query.
func (q PlotQuery) CacheKey() string {
	return fmt.Sprintf("plot|%d|%s|%s", q.Region, q.Years, q.Indicator)
}

// Table returns {Year, Week, value} for every observation matching the
// region, year range and week range, in table order. No match yields an
// empty, non-nil slice.
func (d *Dataset) Table(q TableQuery) []Row {
	out := make([]Row, 0)
	if d == nil {
		return out
	}
	for _, o := range d.obs {
		if o.RegionID != q.Region || !q.Years.Contains(o.Year) || !q.Weeks.Contains(o.Week) {
			continue
		}
		out = append(out, Row{Year: o.Year, Week: o.Week, Value: o.Value(q.Indicator)})
	}
	return out
}

// Plot returns the full-year series for a region across the requested
// years, ordered by year then week.
func (d *Dataset) Plot(q PlotQuery) []Row {
	out := make([]Row, 0)
	if d == nil {
		return out
	}
	for _, o := range d.obs {
		if o.RegionID != q.Region || !q.Years.Contains(o.Year) {
			continue
		}
		out = append(out, Row{Year: o.Year, Week: o.Week, Value: o.Value(q.Indicator)})
	}
	slices.SortStableFunc(out, func(a, b Row) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		return a.Week - b.Week
	})
	return out
}

// YearlyMeans averages a time-ordered series per year, the way the chart
// draws one point per year.
func YearlyMeans(rows []Row) []YearMean {
	out := make([]YearMean, 0)
	for _, r := range rows {
		n := len(out)
		if n == 0 || out[n-1].Year != r.Year {
			out = append(out, YearMean{Year: r.Year})
			n++
		}
		m := &out[n-1]
		m.Weeks++
		m.Mean += (r.Value - m.Mean) / float64(m.Weeks)
	}
	return out
}
