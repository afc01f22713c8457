package domain

import (
	"slices"
	"time"
)

// Dataset is the immutable table of every observation from one ingest run.
type Dataset struct {
	obs     []WeeklyObservation
	regions []int
	builtAt time.Time
}

// NewDataset concatenates per-region batches into one table. Batch order is
// kept, and so is row order within each batch.
func NewDataset(batches ...[]WeeklyObservation) *Dataset {
	n := 0
	for _, b := range batches {
		n += len(b)
	}

	ds := &Dataset{
		obs:     make([]WeeklyObservation, 0, n),
		builtAt: clock.Now(),
	}
	seen := make(map[int]bool)
	for _, b := range batches {
		ds.obs = append(ds.obs, b...)
		for _, o := range b {
			if !seen[o.RegionID] {
				seen[o.RegionID] = true
				ds.regions = append(ds.regions, o.RegionID)
			}
		}
	}
	slices.Sort(ds.regions)
	return ds
}

// Assemble builds a dataset from every source file in paths. The first
// file that fails to normalize or parse aborts the build with an
// *AggregateError; no partial dataset is returned.
func Assemble(paths []string) (*Dataset, error) {
	batches := make([][]WeeklyObservation, 0, len(paths))
	for _, p := range paths {
		obs, err := LoadFile(p)
		if err != nil {
			return nil, &AggregateError{Path: p, Files: len(paths), Err: err}
		}
		batches = append(batches, obs)
	}
	return NewDataset(batches...), nil
}

// Len returns the number of observations.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.obs)
}

// Regions returns the sorted canonical region ids present in the dataset.
func (d *Dataset) Regions() []int {
	if d == nil {
		return nil
	}
	return slices.Clone(d.regions)
}

// BuiltAt reports when the dataset was assembled.
func (d *Dataset) BuiltAt() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.builtAt
}

// Observations returns a copy of every observation in table order.
func (d *Dataset) Observations() []WeeklyObservation {
	if d == nil {
		return nil
	}
	return slices.Clone(d.obs)
}

// Lookup returns the observation for a (region, year, week) triple.
func (d *Dataset) Lookup(regionID, year, week int) (WeeklyObservation, bool) {
	if d == nil {
		return WeeklyObservation{}, false
	}
	for _, o := range d.obs {
		if o.RegionID == regionID && o.Year == year && o.Week == week {
			return o, true
		}
	}
	return WeeklyObservation{}, false
}
