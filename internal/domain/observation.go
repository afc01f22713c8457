package domain

import (
	"fmt"
	"time"
)

// MissingValue is the provider sentinel for a missing VHI reading.
const MissingValue = -1.0

// WeeklyObservation is one week of indices for one canonical region.
type WeeklyObservation struct {
	RegionID int     `json:"region_id"`
	Year     int     `json:"year"`
	Week     int     `json:"week"`
	VCI      float64 `json:"vci"`
	TCI      float64 `json:"tci"`
	VHI      float64 `json:"vhi"`
}

// Key identifies an observation within a dataset, e.g. "9-2020-10".
func (o WeeklyObservation) Key() string {
	return fmt.Sprintf("%d-%d-%d", o.RegionID, o.Year, o.Week)
}

// Value returns the observation's reading for the given indicator.
func (o WeeklyObservation) Value(ind Indicator) float64 {
	switch ind {
	case VCI:
		return o.VCI
	case TCI:
		return o.TCI
	default:
		return o.VHI
	}
}

// Indicator names one of the three published indices.
type Indicator string

const (
	VCI Indicator = "VCI"
	TCI Indicator = "TCI"
	VHI Indicator = "VHI"
)

// Indicators lists the selectable indicators in presentation order.
var Indicators = []Indicator{VCI, TCI, VHI}

// ParseIndicator validates an indicator name.
func ParseIndicator(s string) (Indicator, error) {
	switch Indicator(s) {
	case VCI, TCI, VHI:
		return Indicator(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownIndicator, s)
	}
}

// Row is one projected query result.
type Row struct {
	Year  int     `json:"year"`
	Week  int     `json:"week"`
	Value float64 `json:"value"`
}

// YearMean is the mean of an indicator over every matching week of a year.
type YearMean struct {
	Year  int     `json:"year"`
	Mean  float64 `json:"mean"`
	Weeks int     `json:"weeks"`
}

// SourceFile describes one raw per-province download in the workspace.
type SourceFile struct {
	Path       string
	ProvinceID int
	FetchedAt  time.Time
}
