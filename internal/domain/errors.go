package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownIndicator is returned for an indicator other than VCI, TCI or VHI.
var ErrUnknownIndicator = errors.New("unknown indicator")

// NetworkError reports a failed download for one province.
type NetworkError struct {
	ProvinceID int
	Attempts   int
	Err        error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch province %d (%d attempts): %v", e.ProvinceID, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// FormatError reports a source file whose preamble lacks the province marker.
type FormatError struct {
	Path string
	Line string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: no province id in preamble %q", e.Path, e.Line)
}

// LookupError reports a province id outside the known mapping.
type LookupError struct {
	ProvinceID int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("province id %d outside 1..%d", e.ProvinceID, RegionCount)
}

// ParseError reports a field that could not be converted.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: column %s: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RangeParseError reports a malformed "start-end" input.
type RangeParseError struct {
	Input  string
	Reason string
}

func (e *RangeParseError) Error() string {
	return fmt.Sprintf("invalid range %q: %s", e.Input, e.Reason)
}

// AggregateError wraps the first failure of a strict dataset build.
type AggregateError struct {
	Path  string
	Files int
	Err   error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("assemble dataset from %d files: %s: %v", e.Files, e.Path, e.Err)
}

func (e *AggregateError) Unwrap() error { return e.Err }
