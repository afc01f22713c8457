package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an inclusive [Start, End] interval of years or weeks.
type Range struct {
	Start int
	End   int
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool {
	return v >= r.Start && v <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// ParseRange parses the "start-end" text form used by the range inputs,
// e.g. "1982-2024". Surrounding whitespace on either bound is ignored.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Range{}, &RangeParseError{Input: s, Reason: "want two integers separated by a single hyphen"}
	}

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Range{}, &RangeParseError{Input: s, Reason: "start is not an integer"}
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Range{}, &RangeParseError{Input: s, Reason: "end is not an integer"}
	}
	if start > end {
		return Range{}, &RangeParseError{Input: s, Reason: "start is after end"}
	}
	return Range{Start: start, End: end}, nil
}
