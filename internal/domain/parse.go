package domain

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column layout of a data row. SMN, SMT and the trailing empty column are
// read but never kept.
const (
	colYear = iota
	colWeek
	colSMN
	colSMT
	colVCI
	colTCI
	colVHI
	colEmpty
)

// headerLines is the preamble line plus the header row.
const headerLines = 2

// exportPrefixLen is the length of the "<tt><pre>" carryover on the first row.
const exportPrefixLen = 9

var columnNames = [...]string{"Year", "Week", "SMN", "SMT", "VCI", "TCI", "VHI", "empty"}

// StripExportPrefix removes the fixed-width HTML carryover that the export
// glues onto the first data row's year, e.g. "<tt><pre>1982" -> "1982".
// Values without a non-numeric prefix are returned unchanged.
func StripExportPrefix(year string) string {
	if len(year) <= exportPrefixLen {
		return year
	}
	if strings.ContainsAny(year[:exportPrefixLen], "0123456789") {
		return year
	}
	return year[exportPrefixLen:]
}

// ParseRecords reads one province export and returns its weekly
// observations tagged with regionID, in source order.
func ParseRecords(r io.Reader, regionID int) ([]WeeklyObservation, error) {
	br := bufio.NewReader(r)
	for i := 0; i < headerLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, &ParseError{Line: i + 1, Err: err}
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	type rawRow struct {
		line   int
		fields []string
	}
	var rows []rawRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, rawRow{line: line + headerLines, fields: rec})
	}

	// The last row is the export footer.
	if len(rows) > 0 {
		rows = rows[:len(rows)-1]
	}

	out := make([]WeeklyObservation, 0, len(rows))
	first := true
	for _, row := range rows {
		if len(row.fields) <= colVHI {
			return nil, &ParseError{
				Line: row.line,
				Err:  fmt.Errorf("expected at least %d columns, got %d", colVHI+1, len(row.fields)),
			}
		}

		vhi, err := parseFloatColumn(row.line, row.fields, colVHI)
		if err != nil {
			return nil, err
		}
		if vhi == MissingValue {
			continue
		}

		yearField := row.fields[colYear]
		if first {
			yearField = StripExportPrefix(yearField)
			first = false
		}
		year, err := parseIntField(row.line, colYear, yearField)
		if err != nil {
			return nil, err
		}
		week, err := parseIntField(row.line, colWeek, row.fields[colWeek])
		if err != nil {
			return nil, err
		}
		vci, err := parseFloatColumn(row.line, row.fields, colVCI)
		if err != nil {
			return nil, err
		}
		tci, err := parseFloatColumn(row.line, row.fields, colTCI)
		if err != nil {
			return nil, err
		}

		out = append(out, WeeklyObservation{
			RegionID: regionID,
			Year:     year,
			Week:     week,
			VCI:      vci,
			TCI:      tci,
			VHI:      vhi,
		})
	}
	return out, nil
}

func parseIntField(line, col int, value string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &ParseError{Line: line, Column: columnNames[col], Value: value, Err: err}
	}
	return v, nil
}

func parseFloatColumn(line int, fields []string, col int) (float64, error) {
	value := fields[col]
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, &ParseError{Line: line, Column: columnNames[col], Value: value, Err: err}
	}
	return v, nil
}
