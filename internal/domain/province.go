package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
)

// provinceRe matches the provider id in a preamble, e.g. "Province=  1: Cherkasy".
var provinceRe = regexp.MustCompile(`Province\s*=\s*(\d+)`)

// ReadProvinceID extracts the provider province id from a preamble line.
// The returned id is not validated against the mapping.
func ReadProvinceID(line string) (int, bool) {
	m := provinceRe.FindStringSubmatch(line)
	if len(m) != 2 {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// NormalizeProvince reads the first line of a source file and returns the
// canonical region id of the province it describes.
func NormalizeProvince(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read preamble: %w", err)
	}

	provinceID, ok := ReadProvinceID(line)
	if !ok {
		return 0, &FormatError{Path: path, Line: line}
	}
	return RegionForProvince(provinceID)
}

// LoadFile normalizes and parses one source file.
func LoadFile(path string) ([]WeeklyObservation, error) {
	regionID, err := NormalizeProvince(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	obs, err := ParseRecords(f, regionID)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return obs, nil
}
