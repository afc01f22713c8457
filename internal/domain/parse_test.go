package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripExportPrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"html carryover", "<tt><pre>1982", "1982"},
		{"plain year", "1982", "1982"},
		{"empty", "", ""},
		{"exactly prefix length", "<tt><pre>", "<tt><pre>"},
		{"numeric inside prefix window", "19821982xx1", "19821982xx1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripExportPrefix(tt.input))
		})
	}
}

func TestParseRecords(t *testing.T) {
	t.Run("typical export", func(t *testing.T) {
		body := exportBody(1,
			"1982,  1,  0.053,  0.267, 44.84, 31.37, 38.10,",
			"1982,  2,  0.054,  0.263, 45.31, 31.28, 38.29,",
		)

		obs, err := ParseRecords(strings.NewReader(body), 22)
		require.NoError(t, err)
		require.Len(t, obs, 2)

		assert.Equal(t, WeeklyObservation{RegionID: 22, Year: 1982, Week: 1, VCI: 44.84, TCI: 31.37, VHI: 38.10}, obs[0])
		assert.Equal(t, 2, obs[1].Week)
		assert.Equal(t, 22, obs[1].RegionID)
	})

	t.Run("sentinel rows dropped", func(t *testing.T) {
		body := exportBody(11,
			"2020, 10,  0.071,  0.301, 50.10, 40.30, 45.20,",
			"2020, 11,  0.070,  0.300, 49.00, 41.00, -1.00,",
			"2020, 12,  0.070,  0.300, 49.00, 41.00, 45.00,",
		)

		obs, err := ParseRecords(strings.NewReader(body), 9)
		require.NoError(t, err)
		require.Len(t, obs, 2)
		for _, o := range obs {
			assert.NotEqual(t, MissingValue, o.VHI)
		}
		assert.Equal(t, 10, obs[0].Week)
		assert.Equal(t, 12, obs[1].Week)
	})

	t.Run("first row is a sentinel", func(t *testing.T) {
		body := exportBody(11,
			"2020,  1,  0.071,  0.301, -1.00, -1.00, -1.00,",
			"2020,  2,  0.070,  0.300, 49.00, 41.00, 45.00,",
		)

		obs, err := ParseRecords(strings.NewReader(body), 9)
		require.NoError(t, err)
		require.Len(t, obs, 1)
		assert.Equal(t, 2020, obs[0].Year)
		assert.Equal(t, 2, obs[0].Week)
	})

	t.Run("prefix only stripped on first retained row", func(t *testing.T) {
		body := exportBody(11,
			"2020,  1,  0.071,  0.301, 50.10, 40.30, 45.20,",
			"<tt><pre>2020,  2,  0.070,  0.300, 49.00, 41.00, 45.00,",
		)

		_, err := ParseRecords(strings.NewReader(body), 9)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "Year", pe.Column)
		assert.Equal(t, 4, pe.Line)
	})

	t.Run("footer dropped unconditionally", func(t *testing.T) {
		body := "<br>Province= 1<br>\nheader\n<tt><pre>1982,1,0,0,10,20,15,\n1982,2,0,0,11,21,16,\n"

		obs, err := ParseRecords(strings.NewReader(body), 22)
		require.NoError(t, err)
		require.Len(t, obs, 1)
		assert.Equal(t, 1, obs[0].Week)
	})

	t.Run("no data rows", func(t *testing.T) {
		obs, err := ParseRecords(strings.NewReader(exportBody(1)), 22)
		require.NoError(t, err)
		assert.Empty(t, obs)
	})

	t.Run("preamble only", func(t *testing.T) {
		obs, err := ParseRecords(strings.NewReader("<br>Province= 1<br>"), 22)
		require.NoError(t, err)
		assert.Empty(t, obs)
	})

	t.Run("non-numeric week", func(t *testing.T) {
		body := exportBody(1, "1982, xx,  0.053,  0.267, 44.84, 31.37, 38.10,")

		_, err := ParseRecords(strings.NewReader(body), 22)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "Week", pe.Column)
		assert.Equal(t, "xx", pe.Value)
	})

	t.Run("short row", func(t *testing.T) {
		body := exportBody(1, "1982, 1, 0.053", "1982, 2, 0, 0, 1, 2, 3,")

		_, err := ParseRecords(strings.NewReader(body), 22)
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Contains(t, pe.Error(), "expected at least 7 columns")
	})
}
