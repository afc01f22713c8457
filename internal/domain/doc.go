// Package domain models NOAA STAR vegetation-health time series for the
// provinces of Ukraine.
//
// # Data Source
//
// Weekly indices come from the NOAA STAR "VHI by province" export,
// https://www.star.nesdis.noaa.gov/smcd/emb/vci/VH/get_TS_admin.php. One
// request per province returns a small CSV-like document:
//
//	<br>Ukraine, Province=  1: Cherkasy 1981-2024, Mean ...<br>
//	year,week, SMN,SMT,VCI,TCI,VHI<br>
//	<tt><pre>1982,  1,  0.053,  0.267, 44.84, 31.37, 38.10,
//	1982,  2,  0.054,  0.263, 45.31, 31.28, 38.29,
//	...
//	</pre></tt>
//
// # Export Quirks
//
// Preamble:
//
//	The first line embeds the provider's province id ("Province= 1").
//	The second line is a header row; column names are fixed and known,
//	so it is skipped rather than read.
//
// First row prefix:
//
//	The first data row starts with the 9-character HTML carryover
//	"<tt><pre>" glued onto the year. It is removed by [StripExportPrefix].
//
// Footer:
//
//	The last row is the closing "</pre></tt>" and is always dropped.
//
// Trailing comma:
//
//	Every data row ends with a comma, producing an empty eighth column.
//
// Missing values:
//
//	-1 in the VHI column is the provider's sentinel for a missing week.
//	Such rows are dropped at parse time.
//
// # Province Numbering
//
// The provider numbers provinces alphabetically by English name
// (1 = Cherkasy ... 27 = Zhytomyr). The dashboard presents them in the
// Ukrainian administrative order (1 = Vinnytsia ... 27 = Sevastopol).
// The two numberings are related by the fixed table in region.go.
//
// # Indicators
//
//	VCI: Vegetation Condition Index (0-100)
//	TCI: Temperature Condition Index (0-100)
//	VHI: Vegetation Health Index, the mean of VCI and TCI (0-100)
package domain
