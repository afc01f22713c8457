package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionForProvince(t *testing.T) {
	tests := []struct {
		province int
		region   int
	}{
		{1, 22},  // Cherkasy
		{11, 9},  // Kiev
		{12, 26}, // Kiev City
		{20, 27}, // Sevastopol
		{24, 1},  // Vinnytsya
		{27, 5},  // Zhytomyr
	}

	for _, tt := range tests {
		got, err := RegionForProvince(tt.province)
		require.NoError(t, err)
		assert.Equal(t, tt.region, got, "province %d", tt.province)
	}
}

func TestRegionForProvince_OutOfDomain(t *testing.T) {
	for _, id := range []int{-1, 0, 28, 100} {
		_, err := RegionForProvince(id)
		var le *LookupError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, id, le.ProvinceID)
	}
}

func TestProvinceMapping_IsBijection(t *testing.T) {
	seen := make(map[int]int)
	for _, p := range ProvinceIDs() {
		r, err := RegionForProvince(p)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r, 1)
		assert.LessOrEqual(t, r, RegionCount)
		if prev, dup := seen[r]; dup {
			t.Fatalf("provinces %d and %d both map to region %d", prev, p, r)
		}
		seen[r] = p

		back, ok := ProvinceForRegion(r)
		require.True(t, ok)
		assert.Equal(t, p, back)
	}
	assert.Len(t, seen, RegionCount)
}

func TestRegions(t *testing.T) {
	all := Regions()
	require.Len(t, all, RegionCount)
	assert.Equal(t, Region{ID: 1, Name: "Vinnytsia r."}, all[0])
	assert.Equal(t, Region{ID: 27, Name: "Sevastopol c."}, all[26])

	name, ok := RegionName(9)
	assert.True(t, ok)
	assert.Equal(t, "Kyiv r.", name)

	_, ok = RegionName(0)
	assert.False(t, ok)
	_, ok = ProvinceForRegion(28)
	assert.False(t, ok)
}
