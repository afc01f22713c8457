package domain

// RegionCount is the number of administrative regions in both numberings.
const RegionCount = 27

// Region is a canonical dashboard region.
type Region struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// regions is indexed by canonical id - 1.
var regions = [RegionCount]string{
	"Vinnytsia r.",
	"Volyn r.",
	"Dnipro r.",
	"Donetsk r.",
	"Zhytomyr r.",
	"Zakarpattia r.",
	"Zaporizhzhia r.",
	"Ivano-Frankivsk r.",
	"Kyiv r.",
	"Kirovohrad r.",
	"Luhansk r.",
	"Lviv r.",
	"Mykolaiv r.",
	"Odesa r.",
	"Poltava r.",
	"Rivne r.",
	"Sumy r.",
	"Ternopil r.",
	"Kharkiv r.",
	"Kherson r.",
	"Khmelnytskyi r.",
	"Cherkasy r.",
	"Chernivtsi r.",
	"Chernihiv r.",
	"AR Crimea",
	"Kyiv c.",
	"Sevastopol c.",
}

// provinceToRegion maps the provider's alphabetical province id (index + 1)
// to the canonical region id.
var provinceToRegion = [RegionCount]int{
	22, // 1 Cherkasy
	24, // 2 Chernihiv
	23, // 3 Chernivtsi
	25, // 4 Crimea
	3,  // 5 Dnipropetrovsk
	4,  // 6 Donetsk
	8,  // 7 Ivano-Frankivsk
	19, // 8 Kharkiv
	20, // 9 Kherson
	21, // 10 Khmelnytskyy
	9,  // 11 Kiev
	26, // 12 Kiev City
	10, // 13 Kirovohrad
	11, // 14 Luhansk
	12, // 15 Lviv
	13, // 16 Mykolayiv
	14, // 17 Odessa
	15, // 18 Poltava
	16, // 19 Rivne
	27, // 20 Sevastopol
	17, // 21 Sumy
	18, // 22 Ternopil
	6,  // 23 Transcarpathia
	1,  // 24 Vinnytsya
	2,  // 25 Volyn
	7,  // 26 Zaporizhzhya
	5,  // 27 Zhytomyr
}

// regionToProvince is the inverse of provinceToRegion, built at init.
var regionToProvince [RegionCount]int

func init() {
	for i, region := range provinceToRegion {
		if regionToProvince[region-1] != 0 {
			panic("domain: province mapping is not a bijection")
		}
		regionToProvince[region-1] = i + 1
	}
}

// RegionForProvince maps a provider province id to a canonical region id.
func RegionForProvince(provinceID int) (int, error) {
	if provinceID < 1 || provinceID > RegionCount {
		return 0, &LookupError{ProvinceID: provinceID}
	}
	return provinceToRegion[provinceID-1], nil
}

// ProvinceForRegion maps a canonical region id back to the provider's id.
func ProvinceForRegion(regionID int) (int, bool) {
	if regionID < 1 || regionID > RegionCount {
		return 0, false
	}
	return regionToProvince[regionID-1], true
}

// RegionName returns the display name of a canonical region.
func RegionName(regionID int) (string, bool) {
	if regionID < 1 || regionID > RegionCount {
		return "", false
	}
	return regions[regionID-1], true
}

// Regions lists all canonical regions ordered by id.
func Regions() []Region {
	out := make([]Region, RegionCount)
	for i, name := range regions {
		out[i] = Region{ID: i + 1, Name: name}
	}
	return out
}

// ProvinceIDs lists every provider province id in fetch order.
func ProvinceIDs() []int {
	ids := make([]int, RegionCount)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}
