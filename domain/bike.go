package domain

// BikeRecord is one frame size from the bike dataset. Fields keeps every raw
// column so optional values can be looked up under whatever name the source
// used.
type BikeRecord struct {
	Brand    string            `json:"brand"`
	Model    string            `json:"model"`
	Size     string            `json:"size"`
	Reach    float64           `json:"reach"`
	Stack    float64           `json:"stack"`
	Style    string            `json:"style,omitempty"`
	Material string            `json:"material,omitempty"`
	Fields   map[string]string `json:"-"`
}

// Range is an inclusive numeric window; unset bounds are open.
type Range struct {
	Min Number `json:"min"`
	Max Number `json:"max"`
}

func (r Range) Contains(v float64) bool {
	if r.Min.Set && v < r.Min.Value {
		return false
	}
	if r.Max.Set && v > r.Max.Value {
		return false
	}
	return true
}

type SearchCriteria struct {
	ReachTarget float64  `json:"reachTarget"`
	StackTarget float64  `json:"stackTarget"`
	ReachRange  Number   `json:"reachRange"`
	StackRange  Number   `json:"stackRange"`
	Brands      []string `json:"brands,omitempty"`
	Materials   []string `json:"materials,omitempty"`
	Style       string   `json:"style,omitempty"`
	SRRatioMin  Number   `json:"srRatioMin"`
	SRRatioMax  Number   `json:"srRatioMax"`
	STAMin      Number   `json:"staMin"`
	STAMax      Number   `json:"staMax"`
}

func (c SearchCriteria) SRRatioRange() Range {
	return Range{Min: c.SRRatioMin, Max: c.SRRatioMax}
}

func (c SearchCriteria) STARange() Range {
	return Range{Min: c.STAMin, Max: c.STAMax}
}

type BikeMatch struct {
	BikeRecord
	ReachDiff float64 `json:"reachDiff"`
	StackDiff float64 `json:"stackDiff"`
	TotalDiff float64 `json:"totalDiff"`
}

// SearchResult holds the capped, sorted matches and the uncapped count.
type SearchResult struct {
	Results      []BikeMatch `json:"results"`
	TotalMatches int         `json:"totalMatches"`
	Returned     int         `json:"returned"`
}

// Facets lists the distinct categorical values present in a dataset.
type Facets struct {
	Brands    []string `json:"brands"`
	Materials []string `json:"materials"`
	Styles    []string `json:"styles"`
}
