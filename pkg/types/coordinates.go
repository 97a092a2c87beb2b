package types

// Coordinates carries the optional map pin attached to an address,
// persisted as jsonb.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
