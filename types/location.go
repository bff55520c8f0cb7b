package types

// Location is a lat/lon pair stored on reports, volunteers and campaigns.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both coordinates are present. A zero coordinate is
// treated as missing, matching how records without geodata are stored.
func (l *Location) Valid() bool {
	return l != nil && l.Lat != 0 && l.Lon != 0
}
