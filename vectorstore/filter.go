package vectorstore

// Filter is a conjunction of payload conditions, database-agnostic so the
// memory store can evaluate the same filters the Qdrant adapter translates.
type Filter struct {
	Must []Condition
}

type conditionKind int

const (
	kindMatchBool conditionKind = iota
	kindMatchKeyword
	kindRangeGte
	kindGeoRadius
)

// GeoRadius admits points whose geo payload field lies within RadiusKm of the
// center. Index-native evaluation is advisory; callers re-check locally.
type GeoRadius struct {
	Lat      float64
	Lon      float64
	RadiusKm float64
}

// Condition is one payload predicate. Build with the constructors below.
type Condition struct {
	Field   string
	kind    conditionKind
	boolVal bool
	keyword string
	gte     float64
	geo     *GeoRadius
}

func MatchBool(field string, v bool) Condition {
	return Condition{Field: field, kind: kindMatchBool, boolVal: v}
}

func MatchKeyword(field, v string) Condition {
	return Condition{Field: field, kind: kindMatchKeyword, keyword: v}
}

func RangeGte(field string, min float64) Condition {
	return Condition{Field: field, kind: kindRangeGte, gte: min}
}

func WithinRadius(field string, lat, lon, radiusKm float64) Condition {
	return Condition{Field: field, kind: kindGeoRadius, geo: &GeoRadius{Lat: lat, Lon: lon, RadiusKm: radiusKm}}
}
