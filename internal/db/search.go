package db

// GeoQuery is the input for radius search over a GEO field.
type GeoQuery struct {
	IndexName    string
	Field        string
	Lat          float64
	Lon          float64
	RadiusMeters float64
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
