package models

// Source labels where a nearby search result came from
type Source string

const (
	SourcePlaces   Source = "places"
	SourceFallback Source = "fallback"
)

// Hospital is an emergency facility near the caller
type Hospital struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Vicinity   string   `json:"vicinity"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Rating     *float64 `json:"rating,omitempty"`
	OpenNow    *bool    `json:"open_now,omitempty"`
	DistanceKm float64  `json:"distance_km"`
}

// NearbyResponse lists hospitals sorted by distance. Source is "fallback"
// when the list is generated around the caller instead of looked up.
type NearbyResponse struct {
	Source    Source     `json:"source"`
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Hospitals []Hospital `json:"hospitals"`
}
