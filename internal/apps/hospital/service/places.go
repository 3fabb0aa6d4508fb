package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"mediconnect-backend/internal/apps/hospital/models"
)

const placesNearbyURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// PlacesClient looks up hospitals around a point
type PlacesClient interface {
	NearbyHospitals(ctx context.Context, lat, lng float64, radiusMeters int) ([]models.Hospital, error)
}

// googlePlaces calls the Google Places nearby search API
type googlePlaces struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGooglePlacesClient creates a Places client
func NewGooglePlacesClient(apiKey string, client *http.Client) PlacesClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &googlePlaces{apiKey: apiKey, baseURL: placesNearbyURL, client: client}
}

type placesResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID  string   `json:"place_id"`
		Name     string   `json:"name"`
		Vicinity string   `json:"vicinity"`
		Rating   *float64 `json:"rating"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		OpeningHours *struct {
			OpenNow *bool `json:"open_now"`
		} `json:"opening_hours"`
	} `json:"results"`
}

func (g *googlePlaces) NearbyHospitals(ctx context.Context, lat, lng float64, radiusMeters int) ([]models.Hospital, error) {
	params := url.Values{}
	params.Add("location", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lng, 'f', -1, 64))
	params.Add("radius", strconv.Itoa(radiusMeters))
	params.Add("type", "hospital")
	params.Add("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("places API returned status %d: %s", resp.StatusCode, string(body))
	}

	var out placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}
	if out.Status != "OK" && out.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places API status %s: %s", out.Status, out.ErrorMessage)
	}

	hospitals := make([]models.Hospital, 0, len(out.Results))
	for _, r := range out.Results {
		h := models.Hospital{
			ID:       r.PlaceID,
			Name:     r.Name,
			Vicinity: r.Vicinity,
			Lat:      r.Geometry.Location.Lat,
			Lng:      r.Geometry.Location.Lng,
			Rating:   r.Rating,
		}
		if r.OpeningHours != nil {
			h.OpenNow = r.OpeningHours.OpenNow
		}
		hospitals = append(hospitals, h)
	}
	return hospitals, nil
}
