package service

import (
	"context"
	"errors"
	"math"
	"sort"

	"mediconnect-backend/internal/apps/hospital/models"

	"go.uber.org/zap"
)

// DefaultRadiusMeters bounds the Places search
const DefaultRadiusMeters = 5000

var ErrInvalidCoordinates = errors.New("lat must be within [-90, 90] and lng within [-180, 180]")

// fallbackSite is a generated hospital placed at an offset from the caller
type fallbackSite struct {
	id, name, vicinity string
	dLat, dLng         float64
	rating             float64
}

var fallbackSites = []fallbackSite{
	{id: "fallback-1", name: "City General Hospital", vicinity: "123 Main St, City", dLat: 0.01, dLng: 0.01, rating: 4.5},
	{id: "fallback-2", name: "Community Medical Center", vicinity: "456 Oak Ave, City", dLat: -0.01, dLng: -0.01, rating: 4.2},
	{id: "fallback-3", name: "Emergency Care Clinic", vicinity: "789 Pine St, City", dLat: 0.015, dLng: -0.015, rating: 3.9},
}

// HospitalService finds emergency facilities near a location
type HospitalService interface {
	Nearby(ctx context.Context, lat, lng float64) (*models.NearbyResponse, error)
}

// Options configures a HospitalService. Places and Cache are optional;
// without Places every lookup uses the generated fallback list.
type Options struct {
	Places       PlacesClient
	Cache        NearbyCache
	RadiusMeters int
	Logger       *zap.Logger
}

type hospitalService struct {
	places PlacesClient
	cache  NearbyCache
	radius int
	logger *zap.Logger
}

// NewHospitalService creates a new instance of HospitalService
func NewHospitalService(opts Options) HospitalService {
	if opts.RadiusMeters <= 0 {
		opts.RadiusMeters = DefaultRadiusMeters
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &hospitalService{
		places: opts.Places,
		cache:  opts.Cache,
		radius: opts.RadiusMeters,
		logger: opts.Logger,
	}
}

func (s *hospitalService) Nearby(ctx context.Context, lat, lng float64) (*models.NearbyResponse, error) {
	// NaN fails every comparison, so it is rejected explicitly
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, ErrInvalidCoordinates
	}

	if s.places != nil {
		hospitals, err := s.lookup(ctx, lat, lng)
		if err == nil {
			return s.respond(models.SourcePlaces, lat, lng, hospitals), nil
		}
		s.logger.Warn("places lookup failed, using fallback list",
			zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
	}

	return s.respond(models.SourceFallback, lat, lng, fallbackAround(lat, lng)), nil
}

func (s *hospitalService) lookup(ctx context.Context, lat, lng float64) ([]models.Hospital, error) {
	key := cacheKey(lat, lng)
	if s.cache != nil {
		if hospitals, ok := s.cache.Get(ctx, key); ok {
			return hospitals, nil
		}
	}

	hospitals, err := s.places.NearbyHospitals(ctx, lat, lng, s.radius)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, hospitals)
	}
	return hospitals, nil
}

// respond fills distances from the caller and sorts nearest first
func (s *hospitalService) respond(source models.Source, lat, lng float64, hospitals []models.Hospital) *models.NearbyResponse {
	out := make([]models.Hospital, len(hospitals))
	copy(out, hospitals)
	for i := range out {
		out[i].DistanceKm = roundKm(HaversineKm(lat, lng, out[i].Lat, out[i].Lng))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return &models.NearbyResponse{Source: source, Lat: lat, Lng: lng, Hospitals: out}
}

func fallbackAround(lat, lng float64) []models.Hospital {
	hospitals := make([]models.Hospital, 0, len(fallbackSites))
	for _, site := range fallbackSites {
		rating := site.rating
		open := true
		hospitals = append(hospitals, models.Hospital{
			ID:       site.id,
			Name:     site.name,
			Vicinity: site.vicinity,
			Lat:      lat + site.dLat,
			Lng:      lng + site.dLng,
			Rating:   &rating,
			OpenNow:  &open,
		})
	}
	return hospitals
}
