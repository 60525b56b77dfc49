package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"swiftride/internal/types"
)

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// EstimateTravelTime returns the driving duration between two points as a
// human-readable string (e.g. "12 mins"). It assumes driving mode.
func (s *RouteService) EstimateTravelTime(ctx context.Context, from, to types.Point) (string, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", from.Lat, from.Lng),
		Destination: fmt.Sprintf("%f,%f", to.Lat, to.Lng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return "", fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return "", fmt.Errorf("no route found")
	}
	mins := int(routes[0].Legs[0].Duration.Minutes())
	if mins < 1 {
		mins = 1
	}
	if mins == 1 {
		return "1 min", nil
	}
	return fmt.Sprintf("%d mins", mins), nil
}
