// README: Pricing service computes fare estimates.
package pricing

import (
	"context"

	"swiftride/internal/types"
)

type Service struct {
	rate Rate
}

func NewService(rate Rate) *Service {
	return &Service{rate: rate}
}

// Estimate returns a suggested fare for the distance, rounded to 2 decimals.
// The estimate is advisory only; the fare a rider actually offers on a ride
// request is what settlement uses.
func (s *Service) Estimate(_ context.Context, distanceKm float64) (float64, error) {
	fare := s.rate.BaseFare + distanceKm*s.rate.PerKm
	if fare < s.rate.Minimum {
		fare = s.rate.Minimum
	}
	return types.Round2(fare), nil
}
