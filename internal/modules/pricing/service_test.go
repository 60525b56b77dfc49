package pricing

import (
	"context"
	"testing"
)

func TestService_Estimate(t *testing.T) {
	tests := []struct {
		name       string
		rate       Rate
		distanceKm float64
		wantFare   float64
	}{
		{
			name:       "minimum fare floor for short hops",
			rate:       DefaultRate,
			distanceKm: 0.5,
			// 2.50 + 0.5*1.20 = 3.10, below the 5.00 minimum
			wantFare: 5.00,
		},
		{
			name:       "metered fare beyond the minimum",
			rate:       DefaultRate,
			distanceKm: 10,
			// 2.50 + 10*1.20
			wantFare: 14.50,
		},
		{
			name:       "fractional distance rounds to cents",
			rate:       DefaultRate,
			distanceKm: 3.333,
			// 2.50 + 3.333*1.20 = 6.4996
			wantFare: 6.50,
		},
		{
			name:       "custom rate card",
			rate:       Rate{BaseFare: 1, PerKm: 2, Minimum: 0},
			distanceKm: 4,
			wantFare:   9.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(tt.rate)
			got, err := s.Estimate(context.Background(), tt.distanceKm)
			if err != nil {
				t.Errorf("Estimate() error = %v", err)
				return
			}
			if got != tt.wantFare {
				t.Errorf("Estimate() = %v, want %v", got, tt.wantFare)
			}
		})
	}
}
