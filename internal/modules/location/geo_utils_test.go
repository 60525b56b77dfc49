package location

import (
	"math"
	"testing"

	"swiftride/internal/types"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		wantKm    float64
		tolerance float64
	}{
		{
			name: "same point",
			lat1: 12.9716, lng1: 77.5946,
			lat2: 12.9716, lng2: 77.5946,
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name: "MG Road to Bangalore airport (~31km)",
			lat1: 12.9716, lng1: 77.5946,
			lat2: 13.1986, lng2: 77.7066,
			wantKm:    28,
			tolerance: 3,
		},
		{
			name: "New York to Los Angeles (~3944km)",
			lat1: 40.7128, lng1: -74.0060,
			lat2: 34.0522, lng2: -118.2437,
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("haversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	d1 := haversineKm(12.0, 77.0, 13.0, 78.0)
	d2 := haversineKm(13.0, 78.0, 12.0, 77.0)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		mins int
		want string
	}{
		{0, "1 min"},
		{1, "1 min"},
		{12, "12 mins"},
		{59, "59 mins"},
		{60, "1 hour"},
		{65, "1 hour 5 mins"},
		{120, "2 hours"},
		{135, "2 hours 15 mins"},
	}
	for _, tc := range cases {
		if got := formatMinutes(tc.mins); got != tc.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tc.mins, got, tc.want)
		}
	}
}

func TestSortByDistance_Nearby(t *testing.T) {
	drivers := []Nearby{
		{DriverID: types.ID("c"), DistanceKm: 5.0},
		{DriverID: types.ID("a"), DistanceKm: 1.0},
		{DriverID: types.ID("b"), DistanceKm: 3.0},
	}

	sortByDistance(drivers, func(n Nearby) float64 { return n.DistanceKm })

	if drivers[0].DriverID != "a" || drivers[1].DriverID != "b" || drivers[2].DriverID != "c" {
		t.Errorf("unexpected sort order: %v", drivers)
	}
}

func TestSortByDistance_Empty(t *testing.T) {
	var drivers []Nearby
	sortByDistance(drivers, func(n Nearby) float64 { return n.DistanceKm })
}

func TestSortByDistance_Single(t *testing.T) {
	drivers := []Nearby{
		{DriverID: types.ID("a"), DistanceKm: 2.0},
	}
	sortByDistance(drivers, func(n Nearby) float64 { return n.DistanceKm })
	if drivers[0].DriverID != "a" {
		t.Errorf("single element sort failed")
	}
}
