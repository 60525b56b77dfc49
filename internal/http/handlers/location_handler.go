// README: Nearby-driver lookup over the live location set.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftride/internal/modules/location"
	"swiftride/internal/types"
)

const defaultNearbyRadiusKm = 5.0

type LocationHandler struct {
	location *location.Service
}

func NewLocationHandler(svc *location.Service) *LocationHandler {
	return &LocationHandler{location: svc}
}

type nearbyQuery struct {
	Lat      float64 `form:"lat" binding:"required"`
	Lng      float64 `form:"lng" binding:"required"`
	RadiusKm float64 `form:"radiusKm"`
}

func (h *LocationHandler) Nearby(c *gin.Context) {
	var q nearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "lat and lng are required")
		return
	}
	if q.RadiusKm <= 0 {
		q.RadiusKm = defaultNearbyRadiusKm
	}
	drivers, err := h.location.NearbyDrivers(c.Request.Context(), types.Point{Lat: q.Lat, Lng: q.Lng}, q.RadiusKm)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	respondList(c, "Nearby drivers fetched successfully.", drivers, len(drivers))
}
