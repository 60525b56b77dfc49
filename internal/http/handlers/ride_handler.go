// README: Ride lifecycle handlers: request/accept/status/cancel/history/estimate.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftride/internal/http/middleware"
	"swiftride/internal/modules/location"
	"swiftride/internal/modules/pricing"
	"swiftride/internal/modules/ride"
	"swiftride/internal/observability"
	"swiftride/internal/types"
)

type RideHandler struct {
	rides     *ride.Service
	pricing   *pricing.Service
	estimator ride.Estimator
}

func NewRideHandler(rides *ride.Service, pricingSvc *pricing.Service, estimator ride.Estimator) *RideHandler {
	return &RideHandler{rides: rides, pricing: pricingSvc, estimator: estimator}
}

type requestRideReq struct {
	Pickup        types.Location `json:"pickupLocation"`
	Dropoff       types.Location `json:"dropoffLocation"`
	Fare          *float64       `json:"fare,omitempty"`
	EstimatedTime string         `json:"estimatedTime,omitempty"`
}

func (h *RideHandler) Request(c *gin.Context) {
	var req requestRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.rides.Request(c.Request.Context(), ride.RequestCommand{
		UserID:        types.ID(middleware.CallerUID(c)),
		Pickup:        req.Pickup,
		Dropoff:       req.Dropoff,
		Fare:          req.Fare,
		EstimatedTime: req.EstimatedTime,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	observability.RidesRequestedTotal.Inc()
	respondOK(c, http.StatusCreated, "Ride requested successfully. Searching for drivers...", r)
}

func (h *RideHandler) Accept(c *gin.Context) {
	rideID := types.ID(c.Param("rideId"))
	driverID := types.ID(middleware.CallerUID(c))
	r, err := h.rides.Accept(c.Request.Context(), rideID, driverID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	observability.RidesAcceptedTotal.Inc()
	respondOK(c, http.StatusOK, "Ride accepted successfully", r)
}

func (h *RideHandler) Status(c *gin.Context) {
	r, err := h.rides.Get(c.Request.Context(), types.ID(c.Param("rideId")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", r)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *RideHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	to := ride.Status(req.Status)
	if to != ride.StatusOngoing && to != ride.StatusCompleted {
		respondError(c, http.StatusBadRequest, "Invalid status provided")
		return
	}
	r, err := h.rides.UpdateStatus(c.Request.Context(), types.ID(c.Param("rideId")), to)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, fmt.Sprintf("Ride status updated to %s", to), r)
}

func (h *RideHandler) Cancel(c *gin.Context) {
	_, err := h.rides.Cancel(c.Request.Context(), types.ID(c.Param("rideId")), middleware.CallerRole(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	observability.RidesCancelledTotal.Inc()
	respondOK(c, http.StatusOK, "Ride has been cancelled", nil)
}

func (h *RideHandler) History(c *gin.Context) {
	isDriver := middleware.CallerRole(c) == middleware.RoleDriver
	rides, err := h.rides.History(
		c.Request.Context(),
		types.ID(middleware.CallerUID(c)),
		isDriver,
		ride.Status(c.Query("status")),
	)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	respondList(c, "Ride History Fetched Successfully.", rides, len(rides))
}

type estimateQuery struct {
	PickupLat  float64 `form:"pickupLat" binding:"required"`
	PickupLng  float64 `form:"pickupLng" binding:"required"`
	DropoffLat float64 `form:"dropoffLat" binding:"required"`
	DropoffLng float64 `form:"dropoffLng" binding:"required"`
}

// Estimate prices a prospective trip: advisory fare from the rate card plus
// an ETA from the travel estimator.
func (h *RideHandler) Estimate(c *gin.Context) {
	var q estimateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "pickup and dropoff coordinates are required")
		return
	}
	from := types.Point{Lat: q.PickupLat, Lng: q.PickupLng}
	to := types.Point{Lat: q.DropoffLat, Lng: q.DropoffLng}

	distanceKm := location.DistanceKm(from, to)
	fare, err := h.pricing.Estimate(c.Request.Context(), distanceKm)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	eta := ""
	if h.estimator != nil {
		if v, err := h.estimator.EstimateTravelTime(c.Request.Context(), from, to); err == nil {
			eta = v
		}
	}
	respondOK(c, http.StatusOK, "", gin.H{
		"distanceKm":    types.Round2(distanceKm),
		"fare":          fare,
		"estimatedTime": eta,
	})
}
