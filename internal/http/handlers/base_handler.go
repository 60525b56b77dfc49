// README: Base handler utilities (JSON envelope helpers, error mapping).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftride/internal/modules/identity"
	"swiftride/internal/modules/ride"
	"swiftride/internal/modules/settlement"
	"swiftride/internal/modules/wallet"
)

// Every response carries the same envelope: {success, message, data?}.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondList(c *gin.Context, message string, data any, count int) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data, Count: &count})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, envelope{Success: false, Message: msg})
}

// writeDomainError maps module sentinel errors to HTTP statuses. Anything it
// does not recognize is an internal failure with details suppressed.
func writeDomainError(c *gin.Context, err error) {
	switch err {
	case ride.ErrBadRequest:
		respondError(c, http.StatusBadRequest, err.Error())
	case ride.ErrRideNotFound:
		respondError(c, http.StatusNotFound, err.Error())
	case ride.ErrRideNotAvailable, ride.ErrIllegalTransition, ride.ErrAlreadyFinal:
		respondError(c, http.StatusBadRequest, err.Error())
	case ride.ErrConflict:
		respondError(c, http.StatusConflict, err.Error())
	case settlement.ErrRideNotCompleted, settlement.ErrNoDriverAssigned, settlement.ErrInvalidFare:
		respondError(c, http.StatusBadRequest, err.Error())
	case wallet.ErrInvalidAmount:
		respondError(c, http.StatusBadRequest, err.Error())
	case wallet.ErrWalletNotFound:
		respondError(c, http.StatusNotFound, err.Error())
	case wallet.ErrAlreadySettled:
		respondError(c, http.StatusConflict, err.Error())
	case identity.ErrDriverNotFound, identity.ErrUserNotFound:
		respondError(c, http.StatusNotFound, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
