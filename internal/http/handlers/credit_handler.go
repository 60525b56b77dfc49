// README: Credit handlers: settlement, admin credit grants, wallet history.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftride/internal/modules/settlement"
	"swiftride/internal/modules/wallet"
	"swiftride/internal/observability"
	"swiftride/internal/types"
)

type CreditHandler struct {
	settlement *settlement.Service
	wallets    *wallet.Service
}

func NewCreditHandler(settlementSvc *settlement.Service, wallets *wallet.Service) *CreditHandler {
	return &CreditHandler{settlement: settlementSvc, wallets: wallets}
}

func (h *CreditHandler) Settle(c *gin.Context) {
	result, err := h.settlement.Settle(c.Request.Context(), types.ID(c.Param("rideId")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	observability.SettlementsTotal.Inc()
	respondOK(c, http.StatusOK, "Ride payment settled and credited to driver.", result)
}

type addCreditsReq struct {
	Amount float64 `json:"amount"`
}

func (h *CreditHandler) AddCredits(c *gin.Context) {
	var req addCreditsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	w, err := h.wallets.Credit(c.Request.Context(), types.ID(c.Param("driverId")), req.Amount, wallet.TypeAddCredit, nil)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Credits have been added successfully.", w)
}

func (h *CreditHandler) History(c *gin.Context) {
	txs, err := h.wallets.History(c.Request.Context(), types.ID(c.Param("driverId")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Credit history fetched successfully.", txs)
}
