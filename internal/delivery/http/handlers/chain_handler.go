package handlers

import (
	"net/http"
	"strconv"

	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/dto"
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/escrow"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// ChainHandler drives the in-process escrow ledger when the service runs
// without a real chain.
type ChainHandler struct {
	ledger *escrow.Ledger
}

func NewChainHandler(ledger *escrow.Ledger) *ChainHandler {
	return &ChainHandler{ledger: ledger}
}

// CreateEscrow deposits amount from the caller. The value travels with the
// call, so the caller's account is credited first.
func (h *ChainHandler) CreateEscrow(c *gin.Context) {
	var req dto.CreateChainEscrowRequest
	if !bindJSON(c, &req) {
		return
	}
	from, ok := parseAddress(c, req.From)
	if !ok {
		return
	}
	beneficiary, ok := parseAddress(c, req.Beneficiary)
	if !ok {
		return
	}
	if err := h.ledger.Fund(from, req.Amount); err != nil {
		HandleError(c, err)
		return
	}
	id, err := h.ledger.CreateEscrow(from, beneficiary, req.ReleaseConditions, req.Amount)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.respondEscrow(c, http.StatusCreated, id)
}

func (h *ChainHandler) GetEscrow(c *gin.Context) {
	id, ok := parseEscrowID(c)
	if !ok {
		return
	}
	h.respondEscrow(c, http.StatusOK, id)
}

func (h *ChainHandler) Activate(c *gin.Context) { h.call(c, h.ledger.ActivateEscrow) }

func (h *ChainHandler) Release(c *gin.Context) { h.call(c, h.ledger.Release) }

func (h *ChainHandler) Refund(c *gin.Context) { h.call(c, h.ledger.Refund) }

func (h *ChainHandler) Cancel(c *gin.Context) { h.call(c, h.ledger.Cancel) }

func (h *ChainHandler) call(c *gin.Context, fn func(caller common.Address, id uint64) error) {
	id, ok := parseEscrowID(c)
	if !ok {
		return
	}
	var req dto.ChainCallRequest
	if !bindJSON(c, &req) {
		return
	}
	caller, ok := parseAddress(c, req.From)
	if !ok {
		return
	}
	if err := fn(caller, id); err != nil {
		HandleError(c, err)
		return
	}
	h.respondEscrow(c, http.StatusOK, id)
}

func (h *ChainHandler) respondEscrow(c *gin.Context, status int, id uint64) {
	e, err := h.ledger.GetEscrow(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, status, dto.ToChainEscrowResponse(e))
}

func parseEscrowID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		HandleError(c, domain.ErrInvalidInput)
		return 0, false
	}
	return id, true
}

func parseAddress(c *gin.Context, s string) (common.Address, bool) {
	if !common.IsHexAddress(s) {
		ErrorResponse(c, http.StatusBadRequest, "invalid address "+strconv.Quote(s))
		return common.Address{}, false
	}
	return common.HexToAddress(s), true
}
