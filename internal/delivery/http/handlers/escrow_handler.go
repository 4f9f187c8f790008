package handlers

import (
	"net/http"

	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/dto"
	escrowdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/escrow"
	escrowusecase "github.com/LavaJover/trust-marketplace-service/internal/usecase/escrow"
	"github.com/gin-gonic/gin"
)

type EscrowHandler struct {
	uc escrowusecase.EscrowUsecase
}

func NewEscrowHandler(uc escrowusecase.EscrowUsecase) *EscrowHandler {
	return &EscrowHandler{uc: uc}
}

func (h *EscrowHandler) GetEscrow(c *gin.Context) {
	escrow, err := h.uc.GetEscrowByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToEscrowResponse(escrow))
}

func (h *EscrowHandler) GetInvestmentEscrow(c *gin.Context) {
	escrow, err := h.uc.GetEscrowByInvestment(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToEscrowResponse(escrow))
}

func (h *EscrowHandler) ListProjectEscrows(c *gin.Context) {
	list, err := h.uc.ListProjectEscrows(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToEscrowResponses(list))
}

// BindEscrow links the investment's escrow record to a deployed on-chain escrow.
// The on-chain state is read back; the client never sets the status.
func (h *EscrowHandler) BindEscrow(c *gin.Context) {
	var req dto.BindEscrowRequest
	if !bindJSON(c, &req) {
		return
	}
	escrow, err := h.uc.BindOnChainEscrow(c.Request.Context(), &escrowdto.BindOnChainEscrowInput{
		InvestmentID:  c.Param("id"),
		ChainEscrowID: req.ChainEscrowID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToEscrowResponse(escrow))
}

func (h *EscrowHandler) SyncChain(c *gin.Context) {
	out, err := h.uc.SyncChainEvents(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.SyncResponse{
		FromBlock: out.FromBlock,
		NextBlock: out.NextBlock,
		Seen:      out.Seen,
		Applied:   out.Applied,
		Skipped:   out.Skipped,
	})
}
