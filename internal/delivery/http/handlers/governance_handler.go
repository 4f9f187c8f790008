package handlers

import (
	"net/http"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/dto"
	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/middleware"
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	governancedto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/governance"
	governanceusecase "github.com/LavaJover/trust-marketplace-service/internal/usecase/governance"
	"github.com/gin-gonic/gin"
)

type GovernanceHandler struct {
	uc governanceusecase.GovernanceUsecase
}

func NewGovernanceHandler(uc governanceusecase.GovernanceUsecase) *GovernanceHandler {
	return &GovernanceHandler{uc: uc}
}

func (h *GovernanceHandler) CreateProposal(c *gin.Context) {
	var req dto.CreateProposalRequest
	if !bindJSON(c, &req) {
		return
	}
	closesAt, err := time.Parse(time.RFC3339, req.ClosesAt)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "closes_at must be RFC3339")
		return
	}
	proposal, err := h.uc.CreateProposal(c.Request.Context(), &governancedto.CreateProposalInput{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		ClosesAt:  closesAt,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, dto.ToProposalResponse(proposal))
}

// CastVote votes as the X-User-ID caller.
func (h *GovernanceHandler) CastVote(c *gin.Context) {
	var req dto.CastVoteRequest
	if !bindJSON(c, &req) {
		return
	}
	vote, err := h.uc.CastVote(c.Request.Context(), &governancedto.CastVoteInput{
		ProposalID: c.Param("id"),
		VoterID:    middleware.UserID(c),
		Choice:     domain.VoteChoice(req.Choice),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, dto.VoteResponse{
		ProposalID: vote.ProposalID,
		VoterID:    vote.VoterID,
		Choice:     string(vote.Choice),
		Weight:     vote.Weight,
		CastAt:     vote.CastAt,
	})
}

func (h *GovernanceHandler) GetTally(c *gin.Context) {
	tally, err := h.uc.GetTally(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.TallyResponse{
		ProposalID: tally.ProposalID,
		For:        tally.For,
		Against:    tally.Against,
		Abstain:    tally.Abstain,
		Voters:     tally.Voters,
	})
}
