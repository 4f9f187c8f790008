package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/dto"
	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/middleware"
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	investmentdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/investment"
	investmentusecase "github.com/LavaJover/trust-marketplace-service/internal/usecase/investment"
	"github.com/gin-gonic/gin"
)

type InvestmentHandler struct {
	uc investmentusecase.InvestmentUsecase
}

func NewInvestmentHandler(uc investmentusecase.InvestmentUsecase) *InvestmentHandler {
	return &InvestmentHandler{uc: uc}
}

func (h *InvestmentHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.uc.RegisterUser(c.Request.Context(), &domain.User{
		Email:         req.Email,
		Role:          domain.UserRole(strings.ToUpper(req.Role)),
		TrustBand:     req.TrustBand,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, dto.ToUserResponse(user))
}

func (h *InvestmentHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.uc.CreateProject(c.Request.Context(), &domain.Project{
		FundraiserID:  req.FundraiserID,
		Title:         req.Title,
		MinInvestment: req.MinInvestment,
		MaxInvestment: req.MaxInvestment,
		Status:        domain.ProjectStatus(strings.ToUpper(req.Status)),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, dto.ToProjectResponse(project))
}

// ListProjects accepts ?status=ACTIVE,APPROVED&page=0&limit=20.
func (h *InvestmentHandler) ListProjects(c *gin.Context) {
	var statuses []domain.ProjectStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, domain.ProjectStatus(strings.ToUpper(strings.TrimSpace(s))))
		}
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	out, err := h.uc.ListProjects(c.Request.Context(), &investmentdto.ListProjectsInput{
		Statuses: statuses,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	projects := make([]dto.ProjectResponse, 0, len(out.Projects))
	for _, p := range out.Projects {
		projects = append(projects, dto.ToProjectResponse(p))
	}
	SuccessResponse(c, http.StatusOK, dto.ProjectListResponse{Projects: projects, Total: out.Total, Page: page, Limit: limit})
}

func (h *InvestmentHandler) GetProject(c *gin.Context) {
	project, err := h.uc.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToProjectResponse(project))
}

func (h *InvestmentHandler) ListProjectInvestments(c *gin.Context) {
	list, err := h.uc.ListProjectInvestments(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToInvestmentResponses(list))
}

func (h *InvestmentHandler) ListInvestorInvestments(c *gin.Context) {
	list, err := h.uc.ListInvestorInvestments(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToInvestmentResponses(list))
}

// CreateInvestment takes the investor from the body, falling back to the X-User-ID header.
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	var req dto.CreateInvestmentRequest
	if !bindJSON(c, &req) {
		return
	}
	investorID := req.InvestorID
	if investorID == "" {
		investorID = middleware.UserID(c)
	}
	if investorID == "" {
		ErrorResponse(c, http.StatusBadRequest, "investor_id is required")
		return
	}

	out, err := h.uc.CreateInvestment(c.Request.Context(), &investmentdto.CreateInvestmentInput{
		InvestorID:    investorID,
		ProjectID:     req.ProjectID,
		Amount:        req.Amount,
		Status:        domain.InvestmentStatus(strings.ToUpper(req.Status)),
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, toInvestmentDetail(out))
}

func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	out, err := h.uc.GetInvestment(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toInvestmentDetail(out))
}

func (h *InvestmentHandler) TransitionInvestment(c *gin.Context) {
	var req dto.TransitionInvestmentRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.uc.TransitionInvestment(c.Request.Context(), &investmentdto.TransitionInvestmentInput{
		InvestmentID:  c.Param("id"),
		TargetStatus:  domain.InvestmentStatus(strings.ToUpper(req.Status)),
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toInvestmentDetail(out))
}

func toInvestmentDetail(out *investmentdto.InvestmentOutput) dto.InvestmentDetailResponse {
	return dto.InvestmentDetailResponse{
		Investment:      dto.ToInvestmentResponse(&out.Investment),
		Payment:         dto.ToPaymentResponse(out.Payment),
		Escrow:          dto.ToEscrowResponse(out.Escrow),
		RequestedAmount: out.RequestedAmount,
		Clamped:         out.Clamped,
	}
}
