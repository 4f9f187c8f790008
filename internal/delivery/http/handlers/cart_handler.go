package handlers

import (
	"net/http"

	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/dto"
	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/middleware"
	cartusecase "github.com/LavaJover/trust-marketplace-service/internal/usecase/cart"
	cartdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/cart"
	"github.com/gin-gonic/gin"
)

// CartHandler serves the caller's own cart and orders; routes require X-User-ID.
type CartHandler struct {
	uc cartusecase.CartUsecase
}

func NewCartHandler(uc cartusecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	out, err := h.uc.GetCart(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToCartResponse(&out.Cart, out.Totals))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.uc.AddItem(c.Request.Context(), &cartdto.AddItemInput{
		UserID:    middleware.UserID(c),
		ProjectID: req.ProjectID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToCartResponse(&out.Cart, out.Totals))
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.uc.UpdateItem(c.Request.Context(), &cartdto.UpdateItemInput{
		UserID:    middleware.UserID(c),
		ProjectID: c.Param("projectId"),
		Quantity:  req.Quantity,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToCartResponse(&out.Cart, out.Totals))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	out, err := h.uc.RemoveItem(c.Request.Context(), middleware.UserID(c), c.Param("projectId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToCartResponse(&out.Cart, out.Totals))
}

func (h *CartHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	// the body is optional
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	out, err := h.uc.Checkout(c.Request.Context(), &cartdto.CheckoutInput{
		UserID:        middleware.UserID(c),
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, dto.CheckoutResponse{
		Order:   dto.ToOrderResponse(&out.Order),
		Payment: dto.ToPaymentResponse(&out.Payment),
	})
}

func (h *CartHandler) ListOrders(c *gin.Context) {
	orders, err := h.uc.ListUserOrders(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.ToOrderResponse(o))
	}
	SuccessResponse(c, http.StatusOK, out)
}

func (h *CartHandler) GetOrder(c *gin.Context) {
	order, err := h.uc.GetOrder(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToOrderResponse(order))
}
