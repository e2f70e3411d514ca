package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hotel-booking/service-booking/internal/application"
	"github.com/hotel-booking/service-booking/internal/platform/response"
)

// PaymentHandler handles payment records and gateway settlement callbacks.
type PaymentHandler struct {
	service *application.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers payment routes.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/api/v1/payments")
	{
		payments.POST("", h.CreatePayment)
		payments.GET("", h.ListPayments)
		payments.GET("/:id", h.GetPayment)

		callbacks := payments.Group("/callbacks")
		callbacks.POST("/success", h.PaymentSuccess)
		callbacks.POST("/fail", h.PaymentFail)
		callbacks.POST("/cancel", h.PaymentCancel)
	}
}

// CreatePayment handles POST /api/v1/payments.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req application.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreatePayment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListPayments handles GET /api/v1/payments.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	page, limit := parsePagination(c)
	result, err := h.service.ListPayments(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetPayment handles GET /api/v1/payments/:id.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	paymentID, ok := pathID(c, "payment")
	if !ok {
		return
	}

	result, err := h.service.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// PaymentSuccess handles POST /api/v1/payments/callbacks/success.
// Gateways post form data; JSON bodies are accepted too.
func (h *PaymentHandler) PaymentSuccess(c *gin.Context) {
	var req application.PaymentSuccessRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.HandlePaymentSuccess(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// PaymentFail handles POST /api/v1/payments/callbacks/fail.
func (h *PaymentHandler) PaymentFail(c *gin.Context) {
	var req application.PaymentFailureRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.HandlePaymentFailure(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// PaymentCancel handles POST /api/v1/payments/callbacks/cancel.
func (h *PaymentHandler) PaymentCancel(c *gin.Context) {
	var req application.PaymentCancelRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.HandlePaymentCancel(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
