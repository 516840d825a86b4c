package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"payment-gateway/internal/domains/payment/model"
	"payment-gateway/internal/domains/payment/service"
	"payment-gateway/internal/shared/middleware"
	"payment-gateway/internal/shared/response"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates new payment handler
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// =====================================================
// USER ENDPOINTS
// =====================================================

// CreatePayment starts a redirect-based payment
// POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	// Step 1: Bind request body
	var req model.CreatePaymentRequest
	if err := bindJSON(c, &req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, err.Error())
		return
	}

	// Step 2: Call service with the extracted client IP
	resp, err := h.paymentService.CreatePayment(c.Request.Context(), req, middleware.ClientIP(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ListMethods lists the payment methods this deployment accepts
// GET /api/v1/payments/methods
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	response.Success(c, http.StatusOK, model.PaymentMethodsResponse{
		Methods: h.paymentService.Methods(),
	})
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// AdminRefund requests a refund from the provider
// POST /api/v1/admin/payments/refunds
func (h *PaymentHandler) AdminRefund(c *gin.Context) {
	// Step 1: Get operator identity (set by AuthMiddleware)
	actor := middleware.Actor(c)
	if actor == "" {
		handleServiceError(c, model.NewUnauthorizedError())
		return
	}

	// Step 2: Bind request body
	var req model.RefundRequestDTO
	if err := bindJSON(c, &req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, err.Error())
		return
	}

	// Step 3: Call service
	resp, err := h.paymentService.Refund(c.Request.Context(), req, middleware.ClientIP(c), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// AdminQueryTransaction reports the provider-side state of a transaction
// GET /api/v1/admin/payments/:method/transactions/:transaction_id?transaction_date=yyyyMMddHHmmss
func (h *PaymentHandler) AdminQueryTransaction(c *gin.Context) {
	// Step 1: Get operator identity (set by AuthMiddleware)
	actor := middleware.Actor(c)
	if actor == "" {
		handleServiceError(c, model.NewUnauthorizedError())
		return
	}

	// Step 2: Bind path and query
	var req model.QueryTransactionRequestDTO
	if err := c.ShouldBindUri(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, err.Error())
		return
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, err.Error())
		return
	}

	// Step 3: Call service
	resp, err := h.paymentService.QueryTransaction(c.Request.Context(), req, middleware.ClientIP(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// HELPERS
// =====================================================

// handleServiceError writes the PaymentError envelope for err
func handleServiceError(c *gin.Context, err error) {
	pe := model.ToPaymentError(err)

	var details interface{}
	if errors.Is(err, model.ErrInvalidRequest) && pe.Err != nil {
		details = pe.Err.Error()
	}

	response.ErrorWithDetails(c, pe.HTTPStatus(), pe.Code, pe.Message, details)
}

// bindJSON binds JSON request body
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
