package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	portssvc "github.com/hisaabkitab/hisaab_backend/internal/core/ports/services"
	"github.com/hisaabkitab/hisaab_backend/internal/core/services"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
	"github.com/hisaabkitab/hisaab_backend/internal/middleware"
)

// paymentHandler handles HTTP requests related to document payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// registerPaymentRoutes registers payment routes nested under documents.
func registerPaymentRoutes(documents *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	documents.POST("/:id/payments", h.recordPayment)
	documents.GET("/:id/payments", h.listPayments)
	documents.POST("/:id/payments/:paymentID/void", h.voidPayment)
}

// writePaymentError maps payment service errors to HTTP responses.
func writePaymentError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrOverpayment):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDocumentCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": "Document is cancelled"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Document was modified concurrently, retry the request"})
	case errors.Is(err, services.ErrPaymentNotPositive),
		errors.Is(err, services.ErrDocumentNotIssued),
		errors.Is(err, services.ErrPaymentVoided),
		errors.Is(err, services.ErrPaymentMismatch),
		errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// recordPayment godoc
// @Summary Record a payment against a document
// @Description Applies a payment, updating the document's paid/balance/status atomically
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Document ID"
// @Param   payment body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document cancelled or concurrent modification"
// @Failure 422 {object} map[string]string "Payment exceeds remaining balance"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /documents/{id}/payments [post]
func (h *paymentHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("id")

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		if fields := dto.FieldErrors(err); fields != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fields})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.paymentService.RecordPayment(c.Request.Context(), documentID, req, userID)
	if err != nil {
		writePaymentError(c, logger, err, "record payment")
		return
	}

	logger.Info("Payment recorded successfully",
		slog.String("document_id", documentID),
		slog.String("status", string(doc.Status)))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc, time.Now().UTC()))
}

// listPayments godoc
// @Summary List payments for a document
// @Description Retrieves all payments recorded against a document, including voided ones
// @Tags payments
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /documents/{id}/payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("id")

	payments, err := h.paymentService.ListPayments(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		logger.Error("Failed to list payments from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payments"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponses(payments))
}

// voidPayment godoc
// @Summary Void a payment
// @Description Reverses a payment's effect on the document; the payment row stays for audit
// @Tags payments
// @Produce  json
// @Param   id path string true "Document ID"
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]string "Payment already voided or belongs to another document"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document or payment not found"
// @Failure 409 {object} map[string]string "Document cancelled or concurrent modification"
// @Failure 500 {object} map[string]string "Failed to void payment"
// @Security BearerAuth
// @Router /documents/{id}/payments/{paymentID}/void [post]
func (h *paymentHandler) voidPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("id")
	paymentID := c.Param("paymentID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.paymentService.VoidPayment(c.Request.Context(), documentID, paymentID, userID)
	if err != nil {
		writePaymentError(c, logger, err, "void payment")
		return
	}

	logger.Info("Payment voided successfully",
		slog.String("document_id", documentID),
		slog.String("payment_id", paymentID))
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc, time.Now().UTC()))
}
