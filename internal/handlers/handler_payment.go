package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/services"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/dto"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// paymentHandler handles HTTP requests related to the payment ledger.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// newPaymentHandler creates a new paymentHandler.
func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// registerPaymentRoutes registers payment routes nested under a document.
func registerPaymentRoutes(documents *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := documents.Group("/:documentID/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("", h.listPayments)
	}
}

// createPayment godoc
// @Summary Record a payment
// @Description Appends a payment to an invoice's ledger and recomputes its balance and status.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Invoice ID"
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.DocumentResponse "Invoice with recomputed balance"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Payment exceeds balance or invoice not payable"
// @Security BearerAuth
// @Router /documents/{documentID}/payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.paymentService.RecordPayment(c.Request.Context(), documentID, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Payment recorded",
		slog.String("document_id", documentID),
		slog.String("amount", req.Amount.String()),
		slog.String("new_status", string(doc.Status)),
	)
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc, time.Now()))
}

// listPayments godoc
// @Summary List a document's payments
// @Description Retrieves the payment ledger for an invoice, oldest first.
// @Tags payments
// @Produce  json
// @Param   documentID path string true "Invoice ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Security BearerAuth
// @Router /documents/{documentID}/payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	documentID := c.Param("documentID")

	payments, err := h.paymentService.ListPayments(c.Request.Context(), documentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponses(payments))
}
