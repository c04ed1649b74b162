package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/apperrors"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/services"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondServiceError translates service-layer errors into HTTP responses.
// Validation failures are the caller's fault (400), consistency failures
// report the conflicting state (409), and invariant violations are internal
// bugs and never leak detail to the caller.
func respondServiceError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var transitionErr *domain.TransitionError
	if errors.As(err, &transitionErr) {
		allowed := make([]string, len(transitionErr.Allowed))
		for i, s := range transitionErr.Allowed {
			allowed[i] = string(s)
		}
		logger.Warn("Illegal status transition", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "allowedNextStatuses": allowed})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, services.ErrClientRequired),
		errors.Is(err, services.ErrDevisRequired),
		errors.Is(err, services.ErrLinkedNotDevis),
		errors.Is(err, services.ErrDepositPercentMissing):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrLocked),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrDepositConflict),
		errors.Is(err, apperrors.ErrPaymentExceedsBalance),
		errors.Is(err, services.ErrAvoirParentNotFacture),
		errors.Is(err, services.ErrAvoirParentNotIssued),
		errors.Is(err, services.ErrNotAFacture),
		errors.Is(err, services.ErrGenerationNotAllowed),
		errors.Is(err, services.ErrParentNotReady),
		errors.Is(err, services.ErrPaymentNotInvoiced):
		logger.Warn("Conflicting document state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNumberingConflict):
		logger.Warn("Numbering contention, caller should retry", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Document numbering busy, please retry"})
	case errors.Is(err, apperrors.ErrInvariantViolation):
		logger.Error("Stored document state violates an invariant", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal consistency error"})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
