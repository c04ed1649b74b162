package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/apperrors"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	portsrepo "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/repositories"
	portssvc "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/services"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/dto"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/middleware"
)

var (
	ErrPaymentNotInvoiced = errors.New("payments can only be recorded on issued invoices")
)

// paymentService implements the payment ledger: append-only payments with
// balance and status recomputation.
type paymentService struct {
	docRepo  portsrepo.DocumentRepositoryWithTx
	notifier portssvc.StatusNotifier
	now      func() time.Time
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(docRepo portsrepo.DocumentRepositoryWithTx, notifier portssvc.StatusNotifier) portssvc.PaymentSvcFacade {
	return &paymentService{docRepo: docRepo, notifier: notifier, now: time.Now}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// RecordPayment implements portssvc.PaymentSvcFacade. The balance precondition
// and the ledger append happen under the same row lock in the repository; this
// method validates shape and delegates the atomic part.
func (s *paymentService) RecordPayment(ctx context.Context, documentID string, req dto.CreatePaymentRequest, userID string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive, got %s", apperrors.ErrValidation, req.Amount)
	}

	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	switch doc.Type {
	case domain.Facture, domain.FactureAcompte:
		// ok
	default:
		return nil, fmt.Errorf("%w: %s is a %s", apperrors.ErrValidation, doc.Number, doc.Type)
	}
	if doc.Status == domain.StatusDraft || doc.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: %s is %s", ErrPaymentNotInvoiced, doc.Number, doc.Status)
	}

	now := s.now().UTC()
	paidAt := now
	if req.Date != nil {
		paidAt = *req.Date
	}

	payment := domain.Payment{
		PaymentID:  uuid.NewString(),
		DocumentID: documentID,
		Amount:     req.Amount,
		PaidAt:     paidAt,
		Method:     domain.PaymentMethod(req.Method),
		Reference:  req.Reference,
		Notes:      req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	from := doc.Status
	updated, err := s.docRepo.SavePayment(ctx, payment)
	if err != nil {
		if errors.Is(err, apperrors.ErrPaymentExceedsBalance) {
			logger.Warn("Payment rejected: exceeds balance",
				slog.String("document_id", documentID),
				slog.String("amount", req.Amount.String()),
			)
		}
		return nil, err
	}

	logger.Info("Payment recorded",
		slog.String("document_id", documentID),
		slog.String("payment_id", payment.PaymentID),
		slog.String("amount", req.Amount.String()),
		slog.String("balance", updated.Balance.String()),
	)

	if s.notifier != nil && updated.Status != from {
		s.notifier.NotifyStatusChange(ctx, *updated, from, updated.Status)
	}
	return updated, nil
}

// ListPayments implements portssvc.PaymentSvcFacade.
func (s *paymentService) ListPayments(ctx context.Context, documentID string) ([]domain.Payment, error) {
	if _, err := s.docRepo.FindDocumentByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.docRepo.FindPaymentsByDocumentID(ctx, documentID)
}
