package services_test

import (
	"context"
	"testing"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/apperrors"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	portssvc "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/services"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/services"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockDocumentRepository
	mockNotifier *MockStatusNotifier
	service      portssvc.PaymentSvcFacade
	ctx          context.Context
	userID       string
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockDocumentRepository)
	s.mockNotifier = new(MockStatusNotifier)
	s.service = services.NewPaymentService(s.mockRepo, s.mockNotifier)
	s.ctx = context.Background()
	s.userID = "user-123"
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func (s *PaymentServiceTestSuite) TestRecordPayment_Success() {
	doc, _ := consistentFacture("fac-1", domain.StatusSent)
	s.mockRepo.On("FindDocumentByID", s.ctx, "fac-1").Return(doc, nil)

	updated, _ := consistentFacture("fac-1", domain.StatusPartial)
	updated.PaidAmount = d("400")
	updated.RecomputeBalance()

	var savedPayment domain.Payment
	s.mockRepo.On("SavePayment", s.ctx, mock.AnythingOfType("domain.Payment")).
		Run(func(args mock.Arguments) { savedPayment = args.Get(1).(domain.Payment) }).
		Return(updated, nil).Once()
	s.mockNotifier.On("NotifyStatusChange", s.ctx, mock.AnythingOfType("domain.Document"), domain.StatusSent, domain.StatusPartial).Return().Once()

	result, err := s.service.RecordPayment(s.ctx, "fac-1", dto.CreatePaymentRequest{
		Amount: d("400"),
		Method: string(domain.PaymentTransfer),
	}, s.userID)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatusPartial, result.Status)
	assert.True(s.T(), d("800").Equal(result.Balance))
	assert.True(s.T(), d("400").Equal(savedPayment.Amount))
	assert.Equal(s.T(), domain.PaymentTransfer, savedPayment.Method)
	assert.Equal(s.T(), "fac-1", savedPayment.DocumentID)
	assert.Equal(s.T(), s.userID, savedPayment.CreatedBy)
	s.mockRepo.AssertExpectations(s.T())
	s.mockNotifier.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestRecordPayment_NoNotificationWithoutStatusChange() {
	doc, _ := consistentFacture("fac-1", domain.StatusPartial)
	doc.PaidAmount = d("400")
	doc.RecomputeBalance()
	s.mockRepo.On("FindDocumentByID", s.ctx, "fac-1").Return(doc, nil)

	updated, _ := consistentFacture("fac-1", domain.StatusPartial)
	updated.PaidAmount = d("600")
	updated.RecomputeBalance()
	s.mockRepo.On("SavePayment", s.ctx, mock.AnythingOfType("domain.Payment")).Return(updated, nil).Once()

	_, err := s.service.RecordPayment(s.ctx, "fac-1", dto.CreatePaymentRequest{
		Amount: d("200"),
		Method: string(domain.PaymentCheque),
	}, s.userID)

	require.NoError(s.T(), err)
	s.mockNotifier.AssertNotCalled(s.T(), "NotifyStatusChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestRecordPayment_NonPositiveAmount() {
	_, err := s.service.RecordPayment(s.ctx, "fac-1", dto.CreatePaymentRequest{
		Amount: d("0"),
		Method: string(domain.PaymentCash),
	}, s.userID)

	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "SavePayment", mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestRecordPayment_OnlyInvoicesTakePayments() {
	devis := &domain.Document{DocumentID: "devis-1", Type: domain.Devis, Number: "DEV-2025-0001", Status: domain.StatusSent}
	s.mockRepo.On("FindDocumentByID", s.ctx, "devis-1").Return(devis, nil)

	_, err := s.service.RecordPayment(s.ctx, "devis-1", dto.CreatePaymentRequest{
		Amount: d("100"),
		Method: string(domain.PaymentCash),
	}, s.userID)

	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *PaymentServiceTestSuite) TestRecordPayment_DraftAndCancelledRejected() {
	draft, _ := consistentFacture("fac-draft", domain.StatusDraft)
	s.mockRepo.On("FindDocumentByID", s.ctx, "fac-draft").Return(draft, nil)

	_, err := s.service.RecordPayment(s.ctx, "fac-draft", dto.CreatePaymentRequest{
		Amount: d("100"),
		Method: string(domain.PaymentCash),
	}, s.userID)
	assert.ErrorIs(s.T(), err, services.ErrPaymentNotInvoiced)

	cancelled, _ := consistentFacture("fac-cancelled", domain.StatusCancelled)
	s.mockRepo.On("FindDocumentByID", s.ctx, "fac-cancelled").Return(cancelled, nil)

	_, err = s.service.RecordPayment(s.ctx, "fac-cancelled", dto.CreatePaymentRequest{
		Amount: d("100"),
		Method: string(domain.PaymentCash),
	}, s.userID)
	assert.ErrorIs(s.T(), err, services.ErrPaymentNotInvoiced)
}

func (s *PaymentServiceTestSuite) TestRecordPayment_ExceedsBalancePropagates() {
	doc, _ := consistentFacture("fac-1", domain.StatusPartial)
	doc.PaidAmount = d("1000")
	doc.RecomputeBalance()
	s.mockRepo.On("FindDocumentByID", s.ctx, "fac-1").Return(doc, nil)
	s.mockRepo.On("SavePayment", s.ctx, mock.AnythingOfType("domain.Payment")).
		Return(nil, apperrors.ErrPaymentExceedsBalance).Once()

	_, err := s.service.RecordPayment(s.ctx, "fac-1", dto.CreatePaymentRequest{
		Amount: d("500"),
		Method: string(domain.PaymentCard),
	}, s.userID)

	assert.ErrorIs(s.T(), err, apperrors.ErrPaymentExceedsBalance)
}

func (s *PaymentServiceTestSuite) TestListPayments() {
	doc, _ := consistentFacture("fac-1", domain.StatusPartial)
	s.mockRepo.On("FindDocumentByID", s.ctx, "fac-1").Return(doc, nil)
	ledger := []domain.Payment{
		{PaymentID: "p1", DocumentID: "fac-1", Amount: d("400"), Method: domain.PaymentTransfer},
		{PaymentID: "p2", DocumentID: "fac-1", Amount: d("200"), Method: domain.PaymentCash},
	}
	s.mockRepo.On("FindPaymentsByDocumentID", s.ctx, "fac-1").Return(ledger, nil)

	payments, err := s.service.ListPayments(s.ctx, "fac-1")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), ledger, payments)
}

func (s *PaymentServiceTestSuite) TestListPayments_UnknownDocument() {
	s.mockRepo.On("FindDocumentByID", s.ctx, "ghost").Return(nil, apperrors.ErrNotFound)

	_, err := s.service.ListPayments(s.ctx, "ghost")
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
	s.mockRepo.AssertNotCalled(s.T(), "FindPaymentsByDocumentID", mock.Anything, mock.Anything)
}
