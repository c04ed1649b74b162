package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/apperrors"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	portsrepo "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/repositories"
	portssvc "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/services"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/dto"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/middleware"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/utils/billing"
)

var (
	ErrClientRequired        = errors.New("document requires an existing client")
	ErrDevisRequired         = errors.New("deposit invoice requires a linked devis")
	ErrLinkedNotDevis        = errors.New("linked document is not a devis")
	ErrAvoirParentNotFacture = errors.New("an avoir must reference a parent facture")
	ErrAvoirParentNotIssued  = errors.New("an avoir cannot reference a draft or cancelled facture")
	ErrNotAFacture           = errors.New("deposit application targets factures only")
	ErrGenerationNotAllowed  = errors.New("target type cannot be generated from this document")
	ErrParentNotReady        = errors.New("document status does not allow generating this target")
	ErrDepositPercentMissing = errors.New("generating a deposit invoice requires depositPercent")
)

// depositOverappliedWarning is surfaced when the netted deposit total had to
// be capped at the invoice's gross total.
const depositOverappliedWarning = "DepositOverapplied: deposits exceed the invoice total, deduction capped at totalTTC"

// documentService implements the commercial document engine: creation with
// computed totals, lifecycle transitions, the quote-to-cash chain, avoirs and
// deposit netting.
type documentService struct {
	docRepo      portsrepo.DocumentRepositoryWithTx
	clientDir    portsrepo.ClientDirectoryFacade
	catalogDir   portsrepo.CatalogDirectoryFacade
	numberingSvc portssvc.NumberingSvcFacade
	notifier     portssvc.StatusNotifier
	now          func() time.Time
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	docRepo portsrepo.DocumentRepositoryWithTx,
	clientDir portsrepo.ClientDirectoryFacade,
	catalogDir portsrepo.CatalogDirectoryFacade,
	numberingSvc portssvc.NumberingSvcFacade,
	notifier portssvc.StatusNotifier,
) portssvc.DocumentSvcFacade {
	return &documentService{
		docRepo:      docRepo,
		clientDir:    clientDir,
		catalogDir:   catalogDir,
		numberingSvc: numberingSvc,
		notifier:     notifier,
		now:          time.Now,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// buildItems resolves catalog defaults and computes every line's totals.
// Validation failures surface before anything is persisted.
func (s *documentService) buildItems(ctx context.Context, documentID string, reqs []dto.CreateDocumentItemRequest) ([]domain.DocumentItem, error) {
	items := make([]domain.DocumentItem, 0, len(reqs))
	for i, req := range reqs {
		designation := req.Designation
		unit := req.Unit
		unitPrice := decimal.Zero
		if req.UnitPriceHT != nil {
			unitPrice = *req.UnitPriceHT
		}
		tvaRate := decimal.Zero
		if req.TVARate != nil {
			tvaRate = *req.TVARate
		}

		if req.CatalogItemID != nil {
			ref, err := s.catalogDir.FindCatalogItemByID(ctx, *req.CatalogItemID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: catalog item %s not found", apperrors.ErrValidation, *req.CatalogItemID)
				}
				return nil, fmt.Errorf("failed to resolve catalog item %s: %w", *req.CatalogItemID, err)
			}
			if designation == "" {
				designation = ref.Designation
			}
			if unit == "" {
				unit = ref.Unit
			}
			if req.UnitPriceHT == nil {
				unitPrice = ref.DefaultUnitPriceHT
			}
			if req.TVARate == nil {
				tvaRate = ref.DefaultTVARate
			}
		}
		if designation == "" {
			return nil, fmt.Errorf("%w: item %d has no designation", apperrors.ErrValidation, i+1)
		}

		totalHT, tvaAmount, totalTTC, err := billing.ComputeLine(req.Quantity, unitPrice, req.DiscountPercent, tvaRate)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}

		items = append(items, domain.DocumentItem{
			ItemID:          uuid.NewString(),
			DocumentID:      documentID,
			CatalogItemID:   req.CatalogItemID,
			Designation:     designation,
			Unit:            unit,
			Position:        i,
			Quantity:        req.Quantity,
			UnitPriceHT:     unitPrice,
			DiscountPercent: req.DiscountPercent,
			TVARate:         tvaRate,
			TotalHT:         totalHT,
			TVAAmount:       tvaAmount,
			TotalTTC:        totalTTC,
		})
	}
	return items, nil
}

// CreateDocument implements portssvc.DocumentSvcFacade.
func (s *documentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*portssvc.DocumentDetail, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	docType := domain.DocumentType(req.Type)
	if !domain.ValidDocumentType(docType) {
		return nil, fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, req.Type)
	}
	if docType == domain.Avoir {
		return nil, fmt.Errorf("%w: an avoir is created against its parent facture", apperrors.ErrValidation)
	}

	if _, err := s.clientDir.FindClientByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: client %s", ErrClientRequired, req.ClientID)
		}
		return nil, fmt.Errorf("failed to resolve client %s: %w", req.ClientID, err)
	}

	if docType == domain.FactureAcompte && req.LinkedDevisID == nil {
		return nil, fmt.Errorf("%w", ErrDevisRequired)
	}
	if req.LinkedDevisID != nil {
		devis, err := s.docRepo.FindDocumentByID(ctx, *req.LinkedDevisID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: devis %s not found", apperrors.ErrValidation, *req.LinkedDevisID)
			}
			return nil, err
		}
		if devis.Type != domain.Devis {
			return nil, fmt.Errorf("%w: %s is a %s", ErrLinkedNotDevis, devis.DocumentID, devis.Type)
		}
	}

	discountType := domain.DiscountType(req.DiscountType)
	if req.DiscountType == "" {
		discountType = domain.DiscountPercentage
	}

	detail, err := s.create(ctx, createSpec{
		docType:        docType,
		clientID:       req.ClientID,
		projectID:      req.ProjectID,
		linkedDevisID:  req.LinkedDevisID,
		date:           req.Date,
		dueDate:        req.DueDate,
		items:          req.Items,
		discountType:   discountType,
		discountValue:  req.DiscountValue,
		depositPercent: req.DepositPercent,
		notes:          req.Notes,
	}, creatorUserID)
	if err != nil {
		return nil, err
	}

	logger.Info("Document created",
		slog.String("document_id", detail.Document.DocumentID),
		slog.String("doc_type", string(docType)),
		slog.String("number", detail.Document.Number),
	)
	return detail, nil
}

// createSpec carries the normalized inputs shared by every creation path.
type createSpec struct {
	docType        domain.DocumentType
	clientID       string
	projectID      *string
	parentID       *string
	linkedDevisID  *string
	date           *time.Time
	dueDate        *time.Time
	items          []dto.CreateDocumentItemRequest
	discountType   domain.DiscountType
	discountValue  decimal.Decimal
	depositPercent *decimal.Decimal
	avoirReason    string
	notes          string
}

func (s *documentService) create(ctx context.Context, spec createSpec, creatorUserID string) (*portssvc.DocumentDetail, error) {
	documentID := uuid.NewString()

	items, err := s.buildItems(ctx, documentID, spec.items)
	if err != nil {
		return nil, err
	}
	totals, err := billing.ComputeTotals(items, spec.discountType, spec.discountValue)
	if err != nil {
		return nil, err
	}

	number, err := s.numberingSvc.NextNumber(ctx, spec.docType)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	date := now
	if spec.date != nil {
		date = *spec.date
	}

	doc := domain.Document{
		DocumentID:           documentID,
		Type:                 spec.docType,
		Number:               number,
		Status:               domain.InitialStatus,
		Date:                 date,
		DueDate:              spec.dueDate,
		ClientID:             spec.clientID,
		ProjectID:            spec.projectID,
		ParentID:             spec.parentID,
		LinkedDevisID:        spec.linkedDevisID,
		DiscountType:         spec.discountType,
		DiscountValue:        spec.discountValue,
		TotalHT:              totals.TotalHT,
		DiscountAmount:       totals.DiscountAmount,
		NetHT:                totals.NetHT,
		TotalTVA:             totals.TotalTVA,
		TotalTTC:             totals.TotalTTC,
		PaidAmount:           decimal.Zero,
		TotalDepositsApplied: decimal.Zero,
		CreditApplied:        decimal.Zero,
		AvoirReason:          spec.avoirReason,
		Notes:                spec.notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if spec.docType == domain.FactureAcompte {
		doc.DepositPercent = spec.depositPercent
		amount := totals.TotalTTC
		doc.DepositAmount = &amount
	}
	doc.RecomputeBalance()

	if err := s.docRepo.SaveDocument(ctx, doc, items); err != nil {
		return nil, err
	}

	detail := &portssvc.DocumentDetail{Document: &doc, Items: items}

	// A final invoice descending from a quote captures that quote's paid
	// deposits at creation. The claim is atomic in the repository; a failure
	// here leaves a valid invoice that can be refreshed via ReapplyDeposits.
	if spec.docType == domain.Facture && spec.linkedDevisID != nil {
		applied, capped, err := s.docRepo.ApplyDeposits(ctx, documentID)
		if err != nil {
			return nil, err
		}
		doc.TotalDepositsApplied = applied
		doc.RecomputeBalance()
		if capped {
			detail.Warnings = append(detail.Warnings, depositOverappliedWarning)
			middleware.GetLoggerFromCtx(ctx).Warn("Deposit deduction capped at invoice total",
				slog.String("document_id", documentID), slog.String("applied", applied.String()))
		}
	}

	return detail, nil
}

// GetDocument implements portssvc.DocumentSvcFacade. Stored invariants are
// verified on every read; a violation is an internal defect and is raised
// loudly with the full document state.
func (s *documentService) GetDocument(ctx context.Context, documentID string) (*portssvc.DocumentDetail, error) {
	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	items, err := s.docRepo.FindItemsByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if err := doc.CheckStoredInvariants(items); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Stored document state violates invariants",
			slog.String("document_id", doc.DocumentID),
			slog.String("number", doc.Number),
			slog.String("total_ht", doc.TotalHT.String()),
			slog.String("net_ht", doc.NetHT.String()),
			slog.String("total_ttc", doc.TotalTTC.String()),
			slog.String("balance", doc.Balance.String()),
			slog.Int("item_count", len(items)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %s: %s", apperrors.ErrInvariantViolation, doc.DocumentID, err)
	}

	return &portssvc.DocumentDetail{Document: doc, Items: items}, nil
}

// ListDocuments implements portssvc.DocumentSvcFacade.
func (s *documentService) ListDocuments(ctx context.Context, filter portsrepo.DocumentListFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.docRepo.ListDocuments(ctx, filter, limit, nextToken)
}

// UpdateDocument implements portssvc.DocumentSvcFacade.
func (s *documentService) UpdateDocument(ctx context.Context, documentID string, req dto.UpdateDocumentRequest, userID string) (*portssvc.DocumentDetail, error) {
	if req.Status != nil {
		detail, err := s.TransitionStatus(ctx, documentID, domain.DocumentStatus(*req.Status), userID)
		if err != nil {
			return nil, err
		}
		if !hasFieldEdits(req) {
			return detail, nil
		}
	}
	if !hasFieldEdits(req) {
		return nil, fmt.Errorf("%w: no changes requested", apperrors.ErrValidation)
	}

	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.IsEditable() {
		return nil, fmt.Errorf("%w: %s is %s", apperrors.ErrLocked, doc.Number, doc.Status)
	}

	if req.Date != nil {
		doc.Date = *req.Date
	}
	if req.DueDate != nil {
		doc.DueDate = req.DueDate
	}
	if req.ProjectID != nil {
		doc.ProjectID = req.ProjectID
	}
	if req.Notes != nil {
		doc.Notes = *req.Notes
	}
	if req.DiscountType != nil {
		doc.DiscountType = domain.DiscountType(*req.DiscountType)
	}
	if req.DiscountValue != nil {
		doc.DiscountValue = *req.DiscountValue
	}

	items, err := s.docRepo.FindItemsByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	totals, err := billing.ComputeTotals(items, doc.DiscountType, doc.DiscountValue)
	if err != nil {
		return nil, err
	}
	applyTotals(doc, totals)

	doc.LastUpdatedAt = s.now().UTC()
	doc.LastUpdatedBy = userID

	if err := s.docRepo.UpdateDocumentFields(ctx, *doc); err != nil {
		return nil, err
	}
	return &portssvc.DocumentDetail{Document: doc, Items: items}, nil
}

func hasFieldEdits(req dto.UpdateDocumentRequest) bool {
	return req.Date != nil || req.DueDate != nil || req.ProjectID != nil ||
		req.Notes != nil || req.DiscountType != nil || req.DiscountValue != nil
}

func applyTotals(doc *domain.Document, totals billing.Totals) {
	doc.TotalHT = totals.TotalHT
	doc.DiscountAmount = totals.DiscountAmount
	doc.NetHT = totals.NetHT
	doc.TotalTVA = totals.TotalTVA
	doc.TotalTTC = totals.TotalTTC
	doc.RecomputeBalance()
}

// ReplaceItems implements portssvc.DocumentSvcFacade.
func (s *documentService) ReplaceItems(ctx context.Context, documentID string, req dto.ReplaceItemsRequest, userID string) (*portssvc.DocumentDetail, error) {
	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.IsEditable() {
		return nil, fmt.Errorf("%w: %s is %s", apperrors.ErrLocked, doc.Number, doc.Status)
	}

	items, err := s.buildItems(ctx, documentID, req.Items)
	if err != nil {
		return nil, err
	}
	totals, err := billing.ComputeTotals(items, doc.DiscountType, doc.DiscountValue)
	if err != nil {
		return nil, err
	}
	applyTotals(doc, totals)
	doc.LastUpdatedAt = s.now().UTC()
	doc.LastUpdatedBy = userID

	if err := s.docRepo.ReplaceItems(ctx, *doc, items); err != nil {
		return nil, err
	}
	return &portssvc.DocumentDetail{Document: doc, Items: items}, nil
}

// TransitionStatus implements portssvc.DocumentSvcFacade. The transition table
// is the single chokepoint; the swap itself is a compare-and-swap in the
// repository so the precondition and the write share one boundary.
func (s *documentService) TransitionStatus(ctx context.Context, documentID string, target domain.DocumentStatus, userID string) (*portssvc.DocumentDetail, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	from := doc.Status

	if !domain.CanTransition(doc.Type, from, target) {
		return nil, domain.NewTransitionError(doc.Type, from, target)
	}
	requireZeroBalance := target == domain.StatusPaid

	now := s.now().UTC()
	if err := s.docRepo.UpdateDocumentStatus(ctx, documentID, from, target, requireZeroBalance, userID, now); err != nil {
		return nil, err
	}

	doc.Status = target
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = userID

	if s.notifier != nil {
		s.notifier.NotifyStatusChange(ctx, *doc, from, target)
	}
	logger.Info("Document status changed",
		slog.String("document_id", documentID),
		slog.String("from", string(from)),
		slog.String("to", string(target)),
	)

	items, err := s.docRepo.FindItemsByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &portssvc.DocumentDetail{Document: doc, Items: items}, nil
}

// CreateAvoir implements portssvc.DocumentSvcFacade.
func (s *documentService) CreateAvoir(ctx context.Context, parentID string, req dto.CreateAvoirRequest, userID string) (*portssvc.DocumentDetail, error) {
	parent, err := s.docRepo.FindDocumentByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.Type != domain.Facture && parent.Type != domain.FactureAcompte {
		return nil, fmt.Errorf("%w: parent %s is a %s", ErrAvoirParentNotFacture, parent.Number, parent.Type)
	}
	if parent.Status == domain.StatusDraft || parent.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: parent %s is %s", ErrAvoirParentNotIssued, parent.Number, parent.Status)
	}

	itemReqs := req.Items
	if len(itemReqs) == 0 {
		parentItems, err := s.docRepo.FindItemsByDocumentID(ctx, parentID)
		if err != nil {
			return nil, err
		}
		itemReqs = copyItemRequests(parentItems, nil)
	}

	detail, err := s.create(ctx, createSpec{
		docType:       domain.Avoir,
		clientID:      parent.ClientID,
		projectID:     parent.ProjectID,
		parentID:      &parent.DocumentID,
		linkedDevisID: parent.LinkedDevisID,
		items:         itemReqs,
		discountType:  domain.DiscountPercentage,
		discountValue: decimal.Zero,
		avoirReason:   req.AvoirReason,
	}, userID)
	if err != nil {
		return nil, err
	}

	// Amounts are stored as positive magnitudes and interpreted as credits
	// against the parent. Applying the credit reduces the parent's balance;
	// recorded payments are never touched.
	if req.ApplyToFacture {
		if err := s.docRepo.ApplyCredit(ctx, parentID, detail.Document.TotalTTC, userID, s.now().UTC()); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// chainTargets declares which child types each document type can generate,
// and from which parent statuses.
var chainTargets = map[domain.DocumentType]map[domain.DocumentType][]domain.DocumentStatus{
	domain.Devis: {
		domain.BonCommande:    {domain.StatusAccepted},
		domain.Facture:        {domain.StatusAccepted},
		domain.FactureAcompte: {domain.StatusAccepted},
	},
	domain.BonCommande: {
		domain.BonLivraison: {domain.StatusConfirmed},
	},
	domain.BonLivraison: {
		domain.PVReception: {domain.StatusDelivered, domain.StatusSigned},
		domain.Facture:     {domain.StatusDelivered, domain.StatusSigned},
	},
}

// GenerateChild implements portssvc.DocumentSvcFacade. Items are copied from
// the parent; for a deposit invoice each copied line's unit price is scaled by
// depositPercent so the VAT split follows the quote's own rates.
func (s *documentService) GenerateChild(ctx context.Context, parentID string, req dto.GenerateDocumentRequest, userID string) (*portssvc.DocumentDetail, error) {
	parent, err := s.docRepo.FindDocumentByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	target := domain.DocumentType(req.TargetType)

	allowedFrom, ok := chainTargets[parent.Type][target]
	if !ok {
		return nil, fmt.Errorf("%w: %s from %s", ErrGenerationNotAllowed, target, parent.Type)
	}
	statusOK := false
	for _, st := range allowedFrom {
		if parent.Status == st {
			statusOK = true
			break
		}
	}
	if !statusOK {
		return nil, fmt.Errorf("%w: %s is %s", ErrParentNotReady, parent.Number, parent.Status)
	}

	var priceScale *decimal.Decimal
	var depositPercent *decimal.Decimal
	if target == domain.FactureAcompte {
		if req.DepositPercent == nil || !req.DepositPercent.IsPositive() || req.DepositPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("%w", ErrDepositPercentMissing)
		}
		scale := req.DepositPercent.Div(decimal.NewFromInt(100))
		priceScale = &scale
		depositPercent = req.DepositPercent
	}

	parentItems, err := s.docRepo.FindItemsByDocumentID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	linkedDevisID := parent.LinkedDevisID
	if parent.Type == domain.Devis {
		linkedDevisID = &parent.DocumentID
	}

	detail, err := s.create(ctx, createSpec{
		docType:        target,
		clientID:       parent.ClientID,
		projectID:      parent.ProjectID,
		parentID:       &parent.DocumentID,
		linkedDevisID:  linkedDevisID,
		dueDate:        req.DueDate,
		items:          copyItemRequests(parentItems, priceScale),
		discountType:   parent.DiscountType,
		discountValue:  scaledDiscountValue(parent, priceScale),
		depositPercent: depositPercent,
	}, userID)
	if err != nil {
		return nil, err
	}

	// Generating the final invoice consumes the quote.
	if parent.Type == domain.Devis && target == domain.Facture {
		if _, err := s.TransitionStatus(ctx, parent.DocumentID, domain.StatusConverted, userID); err != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Generated facture but failed to convert devis",
				slog.String("devis_id", parent.DocumentID), slog.String("error", err.Error()))
			return nil, err
		}
	}
	return detail, nil
}

// scaledDiscountValue keeps a fixed global discount proportional when deposit
// lines are scaled; percentage discounts carry over unchanged.
func scaledDiscountValue(parent *domain.Document, scale *decimal.Decimal) decimal.Decimal {
	if scale == nil || parent.DiscountType == domain.DiscountPercentage {
		return parent.DiscountValue
	}
	return billing.Round2(parent.DiscountValue.Mul(*scale))
}

func copyItemRequests(items []domain.DocumentItem, priceScale *decimal.Decimal) []dto.CreateDocumentItemRequest {
	reqs := make([]dto.CreateDocumentItemRequest, len(items))
	for i, it := range items {
		price := it.UnitPriceHT
		if priceScale != nil {
			price = billing.Round2(price.Mul(*priceScale))
		}
		p := price
		rate := it.TVARate
		reqs[i] = dto.CreateDocumentItemRequest{
			CatalogItemID:   it.CatalogItemID,
			Designation:     it.Designation,
			Quantity:        it.Quantity,
			Unit:            it.Unit,
			UnitPriceHT:     &p,
			DiscountPercent: it.DiscountPercent,
			TVARate:         &rate,
		}
	}
	return reqs
}

// ReapplyDeposits implements portssvc.DocumentSvcFacade.
func (s *documentService) ReapplyDeposits(ctx context.Context, documentID string, userID string) (*portssvc.DocumentDetail, error) {
	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Type != domain.Facture || doc.LinkedDevisID == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotAFacture, doc.Number)
	}

	applied, capped, err := s.docRepo.ApplyDeposits(ctx, documentID)
	if err != nil {
		return nil, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Deposits reapplied",
		slog.String("document_id", documentID),
		slog.String("applied", applied.String()),
	)

	detail, err := s.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if capped {
		detail.Warnings = append(detail.Warnings, depositOverappliedWarning)
	}
	return detail, nil
}
