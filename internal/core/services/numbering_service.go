package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	portsrepo "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/repositories"
	portssvc "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/services"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/middleware"
)

// numberPrefixes maps each document type to its reference prefix.
var numberPrefixes = map[domain.DocumentType]string{
	domain.Devis:          "DEV",
	domain.BonCommande:    "BC",
	domain.BonLivraison:   "BL",
	domain.PVReception:    "PVR",
	domain.Facture:        "FAC",
	domain.FactureAcompte: "FA",
	domain.Avoir:          "AV",
}

// numberingService issues human-readable document references,
// e.g. "FAC-2026-0042", strictly increasing per type and calendar year.
type numberingService struct {
	counterRepo portsrepo.CounterRepositoryFacade
	now         func() time.Time
}

// NewNumberingService creates a new NumberingService.
func NewNumberingService(counterRepo portsrepo.CounterRepositoryFacade) portssvc.NumberingSvcFacade {
	return &numberingService{counterRepo: counterRepo, now: time.Now}
}

var _ portssvc.NumberingSvcFacade = (*numberingService)(nil)

// NextNumber implements portssvc.NumberingSvcFacade. Atomicity lives in the
// counter repository; on a transient numbering conflict the error propagates
// to the caller for retry; a number is never skipped or reused here.
func (s *numberingService) NextNumber(ctx context.Context, t domain.DocumentType) (string, error) {
	prefix, ok := numberPrefixes[t]
	if !ok {
		return "", fmt.Errorf("no number prefix defined for document type %q", t)
	}

	year := s.now().UTC().Year()
	value, err := s.counterRepo.NextValue(ctx, t, year)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to obtain next document number",
			slog.String("doc_type", string(t)), slog.String("error", err.Error()))
		return "", err
	}

	return fmt.Sprintf("%s-%d-%04d", prefix, year, value), nil
}
