package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/apperrors"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextNumber_FormatPerType(t *testing.T) {
	ctx := context.Background()
	year := time.Now().UTC().Year()

	tests := []struct {
		docType domain.DocumentType
		value   int64
		want    string
	}{
		{domain.Devis, 1, fmt.Sprintf("DEV-%d-0001", year)},
		{domain.BonCommande, 12, fmt.Sprintf("BC-%d-0012", year)},
		{domain.BonLivraison, 7, fmt.Sprintf("BL-%d-0007", year)},
		{domain.PVReception, 3, fmt.Sprintf("PVR-%d-0003", year)},
		{domain.Facture, 42, fmt.Sprintf("FAC-%d-0042", year)},
		{domain.FactureAcompte, 9, fmt.Sprintf("FA-%d-0009", year)},
		{domain.Avoir, 2, fmt.Sprintf("AV-%d-0002", year)},
		{domain.Facture, 12345, fmt.Sprintf("FAC-%d-12345", year)},
	}

	for _, tt := range tests {
		t.Run(string(tt.docType), func(t *testing.T) {
			mockCounter := new(MockCounterRepository)
			mockCounter.On("NextValue", ctx, tt.docType, year).Return(tt.value, nil)

			svc := services.NewNumberingService(mockCounter)
			number, err := svc.NextNumber(ctx, tt.docType)

			require.NoError(t, err)
			assert.Equal(t, tt.want, number)
		})
	}
}

func TestNextNumber_UnknownType(t *testing.T) {
	svc := services.NewNumberingService(new(MockCounterRepository))

	_, err := svc.NextNumber(context.Background(), domain.DocumentType("BOGUS"))
	assert.Error(t, err)
}

func TestNextNumber_ConflictPropagatesForRetry(t *testing.T) {
	ctx := context.Background()
	year := time.Now().UTC().Year()

	mockCounter := new(MockCounterRepository)
	mockCounter.On("NextValue", ctx, domain.Facture, year).
		Return(int64(0), apperrors.ErrNumberingConflict)

	svc := services.NewNumberingService(mockCounter)
	_, err := svc.NextNumber(ctx, domain.Facture)

	assert.ErrorIs(t, err, apperrors.ErrNumberingConflict)
}
