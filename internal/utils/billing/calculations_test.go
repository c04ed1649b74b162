package billing_test

import (
	"testing"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/apperrors"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/utils/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name            string
		quantity        string
		unitPriceHT     string
		discountPercent string
		tvaRate         string
		wantHT          string
		wantTVA         string
		wantTTC         string
	}{
		{
			name:     "quantity 2 at 100 with 10% discount and 20% tva",
			quantity: "2", unitPriceHT: "100", discountPercent: "10", tvaRate: "20",
			wantHT: "180", wantTVA: "36", wantTTC: "216",
		},
		{
			name:     "no discount no tva",
			quantity: "3", unitPriceHT: "50", discountPercent: "0", tvaRate: "0",
			wantHT: "150", wantTVA: "0", wantTTC: "150",
		},
		{
			name:     "fractional quantity rounds once after the full product",
			quantity: "1.333", unitPriceHT: "9.99", discountPercent: "0", tvaRate: "20",
			// 1.333 * 9.99 = 13.31667 -> 13.32; tva = 2.664 -> 2.66
			wantHT: "13.32", wantTVA: "2.66", wantTTC: "15.98",
		},
		{
			name:     "full discount yields zero line",
			quantity: "4", unitPriceHT: "25", discountPercent: "100", tvaRate: "20",
			wantHT: "0", wantTVA: "0", wantTTC: "0",
		},
		{
			name:     "reduced tva rate",
			quantity: "10", unitPriceHT: "14.50", discountPercent: "0", tvaRate: "5.5",
			// 145 * 0.055 = 7.975 -> 7.98 half-up
			wantHT: "145", wantTVA: "7.98", wantTTC: "152.98",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totalHT, tvaAmount, totalTTC, err := billing.ComputeLine(
				d(tt.quantity), d(tt.unitPriceHT), d(tt.discountPercent), d(tt.tvaRate))
			require.NoError(t, err)
			assert.True(t, d(tt.wantHT).Equal(totalHT), "totalHT: want %s got %s", tt.wantHT, totalHT)
			assert.True(t, d(tt.wantTVA).Equal(tvaAmount), "tvaAmount: want %s got %s", tt.wantTVA, tvaAmount)
			assert.True(t, d(tt.wantTTC).Equal(totalTTC), "totalTTC: want %s got %s", tt.wantTTC, totalTTC)
		})
	}
}

func TestComputeLine_Validation(t *testing.T) {
	tests := []struct {
		name            string
		quantity        string
		unitPriceHT     string
		discountPercent string
		tvaRate         string
	}{
		{"zero quantity", "0", "10", "0", "20"},
		{"negative quantity", "-1", "10", "0", "20"},
		{"negative unit price", "1", "-10", "0", "20"},
		{"discount above 100", "1", "10", "101", "20"},
		{"negative discount", "1", "10", "-5", "20"},
		{"negative tva rate", "1", "10", "0", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := billing.ComputeLine(
				d(tt.quantity), d(tt.unitPriceHT), d(tt.discountPercent), d(tt.tvaRate))
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func lineItem(t *testing.T, quantity, unitPrice, discount, tvaRate string) domain.DocumentItem {
	t.Helper()
	totalHT, tvaAmount, totalTTC, err := billing.ComputeLine(d(quantity), d(unitPrice), d(discount), d(tvaRate))
	require.NoError(t, err)
	return domain.DocumentItem{
		Quantity:        d(quantity),
		UnitPriceHT:     d(unitPrice),
		DiscountPercent: d(discount),
		TVARate:         d(tvaRate),
		TotalHT:         totalHT,
		TVAAmount:       tvaAmount,
		TotalTTC:        totalTTC,
	}
}

func TestComputeTotals_MixedRatesWithGlobalPercentageDiscount(t *testing.T) {
	// 1000 at 20% plus 200 at 10%, 5% global discount.
	items := []domain.DocumentItem{
		lineItem(t, "1", "1000", "0", "20"),
		lineItem(t, "2", "100", "0", "10"),
	}

	totals, err := billing.ComputeTotals(items, domain.DiscountPercentage, d("5"))
	require.NoError(t, err)

	assert.True(t, d("1200").Equal(totals.TotalHT), "totalHT got %s", totals.TotalHT)
	assert.True(t, d("60").Equal(totals.DiscountAmount), "discountAmount got %s", totals.DiscountAmount)
	assert.True(t, d("1140").Equal(totals.NetHT), "netHT got %s", totals.NetHT)

	// Buckets scale by 0.95: 950 at 20% -> 190, 190 at 10% -> 19.
	require.Len(t, totals.TaxBreakdown, 2)
	assert.True(t, d("10").Equal(totals.TaxBreakdown[0].Rate))
	assert.True(t, d("190").Equal(totals.TaxBreakdown[0].Base))
	assert.True(t, d("19").Equal(totals.TaxBreakdown[0].Amount))
	assert.True(t, d("20").Equal(totals.TaxBreakdown[1].Rate))
	assert.True(t, d("950").Equal(totals.TaxBreakdown[1].Base))
	assert.True(t, d("190").Equal(totals.TaxBreakdown[1].Amount))

	assert.True(t, d("209").Equal(totals.TotalTVA), "totalTVA got %s", totals.TotalTVA)
	assert.True(t, d("1349").Equal(totals.TotalTTC), "totalTTC got %s", totals.TotalTTC)
}

func TestComputeTotals_FixedDiscountCappedAtSubtotal(t *testing.T) {
	items := []domain.DocumentItem{
		lineItem(t, "1", "100", "0", "20"),
	}

	totals, err := billing.ComputeTotals(items, domain.DiscountFixed, d("250"))
	require.NoError(t, err)

	assert.True(t, d("100").Equal(totals.DiscountAmount), "fixed discount must cap at subtotal, got %s", totals.DiscountAmount)
	assert.True(t, totals.NetHT.IsZero())
	assert.True(t, totals.TotalTVA.IsZero())
	assert.True(t, totals.TotalTTC.IsZero())
}

func TestComputeTotals_EmptyLineSetIsDegenerateNotError(t *testing.T) {
	totals, err := billing.ComputeTotals(nil, domain.DiscountPercentage, d("0"))
	require.NoError(t, err)

	assert.True(t, totals.TotalHT.IsZero())
	assert.True(t, totals.DiscountAmount.IsZero())
	assert.True(t, totals.NetHT.IsZero())
	assert.True(t, totals.TotalTVA.IsZero())
	assert.True(t, totals.TotalTTC.IsZero())
	assert.Empty(t, totals.TaxBreakdown)
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []domain.DocumentItem{
		lineItem(t, "3", "33.33", "10", "20"),
		lineItem(t, "7", "8.40", "0", "5.5"),
	}

	first, err := billing.ComputeTotals(items, domain.DiscountPercentage, d("2.5"))
	require.NoError(t, err)
	second, err := billing.ComputeTotals(items, domain.DiscountPercentage, d("2.5"))
	require.NoError(t, err)

	assert.True(t, first.TotalHT.Equal(second.TotalHT))
	assert.True(t, first.DiscountAmount.Equal(second.DiscountAmount))
	assert.True(t, first.NetHT.Equal(second.NetHT))
	assert.True(t, first.TotalTVA.Equal(second.TotalTVA))
	assert.True(t, first.TotalTTC.Equal(second.TotalTTC))
}

func TestComputeTotals_Validation(t *testing.T) {
	items := []domain.DocumentItem{lineItem(t, "1", "100", "0", "20")}

	_, err := billing.ComputeTotals(items, domain.DiscountPercentage, d("-1"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = billing.ComputeTotals(items, domain.DiscountPercentage, d("120"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = billing.ComputeTotals(items, domain.DiscountType("BOGUS"), d("10"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
