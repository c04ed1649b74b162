package billing

import (
	"fmt"
	"sort"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/apperrors"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Round2 rounds a monetary amount to the currency's minor unit with a
// deterministic half-up mode. All amounts in this engine are non-negative, so
// decimal's half-away-from-zero rounding is half-up here.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeLine derives a line's totals from its four inputs. Rounding is
// applied once per line, after the full product, never on intermediates.
//
//	totalHT   = round2(quantity * unitPriceHT * (1 - discountPercent/100))
//	tvaAmount = round2(totalHT * tvaRate/100)
//	totalTTC  = totalHT + tvaAmount
func ComputeLine(quantity, unitPriceHT, discountPercent, tvaRate decimal.Decimal) (totalHT, tvaAmount, totalTTC decimal.Decimal, err error) {
	zero := decimal.Zero
	if !quantity.IsPositive() {
		return zero, zero, zero, fmt.Errorf("%w: quantity must be greater than zero, got %s", apperrors.ErrValidation, quantity)
	}
	if unitPriceHT.IsNegative() {
		return zero, zero, zero, fmt.Errorf("%w: unit price must not be negative, got %s", apperrors.ErrValidation, unitPriceHT)
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(oneHundred) {
		return zero, zero, zero, fmt.Errorf("%w: line discount must be within [0,100], got %s", apperrors.ErrValidation, discountPercent)
	}
	if tvaRate.IsNegative() {
		return zero, zero, zero, fmt.Errorf("%w: tva rate must not be negative, got %s", apperrors.ErrValidation, tvaRate)
	}

	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(oneHundred))
	totalHT = Round2(quantity.Mul(unitPriceHT).Mul(factor))
	tvaAmount = Round2(totalHT.Mul(tvaRate).Div(oneHundred))
	totalTTC = totalHT.Add(tvaAmount)
	return totalHT, tvaAmount, totalTTC, nil
}

// TaxLine is the per-rate slice of the document's tax breakdown, kept for
// display and legal compliance.
type TaxLine struct {
	Rate   decimal.Decimal `json:"rate"`
	Base   decimal.Decimal `json:"base"`   // discount-adjusted net at this rate
	Amount decimal.Decimal `json:"amount"` // Base * Rate / 100
}

// Totals is the aggregate result for one document.
type Totals struct {
	TotalHT        decimal.Decimal `json:"totalHT"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	NetHT          decimal.Decimal `json:"netHT"`
	TotalTVA       decimal.Decimal `json:"totalTVA"`
	TotalTTC       decimal.Decimal `json:"totalTTC"`
	TaxBreakdown   []TaxLine       `json:"taxBreakdown"`
}

// ComputeTotals aggregates computed line items with a document-level discount.
// It is a pure function of its inputs: re-invoking it on unchanged items and
// discount always yields identical totals.
//
// The global discount is assumed to apply proportionally across all lines
// regardless of their rate, so each rate bucket is scaled by netHT/subtotalHT
// before the rate is applied. With no lines that ratio is 0/0; the defined
// behavior is to treat it as 1: an empty document is a degenerate case with
// all-zero totals, not an error.
func ComputeTotals(items []domain.DocumentItem, discountType domain.DiscountType, discountValue decimal.Decimal) (Totals, error) {
	if discountValue.IsNegative() {
		return Totals{}, fmt.Errorf("%w: discount value must not be negative, got %s", apperrors.ErrValidation, discountValue)
	}
	switch discountType {
	case domain.DiscountPercentage:
		if discountValue.GreaterThan(oneHundred) {
			return Totals{}, fmt.Errorf("%w: percentage discount must be within [0,100], got %s", apperrors.ErrValidation, discountValue)
		}
	case domain.DiscountFixed:
		// any non-negative value; capped at the subtotal below
	default:
		return Totals{}, fmt.Errorf("%w: unknown discount type %q", apperrors.ErrValidation, discountType)
	}

	subtotalHT := decimal.Zero
	perRate := make(map[string]decimal.Decimal)
	rates := make(map[string]decimal.Decimal)
	for _, it := range items {
		subtotalHT = subtotalHT.Add(it.TotalHT)
		key := it.TVARate.String()
		perRate[key] = perRate[key].Add(it.TotalHT)
		rates[key] = it.TVARate
	}

	var discountAmount decimal.Decimal
	if discountType == domain.DiscountPercentage {
		discountAmount = Round2(subtotalHT.Mul(discountValue).Div(oneHundred))
	} else {
		// a fixed discount can never exceed the subtotal
		discountAmount = decimal.Min(discountValue, subtotalHT)
	}
	netHT := subtotalHT.Sub(discountAmount)

	// Proportional discount adjustment per rate bucket. Ratio is 1 for the
	// degenerate empty (zero subtotal) case.
	ratio := decimal.NewFromInt(1)
	if !subtotalHT.IsZero() {
		ratio = netHT.Div(subtotalHT)
	}

	keys := make([]string, 0, len(perRate))
	for k := range perRate {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return rates[keys[i]].LessThan(rates[keys[j]])
	})

	totalTVA := decimal.Zero
	breakdown := make([]TaxLine, 0, len(keys))
	for _, k := range keys {
		base := Round2(perRate[k].Mul(ratio))
		amount := Round2(base.Mul(rates[k]).Div(oneHundred))
		totalTVA = totalTVA.Add(amount)
		breakdown = append(breakdown, TaxLine{Rate: rates[k], Base: base, Amount: amount})
	}

	return Totals{
		TotalHT:        subtotalHT,
		DiscountAmount: discountAmount,
		NetHT:          netHT,
		TotalTVA:       totalTVA,
		TotalTTC:       netHT.Add(totalTVA),
		TaxBreakdown:   breakdown,
	}, nil
}
