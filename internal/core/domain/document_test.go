package domain_test

import (
	"testing"
	"time"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
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

func timePtr(t time.Time) *time.Time { return &t }

func TestComputeBalance(t *testing.T) {
	tests := []struct {
		name     string
		totalTTC string
		deposits string
		paid     string
		credit   string
		want     string
	}{
		{"nothing settled", "1200", "0", "0", "0", "1200"},
		{"deposits and payments", "5000", "1500", "2000", "0", "1500"},
		{"credit applied", "1000", "0", "200", "300", "500"},
		{"fully settled", "1000", "400", "600", "0", "0"},
		{"overshoot clamps to zero", "1000", "600", "600", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := domain.Document{
				TotalTTC:             d(tt.totalTTC),
				TotalDepositsApplied: d(tt.deposits),
				PaidAmount:           d(tt.paid),
				CreditApplied:        d(tt.credit),
			}
			got := doc.ComputeBalance()
			assert.True(t, d(tt.want).Equal(got), "want %s got %s", tt.want, got)
			assert.False(t, got.IsNegative())
		})
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := timePtr(now.AddDate(0, 0, -10))
	future := timePtr(now.AddDate(0, 0, 10))

	tests := []struct {
		name    string
		dueDate *time.Time
		status  domain.DocumentStatus
		balance string
		want    bool
	}{
		{"past due with balance", past, domain.StatusSent, "100", true},
		{"no due date", nil, domain.StatusSent, "100", false},
		{"due date in the future", future, domain.StatusSent, "100", false},
		{"settled documents are never overdue", past, domain.StatusPaid, "0", false},
		{"cancelled documents are never overdue", past, domain.StatusCancelled, "100", false},
		{"zero balance", past, domain.StatusSent, "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := domain.Document{
				Type:    domain.Facture,
				Status:  tt.status,
				DueDate: tt.dueDate,
				Balance: d(tt.balance),
			}
			assert.Equal(t, tt.want, doc.IsOverdue(now))
		})
	}
}

func TestApplyDepositAmounts(t *testing.T) {
	t.Run("two paid deposits net against the invoice", func(t *testing.T) {
		applied, capped := domain.ApplyDepositAmounts(d("5000"), []decimal.Decimal{d("1000"), d("500")})
		assert.True(t, d("1500").Equal(applied), "got %s", applied)
		assert.False(t, capped)
	})

	t.Run("deposits exceeding the total are capped", func(t *testing.T) {
		applied, capped := domain.ApplyDepositAmounts(d("1000"), []decimal.Decimal{d("800"), d("400")})
		assert.True(t, d("1000").Equal(applied), "got %s", applied)
		assert.True(t, capped)
	})

	t.Run("no deposits", func(t *testing.T) {
		applied, capped := domain.ApplyDepositAmounts(d("1000"), nil)
		assert.True(t, applied.IsZero())
		assert.False(t, capped)
	})
}

func TestCheckStoredInvariants(t *testing.T) {
	items := []domain.DocumentItem{
		{TotalHT: d("180"), TVAAmount: d("36"), TotalTTC: d("216"), TVARate: d("20")},
	}
	valid := domain.Document{
		TotalHT:        d("180"),
		DiscountAmount: d("0"),
		NetHT:          d("180"),
		TotalTVA:       d("36"),
		TotalTTC:       d("216"),
		Balance:        d("216"),
	}

	require.NoError(t, valid.CheckStoredInvariants(items))

	t.Run("item sum mismatch", func(t *testing.T) {
		doc := valid
		doc.TotalHT = d("200")
		assert.ErrorIs(t, doc.CheckStoredInvariants(items), domain.ErrItemSumMismatch)
	})

	t.Run("net mismatch", func(t *testing.T) {
		doc := valid
		doc.NetHT = d("170")
		assert.ErrorIs(t, doc.CheckStoredInvariants(items), domain.ErrNetMismatch)
	})

	t.Run("gross mismatch", func(t *testing.T) {
		doc := valid
		doc.TotalTTC = d("220")
		doc.Balance = d("220")
		assert.ErrorIs(t, doc.CheckStoredInvariants(items), domain.ErrGrossMismatch)
	})

	t.Run("balance mismatch", func(t *testing.T) {
		doc := valid
		doc.Balance = d("100")
		assert.ErrorIs(t, doc.CheckStoredInvariants(items), domain.ErrBalanceMismatch)
	})

	t.Run("all violations wrap the invariant family", func(t *testing.T) {
		doc := valid
		doc.Balance = d("100")
		assert.ErrorIs(t, doc.CheckStoredInvariants(items), domain.ErrInvariant)
	})
}

func TestNewTransitionError(t *testing.T) {
	err := domain.NewTransitionError(domain.Devis, domain.StatusDraft, domain.StatusAccepted)
	assert.Equal(t, domain.Devis, err.Type)
	assert.ElementsMatch(t, []domain.DocumentStatus{domain.StatusSent, domain.StatusCancelled}, err.Allowed)
	assert.Contains(t, err.Error(), "DRAFT")
	assert.Contains(t, err.Error(), "ACCEPTED")
}
