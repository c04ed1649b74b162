package mapping

import (
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/models"
)

// ToModelAuditFields converts domain audit fields to the model form.
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts model audit fields to the domain form.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy,
	}
}

// ToModelDocument converts a domain Document to a model Document.
func ToModelDocument(d domain.Document) models.Document {
	return models.Document{
		DocumentID:           d.DocumentID,
		DocType:              string(d.Type),
		DocNumber:            d.Number,
		Status:               string(d.Status),
		DocDate:              d.Date,
		DueDate:              d.DueDate,
		ClientID:             d.ClientID,
		ProjectID:            d.ProjectID,
		ParentID:             d.ParentID,
		LinkedDevisID:        d.LinkedDevisID,
		DiscountType:         string(d.DiscountType),
		DiscountValue:        d.DiscountValue,
		TotalHT:              d.TotalHT,
		DiscountAmount:       d.DiscountAmount,
		NetHT:                d.NetHT,
		TotalTVA:             d.TotalTVA,
		TotalTTC:             d.TotalTTC,
		PaidAmount:           d.PaidAmount,
		TotalDepositsApplied: d.TotalDepositsApplied,
		CreditApplied:        d.CreditApplied,
		Balance:              d.Balance,
		DepositPercent:       d.DepositPercent,
		DepositAmount:        d.DepositAmount,
		AppliedToDocumentID:  d.AppliedToDocumentID,
		AvoirReason:          d.AvoirReason,
		Notes:                d.Notes,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model Document to a domain Document.
func ToDomainDocument(m models.Document) domain.Document {
	return domain.Document{
		DocumentID:           m.DocumentID,
		Type:                 domain.DocumentType(m.DocType),
		Number:               m.DocNumber,
		Status:               domain.DocumentStatus(m.Status),
		Date:                 m.DocDate,
		DueDate:              m.DueDate,
		ClientID:             m.ClientID,
		ProjectID:            m.ProjectID,
		ParentID:             m.ParentID,
		LinkedDevisID:        m.LinkedDevisID,
		DiscountType:         domain.DiscountType(m.DiscountType),
		DiscountValue:        m.DiscountValue,
		TotalHT:              m.TotalHT,
		DiscountAmount:       m.DiscountAmount,
		NetHT:                m.NetHT,
		TotalTVA:             m.TotalTVA,
		TotalTTC:             m.TotalTTC,
		PaidAmount:           m.PaidAmount,
		TotalDepositsApplied: m.TotalDepositsApplied,
		CreditApplied:        m.CreditApplied,
		Balance:              m.Balance,
		DepositPercent:       m.DepositPercent,
		DepositAmount:        m.DepositAmount,
		AppliedToDocumentID:  m.AppliedToDocumentID,
		AvoirReason:          m.AvoirReason,
		Notes:                m.Notes,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDocumentItem converts a domain DocumentItem to a model DocumentItem.
func ToModelDocumentItem(d domain.DocumentItem) models.DocumentItem {
	return models.DocumentItem{
		ItemID:          d.ItemID,
		DocumentID:      d.DocumentID,
		CatalogItemID:   d.CatalogItemID,
		Designation:     d.Designation,
		Unit:            d.Unit,
		Position:        d.Position,
		Quantity:        d.Quantity,
		UnitPriceHT:     d.UnitPriceHT,
		DiscountPercent: d.DiscountPercent,
		TVARate:         d.TVARate,
		TotalHT:         d.TotalHT,
		TVAAmount:       d.TVAAmount,
		TotalTTC:        d.TotalTTC,
	}
}

// ToDomainDocumentItem converts a model DocumentItem to a domain DocumentItem.
func ToDomainDocumentItem(m models.DocumentItem) domain.DocumentItem {
	return domain.DocumentItem{
		ItemID:          m.ItemID,
		DocumentID:      m.DocumentID,
		CatalogItemID:   m.CatalogItemID,
		Designation:     m.Designation,
		Unit:            m.Unit,
		Position:        m.Position,
		Quantity:        m.Quantity,
		UnitPriceHT:     m.UnitPriceHT,
		DiscountPercent: m.DiscountPercent,
		TVARate:         m.TVARate,
		TotalHT:         m.TotalHT,
		TVAAmount:       m.TVAAmount,
		TotalTTC:        m.TotalTTC,
	}
}

// ToModelPayment converts a domain Payment to a model Payment.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:   d.PaymentID,
		DocumentID:  d.DocumentID,
		Amount:      d.Amount,
		PaidAt:      d.PaidAt,
		Method:      string(d.Method),
		Reference:   d.Reference,
		Notes:       d.Notes,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:   m.PaymentID,
		DocumentID:  m.DocumentID,
		Amount:      m.Amount,
		PaidAt:      m.PaidAt,
		Method:      domain.PaymentMethod(m.Method),
		Reference:   m.Reference,
		Notes:       m.Notes,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
