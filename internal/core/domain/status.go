package domain

// DocumentStatus is the lifecycle state of a document. The union below covers
// all document types; each type uses only the subset declared in its
// transition table.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusSent      DocumentStatus = "SENT"
	StatusViewed    DocumentStatus = "VIEWED"
	StatusConfirmed DocumentStatus = "CONFIRMED"
	StatusPartial   DocumentStatus = "PARTIAL"
	StatusDelivered DocumentStatus = "DELIVERED"
	StatusSigned    DocumentStatus = "SIGNED"
	StatusPaid      DocumentStatus = "PAID"
	StatusAccepted  DocumentStatus = "ACCEPTED"
	StatusRejected  DocumentStatus = "REJECTED"
	StatusExpired   DocumentStatus = "EXPIRED"
	StatusConverted DocumentStatus = "CONVERTED"
	StatusCancelled DocumentStatus = "CANCELLED"
)

// InitialStatus is where every document type starts its lifecycle.
const InitialStatus = StatusDraft

// transitions is the single authoritative transition table, checked at one
// chokepoint by every mutating operation. A status absent from its type's map
// has no further business-driven exits (terminal).
//
// CONVERTED is reachable only for DEVIS, from ACCEPTED. EXPIRED quotes may be
// reopened by re-sending them.
var transitions = map[DocumentType]map[DocumentStatus][]DocumentStatus{
	Devis: {
		StatusDraft:    {StatusSent, StatusCancelled},
		StatusSent:     {StatusViewed, StatusAccepted, StatusRejected, StatusExpired},
		StatusViewed:   {StatusAccepted, StatusRejected, StatusExpired},
		StatusAccepted: {StatusConverted},
		StatusExpired:  {StatusSent},
	},
	BonCommande: {
		StatusDraft:     {StatusSent, StatusCancelled},
		StatusSent:      {StatusConfirmed, StatusRejected, StatusCancelled},
		StatusConfirmed: {StatusCancelled},
	},
	BonLivraison: {
		StatusDraft:     {StatusSent, StatusCancelled},
		StatusSent:      {StatusDelivered, StatusCancelled},
		StatusDelivered: {StatusSigned},
	},
	PVReception: {
		StatusDraft: {StatusSent, StatusCancelled},
		StatusSent:  {StatusSigned, StatusCancelled},
	},
	Facture: {
		StatusDraft:   {StatusSent, StatusCancelled},
		StatusSent:    {StatusViewed, StatusPartial, StatusPaid, StatusCancelled},
		StatusViewed:  {StatusPartial, StatusPaid, StatusCancelled},
		StatusPartial: {StatusPaid, StatusCancelled},
	},
	FactureAcompte: {
		StatusDraft:   {StatusSent, StatusCancelled},
		StatusSent:    {StatusViewed, StatusPartial, StatusPaid, StatusCancelled},
		StatusViewed:  {StatusPartial, StatusPaid, StatusCancelled},
		StatusPartial: {StatusPaid, StatusCancelled},
	},
	Avoir: {
		StatusDraft: {StatusSent, StatusCancelled},
		StatusSent:  {StatusCancelled},
	},
}

// editableStatuses is the per-type subset in which item and discount edits are
// permitted. Once a document leaves this set only status, payment and deposit
// fields may change.
var editableStatuses = map[DocumentType][]DocumentStatus{
	Devis:          {StatusDraft},
	BonCommande:    {StatusDraft},
	BonLivraison:   {StatusDraft},
	PVReception:    {StatusDraft},
	Facture:        {StatusDraft},
	FactureAcompte: {StatusDraft},
	Avoir:          {StatusDraft},
}

// NextStatuses returns the statuses the given type may legally move to from
// the given state. The returned slice is a copy; an empty result means the
// state is terminal for that type.
func NextStatuses(t DocumentType, from DocumentStatus) []DocumentStatus {
	table, ok := transitions[t]
	if !ok {
		return nil
	}
	next := table[from]
	out := make([]DocumentStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether moving from -> to is declared legal for the
// given document type.
func CanTransition(t DocumentType, from, to DocumentStatus) bool {
	for _, s := range transitions[t][from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state has no further business-driven exits
// for the given type.
func IsTerminal(t DocumentType, s DocumentStatus) bool {
	return len(transitions[t][s]) == 0
}

// IsEditableStatus reports whether item/discount edits are permitted for a
// document of the given type in the given state.
func IsEditableStatus(t DocumentType, s DocumentStatus) bool {
	for _, e := range editableStatuses[t] {
		if e == s {
			return true
		}
	}
	return false
}
