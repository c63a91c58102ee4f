package domain

import "fmt"

// EntityKind names a kind of business object that journal entries and
// workflow instances can point at.
type EntityKind string

const (
	KindSalesInvoice    EntityKind = "SALES_INVOICE"
	KindPurchaseInvoice EntityKind = "PURCHASE_INVOICE"
	KindPayment         EntityKind = "PAYMENT"
	KindAsset           EntityKind = "ASSET"
	KindAdjustingEntry  EntityKind = "ADJUSTING_ENTRY"
	KindJournalEntry    EntityKind = "JOURNAL_ENTRY"
)

// EntityRef is a typed reference to a business object. The set of
// implementations is closed to this package.
type EntityRef interface {
	Kind() EntityKind
	EntityID() string
	isEntityRef()
}

type SalesInvoiceRef struct{ InvoiceID string }
type PurchaseInvoiceRef struct{ InvoiceID string }
type PaymentRef struct{ PaymentID string }
type AssetRef struct{ AssetID string }
type AdjustingEntryRef struct{ AdjustmentID string }
type JournalEntryRef struct{ EntryID string }

func (r SalesInvoiceRef) Kind() EntityKind    { return KindSalesInvoice }
func (r PurchaseInvoiceRef) Kind() EntityKind { return KindPurchaseInvoice }
func (r PaymentRef) Kind() EntityKind         { return KindPayment }
func (r AssetRef) Kind() EntityKind           { return KindAsset }
func (r AdjustingEntryRef) Kind() EntityKind  { return KindAdjustingEntry }
func (r JournalEntryRef) Kind() EntityKind    { return KindJournalEntry }

func (r SalesInvoiceRef) EntityID() string    { return r.InvoiceID }
func (r PurchaseInvoiceRef) EntityID() string { return r.InvoiceID }
func (r PaymentRef) EntityID() string         { return r.PaymentID }
func (r AssetRef) EntityID() string           { return r.AssetID }
func (r AdjustingEntryRef) EntityID() string  { return r.AdjustmentID }
func (r JournalEntryRef) EntityID() string    { return r.EntryID }

func (SalesInvoiceRef) isEntityRef()    {}
func (PurchaseInvoiceRef) isEntityRef() {}
func (PaymentRef) isEntityRef()         {}
func (AssetRef) isEntityRef()           {}
func (AdjustingEntryRef) isEntityRef()  {}
func (JournalEntryRef) isEntityRef()    {}

// ParseEntityRef rebuilds a reference from its persisted kind and id.
func ParseEntityRef(kind, id string) (EntityRef, error) {
	if id == "" {
		return nil, fmt.Errorf("entity reference of kind %q has empty id", kind)
	}
	switch EntityKind(kind) {
	case KindSalesInvoice:
		return SalesInvoiceRef{InvoiceID: id}, nil
	case KindPurchaseInvoice:
		return PurchaseInvoiceRef{InvoiceID: id}, nil
	case KindPayment:
		return PaymentRef{PaymentID: id}, nil
	case KindAsset:
		return AssetRef{AssetID: id}, nil
	case KindAdjustingEntry:
		return AdjustingEntryRef{AdjustmentID: id}, nil
	case KindJournalEntry:
		return JournalEntryRef{EntryID: id}, nil
	}
	return nil, fmt.Errorf("unknown entity reference kind %q", kind)
}

// RefKey formats a reference as "KIND:id", used as a map key and in logs.
func RefKey(ref EntityRef) string {
	if ref == nil {
		return ""
	}
	return string(ref.Kind()) + ":" + ref.EntityID()
}

// SameRef reports whether a and b point at the same object.
func SameRef(a, b EntityRef) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind() && a.EntityID() == b.EntityID()
}
