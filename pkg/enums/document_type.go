package enums

import "fmt"

// DocumentType is the kind of financial document produced with a payment.
// DocumentTypeNone collapses the checkout wizard to a single step.
type DocumentType string

const (
	DocumentTypeNone                  DocumentType = "none"
	DocumentTypeUnofficialTransaction DocumentType = "unofficial_transaction"
	DocumentTypeUnofficial            DocumentType = "unofficial"
	DocumentTypeReceipt               DocumentType = "receipt"
	DocumentTypeCreditInvoice         DocumentType = "credit_invoice"
	DocumentTypeTaxInvoice            DocumentType = "tax_invoice"
	DocumentTypeTaxInvoiceReceipt     DocumentType = "tax_invoice_receipt"
)

var validDocumentTypes = []DocumentType{
	DocumentTypeNone,
	DocumentTypeUnofficialTransaction,
	DocumentTypeUnofficial,
	DocumentTypeReceipt,
	DocumentTypeCreditInvoice,
	DocumentTypeTaxInvoice,
	DocumentTypeTaxInvoiceReceipt,
}

// String implements fmt.Stringer.
func (d DocumentType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentType.
func (d DocumentType) IsValid() bool {
	for _, candidate := range validDocumentTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentType converts raw input into a DocumentType.
func ParseDocumentType(value string) (DocumentType, error) {
	for _, candidate := range validDocumentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document type %q", value)
}
