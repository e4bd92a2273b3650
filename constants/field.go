package constants

// FieldKind identifies one of the structured data categories the engine
// extracts from recognized text. The string values are stable and used as
// keys in configuration files and exported reports.
type FieldKind string

const (
	Amount        FieldKind = "amount"
	Currency      FieldKind = "currency"
	TxDate        FieldKind = "tx_date"
	Vendor        FieldKind = "vendor"
	TaxID         FieldKind = "tax_id"
	VATAmount     FieldKind = "vat_amount"
	AccountNumber FieldKind = "account_number"
)

var allFieldKinds = []FieldKind{
	Amount,
	Currency,
	TxDate,
	Vendor,
	TaxID,
	VATAmount,
	AccountNumber,
}

// RequiredFieldKinds are the fields any downstream accounting use depends on.
// A document missing one of these is always routed to review.
var RequiredFieldKinds = []FieldKind{Amount, Vendor}

// AllFieldKinds returns the full set of extractable field kinds in stable order.
func AllFieldKinds() []FieldKind {
	out := make([]FieldKind, len(allFieldKinds))
	copy(out, allFieldKinds)
	return out
}

// ParseFieldKind maps a config key to its FieldKind.
func ParseFieldKind(s string) (FieldKind, bool) {
	for _, k := range allFieldKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// IsRequired reports whether k must be present for auto-accept.
func IsRequired(k FieldKind) bool {
	for _, r := range RequiredFieldKinds {
		if r == k {
			return true
		}
	}
	return false
}
