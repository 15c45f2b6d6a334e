package sequence

import (
	"fmt"
	"time"
)

// DefaultNumberDigits is the default zero-padded width of the sequence part
const DefaultNumberDigits = 4

// Document number prefixes
const (
	PrefixSalesOrder   = "SO"
	PrefixSalesInvoice = "INV"
	PrefixVoucher      = "VCH"
)

// FormatDocumentNumber builds a canonical human-readable document number:
// PREFIX-YYMM-NNNN, e.g. "SO-2506-0001". Pure and stable for identical
// inputs; downstream reporting relies on the lexicographic ordering of
// numbers within one period.
func FormatDocumentNumber(prefix string, period time.Time, seq int64, digits int) string {
	if digits <= 0 {
		digits = DefaultNumberDigits
	}
	return fmt.Sprintf("%s-%s-%0*d", prefix, period.Format("0601"), digits, seq)
}
