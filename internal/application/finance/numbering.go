package finance

import "github.com/bizcentral/backend/internal/domain/sequence"

// NumberingConfig holds the document number prefixes and the zero-padded
// width of the sequence part
type NumberingConfig struct {
	OrderPrefix   string
	InvoicePrefix string
	VoucherPrefix string
	Digits        int
}

// DefaultNumberingConfig returns the default numbering configuration
func DefaultNumberingConfig() NumberingConfig {
	return NumberingConfig{
		OrderPrefix:   sequence.PrefixSalesOrder,
		InvoicePrefix: sequence.PrefixSalesInvoice,
		VoucherPrefix: sequence.PrefixVoucher,
		Digits:        sequence.DefaultNumberDigits,
	}
}
