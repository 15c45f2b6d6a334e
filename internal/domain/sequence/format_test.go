package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDocumentNumber(t *testing.T) {
	june2025 := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	t.Run("formats prefix, period and padded sequence", func(t *testing.T) {
		assert.Equal(t, "SO-2506-0001", FormatDocumentNumber(PrefixSalesOrder, june2025, 1, DefaultNumberDigits))
		assert.Equal(t, "INV-2506-0042", FormatDocumentNumber(PrefixSalesInvoice, june2025, 42, DefaultNumberDigits))
		assert.Equal(t, "VCH-2506-9999", FormatDocumentNumber(PrefixVoucher, june2025, 9999, DefaultNumberDigits))
	})

	t.Run("sequence wider than digit budget is not truncated", func(t *testing.T) {
		assert.Equal(t, "SO-2506-10000", FormatDocumentNumber(PrefixSalesOrder, june2025, 10000, DefaultNumberDigits))
		assert.Equal(t, "SO-2506-123456", FormatDocumentNumber(PrefixSalesOrder, june2025, 123456, DefaultNumberDigits))
	})

	t.Run("period encodes two-digit year and month", func(t *testing.T) {
		jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		dec := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
		assert.Equal(t, "SO-2601-0007", FormatDocumentNumber(PrefixSalesOrder, jan, 7, 4))
		assert.Equal(t, "SO-2512-0007", FormatDocumentNumber(PrefixSalesOrder, dec, 7, 4))
	})

	t.Run("custom digit widths", func(t *testing.T) {
		assert.Equal(t, "SO-2506-001", FormatDocumentNumber(PrefixSalesOrder, june2025, 1, 3))
		assert.Equal(t, "SO-2506-000001", FormatDocumentNumber(PrefixSalesOrder, june2025, 1, 6))
	})
}
