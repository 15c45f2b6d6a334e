package finance

import (
	"github.com/bizcentral/backend/internal/domain/ledger"
	"github.com/bizcentral/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxAccounts holds the resolved tax ledger accounts for one invoice
// posting. Only the accounts the invoice actually needs are resolved:
// IGST for inter-state supplies, CGST and SGST for intra-state.
type TaxAccounts struct {
	CGST uuid.UUID
	SGST uuid.UUID
	IGST uuid.UUID
}

// AdvanceReceiptEntries builds the entries of an advance-payment voucher:
// debit the bank account and credit the customer's receivable account for
// the same amount. The entries balance by construction.
func AdvanceReceiptEntries(bankAccountID, customerAccountID uuid.UUID, amount decimal.Decimal) ([]ledger.VoucherEntry, error) {
	debit, err := ledger.NewDebitEntry(bankAccountID, amount)
	if err != nil {
		return nil, err
	}
	credit, err := ledger.NewCreditEntry(customerAccountID, amount)
	if err != nil {
		return nil, err
	}
	return []ledger.VoucherEntry{debit, credit}, nil
}

// SalesInvoiceEntries builds the entries of a sales voucher from the
// invoice's own stored fields: debit the customer for the grand total,
// credit sales income for the taxable amount, credit the tax accounts for
// the tax components. The grand total equals taxable plus taxes by the
// invoice's construction, so the entries balance.
func SalesInvoiceEntries(customerAccountID, salesAccountID uuid.UUID, taxes TaxAccounts, invoice *trade.SalesInvoice) ([]ledger.VoucherEntry, error) {
	entries := make([]ledger.VoucherEntry, 0, 4)

	debit, err := ledger.NewDebitEntry(customerAccountID, invoice.GrandTotal)
	if err != nil {
		return nil, err
	}
	entries = append(entries, debit)

	if invoice.TaxableAmount.IsPositive() {
		sales, err := ledger.NewCreditEntry(salesAccountID, invoice.TaxableAmount)
		if err != nil {
			return nil, err
		}
		entries = append(entries, sales)
	}

	if invoice.InterState {
		if invoice.IGST.IsPositive() {
			igst, err := ledger.NewCreditEntry(taxes.IGST, invoice.IGST)
			if err != nil {
				return nil, err
			}
			entries = append(entries, igst)
		}
		return entries, nil
	}

	if invoice.CGST.IsPositive() {
		cgst, err := ledger.NewCreditEntry(taxes.CGST, invoice.CGST)
		if err != nil {
			return nil, err
		}
		entries = append(entries, cgst)
	}
	if invoice.SGST.IsPositive() {
		sgst, err := ledger.NewCreditEntry(taxes.SGST, invoice.SGST)
		if err != nil {
			return nil, err
		}
		entries = append(entries, sgst)
	}

	return entries, nil
}

// CostShare is one product's contribution to a COGS voucher
type CostShare struct {
	InventoryAccountID uuid.UUID
	Amount             decimal.Decimal
}

// COGSEntries builds the entries of a cost-of-goods-sold voucher: debit
// the COGS expense account for the total cost and credit each product's
// inventory account for its share.
func COGSEntries(cogsAccountID uuid.UUID, shares []CostShare) ([]ledger.VoucherEntry, error) {
	total := decimal.Zero
	for _, share := range shares {
		total = total.Add(share.Amount)
	}

	entries := make([]ledger.VoucherEntry, 0, len(shares)+1)
	debit, err := ledger.NewDebitEntry(cogsAccountID, total)
	if err != nil {
		return nil, err
	}
	entries = append(entries, debit)

	for _, share := range shares {
		credit, err := ledger.NewCreditEntry(share.InventoryAccountID, share.Amount)
		if err != nil {
			return nil, err
		}
		entries = append(entries, credit)
	}

	return entries, nil
}
