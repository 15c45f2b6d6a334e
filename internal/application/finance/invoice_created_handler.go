package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizcentral/backend/internal/domain/ledger"
	"github.com/bizcentral/backend/internal/domain/sequence"
	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/bizcentral/backend/internal/domain/shared/valueobject"
	"github.com/bizcentral/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// InvoiceCreatedHandler reacts to SalesInvoiceCreatedEvent: it assigns the
// sequential invoice number, posts the sales voucher (revenue plus tax
// liabilities) and, when line products carry a non-zero cost, a companion
// cost-of-goods-sold voucher in the same transaction. Two vouchers, not
// one: tax derivation and cost derivation have different sources of truth
// and either may legitimately be zero on its own.
type InvoiceCreatedHandler struct {
	scope     TransactionScope
	resolver  *AccountResolver
	numbering NumberingConfig
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewInvoiceCreatedHandler creates a new handler for invoice creation events
func NewInvoiceCreatedHandler(
	scope TransactionScope,
	resolver *AccountResolver,
	numbering NumberingConfig,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *InvoiceCreatedHandler {
	return &InvoiceCreatedHandler{
		scope:     scope,
		resolver:  resolver,
		numbering: numbering,
		publisher: publisher,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *InvoiceCreatedHandler) EventTypes() []string {
	return []string{trade.EventTypeSalesInvoiceCreated}
}

// Handle processes a SalesInvoiceCreatedEvent
func (h *InvoiceCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	createdEvent, ok := event.(*trade.SalesInvoiceCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeSalesInvoiceCreated, event.EventType())
	}

	var posted []shared.DomainEvent

	err := h.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// The scope retries on commit conflicts; drop anything collected by
		// a rolled-back attempt.
		posted = posted[:0]

		invoice, err := repos.Invoices().FindByID(ctx, createdEvent.InvoiceID)
		if err != nil {
			return fmt.Errorf("failed to load invoice %s: %w", createdEvent.InvoiceID, err)
		}

		if invoice.NumberAssigned() {
			h.logger.Info("invoice number already assigned, skipping",
				zap.String("invoice_id", invoice.ID.String()),
				zap.String("invoice_number", invoice.InvoiceNumber),
			)
			return nil
		}

		fresh, err := repos.ProcessedEvents().MarkProcessed(ctx, createdEvent.EventID().String(), HandlerInvoiceCreated)
		if err != nil {
			return fmt.Errorf("failed to mark event processed: %w", err)
		}
		if !fresh {
			h.logger.Warn("duplicate delivery of invoice created event, skipping",
				zap.String("event_id", createdEvent.EventID().String()),
				zap.String("invoice_id", invoice.ID.String()),
			)
			return nil
		}

		seq, err := repos.Sequences().Allocate(ctx, sequence.CounterSalesInvoices)
		if err != nil {
			return fmt.Errorf("failed to allocate invoice sequence: %w", err)
		}
		invoiceNumber := sequence.FormatDocumentNumber(h.numbering.InvoicePrefix, createdEvent.OccurredAt(), seq, h.numbering.Digits)
		if err := invoice.AssignInvoiceNumber(invoiceNumber); err != nil {
			return fmt.Errorf("failed to assign invoice number: %w", err)
		}

		salesVoucher, err := h.postSalesVoucher(ctx, repos, invoice)
		if err != nil {
			return err
		}
		posted = append(posted, salesVoucher.GetDomainEvents()...)
		salesVoucher.ClearDomainEvents()

		cogsVoucher, err := h.postCOGSVoucher(ctx, repos, invoice)
		if err != nil {
			return err
		}
		if cogsVoucher != nil {
			posted = append(posted, cogsVoucher.GetDomainEvents()...)
			cogsVoucher.ClearDomainEvents()
		}

		if err := repos.Invoices().Save(ctx, invoice); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		h.logger.Info("invoice number assigned",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("invoice_number", invoiceNumber),
			zap.Int64("sequence", seq),
		)

		return nil
	})
	if err != nil {
		return err
	}

	if h.publisher != nil && len(posted) > 0 {
		if err := h.publisher.Publish(ctx, posted...); err != nil {
			h.logger.Warn("failed to publish domain events", zap.Error(err))
		}
	}

	return nil
}

// postSalesVoucher posts the revenue and tax voucher derived from the
// invoice's stored amounts
func (h *InvoiceCreatedHandler) postSalesVoucher(ctx context.Context, repos TransactionalRepositories, invoice *trade.SalesInvoice) (*ledger.Voucher, error) {
	customerAccountID, err := h.resolver.ResolveForCustomer(ctx, repos, invoice.CustomerID)
	if err != nil {
		return nil, err
	}
	salesAccountID, err := h.resolver.ResolveByName(ctx, repos, ledger.AccountNameSales)
	if err != nil {
		return nil, err
	}

	var taxes TaxAccounts
	if invoice.InterState {
		if invoice.IGST.IsPositive() {
			if taxes.IGST, err = h.resolver.ResolveByName(ctx, repos, ledger.AccountNameIGSTPayable); err != nil {
				return nil, err
			}
		}
	} else {
		if invoice.CGST.IsPositive() {
			if taxes.CGST, err = h.resolver.ResolveByName(ctx, repos, ledger.AccountNameCGSTPayable); err != nil {
				return nil, err
			}
		}
		if invoice.SGST.IsPositive() {
			if taxes.SGST, err = h.resolver.ResolveByName(ctx, repos, ledger.AccountNameSGSTPayable); err != nil {
				return nil, err
			}
		}
	}

	entries, err := SalesInvoiceEntries(customerAccountID, salesAccountID, taxes, invoice)
	if err != nil {
		return nil, fmt.Errorf("failed to build sales voucher entries: %w", err)
	}

	voucherSeq, err := repos.Sequences().Allocate(ctx, sequence.CounterVouchers)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate voucher sequence: %w", err)
	}
	voucherNumber := sequence.FormatDocumentNumber(h.numbering.VoucherPrefix, invoice.InvoiceDate, voucherSeq, h.numbering.Digits)

	voucher, err := ledger.NewVoucher(
		voucherNumber,
		ledger.VoucherTypeSales,
		invoice.InvoiceDate,
		fmt.Sprintf("Sales of %s against invoice %s",
			valueobject.NewMoneyINR(invoice.GrandTotal), invoice.InvoiceNumber),
		ledger.SourceTypeSalesInvoice,
		invoice.ID,
		entries,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build sales voucher: %w", err)
	}

	if err := repos.Vouchers().Save(ctx, voucher); err != nil {
		return nil, fmt.Errorf("failed to save sales voucher: %w", err)
	}

	h.logger.Info("sales voucher posted",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("voucher_number", voucherNumber),
		zap.String("grand_total", invoice.GrandTotal.String()),
		zap.Bool("inter_state", invoice.InterState),
	)

	return voucher, nil
}

// postCOGSVoucher posts the companion cost-of-goods-sold voucher when line
// products carry a non-zero cost. Unresolvable or costless lines are
// skipped with a log, a deliberate best-effort posture: a bad line must
// not suppress the revenue posting. Returns nil when there is no cost to
// recognize.
func (h *InvoiceCreatedHandler) postCOGSVoucher(ctx context.Context, repos TransactionalRepositories, invoice *trade.SalesInvoice) (*ledger.Voucher, error) {
	shares := make([]CostShare, 0, len(invoice.Lines))
	for _, line := range invoice.Lines {
		product, err := repos.Products().FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				h.logger.Warn("skipping COGS for unresolvable product",
					zap.String("invoice_id", invoice.ID.String()),
					zap.String("product_id", line.ProductID.String()),
				)
				continue
			}
			return nil, fmt.Errorf("failed to load product %s: %w", line.ProductID, err)
		}
		if !product.HasCost() {
			continue
		}
		shares = append(shares, CostShare{
			InventoryAccountID: *product.InventoryAccountID,
			Amount:             product.Cost.Mul(line.Quantity),
		})
	}

	if len(shares) == 0 {
		return nil, nil
	}

	cogsAccountID, err := h.resolver.ResolveByName(ctx, repos, ledger.AccountNameCOGS)
	if err != nil {
		return nil, err
	}

	entries, err := COGSEntries(cogsAccountID, shares)
	if err != nil {
		return nil, fmt.Errorf("failed to build COGS entries: %w", err)
	}

	voucherSeq, err := repos.Sequences().Allocate(ctx, sequence.CounterVouchers)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate voucher sequence: %w", err)
	}
	voucherNumber := sequence.FormatDocumentNumber(h.numbering.VoucherPrefix, invoice.InvoiceDate, voucherSeq, h.numbering.Digits)

	voucher, err := ledger.NewVoucher(
		voucherNumber,
		ledger.VoucherTypeCOGS,
		invoice.InvoiceDate,
		fmt.Sprintf("Cost of goods sold against invoice %s", invoice.InvoiceNumber),
		ledger.SourceTypeSalesInvoice,
		invoice.ID,
		entries,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build COGS voucher: %w", err)
	}

	if err := repos.Vouchers().Save(ctx, voucher); err != nil {
		return nil, fmt.Errorf("failed to save COGS voucher: %w", err)
	}

	h.logger.Info("COGS voucher posted",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("voucher_number", voucherNumber),
		zap.Int("cost_lines", len(shares)),
	)

	return voucher, nil
}

// Ensure InvoiceCreatedHandler implements shared.EventHandler
var _ shared.EventHandler = (*InvoiceCreatedHandler)(nil)
