package finance

import (
	"context"
	"fmt"

	"github.com/bizcentral/backend/internal/domain/ledger"
	"github.com/bizcentral/backend/internal/domain/sequence"
	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/bizcentral/backend/internal/domain/shared/valueobject"
	"github.com/bizcentral/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// Handler names recorded in the processed-events ledger
const (
	HandlerOrderCreated   = "finance.order_created"
	HandlerInvoiceCreated = "finance.invoice_created"
	HandlerOrderDelivered = "finance.order_delivered"
)

// OrderCreatedHandler reacts to SalesOrderCreatedEvent: it assigns the
// sequential order number and, when the order carries an advance payment,
// posts the advance-payment receipt voucher. All reads and writes happen
// in one transaction; redelivered events are no-ops.
type OrderCreatedHandler struct {
	scope     TransactionScope
	resolver  *AccountResolver
	numbering NumberingConfig
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewOrderCreatedHandler creates a new handler for sales order creation events
func NewOrderCreatedHandler(
	scope TransactionScope,
	resolver *AccountResolver,
	numbering NumberingConfig,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderCreatedHandler {
	return &OrderCreatedHandler{
		scope:     scope,
		resolver:  resolver,
		numbering: numbering,
		publisher: publisher,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderCreatedHandler) EventTypes() []string {
	return []string{trade.EventTypeSalesOrderCreated}
}

// Handle processes a SalesOrderCreatedEvent
func (h *OrderCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	createdEvent, ok := event.(*trade.SalesOrderCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeSalesOrderCreated, event.EventType())
	}

	var posted []shared.DomainEvent

	err := h.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// The scope retries on commit conflicts; drop anything collected by
		// a rolled-back attempt.
		posted = posted[:0]

		order, err := repos.Orders().FindByID(ctx, createdEvent.OrderID)
		if err != nil {
			return fmt.Errorf("failed to load order %s: %w", createdEvent.OrderID, err)
		}

		// Idempotency short-circuit: the number field is populated at most
		// once, so a redelivered creation event must become a no-op here.
		if order.NumberAssigned() {
			h.logger.Info("order number already assigned, skipping",
				zap.String("order_id", order.ID.String()),
				zap.String("order_number", order.OrderNumber),
			)
			return nil
		}

		fresh, err := repos.ProcessedEvents().MarkProcessed(ctx, createdEvent.EventID().String(), HandlerOrderCreated)
		if err != nil {
			return fmt.Errorf("failed to mark event processed: %w", err)
		}
		if !fresh {
			h.logger.Warn("duplicate delivery of order created event, skipping",
				zap.String("event_id", createdEvent.EventID().String()),
				zap.String("order_id", order.ID.String()),
			)
			return nil
		}

		seq, err := repos.Sequences().Allocate(ctx, sequence.CounterSalesOrders)
		if err != nil {
			return fmt.Errorf("failed to allocate order sequence: %w", err)
		}
		orderNumber := sequence.FormatDocumentNumber(h.numbering.OrderPrefix, createdEvent.OccurredAt(), seq, h.numbering.Digits)
		if err := order.AssignOrderNumber(orderNumber); err != nil {
			return fmt.Errorf("failed to assign order number: %w", err)
		}

		if order.PaymentReceived.IsPositive() {
			voucher, err := h.postAdvanceReceipt(ctx, repos, order)
			if err != nil {
				return err
			}
			posted = append(posted, voucher.GetDomainEvents()...)
			voucher.ClearDomainEvents()
		}

		if err := repos.Orders().Save(ctx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}

		h.logger.Info("order number assigned",
			zap.String("order_id", order.ID.String()),
			zap.String("order_number", orderNumber),
			zap.Int64("sequence", seq),
		)

		return nil
	})
	if err != nil {
		return err
	}

	h.publishAfterCommit(ctx, posted)

	return nil
}

// postAdvanceReceipt posts the advance-payment voucher for an order that
// carries a non-zero payment at creation. Runs inside the handler's
// transaction; a resolution failure aborts the whole invocation.
func (h *OrderCreatedHandler) postAdvanceReceipt(ctx context.Context, repos TransactionalRepositories, order *trade.SalesOrder) (*ledger.Voucher, error) {
	customerAccountID, err := h.resolver.ResolveForCustomer(ctx, repos, order.CustomerID)
	if err != nil {
		return nil, err
	}
	bankAccountID, err := h.resolver.ResolveByName(ctx, repos, ledger.AccountNameBank)
	if err != nil {
		return nil, err
	}

	entries, err := AdvanceReceiptEntries(bankAccountID, customerAccountID, order.PaymentReceived)
	if err != nil {
		return nil, fmt.Errorf("failed to build advance receipt entries: %w", err)
	}

	voucherSeq, err := repos.Sequences().Allocate(ctx, sequence.CounterVouchers)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate voucher sequence: %w", err)
	}
	voucherNumber := sequence.FormatDocumentNumber(h.numbering.VoucherPrefix, order.CreatedAt, voucherSeq, h.numbering.Digits)

	voucher, err := ledger.NewVoucher(
		voucherNumber,
		ledger.VoucherTypeReceipt,
		order.CreatedAt,
		fmt.Sprintf("Advance payment of %s received against order %s",
			valueobject.NewMoneyINR(order.PaymentReceived), order.OrderNumber),
		ledger.SourceTypeSalesOrder,
		order.ID,
		entries,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build advance receipt voucher: %w", err)
	}

	if err := repos.Vouchers().Save(ctx, voucher); err != nil {
		return nil, fmt.Errorf("failed to save advance receipt voucher: %w", err)
	}

	h.logger.Info("advance payment voucher posted",
		zap.String("order_id", order.ID.String()),
		zap.String("voucher_number", voucherNumber),
		zap.String("amount", order.PaymentReceived.String()),
	)

	return voucher, nil
}

// publishAfterCommit publishes collected domain events once the transaction
// has committed. Publication is best-effort: downstream consumers tolerate
// missing notifications, the committed documents are the source of truth.
func (h *OrderCreatedHandler) publishAfterCommit(ctx context.Context, events []shared.DomainEvent) {
	if h.publisher == nil || len(events) == 0 {
		return
	}
	if err := h.publisher.Publish(ctx, events...); err != nil {
		h.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

// Ensure OrderCreatedHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderCreatedHandler)(nil)
