package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizcentral/backend/internal/domain/partner"
	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/bizcentral/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrPartnerNotConfigured indicates the order references a partner that
// does not exist. Like a missing chart-of-accounts entry this is a fatal
// configuration error for the invocation, not a skippable condition.
var ErrPartnerNotConfigured = shared.NewDomainError("PARTNER_NOT_CONFIGURED", "Order references a partner with no commission configuration")

// OrderDeliveredHandler reacts to the first transition of a sales order
// into Delivered: it computes the partner's commission from the category
// rate matrix and atomically credits the partner wallet exactly once per
// order.
type OrderDeliveredHandler struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewOrderDeliveredHandler creates a new handler for order delivery events
func NewOrderDeliveredHandler(scope TransactionScope, logger *zap.Logger) *OrderDeliveredHandler {
	return &OrderDeliveredHandler{
		scope:  scope,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderDeliveredHandler) EventTypes() []string {
	return []string{trade.EventTypeSalesOrderDelivered}
}

// Handle processes a SalesOrderDeliveredEvent
func (h *OrderDeliveredHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	deliveredEvent, ok := event.(*trade.SalesOrderDeliveredEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeSalesOrderDelivered, event.EventType())
	}

	return h.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByID(ctx, deliveredEvent.OrderID)
		if err != nil {
			return fmt.Errorf("failed to load order %s: %w", deliveredEvent.OrderID, err)
		}

		// Field-presence guard first: a stamped commission means an earlier
		// delivery's effects are already committed.
		if order.CommissionApplied() {
			h.logger.Info("commission already applied, skipping",
				zap.String("order_id", order.ID.String()),
				zap.String("order_number", order.OrderNumber),
			)
			return nil
		}

		fresh, err := repos.ProcessedEvents().MarkProcessed(ctx, deliveredEvent.EventID().String(), HandlerOrderDelivered)
		if err != nil {
			return fmt.Errorf("failed to mark event processed: %w", err)
		}
		if !fresh {
			h.logger.Warn("duplicate delivery of order delivered event, skipping",
				zap.String("event_id", deliveredEvent.EventID().String()),
				zap.String("order_id", order.ID.String()),
			)
			return nil
		}

		if order.PartnerID == nil {
			h.logger.Debug("order has no referring partner, no commission to accrue",
				zap.String("order_id", order.ID.String()),
			)
			return nil
		}

		// Belt and braces with the field guard: the accrual record itself
		// is unique per order.
		accrued, err := repos.WalletTransactions().ExistsByOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to check existing accrual: %w", err)
		}
		if accrued {
			h.logger.Warn("wallet accrual already exists for order, skipping",
				zap.String("order_id", order.ID.String()),
			)
			return nil
		}

		p, err := repos.Partners().FindByID(ctx, *order.PartnerID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				h.logger.Error("order references a missing partner",
					zap.String("order_id", order.ID.String()),
					zap.String("partner_id", order.PartnerID.String()),
				)
				return ErrPartnerNotConfigured
			}
			return fmt.Errorf("failed to load partner %s: %w", order.PartnerID, err)
		}

		total := decimal.Zero
		for _, line := range order.Lines {
			// Categories absent from the matrix contribute zero, never an error.
			total = total.Add(p.CommissionOn(line.Category, line.UnitPrice, line.Quantity))
		}

		if !total.IsPositive() {
			h.logger.Info("computed commission is zero, nothing to accrue",
				zap.String("order_id", order.ID.String()),
				zap.String("partner_id", p.ID.String()),
			)
			return nil
		}

		wallet, err := repos.Wallets().FindByPartner(ctx, p.ID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("failed to load partner wallet: %w", err)
			}
			wallet, err = partner.NewWallet(p.ID)
			if err != nil {
				return fmt.Errorf("failed to create partner wallet: %w", err)
			}
		}

		balanceBefore := wallet.CommissionPayable
		if err := wallet.Credit(total); err != nil {
			return fmt.Errorf("failed to credit wallet: %w", err)
		}

		walletTx, err := partner.NewWalletTransaction(p.ID, order.ID, order.OrderNumber, total, balanceBefore, wallet.CommissionPayable)
		if err != nil {
			return fmt.Errorf("failed to build wallet transaction: %w", err)
		}

		if err := repos.Wallets().Save(ctx, wallet); err != nil {
			return fmt.Errorf("failed to save wallet: %w", err)
		}
		if err := repos.WalletTransactions().Save(ctx, walletTx); err != nil {
			return fmt.Errorf("failed to save wallet transaction: %w", err)
		}

		if err := order.ApplyCommission(total); err != nil {
			return fmt.Errorf("failed to stamp commission on order: %w", err)
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}

		h.logger.Info("partner commission accrued",
			zap.String("order_id", order.ID.String()),
			zap.String("order_number", order.OrderNumber),
			zap.String("partner_id", p.ID.String()),
			zap.String("commission", total.String()),
			zap.String("wallet_balance", wallet.CommissionPayable.String()),
		)

		return nil
	})
}

// Ensure OrderDeliveredHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderDeliveredHandler)(nil)
