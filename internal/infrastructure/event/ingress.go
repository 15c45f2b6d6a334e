package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/bizcentral/backend/internal/domain/trade"
)

// Collections whose document changes this service consumes
const (
	CollectionSalesOrders   = "sales_orders"
	CollectionSalesInvoices = "sales_invoices"
)

// Change types carried by a document notification
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// DocumentNotification is the wire envelope for one document change from the
// upstream application store. Before and After are raw snapshots of the
// document; either may be absent depending on the change type.
type DocumentNotification struct {
	NotificationID string          `json:"notification_id" validate:"required"`
	Collection     string          `json:"collection" validate:"required"`
	ChangeType     string          `json:"change_type" validate:"required,oneof=created updated deleted"`
	DocumentID     string          `json:"document_id" validate:"required,uuid"`
	OccurredAt     time.Time       `json:"occurred_at"`
	Before         json.RawMessage `json:"before,omitempty"`
	After          json.RawMessage `json:"after,omitempty"`
}

// salesOrderDocument is the validated shape of a sales order snapshot.
// Only the fields this service reacts to are declared; unknown fields in
// the source document are ignored.
type salesOrderDocument struct {
	CustomerID      string `json:"customer_id" validate:"required,uuid"`
	CustomerName    string `json:"customer_name" validate:"required"`
	Status          string `json:"status" validate:"required,oneof=CREATED CONFIRMED SHIPPED DELIVERED CANCELED"`
	PaymentReceived string `json:"payment_received" validate:"omitempty,numeric"`
	PartnerID       string `json:"partner_id" validate:"omitempty,uuid"`
	OrderNumber     string `json:"order_number"`
}

// salesInvoiceDocument is the validated shape of a sales invoice snapshot.
type salesInvoiceDocument struct {
	CustomerID   string `json:"customer_id" validate:"required,uuid"`
	CustomerName string `json:"customer_name" validate:"required"`
	GrandTotal   string `json:"grand_total" validate:"required,numeric"`
}

// Codec turns validated document notifications into typed domain events.
// Malformed or incomplete documents are rejected outright; the service
// never acts on a snapshot it could not validate.
type Codec struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCodec creates a new ingress codec
func NewCodec(log *zap.Logger) *Codec {
	return &Codec{
		validate: validator.New(),
		logger:   log,
	}
}

// Decode maps one document notification onto zero or more domain events.
// A change the service does not care about (unknown collection, deletes,
// updates with no tracked transition) decodes to an empty slice, not an
// error.
func (c *Codec) Decode(raw []byte) ([]shared.DomainEvent, error) {
	var n DocumentNotification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("malformed notification: %w", err)
	}
	if err := c.validate.Struct(&n); err != nil {
		return nil, fmt.Errorf("invalid notification envelope: %w", err)
	}

	switch n.Collection {
	case CollectionSalesOrders:
		return c.decodeSalesOrder(&n)
	case CollectionSalesInvoices:
		return c.decodeSalesInvoice(&n)
	default:
		c.logger.Debug("ignoring notification for untracked collection",
			zap.String("collection", n.Collection),
			zap.String("notification_id", n.NotificationID),
		)
		return nil, nil
	}
}

func (c *Codec) decodeSalesOrder(n *DocumentNotification) ([]shared.DomainEvent, error) {
	switch n.ChangeType {
	case ChangeCreated:
		var doc salesOrderDocument
		if err := c.unmarshalDocument(n.After, &doc); err != nil {
			return nil, fmt.Errorf("sales order %s: %w", n.DocumentID, err)
		}
		orderID, err := uuid.Parse(n.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("sales order %s: bad document id: %w", n.DocumentID, err)
		}
		ev := &trade.SalesOrderCreatedEvent{
			BaseDomainEvent: shared.NewBaseDomainEventAt(
				trade.EventTypeSalesOrderCreated, trade.AggregateTypeSalesOrder, orderID, n.OccurredAt),
			OrderID:      orderID,
			CustomerID:   mustUUID(doc.CustomerID),
			CustomerName: doc.CustomerName,
		}
		ev.ID = deterministicEventID(n, trade.EventTypeSalesOrderCreated)
		return []shared.DomainEvent{ev}, nil

	case ChangeUpdated:
		var before, after salesOrderDocument
		if err := c.unmarshalDocument(n.Before, &before); err != nil {
			return nil, fmt.Errorf("sales order %s (before): %w", n.DocumentID, err)
		}
		if err := c.unmarshalDocument(n.After, &after); err != nil {
			return nil, fmt.Errorf("sales order %s (after): %w", n.DocumentID, err)
		}
		// The only update this service reacts to is the first transition
		// into Delivered.
		if before.Status == string(trade.OrderStatusDelivered) || after.Status != string(trade.OrderStatusDelivered) {
			return nil, nil
		}
		orderID, err := uuid.Parse(n.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("sales order %s: bad document id: %w", n.DocumentID, err)
		}
		ev := &trade.SalesOrderDeliveredEvent{
			BaseDomainEvent: shared.NewBaseDomainEventAt(
				trade.EventTypeSalesOrderDelivered, trade.AggregateTypeSalesOrder, orderID, n.OccurredAt),
			OrderID:        orderID,
			OrderNumber:    after.OrderNumber,
			PreviousStatus: trade.OrderStatus(before.Status),
		}
		if after.PartnerID != "" {
			partnerID, perr := uuid.Parse(after.PartnerID)
			if perr != nil {
				return nil, fmt.Errorf("sales order %s: bad partner id: %w", n.DocumentID, perr)
			}
			ev.PartnerID = &partnerID
		}
		ev.ID = deterministicEventID(n, trade.EventTypeSalesOrderDelivered)
		return []shared.DomainEvent{ev}, nil

	default:
		return nil, nil
	}
}

func (c *Codec) decodeSalesInvoice(n *DocumentNotification) ([]shared.DomainEvent, error) {
	if n.ChangeType != ChangeCreated {
		return nil, nil
	}
	var doc salesInvoiceDocument
	if err := c.unmarshalDocument(n.After, &doc); err != nil {
		return nil, fmt.Errorf("sales invoice %s: %w", n.DocumentID, err)
	}
	invoiceID, err := uuid.Parse(n.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("sales invoice %s: bad document id: %w", n.DocumentID, err)
	}
	ev := &trade.SalesInvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEventAt(
			trade.EventTypeSalesInvoiceCreated, trade.AggregateTypeSalesInvoice, invoiceID, n.OccurredAt),
		InvoiceID:    invoiceID,
		CustomerID:   mustUUID(doc.CustomerID),
		CustomerName: doc.CustomerName,
	}
	ev.ID = deterministicEventID(n, trade.EventTypeSalesInvoiceCreated)
	return []shared.DomainEvent{ev}, nil
}

// unmarshalDocument parses and validates one document snapshot
func (c *Codec) unmarshalDocument(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return fmt.Errorf("document snapshot is missing")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("malformed document snapshot: %w", err)
	}
	if err := c.validate.Struct(out); err != nil {
		return fmt.Errorf("document failed validation: %w", err)
	}
	return nil
}

// deterministicEventID derives the event ID from the notification identity
// so a redelivered notification decodes to the same event ID and the
// idempotency layers can recognize it.
func deterministicEventID(n *DocumentNotification, eventType string) uuid.UUID {
	name := fmt.Sprintf("%s:%s:%s", n.NotificationID, n.DocumentID, eventType)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
}

// mustUUID parses an ID that already passed struct validation
func mustUUID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}
