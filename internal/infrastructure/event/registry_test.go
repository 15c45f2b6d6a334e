package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register(t *testing.T) {
	registry := NewHandlerRegistry()

	handler := newBusTestHandler("SalesOrderCreated", "SalesOrderDelivered")
	registry.Register(handler, handler.EventTypes()...)

	assert.Len(t, registry.GetHandlers("SalesOrderCreated"), 1)
	assert.Len(t, registry.GetHandlers("SalesOrderDelivered"), 1)
	assert.Empty(t, registry.GetHandlers("SalesInvoiceCreated"))
}

func TestHandlerRegistry_WildcardReceivesEverything(t *testing.T) {
	registry := NewHandlerRegistry()

	wildcard := newBusTestHandler()
	typed := newBusTestHandler("SalesOrderCreated")
	registry.Register(wildcard)
	registry.Register(typed, "SalesOrderCreated")

	assert.Len(t, registry.GetHandlers("SalesOrderCreated"), 2)
	assert.Len(t, registry.GetHandlers("SalesInvoiceCreated"), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()

	handler := newBusTestHandler("SalesOrderCreated")
	registry.Register(handler, "SalesOrderCreated")
	registry.Unregister(handler)

	assert.Empty(t, registry.GetHandlers("SalesOrderCreated"))
}

func TestHandlerRegistry_GetAllHandlers(t *testing.T) {
	registry := NewHandlerRegistry()

	h1 := newBusTestHandler("SalesOrderCreated", "SalesOrderDelivered")
	h2 := newBusTestHandler()
	registry.Register(h1, h1.EventTypes()...)
	registry.Register(h2)

	all := registry.GetAllHandlers()
	assert.Len(t, all, 2, "handlers registered for several types are listed once")
}
