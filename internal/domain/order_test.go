package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smaug/internal/errors"
)

func TestOrderLine_Subtotal(t *testing.T) {
	line := OrderLine{ProductID: 1, Quantity: 2, UnitPrice: 10.50}

	assert.Equal(t, 21.00, line.Subtotal())
}

func TestOrder_ComputeTotal(t *testing.T) {
	order := Order{
		Lines: []OrderLine{
			{ProductID: 1, Quantity: 2, UnitPrice: 10.50},
			{ProductID: 2, Quantity: 3, UnitPrice: 5.00},
		},
	}

	assert.Equal(t, 36.00, order.ComputeTotal())
}

func TestOrder_ComputeTotal_NoLines(t *testing.T) {
	order := Order{}

	assert.Equal(t, 0.0, order.ComputeTotal())
}

func TestOrder_Process_FromAberto(t *testing.T) {
	order := Order{ID: 1, Status: OrderStatusAberto}

	err := order.Process()

	require.NoError(t, err)
	assert.Equal(t, OrderStatusProcessando, order.Status)
}

func TestOrder_Process_Twice(t *testing.T) {
	order := Order{ID: 1, Status: OrderStatusAberto}

	require.NoError(t, order.Process())
	err := order.Process()

	ite, ok := errors.IsInvalidTransitionError(err)
	require.True(t, ok)
	assert.Equal(t, string(OrderStatusProcessando), ite.Status)
	assert.Equal(t, OrderStatusProcessando, order.Status, "status must stay unchanged on rejected transition")
}

func TestOrder_Complete_FromProcessando(t *testing.T) {
	order := Order{ID: 1, Status: OrderStatusProcessando}

	err := order.Complete()

	require.NoError(t, err)
	assert.Equal(t, OrderStatusConcluido, order.Status)
}

func TestOrder_Complete_FromAberto(t *testing.T) {
	order := Order{ID: 1, Status: OrderStatusAberto}

	err := order.Complete()

	_, ok := errors.IsInvalidTransitionError(err)
	assert.True(t, ok)
	assert.Equal(t, OrderStatusAberto, order.Status)
}

func TestOrder_Cancel_FromAberto(t *testing.T) {
	order := Order{ID: 1, Status: OrderStatusAberto}

	require.NoError(t, order.Cancel())
	assert.Equal(t, OrderStatusCancelado, order.Status)
}

func TestOrder_Cancel_FromProcessando(t *testing.T) {
	order := Order{ID: 1, Status: OrderStatusProcessando}

	require.NoError(t, order.Cancel())
	assert.Equal(t, OrderStatusCancelado, order.Status)
}

func TestOrder_Cancel_FromConcluido(t *testing.T) {
	order := Order{ID: 1, Status: OrderStatusConcluido}

	err := order.Cancel()

	_, ok := errors.IsInvalidTransitionError(err)
	assert.True(t, ok)
	assert.Equal(t, OrderStatusConcluido, order.Status)
}

func TestOrder_Cancel_FromCancelado(t *testing.T) {
	order := Order{ID: 1, Status: OrderStatusCancelado}

	err := order.Cancel()

	_, ok := errors.IsInvalidTransitionError(err)
	assert.True(t, ok)
}

func TestOrder_NoTransitionOutOfTerminalStates(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusConcluido, OrderStatusCancelado} {
		order := Order{ID: 1, Status: status}

		assert.Error(t, order.Process(), "process from %s", status)
		assert.Error(t, order.Complete(), "complete from %s", status)
		assert.Equal(t, status, order.Status)
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, ok := ParseOrderStatus("PROCESSANDO")
	require.True(t, ok)
	assert.Equal(t, OrderStatusProcessando, status)

	_, ok = ParseOrderStatus("ENVIADO")
	assert.False(t, ok)

	_, ok = ParseOrderStatus("")
	assert.False(t, ok)
}

func TestStockRecord_CanDecrease(t *testing.T) {
	record := StockRecord{ProductID: 1, Quantity: 5}

	assert.True(t, record.CanDecrease(5))
	assert.True(t, record.CanDecrease(1))
	assert.False(t, record.CanDecrease(6))
}

func TestOrder_String(t *testing.T) {
	order := Order{
		ID:        7,
		ClientID:  3,
		CreatedAt: time.Now(),
		Status:    OrderStatusAberto,
		Total:     21.00,
		Lines:     []OrderLine{{ProductID: 1, Quantity: 2, UnitPrice: 10.50}},
	}

	assert.Equal(t, "Order{id=7, client=3, status=ABERTO, total=21.00, lines=1}", order.String())
}
