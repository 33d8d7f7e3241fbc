package domain

import (
	"fmt"
	"time"

	"smaug/internal/errors"
)

type OrderStatus string

const (
	OrderStatusAberto      OrderStatus = "ABERTO"
	OrderStatusProcessando OrderStatus = "PROCESSANDO"
	OrderStatusConcluido   OrderStatus = "CONCLUIDO"
	OrderStatusCancelado   OrderStatus = "CANCELADO"
)

// OrderStatuses lists every valid status, in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusAberto,
	OrderStatusProcessando,
	OrderStatusConcluido,
	OrderStatusCancelado,
}

// ParseOrderStatus resolves a status token from a request path.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, status := range OrderStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

type Order struct {
	ID         int64
	ClientID   int64
	ClientName string
	CreatedAt  time.Time
	Status     OrderStatus
	Total      float64
	Lines      []OrderLine
}

// OrderLine belongs to exactly one order. UnitPrice is the price agreed at
// creation time, not the live catalog price.
type OrderLine struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   float64
}

func (l OrderLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// ComputeTotal sums the line subtotals. Called once at creation; the stored
// total is never recomputed afterwards.
func (o *Order) ComputeTotal() float64 {
	total := 0.0
	for _, line := range o.Lines {
		total += line.Subtotal()
	}
	return total
}

// Process moves ABERTO -> PROCESSANDO.
func (o *Order) Process() error {
	if o.Status != OrderStatusAberto {
		return errors.NewInvalidTransitionError(
			"apenas pedidos em aberto podem ser processados", string(o.Status))
	}
	o.Status = OrderStatusProcessando
	return nil
}

// Complete moves PROCESSANDO -> CONCLUIDO. The stock decrement side effect
// is the workflow service's responsibility; this only guards the transition.
func (o *Order) Complete() error {
	if o.Status != OrderStatusProcessando {
		return errors.NewInvalidTransitionError(
			"apenas pedidos em processamento podem ser concluídos", string(o.Status))
	}
	o.Status = OrderStatusConcluido
	return nil
}

// Cancel moves ABERTO or PROCESSANDO -> CANCELADO. Terminal states stay put.
func (o *Order) Cancel() error {
	switch o.Status {
	case OrderStatusConcluido:
		return errors.NewInvalidTransitionError(
			"pedidos concluídos não podem ser cancelados", string(o.Status))
	case OrderStatusCancelado:
		return errors.NewInvalidTransitionError(
			"pedido já está cancelado", string(o.Status))
	}
	o.Status = OrderStatusCancelado
	return nil
}

func (o *Order) String() string {
	return fmt.Sprintf("Order{id=%d, client=%d, status=%s, total=%.2f, lines=%d}",
		o.ID, o.ClientID, o.Status, o.Total, len(o.Lines))
}
