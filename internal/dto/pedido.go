package dto

import (
	"time"

	"smaug/internal/domain"
)

type ItemPedidoRequest struct {
	ProductID int64   `json:"produtoId"`
	Quantity  int     `json:"quantidade"`
	UnitPrice float64 `json:"precoUnitario"`
}

type PedidoRequest struct {
	ClientID int64               `json:"clienteId"`
	Items    []ItemPedidoRequest `json:"itens"`
}

type ItemPedidoResponse struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"produtoId"`
	ProductName string  `json:"produtoNome"`
	Quantity    int     `json:"quantidade"`
	UnitPrice   float64 `json:"precoUnitario"`
	Subtotal    float64 `json:"subtotal"`
}

type PedidoResponse struct {
	ID         int64                `json:"id"`
	ClientID   int64                `json:"clienteId"`
	ClientName string               `json:"clienteNome"`
	CreatedAt  time.Time            `json:"dataPedido"`
	Status     string               `json:"status"`
	Total      float64              `json:"total"`
	Items      []ItemPedidoResponse `json:"itens"`
}

func FromOrder(o *domain.Order) PedidoResponse {
	items := make([]ItemPedidoResponse, 0, len(o.Lines))
	for _, line := range o.Lines {
		items = append(items, ItemPedidoResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal(),
		})
	}

	return PedidoResponse{
		ID:         o.ID,
		ClientID:   o.ClientID,
		ClientName: o.ClientName,
		CreatedAt:  o.CreatedAt,
		Status:     string(o.Status),
		Total:      o.Total,
		Items:      items,
	}
}

func FromOrders(orders []domain.Order) []PedidoResponse {
	responses := make([]PedidoResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, FromOrder(&orders[i]))
	}
	return responses
}
