package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smaug/internal/domain"
	"smaug/internal/dto"
	apperrors "smaug/internal/errors"
)

type mockOrderService struct {
	CreateFunc       func(ctx context.Context, req dto.PedidoRequest) (*domain.Order, error)
	ProcessFunc      func(ctx context.Context, orderID int64) (*domain.Order, error)
	CompleteFunc     func(ctx context.Context, orderID int64) (*domain.Order, error)
	CancelFunc       func(ctx context.Context, orderID int64) (*domain.Order, error)
	GetByIDFunc      func(ctx context.Context, orderID int64) (*domain.Order, error)
	ListAllFunc      func(ctx context.Context, page, size int) ([]domain.Order, int64, error)
	ListByClientFunc func(ctx context.Context, clientID int64) ([]domain.Order, error)
	ListByStatusFunc func(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
}

func (m *mockOrderService) Create(ctx context.Context, req dto.PedidoRequest) (*domain.Order, error) {
	return m.CreateFunc(ctx, req)
}

func (m *mockOrderService) Process(ctx context.Context, orderID int64) (*domain.Order, error) {
	return m.ProcessFunc(ctx, orderID)
}

func (m *mockOrderService) Complete(ctx context.Context, orderID int64) (*domain.Order, error) {
	return m.CompleteFunc(ctx, orderID)
}

func (m *mockOrderService) Cancel(ctx context.Context, orderID int64) (*domain.Order, error) {
	return m.CancelFunc(ctx, orderID)
}

func (m *mockOrderService) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	return m.GetByIDFunc(ctx, orderID)
}

func (m *mockOrderService) ListAll(ctx context.Context, page, size int) ([]domain.Order, int64, error) {
	return m.ListAllFunc(ctx, page, size)
}

func (m *mockOrderService) ListByClient(ctx context.Context, clientID int64) ([]domain.Order, error) {
	return m.ListByClientFunc(ctx, clientID)
}

func (m *mockOrderService) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return m.ListByStatusFunc(ctx, status)
}

func newTestRouter(svc OrderService) http.Handler {
	ctrl := NewOrderController(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Route("/pedidos", func(r chi.Router) {
		r.Post("/criar", ctrl.HandleCreate)
		r.Get("/listar", ctrl.HandleList)
		r.Get("/{id}", ctrl.HandleGet)
		r.Put("/{id}/processar", ctrl.HandleProcess)
		r.Put("/{id}/concluir", ctrl.HandleComplete)
		r.Put("/{id}/cancelar", ctrl.HandleCancel)
		r.Get("/cliente/{clienteId}", ctrl.HandleListByClient)
		r.Get("/status/{status}", ctrl.HandleListByStatus)
	})
	return r
}

func TestHandleCreate_Created(t *testing.T) {
	svc := &mockOrderService{
		CreateFunc: func(ctx context.Context, req dto.PedidoRequest) (*domain.Order, error) {
			return &domain.Order{
				ID:       10,
				ClientID: req.ClientID,
				Status:   domain.OrderStatusAberto,
				Total:    21.00,
				Lines: []domain.OrderLine{
					{ID: 1, OrderID: 10, ProductID: 1, Quantity: 2, UnitPrice: 10.50},
				},
			}, nil
		},
	}

	body := `{"clienteId":7,"itens":[{"produtoId":1,"quantidade":2,"precoUnitario":10.50}]}`
	req := httptest.NewRequest(http.MethodPost, "/pedidos/criar", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.PedidoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "ABERTO", resp.Status)
	assert.InDelta(t, 21.00, resp.Total, 0.001)
	require.Len(t, resp.Items, 1)
	assert.InDelta(t, 21.00, resp.Items[0].Subtotal, 0.001)
}

func TestHandleCreate_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/pedidos/criar", strings.NewReader(`{invalid`))
	rec := httptest.NewRecorder()

	newTestRouter(&mockOrderService{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreate_ValidationDetails(t *testing.T) {
	body := `{"clienteId":0,"itens":[{"produtoId":0,"quantidade":0,"precoUnitario":-1}]}`
	req := httptest.NewRequest(http.MethodPost, "/pedidos/criar", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newTestRouter(&mockOrderService{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error   string                       `json:"error"`
		Details []apperrors.ValidationDetail `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
	assert.Len(t, resp.Details, 4)
}

func TestHandleCreate_ZeroUnitPriceRejected(t *testing.T) {
	svc := &mockOrderService{
		CreateFunc: func(ctx context.Context, req dto.PedidoRequest) (*domain.Order, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	body := `{"clienteId":7,"itens":[{"produtoId":1,"quantidade":2,"precoUnitario":0}]}`
	req := httptest.NewRequest(http.MethodPost, "/pedidos/criar", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Details []apperrors.ValidationDetail `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "itens[0].precoUnitario", resp.Details[0].Field)
}

func TestHandleProcess_InvalidTransition(t *testing.T) {
	svc := &mockOrderService{
		ProcessFunc: func(ctx context.Context, orderID int64) (*domain.Order, error) {
			return nil, apperrors.NewInvalidTransitionError(
				"apenas pedidos em aberto podem ser processados", "CONCLUIDO")
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/pedidos/10/processar", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_TRANSITION", resp["error"])
	assert.Equal(t, "CONCLUIDO", resp["status"])
}

func TestHandleComplete_InsufficientStock(t *testing.T) {
	svc := &mockOrderService{
		CompleteFunc: func(ctx context.Context, orderID int64) (*domain.Order, error) {
			return nil, apperrors.NewInsufficientStockError(
				"estoque insuficiente para o produto: Caneta Azul", 1, "Caneta Azul")
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/pedidos/10/concluir", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INSUFFICIENT_STOCK", resp["error"])
}

func TestHandleComplete_Deadlock(t *testing.T) {
	svc := &mockOrderService{
		CompleteFunc: func(ctx context.Context, orderID int64) (*domain.Order, error) {
			return nil, apperrors.NewDeadlockError("max retries exceeded")
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/pedidos/10/concluir", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleGet_NotFound(t *testing.T) {
	svc := &mockOrderService{
		GetByIDFunc: func(ctx context.Context, orderID int64) (*domain.Order, error) {
			return nil, apperrors.NewNotFoundError("pedido não encontrado")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/pedidos/99", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGet_InvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/pedidos/abc", nil)
	rec := httptest.NewRecorder()

	newTestRouter(&mockOrderService{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleList_PageMetadata(t *testing.T) {
	svc := &mockOrderService{
		ListAllFunc: func(ctx context.Context, page, size int) ([]domain.Order, int64, error) {
			return []domain.Order{{ID: 5}, {ID: 4}}, 5, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/pedidos/listar?page=1&size=2", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Content       []dto.PedidoResponse `json:"content"`
		Page          int                  `json:"page"`
		Size          int                  `json:"size"`
		TotalElements int64                `json:"totalElements"`
		TotalPages    int                  `json:"totalPages"`
		First         bool                 `json:"first"`
		Last          bool                 `json:"last"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Content, 2)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, int64(5), resp.TotalElements)
	assert.Equal(t, 3, resp.TotalPages)
	assert.False(t, resp.First)
	assert.False(t, resp.Last)
}

func TestHandleList_EmptyPageIsOK(t *testing.T) {
	svc := &mockOrderService{
		ListAllFunc: func(ctx context.Context, page, size int) ([]domain.Order, int64, error) {
			return nil, 0, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/pedidos/listar", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"content":[]`)
}

func TestHandleList_InvalidSize(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/pedidos/listar?size=500", nil)
	rec := httptest.NewRecorder()

	newTestRouter(&mockOrderService{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListByStatus_InvalidStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/pedidos/status/ENVIADO", nil)
	rec := httptest.NewRecorder()

	newTestRouter(&mockOrderService{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListByStatus_OK(t *testing.T) {
	svc := &mockOrderService{
		ListByStatusFunc: func(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
			return []domain.Order{{ID: 1, Status: status}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/pedidos/status/ABERTO", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.PedidoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "ABERTO", resp[0].Status)
}
