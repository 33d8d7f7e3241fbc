package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"smaug/internal/domain"
	"smaug/internal/dto"
	apperrors "smaug/internal/errors"
	"smaug/internal/metrics"
	"smaug/internal/pagination"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type OrderService interface {
	Create(ctx context.Context, req dto.PedidoRequest) (*domain.Order, error)
	Process(ctx context.Context, orderID int64) (*domain.Order, error)
	Complete(ctx context.Context, orderID int64) (*domain.Order, error)
	Cancel(ctx context.Context, orderID int64) (*domain.Order, error)
	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)
	ListAll(ctx context.Context, page, size int) ([]domain.Order, int64, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
}

type OrderController struct {
	service OrderService
	logger  *zap.Logger
}

func NewOrderController(service OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{service: service, logger: logger}
}

func (c *OrderController) HandleCreate(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()

	req, ok := c.decodeRequest(w, r)
	if !ok {
		metrics.RecordOrderOperation("create", false)
		return
	}

	order, err := c.service.Create(r.Context(), req)
	if err != nil {
		c.logger.Warn("order creation failed", zap.String("traceId", traceID), zap.Error(err))
		metrics.RecordOrderOperation("create", false)
		c.handleError(w, err)
		return
	}

	c.logger.Info("order created",
		zap.String("traceId", traceID),
		zap.Int64("orderId", order.ID))
	metrics.RecordOrderOperation("create", true)
	c.writeJSON(w, http.StatusCreated, dto.FromOrder(order))
}

func (c *OrderController) HandleProcess(w http.ResponseWriter, r *http.Request) {
	c.handleTransition(w, r, "process", c.service.Process)
}

func (c *OrderController) HandleComplete(w http.ResponseWriter, r *http.Request) {
	c.handleTransition(w, r, "complete", c.service.Complete)
}

func (c *OrderController) HandleCancel(w http.ResponseWriter, r *http.Request) {
	c.handleTransition(w, r, "cancel", c.service.Cancel)
}

func (c *OrderController) handleTransition(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	apply func(ctx context.Context, orderID int64) (*domain.Order, error),
) {
	traceID := uuid.New().String()

	orderID, ok := c.parseID(w, r, "id")
	if !ok {
		metrics.RecordOrderOperation(operation, false)
		return
	}

	order, err := apply(r.Context(), orderID)
	if err != nil {
		c.logger.Warn("order transition failed",
			zap.String("traceId", traceID),
			zap.String("operation", operation),
			zap.Int64("orderId", orderID),
			zap.Error(err))
		metrics.RecordOrderOperation(operation, false)
		c.handleError(w, err)
		return
	}

	c.logger.Info("order transition applied",
		zap.String("traceId", traceID),
		zap.String("operation", operation),
		zap.Int64("orderId", orderID),
		zap.String("status", string(order.Status)))
	metrics.RecordOrderOperation(operation, true)
	c.writeJSON(w, http.StatusOK, dto.FromOrder(order))
}

func (c *OrderController) HandleGet(w http.ResponseWriter, r *http.Request) {
	orderID, ok := c.parseID(w, r, "id")
	if !ok {
		return
	}

	order, err := c.service.GetByID(r.Context(), orderID)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.FromOrder(order))
}

func (c *OrderController) HandleList(w http.ResponseWriter, r *http.Request) {
	page, size, ok := c.parsePageParams(w, r)
	if !ok {
		return
	}

	orders, total, err := c.service.ListAll(r.Context(), page, size)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, pagination.New(dto.FromOrders(orders), page, size, total))
}

func (c *OrderController) HandleListByClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := c.parseID(w, r, "clienteId")
	if !ok {
		return
	}

	orders, err := c.service.ListByClient(r.Context(), clientID)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.FromOrders(orders))
}

func (c *OrderController) HandleListByStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := domain.ParseOrderStatus(chi.URLParam(r, "status"))
	if !ok {
		c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"status inválido, use ABERTO, PROCESSANDO, CONCLUIDO ou CANCELADO")
		return
	}

	orders, err := c.service.ListByStatus(r.Context(), status)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.FromOrders(orders))
}

func (c *OrderController) parseID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", param+" deve ser um inteiro positivo")
		return 0, false
	}
	return id, true
}

func (c *OrderController) parsePageParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	page := 0
	size := defaultPageSize

	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "page deve ser um inteiro não negativo")
			return 0, 0, false
		}
		page = parsed
	}

	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPageSize {
			c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "size deve estar entre 1 e 100")
			return 0, 0, false
		}
		size = parsed
	}

	return page, size, true
}

func (c *OrderController) decodeRequest(w http.ResponseWriter, r *http.Request) (dto.PedidoRequest, bool) {
	var req dto.PedidoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "corpo da requisição deve ser JSON válido")
		return req, false
	}

	var details []apperrors.ValidationDetail
	if req.ClientID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "clienteId",
			Message: "clienteId deve ser um inteiro positivo",
		})
	}
	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "itens",
			Message: "itens não pode estar vazio",
		})
	}
	for i, item := range req.Items {
		prefix := "itens[" + strconv.Itoa(i) + "]."
		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + "produtoId",
				Message: "produtoId deve ser um inteiro positivo",
			})
		}
		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + "quantidade",
				Message: "quantidade deve ser no mínimo 1",
			})
		}
		if item.UnitPrice <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + "precoUnitario",
				Message: "precoUnitario deve ser positivo",
			})
		}
	}
	if len(details) > 0 {
		c.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   "VALIDATION_ERROR",
			"message": "validação falhou",
			"details": details,
		})
		return req, false
	}

	return req, true
}

func (c *OrderController) handleError(w http.ResponseWriter, err error) {
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", nfe.Message)
		return
	}

	if ite, ok := apperrors.IsInvalidTransitionError(err); ok {
		c.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "INVALID_TRANSITION",
			"message": ite.Message,
			"status":  ite.Status,
		})
		return
	}

	// Order completion answers 400 for a short balance; the stock exit
	// endpoint maps the same error to 422.
	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		c.writeError(w, http.StatusBadRequest, "INSUFFICIENT_STOCK", ise.Message)
		return
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   "VALIDATION_ERROR",
			"message": ve.Message,
			"details": ve.Details,
		})
		return
	}

	if de, ok := apperrors.IsDeadlockError(err); ok {
		c.writeError(w, http.StatusConflict, "CONCURRENT_MODIFICATION", de.Message)
		return
	}

	c.logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "erro interno do servidor")
}

func (c *OrderController) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
