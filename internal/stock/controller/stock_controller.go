package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"smaug/internal/domain"
	apperrors "smaug/internal/errors"
)

type StockService interface {
	Increase(ctx context.Context, productID int64, amount int) (*domain.StockRecord, error)
	Decrease(ctx context.Context, productID int64, amount int) (*domain.StockRecord, error)
	Balance(ctx context.Context, productID int64) (*domain.StockRecord, error)
}

type StockRequest struct {
	ProductID int64 `json:"idProduto"`
	Quantity  int   `json:"quantidade"`
}

type StockResponse struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"produtoId"`
	Quantity  int   `json:"quantidade"`
}

type StockController struct {
	service StockService
	logger  *zap.Logger
}

func NewStockController(service StockService, logger *zap.Logger) *StockController {
	return &StockController{service: service, logger: logger}
}

func (c *StockController) HandleEntry(w http.ResponseWriter, r *http.Request) {
	req, ok := c.decodeRequest(w, r)
	if !ok {
		return
	}

	record, err := c.service.Increase(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toStockResponse(record))
}

func (c *StockController) HandleExit(w http.ResponseWriter, r *http.Request) {
	req, ok := c.decodeRequest(w, r)
	if !ok {
		return
	}

	record, err := c.service.Decrease(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toStockResponse(record))
}

func (c *StockController) HandleBalance(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "produtoId"), 10, 64)
	if err != nil || productID <= 0 {
		c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "produtoId deve ser um inteiro positivo")
		return
	}

	record, balanceErr := c.service.Balance(r.Context(), productID)
	if balanceErr != nil {
		c.handleError(w, balanceErr)
		return
	}

	c.writeJSON(w, http.StatusOK, toStockResponse(record))
}

func (c *StockController) decodeRequest(w http.ResponseWriter, r *http.Request) (StockRequest, bool) {
	var req StockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "corpo da requisição deve ser JSON válido")
		return req, false
	}

	var details []apperrors.ValidationDetail
	if req.ProductID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "idProduto",
			Message: "idProduto deve ser um inteiro positivo",
		})
	}
	if req.Quantity < 1 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantidade",
			Message: "quantidade deve ser no mínimo 1",
		})
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

func (c *StockController) handleError(w http.ResponseWriter, err error) {
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", nfe.Message)
		return
	}

	// The stock exit endpoint rejects a short balance as unprocessable,
	// unlike order completion which answers 400.
	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		c.writeError(w, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", ise.Message)
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

	c.logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "erro interno do servidor")
}

func toStockResponse(record *domain.StockRecord) StockResponse {
	return StockResponse{
		ID:        record.ID,
		ProductID: record.ProductID,
		Quantity:  record.Quantity,
	}
}

func (c *StockController) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

func (c *StockController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
