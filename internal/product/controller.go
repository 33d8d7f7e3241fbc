package product

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

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type ProductRequest struct {
	Name        string  `json:"nome"`
	Description string  `json:"descricao"`
	Barcode     string  `json:"codigoBarras"`
	Price       float64 `json:"preco"`
	SupplierID  int64   `json:"fornecedorId"`
}

type ProductResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nome"`
	Description string  `json:"descricao"`
	Barcode     string  `json:"codigoBarras"`
	Price       float64 `json:"preco"`
	SupplierID  int64   `json:"fornecedorId"`
}

type Controller struct {
	service ProductService
	logger  *zap.Logger
}

func NewController(service ProductService, logger *zap.Logger) *Controller {
	return &Controller{service: service, logger: logger}
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.List(r.Context())
	if err != nil {
		c.handleError(w, err)
		return
	}

	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(&p))
	}

	c.writeJSON(w, http.StatusOK, responses)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	p, err := c.service.Get(r.Context(), id)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := c.decodeRequest(w, r)
	if !ok {
		return
	}

	p, err := c.service.Create(r.Context(), toProduct(req))
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, toProductResponse(p))
}

func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	req, ok := c.decodeRequest(w, r)
	if !ok {
		return
	}

	p, err := c.service.Update(r.Context(), id, toProduct(req))
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		c.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id deve ser um inteiro positivo")
		return 0, false
	}
	return id, true
}

func (c *Controller) decodeRequest(w http.ResponseWriter, r *http.Request) (ProductRequest, bool) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "corpo da requisição deve ser JSON válido")
		return req, false
	}

	var details []apperrors.ValidationDetail
	if req.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "nome", Message: "nome é obrigatório"})
	}
	if req.Price <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "preco", Message: "preço deve ser positivo"})
	}
	if req.SupplierID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "fornecedorId", Message: "fornecedorId deve ser um inteiro positivo"})
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

func (c *Controller) handleError(w http.ResponseWriter, err error) {
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", nfe.Message)
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, http.StatusConflict, "CONFLICT", ce.Message)
		return
	}

	c.logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "erro interno do servidor")
}

func toProduct(req ProductRequest) domain.Product {
	return domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Barcode:     req.Barcode,
		Price:       req.Price,
		SupplierID:  req.SupplierID,
	}
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Barcode:     p.Barcode,
		Price:       p.Price,
		SupplierID:  p.SupplierID,
	}
}

func (c *Controller) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
