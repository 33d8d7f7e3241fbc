package supplier

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

type SupplierService interface {
	List(ctx context.Context) ([]domain.Supplier, error)
	Get(ctx context.Context, id int64) (*domain.Supplier, error)
	Create(ctx context.Context, s domain.Supplier) (*domain.Supplier, error)
	Update(ctx context.Context, id int64, s domain.Supplier) (*domain.Supplier, error)
	Delete(ctx context.Context, id int64) error
}

type SupplierRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Document string `json:"documento"`
	Phone    string `json:"telefone"`
	Active   bool   `json:"ativo"`
}

type SupplierResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Document string `json:"documento"`
	Phone    string `json:"telefone"`
	Active   bool   `json:"ativo"`
}

type Controller struct {
	service SupplierService
	logger  *zap.Logger
}

func NewController(service SupplierService, logger *zap.Logger) *Controller {
	return &Controller{service: service, logger: logger}
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	suppliers, err := c.service.List(r.Context())
	if err != nil {
		c.handleError(w, err)
		return
	}

	responses := make([]SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		responses = append(responses, toSupplierResponse(&s))
	}

	c.writeJSON(w, http.StatusOK, responses)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	s, err := c.service.Get(r.Context(), id)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toSupplierResponse(s))
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := c.decodeRequest(w, r)
	if !ok {
		return
	}

	s, err := c.service.Create(r.Context(), toSupplier(req))
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, toSupplierResponse(s))
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

	s, err := c.service.Update(r.Context(), id, toSupplier(req))
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toSupplierResponse(s))
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

func (c *Controller) decodeRequest(w http.ResponseWriter, r *http.Request) (SupplierRequest, bool) {
	var req SupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "corpo da requisição deve ser JSON válido")
		return req, false
	}

	var details []apperrors.ValidationDetail
	if req.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "nome", Message: "nome é obrigatório"})
	}
	if req.Email == "" {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email é obrigatório"})
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

func toSupplier(req SupplierRequest) domain.Supplier {
	return domain.Supplier{
		Name:     req.Name,
		Email:    req.Email,
		Document: req.Document,
		Phone:    req.Phone,
		Active:   req.Active,
	}
}

func toSupplierResponse(s *domain.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:       s.ID,
		Name:     s.Name,
		Email:    s.Email,
		Document: s.Document,
		Phone:    s.Phone,
		Active:   s.Active,
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
