package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	clientctrl "smaug/internal/client"
	"smaug/internal/metrics"
	orderctrl "smaug/internal/order/controller"
	productctrl "smaug/internal/product"
	stockctrl "smaug/internal/stock/controller"
	supplierctrl "smaug/internal/supplier"
)

func NewRouter(
	clients *clientctrl.Controller,
	suppliers *supplierctrl.Controller,
	products *productctrl.Controller,
	stock *stockctrl.StockController,
	orders *orderctrl.OrderController,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/clientes", func(r chi.Router) {
		r.Get("/", clients.HandleList)
		r.Post("/", clients.HandleCreate)
		r.Get("/{id}", clients.HandleGet)
		r.Put("/{id}", clients.HandleUpdate)
		r.Delete("/{id}", clients.HandleDelete)
	})

	r.Route("/fornecedores", func(r chi.Router) {
		r.Get("/", suppliers.HandleList)
		r.Post("/", suppliers.HandleCreate)
		r.Get("/{id}", suppliers.HandleGet)
		r.Put("/{id}", suppliers.HandleUpdate)
		r.Delete("/{id}", suppliers.HandleDelete)
	})

	r.Route("/produtos", func(r chi.Router) {
		r.Get("/", products.HandleList)
		r.Post("/", products.HandleCreate)
		r.Get("/{id}", products.HandleGet)
		r.Put("/{id}", products.HandleUpdate)
		r.Delete("/{id}", products.HandleDelete)
	})

	r.Route("/estoque", func(r chi.Router) {
		r.Post("/entrada", stock.HandleEntry)
		r.Post("/saida", stock.HandleExit)
		r.Get("/saldo/{produtoId}", stock.HandleBalance)
	})

	r.Route("/pedidos", func(r chi.Router) {
		r.Post("/criar", orders.HandleCreate)
		r.Get("/listar", orders.HandleList)
		r.Get("/{id}", orders.HandleGet)
		r.Put("/{id}/processar", orders.HandleProcess)
		r.Put("/{id}/concluir", orders.HandleComplete)
		r.Put("/{id}/cancelar", orders.HandleCancel)
		r.Get("/cliente/{clienteId}", orders.HandleListByClient)
		r.Get("/status/{status}", orders.HandleListByStatus)
	})

	logger.Info("router configured")
	return r
}
