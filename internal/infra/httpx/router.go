package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
	"github.com/jcmexdev/backoffice-api/internal/core/ports"
	"github.com/jcmexdev/backoffice-api/internal/infra/httpx/middlewares"
)

// NewRouter mounts the back-office API. Every resource route requires a
// verified token; destructive admin operations additionally require the
// admin role.
func NewRouter(handler *Handler, verifier ports.TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	authenticated := middlewares.Authenticate(verifier, writeError)
	adminOnly := middlewares.RequireRole(entity.RoleAdmin, writeError)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"msg": "backoffice API running"})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/", handler.CreateOrder)
		r.Get("/", handler.ListOrders)
		r.Get("/{id}", handler.GetOrderByID)
		r.Put("/{id}", handler.UpdateOrder)
		r.Post("/{id}/cancel", handler.CancelOrder)
		r.With(adminOnly).Delete("/{id}", handler.DeleteOrder)
		r.With(adminOnly).Get("/{id}/events", handler.ListOrderEvents)
	})

	r.Route("/products", func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/", handler.CreateProduct)
		r.Get("/", handler.ListProducts)
		r.Get("/{id}", handler.GetProductByID)
		r.Put("/{id}", handler.UpdateProduct)
		r.With(adminOnly).Delete("/{id}", handler.DeleteProduct)
	})

	r.Route("/clients", func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/", handler.CreateClient)
		r.Get("/", handler.ListClients)
		r.Get("/{id}", handler.GetClientByID)
		r.Put("/{id}", handler.UpdateClient)
		r.With(adminOnly).Delete("/{id}", handler.DeleteClient)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authenticated)
		r.With(adminOnly).Post("/", handler.CreateUser)
	})

	return r
}
