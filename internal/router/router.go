package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/go-rental-marketplace/internal/api/auth"
	"github.com/FACorreiaa/go-rental-marketplace/internal/container"
	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// SetupRouter wires the HTTP surface. Server-wide middleware (requestID,
// logger, recoverer) are applied before mounting this router in main.go.
func SetupRouter(c *container.Container) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	authenticate := auth.Authenticate(c.Logger, c.Config.JWT)

	r.Route("/api", func(r chi.Router) {

		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", c.AuthHandler.Register)
			r.Post("/auth/login", c.AuthHandler.Login)
			r.Post("/auth/logout", c.AuthHandler.Logout)

			r.Get("/properties", c.PropertyHandler.List)
			r.Get("/properties/{id}", c.PropertyHandler.Get)

			r.Get("/users", c.UserHandler.ListByRole)
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/auth/me", c.AuthHandler.GetMe)
			r.Put("/auth/profile", c.AuthHandler.UpdateProfile)
			r.Put("/auth/password", c.AuthHandler.UpdatePassword)
			r.Delete("/auth/account", c.AuthHandler.DeleteAccount)

			r.Post("/properties", c.PropertyHandler.Create)
			r.Put("/properties/{id}", c.PropertyHandler.Update)
			r.Delete("/properties/{id}", c.PropertyHandler.Delete)

			r.Get("/services", c.ServicesHandler.List)
			r.Post("/services", c.ServicesHandler.Create)
			r.Get("/services/{id}", c.ServicesHandler.Get)
			r.Put("/services/{id}", c.ServicesHandler.Update)
			r.Delete("/services/{id}", c.ServicesHandler.Delete)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(auth.RequireRole(c.Logger, types.RoleAdmin))

			r.Get("/allusers", c.UserHandler.ListAll)
		})
	})

	return r
}
