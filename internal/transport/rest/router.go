package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/vektora/capacity-admin/internal/audit"
	"github.com/vektora/capacity-admin/internal/auth"
	"github.com/vektora/capacity-admin/internal/settings"
	"github.com/vektora/capacity-admin/internal/transport/middleware"
	"github.com/vektora/capacity-admin/internal/transport/swagger"
	"github.com/vektora/capacity-admin/internal/worktype"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, workTypeHandler *worktype.Handler, settingsHandler *settings.Handler, auditHandler *audit.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})

			// Everything below requires an authenticated actor
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				if workTypeHandler != nil {
					pr.Route("/work-types", func(wr chi.Router) {
						wr.Get("/", workTypeHandler.ListWorkTypes)
						wr.Get("/{id}/usage", workTypeHandler.GetWorkTypeUsage)

						// Mutations are admin-only; services re-check
						// the actor role on top of this gate.
						wr.Group(func(mr chi.Router) {
							mr.Use(authHandler.RequireManageConfig())
							mr.Post("/", workTypeHandler.CreateWorkType)
							mr.Patch("/{id}", workTypeHandler.UpdateWorkType)
							mr.Post("/{id}/deactivate", workTypeHandler.DeactivateWorkType)
							mr.Post("/{id}/reactivate", workTypeHandler.ReactivateWorkType)
							mr.Delete("/{id}", workTypeHandler.DeleteWorkType)
						})
					})
				}

				if settingsHandler != nil {
					pr.Route("/settings", func(sr chi.Router) {
						sr.Get("/", settingsHandler.GetSettings)

						sr.Group(func(mr chi.Router) {
							mr.Use(authHandler.RequireManageConfig())
							mr.Patch("/company", settingsHandler.SaveCompanyProfile)
							mr.Patch("/time-entry-rules", settingsHandler.SaveTimeEntryRules)
						})
					})
				}

				if auditHandler != nil {
					pr.Get("/audit", auditHandler.GetHistory)
				}
			})
		}
	})
}
