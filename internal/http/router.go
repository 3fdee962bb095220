package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/safespend/internal/http/analytics"
	"github.com/MrJamesThe3rd/safespend/internal/http/category"
	"github.com/MrJamesThe3rd/safespend/internal/http/export"
	"github.com/MrJamesThe3rd/safespend/internal/http/fixedexpense"
	"github.com/MrJamesThe3rd/safespend/internal/http/importcsv"
	"github.com/MrJamesThe3rd/safespend/internal/http/matching"
	"github.com/MrJamesThe3rd/safespend/internal/http/savings"
	"github.com/MrJamesThe3rd/safespend/internal/http/settings"
	"github.com/MrJamesThe3rd/safespend/internal/http/transaction"
)

// Handlers groups the v1 resource handlers mounted by New.
type Handlers struct {
	Transactions  *transaction.Handler
	FixedExpenses *fixedexpense.Handler
	Categories    *category.Handler
	Savings       *savings.Handler
	Analytics     *analytics.Handler
	Settings      *settings.Handler
	Import        *importcsv.Handler
	Matching      *matching.Handler
	Export        *export.Handler
}

func New(allowedOrigins []string, v1 Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Transactions.Routes(r)
		})

		r.Route("/fixed-expenses", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.FixedExpenses.Routes(r)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Categories.Routes(r)
		})

		r.Route("/savings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Savings.Routes(r)
		})

		r.Route("/analytics", v1.Analytics.Routes)

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Settings.Routes(r)
		})

		r.Route("/import", v1.Import.Routes)

		r.Route("/matching", func(r chi.Router) {
			v1.Matching.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Export.Routes(r)
		})
	})

	return router
}
