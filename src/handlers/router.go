package handlers

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter assembles the API routes. Middleware is wired by the caller
// (main.go in production, nothing in tests).
func NewRouter(accounts *AccountHandler, products *ProductHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/chart-of-accounts", func(r chi.Router) {
			r.Get("/", accounts.ListChartOfAccounts)
			r.Post("/", accounts.CreateChartOfAccount)
			r.Get("/{code}", accounts.GetChartOfAccount)
			r.Put("/{code}", accounts.UpdateChartOfAccount)
			r.Delete("/{code}", accounts.DeleteChartOfAccount)
		})

		r.Route("/ledger-accounts", func(r chi.Router) {
			r.Get("/", accounts.ListLedgerAccounts)
			r.Post("/", accounts.CreateLedgerAccount)
			r.Get("/compatible", accounts.CompatibleLedgerAccounts)
			r.Get("/{id}", accounts.GetLedgerAccount)
			r.Put("/{id}", accounts.UpdateLedgerAccount)
			r.Delete("/{id}", accounts.DeleteLedgerAccount)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.ListProducts)
			r.Post("/", products.CreateProduct)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", products.GetProduct)
				r.Put("/", products.UpdateProduct)
				r.Delete("/", products.DeleteProduct)
				r.Get("/overview", products.Overview)

				r.Route("/rates", func(r chi.Router) {
					r.Get("/", products.ListRates)
					r.Post("/", products.CreateRate)
					r.Put("/{entityId}", products.UpdateRate)
					r.Delete("/{entityId}", products.DeleteRate)
				})
				r.Route("/fees", func(r chi.Router) {
					r.Get("/", products.ListFees)
					r.Post("/", products.CreateFee)
					r.Put("/{entityId}", products.UpdateFee)
					r.Delete("/{entityId}", products.DeleteFee)
				})
				r.Route("/limits", func(r chi.Router) {
					r.Get("/", products.ListLimits)
					r.Post("/", products.CreateLimit)
					r.Put("/{entityId}", products.UpdateLimit)
					r.Delete("/{entityId}", products.DeleteLimit)
				})
				r.Route("/periods", func(r chi.Router) {
					r.Get("/", products.ListPeriods)
					r.Post("/", products.CreatePeriod)
					r.Put("/{entityId}", products.UpdatePeriod)
					r.Delete("/{entityId}", products.DeletePeriod)
				})
				r.Route("/penalties", func(r chi.Router) {
					r.Get("/", products.ListPenalties)
					r.Post("/", products.CreatePenalty)
					r.Put("/{entityId}", products.UpdatePenalty)
					r.Delete("/{entityId}", products.DeletePenalty)
				})
				r.Route("/eligibility-rules", func(r chi.Router) {
					r.Get("/", products.ListEligibilityRules)
					r.Post("/", products.CreateEligibilityRule)
					r.Put("/{entityId}", products.UpdateEligibilityRule)
					r.Delete("/{entityId}", products.DeleteEligibilityRule)
				})
				r.Route("/gl-mappings", func(r chi.Router) {
					r.Get("/", products.ListGLMappings)
					r.Post("/", products.CreateGLMapping)
					r.Put("/{entityId}", products.UpdateGLMapping)
					r.Delete("/{entityId}", products.DeleteGLMapping)
				})
			})
		})
	})

	return r
}
