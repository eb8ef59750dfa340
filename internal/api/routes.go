package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Divination *DivinationHandler
	Results    *ResultHandler
	Compare    *CompareHandler
	Feedback   *FeedbackHandler
	Analytics  *AnalyticsHandler
	Companies  *CompanyHandler
}

// Mount registers the API routes on r. Owner, when not nil, wraps every
// route so results can be tied to the bearer token's subject.
func (h Handlers) Mount(r chi.Router, owner func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		if owner != nil {
			r.Use(owner)
		}

		r.Route("/divination", func(r chi.Router) {
			r.Post("/numerology", h.Divination.Numerology)
			r.Post("/fourPillars", h.Divination.FourPillars)
			r.Post("/sanmei", h.Divination.Sanmei)
			r.Post("/mbti", h.Divination.MBTI)
			r.Post("/animalFortune", h.Divination.AnimalFortune)
		})

		r.Route("/results", func(r chi.Router) {
			r.Post("/", h.Results.Save)
			r.Get("/", h.Results.List)
			r.Get("/{id}", h.Results.Get)
			r.Delete("/{id}", h.Results.Delete)
			r.Post("/{id}/feedback", h.Feedback.Generate)
		})

		r.Route("/companies", func(r chi.Router) {
			r.Post("/", h.Companies.Create)
			r.Get("/", h.Companies.List)
			r.Get("/{id}", h.Companies.Get)
			r.Post("/{id}/employees", h.Companies.AddEmployee)
			r.Get("/{id}/employees", h.Companies.ListEmployees)
			r.Post("/{id}/employees/{employeeId}/results", h.Companies.LinkResult)
			r.Post("/{id}/compare", h.Companies.Compare)
		})

		r.Post("/compare", h.Compare.Compare)
		r.Get("/analytics", h.Analytics.Summary)
	})
}
