package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/xavierca1/ligue-pipeline/internal/infra/http/middleware"
)

type Router struct {
	Leads          *LeadHandler
	FollowUps      *FollowUpHandler
	Proposals      *ProposalHandler
	Pipeline       *PipelineHandler
	Health         *HealthHandler
	AllowedOrigins []string
}

func (rt Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)

	origins := rt.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	if rt.Health != nil {
		r.Get("/health", rt.Health.Handle)
	}
	r.Handle("/metrics", middleware.Handler())

	r.Route("/leads", func(r chi.Router) {
		r.Post("/", rt.Leads.Create)
		r.Get("/", rt.Leads.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", rt.Leads.Get)
			r.Put("/", rt.Leads.Update)
			r.Delete("/", rt.Leads.Delete)
			r.Post("/transition", rt.Leads.Transition)
			r.Post("/convert", rt.Leads.Convert)
			r.Post("/notes", rt.Leads.AddNote)
			r.Post("/tasks", rt.Leads.AddTask)
			r.Post("/tasks/{taskId}/complete", rt.Leads.CompleteTask)
			r.Post("/attachments", rt.Leads.AddAttachment)

			r.Get("/follow-ups", rt.FollowUps.Ledger)
			r.Post("/follow-ups", rt.FollowUps.Append)

			r.Get("/proposals", rt.Proposals.List)
			r.Post("/proposals", rt.Proposals.Create)
		})
	})

	r.Delete("/follow-ups/{id}", rt.FollowUps.Remove)

	r.Route("/proposals/{id}", func(r chi.Router) {
		r.Get("/", rt.Proposals.Get)
		r.Post("/items", rt.Proposals.AddItem)
		r.Put("/items/{index}", rt.Proposals.UpdateItem)
		r.Delete("/items/{index}", rt.Proposals.RemoveItem)
		r.Put("/discount", rt.Proposals.SetDiscount)
		r.Post("/send", rt.Proposals.Send)
		r.Post("/accept", rt.Proposals.Accept)
		r.Post("/reject", rt.Proposals.Reject)
		r.Get("/pdf", rt.Proposals.PDF)
	})

	r.Get("/pipeline", rt.Pipeline.Overview)
	r.Get("/pipeline/report", rt.Pipeline.Report)

	return r
}
