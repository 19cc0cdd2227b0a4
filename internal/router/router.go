package router

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/auth"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/handler"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
	mw "github.com/parisxmas/OxiDB/OxiAdmin/internal/middleware"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/service"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Forms     *handler.FormHandler
	Sections  *handler.SectionHandler
	Employees *handler.DirectoryHandler[models.Employee]
	Companies *handler.DirectoryHandler[models.Company]
	Uploads   *handler.UploadHandler
	Search    *handler.SearchHandler
	Admin     *handler.AdminHandler
}

// NewHandlers wires every handler over one workspace manager.
func NewHandlers(base *handler.Base, authSvc *service.AuthService, workspaces *service.Workspaces) Handlers {
	return Handlers{
		Auth:      handler.NewAuthHandler(base, authSvc),
		Dashboard: handler.NewDashboardHandler(base),
		Forms:     handler.NewFormHandler(base),
		Sections:  handler.NewSectionHandler(base),
		Employees: handler.NewDirectoryHandler(base, "employees.csv", func(ws *service.Workspace) *service.DirectoryService[models.Employee] {
			return ws.Employees
		}),
		Companies: handler.NewDirectoryHandler(base, "companies.csv", func(ws *service.Workspace) *service.DirectoryService[models.Company] {
			return ws.Companies
		}),
		Uploads: handler.NewUploadHandler(base),
		Search:  handler.NewSearchHandler(base),
		Admin:   handler.NewAdminHandler(base, workspaces),
	}
}

func New(logger *zap.Logger, secret string, workspaces auth.WorkspaceSource, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger(logger))
	r.Use(mw.Recovery(logger))

	// Public routes
	r.Post("/login", h.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(secret, workspaces))

		r.Post("/logout", h.Auth.Logout)

		r.Route("/api", func(r chi.Router) {
			r.Get("/me", h.Auth.Me)
			r.Get("/dashboard", h.Dashboard.Dashboard)
			r.Get("/search", h.Search.Search)

			// Forms
			r.Get("/forms", h.Forms.List)
			r.Post("/forms/reload", h.Forms.Reload)
			r.Get("/forms/export.csv", h.Forms.Export)
			r.Get("/forms/{formId}", h.Forms.Get)
			r.Post("/forms/{formId}/edits", h.Forms.Edits)
			r.Post("/forms/{formId}/steps", h.Forms.AddStep)
			r.Post("/forms/{formId}/save", h.Forms.Save)

			// Sections
			r.Get("/sections", h.Sections.List)
			r.Get("/sections/{name}", h.Sections.Get)
			r.Put("/sections/{name}", h.Sections.Put)
			r.Post("/sections/{name}/save", h.Sections.Save)
			r.Post("/sections/{name}/reload", h.Sections.Reload)

			// Directory
			r.Get("/employees", h.Employees.List)
			r.Post("/employees", h.Employees.Create)
			r.Get("/employees/export.csv", h.Employees.Export)
			r.Get("/employees/{id}", h.Employees.Get)
			r.Put("/employees/{id}", h.Employees.Update)
			r.Delete("/employees/{id}", h.Employees.Delete)

			r.Get("/companies", h.Companies.List)
			r.Post("/companies", h.Companies.Create)
			r.Get("/companies/export.csv", h.Companies.Export)
			r.Get("/companies/{id}", h.Companies.Get)
			r.Put("/companies/{id}", h.Companies.Update)
			r.Delete("/companies/{id}", h.Companies.Delete)

			r.Post("/uploads/image", h.Uploads.Upload)

			// Workspace housekeeping
			r.Group(func(r chi.Router) {
				r.Use(h.Admin.RequireAdmin)
				r.Get("/admin/workspaces", h.Admin.Workspaces)
				r.Post("/admin/workspaces/sweep", h.Admin.Sweep)
			})
		})
	})

	return r
}
