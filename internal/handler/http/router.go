package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/tempohq/tempo-backend-go/internal/config"
	"github.com/tempohq/tempo-backend-go/internal/handler/http/middleware"
	"github.com/tempohq/tempo-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	authHandler AuthHandler,
	timesheetHandler TimesheetHandler,
	projectHandler ProjectHandler,
	companyHandler CompanyHandler,
	eventsHandler EventsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "tempo-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Get("/login/oauth/google", authHandler.LoginWithGoogle)
			r.Get("/oauth/callback/google", authHandler.OAuthCallbackGoogle)
		})

		// EventSource cannot send an Authorization header; the stream
		// authenticates with a short-lived token minted at /events/token.
		r.Get("/events/stream", eventsHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/events/token", eventsHandler.Token)

			r.Route("/time-entries", func(r chi.Router) {
				r.Post("/", timesheetHandler.Create)
				r.Post("/submit", timesheetHandler.Submit)
				r.Get("/my", timesheetHandler.ListMy)
				r.Get("/my/timesheet", timesheetHandler.MyTimesheet)
				r.Get("/project/{projectID}", timesheetHandler.ListByProject)
				r.Get("/task/{taskID}", timesheetHandler.ListByTask)

				// Manager or owner only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", timesheetHandler.List)
					r.Get("/stats", timesheetHandler.Stats)
					r.Get("/user/{userID}", timesheetHandler.ListByUser)
					r.Get("/user/{userID}/timesheet", timesheetHandler.UserTimesheet)
					r.Post("/approve", timesheetHandler.Approve)
					r.Post("/reject", timesheetHandler.Reject)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", timesheetHandler.Get)
					r.Put("/", timesheetHandler.Update)
					r.Delete("/", timesheetHandler.Delete)
				})
			})

			r.Route("/companies/my", func(r chi.Router) {
				r.Get("/", companyHandler.GetMy)
				r.Get("/members", companyHandler.ListMembers)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)

				// Manager or owner only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", projectHandler.Create)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", projectHandler.Get)
					r.Get("/tasks", projectHandler.ListTasks)
					r.Get("/tasks/{taskID}", projectHandler.GetTask)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireManager)
						r.Post("/tasks", projectHandler.CreateTask)
					})
				})
			})
		})
	})
	return r
}
