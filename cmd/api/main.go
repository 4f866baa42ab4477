package main

import (
	"fmt"
	"net/http"

	"github.com/tempohq/tempo-backend-go/internal/config"
	appHTTP "github.com/tempohq/tempo-backend-go/internal/handler/http"
	"github.com/tempohq/tempo-backend-go/internal/pkg/database"
	"github.com/tempohq/tempo-backend-go/internal/pkg/jwt"
	"github.com/tempohq/tempo-backend-go/internal/pkg/oauth"
	"github.com/tempohq/tempo-backend-go/internal/pkg/sse"
	"github.com/tempohq/tempo-backend-go/internal/repository/postgresql"
	authService "github.com/tempohq/tempo-backend-go/internal/service/auth"
	companyService "github.com/tempohq/tempo-backend-go/internal/service/company"
	projectService "github.com/tempohq/tempo-backend-go/internal/service/project"
	timesheetService "github.com/tempohq/tempo-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.MaxConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	sequenceRepo := postgresql.NewSequenceRepository(db)
	projectRepo := postgresql.NewProjectRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	var googleSvc oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleSvc = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	hub := sse.NewHub()

	authSvc := authService.NewAuthService(db, userRepo, jwtSvc, googleSvc)
	timesheetSvc := timesheetService.NewTimeEntryService(db, timeEntryRepo, sequenceRepo, projectRepo, taskRepo, hub)
	projectSvc := projectService.NewProjectService(db, projectRepo, taskRepo)
	companySvc := companyService.NewCompanyService(db, companyRepo, userRepo)

	authHandler := appHTTP.NewAuthHandler(jwtSvc, authSvc, cfg.App.FrontendURL)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	projectHandler := appHTTP.NewProjectHandler(projectSvc)
	companyHandler := appHTTP.NewCompanyHandler(companySvc)
	eventsHandler := appHTTP.NewEventsHandler(jwtSvc, hub)

	router := appHTTP.NewRouter(
		cfg,
		jwtSvc,
		authHandler,
		timesheetHandler,
		projectHandler,
		companyHandler,
		eventsHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
