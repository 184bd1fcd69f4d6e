package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"dresscodeplanner/internal/delivery/http/controllers"
	"dresscodeplanner/internal/delivery/http/middleware"
	"dresscodeplanner/internal/domain"
)

// RouterConfig bundles the controllers and middleware dependencies for NewRouter.
type RouterConfig struct {
	Logger      *slog.Logger
	Verifier    domain.TokenVerifier
	Users       domain.UserService
	Auth        *controllers.AuthController
	Events      *controllers.EventController
	Invitations *controllers.InvitationController
	Suggestions *controllers.SuggestionController
	Profile     *controllers.UserController
	Admin       *controllers.AdminController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	admin := middleware.RequireAdmin(cfg.Users, cfg.Logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", cfg.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", cfg.Auth.Login)

	// Events
	mux.HandleFunc("GET /events", auth(cfg.Events.List))
	mux.HandleFunc("POST /events", auth(cfg.Events.Create))
	mux.HandleFunc("GET /events/{eventID}", auth(cfg.Events.GetByID))
	mux.HandleFunc("PATCH /events/{eventID}", auth(cfg.Events.Update))
	mux.HandleFunc("DELETE /events/{eventID}", auth(cfg.Events.Delete))
	mux.HandleFunc("PUT /events/{eventID}/image", auth(cfg.Events.UploadImage))
	mux.HandleFunc("GET /events/{eventID}/calendar.ics", cfg.Events.Calendar)

	// Invitations
	mux.HandleFunc("POST /events/{eventID}/invitations", auth(cfg.Invitations.Invite))
	mux.HandleFunc("GET /events/{eventID}/invitations", auth(cfg.Invitations.ListByEvent))
	mux.HandleFunc("POST /invitations/{token}/accept", cfg.Invitations.Accept)

	// Suggestions
	mux.HandleFunc("GET /suggestions/theme", auth(cfg.Suggestions.Theme))
	mux.HandleFunc("GET /suggestions/description", auth(cfg.Suggestions.Description))
	mux.HandleFunc("POST /suggestions/image", auth(cfg.Suggestions.Image))

	// Profile
	mux.HandleFunc("GET /users/me", auth(cfg.Profile.Me))
	mux.HandleFunc("PUT /users/me/image", auth(cfg.Profile.UploadProfileImage))

	// Admin
	mux.HandleFunc("GET /admin/users/pending", auth(admin(cfg.Admin.ListPending)))
	mux.HandleFunc("POST /admin/users/{userID}/approve", auth(admin(cfg.Admin.Approve)))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
