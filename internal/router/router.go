package router

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/remexre/nihctfplat/internal/handler"
	"github.com/remexre/nihctfplat/internal/middleware"
	middleware2 "github.com/remexre/nihctfplat/pkg/middleware"
)

//go:embed static
var staticFS embed.FS

func SetupRouter(
	pageHandler *handler.PageHandler,
	authHandler *handler.AuthHandler,
	teamHandler *handler.TeamHandler,
	authService middleware.AuthService,
	teamService middleware.TeamService,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware2.LoggingMiddleware)
	r.Use(middleware.WithAuth(authService, teamService))

	staticRoot, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))))

	// Public pages
	r.Get("/", pageHandler.SimplePage("index.html"))
	r.Get("/humans.txt", pageHandler.HumansTxt)
	r.Get("/register", pageHandler.SimplePage("register.html"))
	r.Post("/register", authHandler.Register)
	r.Get("/login", pageHandler.SimplePage("login.html"))
	r.Post("/login", authHandler.Login)
	r.Get("/login/{id}", authHandler.LoginFromMailGet)
	r.Post("/login/{id}", authHandler.LoginFromMailPost)
	r.Post("/logout", authHandler.Logout)

	// Team pages (require a logged-in user)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser())

		r.Get("/team", pageHandler.SimplePage("team.html"))
		r.Get("/team/create", pageHandler.SimplePage("create-team.html"))
		r.Post("/team/create", teamHandler.Create)
		r.Get("/team/join", pageHandler.SimplePage("join-team.html"))
		r.Post("/team/join", teamHandler.Join)
	})

	return r
}
