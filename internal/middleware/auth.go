package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/remexre/nihctfplat/internal/domain"
)

type AuthService interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

type TeamService interface {
	GetTeam(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	TeamMemberNames(ctx context.Context, teamID uuid.UUID) ([]string, error)
}

// AuthCookie is the cookie carrying the bearer token.
const AuthCookie = "auth"

// RequestContext carries the identity resolved for one request. It is built
// once by WithAuth and passed explicitly to handlers and templates; nothing
// else is stashed in the request context.
type RequestContext struct {
	Me          *domain.User
	Team        *domain.Team
	TeamMembers []string
}

type contextKey struct{}

// WithAuth resolves the auth cookie, loads the user's team and its member
// names, and attaches the resulting RequestContext. A missing, malformed, or
// stale cookie just leaves the request anonymous.
func WithAuth(auth AuthService, teams TeamService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := &RequestContext{}

			if cookie, err := r.Cookie(AuthCookie); err == nil && cookie.Value != "" {
				user, err := auth.Resolve(r.Context(), cookie.Value)
				if err != nil {
					slog.Debug("auth cookie did not resolve", "error", err)
				} else {
					rc.Me = user
					if user.TeamID != nil {
						if team, err := teams.GetTeam(r.Context(), *user.TeamID); err == nil {
							rc.Team = team
						}
						if members, err := teams.TeamMemberNames(r.Context(), *user.TeamID); err == nil {
							rc.TeamMembers = members
						}
					}
				}
			}

			ctx := context.WithValue(r.Context(), contextKey{}, rc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the RequestContext attached by WithAuth. Requests that
// never passed through WithAuth count as anonymous.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(contextKey{}).(*RequestContext); ok {
		return rc
	}
	return &RequestContext{}
}

// RequireUser redirects anonymous visitors to the login page.
func RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if FromContext(r.Context()).Me == nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
