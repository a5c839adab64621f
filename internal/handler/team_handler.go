package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/remexre/nihctfplat/internal/middleware"
	"github.com/remexre/nihctfplat/internal/my_errors"
	"github.com/remexre/nihctfplat/internal/request"
	"github.com/remexre/nihctfplat/internal/view"
)

type TeamService interface {
	CreateTeam(ctx context.Context, userID int64, name string) (uuid.UUID, error)
	JoinTeam(ctx context.Context, userID int64, teamID uuid.UUID) error
}

type TeamHandler struct {
	teams     TeamService
	view      *view.Renderer
	validator *validator.Validate
}

func NewTeamHandler(teams TeamService, view *view.Renderer, validator *validator.Validate) *TeamHandler {
	return &TeamHandler{
		teams:     teams,
		view:      view,
		validator: validator,
	}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	me := middleware.FromContext(r.Context()).Me
	if me == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.view.Page(w, http.StatusBadRequest, "create-team.html",
			withError(pageData(r), "form", "That request didn't make sense."))
		return
	}

	form := request.CreateTeamForm{Name: r.PostFormValue("name")}
	if err := h.validator.Struct(&form); err != nil {
		h.view.Page(w, http.StatusBadRequest, "create-team.html",
			withError(pageData(r), "name", "Please enter a team name."))
		return
	}

	if _, err := h.teams.CreateTeam(r.Context(), me.ID, form.Name); err != nil {
		switch {
		case errors.Is(err, my_errors.ErrAlreadyOnTeam):
			h.view.Page(w, http.StatusBadRequest, "create-team.html",
				withError(pageData(r), "form", "You're already on a team."))
		default:
			if fm, ok := constraintMessage(err); ok {
				h.view.Page(w, http.StatusBadRequest, "create-team.html",
					withError(pageData(r), fm.Field, fm.Message))
				return
			}
			slog.Error("team creation failed", "error", err)
			h.view.Page(w, http.StatusInternalServerError, "create-team.html",
				withError(pageData(r), "form", "Something went wrong. Try again later."))
		}
		return
	}

	http.Redirect(w, r, "/team", http.StatusFound)
}

func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	me := middleware.FromContext(r.Context()).Me
	if me == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.view.Page(w, http.StatusBadRequest, "join-team.html",
			withError(pageData(r), "form", "That request didn't make sense."))
		return
	}

	form := request.JoinTeamForm{JoinCode: r.PostFormValue("join_code")}
	if err := h.validator.Struct(&form); err != nil {
		h.view.Page(w, http.StatusBadRequest, "join-team.html",
			withError(pageData(r), "join_code", "That doesn't look like a join code."))
		return
	}
	teamID, err := uuid.Parse(form.JoinCode)
	if err != nil {
		h.view.Page(w, http.StatusBadRequest, "join-team.html",
			withError(pageData(r), "join_code", "That doesn't look like a join code."))
		return
	}

	if err := h.teams.JoinTeam(r.Context(), me.ID, teamID); err != nil {
		switch {
		case errors.Is(err, my_errors.ErrAlreadyOnTeam):
			h.view.Page(w, http.StatusBadRequest, "join-team.html",
				withError(pageData(r), "form", "You're already on a team."))
		case errors.Is(err, my_errors.ErrTeamFull):
			h.view.Page(w, http.StatusBadRequest, "join-team.html",
				withError(pageData(r), "form", "That team is already full."))
		case errors.Is(err, my_errors.ErrTeamNotFound):
			h.view.Page(w, http.StatusNotFound, "join-team.html",
				withError(pageData(r), "join_code", "That join code doesn't match any team."))
		default:
			slog.Error("team join failed", "error", err)
			h.view.Page(w, http.StatusInternalServerError, "join-team.html",
				withError(pageData(r), "form", "Something went wrong. Try again later."))
		}
		return
	}

	http.Redirect(w, r, "/team", http.StatusFound)
}
