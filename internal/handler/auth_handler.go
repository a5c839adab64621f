package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/remexre/nihctfplat/internal/middleware"
	"github.com/remexre/nihctfplat/internal/my_errors"
	"github.com/remexre/nihctfplat/internal/request"
	"github.com/remexre/nihctfplat/internal/view"
)

// authCookieMaxAge matches the lifetime of tokens minted from login links.
const authCookieMaxAge = int((520 * 7 * 24 * time.Hour) / time.Second)

type UserService interface {
	Register(ctx context.Context, name, email string) error
}

type LoginService interface {
	LoginByName(ctx context.Context, name string) error
	Redeem(ctx context.Context, linkID uuid.UUID) (uuid.UUID, error)
}

type AuthHandler struct {
	users     UserService
	logins    LoginService
	view      *view.Renderer
	validator *validator.Validate
}

func NewAuthHandler(users UserService, logins LoginService, view *view.Renderer, validator *validator.Validate) *AuthHandler {
	return &AuthHandler{
		users:     users,
		logins:    logins,
		view:      view,
		validator: validator,
	}
}

// Register creates the account and sends the first login link. Schema
// constraint failures map to per-field messages; everything else is a
// generic failure.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.Page(w, http.StatusBadRequest, "register.html",
			withError(pageData(r), "form", "That request didn't make sense."))
		return
	}

	form := request.RegisterForm{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
	}
	if err := h.validator.Struct(&form); err != nil {
		h.view.Page(w, http.StatusBadRequest, "register.html",
			withError(pageData(r), "form", "Please fill in both fields."))
		return
	}

	if err := h.users.Register(r.Context(), form.Username, form.Email); err != nil {
		if fm, ok := constraintMessage(err); ok {
			h.view.Page(w, http.StatusBadRequest, "register.html",
				withError(pageData(r), fm.Field, fm.Message))
			return
		}
		slog.Error("registration failed", "error", err)
		h.view.Page(w, http.StatusInternalServerError, "register.html",
			withError(pageData(r), "form", "Something went wrong. Try again later."))
		return
	}

	h.view.Page(w, http.StatusOK, "login-ok.html", pageData(r))
}

// Login mails a login link to an existing user. An unknown username gets the
// same denial as an invalid link, so the response doesn't confirm whether an
// account exists.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.Page(w, http.StatusBadRequest, "login.html",
			withError(pageData(r), "form", "That request didn't make sense."))
		return
	}

	form := request.LoginForm{Username: r.PostFormValue("username")}
	if err := h.validator.Struct(&form); err != nil {
		h.view.Page(w, http.StatusBadRequest, "login.html",
			withError(pageData(r), "form", "Please enter your username."))
		return
	}

	if err := h.logins.LoginByName(r.Context(), form.Username); err != nil {
		if errors.Is(err, my_errors.ErrNotFound) {
			h.view.Page(w, http.StatusNotFound, "login.html",
				withError(pageData(r), "username", denialMessage))
			return
		}
		slog.Error("login mail failed", "error", err)
		h.view.Page(w, http.StatusInternalServerError, "login.html",
			withError(pageData(r), "form", "Something went wrong. Try again later."))
		return
	}

	h.view.Page(w, http.StatusOK, "login-ok.html", pageData(r))
}

// LoginFromMailGet shows the confirmation page for a mailed link.
func (h *AuthHandler) LoginFromMailGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.denyLink(w, r, uuid.Nil)
		return
	}

	data := pageData(r)
	data.Extra = map[string]any{"Login": id}
	h.view.Page(w, http.StatusOK, "login-from-mail.html", data)
}

// LoginFromMailPost redeems the link and sets the auth cookie. Used,
// expired, and unknown links all get the same denial.
func (h *AuthHandler) LoginFromMailPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.denyLink(w, r, uuid.Nil)
		return
	}

	token, err := h.logins.Redeem(r.Context(), id)
	if err != nil {
		if errors.Is(err, my_errors.ErrLinkInvalidOrExpired) || errors.Is(err, my_errors.ErrNotFound) {
			h.denyLink(w, r, id)
			return
		}
		slog.Error("login link redemption failed", "error", err)
		h.view.Page(w, http.StatusInternalServerError, "login-from-mail.html",
			withError(pageData(r), "form", "Something went wrong. Try again later."))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    token.String(),
		Path:     "/",
		MaxAge:   authCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) denyLink(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	data := withError(pageData(r), "form", denialMessage)
	data.Extra = map[string]any{"Login": id}
	h.view.Page(w, http.StatusNotFound, "login-from-mail.html", data)
}
