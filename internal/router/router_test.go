package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remexre/nihctfplat/internal/domain"
	"github.com/remexre/nihctfplat/internal/handler"
	"github.com/remexre/nihctfplat/internal/middleware"
	"github.com/remexre/nihctfplat/internal/my_errors"
	"github.com/remexre/nihctfplat/internal/view"
)

// stubServices plays every service role behind the router, backed by fixed
// fixture state instead of a database.
type stubServices struct {
	registerErr error
	loginErr    error

	validLink   uuid.UUID
	mintedToken uuid.UUID
	tokenToUser map[string]*domain.User
	joinErr     error
	createErr   error

	registered []string
}

func (s *stubServices) Register(ctx context.Context, name, email string) error {
	if s.registerErr != nil {
		return s.registerErr
	}
	s.registered = append(s.registered, name)
	return nil
}

func (s *stubServices) LoginByName(ctx context.Context, name string) error {
	return s.loginErr
}

func (s *stubServices) Redeem(ctx context.Context, linkID uuid.UUID) (uuid.UUID, error) {
	if linkID != s.validLink {
		return uuid.Nil, my_errors.ErrLinkInvalidOrExpired
	}
	return s.mintedToken, nil
}

func (s *stubServices) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if u, ok := s.tokenToUser[token]; ok {
		return u, nil
	}
	return nil, my_errors.ErrNotFound
}

func (s *stubServices) CreateTeam(ctx context.Context, userID int64, name string) (uuid.UUID, error) {
	if s.createErr != nil {
		return uuid.Nil, s.createErr
	}
	return uuid.New(), nil
}

func (s *stubServices) JoinTeam(ctx context.Context, userID int64, teamID uuid.UUID) error {
	return s.joinErr
}

func (s *stubServices) GetTeam(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	return nil, my_errors.ErrTeamNotFound
}

func (s *stubServices) TeamMemberNames(ctx context.Context, teamID uuid.UUID) ([]string, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, svc *stubServices) http.Handler {
	t.Helper()
	renderer, err := view.New()
	require.NoError(t, err)
	validate := validator.New()

	pageHandler := handler.NewPageHandler(renderer)
	authHandler := handler.NewAuthHandler(svc, svc, renderer, validate)
	teamHandler := handler.NewTeamHandler(svc, renderer, validate)

	return SetupRouter(pageHandler, authHandler, teamHandler, svc, svc)
}

func postForm(r http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIndex_Anonymous(t *testing.T) {
	r := newTestRouter(t, &stubServices{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Register")
}

func TestHumansTxt(t *testing.T) {
	r := newTestRouter(t, &stubServices{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/humans.txt", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "remexre\n", rec.Body.String())
}

func TestRegister_Success(t *testing.T) {
	svc := &stubServices{}
	r := newTestRouter(t, svc)

	rec := postForm(r, "/register", url.Values{"username": {"alice"}, "email": {"alice@x.com"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Check your mail")
	assert.Equal(t, []string{"alice"}, svc.registered)
}

func TestRegister_DuplicateEmailMessage(t *testing.T) {
	svc := &stubServices{
		registerErr: &my_errors.ConstraintViolation{Table: "users", Constraint: "users_email_key"},
	}
	r := newTestRouter(t, svc)

	rec := postForm(r, "/register", url.Values{"username": {"alice"}, "email": {"alice@x.com"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "This email is already registered")
}

func TestRegister_MissingFields(t *testing.T) {
	r := newTestRouter(t, &stubServices{})

	rec := postForm(r, "/register", url.Values{"username": {"alice"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_UnknownUserGetsDenial(t *testing.T) {
	svc := &stubServices{loginErr: my_errors.ErrNotFound}
	r := newTestRouter(t, svc)

	rec := postForm(r, "/login", url.Values{"username": {"nobody"}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "That login didn&#39;t work.")
}

func TestLoginFromMail_GetShowsConfirmation(t *testing.T) {
	link := uuid.New()
	r := newTestRouter(t, &stubServices{validLink: link})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login/"+link.String(), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), link.String())
}

func TestLoginFromMail_RedeemSetsCookieAndRedirects(t *testing.T) {
	link := uuid.New()
	token := uuid.New()
	r := newTestRouter(t, &stubServices{validLink: link, mintedToken: token})

	rec := postForm(r, "/login/"+link.String(), url.Values{})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AuthCookie, cookies[0].Name)
	assert.Equal(t, token.String(), cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginFromMail_InvalidLinkGetsDenial(t *testing.T) {
	r := newTestRouter(t, &stubServices{validLink: uuid.New()})

	rec := postForm(r, "/login/"+uuid.NewString(), url.Values{})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "That login didn&#39;t work.")
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginFromMail_MalformedIDGetsDenial(t *testing.T) {
	r := newTestRouter(t, &stubServices{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login/not-a-uuid", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "That login didn&#39;t work.")
}

func TestLogout_ClearsCookie(t *testing.T) {
	r := newTestRouter(t, &stubServices{})

	rec := postForm(r, "/logout", url.Values{},
		&http.Cookie{Name: middleware.AuthCookie, Value: uuid.NewString()})

	assert.Equal(t, http.StatusFound, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AuthCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestTeamPages_RequireLogin(t *testing.T) {
	r := newTestRouter(t, &stubServices{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/team", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestTeamJoin_FullTeamMessage(t *testing.T) {
	token := uuid.NewString()
	svc := &stubServices{
		tokenToUser: map[string]*domain.User{token: {ID: 1, Name: "alice"}},
		joinErr:     my_errors.ErrTeamFull,
	}
	r := newTestRouter(t, svc)

	rec := postForm(r, "/team/join", url.Values{"join_code": {uuid.NewString()}},
		&http.Cookie{Name: middleware.AuthCookie, Value: token})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "That team is already full.")
}

func TestTeamJoin_BadJoinCode(t *testing.T) {
	token := uuid.NewString()
	svc := &stubServices{
		tokenToUser: map[string]*domain.User{token: {ID: 1, Name: "alice"}},
	}
	r := newTestRouter(t, svc)

	rec := postForm(r, "/team/join", url.Values{"join_code": {"nope"}},
		&http.Cookie{Name: middleware.AuthCookie, Value: token})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "join code")
}

func TestTeamCreate_AlreadyOnTeamMessage(t *testing.T) {
	token := uuid.NewString()
	svc := &stubServices{
		tokenToUser: map[string]*domain.User{token: {ID: 1, Name: "alice"}},
		createErr:   my_errors.ErrAlreadyOnTeam,
	}
	r := newTestRouter(t, svc)

	rec := postForm(r, "/team/create", url.Values{"name": {"Another"}},
		&http.Cookie{Name: middleware.AuthCookie, Value: token})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already on a team")
}

func TestTeamCreate_RedirectsToTeam(t *testing.T) {
	token := uuid.NewString()
	svc := &stubServices{
		tokenToUser: map[string]*domain.User{token: {ID: 1, Name: "alice"}},
	}
	r := newTestRouter(t, svc)

	rec := postForm(r, "/team/create", url.Values{"name": {"The Bitflippers"}},
		&http.Cookie{Name: middleware.AuthCookie, Value: token})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/team", rec.Header().Get("Location"))
}
