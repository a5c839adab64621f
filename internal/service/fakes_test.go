package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/remexre/nihctfplat/internal/domain"
	"github.com/remexre/nihctfplat/internal/my_errors"
)

// In-memory repository fakes. Mutexes stand in for the row locks and
// transactions the real repositories take, so the conditional-update
// semantics match what Postgres enforces.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]*domain.User{}}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Name == name {
			return nil, &my_errors.ConstraintViolation{Table: "users", Constraint: "users_name_key"}
		}
		if u.Email == email {
			return nil, &my_errors.ConstraintViolation{Table: "users", Constraint: "users_email_key"}
		}
	}
	r.nextID++
	user := &domain.User{ID: r.nextID, Name: name, Email: email}
	r.byID[user.ID] = user
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, my_errors.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Name == name {
			copied := *u
			return &copied, nil
		}
	}
	return nil, my_errors.ErrNotFound
}

type fakeAuthRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]*domain.AuthToken
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{tokens: map[uuid.UUID]*domain.AuthToken{}}
}

func (r *fakeAuthRepo) SaveToken(ctx context.Context, token *domain.AuthToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *token
	r.tokens[token.ID] = &copied
	return nil
}

func (r *fakeAuthRepo) GetUserIDByToken(ctx context.Context, tokenID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenID]
	if !ok {
		return 0, my_errors.ErrNotFound
	}
	if token.Expires != nil && !token.Expires.After(time.Now()) {
		return 0, my_errors.ErrNotFound
	}
	return token.UserID, nil
}

type fakeLoginRepo struct {
	mu    sync.Mutex
	links map[uuid.UUID]*domain.Login
	auths *fakeAuthRepo
}

func newFakeLoginRepo(auths *fakeAuthRepo) *fakeLoginRepo {
	return &fakeLoginRepo{links: map[uuid.UUID]*domain.Login{}, auths: auths}
}

func (r *fakeLoginRepo) CreateLogin(ctx context.Context, login *domain.Login) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *login
	r.links[login.ID] = &copied
	return nil
}

func (r *fakeLoginRepo) Redeem(ctx context.Context, linkID uuid.UUID, token *domain.AuthToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[linkID]
	if !ok || !link.Redeemable(time.Now()) {
		return my_errors.ErrLinkInvalidOrExpired
	}
	link.Used = true
	token.UserID = link.UserID
	return r.auths.SaveToken(ctx, token)
}

type fakeTeamRepo struct {
	mu    sync.Mutex
	users *fakeUserRepo
	teams map[uuid.UUID]*domain.Team
}

func newFakeTeamRepo(users *fakeUserRepo) *fakeTeamRepo {
	return &fakeTeamRepo{users: users, teams: map[uuid.UUID]*domain.Team{}}
}

func (r *fakeTeamRepo) CreateTeamForUser(ctx context.Context, userID int64, teamID uuid.UUID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users.byID[userID]
	if !ok {
		return my_errors.ErrNotFound
	}
	if user.TeamID != nil {
		return my_errors.ErrAlreadyOnTeam
	}
	if len(name) < 3 {
		return &my_errors.ConstraintViolation{Table: "teams", Constraint: "name_len"}
	}
	r.teams[teamID] = &domain.Team{ID: teamID, Name: name}
	id := teamID
	user.TeamID = &id
	return nil
}

func (r *fakeTeamRepo) JoinTeam(ctx context.Context, userID int64, teamID uuid.UUID, capacity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users.byID[userID]
	if !ok {
		return my_errors.ErrNotFound
	}
	if user.TeamID != nil {
		return my_errors.ErrAlreadyOnTeam
	}
	if _, ok := r.teams[teamID]; !ok {
		return my_errors.ErrTeamNotFound
	}
	members := 0
	for _, u := range r.users.byID {
		if u.TeamID != nil && *u.TeamID == teamID {
			members++
		}
	}
	if members >= capacity {
		return my_errors.ErrTeamFull
	}
	id := teamID
	user.TeamID = &id
	return nil
}

func (r *fakeTeamRepo) GetTeamByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, my_errors.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) GetTeamMemberNames(ctx context.Context, teamID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, u := range r.users.byID {
		if u.TeamID != nil && *u.TeamID == teamID {
			names = append(names, u.Name)
		}
	}
	return names, nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type renderedMail struct {
	Name string
	Data any
}

type fakeRenderer struct {
	mu       sync.Mutex
	rendered []renderedMail
	err      error
}

func (r *fakeRenderer) Render(name string, data any) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rendered = append(r.rendered, renderedMail{Name: name, Data: data})
	return "rendered " + name, nil
}
