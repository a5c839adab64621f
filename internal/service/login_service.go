package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/remexre/nihctfplat/internal/domain"
)

const (
	// LoginLinkTTL is how long a mailed login link stays redeemable.
	LoginLinkTTL = time.Hour

	// redeemedTokenTTL matches the auth cookie's max-age, ten years give or
	// take.
	redeemedTokenTTL = 520 * 7 * 24 * time.Hour
)

type LoginService struct {
	logins  LoginRepository
	users   UserRepository
	view    Renderer
	mailer  MailSender
	baseURL string
}

func NewLoginService(logins LoginRepository, users UserRepository, view Renderer, mailer MailSender, baseURL string) *LoginService {
	return &LoginService{
		logins:  logins,
		users:   users,
		view:    view,
		mailer:  mailer,
		baseURL: baseURL,
	}
}

// CreateLogin inserts a new pending login link for the user.
func (s *LoginService) CreateLogin(ctx context.Context, userID int64, expires time.Time) (uuid.UUID, error) {
	login := &domain.Login{
		ID:      uuid.New(),
		UserID:  userID,
		Expires: expires,
	}
	if err := s.logins.CreateLogin(ctx, login); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create login link: %w", err)
	}
	return login.ID, nil
}

// Redeem exchanges an unused, unexpired login link for a fresh auth token.
// The conditional update and the token insert share one transaction, so
// concurrent redemptions of the same link yield exactly one token.
func (s *LoginService) Redeem(ctx context.Context, linkID uuid.UUID) (uuid.UUID, error) {
	expires := time.Now().Add(redeemedTokenTTL)
	token := &domain.AuthToken{
		ID:      uuid.New(),
		Expires: &expires,
	}
	if err := s.logins.Redeem(ctx, linkID, token); err != nil {
		return uuid.Nil, err
	}
	return token.ID, nil
}

// SendLoginMail creates a login link expiring in LoginLinkTTL and mails it
// to the user. A failed send propagates to the caller; the link row is kept
// either way, which is an accepted inconsistency rather than something to
// retry here.
func (s *LoginService) SendLoginMail(ctx context.Context, userID int64, isRegistration bool) error {
	expires := time.Now().Add(LoginLinkTTL)

	linkID, err := s.CreateLogin(ctx, userID, expires)
	if err != nil {
		return err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	body, err := s.view.Render("login-mail.txt", map[string]any{
		"Token":          linkID,
		"User":           user,
		"LoginURL":       fmt.Sprintf("%s/login/%s", s.baseURL, linkID),
		"DurationText":   humanDuration(LoginLinkTTL),
		"ExpiresText":    expires.UTC().Format(time.RFC1123),
		"IsRegistration": isRegistration,
	})
	if err != nil {
		return fmt.Errorf("failed to render login mail: %w", err)
	}

	subject := "Your login link"
	if isRegistration {
		subject = "Welcome! Here's your login link"
	}
	return s.mailer.Send(ctx, user.Email, subject, body)
}

// LoginByName starts the login flow for an existing user, looked up by
// display name.
func (s *LoginService) LoginByName(ctx context.Context, name string) error {
	user, err := s.users.GetUserByName(ctx, name)
	if err != nil {
		return err
	}
	return s.SendLoginMail(ctx, user.ID, false)
}

// humanDuration renders a duration the way the login mail shows it, e.g.
// "60 minutes" or "2 hours".
func humanDuration(d time.Duration) string {
	if d < 2*time.Hour {
		n := int(d.Round(time.Minute) / time.Minute)
		if n == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", n)
	}
	n := int(d.Round(time.Hour) / time.Hour)
	return fmt.Sprintf("%d hours", n)
}
