package view

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remexre/nihctfplat/internal/domain"
)

func TestRender_LoginMail(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	body, err := r.Render("login-mail.txt", map[string]any{
		"User":           &domain.User{Name: "alice"},
		"LoginURL":       "https://ctf.example.com/login/abc",
		"DurationText":   "60 minutes",
		"ExpiresText":    "Mon, 01 Jan 2026 00:00:00 UTC",
		"IsRegistration": true,
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Welcome, alice!")
	assert.Contains(t, body, "https://ctf.example.com/login/abc")
	assert.Contains(t, body, "expires in 60 minutes")
}

func TestRender_LoginMailNotEscaped(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	body, err := r.Render("login-mail.txt", map[string]any{
		"User":           &domain.User{Name: "alice"},
		"LoginURL":       "https://ctf.example.com/login/x?a=1&b=2",
		"DurationText":   "60 minutes",
		"ExpiresText":    "later",
		"IsRegistration": false,
	})
	require.NoError(t, err)
	// Mails are plain text, so ampersands must come through verbatim.
	assert.Contains(t, body, "a=1&b=2")
}

func TestRender_IndexAnonymousAndLoggedIn(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	anon, err := r.Render("index.html", PageData{})
	require.NoError(t, err)
	assert.Contains(t, anon, "Register")

	me, err := r.Render("index.html", PageData{Me: &domain.User{Name: "alice"}})
	require.NoError(t, err)
	assert.Contains(t, me, "Hi, alice!")
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	_, err = r.Render("no-such-page.html", PageData{})
	assert.Error(t, err)
}

func TestPage_WritesHTMLResponse(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.Page(rec, 200, "register.html", PageData{
		Errors: map[string]string{"email": "This email is already registered"},
	})

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "This email is already registered")
}
