package handler

import (
	"net/http"

	"github.com/remexre/nihctfplat/internal/middleware"
	"github.com/remexre/nihctfplat/internal/my_errors"
	"github.com/remexre/nihctfplat/internal/view"
)

// denialMessage is shown for unknown usernames and invalid or expired login
// links alike, so the response doesn't reveal whether an account exists.
const denialMessage = "That login didn't work."

type fieldMessage struct {
	Field   string
	Message string
}

// constraintMessages maps (table, constraint) to the form field and message
// shown to the user. Anything not listed here renders as a generic failure.
var constraintMessages = map[string]map[string]fieldMessage{
	"users": {
		"name_fmt":        {"username", "Your username must contain only ASCII letters and digits"},
		"name_len":        {"username", "Your username must be at least 3 characters"},
		"users_name_key":  {"username", "This username is already taken"},
		"email_fmt":       {"email", "That doesn't look like an email address..."},
		"email_len":       {"email", "That doesn't look like an email address..."},
		"users_email_key": {"email", "This email is already registered"},
	},
	"teams": {
		"name_fmt": {"name", "Team names must be printable ASCII"},
		"name_len": {"name", "Team names must be at least 3 characters"},
	},
}

// constraintMessage resolves a ConstraintViolation to its user-facing form
// error, if one is registered.
func constraintMessage(err error) (fieldMessage, bool) {
	cv, ok := my_errors.AsConstraintViolation(err)
	if !ok {
		return fieldMessage{}, false
	}
	fm, ok := constraintMessages[cv.Table][cv.Constraint]
	return fm, ok
}

// pageData seeds a view model from the request's resolved identity.
func pageData(r *http.Request) view.PageData {
	rc := middleware.FromContext(r.Context())
	return view.PageData{
		Me:          rc.Me,
		Team:        rc.Team,
		TeamMembers: rc.TeamMembers,
	}
}

func withError(data view.PageData, field, message string) view.PageData {
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}
	data.Errors[field] = message
	return data
}
