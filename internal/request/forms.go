// Package request holds the decoded form bodies handlers accept. Length
// caps are enforced here; format and uniqueness rules belong to the store's
// schema.
package request

type RegisterForm struct {
	Username string `validate:"required,max=255"`
	Email    string `validate:"required,max=255"`
}

type LoginForm struct {
	Username string `validate:"required,max=255"`
}

type CreateTeamForm struct {
	Name string `validate:"required,max=255"`
}

type JoinTeamForm struct {
	JoinCode string `validate:"required,uuid"`
}
