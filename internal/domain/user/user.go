// Package user holds the user/session slice and its pure reducers.
package user

// Role scopes what a user may see and do. Admins manage products and all
// orders; customers see only their own orders.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is the authenticated account. At most one user is authenticated per
// session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether u is a signed-in administrator. Safe on nil.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// State is the user slice. LoginError and RegistrationError are kept
// separate so the login and registration views each surface only their own
// failure.
type State struct {
	User              *User
	Loading           bool
	LoginError        string
	RegistrationError string
}

// Initial returns the logged-out user slice.
func Initial() State {
	return State{}
}

// LoginPending marks a login attempt in flight.
func (s State) LoginPending() State {
	s.Loading = true
	s.LoginError = ""
	return s
}

// LoginFulfilled commits the authenticated user.
func (s State) LoginFulfilled(u User) State {
	s.Loading = false
	s.User = &u
	s.LoginError = ""
	return s
}

// LoginRejected commits a login failure. The stored token is untouched by
// this reducer; token handling is the command handler's side effect.
func (s State) LoginRejected(msg string) State {
	s.Loading = false
	s.LoginError = msg
	return s
}

// TokenLoginFulfilled commits a user rehydrated from a stored token.
func (s State) TokenLoginFulfilled(u User) State {
	s.Loading = false
	s.User = &u
	return s
}

// TokenLoginRejected demotes to logged-out. Rehydration failure is silent:
// no error is recorded, so a fresh visit with an expired token shows no
// noise.
func (s State) TokenLoginRejected() State {
	s.Loading = false
	s.User = nil
	return s
}

// RegisterPending marks a registration attempt in flight.
func (s State) RegisterPending() State {
	s.Loading = true
	s.RegistrationError = ""
	return s
}

// RegisterFulfilled commits a successful registration.
func (s State) RegisterFulfilled() State {
	s.Loading = false
	s.RegistrationError = ""
	return s
}

// RegisterRejected commits a registration failure.
func (s State) RegisterRejected(msg string) State {
	s.Loading = false
	s.RegistrationError = msg
	return s
}

// ClearedErrors drops both error fields.
func (s State) ClearedErrors() State {
	s.LoginError = ""
	s.RegistrationError = ""
	return s
}

// LoggedOut clears the authenticated user.
func (s State) LoggedOut() State {
	s.User = nil
	return s
}
