package handler

// --- Request / Response types ---

type registerRequest struct {
	Name                 string `json:"name"                  validate:"required,min=2"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
	Phone                string `json:"phone"                 validate:"omitempty,phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Name                 string `json:"name"                  validate:"required,min=2"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
	Phone                string `json:"phone"                 validate:"omitempty,phone"`
	Role                 string `json:"role"                  validate:"required,oneof=admin user"`
}

// updateUserRequest carries a partial update: nil means "leave unchanged".
// An empty password string is also treated as absent, so the stored hash
// survives untouched. Confirmation is checked in the handler because
// eqfield does not compose with optional pointer fields.
type updateUserRequest struct {
	Name                 *string `json:"name"                  validate:"omitempty,min=2"`
	Email                *string `json:"email"                 validate:"omitempty,email"`
	Password             *string `json:"password"              validate:"omitempty,min=8"`
	PasswordConfirmation *string `json:"password_confirmation"`
	Phone                *string `json:"phone"                 validate:"omitempty,phone"`
	Role                 *string `json:"role"                  validate:"omitempty,oneof=admin user"`
}

// userEnvelope wraps mutation responses; domain.User marshals without the
// password hash.
type userEnvelope struct {
	User any `json:"user"`
}

type authResponse struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// listUsersResponse mirrors the pagination envelope the web client renders
// its table controls from.
type listUsersResponse struct {
	Data        any   `json:"data"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}
