package client

import "time"

// User mirrors the API's user payload. The API never includes the password
// hash, so no field exists for it here either.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterData carries the self-service registration fields.
type RegisterData struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Phone                string `json:"phone,omitempty"`
}

// UserFormData carries the admin create/edit form fields. An empty
// password is omitted from the request body, which the server reads as
// "keep the current one".
type UserFormData struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password,omitempty"`
	PasswordConfirmation string `json:"password_confirmation,omitempty"`
	Phone                string `json:"phone,omitempty"`
	Role                 string `json:"role"`
}

// PaginatedUsers is one page of the user listing.
type PaginatedUsers struct {
	Data        []User `json:"data"`
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
	PerPage     int    `json:"per_page"`
	Total       int64  `json:"total"`
	From        int    `json:"from"`
	To          int    `json:"to"`
}
