package models

// User is the operator record returned by the backend on login.
type User struct {
	ID    string `json:"_id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// AuthResult is the data payload of a successful login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
