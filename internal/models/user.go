package models

// User is one row of the Users sheet (columns A through D, header in row 1).
// The stored password is a bcrypt hash.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Never expose in JSON
	Role         string `json:"role"`
	FullName     string `json:"fullName"`
}

// CreateUserRequest represents the request body for creating a new user
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
	FullName string `json:"fullName" validate:"required"`
}

// UpdateUserRequest represents the request body for updating a user. Empty
// fields are left unchanged; an empty password keeps the current hash.
type UpdateUserRequest struct {
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the response body for successful login
type LoginResponse struct {
	Success bool   `json:"success"`
	User    User   `json:"user"`
	Token   string `json:"token,omitempty"`
}

// ValidRoles defines the available roles in the system
var ValidRoles = []string{
	"Admin",
	"Viewer",
}

// IsValidRole checks if a role is valid
func IsValidRole(role string) bool {
	for _, validRole := range ValidRoles {
		if role == validRole {
			return true
		}
	}
	return false
}
