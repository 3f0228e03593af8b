package dto

// UserResponse describes the authenticated caller.
type UserResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	UID   string `json:"uid"`
}
