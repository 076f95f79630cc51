// internal/app/features/users/types.go
package users

// createUserRequest is the payload of adminCreateUser.
type createUserRequest struct {
	Username       string `json:"username" validate:"required"`
	Password       string `json:"password" validate:"required"`
	Name           string `json:"name"`
	Role           string `json:"role" validate:"required,oneof=teacher student admin"`
	OrganizationID string `json:"organizationId"`
}

type createUserResponse struct {
	Success  bool   `json:"success"`
	UID      string `json:"uid"`
	Username string `json:"username"`
}

// updateUserRequest is the payload of adminUpdateUser. Empty optional
// fields are left unchanged.
type updateUserRequest struct {
	UID      string `json:"uid" validate:"required"`
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type updateUserResponse struct {
	Success bool   `json:"success"`
	UID     string `json:"uid"`
}
