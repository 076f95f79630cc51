// internal/app/features/invitations/types.go
package invitations

type createInvitationRequest struct {
	Email    string `json:"email" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin teacher parent"`
	SchoolID string `json:"schoolId" validate:"required"`
}

type createInvitationResponse struct {
	Success      bool   `json:"success"`
	InvitationID string `json:"invitationId"`
	Token        string `json:"token"`
}

type acceptInvitationRequest struct {
	Token       string `json:"token" validate:"required"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"displayName"`
}

type acceptInvitationResponse struct {
	Success  bool   `json:"success"`
	UID      string `json:"uid"`
	SchoolID string `json:"schoolId"`
	Role     string `json:"role"`
}
