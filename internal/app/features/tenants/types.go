// internal/app/features/tenants/types.go
package tenants

type createSchoolRequest struct {
	Name           string         `json:"name" validate:"required"`
	AdminEmail     string         `json:"adminEmail" validate:"required"`
	OrganizationID string         `json:"organizationId"`
	Config         map[string]any `json:"config"`
}

type createSchoolResponse struct {
	Success          bool   `json:"success"`
	SchoolID         string `json:"schoolId"`
	InvitationID     string `json:"invitationId"`
	AdminInviteToken string `json:"adminInviteToken"`
}

type createOrganizationRequest struct {
	Name       string `json:"name" validate:"required"`
	AdminEmail string `json:"adminEmail" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type createOrganizationResponse struct {
	Success        bool   `json:"success"`
	OrganizationID string `json:"organizationId"`
	UID            string `json:"uid"`
}
