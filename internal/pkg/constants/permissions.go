package constants

const (
	ViewData           = "view_data"
	SubmitReport       = "submit_report"
	ApproveReport      = "approve_report"
	TransferCredits    = "transfer_credits"
	CreateReassessment = "create_reassessment"
	CreateOrg          = "create_org"
	UpdateOrg          = "update_org"
	ManageUsers        = "manage_users"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewData:           {Viewer, SigningAuthority, Analyst, Director},
	SubmitReport:       {SigningAuthority},
	ApproveReport:      {Analyst, Director},
	TransferCredits:    {SigningAuthority},
	CreateReassessment: {Analyst, Director},
	CreateOrg:          {Analyst, Director},
	UpdateOrg:          {SigningAuthority, Analyst, Director},
	ManageUsers:        {Director},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
