package constants

// User roles. Government staff hold director/analyst roles; supplier
// organizations hold signing-authority and viewer roles.
const (
	Director         = "director"
	Analyst          = "analyst"
	SigningAuthority = "signing_authority"
	Viewer           = "viewer"
)

// ValidRoles is the set of allowed DB enum values for user role.
var ValidRoles = []string{Viewer, SigningAuthority, Analyst, Director}

// IsValidRole returns true if role is one of the allowed enum values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
