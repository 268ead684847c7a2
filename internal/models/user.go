package models

// UserRole represents a profile role.
type UserRole string

const (
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
	RoleTeamMember UserRole = "team_member"
	RoleClient     UserRole = "client"
)

// DefaultTeamRoles are the roles that can hold availability.
var DefaultTeamRoles = []UserRole{RoleInstructor, RoleAdmin, RoleTeamMember}

// Profile is a team member as stored in profiles.
type Profile struct {
	ID        string   `db:"id" json:"id"`
	FullName  *string  `db:"full_name" json:"full_name"`
	AvatarURL *string  `db:"avatar_url" json:"avatar_url"`
	Role      UserRole `db:"role" json:"role"`
}

// DisplayName returns the full name, or an empty string when unset.
func (p Profile) DisplayName() string {
	if p.FullName == nil {
		return ""
	}
	return *p.FullName
}
