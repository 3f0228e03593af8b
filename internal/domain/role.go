package domain

// Role is the single authorization attribute kept per user.
type Role string

const (
	RoleKasubag Role = "Kasubag"
	RolePetugas Role = "Petugas"
	RoleUser    Role = "User"
)

// DefaultRole applies to users without a role record.
const DefaultRole = RoleUser

// Permission names a role-gated action.
type Permission int

const (
	PermissionUpdateReports Permission = iota + 1
	PermissionExportReports
)

func (p Permission) String() string {
	switch p {
	case PermissionUpdateReports:
		return "update_reports"
	case PermissionExportReports:
		return "export_reports"
	default:
		return "unknown"
	}
}

// Can reports whether the role grants the permission. Unknown roles grant nothing.
func (r Role) Can(p Permission) bool {
	switch r {
	case RoleKasubag:
		return p == PermissionUpdateReports || p == PermissionExportReports
	case RolePetugas:
		return p == PermissionUpdateReports
	case RoleUser:
		return false
	default:
		return false
	}
}

// Identity is the authenticated caller resolved for one request.
type Identity struct {
	UID   string
	Email string
	Role  Role
}
