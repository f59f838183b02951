package constants

import "fmt"

// Role values persisted on users.role. Keep in sync with the role CHECK
// constraint in the users DDL.
const (
	RoleSuperAdmin  = "super_admin"
	RoleSchoolAdmin = "school_admin"
	RolePrincipal   = "principal"
	RoleDirector    = "director"
	RoleTeacher     = "teacher"
	RoleStudent     = "student"
)

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleSuperAdmin,
		RoleSchoolAdmin,
		RolePrincipal,
		RoleDirector,
		RoleTeacher,
		RoleStudent,
	}

	// AdminLevelRoles are interchangeable for every policy decision in this
	// system; principal vs director carries no extra privilege.
	AdminLevelRoles = []string{
		RoleSuperAdmin,
		RoleSchoolAdmin,
		RolePrincipal,
		RoleDirector,
	}

	TeacherAndAbove = []string{
		RoleTeacher,
		RoleSuperAdmin,
		RoleSchoolAdmin,
		RolePrincipal,
		RoleDirector,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Error message templates for role guards.
const (
	ErrOnlyAdminsCanAccess   = "Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyTeachersCanAccess = "Hanya teacher atau admin yang boleh mengakses fitur %s."
	ErrOnlySuperCanAccess    = "Hanya super admin yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

func RoleErrorSuper(feature string) string {
	return fmt.Sprintf(ErrOnlySuperCanAccess, feature)
}
