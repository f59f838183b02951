// Package access holds the role hierarchy and the tenant access policy.
// Every function here is pure: no I/O, no store lookups. Callers resolve
// records first (NotFound is decided before policy, never by it).
package access

import (
	"schoolku_backend/internals/constants"
)

/* =======================================================
   ROLE HIERARCHY
   ======================================================= */

// IsAdminLevel reports membership in the admin privilege class.
// school_admin, principal and director are interchangeable here.
func IsAdminLevel(role string) bool {
	switch role {
	case constants.RoleSuperAdmin, constants.RoleSchoolAdmin,
		constants.RolePrincipal, constants.RoleDirector:
		return true
	}
	return false
}

// IsTeacherLevel reports teacher privileges or higher.
func IsTeacherLevel(role string) bool {
	return role == constants.RoleTeacher || IsAdminLevel(role)
}

// IsStudentLevel reports any authenticated school role.
func IsStudentLevel(role string) bool {
	return role == constants.RoleStudent || IsTeacherLevel(role)
}

/* =======================================================
   ACCESS POLICY
   ======================================================= */

// CanReadSchool: super admin reads any school, everyone else only their own.
func CanReadSchool(id Identity, schoolID uint) bool {
	return id.IsSuperAdmin() || id.BelongsTo(schoolID)
}

// CanManageSchool: super admin manages any school; admin-level roles manage
// their own school only. Teachers and students never manage a school.
func CanManageSchool(id Identity, schoolID uint) bool {
	if id.IsSuperAdmin() {
		return true
	}
	return IsAdminLevel(id.Role) && id.BelongsTo(schoolID)
}

// CanManageUser: super admin manages anyone; admin-level roles manage users of
// their own school. The caller must have resolved the target already — a
// missing target is NotFound, not a policy deny.
func CanManageUser(id Identity, targetSchoolID *uint) bool {
	if id.IsSuperAdmin() {
		return true
	}
	if !IsAdminLevel(id.Role) {
		return false
	}
	return targetSchoolID != nil && id.BelongsTo(*targetSchoolID)
}

// CanViewRecord applies uniformly to students, teachers, classes, subjects,
// attendance and grades: same tenant, or super admin.
func CanViewRecord(id Identity, recordSchoolID uint) bool {
	return id.IsSuperAdmin() || id.BelongsTo(recordSchoolID)
}

// CanManageRecord gates writes on academic records (attendance, grades):
// teacher-level within the tenant, or super admin.
func CanManageRecord(id Identity, recordSchoolID uint) bool {
	if id.IsSuperAdmin() {
		return true
	}
	return IsTeacherLevel(id.Role) && id.BelongsTo(recordSchoolID)
}

// CanChangeRole: only super admin may set or change another user's role,
// regardless of any manage-user rights the caller holds.
func CanChangeRole(id Identity) bool {
	return id.IsSuperAdmin()
}

// CanCreateWithRole: creating a super_admin user is reserved to super admins;
// any other role may be assigned by whoever already passed the manage check.
func CanCreateWithRole(id Identity, role string) bool {
	if role == constants.RoleSuperAdmin {
		return id.IsSuperAdmin()
	}
	return true
}

/* =======================================================
   DECISION WRAPPERS
   Handlers evaluate these after resolving the record; the
   Deny reason is the response message.
   ======================================================= */

func ReadSchool(schoolID uint) func(Identity) Decision {
	return func(id Identity) Decision {
		if CanReadSchool(id, schoolID) {
			return Allow()
		}
		return Deny("Access denied to this school")
	}
}

func ManageSchool(schoolID uint) func(Identity) Decision {
	return func(id Identity) Decision {
		if CanManageSchool(id, schoolID) {
			return Allow()
		}
		return Deny("Access denied to manage this school")
	}
}

func ManageUser(targetSchoolID *uint) func(Identity) Decision {
	return func(id Identity) Decision {
		if CanManageUser(id, targetSchoolID) {
			return Allow()
		}
		return Deny("Access denied to manage this user")
	}
}
