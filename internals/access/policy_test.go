package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schoolku_backend/internals/constants"
)

func ptr(v uint) *uint { return &v }

func TestRoleHierarchy(t *testing.T) {
	assert.True(t, IsAdminLevel(constants.RoleSuperAdmin))
	assert.True(t, IsAdminLevel(constants.RoleSchoolAdmin))
	assert.True(t, IsAdminLevel(constants.RolePrincipal))
	assert.True(t, IsAdminLevel(constants.RoleDirector))
	assert.False(t, IsAdminLevel(constants.RoleTeacher))
	assert.False(t, IsAdminLevel(constants.RoleStudent))
	assert.False(t, IsAdminLevel("janitor"))

	assert.True(t, IsTeacherLevel(constants.RoleTeacher))
	assert.True(t, IsTeacherLevel(constants.RolePrincipal))
	assert.False(t, IsTeacherLevel(constants.RoleStudent))

	assert.True(t, IsStudentLevel(constants.RoleStudent))
	assert.True(t, IsStudentLevel(constants.RoleTeacher))
	assert.False(t, IsStudentLevel(""))
}

// Admin-level roles are interchangeable: every policy answer must be the same
// for school_admin, principal and director.
func TestAdminLevelRolesAreInterchangeable(t *testing.T) {
	roles := []string{constants.RoleSchoolAdmin, constants.RolePrincipal, constants.RoleDirector}
	for _, role := range roles {
		id := Identity{UserID: 1, Role: role, SchoolID: ptr(10)}

		assert.True(t, CanReadSchool(id, 10), role)
		assert.False(t, CanReadSchool(id, 11), role)
		assert.True(t, CanManageSchool(id, 10), role)
		assert.False(t, CanManageSchool(id, 11), role)
		assert.True(t, CanManageUser(id, ptr(10)), role)
		assert.False(t, CanManageUser(id, ptr(11)), role)
		assert.True(t, CanManageRecord(id, 10), role)
		assert.False(t, CanChangeRole(id), role)
	}
}

func TestSuperAdminCrossesTenants(t *testing.T) {
	super := Identity{UserID: 1, Role: constants.RoleSuperAdmin}

	assert.True(t, super.IsSuperAdmin())
	assert.True(t, CanReadSchool(super, 1))
	assert.True(t, CanReadSchool(super, 999))
	assert.True(t, CanManageSchool(super, 999))
	assert.True(t, CanManageUser(super, nil))
	assert.True(t, CanViewRecord(super, 42))
	assert.True(t, CanManageRecord(super, 42))
	assert.True(t, CanChangeRole(super))
	assert.True(t, CanCreateWithRole(super, constants.RoleSuperAdmin))
}

func TestTenantIsolation(t *testing.T) {
	teacher := Identity{UserID: 2, Role: constants.RoleTeacher, SchoolID: ptr(1)}
	student := Identity{UserID: 3, Role: constants.RoleStudent, SchoolID: ptr(1)}

	// Same tenant.
	assert.True(t, CanViewRecord(teacher, 1))
	assert.True(t, CanViewRecord(student, 1))
	assert.True(t, CanManageRecord(teacher, 1))
	assert.False(t, CanManageRecord(student, 1))

	// Cross tenant: nobody below super admin gets through.
	assert.False(t, CanViewRecord(teacher, 2))
	assert.False(t, CanViewRecord(student, 2))
	assert.False(t, CanManageRecord(teacher, 2))
	assert.False(t, CanReadSchool(teacher, 2))
	assert.False(t, CanManageSchool(teacher, 1))
}

func TestCanManageUserNeedsResolvedTarget(t *testing.T) {
	admin := Identity{UserID: 1, Role: constants.RoleSchoolAdmin, SchoolID: ptr(5)}

	assert.True(t, CanManageUser(admin, ptr(5)))
	assert.False(t, CanManageUser(admin, ptr(6)))
	// A target without a school (super admin account) is off limits.
	assert.False(t, CanManageUser(admin, nil))

	teacher := Identity{UserID: 2, Role: constants.RoleTeacher, SchoolID: ptr(5)}
	assert.False(t, CanManageUser(teacher, ptr(5)))
}

func TestCanCreateWithRole(t *testing.T) {
	admin := Identity{UserID: 1, Role: constants.RoleSchoolAdmin, SchoolID: ptr(5)}

	assert.True(t, CanCreateWithRole(admin, constants.RoleTeacher))
	assert.True(t, CanCreateWithRole(admin, constants.RoleStudent))
	assert.False(t, CanCreateWithRole(admin, constants.RoleSuperAdmin))
}

func TestDecisionWrappers(t *testing.T) {
	teacher := Identity{UserID: 2, Role: constants.RoleTeacher, SchoolID: ptr(1)}

	d := ReadSchool(1)(teacher)
	assert.True(t, d.Allowed)

	d = ReadSchool(2)(teacher)
	assert.False(t, d.Allowed)
	assert.NotEmpty(t, d.Reason)

	d = ManageSchool(1)(teacher)
	assert.False(t, d.Allowed)

	d = ManageUser(ptr(1))(teacher)
	assert.False(t, d.Allowed)
}
