package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/access"
	"schoolku_backend/internals/cache"
	attendanceModel "schoolku_backend/internals/features/school/attendance/model"
	classModel "schoolku_backend/internals/features/school/classes/model"
	gradeModel "schoolku_backend/internals/features/school/grades/model"
	schoolDTO "schoolku_backend/internals/features/school/schools/dto"
	schoolModel "schoolku_backend/internals/features/school/schools/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	subjectModel "schoolku_backend/internals/features/school/subjects/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	userModel "schoolku_backend/internals/features/users/user/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperr"
	"schoolku_backend/internals/middlewares/auth"
	"schoolku_backend/internals/repository"
)

type SchoolController struct {
	DB     *gorm.DB
	ReadDB *gorm.DB
	Cache  *cache.Service
}

func NewSchoolController(db, readDB *gorm.DB, cacheSvc *cache.Service) *SchoolController {
	return &SchoolController{DB: db, ReadDB: readDB, Cache: cacheSvc}
}

func (ctl *SchoolController) read() *gorm.DB {
	if ctl.ReadDB != nil {
		return ctl.ReadDB
	}
	return ctl.DB
}

// GetSchools — super admin pages through all schools; everyone else gets a
// single-element list containing their own school.
func (ctl *SchoolController) GetSchools(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}

	if !id.IsSuperAdmin() {
		if id.SchoolID == nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "No school assigned")
		}
		school, err := repository.Find[schoolModel.SchoolModel](ctl.read().WithContext(c.Context()), *id.SchoolID, "School not found")
		if err != nil {
			return helper.FromError(c, err)
		}
		return helper.JsonOK(c, "", fiber.Map{
			"schools":       []schoolModel.SchoolModel{*school},
			"next_after_id": nil,
		})
	}

	cur := helper.ParseCursor(c)
	page, err := repository.ListPage[schoolModel.SchoolModel](ctl.read().WithContext(c.Context()), cur)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "", fiber.Map{
		"schools":       page.Items,
		"next_after_id": page.NextAfterID,
	})
}

// GetSchool — tenant-checked detail view.
func (ctl *SchoolController) GetSchool(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	schoolID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}

	school, err := repository.Find[schoolModel.SchoolModel](ctl.read().WithContext(c.Context()), schoolID, "School not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if d := access.ReadSchool(school.ID)(id); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}
	return helper.JsonOK(c, "", fiber.Map{"school": school})
}

// CreateSchool — super admin only (guarded at the route).
func (ctl *SchoolController) CreateSchool(c *fiber.Ctx) error {
	var req schoolDTO.CreateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	school := req.ToModel()
	if err := ctl.DB.WithContext(c.Context()).Create(school).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "School created", fiber.Map{"school": school})
}

// UpdateSchool — partial update, admin-level within tenant.
func (ctl *SchoolController) UpdateSchool(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	schoolID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}

	school, err := repository.Find[schoolModel.SchoolModel](ctl.DB.WithContext(c.Context()), schoolID, "School not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if d := access.ManageSchool(school.ID)(id); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	var req schoolDTO.UpdateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	req.ApplyToModel(school)
	if err := ctl.DB.WithContext(c.Context()).Save(school).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "School updated", fiber.Map{"school": school})
}

// DeleteSchool — super admin only. A school that still has users is refused
// with Conflict; callers must move or delete the users first. The count is a
// friendly message, the RESTRICT constraint on users.school_id is the
// authority: a user created after the count makes the delete itself fail.
func (ctl *SchoolController) DeleteSchool(c *fiber.Ctx) error {
	schoolID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}

	school, err := repository.Find[schoolModel.SchoolModel](ctl.DB.WithContext(c.Context()), schoolID, "School not found")
	if err != nil {
		return helper.FromError(c, err)
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		users, err := repository.Count[userModel.UserModel](tx, repository.TenantScope(school.ID))
		if err != nil {
			return err
		}
		if users > 0 {
			return apperr.New(apperr.Conflict, "Cannot delete school with existing users")
		}
		return apperr.FromGorm(tx.Delete(school).Error, "")
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "School deleted", nil)
}

// GetStatistics — live counts per collection, always from the store.
func (ctl *SchoolController) GetStatistics(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	schoolID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}

	school, err := repository.Find[schoolModel.SchoolModel](ctl.read().WithContext(c.Context()), schoolID, "School not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if d := access.ReadSchool(school.ID)(id); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	db := ctl.read().WithContext(c.Context())
	scope := repository.TenantScope(school.ID)

	stats := fiber.Map{}
	counts := []struct {
		name  string
		count func() (int64, error)
	}{
		{"total_users", func() (int64, error) { return repository.Count[userModel.UserModel](db, scope) }},
		{"total_students", func() (int64, error) { return repository.Count[studentModel.StudentModel](db, scope) }},
		{"total_teachers", func() (int64, error) { return repository.Count[teacherModel.TeacherModel](db, scope) }},
		{"total_classes", func() (int64, error) { return repository.Count[classModel.ClassModel](db, scope) }},
		{"total_subjects", func() (int64, error) { return repository.Count[subjectModel.SubjectModel](db, scope) }},
		{"total_attendance_records", func() (int64, error) { return repository.Count[attendanceModel.AttendanceModel](db, scope) }},
		{"total_grades", func() (int64, error) { return repository.Count[gradeModel.GradeModel](db, scope) }},
	}
	for _, item := range counts {
		n, err := item.count()
		if err != nil {
			return helper.FromError(c, err)
		}
		stats[item.name] = n
	}

	return helper.JsonOK(c, "", fiber.Map{
		"school_id":  school.ID,
		"statistics": stats,
	})
}

// GetConfig returns the academic/branding configuration block.
func (ctl *SchoolController) GetConfig(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	schoolID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}

	school, err := repository.Find[schoolModel.SchoolModel](ctl.read().WithContext(c.Context()), schoolID, "School not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if d := access.ReadSchool(school.ID)(id); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}
	return helper.JsonOK(c, "", fiber.Map{"config": schoolDTO.ConfigFromModel(school)})
}

// UpdateConfig — admin-level within tenant.
func (ctl *SchoolController) UpdateConfig(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	schoolID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}

	school, err := repository.Find[schoolModel.SchoolModel](ctl.DB.WithContext(c.Context()), schoolID, "School not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if d := access.ManageSchool(school.ID)(id); !d.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, d.Reason)
	}

	var req schoolDTO.UpdateConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	req.ApplyToModel(school)
	if err := ctl.DB.WithContext(c.Context()).Save(school).Error; err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "School config updated", fiber.Map{"config": schoolDTO.ConfigFromModel(school)})
}
