package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/access"
	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/constants"
	classModel "schoolku_backend/internals/features/school/classes/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	subjectModel "schoolku_backend/internals/features/school/subjects/model"
	teacherDTO "schoolku_backend/internals/features/school/teachers/dto"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	userDTO "schoolku_backend/internals/features/users/user/dto"
	userModel "schoolku_backend/internals/features/users/user/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperr"
	"schoolku_backend/internals/middlewares/auth"
	"schoolku_backend/internals/repository"
)

const teacherCollection = "teachers"

type TeacherController struct {
	DB     *gorm.DB
	ReadDB *gorm.DB
	Cache  *cache.Service
}

func NewTeacherController(db, readDB *gorm.DB, cacheSvc *cache.Service) *TeacherController {
	return &TeacherController{DB: db, ReadDB: readDB, Cache: cacheSvc}
}

func (ctl *TeacherController) read() *gorm.DB {
	if ctl.ReadDB != nil {
		return ctl.ReadDB
	}
	return ctl.DB
}

// GetTeachers — cursor-paginated tenant list, cached.
func (ctl *TeacherController) GetTeachers(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	schoolID, err := helper.ResolveTenant(c, id)
	if err != nil {
		return helper.FromError(c, err)
	}

	cur := helper.ParseCursor(c)
	department := strings.TrimSpace(c.Query("department"))
	status := strings.TrimSpace(c.Query("status"))

	params := map[string]string{
		"limit":    strconv.Itoa(cur.Limit),
		"after_id": strconv.FormatUint(uint64(cur.AfterID), 10),
	}
	if department != "" {
		params["department"] = department
	}
	if status != "" {
		params["status"] = status
	}

	ckey := cache.ListKey(teacherCollection, schoolID, params)
	if data, ok := ctl.Cache.GetPage(c.Context(), ckey); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}

	scopes := []func(*gorm.DB) *gorm.DB{repository.TenantScope(schoolID)}
	if department != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("department = ?", department)
		})
	}
	if status != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status)
		})
	}

	page, err := repository.ListPage[teacherModel.TeacherModel](ctl.read().WithContext(c.Context()), cur, scopes...)
	if err != nil {
		return helper.FromError(c, err)
	}

	payload := fiber.Map{
		"success":       true,
		"teachers":      page.Items,
		"next_after_id": page.NextAfterID,
	}
	ctl.Cache.SetPage(c.Context(), ckey, payload)
	return c.JSON(payload)
}

// GetTeacher — detail with the account row and teaching workload.
func (ctl *TeacherController) GetTeacher(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	teacherID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid teacher id")
	}

	teacher, err := repository.Find[teacherModel.TeacherModel](ctl.read().WithContext(c.Context()), teacherID, "Teacher not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanViewRecord(id, teacher.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Access denied to this teacher")
	}

	db := ctl.read().WithContext(c.Context())

	var user userModel.UserModel
	if err := db.First(&user, teacher.UserID).Error; err != nil {
		return helper.FromError(c, apperr.FromGorm(err, "Teacher account not found"))
	}

	subjects, err := repository.Count[subjectModel.SubjectModel](db, func(q *gorm.DB) *gorm.DB {
		return q.Where("teacher_id = ?", teacher.ID)
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	classes, err := repository.Count[classModel.ClassModel](db, func(q *gorm.DB) *gorm.DB {
		return q.Where("class_teacher_id = ?", teacher.ID)
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	// Siswa aktif di kelas yang diampu wali kelas ini.
	var students int64
	if err := db.Model(&studentModel.StudentModel{}).
		Where("status = ?", "active").
		Where("current_class_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&classModel.ClassModel{}).
				Select("id").
				Where("class_teacher_id = ?", teacher.ID)).
		Count(&students).Error; err != nil {
		return helper.FromError(c, apperr.FromGorm(err, ""))
	}

	return helper.JsonOK(c, "", fiber.Map{
		"teacher":       teacher,
		"user":          userDTO.FromModel(&user),
		"subject_count": subjects,
		"class_count":   classes,
		"student_count": students,
	})
}

// CreateTeacher — admin-level within tenant; the account must already exist
// with the teacher role.
func (ctl *TeacherController) CreateTeacher(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}

	var req teacherDTO.CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	schoolID, err := helper.ResolveTenantForWrite(id, req.SchoolID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageSchool(id, schoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorAdmin("data guru"))
	}

	teacher, err := req.ToModel(schoolID)
	if err != nil {
		return helper.FromError(c, err)
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var user userModel.UserModel
		if err := tx.First(&user, teacher.UserID).Error; err != nil {
			return apperr.FromGorm(err, "User account not found")
		}
		if user.Role != constants.RoleTeacher {
			return apperr.New(apperr.Validation, "User is not a teacher account")
		}
		if user.SchoolID == nil || *user.SchoolID != schoolID {
			return apperr.New(apperr.Validation, "User belongs to a different school")
		}
		return apperr.FromGorm(tx.Create(teacher).Error, "")
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), teacherCollection, schoolID)
	return helper.JsonCreated(c, "Teacher created", fiber.Map{"teacher": teacher})
}

// UpdateTeacher — partial update, admin-level within tenant.
func (ctl *TeacherController) UpdateTeacher(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	teacherID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid teacher id")
	}

	teacher, err := repository.Find[teacherModel.TeacherModel](ctl.DB.WithContext(c.Context()), teacherID, "Teacher not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageSchool(id, teacher.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorAdmin("data guru"))
	}

	var req teacherDTO.UpdateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	req.ApplyToModel(teacher)
	if err := ctl.DB.WithContext(c.Context()).Save(teacher).Error; err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), teacherCollection, teacher.SchoolID)
	return helper.JsonOK(c, "Teacher updated", fiber.Map{"teacher": teacher})
}

// DeleteTeacher — refused while the teacher still owns subjects; reassign
// them first so classes never lose their subject teacher silently.
func (ctl *TeacherController) DeleteTeacher(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	teacherID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid teacher id")
	}

	teacher, err := repository.Find[teacherModel.TeacherModel](ctl.DB.WithContext(c.Context()), teacherID, "Teacher not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageSchool(id, teacher.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorAdmin("data guru"))
	}

	subjects, err := repository.Count[subjectModel.SubjectModel](ctl.DB.WithContext(c.Context()), func(q *gorm.DB) *gorm.DB {
		return q.Where("teacher_id = ?", teacher.ID)
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	if subjects > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Cannot delete teacher with assigned subjects")
	}

	if err := ctl.DB.WithContext(c.Context()).Delete(teacher).Error; err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), teacherCollection, teacher.SchoolID)
	return helper.JsonOK(c, "Teacher deleted", nil)
}
