package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/access"
	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/constants"
	gradeDTO "schoolku_backend/internals/features/school/grades/dto"
	gradeModel "schoolku_backend/internals/features/school/grades/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperr"
	"schoolku_backend/internals/middlewares/auth"
	"schoolku_backend/internals/repository"
)

const gradeCollection = "grades"

type GradeController struct {
	DB     *gorm.DB
	ReadDB *gorm.DB
	Cache  *cache.Service
}

func NewGradeController(db, readDB *gorm.DB, cacheSvc *cache.Service) *GradeController {
	return &GradeController{DB: db, ReadDB: readDB, Cache: cacheSvc}
}

func (ctl *GradeController) read() *gorm.DB {
	if ctl.ReadDB != nil {
		return ctl.ReadDB
	}
	return ctl.DB
}

// GetGrades — cursor-paginated tenant list, cached.
func (ctl *GradeController) GetGrades(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	schoolID, err := helper.ResolveTenant(c, id)
	if err != nil {
		return helper.FromError(c, err)
	}

	cur := helper.ParseCursor(c)
	studentID := helper.QueryUint(c, "student_id")
	subjectID := helper.QueryUint(c, "subject_id")
	assignmentType := strings.TrimSpace(c.Query("assignment_type"))

	params := map[string]string{
		"limit":    strconv.Itoa(cur.Limit),
		"after_id": strconv.FormatUint(uint64(cur.AfterID), 10),
	}
	if studentID != nil {
		params["student_id"] = strconv.FormatUint(uint64(*studentID), 10)
	}
	if subjectID != nil {
		params["subject_id"] = strconv.FormatUint(uint64(*subjectID), 10)
	}
	if assignmentType != "" {
		params["assignment_type"] = assignmentType
	}

	ckey := cache.ListKey(gradeCollection, schoolID, params)
	if data, ok := ctl.Cache.GetPage(c.Context(), ckey); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}

	scopes := []func(*gorm.DB) *gorm.DB{repository.TenantScope(schoolID)}
	if studentID != nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("student_id = ?", *studentID)
		})
	}
	if subjectID != nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("subject_id = ?", *subjectID)
		})
	}
	if assignmentType != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("assignment_type = ?", assignmentType)
		})
	}

	page, err := repository.ListPage[gradeModel.GradeModel](ctl.read().WithContext(c.Context()), cur, scopes...)
	if err != nil {
		return helper.FromError(c, err)
	}

	payload := fiber.Map{
		"success":       true,
		"grades":        page.Items,
		"next_after_id": page.NextAfterID,
	}
	ctl.Cache.SetPage(c.Context(), ckey, payload)
	return c.JSON(payload)
}

// GetGrade — tenant-checked detail with derived views.
func (ctl *GradeController) GetGrade(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	gradeID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid grade id")
	}

	grade, err := repository.Find[gradeModel.GradeModel](ctl.read().WithContext(c.Context()), gradeID, "Grade not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanViewRecord(id, grade.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Access denied to this grade")
	}
	return helper.JsonOK(c, "", fiber.Map{
		"grade":             grade,
		"grade_point":       grade.GradePoint(),
		"is_passing":        grade.IsPassing(),
		"performance_level": grade.PerformanceLevel(),
		"is_late":           grade.IsLate(),
	})
}

// GetStatistics — per-student aggregates: average percentage, GPA and pass
// rate, computed on read.
func (ctl *GradeController) GetStatistics(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	studentID := helper.QueryUint(c, "student_id")
	if studentID == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id required")
	}

	db := ctl.read().WithContext(c.Context())
	student, err := repository.Find[studentModel.StudentModel](db, *studentID, "Student not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanViewRecord(id, student.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Access denied to this student")
	}

	var grades []gradeModel.GradeModel
	if err := db.Where("student_id = ?", student.ID).Find(&grades).Error; err != nil {
		return helper.FromError(c, apperr.FromGorm(err, ""))
	}

	stats := fiber.Map{
		"total_grades":       len(grades),
		"average_percentage": 0.0,
		"gpa":                0.0,
		"pass_rate":          0.0,
	}
	if len(grades) > 0 {
		var sumPct, sumPoints float64
		var passing int
		for i := range grades {
			sumPct += grades[i].Percentage
			sumPoints += grades[i].GradePoint()
			if grades[i].IsPassing() {
				passing++
			}
		}
		n := float64(len(grades))
		stats["average_percentage"] = sumPct / n
		stats["gpa"] = sumPoints / n
		stats["pass_rate"] = float64(passing) / n * 100
	}

	return helper.JsonOK(c, "", fiber.Map{
		"student_id": student.ID,
		"statistics": stats,
	})
}

// CreateGrade — teacher-level within tenant.
func (ctl *GradeController) CreateGrade(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}

	var req gradeDTO.CreateGradeRequest
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
	if !access.CanManageRecord(id, schoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("nilai"))
	}

	grade, err := req.ToModel(schoolID)
	if err != nil {
		return helper.FromError(c, err)
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.FindInTenant[studentModel.StudentModel](tx, grade.StudentID, schoolID, "Student not found"); err != nil {
			return err
		}
		return apperr.FromGorm(tx.Create(grade).Error, "")
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), gradeCollection, schoolID)
	return helper.JsonCreated(c, "Grade recorded", fiber.Map{"grade": grade})
}

// UpdateGrade — partial update; derived fields recompute on save.
func (ctl *GradeController) UpdateGrade(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	gradeID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid grade id")
	}

	grade, err := repository.Find[gradeModel.GradeModel](ctl.DB.WithContext(c.Context()), gradeID, "Grade not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageRecord(id, grade.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("nilai"))
	}

	var req gradeDTO.UpdateGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := req.ApplyToModel(grade); err != nil {
		return helper.FromError(c, err)
	}
	if err := ctl.DB.WithContext(c.Context()).Save(grade).Error; err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), gradeCollection, grade.SchoolID)
	return helper.JsonOK(c, "Grade updated", fiber.Map{"grade": grade})
}

// DeleteGrade — teacher-level within tenant.
func (ctl *GradeController) DeleteGrade(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	gradeID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid grade id")
	}

	grade, err := repository.Find[gradeModel.GradeModel](ctl.DB.WithContext(c.Context()), gradeID, "Grade not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageRecord(id, grade.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("nilai"))
	}

	if err := ctl.DB.WithContext(c.Context()).Delete(grade).Error; err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), gradeCollection, grade.SchoolID)
	return helper.JsonOK(c, "Grade deleted", nil)
}
