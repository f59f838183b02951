package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/access"
	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/constants"
	attendanceModel "schoolku_backend/internals/features/school/attendance/model"
	classModel "schoolku_backend/internals/features/school/classes/model"
	gradeModel "schoolku_backend/internals/features/school/grades/model"
	subjectDTO "schoolku_backend/internals/features/school/subjects/dto"
	subjectModel "schoolku_backend/internals/features/school/subjects/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperr"
	"schoolku_backend/internals/middlewares/auth"
	"schoolku_backend/internals/repository"
)

const subjectCollection = "subjects"

type SubjectController struct {
	DB     *gorm.DB
	ReadDB *gorm.DB
	Cache  *cache.Service
}

func NewSubjectController(db, readDB *gorm.DB, cacheSvc *cache.Service) *SubjectController {
	return &SubjectController{DB: db, ReadDB: readDB, Cache: cacheSvc}
}

func (ctl *SubjectController) read() *gorm.DB {
	if ctl.ReadDB != nil {
		return ctl.ReadDB
	}
	return ctl.DB
}

// GetSubjects — cursor-paginated tenant list, cached.
func (ctl *SubjectController) GetSubjects(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	schoolID, err := helper.ResolveTenant(c, id)
	if err != nil {
		return helper.FromError(c, err)
	}

	cur := helper.ParseCursor(c)
	classID := helper.QueryUint(c, "class_id")
	teacherID := helper.QueryUint(c, "teacher_id")
	status := strings.TrimSpace(c.Query("status"))

	params := map[string]string{
		"limit":    strconv.Itoa(cur.Limit),
		"after_id": strconv.FormatUint(uint64(cur.AfterID), 10),
	}
	if classID != nil {
		params["class_id"] = strconv.FormatUint(uint64(*classID), 10)
	}
	if teacherID != nil {
		params["teacher_id"] = strconv.FormatUint(uint64(*teacherID), 10)
	}
	if status != "" {
		params["status"] = status
	}

	ckey := cache.ListKey(subjectCollection, schoolID, params)
	if data, ok := ctl.Cache.GetPage(c.Context(), ckey); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}

	scopes := []func(*gorm.DB) *gorm.DB{repository.TenantScope(schoolID)}
	if classID != nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("class_id = ?", *classID)
		})
	}
	if teacherID != nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("teacher_id = ?", *teacherID)
		})
	}
	if status != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status)
		})
	}

	page, err := repository.ListPage[subjectModel.SubjectModel](ctl.read().WithContext(c.Context()), cur, scopes...)
	if err != nil {
		return helper.FromError(c, err)
	}

	payload := fiber.Map{
		"success":       true,
		"subjects":      page.Items,
		"next_after_id": page.NextAfterID,
	}
	ctl.Cache.SetPage(c.Context(), ckey, payload)
	return c.JSON(payload)
}

// GetSubject — tenant-checked detail with attendance and grade aggregates.
func (ctl *SubjectController) GetSubject(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	subjectID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid subject id")
	}

	db := ctl.read().WithContext(c.Context())
	subject, err := repository.Find[subjectModel.SubjectModel](db, subjectID, "Subject not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanViewRecord(id, subject.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Access denied to this subject")
	}

	summary, err := subjectAttendanceSummary(db, subject.ID)
	if err != nil {
		return helper.FromError(c, err)
	}

	var avgGrade float64
	if err := db.Model(&gradeModel.GradeModel{}).
		Where("subject_id = ?", subject.ID).
		Select("COALESCE(AVG(percentage), 0)").
		Scan(&avgGrade).Error; err != nil {
		return helper.FromError(c, apperr.FromGorm(err, ""))
	}

	return helper.JsonOK(c, "", fiber.Map{
		"subject":            subject,
		"attendance_summary": summary,
		"average_grade":      avgGrade,
	})
}

func subjectAttendanceSummary(db *gorm.DB, subjectID uint) (attendanceModel.Summary, error) {
	var s attendanceModel.Summary
	base := db.Model(&attendanceModel.AttendanceModel{}).Where("subject_id = ?", subjectID)
	if err := base.Session(&gorm.Session{}).Count(&s.TotalRecords).Error; err != nil {
		return s, apperr.FromGorm(err, "")
	}
	var rows []struct {
		Status string
		N      int64
	}
	if err := base.Session(&gorm.Session{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return s, apperr.FromGorm(err, "")
	}
	for _, r := range rows {
		switch r.Status {
		case attendanceModel.StatusPresent:
			s.Present = r.N
		case attendanceModel.StatusAbsent:
			s.Absent = r.N
		case attendanceModel.StatusLate:
			s.Late = r.N
		case attendanceModel.StatusExcused:
			s.Excused = r.N
		}
	}
	if s.TotalRecords > 0 {
		s.AttendancePercentage = float64(s.Present+s.Late) / float64(s.TotalRecords) * 100
	}
	return s, nil
}

// CreateSubject — teacher-level; class and teacher must live in the same
// tenant as the subject.
func (ctl *SubjectController) CreateSubject(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}

	var req subjectDTO.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	schoolID, err := helper.ResolveTenantForWrite(id, req.SchoolID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageRecord(id, schoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("data mata pelajaran"))
	}

	subject := req.ToModel(schoolID)

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.FindInTenant[classModel.ClassModel](tx, subject.ClassID, schoolID, "Class not found"); err != nil {
			return err
		}
		if _, err := repository.FindInTenant[teacherModel.TeacherModel](tx, subject.TeacherID, schoolID, "Teacher not found"); err != nil {
			return err
		}
		return apperr.FromGorm(tx.Create(subject).Error, "")
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), subjectCollection, schoolID)
	return helper.JsonCreated(c, "Subject created", fiber.Map{"subject": subject})
}

// UpdateSubject — partial update; teacher reassignment stays in-tenant.
func (ctl *SubjectController) UpdateSubject(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	subjectID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid subject id")
	}

	subject, err := repository.Find[subjectModel.SubjectModel](ctl.DB.WithContext(c.Context()), subjectID, "Subject not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageRecord(id, subject.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("data mata pelajaran"))
	}

	var req subjectDTO.UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if req.TeacherID != nil {
			if _, err := repository.FindInTenant[teacherModel.TeacherModel](tx, *req.TeacherID, subject.SchoolID, "Teacher not found"); err != nil {
				return err
			}
		}
		req.ApplyToModel(subject)
		return apperr.FromGorm(tx.Save(subject).Error, "")
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), subjectCollection, subject.SchoolID)
	return helper.JsonOK(c, "Subject updated", fiber.Map{"subject": subject})
}

// DeleteSubject — teacher-level within tenant.
func (ctl *SubjectController) DeleteSubject(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	subjectID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid subject id")
	}

	subject, err := repository.Find[subjectModel.SubjectModel](ctl.DB.WithContext(c.Context()), subjectID, "Subject not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageRecord(id, subject.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("data mata pelajaran"))
	}

	if err := ctl.DB.WithContext(c.Context()).Delete(subject).Error; err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), subjectCollection, subject.SchoolID)
	return helper.JsonOK(c, "Subject deleted", nil)
}
