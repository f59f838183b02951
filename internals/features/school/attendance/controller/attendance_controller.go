package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/access"
	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/constants"
	attendanceDTO "schoolku_backend/internals/features/school/attendance/dto"
	attendanceModel "schoolku_backend/internals/features/school/attendance/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperr"
	"schoolku_backend/internals/middlewares/auth"
	"schoolku_backend/internals/repository"
)

const attendanceCollection = "attendance"

type AttendanceController struct {
	DB     *gorm.DB
	ReadDB *gorm.DB
	Cache  *cache.Service
}

func NewAttendanceController(db, readDB *gorm.DB, cacheSvc *cache.Service) *AttendanceController {
	return &AttendanceController{DB: db, ReadDB: readDB, Cache: cacheSvc}
}

func (ctl *AttendanceController) read() *gorm.DB {
	if ctl.ReadDB != nil {
		return ctl.ReadDB
	}
	return ctl.DB
}

// GetAttendance — cursor-paginated tenant list, cached.
func (ctl *AttendanceController) GetAttendance(c *fiber.Ctx) error {
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
	classID := helper.QueryUint(c, "class_id")
	subjectID := helper.QueryUint(c, "subject_id")
	date := strings.TrimSpace(c.Query("date"))
	status := strings.TrimSpace(c.Query("status"))

	params := map[string]string{
		"limit":    strconv.Itoa(cur.Limit),
		"after_id": strconv.FormatUint(uint64(cur.AfterID), 10),
	}
	if studentID != nil {
		params["student_id"] = strconv.FormatUint(uint64(*studentID), 10)
	}
	if classID != nil {
		params["class_id"] = strconv.FormatUint(uint64(*classID), 10)
	}
	if subjectID != nil {
		params["subject_id"] = strconv.FormatUint(uint64(*subjectID), 10)
	}
	if date != "" {
		params["date"] = date
	}
	if status != "" {
		params["status"] = status
	}

	ckey := cache.ListKey(attendanceCollection, schoolID, params)
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
	if classID != nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("class_id = ?", *classID)
		})
	}
	if subjectID != nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("subject_id = ?", *subjectID)
		})
	}
	if date != "" {
		if d, err := time.Parse("2006-01-02", date); err == nil {
			scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
				return db.Where("date = ?", d)
			})
		}
	}
	if status != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status)
		})
	}

	page, err := repository.ListPage[attendanceModel.AttendanceModel](ctl.read().WithContext(c.Context()), cur, scopes...)
	if err != nil {
		return helper.FromError(c, err)
	}

	payload := fiber.Map{
		"success":       true,
		"attendance":    page.Items,
		"next_after_id": page.NextAfterID,
	}
	ctl.Cache.SetPage(c.Context(), ckey, payload)
	return c.JSON(payload)
}

// GetAttendanceRecord — tenant-checked detail.
func (ctl *AttendanceController) GetAttendanceRecord(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	recordID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attendance id")
	}

	record, err := repository.Find[attendanceModel.AttendanceModel](ctl.read().WithContext(c.Context()), recordID, "Attendance record not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanViewRecord(id, record.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, "Access denied to this record")
	}
	return helper.JsonOK(c, "", fiber.Map{
		"attendance":   record,
		"status_color": record.StatusColor(),
	})
}

// GetSummary — per-student aggregate over an optional date range.
func (ctl *AttendanceController) GetSummary(c *fiber.Ctx) error {
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

	base := db.Model(&attendanceModel.AttendanceModel{}).Where("student_id = ?", student.ID)
	if from := strings.TrimSpace(c.Query("from")); from != "" {
		if d, err := time.Parse("2006-01-02", from); err == nil {
			base = base.Where("date >= ?", d)
		}
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		if d, err := time.Parse("2006-01-02", to); err == nil {
			base = base.Where("date <= ?", d)
		}
	}

	var s attendanceModel.Summary
	if err := base.Session(&gorm.Session{}).Count(&s.TotalRecords).Error; err != nil {
		return helper.FromError(c, apperr.FromGorm(err, ""))
	}
	type statusCount struct {
		Status string
		N      int64
	}
	var rows []statusCount
	if err := base.Session(&gorm.Session{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return helper.FromError(c, apperr.FromGorm(err, ""))
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

	return helper.JsonOK(c, "", fiber.Map{
		"student_id": student.ID,
		"summary":    s,
	})
}

// MarkAttendance — teacher-level create. A second mark for the same
// (student, class, subject, date) surfaces as Conflict from the index.
func (ctl *AttendanceController) MarkAttendance(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}

	var req attendanceDTO.CreateAttendanceRequest
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
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("absensi"))
	}

	record, err := req.ToModel(schoolID)
	if err != nil {
		return helper.FromError(c, err)
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.FindInTenant[studentModel.StudentModel](tx, record.StudentID, schoolID, "Student not found"); err != nil {
			return err
		}
		return apperr.FromGorm(tx.Create(record).Error, "")
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), attendanceCollection, schoolID)
	return helper.JsonCreated(c, "Attendance marked", fiber.Map{"attendance": record})
}

// UpdateAttendance — correct a past observation, teacher-level.
func (ctl *AttendanceController) UpdateAttendance(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	recordID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attendance id")
	}

	record, err := repository.Find[attendanceModel.AttendanceModel](ctl.DB.WithContext(c.Context()), recordID, "Attendance record not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageRecord(id, record.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("absensi"))
	}

	var req attendanceDTO.UpdateAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	req.ApplyToModel(record)
	if err := ctl.DB.WithContext(c.Context()).Save(record).Error; err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), attendanceCollection, record.SchoolID)
	return helper.JsonOK(c, "Attendance updated", fiber.Map{"attendance": record})
}

// DeleteAttendance — teacher-level within tenant.
func (ctl *AttendanceController) DeleteAttendance(c *fiber.Ctx) error {
	id, err := auth.GetIdentity(c)
	if err != nil {
		return err
	}
	recordID, err := helper.ParamUint(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attendance id")
	}

	record, err := repository.Find[attendanceModel.AttendanceModel](ctl.DB.WithContext(c.Context()), recordID, "Attendance record not found")
	if err != nil {
		return helper.FromError(c, err)
	}
	if !access.CanManageRecord(id, record.SchoolID) {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher("absensi"))
	}

	if err := ctl.DB.WithContext(c.Context()).Delete(record).Error; err != nil {
		return helper.FromError(c, err)
	}

	ctl.Cache.Invalidate(c.Context(), attendanceCollection, record.SchoolID)
	return helper.JsonOK(c, "Attendance deleted", nil)
}
