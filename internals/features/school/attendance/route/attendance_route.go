package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/cache"
	attendanceController "schoolku_backend/internals/features/school/attendance/controller"
)

func AttendanceRoutes(api fiber.Router, db, readDB *gorm.DB, cacheSvc *cache.Service) {
	ctl := attendanceController.NewAttendanceController(db, readDB, cacheSvc)

	attendance := api.Group("/attendance")
	attendance.Get("/", ctl.GetAttendance)
	attendance.Get("/summary", ctl.GetSummary)
	attendance.Post("/", ctl.MarkAttendance)
	attendance.Get("/:id", ctl.GetAttendanceRecord)
	attendance.Put("/:id", ctl.UpdateAttendance)
	attendance.Delete("/:id", ctl.DeleteAttendance)
}
