package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/cache"
	adminRoute "schoolku_backend/internals/features/admin/route"
	attendanceRoute "schoolku_backend/internals/features/school/attendance/route"
	classRoute "schoolku_backend/internals/features/school/classes/route"
	gradeRoute "schoolku_backend/internals/features/school/grades/route"
	schoolRoute "schoolku_backend/internals/features/school/schools/route"
	studentRoute "schoolku_backend/internals/features/school/students/route"
	subjectRoute "schoolku_backend/internals/features/school/subjects/route"
	teacherRoute "schoolku_backend/internals/features/school/teachers/route"
	authRoute "schoolku_backend/internals/features/users/auth/route"
	"schoolku_backend/internals/middlewares/auth"
)

// SetupRoutes mounts everything under /api. Auth endpoints manage their own
// protection; every other group sits behind the auth middleware.
func SetupRoutes(app *fiber.App, db, readDB *gorm.DB, cacheSvc *cache.Service) {
	api := app.Group("/api")

	authRoute.AuthRoutes(api, db)

	protected := api.Group("", auth.AuthMiddleware(db))
	schoolRoute.SchoolRoutes(protected, db, readDB, cacheSvc)
	studentRoute.StudentRoutes(protected, db, readDB, cacheSvc)
	teacherRoute.TeacherRoutes(protected, db, readDB, cacheSvc)
	classRoute.ClassRoutes(protected, db, readDB, cacheSvc)
	subjectRoute.SubjectRoutes(protected, db, readDB, cacheSvc)
	attendanceRoute.AttendanceRoutes(protected, db, readDB, cacheSvc)
	gradeRoute.GradeRoutes(protected, db, readDB, cacheSvc)
	adminRoute.AdminRoutes(protected, db, readDB, cacheSvc)
}
