package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/constants"
	adminController "schoolku_backend/internals/features/admin/controller"
	"schoolku_backend/internals/middlewares/auth"
)

// AdminRoutes — the whole group is admin-level; per-record tenant checks run
// in the handlers, system health is super admin only.
func AdminRoutes(api fiber.Router, db, readDB *gorm.DB, cacheSvc *cache.Service) {
	ctl := adminController.NewAdminController(db, readDB, cacheSvc)

	admin := api.Group("/admin", auth.RequireAdminLevel(constants.RoleErrorAdmin("admin")))
	admin.Get("/dashboard", ctl.GetDashboard)
	admin.Get("/users", ctl.GetUsers)
	admin.Get("/users/:id", ctl.GetUser)
	admin.Put("/users/:id", ctl.UpdateUser)
	admin.Delete("/users/:id", ctl.DeleteUser)
	admin.Post("/schools/:id/users", ctl.CreateSchoolUser)
	admin.Get("/schools/:id/reports/attendance", ctl.GetAttendanceReport)
	admin.Get("/schools/:id/reports/grades", ctl.GetGradesReport)
	admin.Get("/system/health", auth.RequireSuperAdmin(constants.RoleErrorSuper("system health")), ctl.GetSystemHealth)
}
