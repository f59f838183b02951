package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/cache"
	teacherController "schoolku_backend/internals/features/school/teachers/controller"
)

// TeacherRoutes — reads for any authenticated member, writes admin-level
// (enforced in the handlers against the record's tenant).
func TeacherRoutes(api fiber.Router, db, readDB *gorm.DB, cacheSvc *cache.Service) {
	ctl := teacherController.NewTeacherController(db, readDB, cacheSvc)

	teachers := api.Group("/teachers")
	teachers.Get("/", ctl.GetTeachers)
	teachers.Post("/", ctl.CreateTeacher)
	teachers.Get("/:id", ctl.GetTeacher)
	teachers.Put("/:id", ctl.UpdateTeacher)
	teachers.Delete("/:id", ctl.DeleteTeacher)
}
