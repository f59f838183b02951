package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/cache"
	studentController "schoolku_backend/internals/features/school/students/controller"
)

// StudentRoutes — list/get open to any authenticated school member (policy
// checks run in the handlers), writes are teacher-level.
func StudentRoutes(api fiber.Router, db, readDB *gorm.DB, cacheSvc *cache.Service) {
	ctl := studentController.NewStudentController(db, readDB, cacheSvc)

	students := api.Group("/students")
	students.Get("/", ctl.GetStudents)
	students.Post("/", ctl.CreateStudent)
	students.Get("/:id", ctl.GetStudent)
	students.Put("/:id", ctl.UpdateStudent)
	students.Delete("/:id", ctl.DeleteStudent)
}
