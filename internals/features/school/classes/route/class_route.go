package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/cache"
	classController "schoolku_backend/internals/features/school/classes/controller"
)

func ClassRoutes(api fiber.Router, db, readDB *gorm.DB, cacheSvc *cache.Service) {
	ctl := classController.NewClassController(db, readDB, cacheSvc)

	classes := api.Group("/classes")
	classes.Get("/", ctl.GetClasses)
	classes.Post("/", ctl.CreateClass)
	classes.Get("/:id", ctl.GetClass)
	classes.Get("/:id/students", ctl.GetClassStudents)
	classes.Put("/:id", ctl.UpdateClass)
	classes.Delete("/:id", ctl.DeleteClass)
}
