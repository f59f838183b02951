package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/cache"
	subjectController "schoolku_backend/internals/features/school/subjects/controller"
)

func SubjectRoutes(api fiber.Router, db, readDB *gorm.DB, cacheSvc *cache.Service) {
	ctl := subjectController.NewSubjectController(db, readDB, cacheSvc)

	subjects := api.Group("/subjects")
	subjects.Get("/", ctl.GetSubjects)
	subjects.Post("/", ctl.CreateSubject)
	subjects.Get("/:id", ctl.GetSubject)
	subjects.Put("/:id", ctl.UpdateSubject)
	subjects.Delete("/:id", ctl.DeleteSubject)
}
