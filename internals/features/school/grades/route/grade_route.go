package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/cache"
	gradeController "schoolku_backend/internals/features/school/grades/controller"
)

func GradeRoutes(api fiber.Router, db, readDB *gorm.DB, cacheSvc *cache.Service) {
	ctl := gradeController.NewGradeController(db, readDB, cacheSvc)

	grades := api.Group("/grades")
	grades.Get("/", ctl.GetGrades)
	grades.Get("/statistics", ctl.GetStatistics)
	grades.Post("/", ctl.CreateGrade)
	grades.Get("/:id", ctl.GetGrade)
	grades.Put("/:id", ctl.UpdateGrade)
	grades.Delete("/:id", ctl.DeleteGrade)
}
