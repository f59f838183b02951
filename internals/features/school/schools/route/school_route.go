package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/constants"
	schoolController "schoolku_backend/internals/features/school/schools/controller"
	"schoolku_backend/internals/middlewares/auth"
)

// SchoolRoutes — tenant root CRUD plus statistics and config.
func SchoolRoutes(api fiber.Router, db, readDB *gorm.DB, cacheSvc *cache.Service) {
	ctl := schoolController.NewSchoolController(db, readDB, cacheSvc)

	schools := api.Group("/schools")
	schools.Get("/", ctl.GetSchools)
	schools.Post("/", auth.RequireSuperAdmin(constants.RoleErrorSuper("membuat sekolah")), ctl.CreateSchool)
	schools.Get("/:id", ctl.GetSchool)
	schools.Put("/:id", ctl.UpdateSchool)
	schools.Delete("/:id", auth.RequireSuperAdmin(constants.RoleErrorSuper("menghapus sekolah")), ctl.DeleteSchool)
	schools.Get("/:id/statistics", ctl.GetStatistics)
	schools.Get("/:id/config", ctl.GetConfig)
	schools.Put("/:id/config", ctl.UpdateConfig)
}
