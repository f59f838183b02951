package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"schoolku_backend/internals/cache"
	"schoolku_backend/internals/configs"
	database "schoolku_backend/internals/databases"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/middlewares"
	"schoolku_backend/internals/route"
	"schoolku_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	database.ConnectDB()
	database.TunePool()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("[ERROR] Migrasi gagal: %v", err)
	}
	database.WarmUp()

	if configs.GetEnv("RUN_SEEDS", "false") == "true" {
		seeds.RunAllSeeds(database.DB)
	}

	cacheSvc := cache.NewFromEnv(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_PASSWORD"))

	app := fiber.New(fiber.Config{
		AppName:     "Schoolku Backend",
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})

	middlewares.SetupMiddlewares(app)
	app.Use(requestid.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(etag.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := database.Ping(); err != nil {
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "database unreachable")
		}
		return helper.JsonOK(c, "ok", nil)
	})

	route.SetupRoutes(app, database.DB, database.Read(), cacheSvc)

	// Graceful shutdown: tutup listener dulu, lalu koneksi redis.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("[INFO] Shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Printf("[WARNING] shutdown: %v", err)
		}
		_ = cacheSvc.Close()
	}()

	port := configs.GetEnv("PORT", "3000")
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("[ERROR] Server berhenti: %v", err)
	}
}
