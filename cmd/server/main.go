package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/solara/internal/cache"
	"github.com/example/solara/internal/config"
	"github.com/example/solara/internal/database"
	"github.com/example/solara/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	var store cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		store = redisCache
	} else {
		log.Println("REDIS_ADDR not set, using in-memory attempt tracking")
		store = cache.NewInMemoryCache()
	}

	app := fiber.New(fiber.Config{
		AppName: "Solara Loyalty Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg, store)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
