package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/aberkani/logistics-tracker/internal/config"
	"github.com/aberkani/logistics-tracker/internal/database"
	"github.com/aberkani/logistics-tracker/internal/handler"
	"github.com/aberkani/logistics-tracker/internal/middleware"
	"github.com/aberkani/logistics-tracker/internal/queue"
	"github.com/aberkani/logistics-tracker/internal/repository"
	"github.com/aberkani/logistics-tracker/internal/router"
	"github.com/aberkani/logistics-tracker/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	drivers := repository.NewDriverRepo(db)
	warehouses := repository.NewWarehouseRepo(db)
	customers := repository.NewCustomerRepo(db)
	shipments := repository.NewShipmentRepo(db)
	loads := repository.NewLoadRepo(db)
	events := repository.NewDetentionRepo(db)

	detention := service.NewDetentionService(events, loads, drivers, cfg.ExclusiveDetention)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	resH := handler.NewResourceHandler(drivers, warehouses, customers, shipments, loads)
	detH := handler.NewDetentionHandler(detention)

	// Stale refresh tokens accumulate across restarts; sweep them once here.
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := tokens.PurgeExpired(ctx, 24*time.Hour); err != nil {
			log.Printf("refresh token purge: %v", err)
		}
		cancel()
	}

	go func() {
		if err := queue.StartDetentionConsumer(); err != nil {
			log.Printf("detention consumer: %v", err)
		}
	}()

	e := echo.New()
	e.Use(middleware.RequestTrace())
	// Both middlewares no-op when Redis is unavailable.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAPI(e, resH, detH, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
