package main

import (
    "context"
    "log"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/studynest/cabin-booking/internal/clock"
    "github.com/studynest/cabin-booking/internal/config"
    "github.com/studynest/cabin-booking/internal/database"
    "github.com/studynest/cabin-booking/internal/handler"
    "github.com/studynest/cabin-booking/internal/middleware"
    "github.com/studynest/cabin-booking/internal/queue"
    "github.com/studynest/cabin-booking/internal/repository"
    "github.com/studynest/cabin-booking/internal/router"
    "github.com/studynest/cabin-booking/internal/service"
)

func main() {
    _ = godotenv.Load() // .env is optional; real env vars win

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    rdb := config.NewRedisClient() // nil when Redis is unreachable; limiter and cache degrade to no-ops

    cabinRepo := repository.NewCabinRepo(db)
    holdRepo := repository.NewHoldRepo(db)
    bookingRepo := repository.NewBookingRepo(db)
    userRepo := repository.NewUserRepo(db)
    tokenRepo := repository.NewTokenRepo(db)
    store := repository.NewStore(db, cabinRepo, holdRepo, bookingRepo)

    pub := queue.NewPublisher(cfg.RabbitURL)
    svc := service.NewBookingService(store, clock.Real{}, pub)

    sweeper := service.NewSweeper(store, clock.Real{}, pub, cfg.SweepInterval)
    go sweeper.Run()

    go func() {
        if err := queue.StartConsumer(cfg.RabbitURL); err != nil {
            log.Printf("consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true
    e.Use(middleware.Metrics())
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
    cabinHandler := handler.NewCabinHandler(cabinRepo, svc)
    reservationHandler := handler.NewReservationHandler(svc, bookingRepo, store)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authHandler)
    router.RegisterPublic(e, cabinHandler, cfg.JWTSecret, cache)
    router.RegisterReservation(e, reservationHandler, cfg.JWTSecret)

    addr := ":" + cfg.Port
    go func() {
        log.Printf("listening on %s (env=%s)", addr, cfg.Env)
        if err := e.Start(addr); err != nil {
            log.Printf("server stopped: %v", err)
        }
    }()

    quit := make(chan os.Signal, 1)
    signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
    <-quit

    log.Println("shutting down")
    sweeper.Stop()
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := e.Shutdown(ctx); err != nil {
        log.Fatalf("shutdown: %v", err)
    }
}
