package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"mealprep-backend/internal/auth"
	"mealprep-backend/internal/cache"
	"mealprep-backend/internal/config"
	"mealprep-backend/internal/database"
	"mealprep-backend/internal/db"
	"mealprep-backend/internal/handlers"
	"mealprep-backend/internal/health"
	h "mealprep-backend/internal/http"
	"mealprep-backend/internal/middleware"
	"mealprep-backend/internal/monitoring"
	"mealprep-backend/internal/repositories"
	"mealprep-backend/internal/services"
	"mealprep-backend/internal/storage"
	plansync "mealprep-backend/internal/sync"
	"mealprep-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; login falls back to bcrypt-only verification
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (login will use bcrypt only)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Schema is embedded so the binary migrates itself on startup
	migrator := database.NewMigrator(pool, migrations.FS)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	imageStore, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}
	if imageStore == nil {
		log.Println("[Storage] No credentials configured, image uploads disabled")
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	recipeRepo := repositories.NewRecipeRepository(pool)
	mealPlanRepo := repositories.NewMealPlanRepository(pool)

	// Services
	userService := services.NewUserService(userRepo, jwtManager)
	recipeService := services.NewRecipeService(recipeRepo, imageStore)
	mealPlanService := services.NewMealPlanService(mealPlanRepo, recipeService)
	prepService := services.NewPrepService(mealPlanRepo)

	// Plan change fan-out for connected clients
	hub := plansync.NewHub()
	go hub.Run()
	prepService.OnSaved = func(userID, planID int) {
		hub.Notify(userID, plansync.Event{Type: "plan_updated", PlanID: planID})
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	mealPlanHandler := handlers.NewMealPlanHandler(mealPlanService, hub)
	prepHandler := handlers.NewPrepHandler(prepService)
	reportHandler := handlers.NewReportHandler(mealPlanService)
	healthHandler := handlers.NewHealthHandler(healthChecker)
	monitoringHandler := handlers.NewMonitoringHandler(monitoring.NewCollector(pool))

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		recipeHandler,
		mealPlanHandler,
		prepHandler,
		reportHandler,
		healthHandler,
		monitoringHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
