package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mealprep-backend/internal/handlers"
	"mealprep-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	recipeHandler *handlers.RecipeHandler,
	mealPlanHandler *handlers.MealPlanHandler,
	prepHandler *handlers.PrepHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	monitoringHandler *handlers.MonitoringHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Current user
	meAPI := r.PathPrefix("/api/me").Subrouter()
	meAPI.Use(authMiddleware.Authenticate)
	meAPI.HandleFunc("", authHandler.Me).Methods("GET")

	// Protected API routes - Recipes
	recipesAPI := r.PathPrefix("/api/recipes").Subrouter()
	recipesAPI.Use(authMiddleware.Authenticate)
	recipesAPI.HandleFunc("", recipeHandler.ListRecipes).Methods("GET")
	recipesAPI.HandleFunc("", recipeHandler.CreateRecipe).Methods("POST")
	recipesAPI.HandleFunc("/{id}", recipeHandler.GetRecipe).Methods("GET")
	recipesAPI.HandleFunc("/{id}", recipeHandler.UpdateRecipe).Methods("PUT")
	recipesAPI.HandleFunc("/{id}", recipeHandler.DeleteRecipe).Methods("DELETE")
	recipesAPI.HandleFunc("/{id}/image", recipeHandler.UploadImage).Methods("POST")

	// Protected API routes - Meal Plans
	plansAPI := r.PathPrefix("/api/meal-plans").Subrouter()
	plansAPI.Use(authMiddleware.Authenticate)
	plansAPI.HandleFunc("", mealPlanHandler.ListPlans).Methods("GET")
	plansAPI.HandleFunc("", mealPlanHandler.CreatePlan).Methods("POST")
	plansAPI.HandleFunc("/subscribe", mealPlanHandler.Subscribe).Methods("GET")
	plansAPI.HandleFunc("/{id}", mealPlanHandler.GetPlan).Methods("GET")
	plansAPI.HandleFunc("/{id}", mealPlanHandler.UpdatePlan).Methods("PUT")
	plansAPI.HandleFunc("/{id}", mealPlanHandler.DeletePlan).Methods("DELETE")
	plansAPI.HandleFunc("/{id}/slots", mealPlanHandler.AssignSlot).Methods("PUT")
	plansAPI.HandleFunc("/{id}/slots", mealPlanHandler.ClearSlot).Methods("DELETE")
	plansAPI.HandleFunc("/{id}/pdf", reportHandler.PlanPDF).Methods("GET")

	// Protected API routes - Prep tracker
	prepAPI := r.PathPrefix("/api/prep").Subrouter()
	prepAPI.Use(authMiddleware.Authenticate)
	prepAPI.HandleFunc("", prepHandler.GetState).Methods("GET")
	prepAPI.HandleFunc("/entries", prepHandler.CreateEntry).Methods("POST")
	prepAPI.HandleFunc("/entries/{id}/consume", prepHandler.MarkConsumed).Methods("POST")
	prepAPI.HandleFunc("/entries/{id}/servings", prepHandler.UpdateServings).Methods("PUT")
	prepAPI.HandleFunc("/entries/{id}", prepHandler.DeleteEntry).Methods("DELETE")
	prepAPI.HandleFunc("/leftovers", prepHandler.Leftovers).Methods("GET")
	prepAPI.HandleFunc("/today", prepHandler.TodaysPrep).Methods("GET")
	prepAPI.HandleFunc("/mode", prepHandler.SetPrepMode).Methods("PUT")
	prepAPI.HandleFunc("/save", prepHandler.Save).Methods("POST")
	prepAPI.HandleFunc("/reload", prepHandler.Reload).Methods("POST")

	// Protected API routes - Monitoring
	monitoringAPI := r.PathPrefix("/api/monitoring").Subrouter()
	monitoringAPI.Use(authMiddleware.Authenticate)
	monitoringAPI.HandleFunc("/system", monitoringHandler.SystemStats).Methods("GET")

	// Health and metrics
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())

	return r
}
