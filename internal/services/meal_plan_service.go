package services

import (
	"context"
	"errors"

	"mealprep-backend/internal/mealprep"
	"mealprep-backend/internal/models"
	"mealprep-backend/internal/timeutil"
)

// mealPlanStore is the persistence surface the meal plan service
// needs. Satisfied by repositories.MealPlanRepository.
type mealPlanStore interface {
	mealprep.PlanStore
	Get(ctx context.Context, id int) (*models.MealPlan, error)
	SetSlotRecipe(ctx context.Context, planID, dayIndex int, mealType mealprep.MealType, recipeID int) (*models.MealPlan, error)
	ClearSlotRecipe(ctx context.Context, planID, dayIndex int, mealType mealprep.MealType) (*models.MealPlan, error)
}

// titleResolver resolves a recipe id to its display title. Satisfied
// by RecipeService, which answers from the redis cache when it can.
type titleResolver interface {
	RecipeTitle(ctx context.Context, id int) (string, error)
}

type MealPlanService struct {
	Repo    mealPlanStore
	Recipes titleResolver
}

func NewMealPlanService(repo mealPlanStore, recipes titleResolver) *MealPlanService {
	return &MealPlanService{Repo: repo, Recipes: recipes}
}

func (s *MealPlanService) ListPlans(ctx context.Context, userID int) ([]*models.MealPlan, error) {
	return s.Repo.ListPlansForUser(ctx, userID)
}

func (s *MealPlanService) GetPlan(ctx context.Context, id, userID int) (*models.MealPlan, error) {
	plan, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, errors.New("meal plan does not belong to user")
	}
	return plan, nil
}

func (s *MealPlanService) CreatePlan(ctx context.Context, userID int, req *models.CreateMealPlanRequest) (*models.MealPlan, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if !timeutil.IsValidDate(req.StartDate) || !timeutil.IsValidDate(req.EndDate) {
		return nil, errors.New("start_date and end_date must be YYYY-MM-DD")
	}
	if req.EndDate < req.StartDate {
		return nil, errors.New("end_date must not precede start_date")
	}

	plan := &models.MealPlan{
		UserID:    userID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  true,
		Days:      req.Days,
	}
	return s.Repo.CreatePlan(ctx, plan)
}

func (s *MealPlanService) UpdatePlan(ctx context.Context, id, userID int, req *models.UpdateMealPlanRequest) (*models.MealPlan, error) {
	if _, err := s.GetPlan(ctx, id, userID); err != nil {
		return nil, err
	}
	if req.StartDate != nil && !timeutil.IsValidDate(*req.StartDate) {
		return nil, errors.New("start_date must be YYYY-MM-DD")
	}
	if req.EndDate != nil && !timeutil.IsValidDate(*req.EndDate) {
		return nil, errors.New("end_date must be YYYY-MM-DD")
	}
	return s.Repo.UpdatePlan(ctx, id, req)
}

func (s *MealPlanService) DeletePlan(ctx context.Context, id, userID int) error {
	if _, err := s.GetPlan(ctx, id, userID); err != nil {
		return err
	}
	return s.Repo.DeletePlan(ctx, id)
}

// AssignSlot puts a recipe into one meal slot of a plan day. The
// recipe's title is resolved first, which both rejects dangling recipe
// ids before the slot is touched and warms the title cache for
// subsequent plan reads.
func (s *MealPlanService) AssignSlot(ctx context.Context, userID int, planID int, req *models.SlotRequest) (*models.MealPlan, error) {
	if _, err := s.GetPlan(ctx, planID, userID); err != nil {
		return nil, err
	}
	mealType := mealprep.MealType(req.MealType)
	if !mealType.Valid() {
		return nil, errors.New("meal_type must be breakfast, lunch, or dinner")
	}
	if _, err := s.Recipes.RecipeTitle(ctx, req.RecipeID); err != nil {
		return nil, errors.New("recipe not found")
	}
	return s.Repo.SetSlotRecipe(ctx, planID, req.DayIndex, mealType, req.RecipeID)
}

// ClearSlot empties one meal slot of a plan day
func (s *MealPlanService) ClearSlot(ctx context.Context, userID int, planID int, req *models.SlotRequest) (*models.MealPlan, error) {
	if _, err := s.GetPlan(ctx, planID, userID); err != nil {
		return nil, err
	}
	mealType := mealprep.MealType(req.MealType)
	if !mealType.Valid() {
		return nil, errors.New("meal_type must be breakfast, lunch, or dinner")
	}
	return s.Repo.ClearSlotRecipe(ctx, planID, req.DayIndex, mealType)
}
