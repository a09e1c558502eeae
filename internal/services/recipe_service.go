package services

import (
	"context"
	"errors"
	"fmt"

	"mealprep-backend/internal/cache"
	"mealprep-backend/internal/models"
	"mealprep-backend/internal/storage"
)

// recipeStore is the persistence surface the recipe service needs.
// Satisfied by repositories.RecipeRepository.
type recipeStore interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	Get(ctx context.Context, id int) (*models.Recipe, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id int) error
	SetImageURL(ctx context.Context, id int, url string) error
}

// imageStore is the object-storage surface for recipe images.
type imageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type RecipeService struct {
	Repo   recipeStore
	Images imageStore
}

func NewRecipeService(repo recipeStore, images *storage.ImageStore) *RecipeService {
	s := &RecipeService{Repo: repo}
	// A nil *ImageStore means storage is not configured; leave the
	// interface nil so the checks below keep working.
	if images != nil {
		s.Images = images
	}
	return s
}

func (s *RecipeService) CreateRecipe(ctx context.Context, userID int, req *models.CreateRecipeRequest) (*models.Recipe, error) {
	if req.Title == "" {
		return nil, errors.New("title is required")
	}

	recipe := &models.Recipe{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		ImageURL:     req.ImageURL,
		UserID:       userID,
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []string{}
	}
	if recipe.Servings <= 0 {
		recipe.Servings = 1
	}

	if err := s.Repo.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, id int) (*models.Recipe, error) {
	return s.Repo.Get(ctx, id)
}

func (s *RecipeService) ListRecipes(ctx context.Context, userID int) ([]*models.Recipe, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *RecipeService) UpdateRecipe(ctx context.Context, id, userID int, req *models.UpdateRecipeRequest) (*models.Recipe, error) {
	recipe, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, errors.New("recipe does not belong to user")
	}

	if req.Title != "" {
		recipe.Title = req.Title
	}
	recipe.Description = req.Description
	if req.Ingredients != nil {
		recipe.Ingredients = req.Ingredients
	}
	recipe.Instructions = req.Instructions
	recipe.PrepTime = req.PrepTime
	recipe.CookTime = req.CookTime
	if req.Servings > 0 {
		recipe.Servings = req.Servings
	}
	if req.ImageURL != "" {
		recipe.ImageURL = req.ImageURL
	}

	if err := s.Repo.Update(ctx, recipe); err != nil {
		return nil, err
	}
	cache.InvalidateRecipeTitle(ctx, id)
	return recipe, nil
}

func (s *RecipeService) DeleteRecipe(ctx context.Context, id, userID int) error {
	recipe, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if recipe.UserID != userID {
		return errors.New("recipe does not belong to user")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateRecipeTitle(ctx, id)
	// Best effort: the row is already gone, a stranded object only
	// wastes bucket space.
	if s.Images != nil && recipe.ImageURL != "" {
		s.Images.Delete(ctx, imageKey(id))
	}
	return nil
}

// UploadImage stores a recipe image and records its public URL
func (s *RecipeService) UploadImage(ctx context.Context, id, userID int, data []byte, contentType string) (string, error) {
	if s.Images == nil {
		return "", errors.New("image storage is not configured")
	}

	recipe, err := s.Repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if recipe.UserID != userID {
		return "", errors.New("recipe does not belong to user")
	}

	url, err := s.Images.Upload(ctx, imageKey(id), data, contentType)
	if err != nil {
		return "", err
	}
	if err := s.Repo.SetImageURL(ctx, id, url); err != nil {
		return "", err
	}
	return url, nil
}

// RecipeTitle resolves a recipe title through the cache
func (s *RecipeService) RecipeTitle(ctx context.Context, id int) (string, error) {
	if title, ok := cache.GetCachedRecipeTitle(ctx, id); ok {
		return title, nil
	}
	recipe, err := s.Repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	cache.CacheRecipeTitle(ctx, id, recipe.Title)
	return recipe.Title, nil
}

// imageKey is the object key for a recipe's image. One image per
// recipe; uploads overwrite in place.
func imageKey(recipeID int) string {
	return fmt.Sprintf("recipes/%d/image", recipeID)
}
