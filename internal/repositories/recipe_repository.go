package repositories

import (
	"context"

	"mealprep-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RecipeRepository struct {
	DB *pgxpool.Pool
}

func NewRecipeRepository(db *pgxpool.Pool) *RecipeRepository {
	return &RecipeRepository{DB: db}
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO recipes(title, description, ingredients, instructions, prep_time, cook_time, servings, image_url, user_id)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id, created_at, updated_at`,
		recipe.Title, recipe.Description, recipe.Ingredients, recipe.Instructions,
		recipe.PrepTime, recipe.CookTime, recipe.Servings, recipe.ImageURL, recipe.UserID,
	).Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)
}

func (r *RecipeRepository) Get(ctx context.Context, id int) (*models.Recipe, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, title, COALESCE(description, ''), ingredients, instructions,
		        COALESCE(prep_time, 0), COALESCE(cook_time, 0), COALESCE(servings, 0),
		        COALESCE(image_url, ''), user_id, created_at, updated_at
         FROM recipes WHERE id=$1`, id)

	var recipe models.Recipe
	err := row.Scan(&recipe.ID, &recipe.Title, &recipe.Description, &recipe.Ingredients,
		&recipe.Instructions, &recipe.PrepTime, &recipe.CookTime, &recipe.Servings,
		&recipe.ImageURL, &recipe.UserID, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *RecipeRepository) ListByUser(ctx context.Context, userID int) ([]*models.Recipe, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, title, COALESCE(description, ''), ingredients, instructions,
		        COALESCE(prep_time, 0), COALESCE(cook_time, 0), COALESCE(servings, 0),
		        COALESCE(image_url, ''), user_id, created_at, updated_at
         FROM recipes WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		var recipe models.Recipe
		err := rows.Scan(&recipe.ID, &recipe.Title, &recipe.Description, &recipe.Ingredients,
			&recipe.Instructions, &recipe.PrepTime, &recipe.CookTime, &recipe.Servings,
			&recipe.ImageURL, &recipe.UserID, &recipe.CreatedAt, &recipe.UpdatedAt)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, &recipe)
	}
	return recipes, nil
}

func (r *RecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE recipes SET title=$1, description=$2, ingredients=$3, instructions=$4,
		        prep_time=$5, cook_time=$6, servings=$7, image_url=$8, updated_at=CURRENT_TIMESTAMP
         WHERE id=$9`,
		recipe.Title, recipe.Description, recipe.Ingredients, recipe.Instructions,
		recipe.PrepTime, recipe.CookTime, recipe.Servings, recipe.ImageURL, recipe.ID)
	return err
}

// Delete removes a recipe. Meal day references to it are nulled by the
// ON DELETE SET NULL constraints so plans keep their days.
func (r *RecipeRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM recipes WHERE id=$1`, id)
	return err
}

// SetImageURL updates just the stored image location after an upload.
func (r *RecipeRepository) SetImageURL(ctx context.Context, id int, url string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE recipes SET image_url=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		url, id)
	return err
}
