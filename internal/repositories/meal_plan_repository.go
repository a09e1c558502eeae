package repositories

import (
	"context"
	"fmt"
	"time"

	"mealprep-backend/internal/mealprep"
	"mealprep-backend/internal/models"
	"mealprep-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MealPlanRepository struct {
	DB *pgxpool.Pool
}

func NewMealPlanRepository(db *pgxpool.Pool) *MealPlanRepository {
	return &MealPlanRepository{DB: db}
}

// ListPlansForUser returns a user's plans, newest first, with days and
// joined recipe relations. Satisfies the reconciliation engine's
// PlanStore contract.
func (r *MealPlanRepository) ListPlansForUser(ctx context.Context, userID int) ([]*models.MealPlan, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, user_id, name, start_date, end_date, is_active, created_at, updated_at
         FROM meal_plans WHERE user_id=$1 ORDER BY start_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.MealPlan
	for rows.Next() {
		plan, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, plan := range plans {
		days, err := r.loadDays(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		plan.Days = days
	}
	return plans, nil
}

func (r *MealPlanRepository) Get(ctx context.Context, id int) (*models.MealPlan, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, user_id, name, start_date, end_date, is_active, created_at, updated_at
         FROM meal_plans WHERE id=$1`, id)

	plan, err := scanPlan(row.Scan)
	if err != nil {
		return nil, err
	}
	plan.Days, err = r.loadDays(ctx, id)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// CreatePlan inserts a plan and its day rows in one transaction.
func (r *MealPlanRepository) CreatePlan(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	startDate, err := timeutil.ParseDate(plan.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := timeutil.ParseDate(plan.EndDate)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO meal_plans(user_id, name, start_date, end_date, is_active)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		plan.UserID, plan.Name, startDate, endDate, plan.IsActive,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for i := range plan.Days {
		day := &plan.Days[i]
		if err := insertDay(ctx, tx, plan.ID, day); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlan applies a partial update. A non-nil Days reconciles the
// stored grid to the incoming one: existing day rows are matched by
// date and have their slot fields rewritten, new dates get new rows,
// and rows for dates missing from the payload are emptied rather than
// deleted. Day rows are never removed by an update.
func (r *MealPlanRepository) UpdatePlan(ctx context.Context, id int, req *models.UpdateMealPlanRequest) (*models.MealPlan, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if req.Name != nil {
		if _, err := tx.Exec(ctx, `UPDATE meal_plans SET name=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`, *req.Name, id); err != nil {
			return nil, err
		}
	}
	if req.StartDate != nil {
		startDate, err := timeutil.ParseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `UPDATE meal_plans SET start_date=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`, startDate, id); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		endDate, err := timeutil.ParseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `UPDATE meal_plans SET end_date=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`, endDate, id); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		if _, err := tx.Exec(ctx, `UPDATE meal_plans SET is_active=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`, *req.IsActive, id); err != nil {
			return nil, err
		}
	}

	if req.Days != nil {
		if err := reconcileDays(ctx, tx, id, *req.Days); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *MealPlanRepository) DeletePlan(ctx context.Context, id int) error {
	// Day rows go with the plan via ON DELETE CASCADE
	_, err := r.DB.Exec(ctx, `DELETE FROM meal_plans WHERE id=$1`, id)
	return err
}

// SetSlotRecipe assigns a recipe to one positionally-addressed cell,
// clearing its text counterpart. An out-of-range day index is an error.
func (r *MealPlanRepository) SetSlotRecipe(ctx context.Context, planID, dayIndex int, mealType mealprep.MealType, recipeID int) (*models.MealPlan, error) {
	return r.mutateSlot(ctx, planID, dayIndex, mealType, func(grid *mealprep.Grid) error {
		return grid.SetSlotRecipe(dayIndex, mealType, recipeID)
	})
}

// ClearSlotRecipe removes whatever occupies one cell.
func (r *MealPlanRepository) ClearSlotRecipe(ctx context.Context, planID, dayIndex int, mealType mealprep.MealType) (*models.MealPlan, error) {
	return r.mutateSlot(ctx, planID, dayIndex, mealType, func(grid *mealprep.Grid) error {
		return grid.ClearSlot(dayIndex, mealType)
	})
}

func (r *MealPlanRepository) mutateSlot(ctx context.Context, planID, dayIndex int, mealType mealprep.MealType, mutate func(*mealprep.Grid) error) (*models.MealPlan, error) {
	if !mealType.Valid() {
		return nil, fmt.Errorf("invalid meal type %q", mealType)
	}

	plan, err := r.Get(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("meal plan %d not found: %w", planID, err)
	}

	grid := mealprep.Grid{Days: plan.Days}
	if err := mutate(&grid); err != nil {
		return nil, err
	}

	day := grid.Days[dayIndex]
	_, err = r.DB.Exec(ctx,
		`UPDATE meal_days SET breakfast=$1, lunch=$2, dinner=$3,
		        breakfast_id=$4, lunch_id=$5, dinner_id=$6
         WHERE id=$7`,
		day.Breakfast, day.Lunch, day.Dinner,
		day.BreakfastID, day.LunchID, day.DinnerID, day.ID)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, planID)
}

// loadDays reads a plan's day rows in insertion order with the three
// recipe relations joined, so callers get titles without extra queries.
func (r *MealPlanRepository) loadDays(ctx context.Context, planID int) ([]models.MealDay, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT d.id, d.meal_plan_id, d.day, d.date,
		        COALESCE(d.breakfast, ''), COALESCE(d.lunch, ''), COALESCE(d.dinner, ''),
		        d.breakfast_id, d.lunch_id, d.dinner_id,
		        br.id, br.title, lr.id, lr.title, dr.id, dr.title
         FROM meal_days d
         LEFT JOIN recipes br ON d.breakfast_id = br.id
         LEFT JOIN recipes lr ON d.lunch_id = lr.id
         LEFT JOIN recipes dr ON d.dinner_id = dr.id
         WHERE d.meal_plan_id=$1 ORDER BY d.id`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.MealDay
	for rows.Next() {
		var day models.MealDay
		var date time.Time
		var brID, lrID, drID *int
		var brTitle, lrTitle, drTitle *string
		err := rows.Scan(&day.ID, &day.MealPlanID, &day.Day, &date,
			&day.Breakfast, &day.Lunch, &day.Dinner,
			&day.BreakfastID, &day.LunchID, &day.DinnerID,
			&brID, &brTitle, &lrID, &lrTitle, &drID, &drTitle)
		if err != nil {
			return nil, err
		}
		day.Date = timeutil.FormatDate(date)
		if brID != nil {
			day.BreakfastRecipe = &models.RecipeRef{ID: *brID, Title: *brTitle}
		}
		if lrID != nil {
			day.LunchRecipe = &models.RecipeRef{ID: *lrID, Title: *lrTitle}
		}
		if drID != nil {
			day.DinnerRecipe = &models.RecipeRef{ID: *drID, Title: *drTitle}
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// insertDay adds one day row, deriving the weekday label from the date
// rather than trusting the caller's value.
func insertDay(ctx context.Context, tx pgx.Tx, planID int, day *models.MealDay) error {
	date, err := timeutil.ParseDate(day.Date)
	if err != nil {
		return err
	}
	day.MealPlanID = planID
	day.Day = timeutil.WeekdayName(day.Date)
	return tx.QueryRow(ctx,
		`INSERT INTO meal_days(meal_plan_id, day, date, breakfast, lunch, dinner, breakfast_id, lunch_id, dinner_id)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id`,
		planID, day.Day, date, day.Breakfast, day.Lunch, day.Dinner,
		day.BreakfastID, day.LunchID, day.DinnerID,
	).Scan(&day.ID)
}

// reconcileDays brings the stored day rows in line with an incoming
// grid. Matching is by date; slot fields of matched rows are rewritten,
// unmatched incoming dates become new rows, and stored rows whose date
// is absent from the payload have their slots emptied but survive.
func reconcileDays(ctx context.Context, tx pgx.Tx, planID int, incoming []models.MealDay) error {
	rows, err := tx.Query(ctx,
		`SELECT id, date FROM meal_days WHERE meal_plan_id=$1 ORDER BY id`, planID)
	if err != nil {
		return err
	}
	existing := make(map[string]int) // date -> row id
	for rows.Next() {
		var id int
		var date time.Time
		if err := rows.Scan(&id, &date); err != nil {
			rows.Close()
			return err
		}
		existing[timeutil.FormatDate(date)] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for i := range incoming {
		day := &incoming[i]
		seen[day.Date] = true
		rowID, ok := existing[day.Date]
		if !ok {
			if err := insertDay(ctx, tx, planID, day); err != nil {
				return err
			}
			continue
		}
		_, err := tx.Exec(ctx,
			`UPDATE meal_days SET day=$1, breakfast=$2, lunch=$3, dinner=$4,
			        breakfast_id=$5, lunch_id=$6, dinner_id=$7
             WHERE id=$8`,
			timeutil.WeekdayName(day.Date), day.Breakfast, day.Lunch, day.Dinner,
			day.BreakfastID, day.LunchID, day.DinnerID, rowID)
		if err != nil {
			return err
		}
	}

	for date, rowID := range existing {
		if seen[date] {
			continue
		}
		_, err := tx.Exec(ctx,
			`UPDATE meal_days SET breakfast='', lunch='', dinner='',
			        breakfast_id=NULL, lunch_id=NULL, dinner_id=NULL
             WHERE id=$1`, rowID)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanPlan(scan func(dest ...any) error) (*models.MealPlan, error) {
	var plan models.MealPlan
	var startDate, endDate time.Time
	err := scan(&plan.ID, &plan.UserID, &plan.Name, &startDate, &endDate,
		&plan.IsActive, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	plan.StartDate = timeutil.FormatDate(startDate)
	plan.EndDate = timeutil.FormatDate(endDate)
	return &plan, nil
}
