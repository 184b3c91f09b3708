package goer

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gymhub/internal/db"
)

var (
	ErrNotGoer           = errors.New("user has no goer profile")
	ErrDashboardNotFound = errors.New("dashboard not found")
	ErrDashboardExists   = errors.New("dashboard already created")
)

const dashboardColumns = `
	id, goer_id, age, gender, height_cm, goals, programs, is_enrolled, gym_name, budget,
	target_weight, calorie_target, monthly_data, attendance, profile_completed, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID int) (*GymGoer, error) {
	query := `
		SELECT id, user_id, enrolled_membership_ids, dashboard_id, created_at
		FROM goers
		WHERE user_id = $1
	`

	var g GymGoer
	if err := r.db.GetContext(ctx, &g, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotGoer
		}
		return nil, err
	}

	return &g, nil
}

func (r *repository) GetDashboard(ctx context.Context, goerID int) (*Dashboard, error) {
	query := `SELECT ` + dashboardColumns + ` FROM goer_dashboards WHERE goer_id = $1`

	var d Dashboard
	if err := r.db.GetContext(ctx, &d, query, goerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDashboardNotFound
		}
		return nil, err
	}

	return &d, nil
}

func (r *repository) CompleteProfile(ctx context.Context, goerID int, in *Dashboard) (*Dashboard, error) {
	var out Dashboard
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO goer_dashboards (goer_id, age, gender, height_cm, goals, programs, budget, profile_completed)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
			ON CONFLICT (goer_id) DO UPDATE SET
				age = EXCLUDED.age,
				gender = EXCLUDED.gender,
				height_cm = EXCLUDED.height_cm,
				goals = EXCLUDED.goals,
				programs = EXCLUDED.programs,
				budget = EXCLUDED.budget,
				profile_completed = TRUE,
				updated_at = NOW()
			WHERE goer_dashboards.profile_completed = FALSE
			RETURNING ` + dashboardColumns

		err := tx.GetContext(ctx, &out, query, goerID, in.Age, in.Gender, in.HeightCM, in.Goals, in.Programs, in.Budget)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDashboardExists
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE goers SET dashboard_id = $1 WHERE id = $2`, out.ID, goerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (r *repository) UpdateTracking(ctx context.Context, goerID int, fn func(*Dashboard) error) (*Dashboard, error) {
	var d Dashboard
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `SELECT ` + dashboardColumns + ` FROM goer_dashboards WHERE goer_id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &d, query, goerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrDashboardNotFound
			}
			return err
		}

		if err := fn(&d); err != nil {
			return err
		}

		update := `
			UPDATE goer_dashboards
			SET monthly_data = $1, attendance = $2, target_weight = $3, calorie_target = $4, updated_at = NOW()
			WHERE id = $5
			RETURNING updated_at
		`
		return tx.GetContext(ctx, &d.UpdatedAt, update, d.MonthlyData, d.Attendance, d.TargetWeight, d.CalorieTarget, d.ID)
	})
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func (r *repository) ListDisplay(ctx context.Context, goerIDs []int) ([]Display, error) {
	out := []Display{}
	if len(goerIDs) == 0 {
		return out, nil
	}

	ids := make(pq.Int64Array, len(goerIDs))
	for i, id := range goerIDs {
		ids[i] = int64(id)
	}

	query := `
		SELECT g.id AS goer_id, u.id AS user_id, u.name, u.email, u.avatar_url
		FROM goers g
		JOIN users u ON u.id = g.user_id
		WHERE g.id = ANY($1)
	`
	if err := r.db.SelectContext(ctx, &out, query, ids); err != nil {
		return nil, err
	}

	return out, nil
}
