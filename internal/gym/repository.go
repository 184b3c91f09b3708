package gym

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"gymhub/internal/db"
)

var (
	ErrGymNotFound      = errors.New("gym not found")
	ErrDuplicateGymName = errors.New("owner already has a gym with this name")
	ErrDuplicateRating  = errors.New("user already rated this gym")
)

const gymColumns = `
	g.id, g.external_id, g.owner_id, g.name, g.address, g.phone, g.description,
	g.hours, g.facilities, g.prices, g.images, g.membership_ids, g.created_at,
	COALESCE((SELECT AVG(r.score) FROM gym_ratings r WHERE r.gym_id = g.id), 0) AS average_rating,
	(SELECT COUNT(*) FROM gym_ratings r WHERE r.gym_id = g.id) AS rating_count`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, g *Gym) (*Gym, error) {
	query := `
		INSERT INTO gyms (external_id, owner_id, name, address, phone, description, hours, facilities, prices, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, external_id, owner_id, name, address, phone, description, hours, facilities, prices, images, membership_ids, created_at
	`

	var created Gym
	err := r.db.GetContext(ctx, &created, query,
		g.ExternalID, g.OwnerID, g.Name, g.Address, g.Phone, g.Description,
		g.Hours, g.Facilities, g.Prices, g.Images,
	)
	if err != nil {
		if db.IsUniqueViolation(err, "gyms_owner_name_key") {
			return nil, ErrDuplicateGymName
		}
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Gym, error) {
	query := `SELECT ` + gymColumns + ` FROM gyms g WHERE g.id = $1`

	var g Gym
	if err := r.db.GetContext(ctx, &g, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGymNotFound
		}
		return nil, err
	}

	return &g, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID int) ([]Gym, error) {
	query := `SELECT ` + gymColumns + ` FROM gyms g WHERE g.owner_id = $1 ORDER BY g.id ASC`

	gyms := []Gym{}
	if err := r.db.SelectContext(ctx, &gyms, query, ownerID); err != nil {
		return nil, err
	}

	return gyms, nil
}

// Search matches q as a case-insensitive substring of name, address or description.
// A non-empty facility additionally restricts to gyms offering it.
func (r *repository) Search(ctx context.Context, q string, facility Facility) ([]Gym, error) {
	query := `SELECT ` + gymColumns + ` FROM gyms g WHERE TRUE`
	var args []interface{}

	if q = strings.TrimSpace(q); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		query += ` AND (g.name ILIKE $1 OR g.address ILIKE $1 OR g.description ILIKE $1)`
	}
	if facility != "" {
		args = append(args, string(facility))
		query += ` AND g.facilities @> ARRAY[$` + strconv.Itoa(len(args)) + `]::text[]`
	}

	query += ` ORDER BY g.created_at DESC`

	gyms := []Gym{}
	if err := r.db.SelectContext(ctx, &gyms, query, args...); err != nil {
		return nil, err
	}

	return gyms, nil
}

func (r *repository) AddRating(ctx context.Context, rating *Rating) (*Rating, error) {
	query := `
		INSERT INTO gym_ratings (gym_id, user_id, score, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, gym_id, user_id, score, comment, created_at
	`

	var created Rating
	err := r.db.GetContext(ctx, &created, query, rating.GymID, rating.UserID, rating.Score, rating.Comment)
	if err != nil {
		if db.IsUniqueViolation(err, "gym_ratings_gym_user_key") {
			return nil, ErrDuplicateRating
		}
		return nil, err
	}

	return &created, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
