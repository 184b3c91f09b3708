package membership

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gymhub/internal/db"
	"gymhub/internal/gym"
)

const activeMembershipIndex = "memberships_one_active_idx"

const membershipColumns = `
	m.id, m.goer_id, m.gym_id, m.tier, m.start_date, m.end_date, m.status,
	m.member_name, m.member_avatar, m.created_at, m.updated_at`

type repository struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db, q: db}
}

func (r *repository) InTx(ctx context.Context, fn func(Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&repository{q: tx})
	})
}

func (r *repository) FindActive(ctx context.Context, goerID, gymID int) (*Membership, error) {
	query := `SELECT ` + membershipColumns + `
		FROM memberships m
		WHERE m.goer_id = $1 AND m.gym_id = $2 AND m.status = 'active'
		LIMIT 1`

	var m Membership
	if err := sqlx.GetContext(ctx, r.q, &m, query, goerID, gymID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) Create(ctx context.Context, in *Membership) (*Membership, error) {
	query := `
		INSERT INTO memberships AS m (goer_id, gym_id, tier, start_date, end_date, status, member_name, member_avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + membershipColumns

	var m Membership
	err := sqlx.GetContext(ctx, r.q, &m, query,
		in.GoerID, in.GymID, in.Tier, in.StartDate, in.EndDate, in.Status, in.MemberName, in.MemberAvatar,
	)
	if err != nil {
		if db.IsUniqueViolation(err, activeMembershipIndex) {
			return nil, &DuplicateActiveMembershipError{}
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) AppendToGoer(ctx context.Context, goerID, membershipID int) error {
	query := `UPDATE goers SET enrolled_membership_ids = array_append(enrolled_membership_ids, $1) WHERE id = $2`
	return execOne(ctx, r.q, query, membershipID, goerID)
}

func (r *repository) MarkDashboardEnrolled(ctx context.Context, goerID int, gymName string) error {
	query := `
		WITH d AS (
			INSERT INTO goer_dashboards (goer_id, is_enrolled, gym_name)
			VALUES ($1, TRUE, $2)
			ON CONFLICT (goer_id) DO UPDATE SET is_enrolled = TRUE, gym_name = EXCLUDED.gym_name, updated_at = NOW()
			RETURNING id
		)
		UPDATE goers SET dashboard_id = d.id FROM d WHERE goers.id = $1
	`
	return execOne(ctx, r.q, query, goerID, gymName)
}

func (r *repository) AppendToGym(ctx context.Context, gymID, membershipID int) error {
	query := `UPDATE gyms SET membership_ids = array_append(membership_ids, $1) WHERE id = $2`
	return execOne(ctx, r.q, query, membershipID, gymID)
}

func execOne(ctx context.Context, q sqlx.ExecerContext, query string, args ...interface{}) error {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repository) ListByGym(ctx context.Context, gymID int) ([]MemberRecord, error) {
	query := `SELECT ` + membershipColumns + `, u.id AS user_id, u.name, u.email, u.avatar_url
		FROM memberships m
		JOIN goers g ON g.id = m.goer_id
		JOIN users u ON u.id = g.user_id
		WHERE m.gym_id = $1
		ORDER BY m.start_date DESC, m.id DESC`

	out := []MemberRecord{}
	if err := sqlx.SelectContext(ctx, r.q, &out, query, gymID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListActiveByGyms(ctx context.Context, gymIDs []int) ([]Membership, error) {
	out := []Membership{}
	if len(gymIDs) == 0 {
		return out, nil
	}

	ids := make(pq.Int64Array, len(gymIDs))
	for i, id := range gymIDs {
		ids[i] = int64(id)
	}

	query := `SELECT ` + membershipColumns + `
		FROM memberships m
		WHERE m.gym_id = ANY($1) AND m.status = 'active'
		ORDER BY m.start_date ASC, m.id ASC`
	if err := sqlx.SelectContext(ctx, r.q, &out, query, ids); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []int64) ([]Membership, error) {
	out := []Membership{}
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT ` + membershipColumns + `
		FROM memberships m
		WHERE m.id = ANY($1)
		ORDER BY m.id ASC`
	if err := sqlx.SelectContext(ctx, r.q, &out, query, pq.Int64Array(ids)); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListByGoer(ctx context.Context, goerID int) ([]Membership, error) {
	query := `SELECT ` + membershipColumns + `
		FROM memberships m
		WHERE m.goer_id = $1
		ORDER BY m.start_date DESC, m.id DESC`

	out := []Membership{}
	if err := sqlx.SelectContext(ctx, r.q, &out, query, goerID); err != nil {
		return nil, err
	}
	return out, nil
}

type invoiceRow struct {
	Membership
	UserID      int            `db:"user_id"`
	MemberEmail string         `db:"member_email"`
	FullName    string         `db:"member_full_name"`
	GymName     string         `db:"gym_name"`
	GymAddress  string         `db:"gym_address"`
	GymPhone    string         `db:"gym_phone"`
	GymPrices   gym.PriceTable `db:"gym_prices"`
}

func (r *repository) GetInvoice(ctx context.Context, membershipID int) (*Invoice, error) {
	query := `SELECT ` + membershipColumns + `,
			u.id AS user_id, u.email AS member_email, u.name AS member_full_name,
			y.name AS gym_name, y.address AS gym_address, y.phone AS gym_phone, y.prices AS gym_prices
		FROM memberships m
		JOIN goers g ON g.id = m.goer_id
		JOIN users u ON u.id = g.user_id
		JOIN gyms y ON y.id = m.gym_id
		WHERE m.id = $1`

	var row invoiceRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, membershipID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}

	return &Invoice{
		Membership:  row.Membership,
		UserID:      row.UserID,
		MemberName:  row.FullName,
		MemberEmail: row.MemberEmail,
		GymName:     row.GymName,
		GymAddress:  row.GymAddress,
		GymPhone:    row.GymPhone,
		Prices:      row.GymPrices,
	}, nil
}

func (r *repository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE memberships
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND end_date < $1
	`
	res, err := r.q.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
