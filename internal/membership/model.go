package membership

import (
	"errors"
	"fmt"
	"time"

	"gymhub/internal/gym"
)

type Tier string

const (
	TierMonthly    Tier = gym.PlanMonthly
	TierHalfYearly Tier = gym.PlanHalfYearly
	TierYearly     Tier = gym.PlanYearly
)

// Tiers lists the purchasable tiers in display order.
var Tiers = []Tier{TierMonthly, TierHalfYearly, TierYearly}

func (t Tier) Valid() bool {
	switch t {
	case TierMonthly, TierHalfYearly, TierYearly:
		return true
	}
	return false
}

// NormalizeTier maps user input such as "Half Yearly" onto the stored tier key.
// It is idempotent.
func NormalizeTier(s string) Tier {
	return Tier(gym.NormalizePlanKey(s))
}

func ParseTier(s string) (Tier, error) {
	t := NormalizeTier(s)
	if t == "" {
		return "", fmt.Errorf("%w: tier is required", ErrValidation)
	}
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown tier %q", ErrValidation, s)
	}
	return t, nil
}

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

type Membership struct {
	ID           int       `db:"id" json:"id"`
	GoerID       int       `db:"goer_id" json:"goer_id"`
	GymID        int       `db:"gym_id" json:"gym_id"`
	Tier         Tier      `db:"tier" json:"tier"`
	StartDate    time.Time `db:"start_date" json:"start_date"`
	EndDate      time.Time `db:"end_date" json:"end_date"`
	Status       Status    `db:"status" json:"status"`
	MemberName   string    `db:"member_name" json:"member_name"`
	MemberAvatar string    `db:"member_avatar" json:"member_avatar"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// MemberRecord is a membership joined with the member's current user data.
type MemberRecord struct {
	Membership
	UserID    int    `db:"user_id" json:"user_id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	AvatarURL string `db:"avatar_url" json:"avatar_url"`
}

// Invoice carries the data an invoice renderer needs for one membership.
type Invoice struct {
	Number      string         `json:"number"`
	IssuedAt    time.Time      `json:"issued_at"`
	Membership  Membership     `json:"membership"`
	UserID      int            `json:"-"`
	MemberName  string         `json:"member_name"`
	MemberEmail string         `json:"member_email"`
	GymName     string         `json:"gym_name"`
	GymAddress  string         `json:"gym_address"`
	GymPhone    string         `json:"gym_phone"`
	Prices      gym.PriceTable `json:"-"`
	Amount      int64          `json:"amount"`
}

var (
	ErrValidation                = errors.New("invalid membership request")
	ErrDuplicateActiveMembership = errors.New("active membership already exists for this gym")
	ErrMembershipNotFound        = errors.New("membership not found")
)

// DuplicateActiveMembershipError reports the tier of the membership that blocks a new enrollment.
type DuplicateActiveMembershipError struct {
	Tier Tier
}

func (e *DuplicateActiveMembershipError) Error() string {
	if e.Tier == "" {
		return ErrDuplicateActiveMembership.Error()
	}
	return fmt.Sprintf("you already have an active %s membership at this gym", e.Tier)
}

func (e *DuplicateActiveMembershipError) Is(target error) bool {
	return target == ErrDuplicateActiveMembership
}

type EnrollRequest struct {
	Tier    string    `json:"tier" binding:"required,tier"`
	EndDate time.Time `json:"end_date" binding:"required"`
}
