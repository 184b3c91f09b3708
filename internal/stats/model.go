package stats

import (
	"errors"
	"time"

	"gymhub/internal/membership"
)

var (
	ErrOwnerNotFound = errors.New("owner not found")
	ErrNoGyms        = errors.New("owner has no gyms")
)

// MonthLabel is the layout of MonthlyMemberships keys, e.g. "March 2024".
const MonthLabel = "January 2006"

// DateLabel is the layout used for the human-readable member dates.
const DateLabel = "Jan 2, 2006"

type MembershipSummary struct {
	MembershipID int             `json:"membership_id"`
	GymID        int             `json:"gym_id"`
	Tier         membership.Tier `json:"tier"`
	StartDate    time.Time       `json:"start_date"`
}

type GymStats struct {
	GymID   int    `json:"gym_id"`
	Name    string `json:"name"`
	Members int    `json:"members"`
	Revenue int64  `json:"revenue"`
}

type OwnerStats struct {
	TotalGyms           int                            `json:"total_gyms"`
	TotalMembers        int                            `json:"total_members"`
	TotalRevenue        int64                          `json:"total_revenue"`
	MembershipBreakdown map[membership.Tier]int        `json:"membership_breakdown"`
	MonthlyMemberships  map[string][]MembershipSummary `json:"monthly_memberships"`
	PerGym              []GymStats                     `json:"per_gym_breakdown"`
}

// MemberSummary is one row of the owner's cross-gym member list.
type MemberSummary struct {
	MembershipID int               `json:"membership_id"`
	GymID        int               `json:"gym_id"`
	GymName      string            `json:"gym_name"`
	GoerID       int               `json:"goer_id"`
	UserID       int               `json:"user_id,omitempty"`
	Name         string            `json:"name"`
	Email        string            `json:"email,omitempty"`
	AvatarURL    string            `json:"avatar_url"`
	Tier         membership.Tier   `json:"tier"`
	Status       membership.Status `json:"status"`
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
}
