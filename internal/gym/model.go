package gym

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Gym struct {
	ID            int            `db:"id" json:"id"`
	ExternalID    uuid.UUID      `db:"external_id" json:"external_id"`
	OwnerID       int            `db:"owner_id" json:"owner_id"`
	Name          string         `db:"name" json:"name"`
	Address       string         `db:"address" json:"address"`
	Phone         string         `db:"phone" json:"phone"`
	Description   string         `db:"description" json:"description"`
	Hours         WeeklyHours    `db:"hours" json:"hours"`
	Facilities    Facilities     `db:"facilities" json:"facilities"`
	Prices        PriceTable     `db:"prices" json:"prices"`
	Images        pq.StringArray `db:"images" json:"images"`
	MembershipIDs pq.Int64Array  `db:"membership_ids" json:"membership_ids"`
	AverageRating float64        `db:"average_rating" json:"average_rating"`
	RatingCount   int            `db:"rating_count" json:"rating_count"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

type Rating struct {
	ID        int       `db:"id" json:"id"`
	GymID     int       `db:"gym_id" json:"gym_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Score     int       `db:"score" json:"score"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

func (d Weekday) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

type Facility string

const (
	FacilityCardio           Facility = "cardio"
	FacilityWeights          Facility = "weights"
	FacilityPool             Facility = "pool"
	FacilitySauna            Facility = "sauna"
	FacilityYoga             Facility = "yoga"
	FacilityGroupClasses     Facility = "group_classes"
	FacilityPersonalTraining Facility = "personal_training"
	FacilityLockers          Facility = "lockers"
	FacilityShowers          Facility = "showers"
	FacilityParking          Facility = "parking"
)

func (f Facility) Valid() bool {
	switch f {
	case FacilityCardio, FacilityWeights, FacilityPool, FacilitySauna, FacilityYoga,
		FacilityGroupClasses, FacilityPersonalTraining, FacilityLockers, FacilityShowers, FacilityParking:
		return true
	}
	return false
}

// Facilities is stored as a Postgres TEXT[].
type Facilities []Facility

func (f Facilities) Value() (driver.Value, error) {
	arr := make(pq.StringArray, len(f))
	for i, v := range f {
		arr[i] = string(v)
	}
	return arr.Value()
}

func (f *Facilities) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	out := make(Facilities, len(arr))
	for i, v := range arr {
		out[i] = Facility(v)
	}
	*f = out
	return nil
}

func (f Facilities) Contains(want Facility) bool {
	for _, v := range f {
		if v == want {
			return true
		}
	}
	return false
}

type OperatingHours struct {
	Day   Weekday `json:"day" binding:"required,weekday"`
	Open  string  `json:"open" binding:"required,hhmm"`
	Close string  `json:"close" binding:"required,hhmm"`
}

// WeeklyHours is stored as JSONB.
type WeeklyHours []OperatingHours

func (h WeeklyHours) Value() (driver.Value, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h)
}

func (h *WeeklyHours) Scan(src interface{}) error {
	return scanJSON(src, h)
}

// Plan keys accepted in a gym's price table.
const (
	PlanMonthly    = "monthly"
	PlanHalfYearly = "half_yearly"
	PlanYearly     = "yearly"
	PlanFamily     = "family"
)

// NormalizePlanKey folds "Half Yearly", "half-yearly" and "HALF_YEARLY" onto "half_yearly".
func NormalizePlanKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func validPlanKey(k string) bool {
	switch k {
	case PlanMonthly, PlanHalfYearly, PlanYearly, PlanFamily:
		return true
	}
	return false
}

// PriceTable maps plan keys to prices. Stored as JSONB.
type PriceTable map[string]int64

// PriceFor returns the price for a plan, or zero when the gym has no price for it.
func (p PriceTable) PriceFor(plan string) int64 {
	return p[NormalizePlanKey(plan)]
}

func (p PriceTable) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

func (p *PriceTable) Scan(src interface{}) error {
	return scanJSON(src, p)
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("gym: unsupported json column type")
	}
}

type CreateGymRequest struct {
	Name        string           `json:"name" binding:"required,max=255"`
	Address     string           `json:"address" binding:"required"`
	Phone       string           `json:"phone" binding:"max=50"`
	Description string           `json:"description"`
	Hours       []OperatingHours `json:"hours" binding:"dive"`
	Facilities  []Facility       `json:"facilities" binding:"required,min=1,dive,facility"`
	Prices      map[string]int64 `json:"prices" binding:"required,min=1"`
	Images      []string         `json:"images" binding:"dive,url"`
}

type RateGymRequest struct {
	Score   int    `json:"score" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}
