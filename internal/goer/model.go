package goer

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
)

type GymGoer struct {
	ID                    int           `db:"id" json:"id"`
	UserID                int           `db:"user_id" json:"user_id"`
	EnrolledMembershipIDs pq.Int64Array `db:"enrolled_membership_ids" json:"enrolled_membership_ids"`
	DashboardID           *int          `db:"dashboard_id" json:"dashboard_id,omitempty"`
	CreatedAt             time.Time     `db:"created_at" json:"created_at"`
}

// Display is the user-facing identity of a goer, used when listing members.
type Display struct {
	GoerID    int    `db:"goer_id" json:"goer_id"`
	UserID    int    `db:"user_id" json:"user_id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	AvatarURL string `db:"avatar_url" json:"avatar_url"`
}

type FitnessGoal string

const (
	GoalWeightLoss     FitnessGoal = "weight_loss"
	GoalMuscleGain     FitnessGoal = "muscle_gain"
	GoalEndurance      FitnessGoal = "endurance"
	GoalFlexibility    FitnessGoal = "flexibility"
	GoalStrength       FitnessGoal = "strength"
	GoalGeneralFitness FitnessGoal = "general_fitness"
)

func (g FitnessGoal) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalMuscleGain, GoalEndurance, GoalFlexibility, GoalStrength, GoalGeneralFitness:
		return true
	}
	return false
}

type Program string

const (
	ProgramStrengthTraining Program = "strength_training"
	ProgramCardio           Program = "cardio"
	ProgramHIIT             Program = "hiit"
	ProgramYoga             Program = "yoga"
	ProgramPilates          Program = "pilates"
	ProgramCrossfit         Program = "crossfit"
	ProgramBodybuilding     Program = "bodybuilding"
)

func (p Program) Valid() bool {
	switch p {
	case ProgramStrengthTraining, ProgramCardio, ProgramHIIT, ProgramYoga, ProgramPilates, ProgramCrossfit, ProgramBodybuilding:
		return true
	}
	return false
}

type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

func (b Budget) Valid() bool {
	switch b {
	case BudgetLow, BudgetMedium, BudgetHigh:
		return true
	}
	return false
}

// TagList is a closed-vocabulary list stored as a Postgres TEXT[].
type TagList[T ~string] []T

func (l TagList[T]) Value() (driver.Value, error) {
	arr := make(pq.StringArray, len(l))
	for i, v := range l {
		arr[i] = string(v)
	}
	return arr.Value()
}

func (l *TagList[T]) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	out := make(TagList[T], len(arr))
	for i, v := range arr {
		out[i] = T(v)
	}
	*l = out
	return nil
}

type WeightSample struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

// WeightLog is kept in ascending date order, one sample per day.
type WeightLog []WeightSample

func (w WeightLog) Value() (driver.Value, error) { return jsonValue(w, "[]") }

func (w *WeightLog) Scan(src interface{}) error { return scanJSON(src, w) }

type AttendanceMonth struct {
	Month string `json:"month"`
	Days  []int  `json:"days"`
}

type AttendanceLog []AttendanceMonth

func (a AttendanceLog) Value() (driver.Value, error) { return jsonValue(a, "[]") }

func (a *AttendanceLog) Scan(src interface{}) error { return scanJSON(src, a) }

type Dashboard struct {
	ID               int                  `db:"id" json:"id"`
	GoerID           int                  `db:"goer_id" json:"goer_id"`
	Age              int                  `db:"age" json:"age"`
	Gender           string               `db:"gender" json:"gender"`
	HeightCM         int                  `db:"height_cm" json:"height_cm"`
	Goals            TagList[FitnessGoal] `db:"goals" json:"goals"`
	Programs         TagList[Program]     `db:"programs" json:"programs"`
	IsEnrolled       bool                 `db:"is_enrolled" json:"is_enrolled"`
	GymName          string               `db:"gym_name" json:"gym_name"`
	Budget           Budget               `db:"budget" json:"budget"`
	TargetWeight     *float64             `db:"target_weight" json:"target_weight,omitempty"`
	CalorieTarget    *int                 `db:"calorie_target" json:"calorie_target,omitempty"`
	MonthlyData      WeightLog            `db:"monthly_data" json:"monthly_data"`
	Attendance       AttendanceLog        `db:"attendance" json:"attendance"`
	ProfileCompleted bool                 `db:"profile_completed" json:"profile_completed"`
	CreatedAt        time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `db:"updated_at" json:"updated_at"`
}

func jsonValue(v interface{}, empty string) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return []byte(empty), nil
	}
	return b, nil
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
		return errors.New("goer: unsupported json column type")
	}
}

type CreateDashboardRequest struct {
	Age      int           `json:"age" binding:"required,min=10,max=120"`
	Gender   string        `json:"gender" binding:"required,oneof=male female other"`
	HeightCM int           `json:"height_cm" binding:"required,min=50,max=260"`
	Goals    []FitnessGoal `json:"goals" binding:"required,min=1"`
	Programs []Program     `json:"programs"`
	Budget   Budget        `json:"budget" binding:"required"`
}

type WeightRequest struct {
	Date   string  `json:"date" binding:"required"`
	Weight float64 `json:"weight" binding:"required,gt=0,lt=700"`
}

type AttendanceRequest struct {
	Month string `json:"month" binding:"required"`
	Day   int    `json:"day" binding:"required,min=1,max=31"`
}

type TargetsRequest struct {
	TargetWeight  *float64 `json:"target_weight" binding:"omitempty,gt=0"`
	CalorieTarget *int     `json:"calorie_target" binding:"omitempty,gt=0"`
}
