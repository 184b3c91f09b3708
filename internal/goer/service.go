package goer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "January 2006"
)

var ErrValidation = errors.New("invalid dashboard data")

type Service interface {
	GetProfile(ctx context.Context, userID int) (*GymGoer, error)
	CreateDashboard(ctx context.Context, userID int, req CreateDashboardRequest) (*Dashboard, error)
	GetDashboard(ctx context.Context, userID int) (*Dashboard, error)
	AddWeight(ctx context.Context, userID int, req WeightRequest) (*Dashboard, error)
	MarkAttendance(ctx context.Context, userID int, req AttendanceRequest) (*Dashboard, error)
	UpdateTargets(ctx context.Context, userID int, req TargetsRequest) (*Dashboard, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProfile(ctx context.Context, userID int) (*GymGoer, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) CreateDashboard(ctx context.Context, userID int, req CreateDashboardRequest) (*Dashboard, error) {
	g, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Age:      req.Age,
		Gender:   strings.ToLower(strings.TrimSpace(req.Gender)),
		HeightCM: req.HeightCM,
		Budget:   Budget(strings.ToLower(string(req.Budget))),
	}
	if !d.Budget.Valid() {
		return nil, fmt.Errorf("%w: unknown budget %q", ErrValidation, req.Budget)
	}

	d.Goals = TagList[FitnessGoal]{}
	for _, goal := range req.Goals {
		if !goal.Valid() {
			return nil, fmt.Errorf("%w: unknown fitness goal %q", ErrValidation, goal)
		}
		d.Goals = appendUnique(d.Goals, goal)
	}
	d.Programs = TagList[Program]{}
	for _, p := range req.Programs {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: unknown program %q", ErrValidation, p)
		}
		d.Programs = appendUnique(d.Programs, p)
	}

	return s.repo.CompleteProfile(ctx, g.ID, d)
}

func appendUnique[T comparable](list []T, v T) []T {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func (s *service) GetDashboard(ctx context.Context, userID int) (*Dashboard, error) {
	g, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetDashboard(ctx, g.ID)
}

func (s *service) AddWeight(ctx context.Context, userID int, req WeightRequest) (*Dashboard, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if req.Weight <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrValidation)
	}

	return s.track(ctx, userID, func(d *Dashboard) error {
		d.MonthlyData = insertSample(d.MonthlyData, WeightSample{Date: date, Weight: req.Weight})
		return nil
	})
}

func (s *service) MarkAttendance(ctx context.Context, userID int, req AttendanceRequest) (*Dashboard, error) {
	month, err := time.Parse(monthLayout, strings.TrimSpace(req.Month))
	if err != nil {
		return nil, fmt.Errorf("%w: month must look like %q", ErrValidation, monthLayout)
	}
	lastDay := time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if req.Day < 1 || req.Day > lastDay {
		return nil, fmt.Errorf("%w: %s has no day %d", ErrValidation, month.Format(monthLayout), req.Day)
	}

	return s.track(ctx, userID, func(d *Dashboard) error {
		d.Attendance = markDay(d.Attendance, month.Format(monthLayout), req.Day)
		return nil
	})
}

func (s *service) UpdateTargets(ctx context.Context, userID int, req TargetsRequest) (*Dashboard, error) {
	if req.TargetWeight == nil && req.CalorieTarget == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	if (req.TargetWeight != nil && *req.TargetWeight <= 0) || (req.CalorieTarget != nil && *req.CalorieTarget <= 0) {
		return nil, fmt.Errorf("%w: targets must be positive", ErrValidation)
	}

	return s.track(ctx, userID, func(d *Dashboard) error {
		if req.TargetWeight != nil {
			d.TargetWeight = req.TargetWeight
		}
		if req.CalorieTarget != nil {
			d.CalorieTarget = req.CalorieTarget
		}
		return nil
	})
}

func (s *service) track(ctx context.Context, userID int, fn func(*Dashboard) error) (*Dashboard, error) {
	g, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateTracking(ctx, g.ID, fn)
}

// insertSample keeps the log sorted by date; a sample for an existing day replaces it.
func insertSample(log WeightLog, sample WeightSample) WeightLog {
	i := sort.Search(len(log), func(i int) bool { return !log[i].Date.Before(sample.Date) })
	if i < len(log) && log[i].Date.Equal(sample.Date) {
		log[i] = sample
		return log
	}
	log = append(log, WeightSample{})
	copy(log[i+1:], log[i:])
	log[i] = sample
	return log
}

// markDay records a present day under the month label, ignoring repeats.
func markDay(log AttendanceLog, month string, day int) AttendanceLog {
	for i := range log {
		if log[i].Month != month {
			continue
		}
		j := sort.SearchInts(log[i].Days, day)
		if j < len(log[i].Days) && log[i].Days[j] == day {
			return log
		}
		log[i].Days = append(log[i].Days, 0)
		copy(log[i].Days[j+1:], log[i].Days[j:])
		log[i].Days[j] = day
		return log
	}
	return append(log, AttendanceMonth{Month: month, Days: []int{day}})
}
