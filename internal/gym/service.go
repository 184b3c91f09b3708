package gym

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation    = errors.New("invalid gym data")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

type Service interface {
	CreateGym(ctx context.Context, ownerID int, req CreateGymRequest) (*Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	SearchGyms(ctx context.Context, query, facility string) ([]Gym, error)
	ListOwnerGyms(ctx context.Context, ownerID int) ([]Gym, error)
	RateGym(ctx context.Context, gymID, userID int, req RateGymRequest) (*Rating, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateGym(ctx context.Context, ownerID int, req CreateGymRequest) (*Gym, error) {
	hours, err := validateHours(req.Hours)
	if err != nil {
		return nil, err
	}

	if len(req.Facilities) == 0 {
		return nil, fmt.Errorf("%w: at least one facility is required", ErrValidation)
	}
	facilities := make(Facilities, 0, len(req.Facilities))
	for _, f := range req.Facilities {
		f = Facility(normalizeTag(string(f)))
		if !f.Valid() {
			return nil, fmt.Errorf("%w: unknown facility %q", ErrValidation, f)
		}
		if !facilities.Contains(f) {
			facilities = append(facilities, f)
		}
	}

	prices := make(PriceTable, len(req.Prices))
	for k, v := range req.Prices {
		key := NormalizePlanKey(k)
		if !validPlanKey(key) {
			return nil, fmt.Errorf("%w: unknown plan %q in price table", ErrValidation, k)
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: negative price for %s", ErrValidation, key)
		}
		prices[key] = v
	}

	g := &Gym{
		ExternalID:  uuid.New(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Address:     strings.TrimSpace(req.Address),
		Phone:       strings.TrimSpace(req.Phone),
		Description: req.Description,
		Hours:       hours,
		Facilities:  facilities,
		Prices:      prices,
		Images:      req.Images,
	}
	if g.Images == nil {
		g.Images = []string{}
	}

	return s.repo.Create(ctx, g)
}

// validateHours rejects duplicate days and intervals whose close is not after open.
func validateHours(in []OperatingHours) (WeeklyHours, error) {
	seen := make(map[Weekday]struct{}, len(in))
	out := make(WeeklyHours, 0, len(in))
	for _, h := range in {
		day := Weekday(normalizeTag(string(h.Day)))
		if !day.Valid() {
			return nil, fmt.Errorf("%w: unknown day %q", ErrValidation, h.Day)
		}
		if _, dup := seen[day]; dup {
			return nil, fmt.Errorf("%w: duplicate hours for %s", ErrValidation, day)
		}
		seen[day] = struct{}{}

		open, err := time.Parse("15:04", h.Open)
		if err != nil {
			return nil, fmt.Errorf("%w: bad open time %q", ErrValidation, h.Open)
		}
		closeAt, err := time.Parse("15:04", h.Close)
		if err != nil {
			return nil, fmt.Errorf("%w: bad close time %q", ErrValidation, h.Close)
		}
		if !closeAt.After(open) {
			return nil, fmt.Errorf("%w: %s closes before it opens", ErrValidation, day)
		}

		out = append(out, OperatingHours{Day: day, Open: h.Open, Close: h.Close})
	}
	return out, nil
}

func (s *service) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) SearchGyms(ctx context.Context, query, facility string) ([]Gym, error) {
	f := Facility(normalizeTag(facility))
	if f != "" && !f.Valid() {
		return nil, fmt.Errorf("%w: unknown facility %q", ErrValidation, facility)
	}
	return s.repo.Search(ctx, query, f)
}

func (s *service) ListOwnerGyms(ctx context.Context, ownerID int) ([]Gym, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) RateGym(ctx context.Context, gymID, userID int, req RateGymRequest) (*Rating, error) {
	if req.Score < 1 || req.Score > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.repo.GetByID(ctx, gymID); err != nil {
		return nil, err
	}

	return s.repo.AddRating(ctx, &Rating{
		GymID:   gymID,
		UserID:  userID,
		Score:   req.Score,
		Comment: strings.TrimSpace(req.Comment),
	})
}
