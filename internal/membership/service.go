package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"gymhub/internal/events"
	"gymhub/internal/goer"
	"gymhub/internal/gym"
	"gymhub/internal/logger"
	"gymhub/internal/metrics"
	"gymhub/internal/obs"
	"gymhub/internal/user"
)

type GoerFinder interface {
	GetByUserID(ctx context.Context, userID int) (*goer.GymGoer, error)
}

type GymFinder interface {
	GetByID(ctx context.Context, id int) (*gym.Gym, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Notifier interface {
	SendEnrollmentConfirmation(ctx context.Context, to, name, gymName, tier string, start, end time.Time) error
}

type Service interface {
	Enroll(ctx context.Context, userID, gymID int, tier string, endDate time.Time) (*Membership, error)
	ListMembersOfGym(ctx context.Context, gymID int) ([]MemberRecord, error)
	ListMembersOfOwnedGym(ctx context.Context, ownerID, gymID int) ([]MemberRecord, error)
	ExpireOverdue(ctx context.Context) (int64, error)
	ListMine(ctx context.Context, userID int) ([]Membership, error)
	Invoice(ctx context.Context, userID, membershipID int) (*Invoice, error)
}

type Option func(*service)

func WithNotifier(n Notifier) Option {
	return func(s *service) { s.notifier = n }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *service) { s.events = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	repo     Repository
	goers    GoerFinder
	gyms     GymFinder
	users    UserFinder
	notifier Notifier
	events   events.Publisher
	now      func() time.Time
}

func NewService(repo Repository, goers GoerFinder, gyms GymFinder, users UserFinder, opts ...Option) Service {
	s := &service{
		repo:   repo,
		goers:  goers,
		gyms:   gyms,
		users:  users,
		events: events.NopPublisher{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var tracer = obs.Tracer("membership")

func (s *service) Enroll(ctx context.Context, userID, gymID int, rawTier string, endDate time.Time) (_ *Membership, err error) {
	ctx, span := tracer.Start(ctx, "membership.Enroll")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("gym.id", gymID))

	g, err := s.goers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	y, err := s.gyms.GetByID(ctx, gymID)
	if err != nil {
		return nil, err
	}

	tier, err := ParseTier(rawTier)
	if err != nil {
		return nil, err
	}
	if endDate.IsZero() {
		return nil, fmt.Errorf("%w: end date is required", ErrValidation)
	}
	start := s.now()
	if !endDate.After(start) {
		return nil, fmt.Errorf("%w: end date must be after the start date", ErrValidation)
	}

	existing, err := s.repo.FindActive(ctx, g.ID, gymID)
	switch {
	case err == nil:
		metrics.RecordEnrollmentConflict()
		return nil, &DuplicateActiveMembershipError{Tier: existing.Tier}
	case !errors.Is(err, ErrMembershipNotFound):
		return nil, err
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	m := &Membership{
		GoerID:       g.ID,
		GymID:        gymID,
		Tier:         tier,
		StartDate:    start,
		EndDate:      endDate,
		Status:       StatusActive,
		MemberName:   u.Name,
		MemberAvatar: u.AvatarURL,
	}

	var created *Membership
	err = s.repo.InTx(ctx, func(tx Repository) error {
		c, err := tx.Create(ctx, m)
		if err != nil {
			return err
		}
		created = c
		return Propagate(ctx, tx, c, y.Name)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateActiveMembership) {
			metrics.RecordEnrollmentConflict()
			if winner, ferr := s.repo.FindActive(ctx, g.ID, gymID); ferr == nil {
				return nil, &DuplicateActiveMembershipError{Tier: winner.Tier}
			}
		}
		return nil, err
	}

	metrics.RecordEnrollment(string(created.Tier))
	span.SetAttributes(attribute.Int("membership.id", created.ID), attribute.String("membership.tier", string(created.Tier)))
	logger.Info("membership created", "membership_id", created.ID, "goer_id", g.ID, "gym_id", gymID, "tier", created.Tier)

	s.announce(ctx, u, y, created)
	return created, nil
}

// announce sends the confirmation email and the enrolled event. Failures are only logged.
func (s *service) announce(ctx context.Context, u *user.User, y *gym.Gym, m *Membership) {
	if s.notifier != nil {
		if err := s.notifier.SendEnrollmentConfirmation(ctx, u.Email, u.Name, y.Name, string(m.Tier), m.StartDate, m.EndDate); err != nil {
			logger.Error("enrollment email not queued", "membership_id", m.ID, "error", err)
		}
	}

	ev := events.MembershipEnrolled{
		MembershipID: m.ID,
		GoerID:       m.GoerID,
		GymID:        m.GymID,
		Tier:         string(m.Tier),
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
	}
	if err := s.events.PublishJSON(ctx, events.KeyMembershipEnrolled, ev); err != nil {
		logger.Error("enrolled event not published", "membership_id", m.ID, "error", err)
	}
}

func (s *service) ListMembersOfGym(ctx context.Context, gymID int) ([]MemberRecord, error) {
	if _, err := s.gyms.GetByID(ctx, gymID); err != nil {
		return nil, err
	}
	return s.repo.ListByGym(ctx, gymID)
}

func (s *service) ListMembersOfOwnedGym(ctx context.Context, ownerID, gymID int) ([]MemberRecord, error) {
	y, err := s.gyms.GetByID(ctx, gymID)
	if err != nil {
		return nil, err
	}
	if y.OwnerID != ownerID {
		return nil, gym.ErrGymNotFound
	}
	return s.repo.ListByGym(ctx, gymID)
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *service) ExpireOverdue(ctx context.Context) (_ int64, err error) {
	ctx, span := tracer.Start(ctx, "membership.ExpireOverdue")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	cutoff := StartOfDay(s.now())
	n, err := s.repo.ExpireBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire memberships before %s: %w", cutoff.Format(time.DateOnly), err)
	}

	span.SetAttributes(attribute.Int64("memberships.expired", n))
	return n, nil
}

func (s *service) ListMine(ctx context.Context, userID int) ([]Membership, error) {
	g, err := s.goers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByGoer(ctx, g.ID)
}

func (s *service) Invoice(ctx context.Context, userID, membershipID int) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if inv.UserID != userID {
		return nil, ErrMembershipNotFound
	}

	inv.Number = fmt.Sprintf("INV-%06d", inv.Membership.ID)
	inv.IssuedAt = s.now()
	inv.Amount = inv.Prices.PriceFor(string(inv.Membership.Tier))
	return inv, nil
}
