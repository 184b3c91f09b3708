package stats

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"gymhub/internal/auth"
	"gymhub/internal/goer"
	"gymhub/internal/gym"
	"gymhub/internal/membership"
	"gymhub/internal/obs"
	"gymhub/internal/user"
)

type GymLister interface {
	ListByOwner(ctx context.Context, ownerID int) ([]gym.Gym, error)
}

type MembershipLoader interface {
	ListActiveByGyms(ctx context.Context, gymIDs []int) ([]membership.Membership, error)
	GetByIDs(ctx context.Context, ids []int64) ([]membership.Membership, error)
}

type DisplayLoader interface {
	ListDisplay(ctx context.Context, goerIDs []int) ([]goer.Display, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Service interface {
	OwnerStats(ctx context.Context, ownerID int) (*OwnerStats, error)
	MembersByGym(ctx context.Context, ownerID int) ([]MemberSummary, error)
}

type service struct {
	users       UserFinder
	gyms        GymLister
	memberships MembershipLoader
	displays    DisplayLoader
}

func NewService(users UserFinder, gyms GymLister, memberships MembershipLoader, displays DisplayLoader) Service {
	return &service{
		users:       users,
		gyms:        gyms,
		memberships: memberships,
		displays:    displays,
	}
}

var tracer = obs.Tracer("stats")

func (s *service) resolveOwner(ctx context.Context, ownerID int) error {
	u, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrOwnerNotFound
		}
		return err
	}
	if u.Role != auth.RoleOwner {
		return ErrOwnerNotFound
	}
	return nil
}

func (s *service) OwnerStats(ctx context.Context, ownerID int) (_ *OwnerStats, err error) {
	ctx, span := tracer.Start(ctx, "stats.OwnerStats")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int("owner.id", ownerID))

	if err := s.resolveOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	gyms, err := s.gyms.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(gyms) == 0 {
		return nil, ErrNoGyms
	}

	ids := make([]int, len(gyms))
	for i, g := range gyms {
		ids[i] = g.ID
	}

	active, err := s.memberships.ListActiveByGyms(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := Aggregate(gyms, active)
	span.SetAttributes(attribute.Int("stats.members", out.TotalMembers))
	return out, nil
}

func (s *service) MembersByGym(ctx context.Context, ownerID int) ([]MemberSummary, error) {
	if err := s.resolveOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	gyms, err := s.gyms.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	gymNames := make(map[int]string, len(gyms))
	seen := map[int64]bool{}
	var ids []int64
	for _, g := range gyms {
		gymNames[g.ID] = g.Name
		for _, id := range g.MembershipIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	out := []MemberSummary{}
	if len(ids) == 0 {
		return out, nil
	}

	list, err := s.memberships.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]membership.Membership, len(list))
	goerSeen := map[int]bool{}
	var goerIDs []int
	for _, m := range list {
		byID[int64(m.ID)] = m
		if !goerSeen[m.GoerID] {
			goerSeen[m.GoerID] = true
			goerIDs = append(goerIDs, m.GoerID)
		}
	}

	displays, err := s.displays.ListDisplay(ctx, goerIDs)
	if err != nil {
		return nil, err
	}
	byGoer := make(map[int]goer.Display, len(displays))
	for _, d := range displays {
		byGoer[d.GoerID] = d
	}

	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			continue
		}
		row := MemberSummary{
			MembershipID: m.ID,
			GymID:        m.GymID,
			GymName:      gymNames[m.GymID],
			GoerID:       m.GoerID,
			Name:         m.MemberName,
			AvatarURL:    m.MemberAvatar,
			Tier:         m.Tier,
			Status:       m.Status,
			StartDate:    m.StartDate.Format(DateLabel),
			EndDate:      m.EndDate.Format(DateLabel),
		}
		if d, ok := byGoer[m.GoerID]; ok {
			row.UserID = d.UserID
			row.Name = d.Name
			row.Email = d.Email
			row.AvatarURL = d.AvatarURL
		}
		out = append(out, row)
	}

	return out, nil
}
