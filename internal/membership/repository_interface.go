package membership

import (
	"context"
	"time"
)

type Repository interface {
	// InTx runs fn against a repository bound to one transaction.
	// Nested calls reuse the outer transaction.
	InTx(ctx context.Context, fn func(Repository) error) error

	FindActive(ctx context.Context, goerID, gymID int) (*Membership, error)
	Create(ctx context.Context, m *Membership) (*Membership, error)

	AppendToGoer(ctx context.Context, goerID, membershipID int) error
	MarkDashboardEnrolled(ctx context.Context, goerID int, gymName string) error
	AppendToGym(ctx context.Context, gymID, membershipID int) error

	ListByGym(ctx context.Context, gymID int) ([]MemberRecord, error)
	ListActiveByGyms(ctx context.Context, gymIDs []int) ([]Membership, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Membership, error)
	ListByGoer(ctx context.Context, goerID int) ([]Membership, error)
	GetInvoice(ctx context.Context, membershipID int) (*Invoice, error)

	// ExpireBefore marks active memberships ending before cutoff as expired and returns how many changed.
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
