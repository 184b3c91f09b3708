package goer

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID int) (*GymGoer, error)
	GetDashboard(ctx context.Context, goerID int) (*Dashboard, error)
	// CompleteProfile fills the dashboard profile once; a stub left by enrollment is completed in place.
	CompleteProfile(ctx context.Context, goerID int, d *Dashboard) (*Dashboard, error)
	// UpdateTracking locks the dashboard row, applies fn and persists the tracking fields.
	UpdateTracking(ctx context.Context, goerID int, fn func(*Dashboard) error) (*Dashboard, error)
	ListDisplay(ctx context.Context, goerIDs []int) ([]Display, error)
}
