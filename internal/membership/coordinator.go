package membership

import (
	"context"
	"fmt"
)

// Propagate writes a freshly created membership into the denormalized views:
// the goer's enrolled list, the goer's dashboard and the gym's membership list.
// It must run on the transaction that inserted m.
func Propagate(ctx context.Context, tx Repository, m *Membership, gymName string) error {
	if err := tx.AppendToGoer(ctx, m.GoerID, m.ID); err != nil {
		return fmt.Errorf("append membership to goer: %w", err)
	}
	if err := tx.MarkDashboardEnrolled(ctx, m.GoerID, gymName); err != nil {
		return fmt.Errorf("mark dashboard enrolled: %w", err)
	}
	if err := tx.AppendToGym(ctx, m.GymID, m.ID); err != nil {
		return fmt.Errorf("append membership to gym: %w", err)
	}
	return nil
}
