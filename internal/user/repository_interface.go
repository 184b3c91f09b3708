package user

import "context"

type Repository interface {
	// Create inserts the user; goers also get their GymGoer profile row in the same transaction.
	Create(ctx context.Context, u *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
