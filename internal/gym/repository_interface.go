package gym

import "context"

type Repository interface {
	Create(ctx context.Context, g *Gym) (*Gym, error)
	GetByID(ctx context.Context, id int) (*Gym, error)
	ListByOwner(ctx context.Context, ownerID int) ([]Gym, error)
	Search(ctx context.Context, query string, facility Facility) ([]Gym, error)
	AddRating(ctx context.Context, r *Rating) (*Rating, error)
}
