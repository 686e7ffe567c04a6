package game

import "context"

// Repository describes game persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Game, error)
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	Create(ctx context.Context, item Game) error
	// UpdateDrawn replaces the stored draw history. Saving the same history twice is a no-op.
	UpdateDrawn(ctx context.Context, gameID string, drawn []int) error
	Delete(ctx context.Context, gameID string) (bool, error)
	DeleteAll(ctx context.Context) error
}
