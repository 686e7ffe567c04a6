package preference

import "context"

// Repository describes preference persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, key string) (Preference, bool, error)
	Upsert(ctx context.Context, item Preference) error
}
