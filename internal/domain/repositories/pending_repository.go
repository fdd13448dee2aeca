package repositories

import (
	"context"
	"time"

	"registration-service/internal/domain/entities"
)

// PendingRepository is the authoritative store for in-flight registrations,
// keyed by email. Save overwrites any existing slot for the same email and
// resets the TTL; Find returns (nil, nil) when no slot exists or the TTL
// already evicted it.
type PendingRepository interface {
	Save(ctx context.Context, pending *entities.PendingRegistration, ttl time.Duration) error
	Find(ctx context.Context, email string) (*entities.PendingRegistration, error)
	Delete(ctx context.Context, email string) error
}
