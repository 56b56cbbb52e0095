package repository

import (
	"context"

	"github.com/dzangaro/miti/internal/domain"
)

// UserCatalog is the persisted user directory behind signup, login and user
// management. Mutate runs its callback atomically over the whole catalog so
// compound invariants (no duplicate email, first user per tenant becomes
// admin) hold even under concurrent API calls.
type UserCatalog interface {
	All(ctx context.Context) ([]domain.UserRecord, error)

	// FindByEmail returns nil without error when no record matches.
	FindByEmail(ctx context.Context, email string) (*domain.UserRecord, error)

	ByTenant(ctx context.Context, tenantID string) ([]domain.UserRecord, error)

	// Mutate replaces the catalog with the callback's result. Returning an
	// error from the callback aborts the write and leaves the catalog
	// unchanged.
	Mutate(ctx context.Context, fn func(users []domain.UserRecord) ([]domain.UserRecord, error)) error
}

// TenantCatalog is the persisted tenant directory.
type TenantCatalog interface {
	// Get returns nil without error when the tenant does not exist.
	Get(ctx context.Context, id string) (*domain.Tenant, error)

	// Upsert inserts or replaces the tenant keyed by its id.
	Upsert(ctx context.Context, tenant domain.Tenant) error
}
