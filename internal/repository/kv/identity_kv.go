// Package kv implements the identity catalogs over the key-value persistence
// port. Each catalog is stored whole as a JSON array under its well-known
// key, matching the storage contract a server-backed store must honor.
package kv

import (
	"context"
	"fmt"
	"sync"

	"github.com/dzangaro/miti/internal/domain"
	"github.com/dzangaro/miti/internal/repository"
	"github.com/dzangaro/miti/pkg/kvstore"
)

type userCatalog struct {
	mu    sync.Mutex
	store kvstore.Store
}

func NewUserCatalog(store kvstore.Store) repository.UserCatalog {
	return &userCatalog{store: store}
}

func (c *userCatalog) load(ctx context.Context) ([]domain.UserRecord, error) {
	var users []domain.UserRecord
	// An absent key means nobody has signed up yet.
	if _, err := c.store.Get(ctx, kvstore.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("load user catalog: %w", err)
	}
	return users, nil
}

func (c *userCatalog) All(ctx context.Context) ([]domain.UserRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

func (c *userCatalog) FindByEmail(ctx context.Context, email string) (*domain.UserRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	users, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (c *userCatalog) ByTenant(ctx context.Context, tenantID string) ([]domain.UserRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	users, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.UserRecord
	for _, u := range users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (c *userCatalog) Mutate(ctx context.Context, fn func(users []domain.UserRecord) ([]domain.UserRecord, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	users, err := c.load(ctx)
	if err != nil {
		return err
	}

	updated, err := fn(users)
	if err != nil {
		return err
	}

	if err := c.store.Set(ctx, kvstore.KeyUsers, updated); err != nil {
		return fmt.Errorf("save user catalog: %w", err)
	}
	return nil
}

type tenantCatalog struct {
	mu    sync.Mutex
	store kvstore.Store
}

func NewTenantCatalog(store kvstore.Store) repository.TenantCatalog {
	return &tenantCatalog{store: store}
}

func (c *tenantCatalog) load(ctx context.Context) ([]domain.Tenant, error) {
	var tenants []domain.Tenant
	if _, err := c.store.Get(ctx, kvstore.KeyTenants, &tenants); err != nil {
		return nil, fmt.Errorf("load tenant catalog: %w", err)
	}
	return tenants, nil
}

func (c *tenantCatalog) Get(ctx context.Context, id string) (*domain.Tenant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tenants, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tenants {
		if tenants[i].ID == id {
			return &tenants[i], nil
		}
	}
	return nil, nil
}

func (c *tenantCatalog) Upsert(ctx context.Context, tenant domain.Tenant) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tenants, err := c.load(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range tenants {
		if tenants[i].ID == tenant.ID {
			tenants[i] = tenant
			replaced = true
			break
		}
	}
	if !replaced {
		tenants = append(tenants, tenant)
	}

	if err := c.store.Set(ctx, kvstore.KeyTenants, tenants); err != nil {
		return fmt.Errorf("save tenant catalog: %w", err)
	}
	return nil
}
