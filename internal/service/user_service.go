package service

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dzangaro/miti/internal/domain"
	"github.com/dzangaro/miti/internal/repository"
	"github.com/dzangaro/miti/pkg/email"
)

type InviteRequest struct {
	FirstName string      `json:"first_name" validate:"required"`
	LastName  string      `json:"last_name" validate:"required"`
	Email     string      `json:"email" validate:"required,email"`
	Role      domain.Role `json:"role" validate:"required,oneof=admin analyst read-only"`
}

type UpdateUserRequest struct {
	Name string      `json:"name" validate:"required"`
	Role domain.Role `json:"role" validate:"required,oneof=admin analyst read-only"`
}

// UserService covers tenant-scoped user administration: listing the tenant's
// users, inviting, editing name/role and removing accounts. Email is
// immutable after creation by construction; none of the operations accept it.
type UserService struct {
	users    repository.UserCatalog
	revoker  TokenRevoker
	hasher   PasswordHasher
	mailer   email.Mailer
	resolver TenantResolver
	logger   *zap.Logger
}

func NewUserService(
	users repository.UserCatalog,
	revoker TokenRevoker,
	hasher PasswordHasher,
	mailer email.Mailer,
	resolver TenantResolver,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:    users,
		revoker:  revoker,
		hasher:   hasher,
		mailer:   mailer,
		resolver: resolver,
		logger:   logger,
	}
}

// ListTenantUsers returns the acting user's tenant colleagues.
func (s *UserService) ListTenantUsers(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	records, err := s.users.ByTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(records))
	for _, rec := range records {
		users = append(users, rec.User)
	}
	return users, nil
}

// Invite provisions an account inside the actor's tenant. The invited email
// must carry the actor's own domain; cross-tenant invites are rejected
// before any mutation.
func (s *UserService) Invite(ctx context.Context, actor *domain.User, req InviteRequest) (*domain.User, error) {
	if s.resolver.Resolve(req.Email) != s.resolver.Resolve(actor.Email) {
		return nil, ErrDomainMismatch
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("generate temporary password: %w", err)
	}

	passwordHash, err := s.hasher.Hash(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("hash temporary password: %w", err)
	}

	name := strings.TrimSpace(req.FirstName + " " + req.LastName)
	created := domain.User{
		ID:       uuid.New().String(),
		Name:     name,
		Username: usernameFromEmail(req.Email),
		Email:    req.Email,
		Role:     req.Role,
		TenantID: actor.TenantID,
	}

	err = s.users.Mutate(ctx, func(users []domain.UserRecord) ([]domain.UserRecord, error) {
		for _, u := range users {
			if u.Email == req.Email {
				return nil, ErrEmailTaken
			}
		}
		return append(users, domain.UserRecord{User: created, PasswordHash: passwordHash}), nil
	})
	if err != nil {
		return nil, err
	}

	// Delivery failures do not roll back the invite; the admin can resend.
	if err := s.mailer.SendInvitation(ctx, created.Email, created.Name, string(created.Role), tempPassword); err != nil {
		s.logger.Warn("invitation email failed", zap.String("email", created.Email), zap.Error(err))
	}

	s.logger.Info("user invited",
		zap.String("user_id", created.ID),
		zap.String("tenant_id", created.TenantID),
		zap.String("role", string(created.Role)),
	)
	return &created, nil
}

// Update changes a user's display name and role. The target must belong to
// the actor's tenant.
func (s *UserService) Update(ctx context.Context, actor *domain.User, userID string, req UpdateUserRequest) (*domain.User, error) {
	var updated domain.User

	err := s.users.Mutate(ctx, func(users []domain.UserRecord) ([]domain.UserRecord, error) {
		for i := range users {
			if users[i].ID != userID {
				continue
			}
			if users[i].TenantID != actor.TenantID {
				return nil, ErrUserNotFound
			}
			users[i].Name = req.Name
			users[i].Role = req.Role
			updated = users[i].User
			return users, nil
		}
		return nil, ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", zap.String("user_id", userID), zap.String("role", string(req.Role)))
	return &updated, nil
}

// Remove deletes a user record. Removing your own account is forbidden, so a
// tenant can never orphan itself of its last acting admin mid-session. Any
// outstanding tokens of the removed user are revoked.
func (s *UserService) Remove(ctx context.Context, actor *domain.User, userID string) error {
	if actor.ID == userID {
		return ErrSelfRemoval
	}

	err := s.users.Mutate(ctx, func(users []domain.UserRecord) ([]domain.UserRecord, error) {
		for i := range users {
			if users[i].ID != userID {
				continue
			}
			if users[i].TenantID != actor.TenantID {
				return nil, ErrUserNotFound
			}
			return append(users[:i], users[i+1:]...), nil
		}
		return nil, ErrUserNotFound
	})
	if err != nil {
		return err
	}

	if err := s.revoker.BlacklistUser(ctx, userID, 24*time.Hour); err != nil {
		s.logger.Warn("failed to revoke removed user's tokens", zap.String("user_id", userID), zap.Error(err))
	}

	s.logger.Info("user removed", zap.String("user_id", userID))
	return nil
}

// generateTempPassword returns a short random secret the invited user must
// replace on first login.
func generateTempPassword() (string, error) {
	raw := make([]byte, 10)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw)), nil
}
