package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dzangaro/miti/internal/domain"
	"github.com/dzangaro/miti/internal/repository"
	"github.com/dzangaro/miti/pkg/kvstore"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrDomainMismatch     = errors.New("email domain does not match your organization")
	ErrSelfRemoval        = errors.New("you cannot remove your own account")
)

// TokenIssuer issues and validates the session token pairs.
type TokenIssuer interface {
	GenerateTokenPair(user *domain.User) (*domain.TokenPair, error)
	ValidateToken(token string) (*domain.Claims, error)
}

// TokenRevoker invalidates tokens ahead of their expiry.
type TokenRevoker interface {
	AddToken(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	BlacklistUser(ctx context.Context, userID string, ttl time.Duration) error
	IsUserBlacklisted(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error)
}

// PasswordHasher hides the password hashing scheme from the auth flows.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	Tokens *domain.TokenPair `json:"tokens"`
	User   *domain.User      `json:"user"`
}

// AuthService owns the session: login, signup, logout, and the per-tenant
// data-source onboarding flag. The user and tenant catalogs live behind the
// key-value persistence port so a server-backed store can replace them
// without touching the transition logic here.
type AuthService struct {
	users    repository.UserCatalog
	tenants  repository.TenantCatalog
	session  kvstore.Store
	hasher   PasswordHasher
	tokens   TokenIssuer
	revoker  TokenRevoker
	resolver TenantResolver
	logger   *zap.Logger
}

func NewAuthService(
	users repository.UserCatalog,
	tenants repository.TenantCatalog,
	session kvstore.Store,
	hasher PasswordHasher,
	tokens TokenIssuer,
	revoker TokenRevoker,
	resolver TenantResolver,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tenants:  tenants,
		session:  session,
		hasher:   hasher,
		tokens:   tokens,
		revoker:  revoker,
		resolver: resolver,
		logger:   logger,
	}
}

// Login verifies the credentials and establishes the session. Tenant id and
// username are derived from the email when the stored record predates those
// fields.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	rec, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(req.Password, rec.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	user := rec.User
	if user.TenantID == "" {
		user.TenantID = s.resolver.Resolve(user.Email)
	}
	if user.Username == "" {
		user.Username = usernameFromEmail(user.Email)
	}

	if err := s.establishSession(ctx, &user); err != nil {
		return nil, err
	}

	tokens, err := s.tokens.GenerateTokenPair(&user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("tenant_id", user.TenantID),
	)
	return &LoginResponse{Tokens: tokens, User: &user}, nil
}

// Signup registers a new user. The first user of a tenant becomes its admin
// and implicitly creates the tenant record; everyone after that starts
// read-only until promoted. The duplicate check and the tenant head count run
// inside one catalog mutation so concurrent signups cannot race them.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*LoginResponse, error) {
	tenantID := s.resolver.Resolve(req.Email)

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created domain.User
	var firstInTenant bool

	err = s.users.Mutate(ctx, func(users []domain.UserRecord) ([]domain.UserRecord, error) {
		tenantCount := 0
		for _, u := range users {
			if u.Email == req.Email {
				return nil, ErrEmailTaken
			}
			existingTenant := u.TenantID
			if existingTenant == "" {
				existingTenant = s.resolver.Resolve(u.Email)
			}
			if existingTenant == tenantID {
				tenantCount++
			}
		}

		role := domain.RoleReadOnly
		if tenantCount == 0 {
			role = domain.RoleAdmin
			firstInTenant = true
		}

		created = domain.User{
			ID:       uuid.New().String(),
			Name:     req.Name,
			Username: usernameFromEmail(req.Email),
			Email:    req.Email,
			Role:     role,
			TenantID: tenantID,
		}

		return append(users, domain.UserRecord{User: created, PasswordHash: passwordHash}), nil
	})
	if err != nil {
		return nil, err
	}

	if firstInTenant {
		tenant := domain.Tenant{
			ID:     tenantID,
			Name:   tenantNameFromDomain(tenantID),
			Domain: tenantID,
		}
		if err := s.tenants.Upsert(ctx, tenant); err != nil {
			return nil, err
		}
	}

	if err := s.establishSession(ctx, &created); err != nil {
		return nil, err
	}

	tokens, err := s.tokens.GenerateTokenPair(&created)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up",
		zap.String("user_id", created.ID),
		zap.String("tenant_id", created.TenantID),
		zap.String("role", string(created.Role)),
	)
	return &LoginResponse{Tokens: tokens, User: &created}, nil
}

// Refresh exchanges a valid, unrevoked refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidCredentials
	}

	revoked, err := s.revoker.IsBlacklisted(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !revoked && claims.IssuedAt != nil {
		userRevoked, err := s.revoker.IsUserBlacklisted(ctx, claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			return nil, err
		}
		revoked = userRevoked
	}
	if revoked {
		return nil, ErrInvalidCredentials
	}

	user, err := s.findByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return s.tokens.GenerateTokenPair(user)
}

// Logout revokes the presented tokens and clears the session snapshot. The
// persisted user catalog is untouched.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	for _, token := range []string{accessToken, refreshToken} {
		if token == "" {
			continue
		}
		claims, err := s.tokens.ValidateToken(token)
		if err != nil || claims.ExpiresAt == nil {
			continue
		}
		if err := s.revoker.AddToken(ctx, token, claims.ExpiresAt.Time); err != nil {
			s.logger.Warn("failed to blacklist token on logout", zap.Error(err))
		}
	}

	if err := s.session.Delete(ctx, kvstore.KeyCurrentUser); err != nil {
		return err
	}
	return s.session.Delete(ctx, kvstore.KeyHasConfiguredDataSource)
}

// Current returns the session's user snapshot, or nil when nobody is logged
// in.
func (s *AuthService) Current(ctx context.Context) (*domain.User, error) {
	var user domain.User
	found, err := s.session.Get(ctx, kvstore.KeyCurrentUser, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// HasConfiguredDataSource reports the session-wide onboarding flag.
func (s *AuthService) HasConfiguredDataSource(ctx context.Context) (bool, error) {
	var configured bool
	if _, err := s.session.Get(ctx, kvstore.KeyHasConfiguredDataSource, &configured); err != nil {
		return false, err
	}
	return configured, nil
}

// SetHasConfiguredDataSource flips the tenant's onboarding flag and mirrors
// it into the session state.
func (s *AuthService) SetHasConfiguredDataSource(ctx context.Context, tenantID string, configured bool) error {
	tenant, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant == nil {
		return fmt.Errorf("tenant %q not found", tenantID)
	}

	tenant.HasConfiguredDataSource = configured
	if err := s.tenants.Upsert(ctx, *tenant); err != nil {
		return err
	}
	return s.session.Set(ctx, kvstore.KeyHasConfiguredDataSource, configured)
}

func (s *AuthService) establishSession(ctx context.Context, user *domain.User) error {
	if err := s.session.Set(ctx, kvstore.KeyCurrentUser, user); err != nil {
		return err
	}

	configured := false
	tenant, err := s.tenants.Get(ctx, user.TenantID)
	if err != nil {
		return err
	}
	if tenant != nil {
		configured = tenant.HasConfiguredDataSource
	}
	return s.session.Set(ctx, kvstore.KeyHasConfiguredDataSource, configured)
}

func (s *AuthService) findByID(ctx context.Context, id string) (*domain.User, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			user := users[i].User
			return &user, nil
		}
	}
	return nil, nil
}
