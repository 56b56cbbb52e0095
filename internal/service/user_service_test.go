package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dzangaro/miti/internal/domain"
	"github.com/dzangaro/miti/internal/repository/kv"
	"github.com/dzangaro/miti/pkg/hash"
	"github.com/dzangaro/miti/pkg/kvstore"
)

type recordingMailer struct {
	invitations []string
	err         error
}

func (m *recordingMailer) SendInvitation(_ context.Context, to, _, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.invitations = append(m.invitations, to)
	return nil
}

type userFixture struct {
	users   *UserService
	auth    *AuthService
	mailer  *recordingMailer
	revoker *stubTokenRevoker
	admin   *domain.User
}

// newUserFixture signs up the tenant admin alice@acme.com and returns a user
// service acting against the same catalog.
func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	store := kvstore.NewMemoryStore()
	catalog := kv.NewUserCatalog(store)
	hasher := hash.NewWithParams(8*1024, 1, 1)
	revoker := newStubTokenRevoker()
	mailer := &recordingMailer{}
	resolver := EmailDomainResolver{}

	auth := NewAuthService(
		catalog,
		kv.NewTenantCatalog(store),
		store,
		hasher,
		newStubTokenIssuer(),
		revoker,
		resolver,
		zap.NewNop(),
	)
	users := NewUserService(catalog, revoker, hasher, mailer, resolver, zap.NewNop())

	resp, err := auth.Signup(context.Background(), SignupRequest{
		Name:     "Alice Smith",
		Email:    "alice@acme.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	return &userFixture{users: users, auth: auth, mailer: mailer, revoker: revoker, admin: resp.User}
}

func TestInvite(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	invited, err := f.users.Invite(ctx, f.admin, InviteRequest{
		FirstName: "Bob",
		LastName:  "Jones",
		Email:     "bob@acme.com",
		Role:      domain.RoleAnalyst,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bob Jones", invited.Name)
	assert.Equal(t, "bob", invited.Username)
	assert.Equal(t, domain.RoleAnalyst, invited.Role)
	assert.Equal(t, f.admin.TenantID, invited.TenantID)
	assert.Equal(t, []string{"bob@acme.com"}, f.mailer.invitations)

	listed, err := f.users.ListTenantUsers(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestInviteDomainMismatch(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.users.Invite(context.Background(), f.admin, InviteRequest{
		FirstName: "Bob",
		LastName:  "Jones",
		Email:     "bob@globex.com",
		Role:      domain.RoleAnalyst,
	})

	assert.ErrorIs(t, err, ErrDomainMismatch)
	assert.Empty(t, f.mailer.invitations)
}

func TestInviteDuplicateEmail(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.users.Invite(context.Background(), f.admin, InviteRequest{
		FirstName: "Alice",
		LastName:  "Again",
		Email:     "alice@acme.com",
		Role:      domain.RoleReadOnly,
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestInviteSurvivesMailerFailure(t *testing.T) {
	f := newUserFixture(t)
	f.mailer.err = assert.AnError

	invited, err := f.users.Invite(context.Background(), f.admin, InviteRequest{
		FirstName: "Bob",
		LastName:  "Jones",
		Email:     "bob@acme.com",
		Role:      domain.RoleReadOnly,
	})

	require.NoError(t, err)
	assert.NotNil(t, invited)
}

func TestUpdateNameAndRole(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	invited, err := f.users.Invite(ctx, f.admin, InviteRequest{
		FirstName: "Bob",
		LastName:  "Jones",
		Email:     "bob@acme.com",
		Role:      domain.RoleReadOnly,
	})
	require.NoError(t, err)

	updated, err := f.users.Update(ctx, f.admin, invited.ID, UpdateUserRequest{
		Name: "Robert Jones",
		Role: domain.RoleAnalyst,
	})
	require.NoError(t, err)

	assert.Equal(t, "Robert Jones", updated.Name)
	assert.Equal(t, domain.RoleAnalyst, updated.Role)
	// Email never changes.
	assert.Equal(t, "bob@acme.com", updated.Email)
}

func TestUpdateUnknownUser(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.users.Update(context.Background(), f.admin, "missing-id", UpdateUserRequest{
		Name: "Nobody",
		Role: domain.RoleReadOnly,
	})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRemove(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	invited, err := f.users.Invite(ctx, f.admin, InviteRequest{
		FirstName: "Bob",
		LastName:  "Jones",
		Email:     "bob@acme.com",
		Role:      domain.RoleReadOnly,
	})
	require.NoError(t, err)

	require.NoError(t, f.users.Remove(ctx, f.admin, invited.ID))

	listed, err := f.users.ListTenantUsers(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
	assert.True(t, f.revoker.users[invited.ID])
}

func TestRemoveSelfRejected(t *testing.T) {
	f := newUserFixture(t)

	err := f.users.Remove(context.Background(), f.admin, f.admin.ID)

	assert.ErrorIs(t, err, ErrSelfRemoval)

	listed, err := f.users.ListTenantUsers(context.Background(), f.admin)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestRemoveUnknownUser(t *testing.T) {
	f := newUserFixture(t)

	err := f.users.Remove(context.Background(), f.admin, "missing-id")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTenantIsolation(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	// Another tenant's admin.
	other, err := f.auth.Signup(ctx, SignupRequest{
		Name:     "Carol",
		Email:    "carol@globex.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	// Cross-tenant edits and removals look like missing users.
	_, err = f.users.Update(ctx, other.User, f.admin.ID, UpdateUserRequest{
		Name: "Hijacked",
		Role: domain.RoleReadOnly,
	})
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = f.users.Remove(ctx, other.User, f.admin.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	listed, err := f.users.ListTenantUsers(ctx, other.User)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "carol@globex.com", listed[0].Email)
}
