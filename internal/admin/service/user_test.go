package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ragops/rag-admin/internal/admin/domain"
	"github.com/ragops/rag-admin/internal/admin/store"
	"github.com/ragops/rag-admin/internal/admin/store/drivers/sqlite"
	"github.com/ragops/rag-admin/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestUserService(t *testing.T, st *sqlite.Store) (*UserService, *jwtx.HS256) {
	t.Helper()

	signer, err := jwtx.NewHS256("test-secret", "rag-admin-test")
	require.NoError(t, err)

	return &UserService{
		Store:       st,
		Tenants:     newTestTenantService(t, st),
		Provisioner: testProvisioner(),
		Signer:      signer,
		Issuer:      "rag-admin-test",
		AccessTTL:   time.Hour,
	}, signer
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, _ := newTestUserService(t, st)

	first, err := svc.Register(context.Background(), "Alice", "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, first.Role)
	require.True(t, first.Resources.FullyProvisioned())

	second, err := svc.Register(context.Background(), "Bob", "bob", "bob@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, second.Role)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, _ := newTestUserService(t, st)

	_, err := svc.Register(context.Background(), "Alice", "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Other", "alice", "other@example.com", "password123")
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	var conflict *store.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, "username", conflict.Field)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, _ := newTestUserService(t, st)

	_, err := svc.Register(context.Background(), "Alice", "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Other", "other", "Alice@Example.com", "password123")
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	var conflict *store.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, "email", conflict.Field)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, _ := newTestUserService(t, st)

	_, err := svc.Register(context.Background(), "Alice", "alice", "not-an-email", "password123")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(context.Background(), "Alice", "alice", "alice@example.com", "short")
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegisterUsernameConstraints(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, _ := newTestUserService(t, st)

	for _, bad := range []string{"x", "ab", "has space", "has-dash", "dots.too", strings.Repeat("a", 31)} {
		_, err := svc.Register(context.Background(), "Alice", bad, "alice@example.com", "password123")
		require.ErrorIs(t, err, ErrValidation, "username %q", bad)
	}

	_, err := svc.Register(context.Background(), "A", "alice", "alice@example.com", "password123")
	require.ErrorIs(t, err, ErrValidation, "single-character name")

	_, err = svc.Register(context.Background(), "Alice", "alice_01", "alice@example.com", "password123")
	require.NoError(t, err)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, verifier := newTestUserService(t, st)

	u, err := svc.Register(context.Background(), "Alice", "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	token, loggedIn, err := svc.Login(context.Background(), "alice", "password123")
	require.NoError(t, err)
	require.Equal(t, u.ID, loggedIn.ID)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestLoginFailsIdenticallyForUnknownUserAndWrongPassword(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, _ := newTestUserService(t, st)

	_, err := svc.Register(context.Background(), "Alice", "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(context.Background(), "nobody", "password123")
	_, _, wrongErr := svc.Login(context.Background(), "alice", "wrong-password")

	// Same sentinel, so handlers cannot leak which part was wrong.
	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	require.Equal(t, unknownErr, wrongErr)
}

func TestLoginInactiveAccount(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, _ := newTestUserService(t, st)

	u, err := svc.Register(context.Background(), "Alice", "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(context.Background(), u.ID, false))

	_, _, err = svc.Login(context.Background(), "alice", "password123")
	require.ErrorIs(t, err, ErrAccountInactive)
}

func TestLoginHealsIncompleteResourceBundle(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, _ := newTestUserService(t, st)

	u, err := svc.Register(context.Background(), "Alice", "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	// Strip the derived fields as a legacy account would look. The resource
	// id survives because the store never overwrites an assigned one.
	require.NoError(t, st.Users().UpdateResources(context.Background(), u.ID, domain.ResourceBundle{}))

	_, loggedIn, err := svc.Login(context.Background(), "alice", "password123")
	require.NoError(t, err)
	require.True(t, loggedIn.Resources.FullyProvisioned())
	require.Equal(t, u.Resources.ResourceID, loggedIn.Resources.ResourceID)

	// The repair is persisted, not just reflected in the login response.
	stored, err := st.Users().GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.True(t, stored.Resources.FullyProvisioned())
}

func TestDeleteUserForbidsSelfDeletion(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, _ := newTestUserService(t, st)

	admin, err := svc.Register(context.Background(), "Alice", "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteUser(context.Background(), admin.ID, admin.ID), ErrSelfDeletion)

	other, err := svc.Register(context.Background(), "Bob", "bob", "bob@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteUser(context.Background(), admin.ID, other.ID))

	_, err = svc.GetUser(context.Background(), other.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMutationsInvalidateTenantCache(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, _ := newTestUserService(t, st)

	u, err := svc.Register(context.Background(), "Alice", "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	// Prime the cache.
	tc, err := svc.Tenants.Resolve(context.Background(), u.ID, false)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", tc.Email)

	_, err = svc.UpdateProfile(context.Background(), u.ID, "Alice", "alice", "renamed@example.com")
	require.NoError(t, err)

	// No forceRefresh: the invalidation alone must make the change visible.
	tc, err = svc.Tenants.Resolve(context.Background(), u.ID, false)
	require.NoError(t, err)
	require.Equal(t, "renamed@example.com", tc.Email)
}

func TestUpdateResourcesKeepsResourceIDImmutable(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, _ := newTestUserService(t, st)

	u, err := svc.Register(context.Background(), "Alice", "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	attempted := u.Resources
	attempted.ResourceID = "tenant-hijacked-000000"
	updated, err := svc.UpdateResources(context.Background(), u.ID, attempted)
	require.NoError(t, err)
	require.Equal(t, u.Resources.ResourceID, updated.Resources.ResourceID)

	_, err = svc.UpdateResources(context.Background(), u.ID, domain.ResourceBundle{ResourceID: "bad id!"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestBackfillProvisionsLegacyAccounts(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, _ := newTestUserService(t, st)

	// Legacy rows written directly, bypassing provisioning.
	legacyWithID := seedUser(t, st, func(u *domain.User) {
		u.Resources.DatabaseURI = ""
		u.Resources.BotEndpoint = ""
	})
	legacyBare := seedUser(t, st, func(u *domain.User) {
		u.Resources = domain.ResourceBundle{}
	})
	complete := seedUser(t, st, nil)

	healed, err := svc.Backfill(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, healed)

	got, err := st.Users().GetUserByID(context.Background(), legacyWithID.ID)
	require.NoError(t, err)
	require.True(t, got.Resources.FullyProvisioned())
	require.Equal(t, legacyWithID.Resources.ResourceID, got.Resources.ResourceID)

	got, err = st.Users().GetUserByID(context.Background(), legacyBare.ID)
	require.NoError(t, err)
	require.True(t, got.Resources.FullyProvisioned())

	got, err = st.Users().GetUserByID(context.Background(), complete.ID)
	require.NoError(t, err)
	require.Equal(t, complete.Resources, got.Resources)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc, _ := newTestUserService(t, st)

	_, err := svc.CreateUser(context.Background(), "Alice", "alice", "alice@example.com", "password123", "superuser")
	require.ErrorIs(t, err, ErrValidation)

	u, err := svc.CreateUser(context.Background(), "Alice", "alice", "alice@example.com", "password123", domain.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, u.Role)
}
