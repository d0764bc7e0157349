package service

import (
	"context"
	"testing"
	"time"

	"github.com/ragops/rag-admin/internal/admin/domain"
	"github.com/ragops/rag-admin/internal/admin/store/drivers/sqlite"
	"github.com/ragops/rag-admin/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func newTestTenantService(t *testing.T, st *sqlite.Store) *TenantService {
	t.Helper()
	return NewTenantService(st, testProvisioner(), time.Minute, DefaultStoreTimeout)
}

func seedUser(t *testing.T, st *sqlite.Store, mutate func(*domain.User)) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Alice Example",
		Username:     "alice-" + idx.New().String(),
		Email:        idx.New().String() + "@example.com",
		PasswordHash: "argon2:dummy",
		Role:         domain.RoleUser,
		Active:       true,
	}
	bundle, err := testProvisioner().Provision(u.ID, u.Username, "")
	require.NoError(t, err)
	u.Resources = bundle

	if mutate != nil {
		mutate(&u)
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestResolveReturnsTenantContext(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	u := seedUser(t, st, nil)
	svc := newTestTenantService(t, st)

	tc, err := svc.Resolve(context.Background(), u.ID, false)
	require.NoError(t, err)
	require.Equal(t, u.ID, tc.UserID)
	require.Equal(t, u.Username, tc.Username)
	require.Equal(t, u.Resources, tc.Resources)
	require.True(t, tc.Active)
}

func TestResolveUnknownUser(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := newTestTenantService(t, st)

	_, err := svc.Resolve(context.Background(), idx.New().String(), false)
	require.ErrorIs(t, err, ErrTenantNotFound)
}

func TestResolveInactiveAccount(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	u := seedUser(t, st, func(u *domain.User) { u.Active = false })
	svc := newTestTenantService(t, st)

	_, err := svc.Resolve(context.Background(), u.ID, false)
	require.ErrorIs(t, err, ErrAccountInactive)
}

func TestResolveSelfHealsIncompleteBundle(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	u := seedUser(t, st, func(u *domain.User) {
		// Legacy account: resource id assigned but derived fields missing.
		u.Resources.DatabaseURI = ""
		u.Resources.VectorStorePath = ""
	})
	svc := newTestTenantService(t, st)

	tc, err := svc.Resolve(context.Background(), u.ID, false)
	require.NoError(t, err)
	require.True(t, tc.Resources.FullyProvisioned())

	// The pre-existing resource id must survive healing.
	require.Equal(t, u.Resources.ResourceID, tc.Resources.ResourceID)

	// Healing is persisted, not just served.
	stored, err := st.Users().GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.True(t, stored.Resources.FullyProvisioned())
}

func TestResolveSelfHealsAccountWithoutResourceID(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	u := seedUser(t, st, func(u *domain.User) {
		u.Resources = domain.ResourceBundle{}
	})
	svc := newTestTenantService(t, st)

	tc, err := svc.Resolve(context.Background(), u.ID, false)
	require.NoError(t, err)
	require.True(t, tc.Resources.FullyProvisioned())
	require.Regexp(t, domain.ResourceIDPattern, tc.Resources.ResourceID)
}

func TestResolveServesFromCacheUntilInvalidated(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	u := seedUser(t, st, nil)
	svc := newTestTenantService(t, st)

	first, err := svc.Resolve(context.Background(), u.ID, false)
	require.NoError(t, err)

	// Mutate behind the cache's back.
	require.NoError(t, st.Users().SetActive(context.Background(), u.ID, false))

	// Cached view is still served.
	cached, err := svc.Resolve(context.Background(), u.ID, false)
	require.NoError(t, err)
	require.Equal(t, first, cached)

	// After invalidation the deactivation is visible.
	svc.Invalidate(u.ID)
	_, err = svc.Resolve(context.Background(), u.ID, false)
	require.ErrorIs(t, err, ErrAccountInactive)
}

func TestResolveForceRefreshSeesLatestState(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	u := seedUser(t, st, nil)
	svc := newTestTenantService(t, st)

	_, err := svc.Resolve(context.Background(), u.ID, false)
	require.NoError(t, err)

	require.NoError(t, st.Users().UpdateProfile(context.Background(), u.ID, u.Name, u.Username, "new-"+u.Email))

	refreshed, err := svc.Resolve(context.Background(), u.ID, true)
	require.NoError(t, err)
	require.Equal(t, "new-"+u.Email, refreshed.Email)
}

func TestResourceIDImmutableAcrossResourceUpdates(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	u := seedUser(t, st, nil)

	attempted := u.Resources
	attempted.ResourceID = "tenant-hijacked-000000"
	attempted.DatabaseURI = "postgres://elsewhere/db"

	require.NoError(t, st.Users().UpdateResources(context.Background(), u.ID, attempted))

	stored, err := st.Users().GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Resources.ResourceID, stored.Resources.ResourceID)
	require.Equal(t, "postgres://elsewhere/db", stored.Resources.DatabaseURI)
}
