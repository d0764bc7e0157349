package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ragops/rag-admin/internal/admin/domain"
	"github.com/ragops/rag-admin/internal/admin/metrics"
	"github.com/ragops/rag-admin/internal/admin/store"
	"github.com/ragops/rag-admin/pkg/slogx"
)

// DefaultStoreTimeout bounds how long a single tenant resolution may wait on
// the store before failing with a retryable error.
const DefaultStoreTimeout = 10 * time.Second

// TenantService resolves user ids into tenant contexts, caching results and
// self-healing accounts whose resource bundles are incomplete.
type TenantService struct {
	store        store.Store
	provisioner  *Provisioner
	storeTimeout time.Duration
	cache        *TenantCache
}

func NewTenantService(st store.Store, p *Provisioner, cacheTTL, storeTimeout time.Duration) *TenantService {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	s := &TenantService{
		store:        st,
		provisioner:  p,
		storeTimeout: storeTimeout,
	}
	s.cache = NewTenantCache(s.load, cacheTTL)
	return s
}

// Resolve returns the tenant context for userID, served from cache when
// fresh. forceRefresh always goes back to the store.
func (s *TenantService) Resolve(ctx context.Context, userID string, forceRefresh bool) (domain.TenantContext, error) {
	return s.cache.Get(ctx, userID, forceRefresh)
}

// Invalidate drops any cached context for userID. Call it before responding
// to any mutation of that user so the next resolution sees the new state.
func (s *TenantService) Invalidate(userID string) {
	s.cache.Invalidate(userID)
}

// Cache exposes the underlying cache, mainly for diagnostics.
func (s *TenantService) Cache() *TenantCache {
	return s.cache
}

func (s *TenantService) load(ctx context.Context, userID string) (domain.TenantContext, error) {
	done := metrics.TrackResolution()
	defer done()

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			metrics.RecordResolution("not_found")
			return domain.TenantContext{}, ErrTenantNotFound
		case errors.Is(err, context.DeadlineExceeded):
			metrics.RecordResolution("timeout")
			return domain.TenantContext{}, fmt.Errorf("%w: loading tenant %s: %v", ErrStoreTimeout, userID, err)
		default:
			metrics.RecordResolution("error")
			return domain.TenantContext{}, err
		}
	}

	if !user.Active {
		metrics.RecordResolution("inactive")
		return domain.TenantContext{}, ErrAccountInactive
	}

	if !user.Resources.FullyProvisioned() {
		user, err = s.heal(ctx, user)
		if err != nil {
			metrics.RecordResolution("error")
			return domain.TenantContext{}, err
		}
	}

	metrics.RecordResolution("ok")
	return domain.TenantContext{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Active:    user.Active,
		Resources: user.Resources,
		UpdatedAt: user.UpdatedAt,
	}, nil
}

// heal fills in missing resource fields for a legacy account. The existing
// resource id, if any, is kept; only derived fields are regenerated.
func (s *TenantService) heal(ctx context.Context, user domain.User) (domain.User, error) {
	l := slogx.FromContext(ctx)

	bundle, err := s.provisioner.Provision(user.ID, user.Username, user.Resources.ResourceID)
	if err != nil {
		return domain.User{}, err
	}

	var healed domain.User
	err = s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateResources(ctx, user.ID, bundle); err != nil {
			return err
		}
		healed, err = tx.Users().GetUserByID(ctx, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.User{}, fmt.Errorf("%w: healing tenant %s: %v", ErrStoreTimeout, user.ID, err)
		}
		return domain.User{}, fmt.Errorf("%w: %v", ErrProvisioning, err)
	}

	metrics.RecordProvision("self_heal")
	l.Info("healed incomplete tenant resources",
		slog.String("user_id", user.ID),
		slog.String("resource_id", healed.Resources.ResourceID),
	)
	return healed, nil
}
