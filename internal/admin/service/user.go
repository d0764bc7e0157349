package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ragops/rag-admin/internal/admin/domain"
	"github.com/ragops/rag-admin/internal/admin/metrics"
	"github.com/ragops/rag-admin/internal/admin/store"
	"github.com/ragops/rag-admin/pkg/cryptox"
	"github.com/ragops/rag-admin/pkg/idx"
	"github.com/ragops/rag-admin/pkg/jwtx"
	"github.com/ragops/rag-admin/pkg/slogx"
)

const minPasswordLength = 8

// ErrValidation covers malformed registration or update input.
var ErrValidation = errors.New("validation_failed")

// UserService owns account lifecycle: registration, login, admin CRUD and
// the resource backfill. Every mutation invalidates the tenant cache for the
// affected user before returning, so no handler can respond with stale state.
type UserService struct {
	Store       store.Store
	Tenants     *TenantService
	Provisioner *Provisioner
	Signer      jwtx.Signer
	Issuer      string
	AccessTTL   time.Duration
}

// Register creates a self-service account. The very first account in an
// empty database becomes an admin so a fresh deployment can bootstrap itself.
func (s *UserService) Register(ctx context.Context, name, username, email, password string) (domain.User, error) {
	if err := validateProfile(name, username, email); err != nil {
		return domain.User{}, err
	}
	if len(password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	role := domain.RoleUser
	count, err := s.Store.Users().CountUsers(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if count == 0 {
		role = domain.RoleAdmin
	}

	return s.create(ctx, name, username, email, password, role)
}

// CreateUser is the admin variant of Register with an explicit role.
func (s *UserService) CreateUser(ctx context.Context, name, username, email, password, role string) (domain.User, error) {
	if err := validateProfile(name, username, email); err != nil {
		return domain.User{}, err
	}
	if len(password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return domain.User{}, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	return s.create(ctx, name, username, email, password, role)
}

func (s *UserService) create(ctx context.Context, name, username, email, password, role string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	userID := idx.New().String()

	// Provision before insert: if provisioning fails nothing is persisted,
	// so there is never a half-provisioned row to clean up.
	bundle, err := s.Provisioner.Provision(userID, username, "")
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           userID,
		Name:         name,
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		Resources:    bundle,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		return domain.User{}, err
	}

	metrics.RecordProvision("register")
	s.Tenants.Invalidate(userID)

	l.Info("user created",
		slog.String("user_id", u.ID),
		slog.String("role", u.Role),
		slog.String("resource_id", u.Resources.ResourceID),
	)
	return u, nil
}

// Login verifies credentials and mints an access token. Unknown usernames
// and wrong passwords fail identically; deactivated accounts are told so.
func (s *UserService) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.User{}, ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login failed", slog.String("username", username))
		return "", domain.User{}, ErrInvalidCredentials
	}

	if !user.Active {
		return "", domain.User{}, ErrAccountInactive
	}

	// Legacy accounts may predate provisioning; repair them here so a
	// successful login always hands back a usable resource bundle.
	if !user.Resources.FullyProvisioned() {
		if _, err := s.Tenants.Resolve(ctx, user.ID, true); err != nil {
			return "", domain.User{}, err
		}
		user, err = s.Store.Users().GetUserByID(ctx, user.ID)
		if err != nil {
			return "", domain.User{}, err
		}
	}

	claims := jwtx.NewAccessClaims(user.ID, user.Username, user.Email, user.Role, s.AccessTTL, s.Issuer, time.Now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, user, nil
}

// GetUser fetches a single account.
func (s *UserService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// ListUsers returns all accounts, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// UpdateProfile mutates identity fields and invalidates the cached tenant.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, username, email string) (domain.User, error) {
	if err := validateProfile(name, username, email); err != nil {
		return domain.User{}, err
	}
	if err := s.Store.Users().UpdateProfile(ctx, userID, name, username, strings.ToLower(email)); err != nil {
		return domain.User{}, err
	}
	s.Tenants.Invalidate(userID)
	return s.Store.Users().GetUserByID(ctx, userID)
}

// UpdatePassword replaces the password hash.
func (s *UserService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}
	s.Tenants.Invalidate(userID)
	return nil
}

// UpdateResources overwrites the mutable resource fields of a user. The
// resource id is only assigned if the account never had one; changing an
// existing id is silently refused by the store layer.
func (s *UserService) UpdateResources(ctx context.Context, userID string, b domain.ResourceBundle) (domain.User, error) {
	if b.ResourceID != "" && !domain.ResourceIDPattern.MatchString(b.ResourceID) {
		return domain.User{}, fmt.Errorf("%w: invalid resource id %q", ErrValidation, b.ResourceID)
	}
	if err := s.Store.Users().UpdateResources(ctx, userID, b); err != nil {
		return domain.User{}, err
	}
	s.Tenants.Invalidate(userID)
	metrics.RecordProvision("admin")
	return s.Store.Users().GetUserByID(ctx, userID)
}

// SetActive activates or deactivates an account.
func (s *UserService) SetActive(ctx context.Context, userID string, active bool) error {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.Store.Users().SetActive(ctx, userID, active); err != nil {
		return err
	}
	s.Tenants.Invalidate(userID)
	return nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return ErrSelfDeletion
	}
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.Tenants.Invalidate(userID)
	return nil
}

// Backfill provisions every account with an incomplete resource bundle and
// reports how many were touched. Existing resource ids are preserved.
func (s *UserService) Backfill(ctx context.Context) (int, error) {
	l := slogx.FromContext(ctx)

	users, err := s.Store.Users().ListUnprovisioned(ctx)
	if err != nil {
		return 0, err
	}

	healed := 0
	for _, u := range users {
		bundle, err := s.Provisioner.Provision(u.ID, u.Username, u.Resources.ResourceID)
		if err != nil {
			return healed, err
		}
		if err := s.Store.Users().UpdateResources(ctx, u.ID, bundle); err != nil {
			return healed, err
		}
		s.Tenants.Invalidate(u.ID)
		metrics.RecordProvision("backfill")
		healed++

		l.Info("backfilled tenant resources",
			slog.String("user_id", u.ID),
			slog.String("resource_id", bundle.ResourceID),
		)
	}
	return healed, nil
}

func validateProfile(name, username, email string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 100 {
		return fmt.Errorf("%w: name must be 2 to 100 characters", ErrValidation)
	}
	if !domain.UsernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username must be 3 to 30 letters, digits or underscores", ErrValidation)
	}
	if !domain.EmailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return nil
}
