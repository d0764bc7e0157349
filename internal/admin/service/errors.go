package service

import "errors"

var (
	// ErrInvalidCredentials covers both unknown-username and wrong-password
	// so login responses never reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrTenantNotFound means the tenant row no longer exists. Callers must
	// not retry; the account was deleted.
	ErrTenantNotFound = errors.New("tenant_not_found")

	// ErrAccountInactive means the account exists but has been deactivated.
	ErrAccountInactive = errors.New("account_inactive")

	// ErrStoreTimeout means the store did not answer within the resolution
	// deadline. The condition is transient and safe to retry.
	ErrStoreTimeout = errors.New("store_timeout")

	// ErrProvisioning means a resource bundle could not be derived.
	ErrProvisioning = errors.New("provisioning_failed")

	// ErrImpersonationForbidden means a non-admin supplied a tenant override.
	ErrImpersonationForbidden = errors.New("impersonation_forbidden")

	// ErrUpstreamTimeout means a downstream service did not answer in time.
	ErrUpstreamTimeout = errors.New("upstream_timeout")

	// ErrSelfDeletion means an admin tried to delete their own account.
	ErrSelfDeletion = errors.New("self_deletion_forbidden")
)
