package sqlite

import (
	"context"

	"github.com/ragops/rag-admin/internal/admin/domain"
	"github.com/ragops/rag-admin/internal/admin/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, mapUser(row))
	}
	return users, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:                u.ID,
		Name:              u.Name,
		Username:          u.Username,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		Role:              u.Role,
		Active:            u.Active,
		ResourceID:        u.Resources.ResourceID,
		DatabaseUri:       u.Resources.DatabaseURI,
		BotEndpoint:       u.Resources.BotEndpoint,
		SchedulerEndpoint: u.Resources.SchedulerEndpoint,
		ScraperEndpoint:   u.Resources.ScraperEndpoint,
		VectorStorePath:   u.Resources.VectorStorePath,
	})
	return mapConflict(err)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, name, username, email string) error {
	err := r.q.UpdateUserProfile(ctx, gen.UpdateUserProfileParams{
		Name:     name,
		Username: username,
		Email:    email,
		ID:       userID,
	})
	return mapConflict(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return r.q.UpdateUserPasswordHash(ctx, gen.UpdateUserPasswordHashParams{
		PasswordHash: newHash,
		ID:           userID,
	})
}

// UpdateResources writes the bundle. The underlying query only assigns
// resource_id when the column is still empty, so an existing id never changes.
func (r *usersRepo) UpdateResources(ctx context.Context, userID string, b domain.ResourceBundle) error {
	err := r.q.UpdateUserResources(ctx, gen.UpdateUserResourcesParams{
		ResourceID:        b.ResourceID,
		DatabaseUri:       b.DatabaseURI,
		BotEndpoint:       b.BotEndpoint,
		SchedulerEndpoint: b.SchedulerEndpoint,
		ScraperEndpoint:   b.ScraperEndpoint,
		VectorStorePath:   b.VectorStorePath,
		ID:                userID,
	})
	return mapConflict(err)
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool) error {
	return r.q.SetUserActive(ctx, gen.SetUserActiveParams{
		Active: active,
		ID:     userID,
	})
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return r.q.DeleteUser(ctx, userID)
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	return r.q.CountUsers(ctx)
}

func (r *usersRepo) ListUnprovisioned(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.ListUnprovisionedUsers(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, mapUser(row))
	}
	return users, nil
}
