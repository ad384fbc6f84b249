package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/relayhub/relayhub/internal/fault"
	"github.com/relayhub/relayhub/internal/model"
)

// CreateUserWithKey inserts a user and its API key as one transaction.
// Either both rows exist afterwards or neither does: a username or email
// conflict rolls back the whole unit, so no orphan key row survives a
// failed registration.
func (r *Repository) CreateUserWithKey(ctx context.Context, username, email string, key *model.APIKey) (*model.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fault.FromStore(fmt.Errorf("begin registration: %w", err))
	}
	defer tx.Rollback(ctx)

	user := &model.User{Username: username, Email: email}
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email)
		 VALUES ($1, $2)
		 RETURNING id, active, created_at`,
		username, email,
	).Scan(&user.ID, &user.Active, &user.CreatedAt)
	if err != nil {
		return nil, fault.FromStore(fmt.Errorf("insert user: %w", err))
	}

	key.UserID = user.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO api_keys (id, user_id, key)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		key.ID, key.UserID, key.Key,
	).Scan(&key.CreatedAt)
	if err != nil {
		return nil, fault.FromStore(fmt.Errorf("insert api key: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fault.FromStore(fmt.Errorf("commit registration: %w", err))
	}

	return user, nil
}

// GetUserByID retrieves a user by id.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := r.scanUser(r.pool.QueryRow(ctx,
		`SELECT id, username, email, active, created_at FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFoundf("id", strconv.FormatInt(id, 10))
		}
		return nil, fault.FromStore(fmt.Errorf("get user by id: %w", err))
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username. Absence is reported as
// a nil user, not an error: callers resolving message peers legitimately
// miss, and decide themselves whether that is a fault.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := r.scanUser(r.pool.QueryRow(ctx,
		`SELECT id, username, email, active, created_at FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fault.FromStore(fmt.Errorf("get user by username: %w", err))
	}
	return user, nil
}

// GetUserByToken resolves an API key token to its owning user. The match
// is exact equality against the unique key column. Absence is a nil user;
// the auth gateway turns that into an invalid-credential fault.
func (r *Repository) GetUserByToken(ctx context.Context, token string) (*model.User, error) {
	user, err := r.scanUser(r.pool.QueryRow(ctx,
		`SELECT u.id, u.username, u.email, u.active, u.created_at
		 FROM users u
		 JOIN api_keys k ON k.user_id = u.id
		 WHERE k.key = $1`, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fault.FromStore(fmt.Errorf("get user by token: %w", err))
	}
	return user, nil
}

// DeleteUserByID hard-deletes a user and returns the deleted snapshot.
// The api_keys row goes with it through the ON DELETE CASCADE constraint,
// so the user's token stops resolving in the same statement.
func (r *Repository) DeleteUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := r.scanUser(r.pool.QueryRow(ctx,
		`DELETE FROM users WHERE id = $1
		 RETURNING id, username, email, active, created_at`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFoundf("id", strconv.FormatInt(id, 10))
		}
		return nil, fault.FromStore(fmt.Errorf("delete user: %w", err))
	}
	return user, nil
}

// scanUser scans a single row into a User model.
func (r *Repository) scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Active,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
