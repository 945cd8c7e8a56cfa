package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teamtune/payrollhub/internal/domain/user"
	"github.com/teamtune/payrollhub/internal/observability"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const userColumns = `id, email, password_hash, name, role, verified, fired, created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Role,
		&u.Verified,
		&u.Fired,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_email",
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id",
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
}

func (r *UsersRepo) getOne(ctx context.Context, op, query string, args ...interface{}) (user.User, error) {
	var u user.User

	err := r.observe(op, func() error {
		var scanErr error
		u, scanErr = scanUser(r.pool.QueryRow(ctx, query, args...))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// Create inserts the user unless the email is already taken. The unique
// constraint is the single source of truth for duplicates; no preliminary
// existence check. A nil inserted id means the email already existed.
func (r *UsersRepo) Create(ctx context.Context, req user.CreateUserRequest) (*string, error) {
	u := user.NewFromCreateRequest(req)

	var insertedID string

	err := r.observe("users.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO users (id, email, password_hash, name, role, verified, fired, created_at, updated_at)
			 VALUES ($1, $2, '', $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (email) DO NOTHING
			 RETURNING id`,
			u.ID, u.Email, u.Name, u.Role, u.Verified, u.Fired, u.CreatedAt, u.UpdatedAt,
		).Scan(&insertedID)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// conflict: the email is already registered
			return nil, nil
		}

		return nil, err
	}

	return &insertedID, nil
}

func (r *UsersRepo) ListByRole(ctx context.Context, role string) ([]user.User, error) {
	return r.list(ctx, "users.list_by_role",
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at ASC, id ASC`,
		role,
	)
}

func (r *UsersRepo) ListVerifiedNonAdmin(ctx context.Context) ([]user.User, error) {
	return r.list(ctx, "users.list_verified_non_admin",
		`SELECT `+userColumns+` FROM users WHERE verified = TRUE AND role <> 'admin' ORDER BY created_at ASC, id ASC`,
	)
}

func (r *UsersRepo) list(ctx context.Context, op, query string, args ...interface{}) ([]user.User, error) {
	var out []user.User

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]user.User, 0)

		for rows.Next() {
			u, err := scanUser(rows)

			if err != nil {
				return err
			}

			out = append(out, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *UsersRepo) SetRole(ctx context.Context, id, role string) (user.User, error) {
	return r.getOne(ctx, "users.set_role",
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 RETURNING `+userColumns,
		id, role,
	)
}

func (r *UsersRepo) SetVerified(ctx context.Context, id string, verified bool) (user.User, error) {
	return r.getOne(ctx, "users.set_verified",
		`UPDATE users SET verified = $2, updated_at = NOW() WHERE id = $1 RETURNING `+userColumns,
		id, verified,
	)
}

func (r *UsersRepo) SetFired(ctx context.Context, id string, fired bool) (user.User, error) {
	return r.getOne(ctx, "users.set_fired",
		`UPDATE users SET fired = $2, updated_at = NOW() WHERE id = $1 RETURNING `+userColumns,
		id, fired,
	)
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	return r.observe("users.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return user.ErrNotFound
		}

		return nil
	})
}
