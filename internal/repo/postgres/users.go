package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkurali/userhub/internal/domain/user"
	"github.com/mkurali/userhub/internal/observability"
)

const uniqueViolation = "23505"

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

const userColumns = `id, first_name, middle_name, last_name, email, password_hash, department, role, created_at, updated_at`

func scanUser(row pgx.Row, u *user.User) error {
	return row.Scan(
		&u.ID,
		&u.FirstName,
		&u.MiddleName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.Department,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	err := r.observe("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users(`+userColumns+`)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			u.ID, u.FirstName, u.MiddleName, u.LastName, u.Email, u.PasswordHash, u.Department, u.Role, u.CreatedAt, u.UpdatedAt,
		)
		return err
	})

	if err != nil {
		// the unique index on email is the source of truth for conflicts
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		return scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1`, id), &u)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE email = $1`,
			user.NormalizeEmail(email)), &u)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

// EmailInUse reports whether another record than excludeID already owns email.
func (r *UsersRepo) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	var exists bool

	err := r.observe("users.email_in_use", func() error {
		return r.pool.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM users
			WHERE email = $1 AND id <> $2
		)`, user.NormalizeEmail(email), excludeID).Scan(&exists)
	})

	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *UsersRepo) List(ctx context.Context, filter user.ListFilter) ([]user.User, int, error) {
	baseQuery := `SELECT ` + userColumns + `,
		COUNT(*) OVER() AS total
	FROM users
	`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if filter.Role != "" {
		conds = append(conds, fmt.Sprintf("role = $%d", argsPosition))
		args = append(args, filter.Role)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// newest first, id as tiebreaker for stable pagination
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, filter.Limit, filter.Offset)

	var output []user.User
	total := 0

	err := r.observe("users.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		output = make([]user.User, 0, filter.Limit)

		for rows.Next() {
			var u user.User
			var t int

			err = rows.Scan(
				&u.ID,
				&u.FirstName,
				&u.MiddleName,
				&u.LastName,
				&u.Email,
				&u.PasswordHash,
				&u.Department,
				&u.Role,
				&u.CreatedAt,
				&u.UpdatedAt,
				&t,
			)

			if err != nil {
				return err
			}

			total = t
			output = append(output, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}

	// a page past the end returns no rows, so fetch the count separately
	if len(output) == 0 {
		err = r.observe("users.count", func() error {
			countQuery := `SELECT COUNT(*) FROM users`
			if filter.Role != "" {
				countQuery += ` WHERE role = $1`
				return r.pool.QueryRow(ctx, countQuery, filter.Role).Scan(&total)
			}
			return r.pool.QueryRow(ctx, countQuery).Scan(&total)
		})

		if err != nil {
			return nil, 0, err
		}
	}

	return output, total, nil
}

// Update applies the non-nil fields of req and returns the updated record.
// The caller is responsible for hashing a changed password beforehand.
func (r *UsersRepo) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error) {
	var sets []string
	var args []interface{}

	args = append(args, id)
	argsPosition := 2

	set := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argsPosition))
		args = append(args, val)
		argsPosition++
	}

	if req.FirstName != nil {
		set("first_name", strings.TrimSpace(*req.FirstName))
	}
	if req.MiddleName != nil {
		set("middle_name", strings.TrimSpace(*req.MiddleName))
	}
	if req.LastName != nil {
		set("last_name", strings.TrimSpace(*req.LastName))
	}
	if req.Email != nil {
		set("email", user.NormalizeEmail(*req.Email))
	}
	if req.Password != nil {
		// already hashed by the handler
		set("password_hash", *req.Password)
	}
	if req.Department != nil {
		set("department", strings.TrimSpace(*req.Department))
	}
	if req.Role != nil {
		set("role", *req.Role)
	}

	if len(sets) == 0 {
		// nothing to change, behave like a read
		return r.GetByID(ctx, id)
	}

	query := `UPDATE users
		SET ` + strings.Join(sets, ",\n\t\t\t") + `,
			updated_at = NOW()
	WHERE id = $1
	RETURNING ` + userColumns

	var u user.User

	err := r.observe("users.update", func() error {
		return scanUser(r.pool.QueryRow(ctx, query, args...), &u)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("users.delete", func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		return err
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}
