package postgres

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/tabauth/internal/auth/domain"
)

const userColumns = `id, username, email, password_hash, salt, origin, lock_message, created_at`

type usersRepo struct {
	q dbtx
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, salt, origin, lock_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
		RETURNING id, created_at`,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Salt,
		mapOptionalString(u.Origin),
		mapOptionalString(u.LockMessage),
		sql.NullTime{Time: u.CreatedAt, Valid: !u.CreatedAt.IsZero()},
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return domain.User{}, mapErr("USER_CREATE_FAILED", "insert user", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return domain.User{}, mapErr("USER_GET_FAILED", "select user by id", err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, username))
	if err != nil {
		return domain.User{}, mapErr("USER_GET_FAILED", "select user by username", err)
	}
	return u, nil
}

func (r *usersRepo) UpdateEmail(ctx context.Context, id int64, email string) error {
	res, err := r.q.ExecContext(ctx, `UPDATE users SET email = $1 WHERE id = $2`, email, id)
	return expectRows("USER_UPDATE_FAILED", "update email", res, err)
}

func (r *usersRepo) UpdatePassword(ctx context.Context, id int64, hash, salt []byte) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, salt = $2 WHERE id = $3`, hash, salt, id)
	return expectRows("USER_UPDATE_FAILED", "update password", res, err)
}

func (r *usersRepo) SetLockMessage(ctx context.Context, id int64, msg *string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET lock_message = $1 WHERE id = $2`, mapOptionalString(msg), id)
	return expectRows("USER_UPDATE_FAILED", "set lock message", res, err)
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u           domain.User
		origin      sql.NullString
		lockMessage sql.NullString
	)

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Salt,
		&origin,
		&lockMessage,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.Origin = mapNullStringPtr(origin)
	u.LockMessage = mapNullStringPtr(lockMessage)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}
