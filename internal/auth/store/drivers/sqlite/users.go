package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tabauth/internal/auth/domain"
)

const userColumns = `id, username, email, password_hash, salt, origin, lock_message, created_at`

type usersRepo struct {
	q dbtx
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	err := r.q.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, salt, origin, lock_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Salt,
		mapOptionalString(u.Origin),
		mapOptionalString(u.LockMessage),
		toMicros(u.CreatedAt),
	).Scan(&u.ID)
	if err != nil {
		return domain.User{}, mapConflict(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *usersRepo) UpdateEmail(ctx context.Context, id int64, email string) error {
	return expectRows(r.q.ExecContext(ctx,
		`UPDATE users SET email = ? WHERE id = ?`, email, id))
}

func (r *usersRepo) UpdatePassword(ctx context.Context, id int64, hash, salt []byte) error {
	return expectRows(r.q.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, salt = ? WHERE id = ?`, hash, salt, id))
}

func (r *usersRepo) SetLockMessage(ctx context.Context, id int64, msg *string) error {
	return expectRows(r.q.ExecContext(ctx,
		`UPDATE users SET lock_message = ? WHERE id = ?`, mapOptionalString(msg), id))
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u           domain.User
		origin      sql.NullString
		lockMessage sql.NullString
		createdAt   int64
	)

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Salt,
		&origin,
		&lockMessage,
		&createdAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Origin = mapNullStringPtr(origin)
	u.LockMessage = mapNullStringPtr(lockMessage)
	u.CreatedAt = fromMicros(createdAt)
	return u, nil
}
