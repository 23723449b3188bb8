package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, name, email, password_hash, verified, mfa_enabled,
	totp_secret, totp_enabled_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u             domain.User
		totpSecret    sql.NullString
		totpEnabledAt sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Verified, &u.MFAEnabled,
		&totpSecret, &totpEnabledAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.TOTPSecret = mapNullString(totpSecret)
	u.TOTPEnabledAt = mapNullTime(totpEnabledAt)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, verified, mfa_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Verified, u.MFAEnabled, u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *usersRepo) RenamePendingUser(ctx context.Context, id, name string) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users SET name = ?, updated_at = ?
		WHERE id = ? AND verified = 0`,
		name, now(), id,
	))
}

func (r *usersRepo) MarkVerified(ctx context.Context, id string) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET verified = 1, updated_at = ? WHERE id = ?`, now(), id))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, now(), id))
}

func (r *usersRepo) UpdateName(ctx context.Context, id, name string) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, updated_at = ? WHERE id = ?`, name, now(), id))
}

func (r *usersRepo) SetMFAEnabled(ctx context.Context, id string, enabled bool) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET mfa_enabled = ?, updated_at = ? WHERE id = ?`, enabled, now(), id))
}

func (r *usersRepo) SetTOTPSecret(ctx context.Context, id, secret string) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = ?, totp_enabled_at = NULL, updated_at = ?
		WHERE id = ?`, secret, now(), id))
}

func (r *usersRepo) EnableTOTP(ctx context.Context, id string, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users SET totp_enabled_at = ?, updated_at = ?
		WHERE id = ? AND totp_secret IS NOT NULL`, at.UTC(), now(), id))
}

func (r *usersRepo) ClearTOTP(ctx context.Context, id string) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = NULL, totp_enabled_at = NULL, updated_at = ?
		WHERE id = ?`, now(), id))
}

func now() time.Time { return time.Now().UTC() }
