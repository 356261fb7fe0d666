package postgres

import (
	"context"
	"fmt"

	"agroskills-platform/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, name, email, password_hash, role, COALESCE(linkedin, ''),
	COALESCE(curriculo_url, ''), COALESCE(profile_image_url, ''), created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Linkedin,
		&u.CurriculoURL, &u.ProfileImageURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash,
		user.Role, user.CreatedAt, user.UpdatedAt)
	return mapError(err)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET name = $2, role = $3, linkedin = NULLIF($4, ''),
              curriculo_url = NULLIF($5, ''), updated_at = $6 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, user.ID, user.Name, user.Role, user.Linkedin,
		user.CurriculoURL, user.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) SavePasswordReset(ctx context.Context, reset *domain.PasswordReset) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin password reset: %w", err)
	}
	defer tx.Rollback(ctx)

	// Only the latest link for a user stays valid.
	if _, err := tx.Exec(ctx, `DELETE FROM password_resets WHERE user_id = $1 AND used_at IS NULL`, reset.UserID); err != nil {
		return mapError(err)
	}
	_, err = tx.Exec(ctx, `INSERT INTO password_resets (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`,
		reset.TokenHash, reset.UserID, reset.ExpiresAt)
	if err != nil {
		return mapError(err)
	}
	return tx.Commit(ctx)
}

func (r *userRepo) GetPasswordReset(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	var reset domain.PasswordReset
	err := r.db.QueryRow(ctx,
		`SELECT token_hash, user_id, expires_at, used_at FROM password_resets WHERE token_hash = $1`,
		tokenHash,
	).Scan(&reset.TokenHash, &reset.UserID, &reset.ExpiresAt, &reset.UsedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &reset, nil
}

func (r *userRepo) MarkPasswordResetUsed(ctx context.Context, tokenHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE password_resets SET used_at = NOW() WHERE token_hash = $1 AND used_at IS NULL`, tokenHash)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
