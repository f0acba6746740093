package repository

import (
	"context"

	"userapi/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	CountByEmail(ctx context.Context, email string) (int, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateProfile(ctx context.Context, id int64, username, email string) error
	Disable(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type userRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewUserRepository(db *sqlx.DB, log *zap.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at`
	return r.db.QueryRowxContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, password_hash, disabled, created_at FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, password_hash, disabled, created_at FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	query := `SELECT id, username, email, password_hash, disabled, created_at FROM users ORDER BY id`
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountByEmail(ctx context.Context, email string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &count, query, email); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, disabled = FALSE WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, passwordHash, id)
	return err
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, username, email string) error {
	query := `UPDATE users SET username = $1, email = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, username, email, id)
	return err
}

// Disable blocks future logins. The hash is overwritten with the sentinel as
// well so the account stays blocked even if the disabled flag is lost.
func (r *userRepository) Disable(ctx context.Context, id int64) error {
	query := `UPDATE users SET disabled = TRUE, password_hash = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, models.DisabledPasswordSentinel, id)
	return err
}

func (r *userRepository) Delete(ctx context.Context, id int64) (int64, error) {
	query := `DELETE FROM users WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
