package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, clinic_id, name, email, password_hash, cpf, date_of_birth,
			role, permissions, avatar_url, council_type, council_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.ClinicID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CPF,
		user.DateOfBirth,
		user.Role,
		user.Permissions,
		user.AvatarURL,
		user.CouncilType,
		user.CouncilNumber,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1 AND deleted_at IS NULL`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM users WHERE email = $1 AND deleted_at IS NULL`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByRecovery(ctx context.Context, cpf, dateOfBirth, email string) (*model.User, error) {
	query := `
		SELECT * FROM users
		WHERE cpf = $1 AND date_of_birth = $2 AND email = $3 AND deleted_at IS NULL
	`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, cpf, dateOfBirth, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to match user for recovery: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, permissions = $4, avatar_url = $5,
			council_type = $6, council_number = $7, role = $8, updated_at = $9
		WHERE id = $10 AND deleted_at IS NULL
	`
	user.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Permissions,
		user.AvatarURL,
		user.CouncilType,
		user.CouncilNumber,
		user.Role,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *userRepository) List(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	query := `SELECT * FROM users WHERE clinic_id = $1 AND deleted_at IS NULL ORDER BY created_at`
	var users []*model.User
	err := r.db.SelectContext(ctx, &users, query, clinicID)
	return users, err
}

func (r *userRepository) CountByRole(ctx context.Context, clinicID uuid.UUID, role string) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE clinic_id = $1 AND role = $2 AND deleted_at IS NULL`
	var count int
	if err := r.db.GetContext(ctx, &count, query, clinicID, role); err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}
