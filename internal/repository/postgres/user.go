package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, login_name, email, password_hash, is_admin, created_on, deleted_on`

func scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var email sql.NullString
	err := row.Scan(&u.ID, &u.LoginName, &email, &u.PasswordHash, &u.IsAdmin, &u.CreatedOn, &u.DeletedOn)
	if err != nil {
		return nil, err
	}
	u.Email = email.String
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (login_name, email, password_hash, is_admin, created_on)
	          VALUES ($1, NULLIF($2, ''), $3, $4, $5) RETURNING id, created_on`
	err := q(ctx, r.db).QueryRowContext(ctx, query, u.LoginName, u.Email, u.PasswordHash, u.IsAdmin, time.Now()).Scan(&u.ID, &u.CreatedOn)
	return conflictOn(err, "login name is already taken")
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(q(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("user %d not found", id)
	}
	return u, err
}

func (r *userRepository) GetByLoginName(ctx context.Context, loginName string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login_name = $1`
	u, err := scanUser(q(ctx, r.db).QueryRowContext(ctx, query, loginName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError("user %q not found", loginName)
	}
	return u, err
}
