package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"photo-service/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, username, email, password_hash, role, bio, batch, department,
    display_picture, is_active, email_verified, otp_code, otp_expires_at, created_at`

// UserRepository abstracts account persistence.
type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash string, active bool) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]models.UserSummary, error)
	SetOTP(ctx context.Context, userID int, code string, expiresAt time.Time) error
	ClearOTPAndActivate(ctx context.Context, userID int) error
	UpdateCredentials(ctx context.Context, userID int, username, passwordHash string) error
	UpdateProfile(ctx context.Context, userID int, bio *string, batch *int, department *string) error
	UpdateOAuthProfile(ctx context.Context, userID int, batch *int, department, displayPicture string) error
	UsernamesByIDs(ctx context.Context, ids []int) (map[int]string, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new account.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string, active bool) (models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (username, email, password_hash, is_active, email_verified)
         VALUES ($1, $2, $3, $4, $4) RETURNING `+userColumns,
		username, email, passwordHash, active).StructScan(&user)
	return user, err
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetByUsername fetches a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetByEmail fetches a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// UsernameExists reports whether a username is taken.
func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)`, username)
	return exists, err
}

// Search returns up to limit users whose username contains the query.
func (r *UserRepo) Search(ctx context.Context, query string, limit int) ([]models.UserSummary, error) {
	var users []models.UserSummary
	err := r.db.SelectContext(ctx, &users,
		`SELECT id, username, email FROM users WHERE username ILIKE '%' || $1 || '%' ORDER BY username LIMIT $2`,
		query, limit)
	return users, err
}

// SetOTP stores a fresh verification code on the account.
func (r *UserRepo) SetOTP(ctx context.Context, userID int, code string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET otp_code=$2, otp_expires_at=$3 WHERE id=$1`,
		userID, code, expiresAt)
	return err
}

// ClearOTPAndActivate marks the account verified and drops the code.
func (r *UserRepo) ClearOTPAndActivate(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET otp_code=NULL, otp_expires_at=NULL, is_active=TRUE, email_verified=TRUE WHERE id=$1`,
		userID)
	return err
}

// UpdateCredentials replaces username and password on an unverified account
// that re-registers.
func (r *UserRepo) UpdateCredentials(ctx context.Context, userID int, username, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET username=$2, password_hash=$3 WHERE id=$1`,
		userID, username, passwordHash)
	return err
}

// UpdateProfile patches the editable profile fields; nil means unchanged.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID int, bio *string, batch *int, department *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET bio=COALESCE($2, bio), batch=COALESCE($3, batch), department=COALESCE($4, department) WHERE id=$1`,
		userID, bio, batch, department)
	return err
}

// UpdateOAuthProfile applies the fields returned by the identity provider.
func (r *UserRepo) UpdateOAuthProfile(ctx context.Context, userID int, batch *int, department, displayPicture string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET email_verified=TRUE, is_active=TRUE, batch=COALESCE($2, batch),
            department=CASE WHEN $3 <> '' THEN $3 ELSE department END,
            display_picture=CASE WHEN $4 <> '' THEN $4 ELSE display_picture END
         WHERE id=$1`,
		userID, batch, department, displayPicture)
	return err
}

// UsernamesByIDs resolves usernames for a set of user ids.
func (r *UserRepo) UsernamesByIDs(ctx context.Context, ids []int) (map[int]string, error) {
	result := map[int]string{}
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`SELECT id, username FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var username string
		if err := rows.Scan(&id, &username); err != nil {
			return nil, err
		}
		result[id] = username
	}
	return result, rows.Err()
}
