package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cashtrackr/cashtrackr-be/internal/auth"
	"github.com/cashtrackr/cashtrackr-be/internal/models"
)

// UserServiceProvider defines the interface for the user directory.
type UserServiceProvider interface {
	GetUserByID(id int64) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	GetUserByToken(token string) (models.User, error)
	CreateUser(name, email, password, token string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	ConfirmAccount(token string) error
	SetToken(id int64, token string) error
	ResetPassword(token, newPassword string) error
	UpdatePassword(id int64, currentPassword, newPassword string) error
	CheckPassword(id int64, password string) error
	UpdateProfile(id int64, name, email string) error
	DeleteUnconfirmedBefore(cutoff time.Time) (int64, error)
}

// UserService provides the persistent user directory and the credential
// state transitions behind the auth flows.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves the public projection of a user: id, name, email.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, email FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Name, &user.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a full user record, including credential state.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	return s.getUser("email = ?", email)
}

// GetUserByToken retrieves the user holding the given confirmation or
// reset token. An empty token never matches.
func (s *UserService) GetUserByToken(token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrInvalidToken
	}
	user, err := s.getUser("token = ?", token)
	if err == ErrUserNotFound {
		return models.User{}, ErrInvalidToken
	}
	return user, err
}

func (s *UserService) getUser(where string, arg any) (models.User, error) {
	var user models.User
	var confirmed, isActive int
	row := s.db.QueryRow(
		"SELECT id, name, email, password_hash, COALESCE(token, ''), confirmed, is_active, created_at FROM users WHERE "+where, arg)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Token, &confirmed, &isActive, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	user.Confirmed = confirmed != 0
	user.IsActive = isActive != 0
	return user, nil
}

// CreateUser registers a new unconfirmed account, hashing the password and
// storing the confirmation token. Fails with ErrUserExists when the email
// is already registered.
func (s *UserService) CreateUser(name, email, password, token string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.Exec(
		"INSERT INTO users(name, email, password_hash, token) VALUES(?, ?, ?, ?)",
		name, email, hash, token)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	return models.User{ID: id, Name: name, Email: email, Token: token}, nil
}

// Authenticate verifies login credentials against the stored state.
// Returns ErrUserNotFound, ErrUnconfirmed or ErrInvalidPassword in that
// order of precedence.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if !user.Confirmed {
		return models.User{}, ErrUnconfirmed
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, ErrInvalidPassword
	}
	user.PasswordHash = ""
	return user, nil
}

// ConfirmAccount consumes a confirmation token: the account becomes
// confirmed and active and the token is cleared in the same statement, so
// the code is single-use.
func (s *UserService) ConfirmAccount(token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	res, err := s.db.Exec(
		"UPDATE users SET confirmed = 1, is_active = 1, token = NULL WHERE token = ?", token)
	if err != nil {
		return err
	}
	return requireRow(res, ErrInvalidToken)
}

// SetToken stores a fresh confirmation/reset token on the account.
func (s *UserService) SetToken(id int64, token string) error {
	res, err := s.db.Exec("UPDATE users SET token = ? WHERE id = ?", token, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// ResetPassword consumes a reset token, replacing the password hash and
// clearing the token atomically.
func (s *UserService) ResetPassword(token, newPassword string) error {
	if token == "" {
		return ErrInvalidToken
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	res, err := s.db.Exec(
		"UPDATE users SET password_hash = ?, token = NULL WHERE token = ?", hash, token)
	if err != nil {
		return err
	}
	return requireRow(res, ErrInvalidToken)
}

// UpdatePassword verifies the current password, then replaces the hash.
// The confirmation token is left untouched.
func (s *UserService) UpdatePassword(id int64, currentPassword, newPassword string) error {
	if err := s.CheckPassword(id, currentPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = s.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	return err
}

// CheckPassword verifies a plaintext password against the stored hash.
func (s *UserService) CheckPassword(id int64, password string) error {
	var hash string
	row := s.db.QueryRow("SELECT password_hash FROM users WHERE id = ?", id)
	if err := row.Scan(&hash); err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}
	if !auth.CheckPassword(password, hash) {
		return ErrInvalidPassword
	}
	return nil
}

// UpdateProfile updates the account's name and email.
func (s *UserService) UpdateProfile(id int64, name, email string) error {
	res, err := s.db.Exec("UPDATE users SET name = ?, email = ? WHERE id = ?", name, email, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// DeleteUnconfirmedBefore removes accounts that never confirmed their
// email and were created before the cutoff. Returns the number of
// accounts removed.
func (s *UserService) DeleteUnconfirmedBefore(cutoff time.Time) (int64, error) {
	// created_at is stored in sqlite's CURRENT_TIMESTAMP text format, so
	// the cutoff is compared in the same shape.
	res, err := s.db.Exec(
		"DELETE FROM users WHERE confirmed = 0 AND created_at < ?",
		cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

// isUniqueViolation reports whether the error is the sqlite UNIQUE
// constraint failure on users.email.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
