package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/apperror"
	"github.com/stackit-dev/stackit/backend/internal/auth"
	"github.com/stackit-dev/stackit/backend/internal/database"
	"github.com/stackit-dev/stackit/backend/internal/models"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
)

var (
	errUserExists         = apperror.NewBadRequest("Username or email already exists")
	errInvalidCredentials = apperror.NewAuth("Invalid email or password")
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Signup stores a new user with a bcrypt-hashed password.
func (s *UserService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, apperror.NewValidation("Username, email and password are required", nil)
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	var existing int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&existing).Error
	if err != nil {
		return nil, apperror.NewInternal("Failed to create user", err)
	}
	if existing > 0 {
		return nil, errUserExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.NewInternal("Failed to hash password", err)
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hashed,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errUserExists
		}
		return nil, apperror.NewInternal("Failed to create user", err)
	}

	return &user, nil
}

// Login returns the user whose password matches. Unknown email and wrong
// password produce the same error.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, apperror.NewInternal("Failed to log in", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, errInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	return findUser(ctx, s.db, id)
}

// SetAdmin grants or revokes moderation rights for the user with the given email.
func (s *UserService) SetAdmin(ctx context.Context, email string, admin bool) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		return nil, apperror.NewInternal("Failed to load user", err)
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("is_admin", admin).Error; err != nil {
		return nil, apperror.NewInternal("Failed to update user", err)
	}
	user.IsAdmin = admin
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUsername(username string) error {
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return apperror.NewValidation("Validation failed", map[string]string{
			"username": fmt.Sprintf("Username must be between %d and %d characters", minUsernameLength, maxUsernameLength),
		})
	}
	return nil
}
