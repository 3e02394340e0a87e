package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskman/internal/auth"
	apperrors "taskman/internal/errors"
	"taskman/internal/model"
	"taskman/internal/repository"
)

const bcryptCost = 10

const (
	usernameMinLen = 3
	usernameMaxLen = 20
	passwordMinLen = 6
	passwordMaxLen = 50
)

// UserService handles registration, login and user listing. The first
// successful registration is promoted to superuser; everyone after that
// is a plain user.
type UserService interface {
	Register(ctx context.Context, username, password string) (model.Role, error)
	Login(ctx context.Context, username, password string) (token string, role model.Role, err error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	repo       repository.UserRepository
	jwtService *auth.JWTService

	// registerMu serializes the superuser-exists check against the insert
	// so two concurrent first registrations cannot both become superuser.
	registerMu sync.Mutex
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, jwtService *auth.JWTService) UserService {
	return &userService{
		repo:       repo,
		jwtService: jwtService,
	}
}

// Register validates the credential pair, decides the role and persists the
// user with a bcrypt-hashed password. The assigned role is returned.
func (s *userService) Register(ctx context.Context, username, password string) (model.Role, error) {
	if err := validateUsername(username); err != nil {
		return "", err
	}
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return "", apperrors.ErrWeakPassword
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return "", apperrors.ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	hasSuperuser, err := s.repo.SuperuserExists(ctx)
	if err != nil {
		return "", fmt.Errorf("check superuser: %w", err)
	}
	role := model.RoleUser
	if !hasSuperuser {
		role = model.RoleSuperuser
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	return role, nil
}

// Login verifies the credential pair and issues a signed access token.
func (s *userService) Login(ctx context.Context, username, password string) (string, model.Role, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", apperrors.ErrInvalidCredentials
	}

	role := user.Role
	if role == "" {
		role = model.RoleUser
	}

	token, err := s.jwtService.GenerateAccessToken(user.Username, role)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}

	return token, role, nil
}

// ListUsers returns every registered user.
func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func validateUsername(username string) error {
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return apperrors.ErrInvalidUsername
	}
	for _, r := range username {
		if unicode.IsSpace(r) {
			return apperrors.ErrInvalidUsername
		}
	}
	return nil
}
