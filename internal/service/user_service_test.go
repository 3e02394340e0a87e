package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskman/internal/auth"
	apperrors "taskman/internal/errors"
	"taskman/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) SuperuserExists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedRole  model.Role
		expectedError error
	}{
		{
			name:     "first registration becomes superuser",
			username: "alice",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				m.On("SuperuserExists", mock.Anything).Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedRole: model.RoleSuperuser,
		},
		{
			name:     "subsequent registration becomes user",
			username: "bob",
			password: "secret2",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "bob").Return(nil, gorm.ErrRecordNotFound)
				m.On("SuperuserExists", mock.Anything).Return(true, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedRole: model.RoleUser,
		},
		{
			name:     "duplicate username",
			username: "alice",
			password: "whatever1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{Username: "alice"}, nil)
			},
			expectedError: apperrors.ErrUsernameTaken,
		},
		{
			name:          "username with whitespace",
			username:      "al ice",
			password:      "secret1",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidUsername,
		},
		{
			name:          "username too short",
			username:      "ab",
			password:      "secret1",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidUsername,
		},
		{
			name:          "password too short",
			username:      "carol",
			password:      "short",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewUserService(mockRepo, jwtService)

			role, err := svc.Register(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedRole, role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_RegisterHashesPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("SuperuserExists", mock.Anything).Return(false, nil)

	var stored *model.User
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*model.User)
		}).Return(nil)

	svc := NewUserService(mockRepo, auth.NewJWTService("test-secret"))
	_, err := svc.Register(context.Background(), "alice", "secret1")

	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestUserService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret1"), 10)

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedRole  model.Role
		expectedError error
	}{
		{
			name:     "successful login",
			username: "alice",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					Username:     "alice",
					PasswordHash: string(hashed),
					Role:         model.RoleSuperuser,
				}, nil)
			},
			expectedRole: model.RoleSuperuser,
		},
		{
			name:     "unknown user",
			username: "nobody",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "not-the-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					Username:     "alice",
					PasswordHash: string(hashed),
					Role:         model.RoleSuperuser,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewUserService(mockRepo, jwtService)

			token, role, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.expectedRole, role)

				// The issued token must carry the username and role claims.
				claims, err := jwtService.ValidateToken(token)
				assert.NoError(t, err)
				assert.Equal(t, tt.username, claims.Subject)
				assert.Equal(t, tt.expectedRole, claims.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
