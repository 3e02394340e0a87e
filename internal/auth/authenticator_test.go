package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "taskman/internal/errors"
	"taskman/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
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

func TestAuthenticator_Authenticate(t *testing.T) {
	jwtService := NewJWTService("test-secret")

	validToken, err := jwtService.GenerateAccessToken("alice", model.RoleSuperuser)
	assert.NoError(t, err)

	roleLessToken, err := jwtService.GenerateAccessToken("alice", "")
	assert.NoError(t, err)

	foreignToken, err := NewJWTService("other-secret").GenerateAccessToken("alice", model.RoleSuperuser)
	assert.NoError(t, err)

	tests := []struct {
		name          string
		header        string
		setupMock     func(*MockUserRepository)
		expected      *Identity
		expectedError error
	}{
		{
			name:   "round trip",
			header: "Bearer " + validToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					Username: "alice",
					Role:     model.RoleSuperuser,
				}, nil)
			},
			expected: &Identity{Username: "alice", Role: model.RoleSuperuser},
		},
		{
			name:          "missing bearer prefix",
			header:        "Token " + validToken,
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrMalformedHeader,
		},
		{
			name:          "empty header",
			header:        "",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrMalformedHeader,
		},
		{
			name:          "bearer with no token",
			header:        "Bearer ",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrMissingToken,
		},
		{
			name:          "garbage token",
			header:        "Bearer not-a-jwt",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name:          "token signed with a different secret",
			header:        "Bearer " + foreignToken,
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name:          "token missing role claim",
			header:        "Bearer " + roleLessToken,
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidTokenStructure,
		},
		{
			name:   "user deleted after token issuance",
			header: "Bearer " + validToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			authenticator := NewAuthenticator(jwtService, mockRepo)
			identity, err := authenticator.Authenticate(context.Background(), tt.header)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, identity)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, identity)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthenticator_RoleFromClaimNotRecord(t *testing.T) {
	// The live record is consulted for existence only; the role claim in
	// the token stays authoritative until a new token is issued.
	jwtService := NewJWTService("test-secret")
	token, err := jwtService.GenerateAccessToken("bob", model.RoleUser)
	assert.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", mock.Anything, "bob").Return(&model.User{
		Username: "bob",
		Role:     model.RoleSuperuser, // promoted after issuance
	}, nil)

	authenticator := NewAuthenticator(jwtService, mockRepo)
	identity, err := authenticator.Authenticate(context.Background(), "Bearer "+token)

	assert.NoError(t, err)
	assert.Equal(t, model.RoleUser, identity.Role)
	mockRepo.AssertExpectations(t)
}
