package auth

import (
	"context"
	"strings"

	apperrors "taskman/internal/errors"
	"taskman/internal/model"
	"taskman/internal/repository"
)

const bearerPrefix = "Bearer "

// Identity is the authenticated caller produced from a validated token.
// Username comes from the live user record; role comes from the token
// claim, so a role change takes effect when a new token is issued.
type Identity struct {
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// IsSuperuser reports whether the identity carries the superuser role.
func (i *Identity) IsSuperuser() bool {
	return i.Role == model.RoleSuperuser
}

// Authenticator resolves bearer tokens back to live identities.
type Authenticator struct {
	jwtService *JWTService
	users      repository.UserRepository
}

// NewAuthenticator creates an Authenticator over the credential store.
func NewAuthenticator(jwtService *JWTService, users repository.UserRepository) *Authenticator {
	return &Authenticator{jwtService: jwtService, users: users}
}

// Authenticate validates a raw Authorization header value and resolves it
// to an identity.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*Identity, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, apperrors.ErrMalformedHeader
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return nil, apperrors.ErrMissingToken
	}
	return a.AuthenticateToken(ctx, token)
}

// AuthenticateToken verifies a bare token string, then re-fetches the user
// record so a token issued for a since-deleted account is rejected.
func (a *Authenticator) AuthenticateToken(ctx context.Context, token string) (*Identity, error) {
	claims, err := a.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.Subject == "" || claims.Role == "" {
		return nil, apperrors.ErrInvalidTokenStructure
	}

	user, err := a.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	return &Identity{Username: user.Username, Role: claims.Role}, nil
}
