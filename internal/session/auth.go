package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/vytor/talentscout/internal/errors"
	"github.com/vytor/talentscout/internal/models"
)

// Identity is the authenticated caller as reported by the auth provider.
type Identity struct {
	UserID    string
	UserType  models.UserType
	Token     string
	ExpiresAt time.Time
}

// Claims follows the hosted auth service's access token layout: the subject
// is the user uuid and the role discriminator lives in user_metadata.
type Claims struct {
	jwt.RegisteredClaims
	Email        string       `json:"email,omitempty"`
	Role         string       `json:"role,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata"`
}

type UserMetadata struct {
	UserType  string `json:"user_type"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Authenticator verifies HS256 access tokens.
type Authenticator struct {
	secret   []byte
	audience string
}

func NewAuthenticator(secret, audience string) *Authenticator {
	return &Authenticator{secret: []byte(secret), audience: audience}
}

// Authenticate parses tokenString and returns the identity it carries.
func (a *Authenticator) Authenticate(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, apperrors.NewUnauthorizedError("missing access token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, unauthorized("invalid access token", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, unauthorized("invalid access token", nil)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, unauthorized("invalid user id in token", err)
	}
	userType := models.UserType(claims.UserMetadata.UserType)
	if !userType.Valid() {
		return Identity{}, unauthorized(fmt.Sprintf("unknown user type %q", claims.UserMetadata.UserType), nil)
	}

	return Identity{
		UserID:    userID.String(),
		UserType:  userType,
		Token:     tokenString,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Issue signs a token for id. It exists for local development and tests;
// production tokens come from the hosted auth service.
func (a *Authenticator) Issue(id Identity, ttl time.Duration) (string, error) {
	if _, err := uuid.Parse(id.UserID); err != nil {
		return "", errors.New("user id must be a uuid")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:         "authenticated",
		UserMetadata: UserMetadata{UserType: string(id.UserType)},
	}
	if a.audience != "" {
		claims.Audience = jwt.ClaimStrings{a.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func unauthorized(msg string, err error) *apperrors.AppError {
	appErr := apperrors.NewUnauthorizedError(msg)
	appErr.Err = err
	return appErr
}
