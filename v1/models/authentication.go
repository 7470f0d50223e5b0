package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// FlexibleStringSlice unmarshals a claim that may arrive as a single
// string or as an array of strings, depending on the IdP.
type FlexibleStringSlice []string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = FlexibleStringSlice{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("cannot unmarshal %s into FlexibleStringSlice", string(data))
	}
	*f = FlexibleStringSlice(many)
	return nil
}

// UserClaims represents the JWT claims for a user
type UserClaims struct {
	Email     string              `json:"email"`
	FullName  string              `json:"name"`
	Roles     FlexibleStringSlice `json:"roles"`
	UserID    string              `json:"sub"` // Subject is the user ID from the IdP
	Issuer    string              `json:"iss"`
	Audience  []string            `json:"aud"`
	ExpiresAt time.Time           `json:"exp"`
	IssuedAt  time.Time           `json:"iat"`
	NotBefore time.Time           `json:"nbf"`
}

// GetExpirationTime implements jwt.Claims interface
func (c *UserClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt.IsZero() {
		return nil, nil
	}
	return jwt.NewNumericDate(c.ExpiresAt), nil
}

// GetIssuedAt implements jwt.Claims interface
func (c *UserClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt.IsZero() {
		return nil, nil
	}
	return jwt.NewNumericDate(c.IssuedAt), nil
}

// GetNotBefore implements jwt.Claims interface
func (c *UserClaims) GetNotBefore() (*jwt.NumericDate, error) {
	if c.NotBefore.IsZero() {
		return nil, nil
	}
	return jwt.NewNumericDate(c.NotBefore), nil
}

// GetIssuer implements jwt.Claims interface
func (c *UserClaims) GetIssuer() (string, error) {
	return c.Issuer, nil
}

// GetSubject implements jwt.Claims interface
func (c *UserClaims) GetSubject() (string, error) {
	return c.UserID, nil
}

// GetAudience implements jwt.Claims interface
func (c *UserClaims) GetAudience() (jwt.ClaimStrings, error) {
	return jwt.ClaimStrings(c.Audience), nil
}

// AuthenticatedUser represents the authenticated user context. It is set
// on sign-in by the JWT middleware and cleared when the request ends;
// nothing holds it globally.
type AuthenticatedUser struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Roles     []Role    `json:"roles"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthContext represents the authentication context in HTTP requests
type AuthContext struct {
	User     *AuthenticatedUser `json:"user"`
	Token    string             `json:"-"` // Don't expose in JSON
	IssuedBy string             `json:"issuedBy"`
	Audience []string           `json:"audience"`
}

// NewAuthenticatedUser builds an AuthenticatedUser from validated claims.
// Every role claim must parse; an unrecognized role is rejected outright
// instead of being coerced into a default.
func NewAuthenticatedUser(claims *UserClaims) (*AuthenticatedUser, error) {
	if len(claims.Roles) == 0 {
		return nil, fmt.Errorf("token carries no roles")
	}

	roles := make([]Role, 0, len(claims.Roles))
	for _, raw := range claims.Roles {
		role, err := ParseRole(raw)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	return &AuthenticatedUser{
		UserID:    claims.UserID,
		Email:     claims.Email,
		FullName:  claims.FullName,
		Roles:     roles,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// HasRole checks if the user has a specific role
func (u *AuthenticatedUser) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if the user has any of the specified roles
func (u *AuthenticatedUser) HasAnyRole(roles ...Role) bool {
	for _, requiredRole := range roles {
		for _, userRole := range u.Roles {
			if userRole == requiredRole {
				return true
			}
		}
	}
	return false
}

// HasPermission checks if the user has a specific permission based on their roles
func (u *AuthenticatedUser) HasPermission(permission Permission) bool {
	for _, role := range u.Roles {
		if role.HasPermission(permission) {
			return true
		}
	}
	return false
}

// GetPrimaryRole returns the first role, used for dashboard dispatch and logging
func (u *AuthenticatedUser) GetPrimaryRole() Role {
	if len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0]
}

// IsTokenExpired checks whether the token behind this user has expired
func (u *AuthenticatedUser) IsTokenExpired() bool {
	return !u.ExpiresAt.IsZero() && time.Now().After(u.ExpiresAt)
}
