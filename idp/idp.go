// Package idp defines the contract for the identity provider that owns
// marketplace accounts. Roles are modelled as IdP groups; onboarding a
// user means creating the account and adding it to its role group.
package idp

import "context"

// ProviderType selects a concrete identity provider implementation
type ProviderType string

const (
	ProviderAsgardeo ProviderType = "asgardeo"
)

// IdentityProviderAPI is the full identity provider surface
type IdentityProviderAPI interface {
	UserManager
	GroupManager
}

// UserManager manages marketplace accounts on the identity provider
type UserManager interface {
	CreateUser(ctx context.Context, user *User) (*UserInfo, error)
	GetUser(ctx context.Context, userID string) (*UserInfo, error)
	UpdateUser(ctx context.Context, userID string, user *User) (*UserInfo, error)
	DeleteUser(ctx context.Context, userID string) error
}

// GroupManager manages role groups and their membership
type GroupManager interface {
	GetGroupByName(ctx context.Context, groupName string) (*string, error)
	AddMemberToGroupByGroupName(ctx context.Context, groupName string, member *GroupMember) (*string, error)
	RemoveMemberFromGroup(ctx context.Context, groupID string, userID string) error
}

// User is the account payload sent to the identity provider
type User struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

// UserInfo is the account record returned by the identity provider
type UserInfo struct {
	Id          string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// GroupMember identifies a user within a role group
type GroupMember struct {
	Value   string
	Display string
}
