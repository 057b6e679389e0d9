package users

import "context"

// IdentityResult is the uniform outcome of an identity lifecycle operation.
// Persistence failures surface here rather than as errors so callers present
// one success/failure shape to the management layer.
type IdentityResult struct {
	Succeeded bool
	Errors    []string
}

// ResultSuccess returns a succeeded result.
func ResultSuccess() IdentityResult {
	return IdentityResult{Succeeded: true}
}

// ResultFailed returns a failed result carrying the given descriptions.
func ResultFailed(errors ...string) IdentityResult {
	return IdentityResult{Errors: errors}
}

// KeyNormalizer canonicalizes lookup keys (usernames, emails, role names)
// before exact-match comparison or index lookup.
type KeyNormalizer interface {
	Normalize(key string) string
}

// RoleService is the external role registry consulted before role
// membership changes.
type RoleService interface {
	GetRoleNames(ctx context.Context) ([]string, error)
}

// CreatedContext carries the committed user to creation handlers.
type CreatedContext struct {
	User *User
}

// CreatedHandler observes successful user creation. Handlers run after the
// creation commit; a handler error is logged and never rolls the creation
// back.
type CreatedHandler interface {
	Created(ctx context.Context, created *CreatedContext) error
}

// IdentityStore is the create/read/update/delete capability over users.
type IdentityStore interface {
	Create(ctx context.Context, user *User) (IdentityResult, error)
	Update(ctx context.Context, user *User) (IdentityResult, error)
	Delete(ctx context.Context, user *User) (IdentityResult, error)
	FindByID(ctx context.Context, userID string) (*User, error)
	FindByName(ctx context.Context, normalizedUsername string) (*User, error)
}

// PasswordStore is the password-hash capability.
type PasswordStore interface {
	SetPasswordHash(user *User, hash string) error
	PasswordHash(user *User) (string, error)
	HasPassword(user *User) (bool, error)
}

// EmailStore is the email capability.
type EmailStore interface {
	SetEmail(user *User, email string) error
	SetEmailConfirmed(user *User, confirmed bool) error
	SetNormalizedEmail(user *User, normalizedEmail string) error
	FindByEmail(ctx context.Context, normalizedEmail string) (*User, error)
}

// SecurityStampStore is the security-stamp capability.
type SecurityStampStore interface {
	SetSecurityStamp(user *User, stamp string) error
	SecurityStamp(user *User) (string, error)
}

// RoleMembershipStore is the role membership capability. Role names are
// validated against the role registry; membership tests are
// case-insensitive.
type RoleMembershipStore interface {
	AddToRole(ctx context.Context, user *User, normalizedRoleName string) error
	RemoveFromRole(ctx context.Context, user *User, normalizedRoleName string) error
	IsInRole(user *User, normalizedRoleName string) (bool, error)
	UsersInRole(ctx context.Context, normalizedRoleName string) ([]*User, error)
}

// LoginStore is the external-login capability.
type LoginStore interface {
	AddLogin(user *User, login UserLoginInfo) error
	RemoveLogin(user *User, provider, providerKey string) error
	FindByLogin(ctx context.Context, provider, providerKey string) (*User, error)
}

// ClaimStore is the claims capability.
type ClaimStore interface {
	AddClaims(user *User, claims []UserClaim) error
	ReplaceClaim(user *User, claim, newClaim UserClaim) error
	RemoveClaims(user *User, claims []UserClaim) error
	UsersForClaim(ctx context.Context, claim UserClaim) ([]*User, error)
}
