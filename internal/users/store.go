package users

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/conneroisu/thema/internal/errors"
	"github.com/conneroisu/thema/internal/logging"
	"github.com/conneroisu/thema/internal/session"
)

// UserStore is the persistence adapter implementing every user capability
// contract over one document session. Lookups go through the session's
// secondary indexes and match committed state only; mutations on the
// aggregate itself (roles, logins, claims, fields) are in-memory until the
// aggregate is saved and committed.
type UserStore struct {
	session    session.Session
	roles      RoleService
	normalizer KeyNormalizer
	logger     logging.Logger
	handlers   []CreatedHandler
}

var (
	_ IdentityStore       = (*UserStore)(nil)
	_ PasswordStore       = (*UserStore)(nil)
	_ EmailStore          = (*UserStore)(nil)
	_ SecurityStampStore  = (*UserStore)(nil)
	_ RoleMembershipStore = (*UserStore)(nil)
	_ LoginStore          = (*UserStore)(nil)
	_ ClaimStore          = (*UserStore)(nil)
)

// NewUserStore creates the adapter. normalizer may be nil, in which case
// keys pass through unchanged. handlers run in order after each successful
// creation commit.
func NewUserStore(sess session.Session, roles RoleService, normalizer KeyNormalizer, logger logging.Logger, handlers ...CreatedHandler) *UserStore {
	if logger == nil {
		logger = logging.NopLogger{}
	}

	return &UserStore{
		session:    sess,
		roles:      roles,
		normalizer: normalizer,
		logger:     logger.WithComponent("user-store"),
		handlers:   handlers,
	}
}

// NormalizeKey canonicalizes a lookup key with the configured normalizer.
func (s *UserStore) NormalizeKey(key string) string {
	if s.normalizer == nil {
		return key
	}
	return s.normalizer.Normalize(key)
}

func requireUser(user *User) error {
	if user == nil {
		return errors.NewValidationError("nil_user", "user cannot be nil")
	}
	return nil
}

func (s *UserStore) decode(data []byte) (*User, error) {
	if data == nil {
		return nil, nil
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, errors.WrapStorage(err, "decode_failed", "failed to decode user document", "user-store")
	}
	return &user, nil
}

func (s *UserStore) decodeAll(rows [][]byte) ([]*User, error) {
	result := make([]*User, 0, len(rows))
	for _, data := range rows {
		user, err := s.decode(data)
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, nil
}

// Identity capability

// Create persists the user and commits immediately. A commit failure is
// reported through the result, not as an error. Creation handlers run after
// the commit; their failures are logged and swallowed.
func (s *UserStore) Create(ctx context.Context, user *User) (IdentityResult, error) {
	if err := requireUser(user); err != nil {
		return IdentityResult{}, err
	}

	s.session.Save(user)

	if err := s.session.Commit(ctx); err != nil {
		s.logger.Error(ctx, err, "user creation commit failed", "username", user.Username)
		return ResultFailed("could not persist the user"), nil
	}

	created := &CreatedContext{User: user}
	for _, handler := range s.handlers {
		if err := handler.Created(ctx, created); err != nil {
			s.logger.Error(ctx, err, "user created handler failed", "username", user.Username)
		}
	}

	return ResultSuccess(), nil
}

// Update stages the user for persistence. The surrounding unit of work owns
// the commit.
func (s *UserStore) Update(ctx context.Context, user *User) (IdentityResult, error) {
	if err := requireUser(user); err != nil {
		return IdentityResult{}, err
	}

	s.session.Save(user)

	return ResultSuccess(), nil
}

// Delete removes the user and commits immediately, reporting a commit
// failure through the result.
func (s *UserStore) Delete(ctx context.Context, user *User) (IdentityResult, error) {
	if err := requireUser(user); err != nil {
		return IdentityResult{}, err
	}

	s.session.Delete(user)

	if err := s.session.Commit(ctx); err != nil {
		s.logger.Error(ctx, err, "user deletion commit failed", "username", user.Username)
		return ResultFailed("could not delete the user"), nil
	}

	return ResultSuccess(), nil
}

// FindByID resolves a user by its string-form numeric identifier. A
// malformed identifier is absence, not an error.
func (s *UserStore) FindByID(ctx context.Context, userID string) (*User, error) {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return nil, nil
	}

	data, err := s.session.Get(ctx, Collection, id)
	if err != nil {
		return nil, err
	}
	return s.decode(data)
}

// All returns every user in the collection, in identifier order.
func (s *UserStore) All(ctx context.Context) ([]*User, error) {
	rows, err := s.session.All(ctx, Collection)
	if err != nil {
		return nil, err
	}
	return s.decodeAll(rows)
}

// FindByName resolves a user by exact normalized username.
func (s *UserStore) FindByName(ctx context.Context, normalizedUsername string) (*User, error) {
	data, err := s.session.FirstByIndex(ctx, Collection, IndexByName, normalizedUsername)
	if err != nil {
		return nil, err
	}
	return s.decode(data)
}

// Password capability

// SetPasswordHash sets the stored password hash.
func (s *UserStore) SetPasswordHash(user *User, hash string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	user.PasswordHash = hash
	return nil
}

// PasswordHash returns the stored password hash.
func (s *UserStore) PasswordHash(user *User) (string, error) {
	if err := requireUser(user); err != nil {
		return "", err
	}
	return user.PasswordHash, nil
}

// HasPassword reports whether a password hash is set.
func (s *UserStore) HasPassword(user *User) (bool, error) {
	if err := requireUser(user); err != nil {
		return false, err
	}
	return user.PasswordHash != "", nil
}

// Email capability

// SetEmail sets the user's email address.
func (s *UserStore) SetEmail(user *User, email string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	user.Email = email
	return nil
}

// SetEmailConfirmed marks the email address confirmed or not.
func (s *UserStore) SetEmailConfirmed(user *User, confirmed bool) error {
	if err := requireUser(user); err != nil {
		return err
	}
	user.EmailConfirmed = confirmed
	return nil
}

// SetNormalizedEmail sets the normalized email used for lookups.
func (s *UserStore) SetNormalizedEmail(user *User, normalizedEmail string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	user.NormalizedEmail = normalizedEmail
	return nil
}

// FindByEmail resolves a user by exact normalized email.
func (s *UserStore) FindByEmail(ctx context.Context, normalizedEmail string) (*User, error) {
	data, err := s.session.FirstByIndex(ctx, Collection, IndexByEmail, normalizedEmail)
	if err != nil {
		return nil, err
	}
	return s.decode(data)
}

// Security stamp capability

// SetSecurityStamp sets the stamp invalidated credentials are checked
// against.
func (s *UserStore) SetSecurityStamp(user *User, stamp string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	user.SecurityStamp = stamp
	return nil
}

// SecurityStamp returns the current stamp.
func (s *UserStore) SecurityStamp(user *User) (string, error) {
	if err := requireUser(user); err != nil {
		return "", err
	}
	return user.SecurityStamp, nil
}

// Role membership capability

// resolveRoleName maps a normalized role name back to its canonical form in
// the role registry, or fails with a conflict when the role does not exist.
func (s *UserStore) resolveRoleName(ctx context.Context, normalizedRoleName string) (string, error) {
	roleNames, err := s.roles.GetRoleNames(ctx)
	if err != nil {
		return "", errors.WrapStorage(err, "role_registry_failed", "failed to read role registry", "user-store")
	}

	for _, roleName := range roleNames {
		if s.NormalizeKey(roleName) == normalizedRoleName {
			return roleName, nil
		}
	}

	return "", errors.NewConflictError("role_missing",
		fmt.Sprintf("role %s does not exist", normalizedRoleName))
}

// AddToRole grants membership in an existing role. Adding an already-held
// role is a no-op: the role collection behaves as a case-insensitive set.
func (s *UserStore) AddToRole(ctx context.Context, user *User, normalizedRoleName string) error {
	if err := requireUser(user); err != nil {
		return err
	}

	roleName, err := s.resolveRoleName(ctx, normalizedRoleName)
	if err != nil {
		return err
	}

	for _, held := range user.RoleNames {
		if strings.EqualFold(held, roleName) {
			return nil
		}
	}

	user.RoleNames = append(user.RoleNames, roleName)
	return nil
}

// RemoveFromRole revokes membership in an existing role; absence of the
// membership is a no-op.
func (s *UserStore) RemoveFromRole(ctx context.Context, user *User, normalizedRoleName string) error {
	if err := requireUser(user); err != nil {
		return err
	}

	roleName, err := s.resolveRoleName(ctx, normalizedRoleName)
	if err != nil {
		return err
	}

	kept := user.RoleNames[:0]
	for _, held := range user.RoleNames {
		if !strings.EqualFold(held, roleName) {
			kept = append(kept, held)
		}
	}
	user.RoleNames = kept
	return nil
}

// IsInRole tests membership case-insensitively.
func (s *UserStore) IsInRole(user *User, normalizedRoleName string) (bool, error) {
	if err := requireUser(user); err != nil {
		return false, err
	}

	if strings.TrimSpace(normalizedRoleName) == "" {
		return false, errors.NewValidationError("empty_role_name", "role name cannot be empty")
	}

	for _, held := range user.RoleNames {
		if strings.EqualFold(held, normalizedRoleName) {
			return true, nil
		}
	}
	return false, nil
}

// UsersInRole returns every user holding the role, by normalized name.
func (s *UserStore) UsersInRole(ctx context.Context, normalizedRoleName string) ([]*User, error) {
	if normalizedRoleName == "" {
		return nil, errors.NewValidationError("empty_role_name", "role name cannot be empty")
	}

	rows, err := s.session.QueryIndex(ctx, Collection, IndexByRole, normalizedRoleName)
	if err != nil {
		return nil, err
	}
	return s.decodeAll(rows)
}

// Login capability

// AddLogin links an external login. A second link from the same provider is
// rejected.
func (s *UserStore) AddLogin(user *User, login UserLoginInfo) error {
	if err := requireUser(user); err != nil {
		return err
	}

	if login.Provider == "" {
		return errors.NewValidationError("empty_login_provider", "login provider cannot be empty")
	}

	for _, linked := range user.Logins {
		if linked.Provider == login.Provider {
			return errors.NewConflictError("duplicate_login_provider",
				fmt.Sprintf("provider %s is already linked for %s", login.Provider, user.Username))
		}
	}

	user.Logins = append(user.Logins, login)
	return nil
}

// RemoveLogin unlinks the (provider, providerKey) login; absence is a no-op.
func (s *UserStore) RemoveLogin(user *User, provider, providerKey string) error {
	if err := requireUser(user); err != nil {
		return err
	}

	for i, linked := range user.Logins {
		if linked.Provider == provider && linked.ProviderKey == providerKey {
			user.Logins = append(user.Logins[:i], user.Logins[i+1:]...)
			return nil
		}
	}
	return nil
}

// FindByLogin resolves the at-most-one user linked to (provider,
// providerKey).
func (s *UserStore) FindByLogin(ctx context.Context, provider, providerKey string) (*User, error) {
	data, err := s.session.FirstByIndex(ctx, Collection, IndexByLogin, provider, providerKey)
	if err != nil {
		return nil, err
	}
	return s.decode(data)
}

// Claim capability

// AddClaims appends the given claims.
func (s *UserStore) AddClaims(user *User, claims []UserClaim) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if claims == nil {
		return errors.NewValidationError("nil_claims", "claims cannot be nil")
	}

	user.Claims = append(user.Claims, claims...)
	return nil
}

// ReplaceClaim rewrites every stored claim exactly matching claim to
// newClaim's type and value.
func (s *UserStore) ReplaceClaim(user *User, claim, newClaim UserClaim) error {
	if err := requireUser(user); err != nil {
		return err
	}

	for i := range user.Claims {
		if user.Claims[i].Type == claim.Type && user.Claims[i].Value == claim.Value {
			user.Claims[i] = UserClaim{Type: newClaim.Type, Value: newClaim.Value}
		}
	}
	return nil
}

// RemoveClaims removes every stored claim exactly matching any of the given
// claims.
func (s *UserStore) RemoveClaims(user *User, claims []UserClaim) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if claims == nil {
		return errors.NewValidationError("nil_claims", "claims cannot be nil")
	}

	for _, claim := range claims {
		kept := user.Claims[:0]
		for _, held := range user.Claims {
			if held.Type != claim.Type || held.Value != claim.Value {
				kept = append(kept, held)
			}
		}
		user.Claims = kept
	}
	return nil
}

// UsersForClaim returns every user holding the exact (type, value) claim.
func (s *UserStore) UsersForClaim(ctx context.Context, claim UserClaim) ([]*User, error) {
	rows, err := s.session.QueryIndex(ctx, Collection, IndexByClaim, claim.Type, claim.Value)
	if err != nil {
		return nil, err
	}
	return s.decodeAll(rows)
}
