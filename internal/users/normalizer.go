package users

import (
	"context"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UpperNormalizer canonicalizes keys by Unicode upper-casing, matching the
// invariant-culture upper-casing identity frameworks conventionally apply to
// usernames, emails, and role names.
type UpperNormalizer struct{}

// Normalize implements KeyNormalizer.
func (UpperNormalizer) Normalize(key string) string {
	// cases.Caser carries internal state, so one is built per call rather
	// than shared.
	return cases.Upper(language.Und).String(key)
}

// NormalizeKey applies the default normalization used for index rows.
func NormalizeKey(key string) string {
	return UpperNormalizer{}.Normalize(key)
}

// StaticRoleService is a RoleService over a fixed role list.
type StaticRoleService struct {
	roleNames []string
}

// NewStaticRoleService creates a role registry from the given names.
func NewStaticRoleService(roleNames ...string) *StaticRoleService {
	return &StaticRoleService{roleNames: roleNames}
}

// GetRoleNames implements RoleService.
func (s *StaticRoleService) GetRoleNames(ctx context.Context) ([]string, error) {
	result := make([]string, len(s.roleNames))
	copy(result, s.roleNames)
	return result, nil
}
