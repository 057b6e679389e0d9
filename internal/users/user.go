// Package users implements the user persistence adapter: narrow capability
// contracts (identity, passwords, email, security stamp, roles, logins,
// claims) served by one UserStore over the document session.
package users

import (
	"github.com/conneroisu/thema/internal/session"
)

// Collection is the document collection holding user aggregates.
const Collection = "users"

// Secondary index names over the user collection.
const (
	IndexByName  = "user_by_name"
	IndexByEmail = "user_by_email"
	IndexByRole  = "user_by_role"
	IndexByLogin = "user_by_login"
	IndexByClaim = "user_by_claim"
)

// UserClaim is one (type, value) claim held by a user.
type UserClaim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// UserLoginInfo links a user to an external login provider account. At most
// one link per provider is allowed on a user.
type UserLoginInfo struct {
	Provider    string `json:"provider"`
	ProviderKey string `json:"provider_key"`
	DisplayName string `json:"display_name,omitempty"`
}

// User is the aggregate persisted as one document. The normalized name and
// email fields are maintained by the identity-management layer; lookups match
// them exactly.
type User struct {
	ID                 int64           `json:"id"`
	Username           string          `json:"username"`
	NormalizedUsername string          `json:"normalized_username"`
	Email              string          `json:"email"`
	NormalizedEmail    string          `json:"normalized_email"`
	EmailConfirmed     bool            `json:"email_confirmed"`
	PasswordHash       string          `json:"password_hash,omitempty"`
	SecurityStamp      string          `json:"security_stamp,omitempty"`
	RoleNames          []string        `json:"role_names,omitempty"`
	Logins             []UserLoginInfo `json:"logins,omitempty"`
	Claims             []UserClaim     `json:"claims,omitempty"`
}

// DocumentID implements session.Document.
func (u *User) DocumentID() int64 { return u.ID }

// SetDocumentID implements session.Document.
func (u *User) SetDocumentID(id int64) { u.ID = id }

// Collection implements session.Document.
func (u *User) Collection() string { return Collection }

// IndexEntries implements session.Indexed. Role names are indexed in
// normalized form so membership queries by normalized name hit the index;
// logins and claims are indexed verbatim for exact-pair lookups.
func (u *User) IndexEntries() []session.IndexEntry {
	entries := []session.IndexEntry{
		{Index: IndexByName, Values: []string{u.NormalizedUsername}},
		{Index: IndexByEmail, Values: []string{u.NormalizedEmail}},
	}

	for _, role := range u.RoleNames {
		entries = append(entries, session.IndexEntry{
			Index:  IndexByRole,
			Values: []string{NormalizeKey(role)},
		})
	}

	for _, login := range u.Logins {
		entries = append(entries, session.IndexEntry{
			Index:  IndexByLogin,
			Values: []string{login.Provider, login.ProviderKey},
		})
	}

	for _, claim := range u.Claims {
		entries = append(entries, session.IndexEntry{
			Index:  IndexByClaim,
			Values: []string{claim.Type, claim.Value},
		})
	}

	return entries
}
