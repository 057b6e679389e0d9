package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/conneroisu/thema/internal/config"
	"github.com/conneroisu/thema/internal/session"
	"github.com/conneroisu/thema/internal/users"
)

var (
	userUsername string
	userEmail    string
	userID       string
	userRole     string
)

// usersCmd groups user administration subcommands.
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Administer users in the document store",
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long: `Create a user in the configured document store. The username and
email are normalized for lookups and a fresh security stamp is issued.

Examples:
  thema users create --username alice --email alice@example.com`,
	RunE: runUsersCreateCommand,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE:  runUsersListCommand,
}

var usersFindCmd = &cobra.Command{
	Use:   "find",
	Short: "Look up a user by id, username, or email",
	Long: `Look up one user and print it as JSON.

Examples:
  thema users find --id 1
  thema users find --username alice
  thema users find --email alice@example.com`,
	RunE: runUsersFindCommand,
}

var usersAddRoleCmd = &cobra.Command{
	Use:   "add-role",
	Short: "Grant a role to a user",
	Long: `Grant membership in a configured role. The role must appear in the
roles list of the configuration file.

Examples:
  thema users add-role --username alice --role Editors`,
	RunE: runUsersAddRoleCommand,
}

var usersRemoveRoleCmd = &cobra.Command{
	Use:   "remove-role",
	Short: "Revoke a role from a user",
	RunE:  runUsersRemoveRoleCommand,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersCreateCmd, usersListCmd, usersFindCmd, usersAddRoleCmd, usersRemoveRoleCmd)

	usersCreateCmd.Flags().StringVarP(&userUsername, "username", "u", "", "username (required)")
	usersCreateCmd.Flags().StringVarP(&userEmail, "email", "e", "", "email address (required)")
	usersCreateCmd.MarkFlagRequired("username")
	usersCreateCmd.MarkFlagRequired("email")

	usersFindCmd.Flags().StringVar(&userID, "id", "", "user identifier")
	usersFindCmd.Flags().StringVarP(&userUsername, "username", "u", "", "username")
	usersFindCmd.Flags().StringVarP(&userEmail, "email", "e", "", "email address")

	for _, roleCmd := range []*cobra.Command{usersAddRoleCmd, usersRemoveRoleCmd} {
		roleCmd.Flags().StringVarP(&userUsername, "username", "u", "", "username (required)")
		roleCmd.Flags().StringVarP(&userRole, "role", "r", "", "role name (required)")
		roleCmd.MarkFlagRequired("username")
		roleCmd.MarkFlagRequired("role")
	}
}

// openUserStore wires a user store over the configured document database.
// The returned cleanup closes the database.
func openUserStore(cfg *config.Config) (*users.UserStore, *session.DocumentSession, func(), error) {
	store, err := session.NewStore(cfg.Store.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open store at %s: %w", cfg.Store.Path, err)
	}

	sess := store.OpenSession()
	userStore := users.NewUserStore(sess,
		users.NewStaticRoleService(cfg.Roles...),
		users.UpperNormalizer{},
		newLogger(cfg))

	return userStore, sess, func() { store.Close() }, nil
}

func runUsersCreateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	userStore, _, closeStore, err := openUserStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	user := &users.User{
		Username:           userUsername,
		NormalizedUsername: users.NormalizeKey(userUsername),
		Email:              userEmail,
		NormalizedEmail:    users.NormalizeKey(userEmail),
		SecurityStamp:      uuid.NewString(),
	}

	result, err := userStore.Create(cmd.Context(), user)
	if err != nil {
		return err
	}
	if !result.Succeeded {
		return fmt.Errorf("could not create user: %v", result.Errors)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", user.Username, user.ID)
	return nil
}

func runUsersListCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	userStore, _, closeStore, err := openUserStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	all, err := userStore.All(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(all) == 0 {
		fmt.Fprintln(out, "No users")
		return nil
	}

	for _, user := range all {
		fmt.Fprintf(out, "%d\t%s\t%s", user.ID, user.Username, user.Email)
		if len(user.RoleNames) > 0 {
			fmt.Fprintf(out, "\t[%s]", strings.Join(user.RoleNames, ", "))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runUsersFindCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	userStore, _, closeStore, err := openUserStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var user *users.User
	switch {
	case userID != "":
		user, err = userStore.FindByID(cmd.Context(), userID)
	case userUsername != "":
		user, err = userStore.FindByName(cmd.Context(), users.NormalizeKey(userUsername))
	case userEmail != "":
		user, err = userStore.FindByEmail(cmd.Context(), users.NormalizeKey(userEmail))
	default:
		return fmt.Errorf("one of --id, --username, or --email is required")
	}
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no matching user")
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(user)
}

func runUsersAddRoleCommand(cmd *cobra.Command, args []string) error {
	return changeRoleMembership(cmd, func(userStore *users.UserStore, user *users.User) error {
		return userStore.AddToRole(cmd.Context(), user, users.NormalizeKey(userRole))
	}, "granted")
}

func runUsersRemoveRoleCommand(cmd *cobra.Command, args []string) error {
	return changeRoleMembership(cmd, func(userStore *users.UserStore, user *users.User) error {
		return userStore.RemoveFromRole(cmd.Context(), user, users.NormalizeKey(userRole))
	}, "revoked")
}

func changeRoleMembership(cmd *cobra.Command, change func(*users.UserStore, *users.User) error, verb string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	userStore, sess, closeStore, err := openUserStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	user, err := userStore.FindByName(cmd.Context(), users.NormalizeKey(userUsername))
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("unknown user %s", userUsername)
	}

	if err := change(userStore, user); err != nil {
		return err
	}

	if _, err := userStore.Update(cmd.Context(), user); err != nil {
		return err
	}
	if err := sess.Commit(cmd.Context()); err != nil {
		return fmt.Errorf("failed to persist role change: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Role %s %s for %s\n", userRole, verb, user.Username)
	return nil
}
