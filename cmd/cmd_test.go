package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDefinitions(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "types.yml"), []byte(body), 0644))
	return dir
}

// execute runs the root command in-process with the given arguments and
// returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandRegistration(t *testing.T) {
	names := make(map[string]bool)
	for _, subCmd := range rootCmd.Commands() {
		names[subCmd.Name()] = true
	}

	for _, expected := range []string{"alternates", "definitions", "users", "version", "watch"} {
		assert.True(t, names[expected], "command %s not registered", expected)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestVersionCommandRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "version", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	versionFormat = "text"
}

func TestDefinitionsCommand(t *testing.T) {
	dir := writeDefinitions(t, `
content_types:
  - name: BlogPost
    parts:
      - name: Body
        part: HtmlBodyPart
  - name: HeroBanner
    settings:
      stereotype: Widget
    parts:
      - name: Body
        part: HtmlBodyPart
        settings:
          editor: Wysiwyg
`)
	viper.Set("definitions.path", dir)
	defer viper.Set("definitions.path", "")

	out, err := execute(t, "definitions")
	require.NoError(t, err)

	assert.Contains(t, out, "BlogPost")
	assert.Contains(t, out, "HeroBanner (stereotype: Widget)")
	assert.Contains(t, out, "Body [HtmlBodyPart] editor=Wysiwyg")
}

func TestDefinitionsCommandJSON(t *testing.T) {
	dir := writeDefinitions(t, `
content_types:
  - name: BlogPost
    parts:
      - name: Body
        part: HtmlBodyPart
`)
	viper.Set("definitions.path", dir)
	defer viper.Set("definitions.path", "")

	out, err := execute(t, "definitions", "--format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, `"name": "BlogPost"`)
	assert.Contains(t, out, `"part": "HtmlBodyPart"`)

	definitionsFormat = "text"
}

func TestAlternatesCommand(t *testing.T) {
	dir := writeDefinitions(t, `
content_types:
  - name: HeroBanner
    settings:
      stereotype: Widget
    parts:
      - name: Body
        part: HtmlBodyPart
`)
	viper.Set("definitions.path", dir)
	defer viper.Set("definitions.path", "")

	out, err := execute(t, "alternates",
		"--type", "HeroBanner", "--part", "Body", "--display-type", "Summary")
	require.NoError(t, err)

	assert.Contains(t, out, "Differentiator: Body")
	assert.Contains(t, out, "HtmlBodyPart_Summary")
	assert.Contains(t, out, "HeroBanner_Summary__HtmlBodyPart")
	assert.Contains(t, out, "Widget_Summary__HtmlBodyPart")
}

func TestAlternatesCommandUnknownType(t *testing.T) {
	dir := writeDefinitions(t, `
content_types:
  - name: BlogPost
    parts:
      - name: Body
        part: HtmlBodyPart
`)
	viper.Set("definitions.path", dir)
	defer viper.Set("definitions.path", "")

	_, err := execute(t, "alternates", "--type", "Missing", "--part", "Body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown content type")

	_, err = execute(t, "alternates", "--type", "BlogPost", "--part", "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no part")
}

func TestUsersCreateAndFind(t *testing.T) {
	viper.Set("definitions.path", t.TempDir())
	viper.Set("store.path", filepath.Join(t.TempDir(), "thema.db"))
	defer func() {
		viper.Set("definitions.path", "")
		viper.Set("store.path", "")
	}()

	out, err := execute(t, "users", "create",
		"--username", "alice", "--email", "alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Created user alice (id 1)")

	out, err = execute(t, "users", "find", "--id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"username": "alice"`)

	userID = ""
	out, err = execute(t, "users", "find", "--username", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, `"email": "alice@example.com"`)

	out, err = execute(t, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
}

func TestUsersRoleCommands(t *testing.T) {
	viper.Set("definitions.path", t.TempDir())
	viper.Set("store.path", filepath.Join(t.TempDir(), "thema.db"))
	viper.Set("roles", []string{"Editors"})
	defer func() {
		viper.Set("definitions.path", "")
		viper.Set("store.path", "")
		viper.Set("roles", nil)
	}()

	_, err := execute(t, "users", "create",
		"--username", "alice", "--email", "alice@example.com")
	require.NoError(t, err)

	out, err := execute(t, "users", "add-role", "--username", "alice", "--role", "Editors")
	require.NoError(t, err)
	assert.Contains(t, out, "granted")

	userID = ""
	userEmail = ""
	out, err = execute(t, "users", "find", "--username", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Editors")

	_, err = execute(t, "users", "add-role", "--username", "alice", "--role", "Ghosts")
	require.Error(t, err)

	out, err = execute(t, "users", "remove-role", "--username", "alice", "--role", "Editors")
	require.NoError(t, err)
	assert.Contains(t, out, "revoked")
}
