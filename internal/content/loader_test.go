package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogDefinition = `content_types:
  - name: BlogPost
    parts:
      - name: HtmlBodyPart
      - name: ListPart
  - name: HeroBanner
    settings:
      stereotype: Widget
    parts:
      - name: Body
        part: HtmlBodyPart
        settings:
          editor: Wysiwyg
`

func writeDefinition(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDefinition(t, dir, "blog.yml", blogDefinition)

	definitions, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, definitions, 2)

	blog := definitions[0]
	assert.Equal(t, "BlogPost", blog.Name)
	assert.Equal(t, "", blog.Stereotype())
	require.Len(t, blog.Parts, 2)

	// Non-aliased part: attachment name doubles as the part type.
	body := blog.Parts[0]
	assert.Equal(t, "HtmlBodyPart", body.Name)
	assert.Equal(t, "HtmlBodyPart", body.PartTypeName())
	assert.Equal(t, blog, body.ContentTypeDefinition)

	hero := definitions[1]
	assert.Equal(t, "Widget", hero.Stereotype())
	require.Len(t, hero.Parts, 1)

	// Aliased part keeps both names distinct.
	aliased := hero.Parts[0]
	assert.Equal(t, "Body", aliased.Name)
	assert.Equal(t, "HtmlBodyPart", aliased.PartTypeName())
	assert.Equal(t, "Wysiwyg", aliased.Editor())
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "absent.yml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeDefinition(t, dir, "bad.yml", "content_types: [\n")
		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("nameless content type", func(t *testing.T) {
		path := writeDefinition(t, dir, "noname.yml", "content_types:\n  - parts: []\n")
		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "without a name")
	})

	t.Run("nameless part", func(t *testing.T) {
		path := writeDefinition(t, dir, "nopart.yml", "content_types:\n  - name: X\n    parts:\n      - part: Y\n")
		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "part without a name")
	})
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "b.yml", "content_types:\n  - name: Second\n")
	writeDefinition(t, dir, "a.yaml", "content_types:\n  - name: First\n")
	writeDefinition(t, dir, "ignored.txt", "not yaml")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	definitions, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, definitions, 2)

	// Lexical file order keeps repeated loads deterministic.
	assert.Equal(t, "First", definitions[0].Name)
	assert.Equal(t, "Second", definitions[1].Name)
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
