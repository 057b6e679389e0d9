package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// definitionFile is the YAML document shape for a definition file. One file
// may declare any number of content types.
type definitionFile struct {
	ContentTypes []contentTypeYAML `yaml:"content_types"`
}

type contentTypeYAML struct {
	Name     string                 `yaml:"name"`
	Settings map[string]interface{} `yaml:"settings"`
	Parts    []partYAML             `yaml:"parts"`
}

type partYAML struct {
	Name     string                 `yaml:"name"`
	Part     string                 `yaml:"part"`
	Settings map[string]interface{} `yaml:"settings"`
}

// LoadFile parses one YAML definition file into content-type definitions.
func LoadFile(path string) ([]*ContentTypeDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file %s: %w", path, err)
	}

	var file definitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse definition file %s: %w", path, err)
	}

	definitions := make([]*ContentTypeDefinition, 0, len(file.ContentTypes))
	for _, ct := range file.ContentTypes {
		if ct.Name == "" {
			return nil, fmt.Errorf("definition file %s: content type without a name", path)
		}

		definition := &ContentTypeDefinition{
			Name:     ct.Name,
			Settings: Settings(ct.Settings),
		}

		for _, p := range ct.Parts {
			if p.Name == "" {
				return nil, fmt.Errorf("definition file %s: part without a name on type %s", path, ct.Name)
			}

			// An omitted "part" key means the attachment name is the
			// part type itself (the non-aliased case).
			partType := p.Part
			if partType == "" {
				partType = p.Name
			}

			definition.Parts = append(definition.Parts, &ContentTypePartDefinition{
				Name:                  p.Name,
				PartDefinition:        &PartDefinition{Name: partType},
				Settings:              Settings(p.Settings),
				ContentTypeDefinition: definition,
			})
		}

		definitions = append(definitions, definition)
	}

	return definitions, nil
}

// LoadDir loads every .yml/.yaml file in dir, in lexical order so repeated
// loads produce deterministic results.
func LoadDir(dir string) ([]*ContentTypeDefinition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yml" || ext == ".yaml" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	var definitions []*ContentTypeDefinition
	for _, path := range paths {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, loaded...)
	}

	return definitions, nil
}
