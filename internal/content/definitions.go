// Package content models the subset of content-type metadata that drives
// shape alternate generation: type definitions, part definitions, and the
// loosely-typed settings bags attached to both.
//
// Definitions are loaded once (from YAML, see loader.go) and read many times;
// nothing in this package mutates a definition after construction.
package content

import "strings"

// Settings is a loosely-typed property bag attached to definitions.
type Settings map[string]interface{}

// String reads an optional string value by key. Key lookup is exact first,
// then case-insensitive, so hand-written YAML with differing key casing still
// resolves. Missing or non-string values yield the empty string.
func (s Settings) String(key string) string {
	if s == nil {
		return ""
	}

	if v, ok := s[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
		return ""
	}

	for k, v := range s {
		if strings.EqualFold(k, key) {
			if str, ok := v.(string); ok {
				return str
			}
			return ""
		}
	}

	return ""
}

// Bool reads an optional bool value by key, false when missing.
func (s Settings) Bool(key string) bool {
	if s == nil {
		return false
	}

	if v, ok := s[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}

	return false
}

// ContentTypeDefinition describes one content type: its stable name and its
// settings bag. The stereotype lives in settings under the "stereotype" key.
type ContentTypeDefinition struct {
	Name     string
	Settings Settings
	Parts    []*ContentTypePartDefinition
}

// Stereotype returns the type's stereotype classification, or the empty
// string when none is set.
func (d *ContentTypeDefinition) Stereotype() string {
	if d == nil {
		return ""
	}
	return d.Settings.String("stereotype")
}

// Part returns the named part attachment, or nil when the type has none.
func (d *ContentTypeDefinition) Part(name string) *ContentTypePartDefinition {
	if d == nil {
		return nil
	}
	for _, part := range d.Parts {
		if part.Name == name {
			return part
		}
	}
	return nil
}

// PartDefinition describes a part implementation by its own name, independent
// of any content type it is attached to.
type PartDefinition struct {
	Name     string
	Settings Settings
}

// ContentTypePartDefinition is one part attachment inside a content type.
// Name is the attachment name chosen by the developer; it equals the part
// definition's name unless the part was aliased (e.g. a second BagPart named
// "Services").
type ContentTypePartDefinition struct {
	Name                  string
	PartDefinition        *PartDefinition
	Settings              Settings
	ContentTypeDefinition *ContentTypeDefinition
}

// Editor returns the custom editor name declared on this attachment, or the
// empty string when the part uses its default editor templates.
func (d *ContentTypePartDefinition) Editor() string {
	if d == nil {
		return ""
	}
	return d.Settings.String("editor")
}

// PartTypeName returns the underlying part implementation's name.
func (d *ContentTypePartDefinition) PartTypeName() string {
	if d == nil || d.PartDefinition == nil {
		return ""
	}
	return d.PartDefinition.Name
}
