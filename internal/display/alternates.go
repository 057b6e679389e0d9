package display

import (
	"strings"

	"github.com/conneroisu/thema/internal/content"
)

// EditorShapeType returns the editor shape family for a part attachment. A
// part that declares a custom editor gets its own template family,
// e.g. "HtmlBodyPart_Edit__Wysiwyg"; otherwise the base shape type is used
// unchanged.
func EditorShapeType(shapeType string, typePart *content.ContentTypePartDefinition) string {
	editor := typePart.Editor()
	if editor == "" {
		return shapeType
	}
	return shapeType + "__" + editor
}

// Resolve computes the differentiator and the ordered alternate list for one
// shape build. It is a pure function: it reads the part attachment and its
// owning content-type definition and never mutates either.
//
// typePart may be nil (or unattached to a content type) when the shape is
// being built outside a specific content-type context; resolution is skipped
// entirely and both results are empty.
//
// editorShapeType is the editor shape family the owning driver renders
// (see EditorShapeType); when shapeType equals it, the build is the editor
// path and only display-type-qualified alternates are emitted.
//
// Alternates are returned most-general-first. Duplicates across branches are
// possible and left to the destination collection's set semantics.
func Resolve(typePart *content.ContentTypePartDefinition, shapeType, displayType, editorShapeType string) (string, []string) {
	if typePart == nil || typePart.ContentTypeDefinition == nil {
		return "", nil
	}

	// The stereotype concatenates into alternates exactly like the content
	// type name does. The "Content" stereotype is the unclassified default
	// and gets no alternates of its own.
	stereotype := typePart.ContentTypeDefinition.Stereotype()
	if strings.EqualFold("Content", stereotype) {
		stereotype = ""
	}

	partName := typePart.Name
	partType := typePart.PartTypeName()
	contentType := typePart.ContentTypeDefinition.Name

	var differentiator string
	if partType == shapeType || editorShapeType == shapeType {
		// HtmlBodyPart, Services
		differentiator = partName
	} else {
		// ListPart-ListPartFeed
		differentiator = partName + "-" + shapeType
	}

	var alternates []string
	var displayTypes []string

	if editorShapeType == shapeType {
		displayTypes = []string{"_" + displayType}
	} else {
		displayTypes = []string{"", "_" + displayType}

		// [ShapeType]_[DisplayType], e.g. HtmlBodyPart_Summary, ListPartFeed_Summary
		alternates = append(alternates, shapeType+"_"+displayType)
	}

	if shapeType == partType || shapeType == editorShapeType {
		for _, displayToken := range displayTypes {
			// [ContentType]_[DisplayType]__[PartType], e.g. Blog__HtmlBodyPart
			alternates = append(alternates, contentType+displayToken+"__"+partType)

			if stereotype != "" {
				// [Stereotype]_[DisplayType]__[PartType], e.g. Widget__HtmlBodyPart
				alternates = append(alternates, stereotype+displayToken+"__"+partType)
			}
		}

		if partType != partName {
			for _, displayToken := range displayTypes {
				// [ContentType]_[DisplayType]__[PartName], e.g. LandingPage__Services
				alternates = append(alternates, contentType+displayToken+"__"+partName)

				if stereotype != "" {
					alternates = append(alternates, stereotype+displayToken+"__"+partName)
				}
			}
		}
	} else {
		for _, displayToken := range displayTypes {
			// [ContentType]_[DisplayType]__[PartType]__[ShapeType], e.g. Blog__ListPart__ListPartFeed
			alternates = append(alternates, contentType+displayToken+"__"+partType+"__"+shapeType)

			if stereotype != "" {
				alternates = append(alternates, stereotype+displayToken+"__"+partType+"__"+shapeType)
			}
		}

		if partType != partName {
			for _, displayToken := range displayTypes {
				// [ContentType]_[DisplayType]__[PartName]__[ShapeType], e.g. LandingPage__Services__BagPartSummary
				alternates = append(alternates, contentType+displayToken+"__"+partName+"__"+shapeType)

				if stereotype != "" {
					alternates = append(alternates, stereotype+displayToken+"__"+partName+"__"+shapeType)
				}
			}
		}
	}

	return differentiator, alternates
}
