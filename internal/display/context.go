package display

import (
	"context"

	"github.com/conneroisu/thema/internal/content"
)

// Updater binds posted values onto a part during an editor update. The
// concrete binder lives in the host framework; this layer only threads it
// through to update hooks.
type Updater interface {
	// TryUpdate binds values under prefix onto target, returning an error
	// when binding fails.
	TryUpdate(ctx context.Context, prefix string, target interface{}) error
}

// BuildDisplayContext is the caller-supplied state for a display build.
type BuildDisplayContext struct {
	DisplayType     string
	HTMLFieldPrefix string
}

// BuildEditorContext is the caller-supplied state for an editor build.
type BuildEditorContext struct {
	DisplayType     string
	HTMLFieldPrefix string
}

// UpdateEditorContext is the caller-supplied state for an editor update.
// Item is the aggregate the updated part is applied back onto.
type UpdateEditorContext struct {
	DisplayType     string
	HTMLFieldPrefix string
	Updater         Updater
	Item            *content.ContentItem
}

// BuildPartDisplayContext is the per-part display state handed to hooks.
type BuildPartDisplayContext struct {
	TypePart        *content.ContentTypePartDefinition
	DisplayType     string
	HTMLFieldPrefix string
}

// BuildPartEditorContext is the per-part editor state handed to hooks.
type BuildPartEditorContext struct {
	TypePart        *content.ContentTypePartDefinition
	DisplayType     string
	HTMLFieldPrefix string
}

// UpdatePartEditorContext is the per-part update state handed to hooks.
type UpdatePartEditorContext struct {
	TypePart        *content.ContentTypePartDefinition
	DisplayType     string
	HTMLFieldPrefix string
	Updater         Updater
}
