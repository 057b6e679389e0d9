package display

import (
	"context"
	"reflect"

	"github.com/conneroisu/thema/internal/content"
)

// PartDisplayDriver provides shapes for any content item carrying a part of
// type TPart. Concrete drivers set the hook fields they need; unset hooks
// default to "nothing to render". For each operation only the most specific
// set hook runs: the context-aware form wins over the build-context form,
// which wins over the bare form.
//
// A driver instance carries the current field prefix as mutable state shared
// across nested Build/Update calls, so it is meant for a single logical flow
// at a time, not for concurrent use.
type PartDisplayDriver[TPart any] struct {
	// Display hooks, least to most specific.
	Display    func(part *TPart) (*ShapeResult, error)
	DisplayFor func(part *TPart, bctx *BuildPartDisplayContext) (*ShapeResult, error)
	DisplayCtx func(ctx context.Context, part *TPart, bctx *BuildPartDisplayContext) (*ShapeResult, error)

	// Edit hooks.
	Edit    func(part *TPart) (*ShapeResult, error)
	EditFor func(part *TPart, bctx *BuildPartEditorContext) (*ShapeResult, error)
	EditCtx func(ctx context.Context, part *TPart, bctx *BuildPartEditorContext) (*ShapeResult, error)

	// Update hooks.
	Update    func(part *TPart, updater Updater) (*ShapeResult, error)
	UpdateFor func(part *TPart, bctx *UpdatePartEditorContext) (*ShapeResult, error)
	UpdateCtx func(ctx context.Context, part *TPart, bctx *UpdatePartEditorContext) (*ShapeResult, error)

	prefix   string
	typePart *content.ContentTypePartDefinition
}

// Prefix returns the current field prefix scope.
func (d *PartDisplayDriver[TPart]) Prefix() string {
	return d.prefix
}

// PartTypeName returns the name of TPart, the part type this driver renders.
func (d *PartDisplayDriver[TPart]) PartTypeName() string {
	return reflect.TypeOf((*TPart)(nil)).Elem().Name()
}

// EditorShapeType returns the editor shape family this driver renders for
// the given part attachment, e.g. "HtmlBodyPart_Edit" or
// "HtmlBodyPart_Edit__Wysiwyg" when the attachment declares a custom editor.
func (d *PartDisplayDriver[TPart]) EditorShapeType(typePart *content.ContentTypePartDefinition) string {
	return EditorShapeType(d.PartTypeName()+"_Edit", typePart)
}

// Shape builds a shape result for shapeType within the current dispatch
// scope: it resolves the differentiator and alternates from the bound part
// attachment and stamps the current prefix. Outside a dispatch call (no
// bound attachment) the shape carries no alternates, the out-of-type-context
// stereotype fallback.
func (d *PartDisplayDriver[TPart]) Shape(shapeType, displayType string) *ShapeResult {
	metadata := NewShapeMetadata(shapeType, displayType)

	differentiator, alternates := Resolve(d.typePart, shapeType, displayType, d.EditorShapeType(d.typePart))
	metadata.Differentiator = differentiator
	metadata.Alternates.Add(alternates...)

	return &ShapeResult{
		ShapeType: shapeType,
		Prefix:    d.prefix,
		Metadata:  metadata,
	}
}

// BuildDisplay routes a display request for part to this driver's display
// hooks. A part that is not a *TPart yields (nil, nil): the driver is not
// applicable, which is not an error.
func (d *PartDisplayDriver[TPart]) BuildDisplay(ctx context.Context, part interface{}, typePart *content.ContentTypePartDefinition, bctx *BuildDisplayContext) (result *ShapeResult, err error) {
	typed, ok := part.(*TPart)
	if !ok {
		return nil, nil
	}

	defer d.bind(typePart, bctx.HTMLFieldPrefix)()

	partCtx := &BuildPartDisplayContext{
		TypePart:        typePart,
		DisplayType:     bctx.DisplayType,
		HTMLFieldPrefix: bctx.HTMLFieldPrefix,
	}

	switch {
	case d.DisplayCtx != nil:
		return d.DisplayCtx(ctx, typed, partCtx)
	case d.DisplayFor != nil:
		return d.DisplayFor(typed, partCtx)
	case d.Display != nil:
		return d.Display(typed)
	}

	return nil, nil
}

// BuildEditor routes an editor build request for part to this driver's edit
// hooks, with the same applicability and scoping rules as BuildDisplay.
func (d *PartDisplayDriver[TPart]) BuildEditor(ctx context.Context, part interface{}, typePart *content.ContentTypePartDefinition, bctx *BuildEditorContext) (result *ShapeResult, err error) {
	typed, ok := part.(*TPart)
	if !ok {
		return nil, nil
	}

	defer d.bind(typePart, bctx.HTMLFieldPrefix)()

	partCtx := &BuildPartEditorContext{
		TypePart:        typePart,
		DisplayType:     bctx.DisplayType,
		HTMLFieldPrefix: bctx.HTMLFieldPrefix,
	}

	switch {
	case d.EditCtx != nil:
		return d.EditCtx(ctx, typed, partCtx)
	case d.EditFor != nil:
		return d.EditFor(typed, partCtx)
	case d.Edit != nil:
		return d.Edit(typed)
	}

	return nil, nil
}

// UpdateEditor routes an editor update for part to this driver's update
// hooks and, when the hook succeeds, applies the mutated part back onto the
// owning content item under the attachment name.
func (d *PartDisplayDriver[TPart]) UpdateEditor(ctx context.Context, part interface{}, typePart *content.ContentTypePartDefinition, bctx *UpdateEditorContext) (result *ShapeResult, err error) {
	typed, ok := part.(*TPart)
	if !ok {
		return nil, nil
	}

	defer d.bind(typePart, bctx.HTMLFieldPrefix)()

	partCtx := &UpdatePartEditorContext{
		TypePart:        typePart,
		DisplayType:     bctx.DisplayType,
		HTMLFieldPrefix: bctx.HTMLFieldPrefix,
		Updater:         bctx.Updater,
	}

	switch {
	case d.UpdateCtx != nil:
		result, err = d.UpdateCtx(ctx, typed, partCtx)
	case d.UpdateFor != nil:
		result, err = d.UpdateFor(typed, partCtx)
	case d.Update != nil:
		result, err = d.Update(typed, bctx.Updater)
	}

	if err != nil {
		return nil, err
	}

	if bctx.Item != nil && typePart != nil {
		bctx.Item.Apply(typePart.Name, typed)
	}

	return result, nil
}

// bind installs the prefix and part attachment for the duration of one
// dispatch call and returns the function that restores the previous scope.
// The restore runs via defer so nested calls cannot leak a stale prefix,
// even when a hook returns an error or panics.
func (d *PartDisplayDriver[TPart]) bind(typePart *content.ContentTypePartDefinition, htmlFieldPrefix string) func() {
	previousPrefix := d.prefix
	previousTypePart := d.typePart

	name := ""
	if typePart != nil {
		name = typePart.Name
	}

	d.prefix = name
	if htmlFieldPrefix != "" {
		d.prefix = htmlFieldPrefix + "." + d.prefix
	}
	d.typePart = typePart

	return func() {
		d.prefix = previousPrefix
		d.typePart = previousTypePart
	}
}
