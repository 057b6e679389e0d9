// Package display implements shape alternate resolution and the content part
// display driver dispatch around it.
//
// Alternates are template-name candidates for one shape. The resolver emits
// them most-general-first; this package's consumers iterate the collection
// last-to-first so the most specific registered name wins. That consumption
// order is the contract for anything that turns alternates into templates.
package display

// AlternateCollection is an ordered, set-deduplicated list of alternate
// template names. Adding a name twice keeps only the first occurrence, so
// registration order of first occurrences is preserved.
type AlternateCollection struct {
	names []string
	seen  map[string]struct{}
}

// NewAlternateCollection creates an empty collection.
func NewAlternateCollection() *AlternateCollection {
	return &AlternateCollection{
		seen: make(map[string]struct{}),
	}
}

// Add registers names in order, skipping duplicates.
func (c *AlternateCollection) Add(names ...string) {
	for _, name := range names {
		if _, exists := c.seen[name]; exists {
			continue
		}
		c.seen[name] = struct{}{}
		c.names = append(c.names, name)
	}
}

// Contains reports whether name has been registered.
func (c *AlternateCollection) Contains(name string) bool {
	_, exists := c.seen[name]
	return exists
}

// Len returns the number of distinct registered names.
func (c *AlternateCollection) Len() int {
	return len(c.names)
}

// Names returns the alternates in registration order, most general first.
// The slice is a copy; mutating it does not affect the collection.
func (c *AlternateCollection) Names() []string {
	result := make([]string, len(c.names))
	copy(result, c.names)
	return result
}

// MostSpecificFirst returns the alternates in reverse registration order,
// the order a template resolver should try them in.
func (c *AlternateCollection) MostSpecificFirst() []string {
	result := make([]string, len(c.names))
	for i, name := range c.names {
		result[len(c.names)-1-i] = name
	}
	return result
}

// ShapeMetadata is the per-shape output of a build: the shape's identity plus
// the resolved differentiator and alternates consumed by the template
// resolver.
type ShapeMetadata struct {
	ShapeType      string
	DisplayType    string
	Differentiator string
	Alternates     *AlternateCollection
}

// NewShapeMetadata creates metadata for one shape build.
func NewShapeMetadata(shapeType, displayType string) *ShapeMetadata {
	return &ShapeMetadata{
		ShapeType:   shapeType,
		DisplayType: displayType,
		Alternates:  NewAlternateCollection(),
	}
}

// ShapeResult is what a display/editor hook returns: one shape plus the
// prefix scope it was built under. A nil ShapeResult means the hook has
// nothing to render.
type ShapeResult struct {
	ShapeType string
	Prefix    string
	Metadata  *ShapeMetadata
}
