package content

import "sync"

// ContentItem is a minimal content aggregate: a content type name plus the
// named part instances attached to it. The display layer writes an updated
// part back onto its item after a successful editor update.
type ContentItem struct {
	ContentType string

	mu    sync.RWMutex
	parts map[string]interface{}
}

// NewContentItem creates an empty item of the given content type.
func NewContentItem(contentType string) *ContentItem {
	return &ContentItem{
		ContentType: contentType,
		parts:       make(map[string]interface{}),
	}
}

// Apply sets the named part instance on the item, replacing any previous
// value under that name.
func (i *ContentItem) Apply(name string, part interface{}) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.parts[name] = part
}

// Part returns the named part instance, or nil when absent.
func (i *ContentItem) Part(name string) interface{} {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.parts[name]
}

// PartNames returns the names of all attached parts.
func (i *ContentItem) PartNames() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	names := make([]string, 0, len(i.parts))
	for name := range i.parts {
		names = append(names, name)
	}
	return names
}
