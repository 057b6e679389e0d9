// Package session provides a transactional document session over SQLite.
//
// Documents are JSON aggregates keyed by (collection, id). Saves and deletes
// are staged in memory and flushed atomically by Commit, the session's only
// I/O suspension point. Secondary index rows are derived from each staged
// document at commit time, so indexes only ever reflect committed state.
package session

import "context"

// Document is an aggregate the session can persist. Identifiers are assigned
// on first Save.
type Document interface {
	DocumentID() int64
	SetDocumentID(id int64)
	Collection() string
}

// IndexEntry is one secondary index row derived from a document, an ordered
// tuple of key values under a named index.
type IndexEntry struct {
	Index  string
	Values []string
}

// Indexed documents contribute secondary index rows, rebuilt from scratch on
// every commit of the document.
type Indexed interface {
	IndexEntries() []IndexEntry
}

// Session is the document store contract consumed by adapters. Save and
// Delete stage work synchronously; Get and the index queries read committed
// state only.
type Session interface {
	// Save stages the document for persistence, assigning an identifier if
	// the document has none yet.
	Save(doc Document)

	// Delete stages removal of the document and its index rows.
	Delete(doc Document)

	// Commit flushes all staged work in one transaction. On failure the
	// staged work is kept so a caller may retry or discard the session.
	Commit(ctx context.Context) error

	// Get returns the committed JSON document, or nil when absent.
	Get(ctx context.Context, collection string, id int64) ([]byte, error)

	// All returns every committed JSON document in the collection, in
	// document-id order.
	All(ctx context.Context, collection string) ([][]byte, error)

	// QueryIndex returns the committed JSON documents whose index rows
	// exactly match the given key values, in document-id order.
	QueryIndex(ctx context.Context, collection, index string, values ...string) ([][]byte, error)

	// FirstByIndex returns the first match of QueryIndex, or nil when there
	// is none.
	FirstByIndex(ctx context.Context, collection, index string, values ...string) ([]byte, error)
}
