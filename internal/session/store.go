package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed Session implementation. One Store owns one
// database handle; sessions opened from it share the handle but stage work
// independently.
type Store struct {
	db     *sql.DB
	dbPath string

	mu     sync.Mutex
	nextID map[string]int64
}

// NewStore opens (or creates) the document database at path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:     db,
		dbPath: path,
		nextID: make(map[string]int64),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id INTEGER NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	);

	CREATE TABLE IF NOT EXISTS document_indexes (
		collection TEXT NOT NULL,
		doc_id INTEGER NOT NULL,
		idx TEXT NOT NULL,
		k1 TEXT NOT NULL DEFAULT '',
		k2 TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_document_indexes_lookup
		ON document_indexes(collection, idx, k1, k2);
	CREATE INDEX IF NOT EXISTS idx_document_indexes_doc
		ON document_indexes(collection, doc_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// allocateID hands out the next identifier for a collection. The counter is
// seeded lazily from the committed maximum.
func (s *Store) allocateID(collection string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seeded := s.nextID[collection]; !seeded {
		var max sql.NullInt64
		row := s.db.QueryRow(`SELECT MAX(id) FROM documents WHERE collection = ?`, collection)
		if err := row.Scan(&max); err != nil {
			return 0, err
		}
		s.nextID[collection] = max.Int64
	}

	s.nextID[collection]++
	return s.nextID[collection], nil
}

// OpenSession starts an independent unit of work against the store.
func (s *Store) OpenSession() *DocumentSession {
	return &DocumentSession{store: s}
}

// stagedDoc is one pending save or delete.
type stagedDoc struct {
	doc    Document
	delete bool
}

// DocumentSession stages saves and deletes and flushes them on Commit. It is
// meant for a single logical flow; it is not safe for concurrent use.
type DocumentSession struct {
	store   *Store
	staged  []stagedDoc
	saveErr error
	mu      sync.Mutex
}

var _ Session = (*DocumentSession)(nil)

// Save stages the document for persistence, assigning an identifier if the
// document has none yet. Identifier allocation failures are recorded and
// surface on Commit.
func (s *DocumentSession) Save(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.DocumentID() == 0 {
		id, err := s.store.allocateID(doc.Collection())
		if err != nil {
			if s.saveErr == nil {
				s.saveErr = fmt.Errorf("failed to allocate identifier in collection %s: %w",
					doc.Collection(), err)
			}
			return
		}
		doc.SetDocumentID(id)
	}

	s.staged = append(s.staged, stagedDoc{doc: doc})
}

// Delete stages removal of the document and its index rows.
func (s *DocumentSession) Delete(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged = append(s.staged, stagedDoc{doc: doc, delete: true})
}

// Commit flushes all staged work in one transaction. Last writer wins: no
// optimistic concurrency check is performed against concurrent sessions.
func (s *DocumentSession) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}

	if len(s.staged) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin commit: %w", err)
	}

	for _, entry := range s.staged {
		doc := entry.doc
		if doc.DocumentID() == 0 {
			tx.Rollback()
			return fmt.Errorf("document in collection %s has no identifier", doc.Collection())
		}

		if entry.delete {
			if err := deleteDoc(ctx, tx, doc); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to delete document: %w", err)
			}
			continue
		}

		if err := saveDoc(ctx, tx, doc); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	s.staged = nil
	return nil
}

func saveDoc(ctx context.Context, tx *sql.Tx, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data`,
		doc.Collection(), doc.DocumentID(), string(data))
	if err != nil {
		return err
	}

	return rebuildIndexes(ctx, tx, doc)
}

func deleteDoc(ctx context.Context, tx *sql.Tx, doc Document) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		doc.Collection(), doc.DocumentID()); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx,
		`DELETE FROM document_indexes WHERE collection = ? AND doc_id = ?`,
		doc.Collection(), doc.DocumentID())
	return err
}

// rebuildIndexes replaces the document's index rows with ones freshly
// derived from its current state.
func rebuildIndexes(ctx context.Context, tx *sql.Tx, doc Document) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM document_indexes WHERE collection = ? AND doc_id = ?`,
		doc.Collection(), doc.DocumentID()); err != nil {
		return err
	}

	indexed, ok := doc.(Indexed)
	if !ok {
		return nil
	}

	for _, entry := range indexed.IndexEntries() {
		k1, k2 := "", ""
		if len(entry.Values) > 0 {
			k1 = entry.Values[0]
		}
		if len(entry.Values) > 1 {
			k2 = entry.Values[1]
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO document_indexes (collection, doc_id, idx, k1, k2) VALUES (?, ?, ?, ?, ?)`,
			doc.Collection(), doc.DocumentID(), entry.Index, k1, k2); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the committed JSON document, or nil when absent.
func (s *DocumentSession) Get(ctx context.Context, collection string, id int64) ([]byte, error) {
	var data string
	row := s.store.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	return []byte(data), nil
}

// All returns every committed JSON document in the collection, in
// document-id order.
func (s *DocumentSession) All(ctx context.Context, collection string) ([][]byte, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT data FROM documents WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", collection, err)
	}
	defer rows.Close()

	var results [][]byte
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		results = append(results, []byte(data))
	}

	return results, rows.Err()
}

// QueryIndex returns the committed JSON documents whose index rows exactly
// match the given key values, in document-id order.
func (s *DocumentSession) QueryIndex(ctx context.Context, collection, index string, values ...string) ([][]byte, error) {
	k1, k2 := "", ""
	if len(values) > 0 {
		k1 = values[0]
	}
	if len(values) > 1 {
		k2 = values[1]
	}

	rows, err := s.store.db.QueryContext(ctx,
		`SELECT d.data
		 FROM document_indexes i
		 JOIN documents d ON d.collection = i.collection AND d.id = i.doc_id
		 WHERE i.collection = ? AND i.idx = ? AND i.k1 = ? AND i.k2 = ?
		 ORDER BY d.id`,
		collection, index, k1, k2)
	if err != nil {
		return nil, fmt.Errorf("failed to query index %s: %w", index, err)
	}
	defer rows.Close()

	var results [][]byte
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		results = append(results, []byte(data))
	}

	return results, rows.Err()
}

// FirstByIndex returns the first match of QueryIndex, or nil when there is
// none.
func (s *DocumentSession) FirstByIndex(ctx context.Context, collection, index string, values ...string) ([]byte, error) {
	results, err := s.QueryIndex(ctx, collection, index, values...)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}
