// Package store provides SQLite-backed persistence for the sentence corpus.
// Uses ncruces/go-sqlite3's pure-Go driver, so the binary stays cgo-free.
package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
)

// Store is the SQLite-backed relational store for the corpus of §3.
// All tables use surrogate integer primary keys plus a natural-key
// uniqueness constraint, so inserts are idempotent under retry.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS language (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	iso_code TEXT NOT NULL UNIQUE,
	qid INTEGER NOT NULL UNIQUE
);
CREATE INDEX IF NOT EXISTS idx_language_iso_code ON language(iso_code);

CREATE TABLE IF NOT EXISTS lexical_category (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	pos_tag TEXT NOT NULL UNIQUE,
	qid INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_lexical_category_pos_tag ON lexical_category(pos_tag);

CREATE TABLE IF NOT EXISTS entity_type_label (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	label TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dataset (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	workdirectory TEXT NOT NULL,
	qid INTEGER NOT NULL UNIQUE,
	collection INTEGER
);

CREATE TABLE IF NOT EXISTS document (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id TEXT NOT NULL,
	dataset_id INTEGER NOT NULL REFERENCES dataset(id),
	processed INTEGER NOT NULL DEFAULT 0,
	UNIQUE (dataset_id, external_id)
);

CREATE TABLE IF NOT EXISTS score (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	value REAL NOT NULL UNIQUE
);
CREATE INDEX IF NOT EXISTS idx_score_value ON score(value);

CREATE TABLE IF NOT EXISTS sentence (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL,
	uuid TEXT NOT NULL UNIQUE,
	document_id INTEGER NOT NULL REFERENCES document(id),
	language_id INTEGER NOT NULL REFERENCES language(id),
	score_id INTEGER NOT NULL REFERENCES score(id),
	UNIQUE (text, document_id, language_id)
);
CREATE INDEX IF NOT EXISTS idx_sentence_uuid ON sentence(uuid);
CREATE INDEX IF NOT EXISTS idx_sentence_document ON sentence(document_id);

CREATE TABLE IF NOT EXISTS raw_token (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL,
	lexical_category_id INTEGER NOT NULL REFERENCES lexical_category(id),
	language_id INTEGER NOT NULL REFERENCES language(id),
	score_id INTEGER NOT NULL REFERENCES score(id),
	UNIQUE (text, lexical_category_id, language_id)
);
CREATE INDEX IF NOT EXISTS idx_raw_token_text ON raw_token(text);

CREATE TABLE IF NOT EXISTS norm_token (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL UNIQUE
);
CREATE INDEX IF NOT EXISTS idx_norm_token_text ON norm_token(text);

CREATE TABLE IF NOT EXISTS entity (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	label TEXT NOT NULL,
	entity_type_label_id INTEGER NOT NULL REFERENCES entity_type_label(id),
	UNIQUE (label, entity_type_label_id)
);

CREATE TABLE IF NOT EXISTS raw_token_sentence (
	raw_token_id INTEGER NOT NULL REFERENCES raw_token(id),
	sentence_id INTEGER NOT NULL REFERENCES sentence(id),
	PRIMARY KEY (raw_token_id, sentence_id)
);

CREATE TABLE IF NOT EXISTS raw_token_norm_token (
	raw_token_id INTEGER NOT NULL REFERENCES raw_token(id),
	norm_token_id INTEGER NOT NULL REFERENCES norm_token(id),
	PRIMARY KEY (raw_token_id, norm_token_id)
);

CREATE TABLE IF NOT EXISTS sentence_entity (
	sentence_id INTEGER NOT NULL REFERENCES sentence(id),
	entity_id INTEGER NOT NULL REFERENCES entity(id),
	PRIMARY KEY (sentence_id, entity_id)
);
`

// Open creates (or reopens) a store at dsn. Use ":memory:" for a
// process-local store, or a file path for persistent storage.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", dsn, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// QID parses a reference QID string like "Q123501430" into its
// numeric suffix, stripping the leading letter prefix per §4.1.
func QID(s string) (uint32, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("store: malformed qid %q", s)
	}
	n, err := strconv.ParseUint(s[1:], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("store: malformed qid %q: %w", s, err)
	}
	return uint32(n), nil
}
