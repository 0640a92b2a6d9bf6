package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// UpsertRawToken ensures a RawToken row exists for the natural key
// (text, lexicalCategoryID, languageID) and returns its id. The score is
// only used on first insert — §9's open question on score inheritance: a
// raw token observed under multiple confidences keeps whichever score
// first caused its insertion.
func (s *Store) UpsertRawToken(text string, lexicalCategoryID, languageID, scoreID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO raw_token (text, lexical_category_id, language_id, score_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(text, lexical_category_id, language_id) DO NOTHING
	`, text, lexicalCategoryID, languageID, scoreID)
	if err != nil {
		return 0, fmt.Errorf("store: upsert raw token %q: %w", text, err)
	}
	var id int64
	err = s.db.QueryRow(`
		SELECT id FROM raw_token WHERE text = ? AND lexical_category_id = ? AND language_id = ?
	`, text, lexicalCategoryID, languageID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: read back raw token %q: %w", text, err)
	}
	return id, nil
}

// UpsertNormToken ensures a NormToken row exists for the lower-cased,
// whitespace-trimmed text and returns its id.
func (s *Store) UpsertNormToken(text string) (int64, error) {
	text = strings.TrimSpace(strings.ToLower(text))

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO norm_token (text) VALUES (?) ON CONFLICT(text) DO NOTHING
	`, text)
	if err != nil {
		return 0, fmt.Errorf("store: upsert norm token %q: %w", text, err)
	}
	var id int64
	if err := s.db.QueryRow(`SELECT id FROM norm_token WHERE text = ?`, text).Scan(&id); err != nil {
		return 0, fmt.Errorf("store: read back norm token %q: %w", text, err)
	}
	return id, nil
}

// LinkRawTokenNormToken ensures a RawToken↔NormToken link exists. A raw
// token maps to exactly one norm token; the norm token may map back to
// many raw tokens (§3).
func (s *Store) LinkRawTokenNormToken(rawTokenID, normTokenID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO raw_token_norm_token (raw_token_id, norm_token_id) VALUES (?, ?)
		ON CONFLICT(raw_token_id, norm_token_id) DO NOTHING
	`, rawTokenID, normTokenID)
	if err != nil {
		return fmt.Errorf("store: link raw token %d to norm token %d: %w", rawTokenID, normTokenID, err)
	}
	return nil
}

// LinkRawTokenSentence ensures a RawToken↔Sentence link exists. Only
// tokens marked accepted by the token analyser are linked (§4.3).
func (s *Store) LinkRawTokenSentence(rawTokenID, sentenceID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO raw_token_sentence (raw_token_id, sentence_id) VALUES (?, ?)
		ON CONFLICT(raw_token_id, sentence_id) DO NOTHING
	`, rawTokenID, sentenceID)
	if err != nil {
		return fmt.Errorf("store: link raw token %d to sentence %d: %w", rawTokenID, sentenceID, err)
	}
	return nil
}

// RawTokenID looks up a raw token by its natural key, used by the query
// service's simple lookup branch (§4.8).
func (s *Store) RawTokenID(text string, lexicalCategoryID, languageID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id int64
	err := s.db.QueryRow(`
		SELECT id FROM raw_token WHERE text = ? AND lexical_category_id = ? AND language_id = ?
	`, text, lexicalCategoryID, languageID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: raw token %q", ErrNotFound, text)
	}
	if err != nil {
		return 0, fmt.Errorf("store: lookup raw token %q: %w", text, err)
	}
	return id, nil
}
