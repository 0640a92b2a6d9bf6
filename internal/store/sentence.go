package store

import (
	"database/sql"
	"fmt"
)

// SentenceRecord is a plain value record for a committed sentence,
// keyed by its surrogate id per §9 ("the in-memory entities should be
// plain value records keyed by that id").
type SentenceRecord struct {
	ID    int64
	UUID  string
	Text  string
	Score float64
}

// FindSentence looks up a sentence by its natural key (text, document,
// language). Returns ErrNotFound if no such sentence was committed yet —
// callers use this for the idempotent-skip check of §4.4.
func (s *Store) FindSentence(text string, documentID, languageID int64) (*SentenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec SentenceRecord
	var scoreVal float64
	err := s.db.QueryRow(`
		SELECT sentence.id, sentence.uuid, sentence.text, score.value
		FROM sentence JOIN score ON score.id = sentence.score_id
		WHERE sentence.text = ? AND sentence.document_id = ? AND sentence.language_id = ?
	`, text, documentID, languageID).Scan(&rec.ID, &rec.UUID, &rec.Text, &scoreVal)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: find sentence: %w", err)
	}
	rec.Score = scoreVal
	return &rec, nil
}

// InsertSentence inserts a new Sentence row with a caller-generated uuid
// and returns its surrogate id. Callers must have already confirmed via
// FindSentence that the natural key is new (§4.4 commit order step 3).
func (s *Store) InsertSentence(text, uuid string, documentID, languageID, scoreID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO sentence (text, uuid, document_id, language_id, score_id)
		VALUES (?, ?, ?, ?, ?)
	`, text, uuid, documentID, languageID, scoreID)
	if err != nil {
		return 0, fmt.Errorf("store: insert sentence: %w", err)
	}
	return res.LastInsertId()
}
