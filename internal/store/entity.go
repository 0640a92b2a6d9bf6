package store

import "fmt"

// UpsertEntity ensures an Entity row exists for (label, entityTypeLabelID)
// and returns its id, per §3's uniqueness invariant.
func (s *Store) UpsertEntity(label string, entityTypeLabelID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO entity (label, entity_type_label_id) VALUES (?, ?)
		ON CONFLICT(label, entity_type_label_id) DO NOTHING
	`, label, entityTypeLabelID)
	if err != nil {
		return 0, fmt.Errorf("store: upsert entity %q: %w", label, err)
	}
	var id int64
	err = s.db.QueryRow(`
		SELECT id FROM entity WHERE label = ? AND entity_type_label_id = ?
	`, label, entityTypeLabelID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: read back entity %q: %w", label, err)
	}
	return id, nil
}

// LinkSentenceEntity ensures a Sentence↔Entity link exists. Only entities
// whose original span lay entirely within the sentence span are linked.
func (s *Store) LinkSentenceEntity(sentenceID, entityID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO sentence_entity (sentence_id, entity_id) VALUES (?, ?)
		ON CONFLICT(sentence_id, entity_id) DO NOTHING
	`, sentenceID, entityID)
	if err != nil {
		return fmt.Errorf("store: link sentence %d to entity %d: %w", sentenceID, entityID, err)
	}
	return nil
}
