package store

import "fmt"

// UpsertDocument ensures a Document row exists for (datasetID, externalID)
// and returns its id and whether it is already marked processed.
func (s *Store) UpsertDocument(datasetID int64, externalID string) (id int64, processed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT INTO document (external_id, dataset_id) VALUES (?, ?)
		ON CONFLICT(dataset_id, external_id) DO NOTHING
	`, externalID, datasetID)
	if err != nil {
		return 0, false, fmt.Errorf("store: upsert document %q: %w", externalID, err)
	}
	err = s.db.QueryRow(`
		SELECT id, processed FROM document WHERE dataset_id = ? AND external_id = ?
	`, datasetID, externalID).Scan(&id, &processed)
	if err != nil {
		return 0, false, fmt.Errorf("store: read back document %q: %w", externalID, err)
	}
	return id, processed, nil
}

// MarkDocumentProcessed flips a document's processed flag to true. This is
// the only mutation the store ever performs on an existing row (§3).
func (s *Store) MarkDocumentProcessed(documentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`UPDATE document SET processed = 1 WHERE id = ?`, documentID); err != nil {
		return fmt.Errorf("store: mark document %d processed: %w", documentID, err)
	}
	return nil
}
