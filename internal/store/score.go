package store

import "fmt"

// InternScore ensures a Score row exists for value (already rounded to
// two decimals by the caller) and returns its id. Scores are a small
// interned table, §3.
func (s *Store) InternScore(value float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO score (value) VALUES (?) ON CONFLICT(value) DO NOTHING
	`, value)
	if err != nil {
		return 0, fmt.Errorf("store: intern score %v: %w", value, err)
	}
	var id int64
	if err := s.db.QueryRow(`SELECT id FROM score WHERE value = ?`, value).Scan(&id); err != nil {
		return 0, fmt.Errorf("store: read back score %v: %w", value, err)
	}
	return id, nil
}
