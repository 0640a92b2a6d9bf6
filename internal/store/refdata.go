package store

import "fmt"

// UpsertLanguage ensures a Language row exists for the given natural key
// and returns its id. A duplicate insert is a no-op that returns the
// existing id, per §4.1.
func (s *Store) UpsertLanguage(name, isoCode string, qid uint32) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO language (name, iso_code, qid) VALUES (?, ?, ?)
		ON CONFLICT(iso_code) DO NOTHING
	`, name, isoCode, qid)
	if err != nil {
		return 0, fmt.Errorf("store: upsert language %q: %w", isoCode, err)
	}
	var id int64
	if err := s.db.QueryRow(`SELECT id FROM language WHERE iso_code = ?`, isoCode).Scan(&id); err != nil {
		return 0, fmt.Errorf("store: read back language %q: %w", isoCode, err)
	}
	return id, nil
}

// LanguageIDByISOCode looks up a language's surrogate id by its ISO code.
// Returns ErrNotFound if no such language was loaded.
func (s *Store) LanguageIDByISOCode(isoCode string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id int64
	err := s.db.QueryRow(`SELECT id FROM language WHERE iso_code = ?`, isoCode).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: language %q", ErrNotFound, isoCode)
	}
	return id, nil
}

// UpsertLexicalCategory ensures a LexicalCategory row exists for the POS
// tag (the natural key used by the token analyser) and returns its id.
func (s *Store) UpsertLexicalCategory(posTag string, qid uint32) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO lexical_category (pos_tag, qid) VALUES (?, ?)
		ON CONFLICT(pos_tag) DO NOTHING
	`, posTag, qid)
	if err != nil {
		return 0, fmt.Errorf("store: upsert lexical category %q: %w", posTag, err)
	}
	var id int64
	if err := s.db.QueryRow(`SELECT id FROM lexical_category WHERE pos_tag = ?`, posTag).Scan(&id); err != nil {
		return 0, fmt.Errorf("store: read back lexical category %q: %w", posTag, err)
	}
	return id, nil
}

// LexicalCategoryIDByPOSTag looks up a lexical category by POS tag.
func (s *Store) LexicalCategoryIDByPOSTag(posTag string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id int64
	err := s.db.QueryRow(`SELECT id FROM lexical_category WHERE pos_tag = ?`, posTag).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: lexical category %q", ErrNotFound, posTag)
	}
	return id, nil
}

// LexicalCategoryIDByQID looks up a lexical category by its reference QID,
// used by the query service's lexical_category_qid field.
func (s *Store) LexicalCategoryIDByQID(qid uint32) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id int64
	err := s.db.QueryRow(`SELECT id FROM lexical_category WHERE qid = ?`, qid).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: lexical category qid %d", ErrNotFound, qid)
	}
	return id, nil
}

// UpsertEntityTypeLabel ensures an EntityTypeLabel row exists and returns
// its id. Labels are the tags produced by the NER collaborator.
func (s *Store) UpsertEntityTypeLabel(label, description string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO entity_type_label (label, description) VALUES (?, ?)
		ON CONFLICT(label) DO NOTHING
	`, label, description)
	if err != nil {
		return 0, fmt.Errorf("store: upsert entity type label %q: %w", label, err)
	}
	var id int64
	if err := s.db.QueryRow(`SELECT id FROM entity_type_label WHERE label = ?`, label).Scan(&id); err != nil {
		return 0, fmt.Errorf("store: read back entity type label %q: %w", label, err)
	}
	return id, nil
}

// EntityTypeLabelID looks up an entity-type label's id by its label text.
func (s *Store) EntityTypeLabelID(label string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id int64
	err := s.db.QueryRow(`SELECT id FROM entity_type_label WHERE label = ?`, label).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: entity type label %q", ErrNotFound, label)
	}
	return id, nil
}

// UpsertDataset ensures a Dataset row exists and returns its id.
// collection is nil when the datasets config omits it (§3: optional).
func (s *Store) UpsertDataset(title, workdirectory string, qid uint32, collection *uint32) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO dataset (title, workdirectory, qid, collection) VALUES (?, ?, ?, ?)
		ON CONFLICT(qid) DO NOTHING
	`, title, workdirectory, qid, nullableUint32(collection))
	if err != nil {
		return 0, fmt.Errorf("store: upsert dataset %q: %w", title, err)
	}
	var id int64
	if err := s.db.QueryRow(`SELECT id FROM dataset WHERE qid = ?`, qid).Scan(&id); err != nil {
		return 0, fmt.Errorf("store: read back dataset %q: %w", title, err)
	}
	return id, nil
}

func nullableUint32(v *uint32) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
