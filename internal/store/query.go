package store

import (
	"fmt"
	"strings"
)

// LookupResult carries a page of matching sentences plus the total
// matching count (not just the current page), for the X-Total-Count
// header of §4.8.
type LookupResult struct {
	Sentences []SentenceRecord
	Total     int
}

// LookupPhrase implements the phrase branch of §4.8: case-insensitive
// substring match against sentence text in the requested language,
// ordered by ascending text length, paginated by limit/offset.
func (s *Store) LookupPhrase(phrase string, languageID int64, limit, offset int) (*LookupResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + escapeLikePattern(phrase) + "%"

	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM sentence
		WHERE language_id = ? AND text LIKE ? ESCAPE '\' COLLATE NOCASE
	`, languageID, pattern).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("store: count phrase matches: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT sentence.id, sentence.uuid, sentence.text, score.value
		FROM sentence JOIN score ON score.id = sentence.score_id
		WHERE sentence.language_id = ? AND sentence.text LIKE ? ESCAPE '\' COLLATE NOCASE
		ORDER BY LENGTH(sentence.text) ASC
		LIMIT ? OFFSET ?
	`, languageID, pattern, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("store: query phrase matches: %w", err)
	}
	defer rows.Close()

	sentences, err := scanSentences(rows)
	if err != nil {
		return nil, err
	}
	return &LookupResult{Sentences: sentences, Total: total}, nil
}

// LookupSimple implements the simple branch of §4.8: locate the raw
// token by natural key, then return its linked sentences ordered by
// ascending text length, paginated.
func (s *Store) LookupSimple(rawTokenID int64, limit, offset int) (*LookupResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM raw_token_sentence WHERE raw_token_id = ?
	`, rawTokenID).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("store: count simple matches: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT sentence.id, sentence.uuid, sentence.text, score.value
		FROM sentence
		JOIN score ON score.id = sentence.score_id
		JOIN raw_token_sentence ON raw_token_sentence.sentence_id = sentence.id
		WHERE raw_token_sentence.raw_token_id = ?
		ORDER BY LENGTH(sentence.text) ASC
		LIMIT ? OFFSET ?
	`, rawTokenID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("store: query simple matches: %w", err)
	}
	defer rows.Close()

	sentences, err := scanSentences(rows)
	if err != nil {
		return nil, err
	}
	return &LookupResult{Sentences: sentences, Total: total}, nil
}

// escapeLikePattern escapes the LIKE metacharacters (\, %, _) in a
// caller-supplied phrase so it is matched literally once wrapped in the
// "%...%" substring pattern. Must run before wrapping: escaping the
// backslash first keeps a literal backslash from masking an escaped
// percent or underscore.
func escapeLikePattern(phrase string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(phrase)
}

func scanSentences(rows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
}) ([]SentenceRecord, error) {
	var out []SentenceRecord
	for rows.Next() {
		var rec SentenceRecord
		if err := rows.Scan(&rec.ID, &rec.UUID, &rec.Text, &rec.Score); err != nil {
			return nil, fmt.Errorf("store: scan sentence row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate sentence rows: %w", err)
	}
	return out, nil
}
