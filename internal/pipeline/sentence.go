package pipeline

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dpriskorn/riksdagen-sentences/internal/nlp"
	"github.com/dpriskorn/riksdagen-sentences/internal/refcache"
	"github.com/dpriskorn/riksdagen-sentences/internal/store"
)

// SentenceInput is one segmented sentence plus the document-scoped
// collaborator output the sentence analyser needs (§4.4).
type SentenceInput struct {
	Text            string
	Span            nlp.Span // this sentence's offsets into the document text
	DocumentID      int64
	DocumentEntities []nlp.Entity // full-document NER output
}

// AcceptanceConfig carries the configurable knobs of §4.4's acceptance
// gate: the accepted-language set and the confidence threshold.
type AcceptanceConfig struct {
	AcceptedLanguages  map[string]struct{}
	ScoreThreshold     float64
	SuitabilityMinimum int
}

// SentenceAnalyser consumes one segmented sentence, cleans it, runs
// language identification, applies the suitability and acceptance
// gates, drives the token analyser, extracts sentence-scoped named
// entities, and performs the final commit (§4.4).
type SentenceAnalyser struct {
	store    *store.Store
	cache    *refcache.Cache
	tokens   *TokenAnalyser
	tagger   nlp.Tagger
	langID   nlp.LanguageID
	cfg      AcceptanceConfig
}

// NewSentenceAnalyser constructs a SentenceAnalyser.
func NewSentenceAnalyser(s *store.Store, c *refcache.Cache, tagger nlp.Tagger, langID nlp.LanguageID, cfg AcceptanceConfig) *SentenceAnalyser {
	return &SentenceAnalyser{
		store:  s,
		cache:  c,
		tokens: NewTokenAnalyser(s, c),
		tagger: tagger,
		langID: langID,
		cfg:    cfg,
	}
}

// Analyze runs the full §4.4 commit order for one sentence. It returns
// nil both when the sentence is committed and when it is legitimately
// skipped (too short, unsuitable, wrong language, low confidence,
// already processed) — only MissingReference and TransientStore errors
// are returned, and the caller (the Conductor) decides how to
// react per §7's propagation policy.
func (a *SentenceAnalyser) Analyze(in SentenceInput) error {
	cleaned := CleanSentence(in.Text)
	wordCount := WordCount(cleaned)
	if cleaned == "" || wordCount < 2 {
		return nil
	}

	langCode, confidence := a.langID.Identify(cleaned)
	confidence = RoundScore(confidence)

	if langCode == "" {
		// Collaborator could not identify a language at all; nothing to
		// key tokens or the sentence against.
		return nil
	}

	languageID, known := a.cache.Language(langCode)
	if !known {
		id, err := a.store.LanguageIDByISOCode(langCode)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return MissingReference(fmt.Sprintf("sentence analyser: language %q", langCode), err)
			}
			return TransientStore("sentence analyser: language lookup", err)
		}
		languageID = id
		a.cache.PutLanguage(langCode, id)
	}

	scoreID, err := a.store.InternScore(confidence)
	if err != nil {
		return TransientStore("sentence analyser: intern score", err)
	}

	_, languageAccepted := a.cfg.AcceptedLanguages[langCode]

	tokens := a.tagger.Tag(in.Text)
	var acceptedRawTokenIDs []int64
	for _, tok := range tokens {
		rawID, ok, err := a.tokens.Analyze(tok, languageAccepted, languageID, scoreID)
		if err != nil {
			return err
		}
		if ok {
			acceptedRawTokenIDs = append(acceptedRawTokenIDs, rawID)
		}
	}

	suitable := IsSuitable(cleaned, a.cfg.SuitabilityMinimum)
	sentenceAccepted := suitable && languageAccepted && confidence >= a.cfg.ScoreThreshold
	if !sentenceAccepted {
		return nil
	}

	existing, err := a.store.FindSentence(in.Text, in.DocumentID, languageID)
	if err == nil && existing != nil {
		return nil // already committed; idempotent skip
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return TransientStore("sentence analyser: find sentence", err)
	}

	sentenceUUID := uuid.NewString()
	sentenceID, err := a.store.InsertSentence(in.Text, sentenceUUID, in.DocumentID, languageID, scoreID)
	if err != nil {
		return TransientStore("sentence analyser: insert sentence", err)
	}

	for _, rawID := range acceptedRawTokenIDs {
		if err := a.store.LinkRawTokenSentence(rawID, sentenceID); err != nil {
			return TransientStore("sentence analyser: link raw token to sentence", err)
		}
	}

	if err := a.commitEntities(sentenceID, in); err != nil {
		return err
	}

	return nil
}

// commitEntities selects every named entity whose span lies entirely
// within the sentence's span, deduplicates on (surface, entity-type
// label), and upserts each into Entity plus a Sentence↔Entity link
// (§4.4).
func (a *SentenceAnalyser) commitEntities(sentenceID int64, in SentenceInput) error {
	type key struct {
		label string
		typ   string
	}
	seen := make(map[key]bool)

	for _, ent := range in.DocumentEntities {
		if ent.Span.Start < in.Span.Start || ent.Span.End > in.Span.End {
			continue // span not fully contained in the sentence's span
		}
		k := key{label: ent.Label, typ: ent.Type}
		if seen[k] {
			continue
		}
		seen[k] = true

		typeLabelID, known := a.cache.EntityTypeLabel(ent.Type)
		if !known {
			id, err := a.store.EntityTypeLabelID(ent.Type)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return MissingReference(fmt.Sprintf("sentence analyser: entity type %q", ent.Type), err)
				}
				return TransientStore("sentence analyser: entity type lookup", err)
			}
			typeLabelID = id
			a.cache.PutEntityTypeLabel(ent.Type, id)
		}

		entityID, err := a.store.UpsertEntity(ent.Label, typeLabelID)
		if err != nil {
			return TransientStore("sentence analyser: upsert entity", err)
		}
		if err := a.store.LinkSentenceEntity(sentenceID, entityID); err != nil {
			return TransientStore("sentence analyser: link sentence to entity", err)
		}
	}
	return nil
}
