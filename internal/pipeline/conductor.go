package pipeline

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dpriskorn/riksdagen-sentences/internal/nlp"
)

// Conductor sequences the full per-document analysis pipeline: it runs
// the NER collaborator once over the whole document, then for every
// chunk runs the segmenter and drives the sentence analyser over each
// resulting sentence, in segmenter order (§5's ordering guarantee).
//
// A MissingReference error aborts only the sentence that produced it
// and is logged at warn; a TransientStore error aborts the whole
// document and is returned to the caller (§7).
type Conductor struct {
	segmenter nlp.Segmenter
	tagger    nlp.Tagger
	ner       nlp.NER
	langID    nlp.LanguageID
	sentences *SentenceAnalyser
	log       *zap.Logger
}

// NewConductor wires the external collaborators and the sentence
// analyser into a Conductor.
func NewConductor(segmenter nlp.Segmenter, tagger nlp.Tagger, ner nlp.NER, langID nlp.LanguageID, sentences *SentenceAnalyser, log *zap.Logger) *Conductor {
	return &Conductor{
		segmenter: segmenter,
		tagger:    tagger,
		ner:       ner,
		langID:    langID,
		sentences: sentences,
		log:       log,
	}
}

// AnalyzeDocument runs §4.4 over every sentence produced by segmenting
// chunks of documentText. chunks must reconstruct documentText verbatim
// when concatenated, each tagged with its starting byte offset within
// documentText, so entity spans from the full-document NER pass line
// up with sentence spans (§4.4's entity extraction).
func (c *Conductor) AnalyzeDocument(documentID int64, documentText string, chunks []Chunk) error {
	entities := c.ner.Recognize(documentText)

	for _, chunk := range chunks {
		spans := c.segmenter.Segment(chunk.Text)
		for _, span := range spans {
			absolute := nlp.Span{Start: chunk.Offset + span.Start, End: chunk.Offset + span.End}
			sentenceText := documentText[absolute.Start:absolute.End]

			err := c.sentences.Analyze(SentenceInput{
				Text:             sentenceText,
				Span:             absolute,
				DocumentID:       documentID,
				DocumentEntities: entities,
			})
			if err == nil {
				continue
			}
			if errors.Is(err, ErrMissingReference) {
				c.log.Warn("sentence skipped: missing reference", zap.Error(err))
				continue
			}
			return err // TransientStore or anything unexpected aborts the document
		}
	}
	return nil
}
