// Package refdictner is a reference implementation of the nlp.NER
// capability: a fixed gazetteer matched against document text with an
// Aho-Corasick automaton. Used by tests and default wiring where no
// real NER model is configured.
package refdictner

import (
	"github.com/dpriskorn/riksdagen-sentences/internal/nlp"
	"github.com/dpriskorn/riksdagen-sentences/internal/textscan"
)

// Recognizer implements nlp.NER over a compiled gazetteer.
type Recognizer struct {
	dict *textscan.Dictionary
}

// New compiles a Recognizer from (surface, entity-type label) pairs.
func New(entries map[string]string) (*Recognizer, error) {
	list := make([]textscan.Entry, 0, len(entries))
	for surface, typ := range entries {
		list = append(list, textscan.Entry{Surface: surface, Type: typ})
	}
	dict, err := textscan.Compile(list)
	if err != nil {
		return nil, err
	}
	return &Recognizer{dict: dict}, nil
}

// Recognize implements nlp.NER.
func (r *Recognizer) Recognize(documentText string) []nlp.Entity {
	matches := r.dict.Scan(documentText)
	out := make([]nlp.Entity, 0, len(matches))
	for _, m := range matches {
		out = append(out, nlp.Entity{
			Label: m.Text,
			Type:  m.Type,
			Span:  nlp.Span{Start: m.Start, End: m.End},
		})
	}
	return out
}

var _ nlp.NER = (*Recognizer)(nil)
