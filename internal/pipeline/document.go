package pipeline

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/dpriskorn/riksdagen-sentences/internal/store"
)

// Chunk is a sentence-safe slice of a document's text, tagged with its
// starting byte offset in the full document text so sentence and
// entity spans stay comparable across chunk boundaries (§4.5).
type Chunk struct {
	Text   string
	Offset int
}

// ChunkText splits text into chunks of at most maxChars, walking each
// boundary back to the nearest preceding '.' so no chunk splits a
// sentence. If no '.' is found within the current window the chunk is
// cut at maxChars (§4.5, and the resolved open question favouring the
// period-walk-back variant over the blind-split variant).
func ChunkText(text string, maxChars int) []Chunk {
	if maxChars <= 0 || len(text) <= maxChars {
		return []Chunk{{Text: text, Offset: 0}}
	}

	var chunks []Chunk
	start := 0
	for start < len(text) {
		end := start + maxChars
		if end >= len(text) {
			chunks = append(chunks, Chunk{Text: text[start:], Offset: start})
			break
		}
		cut := strings.LastIndexByte(text[start:end], '.')
		if cut < 0 {
			cut = maxChars - 1 // no period found: cut at the hard boundary
		}
		end = start + cut + 1
		chunks = append(chunks, Chunk{Text: text[start:end], Offset: start})
		start = end
	}
	return chunks
}

// ScrubTableOfContents drops lines that look like table-of-contents
// entries: a line title connected to a page number by a run of four or
// more dots (e.g. "Chapter 1 .... 12"). These lines carry no sentence
// content and would otherwise pollute segmentation.
func ScrubTableOfContents(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.Contains(line, "....") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// HTMLToText extracts visible text from an HTML document, joining text
// nodes with spaces (§4.5's HTML-to-text conversion).
func HTMLToText(htmlSource string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlSource))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(b.String()), " "), nil
}

// DocumentRecord is one ingest-time document handed to the processor by
// the dataset walker (§4.6).
type DocumentRecord struct {
	ExternalID string
	Text       string
	HTML       string
}

// DocumentProcessor turns a DocumentRecord into persisted sentences: it
// resolves text (converting HTML if plain text is absent), scrubs
// table-of-contents lines, chunks it, and drives the Conductor over every
// chunk, honouring the document's idempotence flag (§4.5).
type DocumentProcessor struct {
	store        *store.Store
	conductor    *Conductor
	maxChunkSize int
	log          *zap.Logger
}

// NewDocumentProcessor constructs a DocumentProcessor.
func NewDocumentProcessor(s *store.Store, conductor *Conductor, maxChunkSize int, log *zap.Logger) *DocumentProcessor {
	return &DocumentProcessor{store: s, conductor: conductor, maxChunkSize: maxChunkSize, log: log}
}

// Process runs §4.5 for one document. Malformed records (no text and no
// HTML) are reported via ErrSkipCondition so the caller can count them
// as skips rather than failures.
func (p *DocumentProcessor) Process(datasetID int64, rec DocumentRecord) error {
	if rec.ExternalID == "" {
		return SkipCondition("document processor: missing document id")
	}

	text := rec.Text
	if text == "" {
		if rec.HTML == "" {
			return SkipCondition("document processor: document has neither text nor html")
		}
		converted, err := HTMLToText(rec.HTML)
		if err != nil {
			return SkipCondition("document processor: html conversion failed")
		}
		text = converted
	}
	if text == "" {
		return SkipCondition("document processor: document text empty after conversion")
	}

	documentID, processed, err := p.store.UpsertDocument(datasetID, rec.ExternalID)
	if err != nil {
		return TransientStore("document processor: upsert document", err)
	}
	if processed {
		return nil
	}

	text = ScrubTableOfContents(text)
	chunks := ChunkText(text, p.maxChunkSize)

	if err := p.conductor.AnalyzeDocument(documentID, text, chunks); err != nil {
		p.log.Error("document aborted", zap.String("document_id", rec.ExternalID), zap.Error(err))
		return err
	}

	if err := p.store.MarkDocumentProcessed(documentID); err != nil {
		return TransientStore("document processor: mark processed", err)
	}
	return nil
}
