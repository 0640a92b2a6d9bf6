package queryapi

import "github.com/dpriskorn/riksdagen-sentences/internal/store"

// FromSentenceRecords converts store records into the slim wire shape
// the lookup envelope returns, touching only the fields the client
// needs (§4.8's response table).
func FromSentenceRecords(records []store.SentenceRecord) []SentenceResource {
	resources := make([]SentenceResource, 0, len(records))
	for _, rec := range records {
		resources = append(resources, SentenceResource{
			ID:   rec.UUID,
			Type: "sentence",
			Attributes: SentenceAttributes{
				Text:  rec.Text,
				Score: rec.Score,
			},
		})
	}
	return resources
}
