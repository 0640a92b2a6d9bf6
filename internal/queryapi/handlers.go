package queryapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dpriskorn/riksdagen-sentences/internal/refcache"
	"github.com/dpriskorn/riksdagen-sentences/internal/store"
)

// responsePool reuses Envelope.Data slices across requests to cut GC
// pressure on the hot lookup path under load.
var responsePool = sync.Pool{
	New: func() interface{} {
		return make([]SentenceResource, 0, defaultLimit)
	},
}

// Handlers implements the §4.8 query service's HTTP surface.
type Handlers struct {
	store *store.Store
	cache *refcache.Cache
	log   *zap.Logger
}

// NewHandlers constructs Handlers.
func NewHandlers(s *store.Store, c *refcache.Cache, log *zap.Logger) *Handlers {
	return &Handlers{store: s, cache: c, log: log}
}

// Lookup implements POST /lookup: §4.8's single endpoint takes a
// declarative envelope in the request body (never query parameters),
// and resolves either the phrase or simple branch, returning the
// evolvable envelope and the X-Total-Count header.
func (h *Handlers) Lookup(w http.ResponseWriter, r *http.Request) {
	req, err := ParseLookupRequestBody(r.Body)
	if err != nil {
		writeEnvelope(w, http.StatusUnprocessableEntity, Envelope{Errors: []string{"request body must be a valid JSON object"}}, 0)
		return
	}
	req.Token = strings.TrimSpace(req.Token)

	echo := RequestEcho{
		Token:              req.Token,
		ISOLanguageCode:    req.ISOLanguageCode,
		LexicalCategoryQID: req.LexicalCategoryQID,
		Limit:              req.Limit,
		Offset:             req.Offset,
	}

	var errs []string
	errs = append(errs, req.Validate()...)

	var categoryID int64
	if !req.IsPhrase() {
		if req.LexicalCategoryQID == "" {
			errs = append(errs, "lexical_category_qid is required when token has no internal whitespace")
		} else if id, err := h.resolveLexicalCategory(req.LexicalCategoryQID); err != nil {
			errs = append(errs, "lexical_category_qid is unknown")
		} else {
			categoryID = id
		}
	}

	languageID, langKnown := h.cache.Language(req.ISOLanguageCode)
	if !langKnown {
		id, err := h.store.LanguageIDByISOCode(req.ISOLanguageCode)
		if err != nil {
			errs = append(errs, "iso_language_code is unknown")
		} else {
			languageID = id
			h.cache.PutLanguage(req.ISOLanguageCode, id)
		}
	}

	if len(errs) > 0 {
		writeEnvelope(w, http.StatusUnprocessableEntity, Envelope{Data: nil, Errors: errs, Echo: echo}, 0)
		return
	}

	var result *store.LookupResult
	if req.IsPhrase() {
		result, err = h.store.LookupPhrase(req.Token, languageID, req.Limit, req.Offset)
	} else {
		result, err = h.lookupSimple(req, languageID, categoryID)
	}
	if err != nil {
		h.log.Error("lookup failed", zap.Error(err))
		writeEnvelope(w, http.StatusInternalServerError, Envelope{Errors: []string{"internal error"}, Echo: echo}, 0)
		return
	}

	data := responsePool.Get().([]SentenceResource)[:0]
	data = append(data, FromSentenceRecords(result.Sentences)...)
	defer responsePool.Put(data)

	writeEnvelope(w, http.StatusOK, Envelope{Data: data, Echo: echo}, result.Total)
}

// resolveLexicalCategory looks up a lexical category's surrogate id by
// its reference QID, cache first, falling back to the store on a miss.
// An unknown QID (malformed or not found) is reported to the caller as
// an error — §4.8 requires this to surface in the envelope's errors,
// not silently fall through to an empty result.
func (h *Handlers) resolveLexicalCategory(qidString string) (int64, error) {
	qid, err := store.QID(qidString)
	if err != nil {
		return 0, err
	}
	if id, known := h.cache.LexicalCategoryByQID(qid); known {
		return id, nil
	}
	id, err := h.store.LexicalCategoryIDByQID(qid)
	if err != nil {
		return 0, err
	}
	h.cache.PutLexicalCategoryQID(qid, id)
	return id, nil
}

// lookupSimple resolves the §4.8 simple branch: find the raw token by
// (text, category, language), then its linked sentences. The lexical
// category QID has already been validated by the caller; an unresolved
// *token* is not an error — it is an empty result set, the envelope
// still succeeds.
func (h *Handlers) lookupSimple(req LookupRequest, languageID, categoryID int64) (*store.LookupResult, error) {
	rawTokenID, err := h.store.RawTokenID(req.Token, categoryID, languageID)
	if err != nil {
		return &store.LookupResult{}, nil
	}
	return h.store.LookupSimple(rawTokenID, req.Limit, req.Offset)
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope, total int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
