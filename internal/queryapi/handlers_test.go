package queryapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dpriskorn/riksdagen-sentences/internal/refcache"
	"github.com/dpriskorn/riksdagen-sentences/internal/store"
)

func newTestHandlers(t *testing.T) (*Handlers, *store.Store, *refcache.Cache) {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	cache := refcache.New()
	langID, err := s.UpsertLanguage("Swedish", "sv", 9027)
	require.NoError(t, err)
	cache.PutLanguage("sv", langID)
	catID, err := s.UpsertLexicalCategory("NOUN", 1084)
	require.NoError(t, err)
	cache.PutLexicalCategory("NOUN", 1084, catID)

	scoreID, err := s.InternScore(0.9)
	require.NoError(t, err)
	datasetID, err := s.UpsertDataset("Test", "/tmp/test", 1, nil)
	require.NoError(t, err)
	docID, _, err := s.UpsertDocument(datasetID, "D1")
	require.NoError(t, err)

	_, err = s.InsertSentence("Sverige ligger i norra Europa.", "11111111-1111-1111-1111-111111111111", docID, langID, scoreID)
	require.NoError(t, err)

	rawTokenID, err := s.UpsertRawToken("Sverige", catID, langID, scoreID)
	require.NoError(t, err)
	sentenceRec, err := s.FindSentence("Sverige ligger i norra Europa.", docID, langID)
	require.NoError(t, err)
	require.NoError(t, s.LinkRawTokenSentence(rawTokenID, sentenceRec.ID))

	return NewHandlers(s, cache, zap.NewNop()), s, cache
}

// postLookup issues a POST /lookup with body marshaled from the given
// map, mirroring the §4.8 envelope clients actually send.
func postLookup(t *testing.T, body map[string]interface{}) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/lookup", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	return rec, req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestLookupRejectsMissingLanguage(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	rec, req := postLookup(t, map[string]interface{}{"token": "Sverige", "lexical_category_qid": "Q1084"})

	h.Lookup(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotEmpty(t, env.Errors)
}

func TestLookupRejectsUnknownLanguage(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	rec, req := postLookup(t, map[string]interface{}{"token": "Sverige", "iso_language_code": "xx", "lexical_category_qid": "Q1084"})

	h.Lookup(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Contains(t, env.Errors, "iso_language_code is unknown")
}

func TestLookupRejectsSimpleTokenWithoutLexicalCategory(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	rec, req := postLookup(t, map[string]interface{}{"token": "Sverige", "iso_language_code": "sv"})

	h.Lookup(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Contains(t, env.Errors, "lexical_category_qid is required when token has no internal whitespace")
}

func TestLookupRejectsUnknownLexicalCategoryQID(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	rec, req := postLookup(t, map[string]interface{}{"token": "Sverige", "iso_language_code": "sv", "lexical_category_qid": "Q999999"})

	h.Lookup(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Contains(t, env.Errors, "lexical_category_qid is unknown")
	require.Empty(t, env.Data)
}

func TestLookupSimpleReturnsMatch(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	rec, req := postLookup(t, map[string]interface{}{"token": "Sverige", "iso_language_code": "sv", "lexical_category_qid": "Q1084"})

	h.Lookup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Len(t, env.Data, 1)
	require.Equal(t, "sentence", env.Data[0].Type)
}

func TestLookupPhraseReturnsMatch(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	rec, req := postLookup(t, map[string]interface{}{"token": "Sverige ligger", "iso_language_code": "sv"})

	h.Lookup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Len(t, env.Data, 1)
}

func TestLookupSimpleUnknownTokenReturnsEmptyResult(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	rec, req := postLookup(t, map[string]interface{}{"token": "Danmark", "iso_language_code": "sv", "lexical_category_qid": "Q1084"})

	h.Lookup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Empty(t, env.Data)
}

func TestLookupRejectsMalformedBody(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	req := httptest.NewRequest(http.MethodPost, "/lookup", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
