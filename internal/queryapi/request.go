package queryapi

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LookupRequest is the validated shape of a §4.8 lookup request. Tags
// mirror the table's required/optional rules; the phrase-vs-simple
// branch decision is made after validation, based on whether Token
// contains whitespace.
type LookupRequest struct {
	Token              string `json:"token" validate:"required"`
	ISOLanguageCode    string `json:"iso_language_code" validate:"required"`
	LexicalCategoryQID string `json:"lexical_category_qid"`
	Limit              int    `json:"limit" validate:"gte=1,lte=200"`
	Offset             int    `json:"offset" validate:"gte=0"`
}

const (
	defaultLimit  = 50
	defaultOffset = 0
)

// IsPhrase reports whether the token contains internal whitespace,
// selecting the phrase branch of §4.8 over the simple branch.
func (r LookupRequest) IsPhrase() bool {
	return strings.ContainsAny(strings.TrimSpace(r.Token), " \t\n")
}

// lookupBody is the wire shape of the §4.8 lookup envelope's request
// body. Limit/Offset are pointers so an absent field can be told apart
// from an explicit zero, which the caller needs to apply the documented
// pagination defaults.
type lookupBody struct {
	Token              string `json:"token"`
	ISOLanguageCode    string `json:"iso_language_code"`
	LexicalCategoryQID string `json:"lexical_category_qid"`
	Limit              *int   `json:"limit"`
	Offset             *int   `json:"offset"`
}

// ParseLookupRequestBody decodes the §4.8 lookup envelope from a POST
// body, applying the documented pagination defaults (limit=50, offset=0)
// before validation.
func ParseLookupRequestBody(body io.Reader) (LookupRequest, error) {
	var wire lookupBody
	if err := json.NewDecoder(body).Decode(&wire); err != nil {
		return LookupRequest{}, err
	}

	req := LookupRequest{
		Token:              wire.Token,
		ISOLanguageCode:    wire.ISOLanguageCode,
		LexicalCategoryQID: wire.LexicalCategoryQID,
		Limit:              defaultLimit,
		Offset:             defaultOffset,
	}
	if wire.Limit != nil {
		req.Limit = *wire.Limit
	}
	if wire.Offset != nil {
		req.Offset = *wire.Offset
	}
	return req, nil
}

// Validate runs struct-tag validation and turns go-playground/validator
// errors into the field-level messages the evolvable envelope returns
// alongside the echoed request data.
func (r LookupRequest) Validate() []string {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var messages []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			messages = append(messages, formatFieldError(fe))
		}
	} else {
		messages = append(messages, err.Error())
	}
	return messages
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gte":
		return field + " must be at least " + fe.Param()
	case "lte":
		return field + " must be at most " + fe.Param()
	default:
		return field + " is invalid"
	}
}
