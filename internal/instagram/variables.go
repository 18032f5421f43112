package instagram

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/orgball2608/insta-viewer/pkg/errors"
)

// DefaultPageSize is how many timeline entries one media query asks for.
const DefaultPageSize = 12

// MediaVariables are the graph query variables of a timeline page request.
type MediaVariables struct {
	ID    string `json:"id"`
	After string `json:"after,omitempty"`
	First int    `json:"first"`
}

// ParseMediaVariables decodes the JSON string sent by clients in the variables query parameter.
func ParseMediaVariables(raw string) (MediaVariables, error) {
	var vars MediaVariables
	if err := json.Unmarshal([]byte(raw), &vars); err != nil {
		return MediaVariables{}, apperrors.WrapWithCode(err, apperrors.CodeInvalidInput, "malformed media variables")
	}
	if vars.ID == "" {
		return MediaVariables{}, apperrors.WrapWithCode(apperrors.ErrInvalidInput, apperrors.CodeInvalidInput, "media variables without id")
	}
	if vars.First <= 0 {
		return MediaVariables{}, apperrors.WrapWithCode(apperrors.ErrInvalidInput, apperrors.CodeInvalidInput, "media variables without a positive first")
	}
	return vars, nil
}

// Encode renders the variables the way the graph endpoint expects them.
func (v MediaVariables) Encode() string {
	b, err := json.Marshal(v)
	if err != nil {
		// Only strings and ints inside; Marshal cannot fail here.
		panic(fmt.Sprintf("encode media variables: %v", err))
	}
	return string(b)
}
