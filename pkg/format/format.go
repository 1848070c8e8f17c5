// Package format interprets the user-supplied output-format directive
// for chat requests: empty (no constraint), the literal "json" keyword
// for unconstrained JSON mode, or a JSON schema the model output must
// conform to.
package format

import (
	"encoding/json"
	"fmt"

	"github.com/plauder-dev/plauder/pkg/api"
)

// KeywordJSON is the directive for unconstrained JSON mode.
const KeywordJSON = "json"

// Directive is a resolved output-format constraint. The zero value is
// the unconstrained directive.
type Directive struct {
	// Keyword is "" or "json" when no schema is set.
	Keyword string

	// Schema is the JSON schema object the output must conform to.
	// When non-nil it takes precedence over Keyword.
	Schema map[string]any
}

// IsZero reports whether the directive imposes no constraint at all.
func (d Directive) IsZero() bool {
	return d.Schema == nil && d.Keyword == ""
}

// MarshalJSON emits the Ollama wire form of the directive: the schema
// object, or the keyword as a JSON string. Unconstrained directives
// should be omitted from requests entirely (see WireValue).
func (d Directive) MarshalJSON() ([]byte, error) {
	if d.Schema != nil {
		return json.Marshal(d.Schema)
	}
	return json.Marshal(d.Keyword)
}

// WireValue returns the raw JSON to place in a chat request's format
// field, or nil when the field should be omitted.
func (d Directive) WireValue() (json.RawMessage, error) {
	if d.IsZero() {
		return nil, nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// Resolve classifies format text into one of exactly three outcomes:
// a schema directive when the text is a JSON object, the empty or
// "json" keyword directive, or an invalid-format error naming the
// offending text. Text that parses as valid JSON but is not an object
// (arrays, numbers, bare strings) is invalid.
func Resolve(text string) (Directive, error) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err == nil {
		if schema, ok := value.(map[string]any); ok {
			return Directive{Schema: schema}, nil
		}
	} else if text == "" || text == KeywordJSON {
		return Directive{Keyword: text}, nil
	}
	return Directive{}, api.NewInvalidRequestError("format", fmt.Sprintf("invalid format: %q", text))
}
