// Package options normalizes Ollama generation parameters. It parses the
// newline-delimited "key value" text users edit in the parameter editor
// into a validated option set, serializes option sets back to canonical
// text, and merges option sets with override semantics.
package options

import (
	"encoding/json"
	"strings"
	"unicode"
)

// Options maps recognized Ollama generation-parameter names to scalar or
// list values. A nil entry counts as absent for serialization and merge
// purposes.
type Options map[string]any

// validKeys is the recognized Ollama parameter set. Keys outside this
// set are silently dropped during parsing.
var validKeys = map[string]struct{}{
	"numa":              {},
	"num_ctx":           {},
	"num_batch":         {},
	"num_gpu":           {},
	"main_gpu":          {},
	"low_vram":          {},
	"f16_kv":            {},
	"logits_all":        {},
	"vocab_only":        {},
	"use_mmap":          {},
	"use_mlock":         {},
	"num_thread":        {},
	"num_keep":          {},
	"seed":              {},
	"num_predict":       {},
	"top_k":             {},
	"top_p":             {},
	"min_p":             {},
	"tfs_z":             {},
	"typical_p":         {},
	"repeat_last_n":     {},
	"temperature":       {},
	"repeat_penalty":    {},
	"presence_penalty":  {},
	"frequency_penalty": {},
	"mirostat":          {},
	"mirostat_tau":      {},
	"mirostat_eta":      {},
	"penalize_newline":  {},
	"stop":              {},
}

// IsValidKey reports whether name is a recognized generation parameter.
func IsValidKey(name string) bool {
	_, ok := validKeys[name]
	return ok
}

// Parse converts parameter text into an Options set.
//
// The primary form is newline-delimited "key value" pairs. Each value is
// interpreted as a literal (number, boolean, list, string); when literal
// interpretation fails the raw string is kept. Unrecognized keys are
// dropped without error. A repeated key coalesces the existing value
// into a list and appends, so repeated lines accumulate list parameters.
//
// Text that parses in full as a JSON object is taken directly, filtered
// to recognized keys. This is the form Serialize emits, so serialized
// option sets parse back to an equivalent set.
func Parse(text string) Options {
	opts := Options{}

	if obj := parseObject(text); obj != nil {
		for key, value := range obj {
			if !IsValidKey(key) {
				continue
			}
			opts[key] = value
		}
		return opts
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, rest, ok := splitKeyValue(line)
		if !ok {
			continue
		}

		value := parseLiteral(rest)
		if !IsValidKey(key) {
			continue
		}

		if existing, present := opts[key]; present && existing != nil {
			if list, isList := existing.([]any); isList {
				opts[key] = append(list, value)
			} else {
				opts[key] = []any{existing, value}
			}
		} else {
			opts[key] = value
		}
	}

	return opts
}

// Serialize emits the canonical text form of an option set: a two-space
// indented JSON object containing only the non-nil entries.
func Serialize(opts Options) string {
	present := map[string]any{}
	for key, value := range opts {
		if value != nil {
			present[key] = value
		}
	}
	data, err := json.MarshalIndent(present, "", "  ")
	if err != nil {
		// Options hold only JSON-representable values.
		return "{}"
	}
	return string(data)
}

// Merge combines two option sets. Entries present and non-nil in b
// override entries in a; nil entries never overwrite a value.
func Merge(a, b Options) Options {
	merged := Options{}
	for key, value := range a {
		if value != nil {
			merged[key] = value
		}
	}
	for key, value := range b {
		if value != nil {
			merged[key] = value
		}
	}
	return merged
}

// parseObject attempts to interpret text as a complete JSON object.
// Returns nil when the text is not an object.
func parseObject(text string) map[string]any {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return nil
	}
	return obj
}

// splitKeyValue splits a line into the key and the remainder on the
// first whitespace run. Lines without a value part are skipped.
func splitKeyValue(line string) (key, rest string, ok bool) {
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return "", "", false
	}
	return line[:idx], strings.TrimSpace(line[idx:]), true
}

// parseLiteral interprets s as a literal value: number, boolean, list,
// or quoted string. On failure the raw string is kept; malformed values
// degrade to text rather than being rejected.
func parseLiteral(s string) any {
	var value any
	if err := json.Unmarshal([]byte(s), &value); err == nil {
		return value
	}
	return s
}
