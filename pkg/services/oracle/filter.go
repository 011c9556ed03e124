package oracle

import (
	"encoding/json"
	"errors"
	"unicode/utf8"

	"github.com/Tommo-L/neo-modules/pkg/services/oracle/jsonpath"
)

// ErrInvalidResult is returned when a fetched body isn't valid JSON, or
// when the configured filter path doesn't parse or match (spec §4.C).
var ErrInvalidResult = errors.New("invalid filter result")

// filter applies path (spec §4.C JSONPath-like filter) to a raw JSON
// document, returning the compact JSON encoding of the matches.
func filter(body []byte, path string) ([]byte, error) {
	if !utf8.Valid(body) {
		return nil, ErrInvalidResult
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, ErrInvalidResult
	}
	items, ok := jsonpath.Get(path, v)
	if !ok {
		return nil, ErrInvalidResult
	}
	return json.Marshal(items)
}
