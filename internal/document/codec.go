package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"scenariokeeper/pkg/scenario"
)

// Encode renders doc as indented JSON with a trailing newline. HTML escaping is
// disabled so emoji and placeholders stay readable in diffs.
func Encode(doc scenario.Document) ([]byte, error) {
	if doc == nil {
		doc = scenario.Document{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses data strictly: unknown fields, trailing values, a non-object top
// level and null records are all rejected. Missing sequences decode as empty.
func Decode(data []byte) (scenario.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc scenario.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("top-level value must be an object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level object")
	}
	for id, rec := range doc {
		if rec == nil {
			return nil, fmt.Errorf("record %q is null", id)
		}
		rec.Normalize()
	}
	return doc, nil
}
