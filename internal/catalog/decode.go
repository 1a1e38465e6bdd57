package catalog

import (
	"bytes"
	"encoding/json"

	dErrors "realtyref/pkg/domain-errors"
	strutil "realtyref/pkg/platform/strings"
)

// envelopeKeys are the wrappers the lookup endpoints have been seen to use
// around their arrays.
var envelopeKeys = []string{"data", "parliaments", "options", "result"}

// optionKeys name the field that carries an option's label when options are
// objects instead of plain strings.
var optionKeys = []string{"name", "Name", "title", "label", "value"}

// unwrapArray returns the JSON array in raw, either bare or under one of the
// envelope keys.
func unwrapArray(raw []byte) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		return raw, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "lookup response is not JSON")
	}
	for _, k := range envelopeKeys {
		if v, ok := obj[k]; ok {
			v = bytes.TrimSpace(v)
			if len(v) > 0 && v[0] == '[' {
				return v, nil
			}
		}
	}
	return nil, dErrors.New(dErrors.CodeMalformedResponse, "lookup response has no list")
}

func decodeParliaments(raw []byte) ([]Parliament, error) {
	arr, err := unwrapArray(raw)
	if err != nil {
		return nil, err
	}
	var list []Parliament
	if err := json.Unmarshal(arr, &list); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "unexpected parliament list")
	}
	return list, nil
}

// decodeOptions accepts an array of strings, of objects, or a mix. Blank and
// duplicate labels are dropped; order is preserved.
func decodeOptions(raw []byte) ([]string, error) {
	arr, err := unwrapArray(raw)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(arr, &items); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "unexpected option list")
	}
	labels := make([]string, 0, len(items))
	for _, item := range items {
		if label := optionLabel(item); label != "" {
			labels = append(labels, label)
		}
	}
	return strutil.DedupeAndTrim(labels), nil
}

func optionLabel(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}
	var obj map[string]any
	if err := json.Unmarshal(item, &obj); err != nil {
		return ""
	}
	for _, k := range optionKeys {
		if v, ok := obj[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
