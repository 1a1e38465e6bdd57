package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	dErrors "realtyref/pkg/domain-errors"
)

// Record is one item of a list screen. Fields keeps the backend object as
// received so screens can show role-specific columns.
type Record struct {
	ID     string
	Name   string
	Mobile string
	Fields map[string]any
}

var (
	idKeys     = []string{"_id", "id"}
	nameKeys   = []string{"FullName", "Name", "name", "propertyType"}
	mobileKeys = []string{"MobileNumber", "MobileIN", "mobile"}
)

// Normalize turns any of the list response shapes ({"data": [...]},
// {"referredAgents": [...]} or a bare array) into records. Anything else is
// malformed_response.
func Normalize(raw []byte) ([]Record, error) {
	items, err := listItems(raw)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(items))
	for i, item := range items {
		var fields map[string]any
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			return nil, dErrors.Newf(dErrors.CodeMalformedResponse, "list item %d is not an object", i)
		}
		records = append(records, Record{
			ID:     firstString(fields, idKeys),
			Name:   firstString(fields, nameKeys),
			Mobile: firstString(fields, mobileKeys),
			Fields: fields,
		})
	}
	return records, nil
}

func listItems(raw []byte) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, dErrors.New(dErrors.CodeMalformedResponse, "empty list response")
	}

	var items []json.RawMessage
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "list response is not valid JSON")
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "list response is not valid JSON")
	}
	inner, ok := envelope["data"]
	if !ok {
		inner, ok = envelope["referredAgents"]
	}
	if !ok {
		return nil, dErrors.New(dErrors.CodeMalformedResponse, "list response has no data")
	}
	if bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
		return nil, nil
	}
	if err := json.Unmarshal(inner, &items); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "list data is not an array")
	}
	return items, nil
}

func firstString(fields map[string]any, keys []string) string {
	for _, k := range keys {
		switch v := fields[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case nil:
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}
