package roster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "realtyref/pkg/domain-errors"
)

const items = `[
	{"_id":"a1","FullName":"Ravi","MobileNumber":"9000000001"},
	{"id":"a2","Name":"Sita","MobileIN":9000000002},
	{"_id":"p1","propertyType":"Villa","price":"50L"}
]`

func TestNormalizeShapesAgree(t *testing.T) {
	want := []Record{
		{ID: "a1", Name: "Ravi", Mobile: "9000000001", Fields: map[string]any{"_id": "a1", "FullName": "Ravi", "MobileNumber": "9000000001"}},
		{ID: "a2", Name: "Sita", Mobile: "9000000002", Fields: map[string]any{"id": "a2", "Name": "Sita", "MobileIN": float64(9000000002)}},
		{ID: "p1", Name: "Villa", Fields: map[string]any{"_id": "p1", "propertyType": "Villa", "price": "50L"}},
	}

	for name, body := range map[string]string{
		"bare array":      items,
		"data envelope":   `{"data":` + items + `}`,
		"referred agents": `{"message":"ok","referredAgents":` + items + `}`,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := Normalize([]byte(body))
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeEmpty(t *testing.T) {
	for _, body := range []string{`[]`, `{"data":[]}`, `{"data":null}`, `{"referredAgents":[]}`} {
		got, err := Normalize([]byte(body))
		require.NoError(t, err, body)
		assert.Empty(t, got, body)
	}
}

func TestNormalizeMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"empty body":      ``,
		"html":            `<html>502</html>`,
		"object no list":  `{"message":"Server error"}`,
		"data not array":  `{"data":{"_id":"x"}}`,
		"non-object item": `["a","b"]`,
		"null item":       `[null]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize([]byte(body))
			assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedResponse), "got %v", err)
		})
	}
}
