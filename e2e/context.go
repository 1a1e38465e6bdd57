package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
)

var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_-]+)\}`)

var mobileSeq atomic.Int64

// TestContext is the per-scenario state shared by the step packages: the
// last response and named values saved by earlier steps.
type TestContext struct {
	baseURL string
	client  *http.Client

	status int
	body   []byte
	values map[string]string
	token  string
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		values:  make(map[string]string),
	}
}

// Expand replaces {name} with the value saved under name.
func (tc *TestContext) Expand(s string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := tc.values[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

func (tc *TestContext) Save(name, value string) { tc.values[name] = value }

// FreshMobile saves a ten digit mobile number no earlier run has used.
func (tc *TestContext) FreshMobile(name string) string {
	n := (time.Now().UnixNano()/1000 + mobileSeq.Add(1)) % 1_000_000_000
	m := fmt.Sprintf("8%09d", n)
	tc.Save(name, m)
	return m
}

func (tc *TestContext) SetToken(token string) { tc.token = token }

func (tc *TestContext) Status() int { return tc.status }

func (tc *TestContext) Body() []byte { return tc.body }

func (tc *TestContext) Do(ctx context.Context, method, path string, body any) error {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(tc.Expand(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, tc.baseURL+tc.Expand(path), reader)
	if err != nil {
		return err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.token != "" {
		req.Header.Set("token", tc.token)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.status = resp.StatusCode
	tc.body, err = io.ReadAll(resp.Body)
	return err
}

// Field reads a dotted path such as "data._id" from the last JSON response.
// Numeric segments index arrays.
func (tc *TestContext) Field(path string) (any, error) {
	var v any
	if err := json.Unmarshal(tc.body, &v); err != nil {
		return nil, fmt.Errorf("response is not JSON: %s", tc.body)
	}
	for _, seg := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, fmt.Errorf("field %q not found in %s", path, tc.body)
			}
			v = next
		case []any:
			var i int
			if _, err := fmt.Sscanf(seg, "%d", &i); err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("bad index %q for %q", seg, path)
			}
			v = node[i]
		default:
			return nil, fmt.Errorf("field %q not found in %s", path, tc.body)
		}
	}
	return v, nil
}
