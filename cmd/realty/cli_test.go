package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtyref/internal/platform/metrics"
	"realtyref/internal/stub"
	"realtyref/internal/stub/handler"
	dErrors "realtyref/pkg/domain-errors"
)

type cliHarness struct {
	t         *testing.T
	srv       *httptest.Server
	baseURL   string
	statePath string

	mu    sync.Mutex
	posts map[string]int
}

func newHarness(t *testing.T) *cliHarness {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	seed, err := stub.DefaultSeed()
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tokens := stub.NewTokenService("cli-test-key", "realty-stub", time.Hour)
	svc := stub.NewService(stub.NewInMemoryStore(), tokens, seed, stub.WithMetrics(m))
	require.NoError(t, svc.Bootstrap(context.Background()))

	h := &cliHarness{
		t:         t,
		statePath: filepath.Join(t.TempDir(), "state.db"),
		posts:     map[string]int{},
	}
	router := handler.NewRouter(handler.New(svc, log), tokens, log, m, reg)
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.mu.Lock()
			h.posts[r.URL.Path]++
			h.mu.Unlock()
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(h.srv.Close)
	h.baseURL = h.srv.URL
	t.Setenv("LOG_LEVEL", "error")
	return h
}

// postsTo reports how many POST requests reached path.
func (h *cliHarness) postsTo(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.posts[path]
}

// run executes one CLI invocation. Each invocation reopens the SQLite
// session file, like separate processes would.
func (h *cliHarness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	root, teardown := newRootCmd()
	defer teardown()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--base-url", h.baseURL, "--state", "sqlite", "--state-path", h.statePath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *cliHarness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, out)
	return out
}

var idLine = regexp.MustCompile(`(?m)^id: (\S+)$`)

func TestCLIRoundTrip(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("register", "WealthAssociate", "--name", "Sita", "-m", "9000000301", "-p", "secret1",
		"--parliament", "Visakhapatnam", "--assembly", "Bheemili")
	assert.Contains(t, out, "referral code: 040401")
	assert.Contains(t, out, "referred by: WA00000000")

	out = h.mustRun("login", "wealthassociate", "-m", "9000000301", "-p", "secret1")
	assert.Contains(t, out, "Logged in as WealthAssociate. Home: AgentDashboard")

	out = h.mustRun("whoami")
	assert.Contains(t, out, "WealthAssociate")

	out = h.mustRun("register", "Customer", "--name", "Ravi", "-m", "9000000302", "--occupation", "Salaried",
		"--parliament", "guntur", "--assembly", "Tadikonda")
	assert.Contains(t, out, "referral code: 181801", "parliament names ignore case")
	assert.Contains(t, out, "referred by: 040401")
	m := idLine.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	customerID := m[1]

	out = h.mustRun("list", "customers")
	assert.Contains(t, out, customerID)
	assert.Contains(t, out, "Ravi")

	_, err := h.run("", "delete", "customers", customerID, "--yes")
	require.Error(t, err, "agents cannot delete customers")

	h.mustRun("logout")
	out = h.mustRun("whoami")
	assert.Contains(t, out, "Not logged in")

	h.mustRun("login", "CoreMember", "-m", "9000000001", "-p", "core123")

	out, err = h.run("n\n", "delete", "customers", customerID)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")

	out, err = h.run("y\n", "delete", "customers", customerID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted.")

	out = h.mustRun("list", "customers")
	assert.Contains(t, out, "No records.")
}

func TestCLILoginRejected(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "login", "CoreMember", "-m", "9000000001", "-p", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", errorText(err))

	_, err = h.run("", "login", "Landlord", "-m", "9000000001", "-p", "core123")
	require.Error(t, err)
	assert.Contains(t, errorText(err), "unknown user type")
}

func TestCLILookup(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("lookup", "parliaments")
	assert.Contains(t, out, "Visakhapatnam (04)")

	out = h.mustRun("lookup", "assemblies", "Guntur")
	assert.Contains(t, out, "Tadikonda (181801)")

	out = h.mustRun("lookup", "skills", "--search", "car")
	assert.Equal(t, "Carpenter\n", out)

	_, err := h.run("", "register", "Investor", "--name", "X", "-m", "9000000303",
		"--parliament", "Guntur", "--assembly", "Bheemili")
	require.Error(t, err)
	assert.Contains(t, errorText(err), "Bheemili", "assembly must belong to the chosen parliament")
}

func TestCLIRegisterLocationMustBeChosen(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "WealthAssociate", "--name", "Sita", "-m", "9000000311", "-p", "secret1",
		"--parliament", "Visakhapatnam", "--assembly", "Bheemili")
	h.mustRun("login", "WealthAssociate", "-m", "9000000311", "-p", "secret1")

	t.Run("omitted assembly", func(t *testing.T) {
		_, err := h.run("", "register", "Customer", "--name", "Ravi", "-m", "9000000312",
			"--occupation", "Salaried", "--parliament", "Guntur")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidSelection), err)
		assert.Equal(t, dErrors.MsgInvalidSelection, errorText(err))
	})

	t.Run("omitted parliament", func(t *testing.T) {
		_, err := h.run("", "register", "Customer", "--name", "Ravi", "-m", "9000000312",
			"--occupation", "Salaried", "--assembly", "Tadikonda")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidSelection), err)
	})

	t.Run("a name that only prefixes an option", func(t *testing.T) {
		_, err := h.run("", "register", "Customer", "--name", "Ravi", "-m", "9000000312",
			"--occupation", "Salaried", "--parliament", "Visakhapatnam", "--assembly", "Visakhapatnam")
		require.Error(t, err, "Visakhapatnam is not Visakhapatnam East")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidSelection), err)
	})

	assert.Zero(t, h.postsTo("/customer/addCustomer"), "nothing is sent without a chosen location")
}

func TestCLIListWritesMetricsFile(t *testing.T) {
	h := newHarness(t)
	metricsFile := filepath.Join(t.TempDir(), "realty.prom")
	h.mustRun("login", "CoreMember", "-m", "9000000001", "-p", "core123")
	h.srv.Close()

	out := h.mustRun("--metrics-file", metricsFile, "list", "customers")
	assert.Contains(t, out, "warning: could not load customers")
	assert.Contains(t, out, "No records.")

	raw, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Regexp(t, `realty_list_degraded_total\{code="[a-z_]+",collection="customers"\} 1`, string(raw))
	assert.Contains(t, string(raw), "realty_backend_requests_total")
}

func TestCLIProfileAndListing(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "Investor", "--name", "Inv", "-m", "9000000401",
		"--parliament", "Vijayawada", "--assembly", "Tiruvuru")
	h.mustRun("login", "Investor", "-m", "9000000401", "-p", "9000000401")

	h.mustRun("profile", "update", "FullName=Investor One")
	out := h.mustRun("profile", "show")
	assert.Contains(t, out, "FullName: Investor One")
	assert.Contains(t, out, "MyRefferalCode: 161601")

	out = h.mustRun("property", "add", "--type", "Villa", "--location", "Tiruvuru", "--price", "9000000")
	assert.Contains(t, out, "posted by 161601")

	out = h.mustRun("list", "properties")
	assert.Contains(t, out, "Villa")

	out = h.mustRun("expert", "request", "--name", "Inv", "-m", "9000000401", "--type", "Legal", "--reason", "title check")
	assert.Contains(t, out, "Request submitted.")
}

func TestCLIPasswordReset(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "NRI", "--name", "Anil", "--country", "UAE", "-m", "9000000501")

	h.mustRun("password", "forgot", "NRI", "9000000501")
	out := h.mustRun("password", "reset", "NRI", "-p", "newpass1", "--confirm", "newpass1")
	assert.Contains(t, out, "Password updated")

	h.mustRun("login", "NRI", "-m", "9000000501", "-p", "newpass1")
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"FullName=Ravi Kumar", "Note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"FullName": "Ravi Kumar", "Note": "a=b"}, got)

	_, err = parseAssignments([]string{"novalue"})
	assert.Error(t, err)
}
