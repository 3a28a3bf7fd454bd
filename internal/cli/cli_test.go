package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/brixcalc/internal/domain"
	"github.com/aalvaropc/brixcalc/internal/infra/httpserver"
)

// runCLI executes the root command with args inside dir.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// --- command structure ---

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Use] = true
	}
	for _, expected := range []string{"compute", "serve", "version", "init"} {
		if !names[expected] {
			t.Errorf("expected subcommand %q to be registered", expected)
		}
	}
	if cmd.PersistentFlags().Lookup("debug") == nil {
		t.Error("expected persistent --debug flag")
	}
}

func TestComputeCmd_Flags(t *testing.T) {
	cmd := computeCmd()
	for _, flag := range []string{"mass", "brix", "target", "sweetener", "dilution", "format", "explain", "remote", "query", "workspace"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on compute command", flag)
		}
	}
}

func TestServeCmd_Flags(t *testing.T) {
	cmd := serveCmd()
	for _, flag := range []string{"addr", "log-stderr", "workspace"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on serve command", flag)
		}
	}
}

func TestInitCmd_Flags(t *testing.T) {
	cmd := initCmd()
	if cmd.Flags().Lookup("path") == nil {
		t.Error("expected --path flag on init command")
	}
	if cmd.Flags().Lookup("force") == nil {
		t.Error("expected --force flag on init command")
	}
}

// --- printBalance ---

func workedExample(t *testing.T) domain.Balance {
	t.Helper()
	b, err := domain.Compute(domain.NewInputs(50, 7, 10))
	require.NoError(t, err)
	return b
}

func TestPrintBalance_Pretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printBalance(&buf, workedExample(t), 2, "pretty", false))

	out := buf.String()
	assert.Contains(t, out, "Sugar to add:   1.67 kg")
	assert.Contains(t, out, "Final mass:     51.67 kg")
	assert.NotContains(t, out, "Equations:")
	assert.NotContains(t, out, "warning")
}

func TestPrintBalance_PrettyExplain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printBalance(&buf, workedExample(t), 2, "", true))
	assert.Contains(t, buf.String(), "Equations:")
	assert.Contains(t, buf.String(), "M3 = M1 + M2 = 50 + 1.67 = 51.67 kg")
}

func TestPrintBalance_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printBalance(&buf, workedExample(t), 2, "json", true))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload), buf.String())
	assert.InDelta(t, 1.6667, payload["sweetener_mass_kg"], 1e-3)
	assert.NotNil(t, payload["derivation"])
	assert.Equal(t, "51.67 kg", payload["display"].(map[string]any)["final_mass"])
}

func TestPrintBalance_DilutionWarning(t *testing.T) {
	b, err := domain.Compute(domain.NewInputs(100, 20, 10))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printBalance(&buf, b, 2, "pretty", false))
	assert.Contains(t, buf.String(), "warning:")
	assert.Contains(t, buf.String(), "-11.11 kg")
}

func TestPrintBalance_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := printBalance(&buf, workedExample(t), 2, "xml", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

// --- compute command end to end ---

func TestCompute_DefaultsWithoutWorkspace(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "compute")
	require.NoError(t, err)
	assert.Contains(t, out, "Sugar to add:   1.67 kg")
}

func TestCompute_FlagsOverrideDefaults(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "compute", "-m", "100", "-b", "5", "-t", "10", "--format", "json")
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload), out)
	assert.InDelta(t, 5.5556, payload["sweetener_mass_kg"], 1e-3)
}

func TestCompute_Query(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "compute", "-q", "$.display.sweetener_mass", "-q", "$.dilution")
	require.NoError(t, err)
	assert.Equal(t, "1.67 kg\nfalse\n", out)
}

func TestCompute_Infeasible(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "compute", "-m", "100", "-b", "5", "-t", "100")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInfeasible))
}

func TestCompute_DilutionReject(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "compute", "-b", "20", "--dilution", "reject")
	assert.True(t, domain.IsKind(err, domain.KindDilution), "got %v", err)

	_, err = runCLI(t, t.TempDir(), "compute", "--dilution", "sometimes")
	assert.True(t, domain.IsKind(err, domain.KindInvalidInput), "got %v", err)
}

func TestCompute_UsesWorkspaceConfig(t *testing.T) {
	root := t.TempDir()
	cfg := "brixcalc:\n  defaults:\n    initial_mass_kg: 10\n    initial_brix: 5\n    target_brix: 20\n  sweetener:\n    brix: 65\n  display:\n    precision: 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "brixcalc.yaml"), []byte(cfg), 0o644))
	sub := filepath.Join(root, "batches")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	out, err := runCLI(t, sub, "compute")
	require.NoError(t, err)
	// 10·(0.2 − 0.05) / (0.65 − 0.2) = 3.333…
	assert.Contains(t, out, "Sugar to add:   3.333 kg")
	assert.FileExists(t, filepath.Join(root, ".brixcalc", "logs", "brixcalc.log"))
}

func TestCompute_Remote(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Server.RateLimitRPS = 0
	srv := httptest.NewServer(httpserver.New(cfg, httpserver.Deps{Version: "test"}).Handler())
	defer srv.Close()

	out, err := runCLI(t, t.TempDir(), "compute", "--remote", srv.URL, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"final_mass": "51.67 kg"`)

	_, err = runCLI(t, t.TempDir(), "compute", "--remote", srv.URL, "-t", "100")
	assert.True(t, domain.IsKind(err, domain.KindInfeasible), "got %v", err)
}

func TestCompute_RemoteHonorsDilutionFlag(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Server.RateLimitRPS = 0
	srv := httptest.NewServer(httpserver.New(cfg, httpserver.Deps{Version: "test"}).Handler())
	defer srv.Close()

	_, err := runCLI(t, t.TempDir(), "compute", "--remote", srv.URL, "-b", "10", "-t", "5", "--dilution", "reject")
	assert.True(t, domain.IsKind(err, domain.KindDilution), "got %v", err)

	out, err := runCLI(t, t.TempDir(), "compute", "--remote", srv.URL, "-b", "10", "-t", "5", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"dilution": true`)
}

func TestCompute_OverflowIsInvalidInput(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "compute", "-m", "1e308", "-b", "0", "-t", "99.99999")
	assert.True(t, domain.IsKind(err, domain.KindInvalidInput), "got %v", err)
}

// --- init / version ---

func TestInit_CreatesConfig(t *testing.T) {
	root := t.TempDir()
	out, err := runCLI(t, root, "init", "--path", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized brixcalc workspace")
	assert.FileExists(t, filepath.Join(root, "brixcalc.yaml"))
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "brixcalc "), out)
}

// --- loadWorkspace ---

func TestLoadWorkspace_ExplicitPathRequiresConfig(t *testing.T) {
	_, err := loadWorkspace(t.TempDir())
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestLoadWorkspace_EnvOverridesAddr(t *testing.T) {
	t.Setenv("BRIXCALC_ADDR", "0.0.0.0:9999")
	t.Chdir(t.TempDir())

	ws, err := loadWorkspace("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", ws.cfg.Server.Addr)
	assert.Empty(t, ws.root)
}
