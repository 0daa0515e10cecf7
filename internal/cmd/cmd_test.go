package cmd

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/solarsizer/internal/bill"
	"github.com/Iron-Ham/solarsizer/internal/billserver"
	"github.com/Iron-Ham/solarsizer/internal/config"
	"github.com/Iron-Ham/solarsizer/internal/logging"
	"github.com/Iron-Ham/solarsizer/internal/testutil"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// setupTestEnvironment points config and state at temp dirs, serves the
// sample fixtures, and resets flag and viper state left by earlier runs.
func setupTestEnvironment(t *testing.T) (fixtures string) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	fixtures = testutil.WriteFixtures(t, testutil.SampleFixtures)
	t.Setenv("SOLARSIZER_RESOLVER_FIXTURES_FILE", fixtures)

	resetCommandState()
	t.Cleanup(resetCommandState)
	return fixtures
}

func resetCommandState() {
	viper.Reset()
	_ = rootCmd.PersistentFlags().Set("config", "")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	quoteJSON = false
	quoteVerbose = false
	billserverAddr = ""
	billserverFixtures = ""
	logsSessionID = ""
	logsAll = false
	logsReference = ""
	logsTail = 50
	logsFollow = false
	logsLevel = ""
	logsSince = ""
	logsGrep = ""
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "solarsizer" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "solarsizer")
	}

	expectedCmds := []string{"start", "quote", "billserver", "config", "logs"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, expected := range expectedCmds {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestQuoteCommand(t *testing.T) {
	setupTestEnvironment(t)

	output, err := executeCommand(rootCmd, "quote", "abc-1001")
	if err != nil {
		t.Fatalf("quote failed: %v\nOutput: %s", err, output)
	}

	for _, want := range []string{"Solar quote for ABC-1001", "Ada Obi", "5.00 kW", "System size", "Payback"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\nOutput: %s", want, output)
		}
	}
}

func TestQuoteCommand_JSON(t *testing.T) {
	setupTestEnvironment(t)

	output, err := executeCommand(rootCmd, "quote", "ABC-2002", "--json")
	if err != nil {
		t.Fatalf("quote --json failed: %v\nOutput: %s", err, output)
	}

	var got quoteOutput
	if err := json.Unmarshal([]byte(output), &got); err != nil {
		t.Fatalf("output is not JSON: %v\nOutput: %s", err, output)
	}
	if got.Reference != "ABC-2002" {
		t.Errorf("reference = %q, want ABC-2002", got.Reference)
	}
	if got.Bill.UnitsConsumed != 900 {
		t.Errorf("units consumed = %v, want 900", got.Bill.UnitsConsumed)
	}
	if got.Quote.RecommendedSystemSize <= 0 || got.Quote.NumberOfPanels <= 0 {
		t.Errorf("quote not sized: %+v", got.Quote)
	}
}

func TestQuoteCommand_Failures(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		wantMsg   string
	}{
		{"unknown reference", "ABC-9999", "ABC-9999"},
		{"malformed reference", "no!", "no!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnvironment(t)

			_, err := executeCommand(rootCmd, "quote", tt.reference)
			if err == nil {
				t.Fatal("quote should fail")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestQuoteCommand_MissingFixtures(t *testing.T) {
	setupTestEnvironment(t)
	t.Setenv("SOLARSIZER_RESOLVER_FIXTURES_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := executeCommand(rootCmd, "quote", "ABC-1001"); err == nil {
		t.Fatal("quote should fail without a fixtures file")
	}
}

func TestQuoteCommand_HTTPMode(t *testing.T) {
	setupTestEnvironment(t)

	records, err := bill.LoadRecords([]byte(testutil.SampleFixtures))
	if err != nil {
		t.Fatalf("LoadRecords() error = %v", err)
	}
	srv := httptest.NewServer(billserver.New(bill.NewFixtureResolverFromRecords(records)).Handler())
	defer srv.Close()

	t.Setenv("SOLARSIZER_RESOLVER_MODE", "http")
	t.Setenv("SOLARSIZER_RESOLVER_BASE_URL", srv.URL)

	output, err := executeCommand(rootCmd, "quote", "ABC-1001")
	if err != nil {
		t.Fatalf("quote over http failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "5.00 kW") {
		t.Errorf("output missing system size\nOutput: %s", output)
	}
}

func TestQuoteCommand_InvalidConfig(t *testing.T) {
	setupTestEnvironment(t)
	t.Setenv("SOLARSIZER_RESOLVER_MODE", "carrier-pigeon")

	_, err := executeCommand(rootCmd, "quote", "ABC-1001")
	if err == nil {
		t.Fatal("quote should fail with an invalid resolver mode")
	}
	if !strings.Contains(err.Error(), "resolver.mode") {
		t.Errorf("error = %q, want it to name resolver.mode", err.Error())
	}
}

func TestStartCommand_RequiresTerminal(t *testing.T) {
	setupTestEnvironment(t)

	_, err := executeCommand(rootCmd, "start")
	if err == nil {
		t.Skip("stdout is a terminal")
	}
	if !strings.Contains(err.Error(), "interactive terminal") {
		t.Errorf("error = %q, want the terminal hint", err.Error())
	}
}

func TestConfigShow(t *testing.T) {
	setupTestEnvironment(t)

	output, err := executeCommand(rootCmd, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v\nOutput: %s", err, output)
	}

	var cfg config.Config
	if err := yaml.Unmarshal([]byte(output), &cfg); err != nil {
		t.Fatalf("config show output is not YAML: %v\nOutput: %s", err, output)
	}
	if cfg.Resolver.Mode != config.ResolverModeFixture {
		t.Errorf("resolver.mode = %q, want %q", cfg.Resolver.Mode, config.ResolverModeFixture)
	}
	if cfg.TUI.ChartYears != 25 {
		t.Errorf("tui.chart_years = %d, want 25", cfg.TUI.ChartYears)
	}
}

func TestConfigShow_EnvOverride(t *testing.T) {
	setupTestEnvironment(t)
	t.Setenv("SOLARSIZER_TUI_CHART_YEARS", "10")

	output, err := executeCommand(rootCmd, "config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(output, "chart_years: 10") {
		t.Errorf("env override not applied\nOutput: %s", output)
	}
}

func TestConfigSet(t *testing.T) {
	setupTestEnvironment(t)

	output, err := executeCommand(rootCmd, "config", "set", "resolver.timeout_seconds", "30")
	if err != nil {
		t.Fatalf("config set failed: %v\nOutput: %s", err, output)
	}

	data, err := os.ReadFile(config.ConfigFile())
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "timeout_seconds: 30") {
		t.Errorf("config file missing new value:\n%s", data)
	}
}

func TestConfigSet_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "resolver.colour", "blue"},
		{"bad bool", "resolver.watch_fixtures", "yes"},
		{"bad int", "tui.chart_years", "many"},
		{"bad float", "sizing.cost_per_kw", "cheap"},
		{"bad mode", "resolver.mode", "smoke-signal"},
		{"fails validation", "resolver.timeout_seconds", "-5"},
		{"bad locale", "tui.locale", "not a locale!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnvironment(t)

			if _, err := executeCommand(rootCmd, "config", "set", tt.key, tt.value); err == nil {
				t.Fatalf("config set %s %s should fail", tt.key, tt.value)
			}
			if _, err := os.Stat(config.ConfigFile()); !os.IsNotExist(err) {
				t.Error("config file written for a rejected value")
			}
		})
	}
}

func TestConfigInit(t *testing.T) {
	setupTestEnvironment(t)

	output, err := executeCommand(rootCmd, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v\nOutput: %s", err, output)
	}

	data, err := os.ReadFile(config.ConfigFile())
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("generated config is not YAML: %v", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("generated config is invalid: %v", config.ValidationErrors(errs))
	}
	if cfg.BillServer.Addr != config.Default().BillServer.Addr {
		t.Errorf("billserver.addr = %q, want %q", cfg.BillServer.Addr, config.Default().BillServer.Addr)
	}

	if _, err := executeCommand(rootCmd, "config", "init"); err == nil {
		t.Error("second config init should fail")
	}
}

func TestConfigPath(t *testing.T) {
	setupTestEnvironment(t)

	output, err := executeCommand(rootCmd, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if !strings.Contains(output, config.ConfigFile()) {
		t.Errorf("output missing %s\nOutput: %s", config.ConfigFile(), output)
	}
	if !strings.Contains(output, "SOLARSIZER_") {
		t.Errorf("output missing env prefix\nOutput: %s", output)
	}
}

func TestConfigFlag(t *testing.T) {
	setupTestEnvironment(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("tui:\n  chart_years: 7\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	output, err := executeCommand(rootCmd, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(output, "chart_years: 7") {
		t.Errorf("--config file not read\nOutput: %s", output)
	}
}

// writeSessionLogs writes two wizard sessions to the debug log.
func writeSessionLogs(t *testing.T) {
	t.Helper()

	logger, err := logging.NewLogger(config.StateDir(), "debug")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	first := logger.WithSession("session-one")
	first.Info("wizard started")
	first.WithReference("ABC-2002").Warn("bill lookup failed", "error", "timeout")

	second := logger.WithSession("session-two")
	second.Info("wizard started")
	second.WithReference("ABC-1001").Info("quote ready", "size_kw", 5)
	second.WithView("/quote").Debug("view mounted")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestLogsCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name:    "latest session only",
			args:    nil,
			want:    []string{"quote ready", "view=/quote"},
			notWant: []string{"bill lookup failed"},
		},
		{
			name: "all sessions",
			args: []string{"--all"},
			want: []string{"quote ready", "bill lookup failed"},
		},
		{
			name:    "explicit session",
			args:    []string{"--session", "session-one"},
			want:    []string{"bill lookup failed"},
			notWant: []string{"quote ready"},
		},
		{
			name:    "minimum level",
			args:    []string{"--all", "--level", "warn"},
			want:    []string{"bill lookup failed"},
			notWant: []string{"wizard started", "quote ready"},
		},
		{
			name:    "reference",
			args:    []string{"--all", "--reference", "abc-1001"},
			want:    []string{"quote ready", "reference=ABC-1001"},
			notWant: []string{"bill lookup failed"},
		},
		{
			name:    "grep extra fields",
			args:    []string{"--all", "--grep", "time.ut"},
			want:    []string{"bill lookup failed"},
			notWant: []string{"quote ready"},
		},
		{
			name:    "tail",
			args:    []string{"--all", "-n", "1"},
			want:    []string{"view mounted"},
			notWant: []string{"quote ready"},
		},
		{
			name: "nothing matches",
			args: []string{"--since", "1ns"},
			want: []string{"No matching log entries found."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnvironment(t)
			writeSessionLogs(t)
			if tt.name == "nothing matches" {
				time.Sleep(time.Millisecond)
			}

			output, err := executeCommand(rootCmd, append([]string{"logs"}, tt.args...)...)
			if err != nil {
				t.Fatalf("logs failed: %v\nOutput: %s", err, output)
			}
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q\nOutput: %s", want, output)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(output, notWant) {
					t.Errorf("output should not contain %q\nOutput: %s", notWant, output)
				}
			}
		})
	}
}

func TestLogsCommand_NoLog(t *testing.T) {
	setupTestEnvironment(t)

	output, err := executeCommand(rootCmd, "logs")
	if err != nil {
		t.Fatalf("logs failed: %v", err)
	}
	if !strings.Contains(output, "No logs found") {
		t.Errorf("output = %q, want the no-logs hint", output)
	}
}

func TestLogsCommand_BadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad duration", []string{"--since", "yesterday"}},
		{"bad pattern", []string{"--grep", "("}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnvironment(t)
			writeSessionLogs(t)

			if _, err := executeCommand(rootCmd, append([]string{"logs"}, tt.args...)...); err == nil {
				t.Error("logs should fail")
			}
		})
	}
}

func TestParseConfigValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{"resolver.watch_fixtures", "false", false, false},
		{"tui.chart_years", "12", 12, false},
		{"sizing.peak_sun_hours", "4.5", 4.5, false},
		{"resolver.mode", "http", "http", false},
		{"tui.currency_symbol", "$", "$", false},
		{"resolver.mode", "ftp", nil, true},
		{"nope", "1", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := parseConfigValue(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseConfigValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseConfigValue() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}
