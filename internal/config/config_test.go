package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/csmclaren/charfreq-tools/internal/config"
)

func TestLoadDefaultsWhenNoFileExists(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_STATE_HOME", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "ngrams", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}
	if want := filepath.Join(tempHome, ".local", "state", "ngrams"); cfg.Paths.StateDir != want {
		t.Fatalf("state dir = %q, want %q", cfg.Paths.StateDir, want)
	}
	if cfg.HistoryPath() != filepath.Join(cfg.Paths.StateDir, "history.db") {
		t.Fatalf("unexpected history path %q", cfg.HistoryPath())
	}
	if cfg.LogFile() != "" {
		t.Fatalf("expected file logging off by default, got %q", cfg.LogFile())
	}
	if cfg.Export.SampleLimit != 256 {
		t.Fatalf("sample limit = %d", cfg.Export.SampleLimit)
	}
	if cfg.Scan.ProgressInterval != 1000 || cfg.Scan.Progress != config.ProgressDots {
		t.Fatalf("unexpected progress defaults %+v", cfg.Scan)
	}
	if cfg.BufferSize() != 64*1024 {
		t.Fatalf("buffer size = %d", cfg.BufferSize())
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadHonoursXDGStateHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.StateDir != filepath.Join(state, "ngrams") {
		t.Fatalf("state dir = %q", cfg.Paths.StateDir)
	}
}

func TestLoadCustomFileExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "ngrams.toml")
	content := `
[paths]
state_dir = "~/state"
log_dir = "~/logs"

[scan]
patterns = ["\\.txt$", ""]
input_encoding = " Latin1 "
newlines = "RAW"
progress = "none"

[export]
sample_limit = 10

[logging]
format = "JSON"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v", resolved, exists)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "state") {
		t.Fatalf("state dir = %q", cfg.Paths.StateDir)
	}
	if cfg.LogFile() != filepath.Join(tempHome, "logs", "ngrams.log") {
		t.Fatalf("log file = %q", cfg.LogFile())
	}
	if len(cfg.Scan.Patterns) != 1 || cfg.Scan.Patterns[0] != `\.txt$` {
		t.Fatalf("patterns = %q", cfg.Scan.Patterns)
	}
	charset, err := cfg.InputCharset()
	if err != nil {
		t.Fatalf("InputCharset: %v", err)
	}
	if charset.IsUTF8() {
		t.Fatalf("expected latin1 charset, got %s", charset.Name())
	}
	mode, err := cfg.NewlineMode()
	if err != nil || mode.String() != "raw" {
		t.Fatalf("newline mode = %v, %v", mode, err)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format = %q", cfg.Logging.Format)
	}
	if cfg.Export.SampleLimit != 10 {
		t.Fatalf("sample limit = %d", cfg.Export.SampleLimit)
	}
	if cfg.Export.OutputEncoding != "utf-8" {
		t.Fatalf("output encoding = %q", cfg.Export.OutputEncoding)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad pattern", "[scan]\npatterns = [\"(\"]\n", "scan.patterns"},
		{"bad encoding", "[scan]\ninput_encoding = \"klingon\"\n", "scan.input_encoding"},
		{"bad newlines", "[scan]\nnewlines = \"mac\"\n", "scan.newlines"},
		{"bad progress", "[scan]\nprogress = \"fireworks\"\n", "scan.progress"},
		{"zero interval", "[scan]\nprogress_interval = 0\n", "scan.progress_interval"},
		{"huge buffer", "[scan]\nbuffer_kib = 999999\n", "scan.buffer_kib"},
		{"negative sample", "[export]\nsample_limit = -1\n", "export.sample_limit"},
		{"bad output encoding", "[export]\noutput_encoding = \"nope\"\n", "export.output_encoding"},
		{"bad log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"bad log level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"unknown key", "[scan]\ncolour = true\n", "colour"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleParsesAndRefusesOverwrite(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := config.CreateSample(path, false); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if decoded.Export.SampleLimit != config.Default().Export.SampleLimit {
		t.Fatalf("sample disagrees with defaults: %d", decoded.Export.SampleLimit)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}

	err = config.CreateSample(path, false)
	if !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}
	if err := config.CreateSample(path, true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestEnsureStateDirCreatesLockDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(t.TempDir(), "state")
	if err := cfg.EnsureStateDir(); err != nil {
		t.Fatalf("EnsureStateDir: %v", err)
	}
	info, err := os.Stat(cfg.LockDir())
	if err != nil || !info.IsDir() {
		t.Fatalf("lock dir missing: %v", err)
	}
}
