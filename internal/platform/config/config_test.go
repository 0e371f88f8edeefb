// internal/platform/config/config_test.go
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"arlo/internal/platform/registry"
	"arlo/internal/testutil"
)

// clearEnv deja vacías las variables que Load consulta.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG", "TIMEOUT_MS", "GRACE_MS", "LOG_LEVEL", "ID_FIELD", "OUTPUT", "PRETTY", "QUIET",
		"PROXY_URL", "USER_AGENT", "RATE_LIMIT", "LISTEN",
		"SOURCES_ROTTENTOMATOES_ENABLED", "SOURCES_THEMOVIEDB_ENABLED", "SOURCES_THETVDB_ENABLED",
		"SOURCES_ROTTENTOMATOES_URL", "SOURCES_THEMOVIEDB_URL", "SOURCES_THETVDB_URL",
	} {
		t.Setenv(EnvPrefix+k, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arlo.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestGetenv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		def      string
		envValue string
		expected string
	}{
		{"env var exists", "ARLO_TEST_KEY_1", "default", "custom", "custom"},
		{"env var missing - uses default", "ARLO_TEST_KEY_MISSING", "default", "", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getenv(tt.key, tt.def)

			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}

	t.Run("env var empty string", func(t *testing.T) {
		t.Setenv("ARLO_TEST_KEY_EMPTY", "")
		if got := getenv("ARLO_TEST_KEY_EMPTY", "default"); got != "default" {
			t.Errorf("expected %q, got %q", "default", got)
		}
	})
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		// Truthy values
		{"1", true},
		{"t", true},
		{"true", true},
		{"TRUE", true},
		{"y", true},
		{"yes", true},
		{"on", true},
		{" true ", true},

		// Falsy values
		{"0", false},
		{"false", false},
		{"n", false},
		{"no", false},
		{"off", false},
		{"", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseBool(tt.input)
			if result != tt.expected {
				t.Errorf("parseBool(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		def      int
		expected int
	}{
		{"valid integer", "42", 10, 42},
		{"negative integer", "-5", 10, -5},
		{"with spaces", "  100  ", 10, 100},
		{"invalid - returns default", "abc", 10, 10},
		{"empty - returns default", "", 10, 10},
		{"float - returns default", "3.14", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseInt(tt.input, tt.def)
			if result != tt.expected {
				t.Errorf("parseInt(%q, %d) = %d, expected %d", tt.input, tt.def, result, tt.expected)
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	testutil.AssertEqual(t, parseFloat("2.5", 1), 2.5, "valid float")
	testutil.AssertEqual(t, parseFloat("x", 1), 1.0, "invalid returns default")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input Config
		check func(t *testing.T, c Config)
	}{
		{
			name:  "non-positive timeout falls back to default",
			input: Config{Core: Core{TimeoutMS: 0, GraceMS: -1}},
			check: func(t *testing.T, c Config) {
				testutil.AssertEqual(t, c.Core.TimeoutMS, 20000, "timeout")
				testutil.AssertEqual(t, c.Core.GraceMS, 2000, "grace")
			},
		},
		{
			name:  "keyword trimmed",
			input: Config{Core: Core{Keyword: "  star wars  "}},
			check: func(t *testing.T, c Config) {
				testutil.AssertEqual(t, c.Core.Keyword, "star wars", "keyword")
			},
		},
		{
			name:  "empty id field restored",
			input: Config{Source: Source{IDField: "  "}},
			check: func(t *testing.T, c Config) {
				testutil.AssertEqual(t, c.Source.IDField, "imdbId", "id field")
			},
		},
		{
			name:  "negative rate limit disabled",
			input: Config{Network: Network{RateLimit: -3}},
			check: func(t *testing.T, c Config) {
				testutil.AssertEqual(t, c.Network.RateLimit, 0.0, "rate limit")
			},
		},
		{
			name:  "log level lowercased",
			input: Config{Core: Core{LogLevel: " DEBUG "}},
			check: func(t *testing.T, c Config) {
				testutil.AssertEqual(t, c.Core.LogLevel, "debug", "log level")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.input
			normalize(&cfg)
			tt.check(t, cfg)
		})
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := Config{Core: Core{TimeoutMS: 1500, GraceMS: 250}}

	testutil.AssertEqual(t, cfg.Timeout(), 1500*time.Millisecond, "timeout")
	testutil.AssertEqual(t, cfg.Grace(), 250*time.Millisecond, "grace")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"alien"}, "1.0.0", "test", "2026-01-01")

	testutil.AssertNoError(t, err, "load")
	testutil.AssertEqual(t, cfg.Core.Keyword, "alien", "keyword")
	testutil.AssertEqual(t, cfg.Core.TimeoutMS, 20000, "timeout")
	testutil.AssertEqual(t, cfg.Core.GraceMS, 2000, "grace")
	testutil.AssertEqual(t, cfg.Source.IDField, "imdbId", "id field")
	testutil.AssertEqual(t, cfg.Source.Sources, registry.DefaultEntries(), "default catalog")
	testutil.AssertEqual(t, cfg.Output.File, "", "stdout")
	testutil.AssertFalse(t, cfg.Server.Enabled, "serve disabled")
	testutil.AssertEqual(t, cfg.Network.ProxyURL, "", "no proxy")
	testutil.AssertEqual(t, cfg.File, "", "no config file")
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARLO_TIMEOUT_MS", "5000")
	t.Setenv("ARLO_GRACE_MS", "750")
	t.Setenv("ARLO_ID_FIELD", "tvdbId")
	t.Setenv("ARLO_PROXY_URL", "socks5://127.0.0.1:1080")
	t.Setenv("ARLO_RATE_LIMIT", "2.5")
	t.Setenv("ARLO_SOURCES_ROTTENTOMATOES_ENABLED", "false")
	t.Setenv("ARLO_SOURCES_THETVDB_URL", "https://mirror.example/tvdb?q={keyword}")

	cfg, err := Load([]string{"alien"}, "1.0.0", "test", "2026-01-01")

	testutil.AssertNoError(t, err, "load")
	testutil.AssertEqual(t, cfg.Core.TimeoutMS, 5000, "timeout from env")
	testutil.AssertEqual(t, cfg.Core.GraceMS, 750, "grace from env")
	testutil.AssertEqual(t, cfg.Source.IDField, "tvdbId", "id field from env")
	testutil.AssertEqual(t, cfg.Network.ProxyURL, "socks5://127.0.0.1:1080", "proxy from env")
	testutil.AssertEqual(t, cfg.Network.RateLimit, 2.5, "rate limit from env")
	testutil.AssertFalse(t, cfg.Source.Sources[0].Enabled, "rottentomatoes disabled")
	testutil.AssertEqual(t, cfg.Source.Sources[2].Template, "https://mirror.example/tvdb?q={keyword}", "thetvdb url")
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARLO_TIMEOUT_MS", "5000")
	t.Setenv("ARLO_SOURCES_THETVDB_ENABLED", "false")

	cfg, err := Load([]string{
		"-T", "900", "--grace=100", "--pretty", "-q", "-o", "out.json",
		"--src.thetvdb=true", "--src.themoviedb=false", "star wars",
	}, "1.0.0", "test", "2026-01-01")

	testutil.AssertNoError(t, err, "load")
	testutil.AssertEqual(t, cfg.Core.TimeoutMS, 900, "flag beats env")
	testutil.AssertEqual(t, cfg.Core.GraceMS, 100, "grace flag")
	testutil.AssertTrue(t, cfg.Output.Pretty, "pretty")
	testutil.AssertTrue(t, cfg.Output.UIDisabled, "quiet")
	testutil.AssertEqual(t, cfg.Output.File, "out.json", "output file")
	testutil.AssertTrue(t, cfg.Source.Sources[2].Enabled, "thetvdb re-enabled by flag")
	testutil.AssertFalse(t, cfg.Source.Sources[1].Enabled, "themoviedb disabled by flag")
	testutil.AssertEqual(t, cfg.Core.Keyword, "star wars", "keyword with space")
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
timeout_ms: 3000
id_field: imdbId
pretty: true
sources:
  - name: primary
    url: http://primary.example/?q={keyword}
  - name: backup
    url: https://backup.example/search/{keyword}
    enabled: false
`)

	cfg, err := Load([]string{"--config", path, "--src.backup", "alien"}, "1.0.0", "test", "2026-01-01")

	testutil.AssertNoError(t, err, "load")
	testutil.AssertEqual(t, cfg.File, path, "file recorded")
	testutil.AssertEqual(t, cfg.Core.TimeoutMS, 3000, "timeout from file")
	testutil.AssertTrue(t, cfg.Output.Pretty, "pretty from file")
	testutil.AssertLen(t, cfg.Source.Sources, 2, "file replaces default catalog")
	testutil.AssertEqual(t, cfg.Source.Sources[0].Name, "primary", "order kept")
	testutil.AssertTrue(t, cfg.Source.Sources[0].Enabled, "enabled defaults to true")
	testutil.AssertTrue(t, cfg.Source.Sources[1].Enabled, "flag registered for file source")
}

func TestLoad_FileFromEnvAndEnvBeatsFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "timeout_ms: 3000\n")
	t.Setenv("ARLO_CONFIG", path)
	t.Setenv("ARLO_TIMEOUT_MS", "4000")

	cfg, err := Load([]string{"alien"}, "1.0.0", "test", "2026-01-01")

	testutil.AssertNoError(t, err, "load")
	testutil.AssertEqual(t, cfg.File, path, "file from env")
	testutil.AssertEqual(t, cfg.Core.TimeoutMS, 4000, "env beats file")
}

func TestLoad_FileErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml"), "alien"}, "", "", "")
	testutil.AssertError(t, err, "missing file")

	bad := writeFile(t, "timeout_ms: [1, 2\n")
	_, err = Load([]string{"-c", bad, "alien"}, "", "", "")
	testutil.AssertError(t, err, "malformed yaml")

	unknown := writeFile(t, "timeout_seconds: 3\n")
	_, err = Load([]string{"-c", unknown, "alien"}, "", "", "")
	testutil.AssertError(t, err, "unknown field rejected")
}

func TestLoad_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing keyword", []string{}},
		{"blank keyword", []string{"   "}},
		{"two keywords", []string{"alien", "aliens"}},
		{"unknown flag", []string{"--target", "x", "alien"}},
		{"bad int", []string{"-T", "soon", "alien"}},
		{"serve with keyword", []string{"--serve", "alien"}},
		{"serve bad listen", []string{"--serve", "--listen", "nowhere"}},
		{"bad proxy", []string{"-p", "ftp://x:21", "alien"}},
		{"all sources disabled", []string{"--src.rottentomatoes=false", "--src.themoviedb=false", "--src.thetvdb=false", "alien"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(tt.args, "", "", "")
			testutil.AssertErrorIs(t, err, ErrUsage, "usage error")
		})
	}
}

func TestLoad_Serve(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"--serve", "--listen", ":9000"}, "", "", "")

	testutil.AssertNoError(t, err, "serve needs no keyword")
	testutil.AssertTrue(t, cfg.Server.Enabled, "serve enabled")
	testutil.AssertEqual(t, cfg.Server.Listen, ":9000", "listen")
}

func TestLoad_HelpAndVersionSkipValidation(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"-h"}, "", "", "")
	testutil.AssertNoError(t, err, "help")
	testutil.AssertTrue(t, cfg.Core.PrintHelp, "help requested")

	cfg, err = Load([]string{"--version"}, "", "", "")
	testutil.AssertNoError(t, err, "version")
	testutil.AssertTrue(t, cfg.Core.PrintVersion, "version requested")
}

func TestFindConfigPath(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"--config", "a.yaml", "alien"}, "a.yaml"},
		{[]string{"--config=b.yaml"}, "b.yaml"},
		{[]string{"-c", "c.yaml"}, "c.yaml"},
		{[]string{"-cd.yaml"}, "d.yaml"},
		{[]string{"-c=e.yaml"}, "e.yaml"},
		{[]string{"alien"}, ""},
		{[]string{"--", "--config", "x.yaml"}, ""},
		{[]string{"--config"}, ""},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			testutil.AssertEqual(t, findConfigPath(tt.args), tt.expected, "config path")
		})
	}
}

func TestConfig_ToYAML(t *testing.T) {
	out, err := DefaultConfig().ToYAML()

	testutil.AssertNoError(t, err, "marshal")
	testutil.AssertContains(t, out, "timeout_ms: 20000", "timeout present")
	testutil.AssertContains(t, out, "name: thetvdb", "sources present")
}

func TestPrintHelpAndVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintHelp(&buf)
	testutil.AssertContains(t, buf.String(), "arlo [options] <keyword>", "usage line")

	buf.Reset()
	PrintVersion(&buf, "1.2.3", "abc123", "2026-01-01")
	testutil.AssertContains(t, buf.String(), "arlo 1.2.3", "version line")
	testutil.AssertContains(t, buf.String(), "abc123", "commit")
}
