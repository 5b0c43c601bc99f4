package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pricescout/pricescout/internal/config"
)

// writeTestConfig writes a minimal valid config file and returns its path.
func writeTestConfig(t *testing.T) string {
	t.Helper()

	content := `
sites:
  - name: amazon
    searchUrl: "https://www.amazon.com/s?k={query}"
    currency: USD
    countries:
      US: 1
    selectors:
      offer: "div.s-result-item"
      name: "span.a-text-normal"
      price: "span.a-offscreen"
reliability:
  amazon: 0.9
rates:
  EUR: 0.92
`
	path := filepath.Join(t.TempDir(), ".pricescout")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// TestNewSearchCmd tests the search command creation.
func TestNewSearchCmd(t *testing.T) {
	t.Parallel()

	cmd := NewSearchCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "search <query>" {
			t.Errorf("expected use 'search <query>', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"country", "max-results", "timeout", "currency",
			"include", "exclude", "concurrency", "threshold",
			"price-variance", "delay", "config", "json",
			"markdown", "output", "no-save",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})

	t.Run("flag defaults match config defaults", func(t *testing.T) {
		t.Parallel()
		if got := cmd.Flags().Lookup("timeout").DefValue; got != config.DefaultTimeout.String() {
			t.Errorf("timeout default = %q, want %q", got, config.DefaultTimeout)
		}
		if got := cmd.Flags().Lookup("currency").DefValue; got != config.DefaultTargetCurrency {
			t.Errorf("currency default = %q, want %q", got, config.DefaultTargetCurrency)
		}
	})
}

// TestBuildConfig tests flag-to-config translation.
func TestBuildConfig(t *testing.T) {
	t.Run("applies flag values", func(t *testing.T) {
		configPath := writeTestConfig(t)

		cmd := NewSearchCmd()
		for flag, value := range map[string]string{
			"config":      configPath,
			"timeout":     "30s",
			"max-results": "10",
			"currency":    "eur",
			"concurrency": "3",
			"no-save":     "true",
		} {
			if err := cmd.Flags().Set(flag, value); err != nil {
				t.Fatalf("failed to set flag %s: %v", flag, err)
			}
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}

		if cfg.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
		}
		if cfg.MaxResults != 10 {
			t.Errorf("MaxResults = %d, want 10", cfg.MaxResults)
		}
		if cfg.TargetCurrency != "EUR" {
			t.Errorf("TargetCurrency = %q, want EUR (uppercased)", cfg.TargetCurrency)
		}
		if cfg.MaxConcurrent != 3 {
			t.Errorf("MaxConcurrent = %d, want 3", cfg.MaxConcurrent)
		}
		if cfg.SaveHistory {
			t.Error("SaveHistory = true, want false with --no-save")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("loads config file sites", func(t *testing.T) {
		configPath := writeTestConfig(t)

		cmd := NewSearchCmd()
		if err := cmd.Flags().Set("config", configPath); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}

		if len(cfg.File.Sites) != 1 || cfg.File.Sites[0].Name != "amazon" {
			t.Errorf("Sites = %+v, want one amazon site", cfg.File.Sites)
		}
		if cfg.File.Reliability["amazon"] != 0.9 {
			t.Errorf("Reliability[amazon] = %v, want 0.9", cfg.File.Reliability["amazon"])
		}
		if cfg.File.Rates["EUR"] != 0.92 {
			t.Errorf("Rates[EUR] = %v, want 0.92", cfg.File.Rates["EUR"])
		}
	})

	t.Run("explicit missing config file errors", func(t *testing.T) {
		cmd := NewSearchCmd()
		missing := filepath.Join(t.TempDir(), "nope.yaml")
		if err := cmd.Flags().Set("config", missing); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}

		if _, err := buildConfig(cmd); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})

	t.Run("conflicting report formats fail validation", func(t *testing.T) {
		configPath := writeTestConfig(t)

		cmd := NewSearchCmd()
		for flag, value := range map[string]string{
			"config":   configPath,
			"json":     "true",
			"markdown": "true",
		} {
			if err := cmd.Flags().Set(flag, value); err != nil {
				t.Fatalf("failed to set flag %s: %v", flag, err)
			}
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if err := cfg.Validate(); err == nil {
			t.Error("expected validation error for --json with --markdown")
		}
	})
}

// TestRunSourcesCmd tests the sources command.
func TestRunSourcesCmd(t *testing.T) {
	t.Run("lists configured sites", func(t *testing.T) {
		configPath := writeTestConfig(t)

		cmd := NewSourcesCmd()
		var buf strings.Builder
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"-c", configPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "amazon") {
			t.Errorf("expected output to list amazon, got %q", output)
		}
		if !strings.Contains(output, "US(1)") {
			t.Errorf("expected output to show country priority, got %q", output)
		}
		if !strings.Contains(output, "1 source(s)") {
			t.Errorf("expected source count, got %q", output)
		}
	})

	t.Run("country filter excludes unsupported sites", func(t *testing.T) {
		configPath := writeTestConfig(t)

		cmd := NewSourcesCmd()
		var buf strings.Builder
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"-c", configPath, "--country", "DE"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "(none)") {
			t.Errorf("expected no DE sources, got %q", buf.String())
		}
	})

	t.Run("explicit missing config file errors", func(t *testing.T) {
		cmd := NewSourcesCmd()
		cmd.SetOut(&strings.Builder{})
		cmd.SetErr(&strings.Builder{})
		cmd.SetArgs([]string{"-c", filepath.Join(t.TempDir(), "nope.yaml")})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})
}

// TestFormatCountries tests country map rendering.
func TestFormatCountries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		countries map[string]int
		want      string
	}{
		{
			name:      "sorted codes",
			countries: map[string]int{"US": 1, "CA": 2, "GB": 3},
			want:      "CA(2) GB(3) US(1)",
		},
		{
			name:      "empty",
			countries: nil,
			want:      "(none)",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatCountries(tt.countries); got != tt.want {
				t.Errorf("formatCountries() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestTruncateQuery tests list-view query shortening.
func TestTruncateQuery(t *testing.T) {
	t.Parallel()

	if got := truncateQuery("short", 30); got != "short" {
		t.Errorf("truncateQuery() = %q, want unchanged", got)
	}
	long := strings.Repeat("x", 40)
	got := truncateQuery(long, 30)
	if len(got) != 30 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncateQuery() = %q, want 30 chars ending in ...", got)
	}
}
