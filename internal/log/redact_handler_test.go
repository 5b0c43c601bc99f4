package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestRedactHandlerMasksSensitiveKeys tests key-based redaction.
func TestRedactHandlerMasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "api key header", key: "X-Api-Key", value: "abc123"},
		{name: "cookie", key: "cookie", value: "session=xyz"},
		{name: "authorization", key: "Authorization", value: "whatever"},
		{name: "keyword match", key: "site_password", value: "hunter2"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewRedactLogger(&buf, slog.LevelDebug)

			logger.Info("scraping site", tt.key, tt.value)

			out := buf.String()
			if strings.Contains(out, tt.value) {
				t.Errorf("sensitive value %q leaked into log: %s", tt.value, out)
			}
			if !strings.Contains(out, MaskValue) {
				t.Errorf("expected mask value in log output: %s", out)
			}
		})
	}
}

// TestRedactHandlerMasksSensitiveValues tests value-pattern redaction.
func TestRedactHandlerMasksSensitiveValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewRedactLogger(&buf, slog.LevelDebug)

	logger.Info("request", "header_value", "Bearer secrettoken123")

	out := buf.String()
	if strings.Contains(out, "secrettoken123") {
		t.Errorf("bearer token leaked into log: %s", out)
	}
}

// TestRedactHandlerKeepsNormalAttrs tests that ordinary attributes pass through.
func TestRedactHandlerKeepsNormalAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewRedactLogger(&buf, slog.LevelDebug)

	logger.Info("provider finished", "provider", "amazon", "offers", 12)

	out := buf.String()
	if !strings.Contains(out, "amazon") {
		t.Errorf("expected provider name in output: %s", out)
	}
	if strings.Contains(out, MaskValue) {
		t.Errorf("unexpected redaction of normal attributes: %s", out)
	}
}

// TestRedactHandlerGroups tests that group attributes are sanitized recursively.
func TestRedactHandlerGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewRedactLogger(&buf, slog.LevelDebug)

	logger.Info("site config",
		slog.Group("headers",
			slog.String("X-Api-Key", "supersecret"),
			slog.String("Accept", "text/html"),
		),
	)

	out := buf.String()
	if strings.Contains(out, "supersecret") {
		t.Errorf("grouped secret leaked into log: %s", out)
	}
	if !strings.Contains(out, "text/html") {
		t.Errorf("expected non-sensitive group attribute in output: %s", out)
	}
}
