package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}

	if logger.caller {
		t.Error("expected caller disabled by default")
	}

	if logger.Format() != FormatText {
		t.Errorf("expected default format text, got %v", logger.Format())
	}

	if !logger.pretty {
		t.Error("expected pretty output enabled by default")
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("debug message")

	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to debug")
	}

	buf.Reset()

	logger2 := Make(&buf, WithLevel(LevelError))
	logger2.Info("info message")

	if buf.Len() > 0 {
		t.Error("info message logged when level is error")
	}

	logger2.Error("error message")

	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at error level")
	}
}

func TestLogger_Make_WithTimeLayout_SetsLayout(t *testing.T) {
	tests := []struct {
		name     string
		layout   string
		contains string
	}{
		{"rfc3339 named", "RFC3339", "T"},
		{"rfc3339 nano named", "RFC3339Nano", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithTimeLayout(tt.layout), WithPretty(false))
			logger.Info("test")

			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf(
					"expected time format to contain %q, got: %s",
					tt.contains,
					buf.String(),
				)
			}
		})
	}
}

func TestLogger_Make_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithCaller(true), WithFormat(FormatJSON))
	logger.Info("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("caller info does not name the calling file: %s", buf.String())
	}

	buf.Reset()

	logger2 := Make(&buf, WithCaller(false), WithFormat(FormatJSON))
	logger2.Info("test message")

	if strings.Contains(buf.String(), "source") {
		t.Error("caller info included when disabled")
	}
}

func TestLogger_Make_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithFormat(FormatJSON))
		logger.Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}

		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}

		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}
	})

	for _, pretty := range []bool{false, true} {
		name := "text"
		if pretty {
			name = "pretty"
		}

		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithFormat(FormatText), WithPretty(pretty))
			logger.Info("test message", slog.String("key", "value"))

			output := buf.String()
			if !strings.Contains(output, "test message") {
				t.Error("message not found in text output")
			}

			if !strings.Contains(output, "key=value") {
				t.Errorf("key=value not found in text output: %s", output)
			}
		})
	}
}

func TestLogger_LogMethods_RespectLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at error", Logger.Error, LevelError, true},
		{"error at debug", Logger.Error, LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithLevel(tt.minLevel))
			tt.logFunc(logger, "test message")

			if hasOutput := buf.Len() > 0; hasOutput != tt.logged {
				t.Errorf(
					"expected logged=%v, got output length=%d",
					tt.logged,
					buf.Len(),
				)
			}
		})
	}
}

func TestLogger_AllLevels_RenderLevelName(t *testing.T) {
	tests := []struct {
		logFunc func(Logger, string, ...slog.Attr)
		level   string
	}{
		{Logger.Trace, "TRACE"},
		{Logger.Debug, "DEBUG"},
		{Logger.Info, "INFO"},
		{Logger.Warn, "WARN"},
		{Logger.Error, "ERROR"},
	}

	for _, format := range []Format{FormatText, FormatJSON} {
		for _, tt := range tests {
			t.Run(format.String()+"/"+tt.level, func(t *testing.T) {
				var buf bytes.Buffer

				logger := Make(&buf, WithLevel(LevelTrace), WithFormat(format))
				tt.logFunc(logger, "test message")

				output := buf.String()
				if !strings.Contains(output, tt.level) {
					t.Errorf("expected level %q, got: %s", tt.level, output)
				}

				if strings.Contains(output, "DEBUG-4") {
					t.Errorf("trace rendered with slog offset name: %s", output)
				}
			})
		}
	}
}

func TestLogger_ContextMethods_LogSuccessfully(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...slog.Attr)
	}{
		{"trace", func(l Logger, msg string, attrs ...slog.Attr) {
			l.TraceContext(t.Context(), msg, attrs...)
		}},
		{"debug", func(l Logger, msg string, attrs ...slog.Attr) {
			l.DebugContext(t.Context(), msg, attrs...)
		}},
		{"info", func(l Logger, msg string, attrs ...slog.Attr) {
			l.InfoContext(t.Context(), msg, attrs...)
		}},
		{"warn", func(l Logger, msg string, attrs ...slog.Attr) {
			l.WarnContext(t.Context(), msg, attrs...)
		}},
		{"error", func(l Logger, msg string, attrs ...slog.Attr) {
			l.ErrorContext(t.Context(), msg, attrs...)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithLevel(LevelTrace))
			tt.logFunc(logger, "test message")

			if !strings.Contains(buf.String(), "test message") {
				t.Errorf("expected %s message to be logged", tt.name)
			}
		})
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		logger := Make(&buf, WithPretty(pretty))

		var wg sync.WaitGroup

		for i := range 100 {
			wg.Go(func() {
				logger.Info("concurrent message", slog.Int("id", i))
			})
		}

		wg.Wait()

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 100 {
			t.Errorf("pretty=%v: expected 100 log lines, got %d", pretty, len(lines))
		}
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithFormat(FormatJSON))
		logger.With(slog.String("key", "value")).Info("test message")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("failed to unmarshal log entry: %v", err)
		}

		if val, ok := entry["key"]; !ok || val != "value" {
			t.Errorf("expected key=value in log entry, got %v", val)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithPretty(true), WithTimeLayout("none"))
		logger.
			With(slog.String("file", "a.cfg")).
			With(slog.Int("line", 3)).
			Info("test message", slog.Bool("ok", true))

		want := "INFO test message file=a.cfg line=3 ok=true\n"
		if got := buf.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestLogger_Pretty_GroupsAndQuoting(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none"))
	logger.Info("msg",
		slog.Group("node", slog.Int("id", 2), slog.String("name", "a b")),
		slog.String("empty", ""))

	want := `INFO msg node.id=2 node.name="a b" empty=""` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLogger_Wrap_OverridesConfiguration(t *testing.T) {
	var first, second bytes.Buffer

	base := Make(&first, WithLevel(LevelWarn))
	wrapped := base.Wrap(WithOutput(&second), WithLevel(LevelDebug))

	wrapped.Debug("to second")
	base.Debug("dropped")

	if first.Len() != 0 {
		t.Errorf("base logger wrote below its level: %s", first.String())
	}

	if !strings.Contains(second.String(), "to second") {
		t.Error("wrapped logger did not write to its own output")
	}

	if wrapped.Level() != LevelDebug || base.Level() != LevelWarn {
		t.Errorf("levels: base=%v wrapped=%v", base.Level(), wrapped.Level())
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var l Logger

	l.Trace("test")
	l.Debug("test")
	l.Info("test")
	l.Warn("test")
	l.Error("test")

	if l.Enabled(t.Context(), LevelError) {
		t.Error("zero value logger reports enabled")
	}

	if l2 := l.With(slog.String("key", "value")); l2.Logger != nil {
		t.Error("expected nil logger from zero value With")
	}
}

func TestLogger_EmptyTimeLayout_OmitsTime(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithTimeLayout("none"), WithFormat(FormatJSON))
	l.Info("test")

	if strings.Contains(buf.String(), `"time"`) {
		t.Errorf("expected no time field, got: %s", buf.String())
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf)

	for i := 0; b.Loop(); i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_Info_WithCaller(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf, WithCaller(true))

	for i := 0; b.Loop(); i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_Info_WithAttributes(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf).With(slog.String("component", "test"))

	for i := 0; b.Loop(); i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}
