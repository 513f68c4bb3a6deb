package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "warn")

	logger.Debugf("debug %d", 1)
	logger.Infof("info %d", 2)
	logger.Warnf("warn %d", 3)
	logger.Errorf("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "[DEBUG]") || strings.Contains(out, "[INFO]") {
		t.Errorf("lines below warn should be filtered: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") || !strings.Contains(out, "[ERROR] error 4") {
		t.Errorf("expected warn and error lines: %q", out)
	}

	for _, tc := range []struct {
		in   string
		want LogLevel
	}{
		{"DEBUG", LogLevelDebug}, {"warning", LogLevelWarn}, {"error", LogLevelError}, {"bogus", LogLevelInfo},
	} {
		if got := ParseLogLevel(tc.in); got != tc.want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
