package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLevelFromEnv(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"":      logrus.InfoLevel,
		"bogus": logrus.InfoLevel,
	}
	for value, want := range cases {
		t.Setenv("LOG_LEVEL", value)
		if got := LevelFromEnv(); got != want {
			t.Fatalf("LOG_LEVEL=%q: expected %v, got %v", value, want, got)
		}
	}
}

func TestNewLoggerWithServiceStampsEntries(t *testing.T) {
	logger := NewLoggerWithService("contently")
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	logger.WithField("post_id", "p1").Info("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["service"] != "contently" {
		t.Fatalf("expected service field, got %v", entry["service"])
	}
	if entry["post_id"] != "p1" {
		t.Fatalf("expected post_id field, got %v", entry["post_id"])
	}
}
