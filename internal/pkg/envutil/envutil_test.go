package envutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSourceEnvOverridesFile(t *testing.T) {
	s := New(map[string]string{"BMS_TEST_ADDR": ":9000", "BMS_TEST_PORT": "5432"}, nil)
	t.Setenv("BMS_TEST_ADDR", ":8080")

	if got := s.String("BMS_TEST_ADDR", ":1"); got != ":8080" {
		t.Fatalf("env should win: got %q", got)
	}
	if got := s.Int("BMS_TEST_PORT", 1); got != 5432 {
		t.Fatalf("file value: got %d", got)
	}
	if got := s.String("BMS_TEST_MISSING", "def"); got != "def" {
		t.Fatalf("default: got %q", got)
	}
}

func TestSourceTypedParsing(t *testing.T) {
	s := New(map[string]string{
		"B_YES":   "Yes",
		"B_BAD":   "maybe",
		"I_BAD":   "ten",
		"F_RATIO": "0.25",
		"D_WAIT":  "1500ms",
		"L_LIST":  " a, ,b ,",
	}, nil)

	if !s.Bool("B_YES", false) {
		t.Fatalf("Bool(yes) = false")
	}
	if !s.Bool("B_BAD", true) {
		t.Fatalf("unparseable bool should fall back to default")
	}
	if got := s.Int("I_BAD", 7); got != 7 {
		t.Fatalf("unparseable int: got %d", got)
	}
	if got := s.Float("F_RATIO", 1); got != 0.25 {
		t.Fatalf("float: got %v", got)
	}
	if got := s.Duration("D_WAIT", 0); got != 1500*time.Millisecond {
		t.Fatalf("duration: got %v", got)
	}
	got := s.List("L_LIST")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("list: got %#v", got)
	}
	if s.List("L_MISSING") != nil {
		t.Fatalf("missing list should be nil")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "http_addr: \":8081\"\nMETRICS_ENABLED: true\nCORS_ORIGINS:\n  - https://a.example\n  - https://b.example\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	vals, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if vals["HTTP_ADDR"] != ":8081" || vals["METRICS_ENABLED"] != "true" {
		t.Fatalf("scalars: %#v", vals)
	}
	if vals["CORS_ORIGINS"] != "https://a.example,https://b.example" {
		t.Fatalf("list: %q", vals["CORS_ORIGINS"])
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("NESTED:\n  a: 1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Fatalf("nested mapping should be rejected")
	}
}
