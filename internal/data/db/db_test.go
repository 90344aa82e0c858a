package db

import (
	"testing"
)

func TestPostgresConfigURL(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: "5432", User: "app", Password: "p@ss", Name: "bms"}
	want := "postgres://app:p%40ss@db:5432/bms?sslmode=disable"
	if got := cfg.URL(); got != want {
		t.Fatalf("URL: want=%q got=%q", want, got)
	}
	cfg.DSN = " postgres://x "
	if got := cfg.URL(); got != "postgres://x" {
		t.Fatalf("DSN should win, got=%q", got)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "mysql"}, nil); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
