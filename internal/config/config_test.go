package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseValidSinksAndEscapers(t *testing.T) {
	src := `
sinks:
  - function: pg_query
    arg: 0
    tag: postgres
escapers:
  - function: pg_escape_string
    tag: postgres
`
	cfg, err := Parse([]byte(src), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Sinks) != 1 {
		t.Fatalf("expected 1 sink, got %d", len(cfg.Sinks))
	}
	s := cfg.Sinks[0]
	if s.Function != "pg_query" || s.Arg != 0 || s.Tag != "postgres" {
		t.Errorf("sink = %+v, want pg_query/0/postgres", s)
	}
	if len(cfg.Escapers) != 1 || cfg.Escapers[0].Function != "pg_escape_string" {
		t.Errorf("escapers = %+v", cfg.Escapers)
	}
}

func TestParseRejectsMissingFunction(t *testing.T) {
	src := `
sinks:
  - arg: 0
    tag: postgres
`
	if _, err := Parse([]byte(src), "test.yaml"); err == nil {
		t.Fatal("expected an error for a sink with no function name")
	}
}

func TestParseRejectsMissingTag(t *testing.T) {
	src := `
escapers:
  - function: pg_escape_string
`
	if _, err := Parse([]byte(src), "test.yaml"); err == nil {
		t.Fatal("expected an error for an escaper with no tag")
	}
}

func TestParseEmptyConfigIsValid(t *testing.T) {
	cfg, err := Parse([]byte(""), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Sinks) != 0 || len(cfg.Escapers) != 0 {
		t.Errorf("expected an empty config, got %+v", cfg)
	}
}

func TestFindWalksUpToParent(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(root, "tsguard.yaml")
	if err := os.WriteFile(cfgPath, []byte("sinks: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := Find(sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != cfgPath {
		t.Errorf("found = %q, want %q", found, cfgPath)
	}
}

func TestFindReturnsEmptyWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	found, err := Find(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" {
		t.Errorf("found = %q, want empty", found)
	}
}

func TestTrimAndHasSourceExt(t *testing.T) {
	if !HasSourceExt("foo.php") {
		t.Error("expected foo.php to have a recognised source extension")
	}
	if got := TrimSourceExt("foo.php"); got != "foo" {
		t.Errorf("TrimSourceExt(foo.php) = %q, want foo", got)
	}
	if HasSourceExt("foo.txt") {
		t.Error("did not expect foo.txt to be recognised")
	}
}
