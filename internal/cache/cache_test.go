package cache

import (
	"path/filepath"
	"testing"

	"github.com/tsguard/tsguard/internal/typesystem"
)

func TestPutThenGetRoundTrips(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	entry := &Entry{
		Funcs: map[string]*typesystem.Fun{
			"f": {
				Name: "f",
				Inp:  map[typesystem.VarId]typesystem.Type{typesystem.Positional(0): typesystem.Mixed{}},
				Out:  map[typesystem.VarId]typesystem.Type{typesystem.Return: typesystem.Trusted{Inner: typesystem.Prim{Name: "string"}}},
			},
		},
		GlobalDelta: map[string]typesystem.Type{
			"count": typesystem.Escaped{Tag: "mysql", Inner: typesystem.Prim{Name: "string"}},
		},
	}

	if err := s.Put("/src/a.php", "hash1", entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get("/src/a.php", "hash1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	fn, ok := got.Funcs["f"]
	if !ok {
		t.Fatal("expected function f in decoded entry")
	}
	want := typesystem.Trusted{Inner: typesystem.Prim{Name: "string"}}
	if ret := fn.Out[typesystem.Return]; !typesystem.Equal(ret, want) {
		t.Errorf("decoded return type = %s, want %s", ret, want)
	}
}

func TestGetMissReturnsFalse(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	_, ok, err := s.Get("/src/missing.php", "whatever")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected a cache miss")
	}
}

func TestPutEvictsStaleHashForSamePath(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	empty := &Entry{Funcs: map[string]*typesystem.Fun{}, GlobalDelta: map[string]typesystem.Type{}}
	if err := s.Put("/src/a.php", "hash1", empty); err != nil {
		t.Fatalf("Put hash1: %v", err)
	}
	if err := s.Put("/src/a.php", "hash2", empty); err != nil {
		t.Fatalf("Put hash2: %v", err)
	}

	_, ok, err := s.Get("/src/a.php", "hash1")
	if err != nil {
		t.Fatalf("Get hash1: %v", err)
	}
	if ok {
		t.Error("expected hash1 to have been evicted by the hash2 write")
	}

	_, ok, err = s.Get("/src/a.php", "hash2")
	if err != nil {
		t.Fatalf("Get hash2: %v", err)
	}
	if !ok {
		t.Error("expected hash2 to be present")
	}
}
