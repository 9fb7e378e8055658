package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestSetAndGet(t *testing.T) {
	s := tempStore(t)
	content := []byte(`{"nodes":[],"flows":[]}`)
	if err := s.Set("supplyChainData", content); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get("supplyChainData")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
	if _, err := os.Stat(filepath.Join(s.root, "supplyChainData.json")); err != nil {
		t.Errorf("slot file missing: %v", err)
	}
}

func TestGetEmpty(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Get("nothing"); !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestGetAfterExternalRemove(t *testing.T) {
	s := tempStore(t)
	_ = s.Set("k", []byte("bye"))
	p, _ := s.Path("k")
	if err := os.Remove(p); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get("k"); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty after the file is removed, got %v", err)
	}
}

func TestInvalidKeysRejected(t *testing.T) {
	s := tempStore(t)
	for _, k := range []string{"", "../escape", "a/b", `a\b`, ".."} {
		if err := s.Set(k, []byte("x")); err == nil {
			t.Errorf("expected error for key %q", k)
		}
		if _, err := s.Get(k); err == nil || errors.Is(err, ErrEmpty) {
			t.Errorf("expected key error for %q, got %v", k, err)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempStore(t)
	_ = s.Set("atomic", []byte("original content"))
	if err := s.Set("atomic", []byte("updated content")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := s.Get("atomic")
	if string(got) != "updated content" {
		t.Errorf("expected updated content, got %q", got)
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, ".chainscope-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "chainscope-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}
