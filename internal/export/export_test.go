package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go-medical-site/internal/docstore"
	"go-medical-site/internal/export"
)

func newStore(t *testing.T) *docstore.Store {
	t.Helper()
	s, err := docstore.New(docstore.Options{Mode: docstore.ModeServerRender})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	s.Init(context.Background())
	return s
}

func TestToFile_DirectoryUsesDownloadName(t *testing.T) {
	dir := t.TempDir()
	s := newStore(t)
	path, err := export.ToFile(s, dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(path) != export.DownloadName {
		t.Fatalf("path = %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(b), "{\n  \"doctorInfo\"") {
		t.Fatalf("not indented: %.40q", b)
	}
}

func TestToFileThenFromFile_RoundTrip(t *testing.T) {
	ctx := context.Background()
	out := filepath.Join(t.TempDir(), "backup.json")
	src := newStore(t)
	if _, err := export.ToFile(src, out); err != nil {
		t.Fatalf("export: %v", err)
	}
	dst := newStore(t)
	if err := dst.ResetToDefault(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := export.FromFile(ctx, dst, out); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !reflect.DeepEqual(dst.Current(), src.Current()) {
		t.Fatalf("round trip mismatch")
	}
}

func TestFromFile_RejectsIncomplete(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(p, []byte(`{"doctorInfo":{}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := newStore(t)
	before := s.Current()
	err := export.FromFile(ctx, s, p)
	if !errors.Is(err, docstore.ErrMissingSection) {
		t.Fatalf("err = %v", err)
	}
	if s.Current() != before {
		t.Fatalf("document replaced on rejected import")
	}
}

func TestFromFile_Missing(t *testing.T) {
	if err := export.FromFile(context.Background(), newStore(t), filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error")
	}
}
