package repo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/practicemap/practicemap/pkg/errors"
)

const validCatalog = `{
  "practices": [
    {"id": "cd", "name": "CD", "description": "d", "type": "root", "category": "core",
     "requirements": ["r"], "benefits": ["b"]},
    {"id": "ci", "name": "CI", "description": "d", "type": "practice", "category": "automation",
     "requirements": ["r"], "benefits": ["b"]}
  ],
  "dependencies": [
    {"practice_id": "cd", "depends_on_id": "ci"}
  ]
}`

const cyclicCatalog = `{
  "practices": [
    {"id": "cd", "name": "CD", "description": "d", "type": "root", "category": "core",
     "requirements": ["r"], "benefits": ["b"]},
    {"id": "ci", "name": "CI", "description": "d", "type": "practice", "category": "automation",
     "requirements": ["r"], "benefits": ["b"]}
  ],
  "dependencies": [
    {"practice_id": "cd", "depends_on_id": "ci"},
    {"practice_id": "ci", "depends_on_id": "cd"}
  ]
}`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileRepository(t *testing.T) {
	ctx := context.Background()
	r, err := NewFileRepository(writeCatalog(t, validCatalog), nil)
	if err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}

	c, err := r.Catalog(ctx)
	if err != nil || len(c.Practices) != 2 {
		t.Fatalf("Catalog: %v, %d practices", err, len(c.Practices))
	}

	p, err := r.FindByID(ctx, "ci")
	if err != nil || p == nil || p.Name != "CI" {
		t.Errorf("FindByID(ci) = %v, %v", p, err)
	}
	if p, _ := r.FindByID(ctx, "ghost"); p != nil {
		t.Errorf("FindByID(ghost) = %v, want nil", p)
	}

	root, err := r.PracticeTree(ctx, "cd")
	if err != nil || root == nil {
		t.Fatalf("PracticeTree: %v, %v", root, err)
	}
	if len(root.Dependencies) != 1 || root.Dependencies[0].ID != "ci" {
		t.Errorf("tree deps = %v", root.Dependencies)
	}
	if n, _ := r.PracticeTree(ctx, "ghost"); n != nil {
		t.Errorf("tree for unknown root = %v, want nil", n)
	}

	hash, err := r.Hash(ctx)
	if err != nil || hash == "" {
		t.Errorf("Hash = %q, %v", hash, err)
	}
}

func TestFileRepositoryRejectsInvalid(t *testing.T) {
	_, err := NewFileRepository(writeCatalog(t, cyclicCatalog), nil)
	if !errors.Is(err, errors.ErrCodeInvalidCatalog) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidCatalog)
	}
}

func TestFileRepositoryReloadKeepsSnapshotOnFailure(t *testing.T) {
	ctx := context.Background()
	path := writeCatalog(t, validCatalog)

	r, err := NewFileRepository(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	before, _ := r.Hash(ctx)

	// Corrupt the file: reload must fail and the old snapshot stay live.
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(); err == nil {
		t.Fatal("expected reload of corrupt catalog to fail")
	}

	after, _ := r.Hash(ctx)
	if before != after {
		t.Error("failed reload replaced the snapshot")
	}
	if c, _ := r.Catalog(ctx); len(c.Practices) != 2 {
		t.Error("previous catalog no longer served")
	}
}

func TestFileRepositoryMissingFile(t *testing.T) {
	_, err := NewFileRepository(filepath.Join(t.TempDir(), "absent.json"), nil)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}
