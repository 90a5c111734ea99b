package db

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMigrationFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_sessions.sql", "0001_init.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("-- noop"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := migrationFiles(dir)
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	want := []string{"0001_init.sql", "0002_sessions.sql"}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
}

func TestMigrationFilesMissingDir(t *testing.T) {
	if _, err := migrationFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing migrations dir")
	}
}
