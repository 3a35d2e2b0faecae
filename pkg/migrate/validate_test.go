package migrate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fitcore-app/fitcore-backend/pkg/migrate"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations should validate: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "001_init.sql", "-- +goose Up\n-- +goose Down\n")

	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatalf("short version prefix should be rejected")
	}
}

func TestValidateDirRejectsMissingDownMarker(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "20250301000001_init.sql", "-- +goose Up\nCREATE TABLE t (id INT);\n")

	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatalf("missing down marker should be rejected")
	}
}

func TestValidateDirRejectsDuplicateVersions(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "20250301000001_first.sql", "-- +goose Up\n-- +goose Down\n")
	write(t, dir, "20250301000001_second.sql", "-- +goose Up\n-- +goose Down\n")

	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatalf("duplicate versions should be rejected")
	}
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
