package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestFSContainsGooseMigrations(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("expected embedded migrations")
	}
	for _, name := range files {
		data, err := fs.ReadFile(FS, name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		body := string(data)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Fatalf("%s missing goose annotations", name)
		}
	}
}

func TestAccountsMigrationEnforcesTokenPairs(t *testing.T) {
	data, err := fs.ReadFile(FS, "00001_create_accounts.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	body := string(data)
	for _, want := range []string{"accounts_verification_pair", "accounts_reset_pair", "accounts_verified_without_token"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected migration to contain %q", want)
		}
	}
}
