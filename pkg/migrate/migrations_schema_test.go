package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitMigrationContainsCoreSchema(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE members",
		"CREATE TABLE membership_plans",
		"CREATE TABLE subscriptions",
		"CREATE TABLE payments",
		"CREATE TABLE check_ins",
		"CREATE TABLE outbox_events",
		"CONSTRAINT chk_subscriptions_dates CHECK (end_date >= start_date)",
		"ON outbox_events (created_at) WHERE published_at IS NULL",
		"DROP TABLE IF EXISTS outbox_events",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestInitMigrationDefinesEnums(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init.sql"))
	if err != nil || len(matches) == 0 {
		t.Fatalf("no init migration file found: %v", err)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	for _, sub := range []string{
		"CREATE TYPE document_type AS ENUM",
		"CREATE TYPE payment_method AS ENUM",
		"CREATE TYPE subscription_status AS ENUM",
		"'tax_invoice_receipt'",
		"'hyp'",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
