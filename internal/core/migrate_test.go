// AngelaMos | 2026
// migrate_test.go

package core

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadMigrationsOrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_b.sql": {Data: []byte("SELECT 2;")},
		"m/0001_a.sql": {Data: []byte("SELECT 1;")},
		"m/README.md":  {Data: []byte("ignored")},
		"m/0010_c.sql": {Data: []byte("SELECT 10;")},
	}

	got, err := loadMigrations(fsys, "m")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []string{"0001_a", "0002_b", "0010_c"}
	if len(got) != len(want) {
		t.Fatalf("got %d migrations, want %d", len(got), len(want))
	}
	for i, v := range want {
		if got[i].Version != v {
			t.Fatalf("migration %d = %s, want %s", i, got[i].Version, v)
		}
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	migrations, err := LoadMigrations()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(migrations) < 2 {
		t.Fatalf("expected users and subscriptions migrations, got %d", len(migrations))
	}

	var all strings.Builder
	for _, m := range migrations {
		all.WriteString(m.SQL)
	}
	schema := all.String()

	for _, fragment := range []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS subscriptions",
		"REFERENCES users (id) ON DELETE CASCADE",
		"DEFAULT 'Uncategorized'",
		"DEFAULT 'active'",
	} {
		if !strings.Contains(schema, fragment) {
			t.Fatalf("schema missing %q", fragment)
		}
	}
}
