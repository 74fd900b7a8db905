package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	script := `
-- comment line
create table a (
    id text primary key
);
create index idx_a on a (id);
`
	got := splitStatements(script)
	if len(got) != 2 {
		t.Fatalf("got %d statements, want 2", len(got))
	}
}

func TestSplitStatementsKeepsTrailingStatement(t *testing.T) {
	got := splitStatements(`select 1`)
	if len(got) != 1 {
		t.Fatalf("got %d statements, want 1", len(got))
	}
}

func TestCollectSQLSortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.up.sql", "0001_a.up.sql", "0001_a.down.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("select 1;"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	got, err := collectSQL(dir, ".up.sql")
	if err != nil {
		t.Fatalf("collectSQL: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d files, want 2", len(got))
	}
	if got[0].base != "0001_a.up.sql" || got[1].base != "0002_b.up.sql" {
		t.Fatalf("order = %s, %s", got[0].base, got[1].base)
	}
}

func TestCollectSQLMissingDir(t *testing.T) {
	got, err := collectSQL(filepath.Join(t.TempDir(), "absent"), ".sql")
	if err != nil {
		t.Fatalf("collectSQL: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d files from missing dir", len(got))
	}
}
