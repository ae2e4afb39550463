package database

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testProject(t *testing.T, db *DB) *SearchProject {
	t.Helper()
	p, err := db.InsertSearchProject("Test project")
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOpenMigrates(t *testing.T) {
	db := openTestDB(t)
	version, err := getSchemaVersion(db.conn)
	if err != nil {
		t.Fatal(err)
	}
	if version != latestVersion() {
		t.Errorf("schema version = %d, want %d", version, latestVersion())
	}
}

func TestProjectRoundTrip(t *testing.T) {
	db := openTestDB(t)
	p := testProject(t, db)

	got, err := db.GetSearchProject(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Name != "Test project" {
		t.Errorf("got %+v", got)
	}

	missing, err := db.GetSearchProject("nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("missing project should be nil, got %+v", missing)
	}
}
