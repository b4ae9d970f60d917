package store

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestMigrationsHaveMatchingUpAndDownFiles(t *testing.T) {
	migrationsDir := filepath.Join("..", "..", "db", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}

	pattern := regexp.MustCompile(`^(\d+)_.*\.(up|down)\.sql$`)
	byVersion := map[string]map[string]bool{}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		match := pattern.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		version := match[1]
		direction := match[2]
		if byVersion[version] == nil {
			byVersion[version] = map[string]bool{}
		}
		if byVersion[version][direction] {
			t.Fatalf("duplicate %s migration file for version %s", direction, version)
		}
		byVersion[version][direction] = true
	}

	if len(byVersion) == 0 {
		t.Fatal("no migrations discovered")
	}

	for version, dirs := range byVersion {
		if !dirs["up"] || !dirs["down"] {
			t.Fatalf("version %s must include both up and down files", version)
		}
	}
}

func TestDownMigrationsUndoTheirUpMigration(t *testing.T) {
	migrationsDir := filepath.Join("..", "..", "db", "migrations")
	cases := []struct {
		version string
		up      []string
		down    []string
	}{
		{"0001_documents", []string{"CREATE TABLE IF NOT EXISTS documents"}, []string{"DROP TABLE IF EXISTS documents"}},
		{"0002_inbox_items", []string{"CREATE TABLE IF NOT EXISTS inbox_items"}, []string{"DROP TABLE IF EXISTS inbox_items"}},
		{
			"0003_document_status_guard",
			[]string{"CREATE OR REPLACE FUNCTION documents_status_guard()", "CREATE TRIGGER trg_documents_status_guard"},
			[]string{"DROP TRIGGER IF EXISTS trg_documents_status_guard ON documents", "DROP FUNCTION IF EXISTS documents_status_guard()"},
		},
	}
	for _, tc := range cases {
		for direction, snippets := range map[string][]string{"up": tc.up, "down": tc.down} {
			raw, err := os.ReadFile(filepath.Join(migrationsDir, tc.version+"."+direction+".sql"))
			if err != nil {
				t.Fatalf("read %s %s: %v", tc.version, direction, err)
			}
			for _, snippet := range snippets {
				if !strings.Contains(string(raw), snippet) {
					t.Errorf("%s.%s.sql missing %q", tc.version, direction, snippet)
				}
			}
		}
	}
}
