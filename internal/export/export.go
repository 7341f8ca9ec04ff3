// Package export serializes stored playbook data into relational insert
// statements, for migrating local file-backed playbooks into a SQLite
// database. It can render the migration as a SQL script or execute it
// in-process against a database file.
//
// The exporter reads both storage layouts: the multi-project layout
// (playbooks/<id>.md, reflections/<id>.jsonl, projects.json) and the
// legacy single-file layout (playbook.md, reflections.jsonl) from before
// project scoping existed.
package export

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/agentic-context/ace/internal/playbook"
)

// Schema creates the target tables. Execute applies it before running
// the generated statements; a SQL file consumer runs it themselves.
const Schema = `
CREATE TABLE IF NOT EXISTS projects (
	project_id  TEXT NOT NULL,
	user_id     TEXT NOT NULL,
	description TEXT,
	PRIMARY KEY (project_id, user_id)
);

CREATE TABLE IF NOT EXISTS entries (
	entry_id      TEXT NOT NULL,
	project_id    TEXT NOT NULL,
	user_id       TEXT NOT NULL,
	section       TEXT NOT NULL,
	content       TEXT NOT NULL,
	helpful_count INTEGER NOT NULL DEFAULT 0,
	harmful_count INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (entry_id, project_id, user_id)
);

CREATE TABLE IF NOT EXISTS reflections (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id   TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	task_summary TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	learnings    TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
`

// Options configures one export run.
type Options struct {
	// DataDir is the playbook data directory (default ~/.ace).
	DataDir string
	// Project, when set, restricts the export to one project.
	Project string
	// UserID is attached to every exported row.
	UserID string
}

// Discovery lists the playbook and reflection files found on disk,
// keyed by project ID.
type Discovery struct {
	Playbooks   map[string]string
	Reflections map[string]string
}

// Discover locates every playbook and reflection file under dataDir,
// including the legacy single-file layout (reported as "global").
func Discover(dataDir string) Discovery {
	d := Discovery{
		Playbooks:   map[string]string{},
		Reflections: map[string]string{},
	}

	if legacy := filepath.Join(dataDir, "playbook.md"); fileExists(legacy) {
		d.Playbooks[playbook.GlobalProject] = legacy
	}
	if legacy := filepath.Join(dataDir, "reflections.jsonl"); fileExists(legacy) {
		d.Reflections[playbook.GlobalProject] = legacy
	}

	globDir(filepath.Join(dataDir, playbook.PlaybooksDir), ".md", d.Playbooks)
	globDir(filepath.Join(dataDir, playbook.ReflectionsDir), ".jsonl", d.Reflections)
	return d
}

// Generate renders the full migration script: projects, then playbook
// entries, then reflections. Each run is stamped with a batch ID so
// separate imports can be told apart in the script history.
func Generate(opts Options) (string, error) {
	if opts.UserID == "" {
		opts.UserID = "default"
	}

	lines := []string{
		"-- ACE playbook migration",
		fmt.Sprintf("-- Generated: %s", time.Now().Format(time.RFC3339)),
		fmt.Sprintf("-- Batch: %s", uuid.NewString()),
		"",
		"-- Projects",
	}
	lines = append(lines, projectStatements(opts)...)
	lines = append(lines, "")

	discovery := Discover(opts.DataDir)

	for _, projectID := range sortedKeys(discovery.Playbooks) {
		if opts.Project != "" && projectID != opts.Project {
			continue
		}
		path := discovery.Playbooks[projectID]
		statements, err := entryStatements(path, projectID, opts.UserID)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("-- Playbook entries for project: %s", projectID))
		if len(statements) == 0 {
			lines = append(lines, fmt.Sprintf("-- No entries found in %s", path))
		}
		lines = append(lines, statements...)
		lines = append(lines, "")
	}

	for _, projectID := range sortedKeys(discovery.Reflections) {
		if opts.Project != "" && projectID != opts.Project {
			continue
		}
		path := discovery.Reflections[projectID]
		statements, err := reflectionStatements(path, projectID, opts.UserID)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("-- Reflections for project: %s", projectID))
		if len(statements) == 0 {
			lines = append(lines, fmt.Sprintf("-- No reflections found in %s", path))
		}
		lines = append(lines, statements...)
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n"), nil
}

// Execute applies the schema and runs a generated script against a
// SQLite database file, statement by statement.
func Execute(dbPath, script string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("export: open database: %w", err)
	}
	defer db.Close()

	for _, stmt := range strings.Split(Schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("export: apply schema: %w", err)
		}
	}

	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if _, err := db.Exec(trimmed); err != nil {
			return fmt.Errorf("export: execute %q: %w", truncate(trimmed, 60), err)
		}
	}

	return nil
}

// ─── Statement generation ────────────────────────────────────────────────────

func projectStatements(opts Options) []string {
	statements := []string{fmt.Sprintf(
		"INSERT OR IGNORE INTO projects (project_id, user_id, description) VALUES ('global', '%s', 'Universal patterns and insights shared across all projects');",
		escapeSQL(opts.UserID),
	)}

	data, err := os.ReadFile(filepath.Join(opts.DataDir, playbook.ProjectsFile))
	if err != nil {
		return statements
	}
	registry := map[string]struct {
		Description string `json:"description"`
	}{}
	if err := json.Unmarshal(data, &registry); err != nil {
		return statements
	}

	for _, id := range sortedKeys(registry) {
		if id == playbook.GlobalProject {
			continue
		}
		statements = append(statements, fmt.Sprintf(
			"INSERT OR IGNORE INTO projects (project_id, user_id, description) VALUES ('%s', '%s', '%s');",
			escapeSQL(id), escapeSQL(opts.UserID), escapeSQL(registry[id].Description),
		))
	}
	return statements
}

// entryStatements parses one playbook file into entry inserts. Section
// membership comes from the nearest preceding header; entries outside
// the four known sections are skipped, as is any non-entry text.
func entryStatements(path, projectID, userID string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: read %s: %w", path, err)
	}

	var statements []string
	doc := playbook.ParseDocument(string(data))
	for _, line := range doc.Lines {
		if line.Kind != playbook.LineEntry || !playbook.ValidSection(line.Section) {
			continue
		}

		entryProject := line.Entry.ProjectID
		if entryProject == "" {
			entryProject = projectID
		}
		statements = append(statements, fmt.Sprintf(
			"INSERT OR IGNORE INTO entries (entry_id, project_id, user_id, section, content, helpful_count, harmful_count) VALUES ('%s', '%s', '%s', '%s', '%s', %d, %d);",
			line.Entry.ID, escapeSQL(entryProject), escapeSQL(userID),
			escapeSQL(line.Section), escapeSQL(line.Entry.Content),
			line.Entry.Helpful, line.Entry.Harmful,
		))
	}
	return statements, nil
}

// reflectionStatements parses one reflection log into inserts. Lines
// that are not valid JSON are skipped.
func reflectionStatements(path, projectID, userID string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: read %s: %w", path, err)
	}

	var statements []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var r playbook.Reflection
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			continue
		}

		if r.Outcome == "" {
			r.Outcome = "unknown"
		}
		if r.Timestamp == "" {
			r.Timestamp = time.Now().Format(time.RFC3339)
		}
		learnings, err := json.Marshal(r.Learnings)
		if err != nil {
			continue
		}

		statements = append(statements, fmt.Sprintf(
			"INSERT INTO reflections (project_id, user_id, task_summary, outcome, learnings, created_at) VALUES ('%s', '%s', '%s', '%s', '%s', '%s');",
			escapeSQL(projectID), escapeSQL(userID), escapeSQL(r.TaskSummary),
			escapeSQL(r.Outcome), escapeSQL(string(learnings)), escapeSQL(r.Timestamp),
		))
	}
	return statements, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func globDir(dir, ext string, out map[string]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ext); ok {
			out[name] = filepath.Join(dir, e.Name())
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
