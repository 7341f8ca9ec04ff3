package playbook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// GlobalProject is the implicit scope shared by all callers.
	GlobalProject = "global"

	// PlaybooksDir is the subdirectory of the data dir holding one
	// playbook file per project.
	PlaybooksDir = "playbooks"
	// ReflectionsDir is the subdirectory holding one append-only
	// reflection log per project.
	ReflectionsDir = "reflections"
	// ProjectsFile is the project registry: id -> description.
	ProjectsFile = "projects.json"
)

// Config holds store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig returns the default store configuration, rooted at
// ~/.ace like the original deployment.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".ace")}
}

// Store is the file-backed playbook engine. A single mutex serializes
// every operation end-to-end (read, compute, write), across all project
// files — callers always observe a consistent snapshot and writers never
// interleave. The lock is in-process only: it does not protect against a
// second process touching the same files, a standing limitation carried
// over from the original deployment.
type Store struct {
	mu      sync.Mutex
	dataDir string
}

// New creates a file-backed store rooted at cfg.DataDir, creating the
// directory structure if needed. Playbook files themselves are created
// lazily on first access.
func New(cfg Config) (*Store, error) {
	for _, dir := range []string{
		cfg.DataDir,
		filepath.Join(cfg.DataDir, PlaybooksDir),
		filepath.Join(cfg.DataDir, ReflectionsDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("playbook: create data dir: %w", err)
		}
	}
	return &Store{dataDir: cfg.DataDir}, nil
}

// PlaybookPath returns the path of a project's playbook file.
func (s *Store) PlaybookPath(projectID string) string {
	return filepath.Join(s.dataDir, PlaybooksDir, projectID+".md")
}

// ReflectionsPath returns the path of a project's reflection log.
func (s *Store) ReflectionsPath(projectID string) string {
	return filepath.Join(s.dataDir, ReflectionsDir, projectID+".jsonl")
}

// ─── Operations ──────────────────────────────────────────────────────────────

// Read returns the merged playbook view for a project: the global
// playbook as-is for "global", otherwise the overlay of global plus the
// project's own entries. Missing files are created lazily (the global
// playbook is seeded with default content).
func (s *Store) Read(projectID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	globalRaw, err := s.readPlaybookLocked(GlobalProject)
	if err != nil {
		return "", err
	}
	if projectID == GlobalProject {
		return globalRaw, nil
	}

	projectRaw, err := s.readPlaybookLocked(projectID)
	if err != nil {
		return "", err
	}
	return renderOverlay(globalRaw, projectRaw, projectID), nil
}

// Section returns the text of one section from a project's merged view,
// including its header line.
func (s *Store) Section(section, projectID string) (string, error) {
	if !ValidSection(section) {
		return "", &InvalidSectionError{Name: section}
	}

	view, err := s.Read(projectID)
	if err != nil {
		return "", err
	}

	lines := strings.Split(view, "\n")
	start, end, ok := locateSection(lines, section)
	if !ok {
		return "", &SectionNotFoundError{Name: section}
	}
	return strings.Join(lines[start:end], "\n"), nil
}

// AddEntry appends a new zero-counter entry to a section of a project's
// playbook and returns its ID. The ID is allocated by scanning every
// known project's playbook, so IDs stay unique across projects even
// though storage is per-project.
func (s *Store) AddEntry(section, content, projectID string) (string, error) {
	prefix, ok := SectionPrefixes[section]
	if !ok {
		return "", &InvalidSectionError{Name: section}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scopes, err := s.allPlaybooksLocked()
	if err != nil {
		return "", err
	}

	raws := make([]string, 0, len(scopes))
	for _, sc := range scopes {
		raws = append(raws, sc.raw)
	}
	newID := NextID(prefix, raws...)

	raw, err := s.readPlaybookLocked(projectID)
	if err != nil {
		return "", err
	}

	entry := Entry{ID: newID, Content: strings.TrimSpace(content)}
	updated := insertEntry(raw, section, entry.Format())
	if err := s.writePlaybookLocked(projectID, updated); err != nil {
		return "", err
	}
	return newID, nil
}

// UpdateResult reports the before/after counter values of an update.
type UpdateResult struct {
	EntryID    string
	ProjectID  string
	OldHelpful int
	NewHelpful int
	OldHarmful int
	NewHarmful int
}

// UpdateCounters adjusts an entry's feedback counters by the given
// deltas, searching every project file. Counters floor at zero.
func (s *Store) UpdateCounters(entryID string, helpfulDelta, harmfulDelta int) (UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scopes, err := s.allPlaybooksLocked()
	if err != nil {
		return UpdateResult{}, err
	}

	for _, sc := range scopes {
		doc := ParseDocument(sc.raw)
		for i, line := range doc.Lines {
			if line.Kind != LineEntry || line.Entry.ID != entryID {
				continue
			}

			result := UpdateResult{
				EntryID:    entryID,
				ProjectID:  sc.projectID,
				OldHelpful: line.Entry.Helpful,
				OldHarmful: line.Entry.Harmful,
			}
			result.NewHelpful = max(0, line.Entry.Helpful+helpfulDelta)
			result.NewHarmful = max(0, line.Entry.Harmful+harmfulDelta)

			entry := line.Entry
			entry.Helpful = result.NewHelpful
			entry.Harmful = result.NewHarmful
			doc.Lines[i] = Line{Kind: LineEntry, Raw: entry.Format(), Entry: entry, Section: line.Section}

			if err := s.writePlaybookLocked(sc.projectID, doc.Render()); err != nil {
				return UpdateResult{}, err
			}
			return result, nil
		}
	}

	return UpdateResult{}, &NotFoundError{EntryID: entryID}
}

// RemoveEntry deletes an entry by ID, searching every project file.
// It returns the project the entry was removed from.
func (s *Store) RemoveEntry(entryID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scopes, err := s.allPlaybooksLocked()
	if err != nil {
		return "", err
	}

	for _, sc := range scopes {
		doc := ParseDocument(sc.raw)
		kept := Document{Lines: make([]Line, 0, len(doc.Lines))}
		found := false
		for _, line := range doc.Lines {
			if line.Kind == LineEntry && line.Entry.ID == entryID {
				found = true
				continue
			}
			kept.Lines = append(kept.Lines, line)
		}
		if !found {
			continue
		}

		if err := s.writePlaybookLocked(sc.projectID, kept.Render()); err != nil {
			return "", err
		}
		return sc.projectID, nil
	}

	return "", &NotFoundError{EntryID: entryID}
}

// Curate runs the non-destructive curation policy: prune entries whose
// harmful count exceeds helpful + threshold, then report (not merge)
// near-duplicate pairs among the survivors. projectID "" curates every
// known project; otherwise only the named project's own file. Surviving
// non-entry text and ordering are preserved exactly.
func (s *Store) Curate(projectID string, threshold int) (CurateReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var scopes []scopeText
	if projectID == "" {
		all, err := s.allPlaybooksLocked()
		if err != nil {
			return CurateReport{}, err
		}
		scopes = all
	} else {
		raw, err := s.readPlaybookLocked(projectID)
		if err != nil {
			return CurateReport{}, err
		}
		scopes = []scopeText{{projectID: projectID, raw: raw}}
	}

	report := CurateReport{}
	var survivors []Entry
	for _, sc := range scopes {
		doc := ParseDocument(sc.raw)
		pruned, removed := pruneDocument(doc, threshold)
		if len(removed) > 0 {
			if err := s.writePlaybookLocked(sc.projectID, pruned.Render()); err != nil {
				return CurateReport{}, err
			}
		}
		report.Removed = append(report.Removed, removed...)
		survivors = append(survivors, pruned.Entries()...)
	}

	report.Duplicates = duplicatePairs(survivors, DuplicateReportThreshold)
	return report, nil
}

// RebuildCurate runs the destructive curation policy (prune, merge,
// re-sort, full regeneration) over one project's playbook file. When
// dryRun is set the curated text is returned without being written.
func (s *Store) RebuildCurate(projectID string, threshold int, dryRun bool) (string, RebuildStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.readPlaybookLocked(projectID)
	if err != nil {
		return "", RebuildStats{}, err
	}

	curated, stats := Rebuild(raw, threshold)
	if !dryRun {
		if err := s.writePlaybookLocked(projectID, curated); err != nil {
			return "", RebuildStats{}, err
		}
	}
	return curated, stats, nil
}

// Search returns the entry lines of a project's merged view whose
// content matches any of the space-separated keywords,
// case-insensitively.
func (s *Store) Search(query, projectID string) ([]string, error) {
	view, err := s.Read(projectID)
	if err != nil {
		return nil, err
	}

	keywords := strings.Fields(strings.ToLower(query))
	var matches []string
	for _, line := range strings.Split(view, "\n") {
		entry, ok := ParseEntry(line)
		if !ok {
			continue
		}
		content := strings.ToLower(entry.Content)
		for _, kw := range keywords {
			if strings.Contains(content, kw) {
				matches = append(matches, strings.TrimSpace(line))
				break
			}
		}
	}
	return matches, nil
}

// Reflection is an append-only record of a task's outcome and learnings,
// written for later curation and never parsed back by the engine.
type Reflection struct {
	Timestamp   string   `json:"timestamp"`
	TaskSummary string   `json:"task_summary"`
	Outcome     string   `json:"outcome"`
	Learnings   []string `json:"learnings"`
}

// LogReflection appends a reflection to a project's reflection log, one
// JSON object per line.
func (s *Store) LogReflection(projectID, taskSummary, outcome string, learnings []string) error {
	reflection := Reflection{
		Timestamp:   time.Now().Format(time.RFC3339),
		TaskSummary: taskSummary,
		Outcome:     outcome,
		Learnings:   learnings,
	}

	data, err := json.Marshal(reflection)
	if err != nil {
		return fmt.Errorf("playbook: marshal reflection: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.ReflectionsPath(projectID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("playbook: open reflection log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("playbook: append reflection: %w", err)
	}
	return nil
}

// Project is one registered scope.
type Project struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ListProjects returns every known project, with global first and the
// rest sorted by ID.
func (s *Store) ListProjects() ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	registry, err := s.loadRegistryLocked()
	if err != nil {
		return nil, err
	}

	projects := []Project{{
		ID:          GlobalProject,
		Description: "Universal patterns and insights shared across all projects",
	}}

	ids := make([]string, 0, len(registry))
	for id := range registry {
		if id != GlobalProject {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		projects = append(projects, Project{ID: id, Description: registry[id].Description})
	}
	return projects, nil
}

// CreateProject registers a new project scope and creates its empty
// playbook file.
func (s *Store) CreateProject(projectID, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if projectID == GlobalProject {
		return &ProjectExistsError{ProjectID: projectID}
	}

	registry, err := s.loadRegistryLocked()
	if err != nil {
		return err
	}
	if _, exists := registry[projectID]; exists {
		return &ProjectExistsError{ProjectID: projectID}
	}

	registry[projectID] = projectInfo{Description: description}
	if err := s.saveRegistryLocked(registry); err != nil {
		return err
	}
	if _, err := s.readPlaybookLocked(projectID); err != nil {
		return err
	}
	return nil
}

// ─── File access (callers hold s.mu) ─────────────────────────────────────────

type scopeText struct {
	projectID string
	raw       string
}

// allPlaybooksLocked reads every known project's playbook: the registry,
// plus any playbook file on disk not present in the registry, plus
// global. Global comes first so ID scans and entry searches visit it
// before project scopes.
func (s *Store) allPlaybooksLocked() ([]scopeText, error) {
	registry, err := s.loadRegistryLocked()
	if err != nil {
		return nil, err
	}

	ids := map[string]bool{GlobalProject: true}
	for id := range registry {
		ids[id] = true
	}
	entries, err := os.ReadDir(filepath.Join(s.dataDir, PlaybooksDir))
	if err == nil {
		for _, e := range entries {
			if name, ok := strings.CutSuffix(e.Name(), ".md"); ok && !e.IsDir() {
				ids[name] = true
			}
		}
	}

	ordered := []string{GlobalProject}
	rest := make([]string, 0, len(ids))
	for id := range ids {
		if id != GlobalProject {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	ordered = append(ordered, rest...)

	scopes := make([]scopeText, 0, len(ordered))
	for _, id := range ordered {
		raw, err := s.readPlaybookLocked(id)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, scopeText{projectID: id, raw: raw})
	}
	return scopes, nil
}

// readPlaybookLocked reads a project's playbook, creating it lazily: the
// global playbook is seeded with default content, others start empty.
func (s *Store) readPlaybookLocked(projectID string) (string, error) {
	path := s.PlaybookPath(projectID)
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("playbook: read %s: %w", path, err)
	}

	seed := ""
	if projectID == GlobalProject {
		seed = DefaultPlaybook
	}
	if err := s.writePlaybookLocked(projectID, seed); err != nil {
		return "", err
	}
	return seed, nil
}

func (s *Store) writePlaybookLocked(projectID, content string) error {
	path := s.PlaybookPath(projectID)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("playbook: write %s: %w", path, err)
	}
	return nil
}

type projectInfo struct {
	Description string `json:"description"`
}

func (s *Store) loadRegistryLocked() (map[string]projectInfo, error) {
	path := filepath.Join(s.dataDir, ProjectsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]projectInfo{}, nil
		}
		return nil, fmt.Errorf("playbook: read registry: %w", err)
	}

	registry := map[string]projectInfo{}
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("playbook: parse registry: %w", err)
	}
	return registry, nil
}

func (s *Store) saveRegistryLocked(registry map[string]projectInfo) error {
	data, err := json.MarshalIndent(registry, "", "  ")
	if err != nil {
		return fmt.Errorf("playbook: marshal registry: %w", err)
	}
	path := filepath.Join(s.dataDir, ProjectsFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("playbook: write registry: %w", err)
	}
	return nil
}

// insertEntry places a formatted entry line inside its section: after
// the last non-blank line of the section's range, or as a new section at
// the end of the text when the header is absent.
func insertEntry(raw, section, entryLine string) string {
	lines := strings.Split(raw, "\n")
	start, end, ok := locateSection(lines, section)
	if !ok {
		trimmed := strings.TrimRight(raw, "\n")
		if trimmed == "" {
			return "## " + section + "\n" + entryLine + "\n"
		}
		return trimmed + "\n\n## " + section + "\n" + entryLine + "\n"
	}

	insertAt := end
	for i := end - 1; i > start; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			insertAt = i + 1
			break
		}
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:insertAt]...)
	out = append(out, entryLine)
	out = append(out, lines[insertAt:]...)
	return strings.Join(out, "\n")
}
