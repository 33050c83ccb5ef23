// Package store persists project state in SQLite. All writes go through a
// store-wide mutex plus a transaction, so graph checks and the writes they
// guard observe the same snapshot.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// DBFileName is the SQLite database file inside the state directory.
const DBFileName = "projmem.db"

// Store is the SQLite-backed state store.
type Store struct {
	db       *sql.DB
	basePath string // Path to the .projmem directory
	lock     *flock.Flock
	mu       sync.Mutex
}

// New opens (creating if needed) the store under basePath. The special path
// ":memory:" opens an in-process database with no directory or file lock,
// which tests use. For on-disk stores a lock file guards against a second
// process writing the same database.
func New(basePath string) (*Store, error) {
	var dbPath string
	var fileLock *flock.Flock

	if basePath == ":memory:" {
		dbPath = ":memory:"
	} else {
		if err := os.MkdirAll(basePath, 0755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
		fileLock = flock.New(filepath.Join(basePath, ".lock"))
		locked, err := fileLock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("state directory %s is locked by another process", basePath)
		}
		dbPath = filepath.Join(basePath, DBFileName)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		if fileLock != nil {
			_ = fileLock.Unlock()
		}
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The in-memory database lives per connection; more than one connection
	// would see separate empty databases.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		if fileLock != nil {
			_ = fileLock.Unlock()
		}
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{
		db:       db,
		basePath: basePath,
		lock:     fileLock,
	}

	if err := s.initSchema(); err != nil {
		_ = db.Close()
		if fileLock != nil {
			_ = fileLock.Unlock()
		}
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// initSchema creates the database tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		goal TEXT,
		scope TEXT,
		branch TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_projects_branch ON projects(branch);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'todo',
		priority TEXT NOT NULL DEFAULT 'medium',
		assignee TEXT,
		notes TEXT,
		parent_task_id TEXT,                -- informational grouping, not a graph edge
		completed_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		FOREIGN KEY (parent_task_id) REFERENCES tasks(id) ON DELETE SET NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

	-- Directed edges parent -> child. The edge set per project stays acyclic;
	-- AddDependency enforces that before inserting.
	CREATE TABLE IF NOT EXISTS task_dependencies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id TEXT NOT NULL,
		parent_task_id TEXT NOT NULL,
		child_task_id TEXT NOT NULL,
		dep_type TEXT NOT NULL DEFAULT 'blocks',
		created_at TEXT NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		FOREIGN KEY (parent_task_id) REFERENCES tasks(id) ON DELETE CASCADE,
		FOREIGN KEY (child_task_id) REFERENCES tasks(id) ON DELETE CASCADE,
		UNIQUE(parent_task_id, child_task_id, dep_type),
		CHECK(parent_task_id != child_task_id)
	);

	CREATE INDEX IF NOT EXISTS idx_deps_parent ON task_dependencies(parent_task_id);
	CREATE INDEX IF NOT EXISTS idx_deps_child ON task_dependencies(child_task_id);
	CREATE INDEX IF NOT EXISTS idx_deps_project ON task_dependencies(project_id);

	CREATE TABLE IF NOT EXISTS blockers (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		blocker_type TEXT NOT NULL DEFAULT 'external',
		severity TEXT NOT NULL DEFAULT 'medium',
		status TEXT NOT NULL DEFAULT 'open',
		owner TEXT,
		external_ref TEXT,
		resolution_notes TEXT,
		resolved_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_blockers_project ON blockers(project_id);
	CREATE INDEX IF NOT EXISTS idx_blockers_status ON blockers(status);

	CREATE TABLE IF NOT EXISTS blocker_impacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		blocker_id TEXT NOT NULL,
		task_id TEXT NOT NULL,
		impact_type TEXT NOT NULL DEFAULT 'blocks',
		description TEXT,
		estimated_delay_hours INTEGER,
		created_at TEXT NOT NULL,
		FOREIGN KEY (blocker_id) REFERENCES blockers(id) ON DELETE CASCADE,
		FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
		UNIQUE(blocker_id, task_id, impact_type)
	);

	CREATE INDEX IF NOT EXISTS idx_impacts_blocker ON blocker_impacts(blocker_id);
	CREATE INDEX IF NOT EXISTS idx_impacts_task ON blocker_impacts(task_id);

	CREATE TABLE IF NOT EXISTS decisions (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		rationale TEXT,
		alternatives TEXT,
		decided_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_project ON decisions(project_id);

	CREATE TABLE IF NOT EXISTS file_mappings (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		file_path TEXT NOT NULL,
		purpose TEXT,
		component TEXT,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		UNIQUE(project_id, file_path)
	);

	CREATE INDEX IF NOT EXISTS idx_file_mappings_project ON file_mappings(project_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Close closes the database and releases the directory lock.
func (s *Store) Close() error {
	var firstErr error
	if err := s.db.Close(); err != nil {
		firstErr = fmt.Errorf("close database: %w", err)
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("release lock: %w", err)
		}
	}
	return firstErr
}

// BasePath returns the state directory the store was opened on.
func (s *Store) BasePath() string {
	return s.basePath
}
