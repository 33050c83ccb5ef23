package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/types"
)

// CreateProject inserts a project. Any existing active project on the same
// branch is archived first, so at most one project per branch is active.
func (s *Store) CreateProject(p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := models.ValidateStruct(p); err != nil {
		return types.InvalidArgument("invalid project: %v", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`
		UPDATE projects SET status = 'archived', updated_at = ?
		WHERE branch = ? AND status = 'active'
	`, now, p.Branch); err != nil {
		return fmt.Errorf("archive previous projects: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO projects (id, name, goal, scope, branch, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, nullString(p.Goal), nullString(p.Scope), p.Branch, p.Status,
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	return tx.Commit()
}

const projectSelectColumns = `id, name, goal, scope, branch, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProjectRow(row rowScanner) (models.Project, error) {
	var p models.Project
	var goal, scope sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.Name, &goal, &scope, &p.Branch, &p.Status, &createdAt, &updatedAt)
	if err != nil {
		return p, err
	}

	p.Goal = goal.String
	p.Scope = scope.String
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(id string) (*models.Project, error) {
	row := s.db.QueryRow(`SELECT `+projectSelectColumns+` FROM projects WHERE id = ?`, id)

	p, err := scanProjectRow(row)
	if err == sql.ErrNoRows {
		return nil, types.NotFound("project", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query project: %w", err)
	}
	return &p, nil
}

// ActiveProject returns the active project on the given branch. When more
// than one exists (which CreateProject prevents going forward), the most
// recently updated wins.
func (s *Store) ActiveProject(branch string) (*models.Project, error) {
	row := s.db.QueryRow(`
		SELECT `+projectSelectColumns+` FROM projects
		WHERE branch = ? AND status = 'active'
		ORDER BY updated_at DESC LIMIT 1
	`, branch)

	p, err := scanProjectRow(row)
	if err == sql.ErrNoRows {
		return nil, types.NotFound("active project for branch", branch)
	}
	if err != nil {
		return nil, fmt.Errorf("query active project: %w", err)
	}
	return &p, nil
}

// UpdateProject applies the non-nil fields of u and returns the updated row.
func (s *Store) UpdateProject(id string, u models.ProjectUpdate) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Name != nil && *u.Name == "" {
		return nil, types.InvalidArgument("project name cannot be empty")
	}
	if u.Status != nil && *u.Status != models.ProjectActive && *u.Status != models.ProjectArchived {
		return nil, types.InvalidArgument("unknown project status: %s", *u.Status)
	}

	sets := []string{}
	args := []any{}
	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Goal != nil {
		sets = append(sets, "goal = ?")
		args = append(args, nullString(*u.Goal))
	}
	if u.Scope != nil {
		sets = append(sets, "scope = ?")
		args = append(args, nullString(*u.Scope))
	}
	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *u.Status)
	}
	if len(sets) == 0 {
		return nil, types.InvalidArgument("no fields to update")
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339), id)

	query := "UPDATE projects SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update project rows affected: %w", err)
	}
	if affected == 0 {
		return nil, types.NotFound("project", id)
	}

	return s.GetProject(id)
}

// DeleteProject removes a project and everything it owns via FK cascades.
func (s *Store) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project rows affected: %w", err)
	}
	if affected == 0 {
		return types.NotFound("project", id)
	}
	return nil
}

// ProjectCounts returns how many tasks and blockers a project owns.
func (s *Store) ProjectCounts(id string) (taskCount, blockerCount int, err error) {
	err = s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM tasks WHERE project_id = ?),
			(SELECT COUNT(*) FROM blockers WHERE project_id = ?)
	`, id, id).Scan(&taskCount, &blockerCount)
	if err != nil {
		return 0, 0, fmt.Errorf("count project entities: %w", err)
	}
	return taskCount, blockerCount, nil
}
