package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/types"
)

// CreateTask inserts a task. The parent task, when set, must exist and belong
// to the same project.
func (s *Store) CreateTask(t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := models.ValidateStruct(t); err != nil {
		return types.InvalidArgument("invalid task: %v", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := projectExistsTx(tx, t.ProjectID); err != nil {
		return err
	}
	if t.ParentTaskID != nil {
		if err := taskInProjectTx(tx, *t.ParentTaskID, t.ProjectID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO tasks (id, project_id, title, description, status, priority,
			assignee, notes, parent_task_id, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.ProjectID, t.Title, nullString(t.Description), t.Status, t.Priority,
		nullString(t.Assignee), nullString(t.Notes), nullStringPtr(t.ParentTaskID),
		nullTimeString(t.CompletedAt),
		t.CreatedAt.Format(time.RFC3339), t.UpdatedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert task %s: %w", t.Title, err)
	}

	return tx.Commit()
}

const taskSelectColumns = `id, project_id, title, description, status, priority,
       assignee, notes, parent_task_id, completed_at, created_at, updated_at`

func scanTaskRow(row rowScanner) (models.Task, error) {
	var t models.Task
	var desc, assignee, notes, parentID, completedAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &desc, &t.Status, &t.Priority,
		&assignee, &notes, &parentID, &completedAt, &createdAt, &updatedAt)
	if err != nil {
		return t, err
	}

	t.Description = desc.String
	t.Assignee = assignee.String
	t.Notes = notes.String
	if parentID.Valid {
		v := parentID.String
		t.ParentTaskID = &v
	}
	t.CompletedAt = parseNullTime(completedAt)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(id string) (*models.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskSelectColumns+` FROM tasks WHERE id = ?`, id)

	t, err := scanTaskRow(row)
	if err == sql.ErrNoRows {
		return nil, types.NotFound("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return &t, nil
}

// TaskFilter narrows ListTasks results. Zero values match everything.
type TaskFilter struct {
	Status   string
	Priority string
	Assignee string
	Search   string // substring match on title and description
}

// ListTasks returns a project's tasks, filtered, newest first.
func (s *Store) ListTasks(projectID string, f TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskSelectColumns + ` FROM tasks WHERE project_id = ?`
	args := []any{projectID}

	if f.Status != "" {
		if !models.ValidTaskStatus(f.Status) {
			return nil, types.InvalidArgument("unknown task status: %s", f.Status)
		}
		query += " AND status = ?"
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		if !models.ValidTaskPriority(f.Priority) {
			return nil, types.InvalidArgument("unknown task priority: %s", f.Priority)
		}
		query += " AND priority = ?"
		args = append(args, f.Priority)
	}
	if f.Assignee != "" {
		query += " AND assignee = ?"
		args = append(args, f.Assignee)
	}
	if f.Search != "" {
		query += " AND (title LIKE ? OR description LIKE ?)"
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies the non-nil fields of u and returns the updated task.
// Setting status to completed goes through the same gate as CompleteTask.
func (s *Store) UpdateTask(id string, u models.TaskUpdate) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.IsEmpty() {
		return nil, types.InvalidArgument("no fields to update")
	}
	if u.Title != nil && *u.Title == "" {
		return nil, types.InvalidArgument("task title cannot be empty")
	}
	if u.Status != nil && !models.ValidTaskStatus(string(*u.Status)) {
		return nil, types.InvalidArgument("unknown task status: %s", *u.Status)
	}
	if u.Priority != nil && !models.ValidTaskPriority(string(*u.Priority)) {
		return nil, types.InvalidArgument("unknown task priority: %s", *u.Priority)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := getTaskTx(tx, id)
	if err != nil {
		return nil, err
	}

	if u.ParentTaskID != nil && *u.ParentTaskID != "" {
		if *u.ParentTaskID == id {
			return nil, types.InvalidArgument("task cannot be its own parent")
		}
		if err := taskInProjectTx(tx, *u.ParentTaskID, cur.ProjectID); err != nil {
			return nil, err
		}
	}

	if u.Status != nil && *u.Status == models.StatusCompleted {
		if err := completionGateTx(tx, id); err != nil {
			return nil, err
		}
	}

	sets := []string{}
	args := []any{}
	if u.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, nullString(*u.Description))
	}
	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *u.Status)
		if *u.Status == models.StatusCompleted {
			sets = append(sets, "completed_at = ?")
			args = append(args, time.Now().UTC().Format(time.RFC3339))
		} else {
			// Moving away from completed reopens the task.
			sets = append(sets, "completed_at = NULL")
		}
	}
	if u.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *u.Priority)
	}
	if u.Assignee != nil {
		sets = append(sets, "assignee = ?")
		args = append(args, nullString(*u.Assignee))
	}
	if u.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, nullString(*u.Notes))
	}
	if u.ParentTaskID != nil {
		sets = append(sets, "parent_task_id = ?")
		args = append(args, nullString(*u.ParentTaskID))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339), id)

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := tx.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetTask(id)
}

// CompleteTask marks a task completed. Completion is refused while any
// gating dependency parent is itself incomplete or any open blocker with a
// blocking impact touches the task; the returned DependencyCheck lists the
// offenders either way.
func (s *Store) CompleteTask(id, notes string) (*models.Task, models.DependencyCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var check models.DependencyCheck

	tx, err := s.db.Begin()
	if err != nil {
		return nil, check, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	t, err := getTaskTx(tx, id)
	if err != nil {
		return nil, check, err
	}

	check, err = dependencyCheckTx(tx, id)
	if err != nil {
		return nil, check, err
	}
	if !check.Satisfied() {
		return nil, check, blockedError(id, check)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	sets := "status = ?, completed_at = ?, updated_at = ?"
	args := []any{models.StatusCompleted, now, now}
	if notes != "" {
		sets += ", notes = ?"
		args = append(args, notes)
	}
	args = append(args, id)

	if _, err := tx.Exec("UPDATE tasks SET "+sets+" WHERE id = ?", args...); err != nil {
		return nil, check, fmt.Errorf("complete task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, check, fmt.Errorf("commit: %w", err)
	}

	t.Status = models.StatusCompleted
	completedAt := parseTime(now)
	t.CompletedAt = &completedAt
	t.UpdatedAt = completedAt
	if notes != "" {
		t.Notes = notes
	}
	return t, check, nil
}

// DeleteTask removes a task; its dependency edges and impacts go with it via
// FK cascades, and subtasks keep living with parent_task_id set to NULL.
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if affected == 0 {
		return types.NotFound("task", id)
	}
	return nil
}

// === transaction-scoped helpers ===

type txQuerier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

func getTaskTx(tx txQuerier, id string) (*models.Task, error) {
	row := tx.QueryRow(`SELECT `+taskSelectColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTaskRow(row)
	if err == sql.ErrNoRows {
		return nil, types.NotFound("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return &t, nil
}

func projectExistsTx(tx txQuerier, id string) error {
	var one int
	err := tx.QueryRow(`SELECT 1 FROM projects WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return types.NotFound("project", id)
	}
	if err != nil {
		return fmt.Errorf("query project: %w", err)
	}
	return nil
}

func taskInProjectTx(tx txQuerier, taskID, projectID string) error {
	var gotProject string
	err := tx.QueryRow(`SELECT project_id FROM tasks WHERE id = ?`, taskID).Scan(&gotProject)
	if err == sql.ErrNoRows {
		return types.NotFound("task", taskID)
	}
	if err != nil {
		return fmt.Errorf("query task: %w", err)
	}
	if gotProject != projectID {
		return types.InvalidArgument("task %s belongs to a different project", taskID)
	}
	return nil
}

// dependencyCheckTx gathers everything that currently gates completion of
// taskID.
func dependencyCheckTx(tx txQuerier, taskID string) (models.DependencyCheck, error) {
	var check models.DependencyCheck
	var err error

	check.UnsatisfiedDependencies, err = unsatisfiedDependenciesTx(tx, taskID)
	if err != nil {
		return check, err
	}
	check.OpenBlockers, err = openBlockersTx(tx, taskID)
	if err != nil {
		return check, err
	}
	return check, nil
}

// completionGateTx refuses completion while anything gates the task.
func completionGateTx(tx txQuerier, taskID string) error {
	check, err := dependencyCheckTx(tx, taskID)
	if err != nil {
		return err
	}
	if !check.Satisfied() {
		return blockedError(taskID, check)
	}
	return nil
}

func blockedError(taskID string, check models.DependencyCheck) error {
	details := map[string]interface{}{
		"taskId": taskID,
	}
	if len(check.UnsatisfiedDependencies) > 0 {
		details["unsatisfiedDependencies"] = check.UnsatisfiedDependencies
	}
	if len(check.OpenBlockers) > 0 {
		details["openBlockers"] = check.OpenBlockers
	}
	return types.NewMCPError(types.CodeBlocked,
		fmt.Sprintf("task %s cannot complete: %d unsatisfied dependencies, %d open blockers",
			taskID, len(check.UnsatisfiedDependencies), len(check.OpenBlockers)), details)
}

// unsatisfiedDependenciesTx lists the gating dependency parents of taskID
// that are not yet completed.
func unsatisfiedDependenciesTx(tx txQuerier, taskID string) ([]models.TaskRef, error) {
	rows, err := tx.Query(`
		SELECT t.id, t.title, t.status
		FROM task_dependencies d
		JOIN tasks t ON t.id = d.parent_task_id
		WHERE d.child_task_id = ?
		  AND d.dep_type IN ('blocks', 'prerequisite')
		  AND t.status != 'completed'
		ORDER BY t.id
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("query unsatisfied dependencies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var refs []models.TaskRef
	for rows.Next() {
		var r models.TaskRef
		if err := rows.Scan(&r.ID, &r.Title, &r.Status); err != nil {
			return nil, fmt.Errorf("scan dependency: %w", err)
		}
		refs = append(refs, r)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, err
	}
	return refs, nil
}

// openBlockersTx lists blockers that gate taskID: status open or in-progress
// with a 'blocks' impact on the task.
func openBlockersTx(tx txQuerier, taskID string) ([]models.BlockerRef, error) {
	rows, err := tx.Query(`
		SELECT b.id, b.title, b.status, b.severity
		FROM blocker_impacts i
		JOIN blockers b ON b.id = i.blocker_id
		WHERE i.task_id = ?
		  AND i.impact_type = 'blocks'
		  AND b.status IN ('open', 'in-progress')
		ORDER BY b.id
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("query open blockers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var refs []models.BlockerRef
	for rows.Next() {
		var r models.BlockerRef
		if err := rows.Scan(&r.ID, &r.Title, &r.Status, &r.Severity); err != nil {
			return nil, fmt.Errorf("scan blocker: %w", err)
		}
		refs = append(refs, r)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, err
	}
	return refs, nil
}
