package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/projmem/projmem/internal/graph"
	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/types"
)

// AddDependency records a directed edge parent -> child. The edge is refused
// when either task is missing, the pair is already linked with the same type,
// or the edge would close a cycle. Cycle detection runs over all edge types,
// not just the gating ones, so the graph stays a DAG outright.
func (s *Store) AddDependency(projectID, parentID, childID string, depType models.DependencyType) (*models.DependencyEdge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !models.ValidDependencyType(string(depType)) {
		return nil, types.InvalidArgument("unknown dependency type: %s", depType)
	}
	if parentID == childID {
		return nil, types.InvalidArgument("task %s cannot depend on itself", parentID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := taskInProjectTx(tx, parentID, projectID); err != nil {
		return nil, err
	}
	if err := taskInProjectTx(tx, childID, projectID); err != nil {
		return nil, err
	}

	var existing int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM task_dependencies
		WHERE parent_task_id = ? AND child_task_id = ? AND dep_type = ?
	`, parentID, childID, depType).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("query existing edge: %w", err)
	}
	if existing > 0 {
		return nil, types.AlreadyExists("dependency %s -> %s (%s) already exists", parentID, childID, depType)
	}

	g, err := projectGraphTx(tx, projectID)
	if err != nil {
		return nil, err
	}
	if g.WouldCreateCycle(parentID, childID) {
		return nil, types.NewMCPError(types.CodeCycleDetected,
			fmt.Sprintf("dependency %s -> %s would create a cycle", parentID, childID),
			map[string]interface{}{
				"parentTaskId": parentID,
				"childTaskId":  childID,
			})
	}

	now := time.Now().UTC()
	res, err := tx.Exec(`
		INSERT INTO task_dependencies (project_id, parent_task_id, child_task_id, dep_type, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, projectID, parentID, childID, depType, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert dependency: %w", err)
	}
	edgeID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("dependency insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &models.DependencyEdge{
		ID:           edgeID,
		ProjectID:    projectID,
		ParentTaskID: parentID,
		ChildTaskID:  childID,
		Type:         depType,
		CreatedAt:    now,
	}, nil
}

// RemoveDependency deletes the edge(s) between two tasks and reports how many
// rows matched. Removing an absent edge is not an error; the count is zero.
// An empty depType removes edges of every type between the pair.
func (s *Store) RemoveDependency(parentID, childID string, depType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `DELETE FROM task_dependencies WHERE parent_task_id = ? AND child_task_id = ?`
	args := []any{parentID, childID}
	if depType != "" {
		if !models.ValidDependencyType(depType) {
			return 0, types.InvalidArgument("unknown dependency type: %s", depType)
		}
		query += " AND dep_type = ?"
		args = append(args, depType)
	}

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete dependency: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete dependency rows affected: %w", err)
	}
	return removed, nil
}

// TaskDependencies lists a task's edges in both directions, each joined with
// the task on the far end.
func (s *Store) TaskDependencies(taskID string) (*models.DependencyLinks, error) {
	if _, err := s.GetTask(taskID); err != nil {
		return nil, err
	}

	links := &models.DependencyLinks{}

	var err error
	links.DependsOn, err = s.dependencyLinks(`
		SELECT d.id, d.dep_type, t.id, t.title, t.status
		FROM task_dependencies d
		JOIN tasks t ON t.id = d.parent_task_id
		WHERE d.child_task_id = ?
		ORDER BY d.id
	`, taskID)
	if err != nil {
		return nil, err
	}

	links.Blocks, err = s.dependencyLinks(`
		SELECT d.id, d.dep_type, t.id, t.title, t.status
		FROM task_dependencies d
		JOIN tasks t ON t.id = d.child_task_id
		WHERE d.parent_task_id = ?
		ORDER BY d.id
	`, taskID)
	if err != nil {
		return nil, err
	}

	return links, nil
}

func (s *Store) dependencyLinks(query, taskID string) ([]models.DependencyLink, error) {
	rows, err := s.db.Query(query, taskID)
	if err != nil {
		return nil, fmt.Errorf("query dependencies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var links []models.DependencyLink
	for rows.Next() {
		var l models.DependencyLink
		if err := rows.Scan(&l.EdgeID, &l.Type, &l.Task.ID, &l.Task.Title, &l.Task.Status); err != nil {
			return nil, fmt.Errorf("scan dependency: %w", err)
		}
		links = append(links, l)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, err
	}
	return links, nil
}

// WouldCreateCycle answers whether adding parent -> child would close a cycle
// in the project's dependency graph, without changing anything. Both tasks
// must exist in the project.
func (s *Store) WouldCreateCycle(projectID, parentID, childID string) (bool, error) {
	if err := taskInProjectTx(s.db, parentID, projectID); err != nil {
		return false, err
	}
	if err := taskInProjectTx(s.db, childID, projectID); err != nil {
		return false, err
	}
	if parentID == childID {
		return true, nil
	}

	g, err := projectGraphTx(s.db, projectID)
	if err != nil {
		return false, err
	}
	return g.WouldCreateCycle(parentID, childID), nil
}

// projectGraphTx loads a project's full edge set into an adjacency graph.
func projectGraphTx(q txQuerier, projectID string) (*graph.Graph, error) {
	rows, err := q.Query(`
		SELECT parent_task_id, child_task_id FROM task_dependencies WHERE project_id = ?
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query project edges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	g := graph.New()
	for rows.Next() {
		var parent, child string
		if err := rows.Scan(&parent, &child); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		g.AddEdge(parent, child)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, err
	}
	return g, nil
}

var _ txQuerier = (*sql.DB)(nil)
var _ txQuerier = (*sql.Tx)(nil)
