package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/types"
)

// RecordDecision inserts a decision.
func (s *Store) RecordDecision(d *models.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := models.ValidateStruct(d); err != nil {
		return types.InvalidArgument("invalid decision: %v", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := projectExistsTx(tx, d.ProjectID); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO decisions (id, project_id, title, description, rationale, alternatives, decided_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.ProjectID, d.Title, nullString(d.Description), nullString(d.Rationale),
		nullString(d.Alternatives), d.DecidedAt.Format(time.RFC3339),
		d.CreatedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}

	return tx.Commit()
}

// ListDecisions returns a project's decisions, newest first.
func (s *Store) ListDecisions(projectID string) ([]models.Decision, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, title, description, rationale, alternatives, decided_at, created_at
		FROM decisions WHERE project_id = ?
		ORDER BY decided_at DESC, id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var decisions []models.Decision
	for rows.Next() {
		var d models.Decision
		var desc, rationale, alternatives sql.NullString
		var decidedAt, createdAt string
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Title, &desc, &rationale, &alternatives, &decidedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		d.Description = desc.String
		d.Rationale = rationale.String
		d.Alternatives = alternatives.String
		d.DecidedAt = parseTime(decidedAt)
		d.CreatedAt = parseTime(createdAt)
		decisions = append(decisions, d)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	return decisions, nil
}

// MapFile records what a file is for. Mapping a path that is already mapped
// in the project overwrites the previous record in place.
func (s *Store) MapFile(m *models.FileMapping) (*models.FileMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := models.ValidateStruct(m); err != nil {
		return nil, types.InvalidArgument("invalid file mapping: %v", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := projectExistsTx(tx, m.ProjectID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`
		INSERT INTO file_mappings (id, project_id, file_path, purpose, component, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, file_path) DO UPDATE SET
			purpose = excluded.purpose,
			component = excluded.component,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, m.ID, m.ProjectID, m.FilePath, nullString(m.Purpose), nullString(m.Component),
		nullString(m.Notes), m.CreatedAt.Format(time.RFC3339),
		m.UpdatedAt.Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("upsert file mapping: %w", err)
	}

	// The upsert may have kept the original row's ID; read it back.
	row := tx.QueryRow(`
		SELECT id, project_id, file_path, purpose, component, notes, created_at, updated_at
		FROM file_mappings WHERE project_id = ? AND file_path = ?
	`, m.ProjectID, m.FilePath)
	stored, err := scanFileMappingRow(row)
	if err != nil {
		return nil, fmt.Errorf("query file mapping: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &stored, nil
}

func scanFileMappingRow(row rowScanner) (models.FileMapping, error) {
	var m models.FileMapping
	var purpose, component, notes sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&m.ID, &m.ProjectID, &m.FilePath, &purpose, &component, &notes, &createdAt, &updatedAt)
	if err != nil {
		return m, err
	}
	m.Purpose = purpose.String
	m.Component = component.String
	m.Notes = notes.String
	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTime(updatedAt)
	return m, nil
}

// ListFileMappings returns a project's file mappings ordered by path. An
// empty component matches everything.
func (s *Store) ListFileMappings(projectID, component string) ([]models.FileMapping, error) {
	query := `
		SELECT id, project_id, file_path, purpose, component, notes, created_at, updated_at
		FROM file_mappings WHERE project_id = ?`
	args := []any{projectID}
	if component != "" {
		query += " AND component = ?"
		args = append(args, component)
	}
	query += " ORDER BY file_path"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query file mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var mappings []models.FileMapping
	for rows.Next() {
		m, err := scanFileMappingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list file mappings: %w", err)
	}
	return mappings, nil
}
