package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/types"
)

// CreateBlocker inserts a blocker.
func (s *Store) CreateBlocker(b *models.Blocker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := models.ValidateStruct(b); err != nil {
		return types.InvalidArgument("invalid blocker: %v", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := projectExistsTx(tx, b.ProjectID); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO blockers (id, project_id, title, description, blocker_type, severity,
			status, owner, external_ref, resolution_notes, resolved_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.ProjectID, b.Title, nullString(b.Description), b.Type, b.Severity,
		b.Status, nullString(b.Owner), nullString(b.ExternalRef), nullString(b.ResolutionNotes),
		nullTimeString(b.ResolvedAt),
		b.CreatedAt.Format(time.RFC3339), b.UpdatedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert blocker %s: %w", b.Title, err)
	}

	return tx.Commit()
}

const blockerSelectColumns = `id, project_id, title, description, blocker_type, severity,
       status, owner, external_ref, resolution_notes, resolved_at, created_at, updated_at`

func scanBlockerRow(row rowScanner) (models.Blocker, error) {
	var b models.Blocker
	var desc, owner, extRef, resNotes, resolvedAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&b.ID, &b.ProjectID, &b.Title, &desc, &b.Type, &b.Severity,
		&b.Status, &owner, &extRef, &resNotes, &resolvedAt, &createdAt, &updatedAt)
	if err != nil {
		return b, err
	}

	b.Description = desc.String
	b.Owner = owner.String
	b.ExternalRef = extRef.String
	b.ResolutionNotes = resNotes.String
	b.ResolvedAt = parseNullTime(resolvedAt)
	b.CreatedAt = parseTime(createdAt)
	b.UpdatedAt = parseTime(updatedAt)
	return b, nil
}

// GetBlocker retrieves a blocker by ID.
func (s *Store) GetBlocker(id string) (*models.Blocker, error) {
	row := s.db.QueryRow(`SELECT `+blockerSelectColumns+` FROM blockers WHERE id = ?`, id)

	b, err := scanBlockerRow(row)
	if err == sql.ErrNoRows {
		return nil, types.NotFound("blocker", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query blocker: %w", err)
	}
	return &b, nil
}

// BlockerFilter narrows ListBlockers results. Zero values match everything.
type BlockerFilter struct {
	Status   string
	Severity string
}

// ListBlockers returns a project's blockers, most severe first within equal
// creation order.
func (s *Store) ListBlockers(projectID string, f BlockerFilter) ([]models.Blocker, error) {
	query := `SELECT ` + blockerSelectColumns + ` FROM blockers WHERE project_id = ?`
	args := []any{projectID}

	if f.Status != "" {
		if !models.ValidBlockerStatus(f.Status) {
			return nil, types.InvalidArgument("unknown blocker status: %s", f.Status)
		}
		query += " AND status = ?"
		args = append(args, f.Status)
	}
	if f.Severity != "" {
		if !models.ValidSeverity(f.Severity) {
			return nil, types.InvalidArgument("unknown severity: %s", f.Severity)
		}
		query += " AND severity = ?"
		args = append(args, f.Severity)
	}
	query += ` ORDER BY CASE severity
		WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END,
		created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query blockers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var blockers []models.Blocker
	for rows.Next() {
		b, err := scanBlockerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blocker: %w", err)
		}
		blockers = append(blockers, b)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list blockers: %w", err)
	}
	return blockers, nil
}

// UpdateBlocker applies the non-nil fields of u and returns the updated
// blocker. Moving status to resolved stamps resolved_at; reopening clears
// it. Closing leaves any existing stamp untouched.
func (s *Store) UpdateBlocker(id string, u models.BlockerUpdate) (*models.Blocker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.IsEmpty() {
		return nil, types.InvalidArgument("no fields to update")
	}
	if u.Title != nil && *u.Title == "" {
		return nil, types.InvalidArgument("blocker title cannot be empty")
	}
	if u.Type != nil && !models.ValidBlockerType(string(*u.Type)) {
		return nil, types.InvalidArgument("unknown blocker type: %s", *u.Type)
	}
	if u.Severity != nil && !models.ValidSeverity(string(*u.Severity)) {
		return nil, types.InvalidArgument("unknown severity: %s", *u.Severity)
	}
	if u.Status != nil && !models.ValidBlockerStatus(string(*u.Status)) {
		return nil, types.InvalidArgument("unknown blocker status: %s", *u.Status)
	}

	now := time.Now().UTC().Format(time.RFC3339)
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
	if u.Type != nil {
		sets = append(sets, "blocker_type = ?")
		args = append(args, *u.Type)
	}
	if u.Severity != nil {
		sets = append(sets, "severity = ?")
		args = append(args, *u.Severity)
	}
	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *u.Status)
		switch *u.Status {
		case models.BlockerResolved:
			sets = append(sets, "resolved_at = ?")
			args = append(args, now)
		case models.BlockerOpen, models.BlockerInProgress:
			sets = append(sets, "resolved_at = NULL")
		}
	}
	if u.Owner != nil {
		sets = append(sets, "owner = ?")
		args = append(args, nullString(*u.Owner))
	}
	if u.ExternalRef != nil {
		sets = append(sets, "external_ref = ?")
		args = append(args, nullString(*u.ExternalRef))
	}
	if u.ResolutionNotes != nil {
		sets = append(sets, "resolution_notes = ?")
		args = append(args, nullString(*u.ResolutionNotes))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now, id)

	query := "UPDATE blockers SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("update blocker: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update blocker rows affected: %w", err)
	}
	if affected == 0 {
		return nil, types.NotFound("blocker", id)
	}

	return s.GetBlocker(id)
}

// DeleteBlocker removes a blocker; its impact links cascade away with it.
func (s *Store) DeleteBlocker(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM blockers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete blocker: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete blocker rows affected: %w", err)
	}
	if affected == 0 {
		return types.NotFound("blocker", id)
	}
	return nil
}

// AddImpact links a blocker to a task. The (blocker, task, type) triple is
// unique; re-linking is refused rather than silently ignored.
func (s *Store) AddImpact(blockerID, taskID string, impactType models.ImpactType, description string, estimatedDelayHours *int) (*models.BlockerImpact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !models.ValidImpactType(string(impactType)) {
		return nil, types.InvalidArgument("unknown impact type: %s", impactType)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	b, err := getBlockerTx(tx, blockerID)
	if err != nil {
		return nil, err
	}
	if err := taskInProjectTx(tx, taskID, b.ProjectID); err != nil {
		return nil, err
	}

	var existing int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM blocker_impacts
		WHERE blocker_id = ? AND task_id = ? AND impact_type = ?
	`, blockerID, taskID, impactType).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("query existing impact: %w", err)
	}
	if existing > 0 {
		return nil, types.AlreadyExists("impact %s -> %s (%s) already exists", blockerID, taskID, impactType)
	}

	now := time.Now().UTC()
	var delay interface{}
	if estimatedDelayHours != nil {
		delay = *estimatedDelayHours
	}
	res, err := tx.Exec(`
		INSERT INTO blocker_impacts (blocker_id, task_id, impact_type, description, estimated_delay_hours, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, blockerID, taskID, impactType, nullString(description), delay, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert impact: %w", err)
	}
	impactID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("impact insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &models.BlockerImpact{
		ID:                  impactID,
		BlockerID:           blockerID,
		TaskID:              taskID,
		Type:                impactType,
		Description:         description,
		EstimatedDelayHours: estimatedDelayHours,
		CreatedAt:           now,
	}, nil
}

// RemoveImpact unlinks a blocker from a task and reports how many rows
// matched. An empty impactType removes links of every type between the pair.
func (s *Store) RemoveImpact(blockerID, taskID, impactType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `DELETE FROM blocker_impacts WHERE blocker_id = ? AND task_id = ?`
	args := []any{blockerID, taskID}
	if impactType != "" {
		if !models.ValidImpactType(impactType) {
			return 0, types.InvalidArgument("unknown impact type: %s", impactType)
		}
		query += " AND impact_type = ?"
		args = append(args, impactType)
	}

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete impact: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete impact rows affected: %w", err)
	}
	return removed, nil
}

// BlockedTasks reports the project's tasks touched by at least one open or
// in-progress blocker, worst hit first.
func (s *Store) BlockedTasks(projectID string) ([]models.BlockedTask, error) {
	rows, err := s.db.Query(`
		SELECT t.id, COUNT(DISTINCT b.id) AS blocker_count,
		       GROUP_CONCAT(DISTINCT b.title) AS blocker_titles
		FROM tasks t
		JOIN blocker_impacts i ON i.task_id = t.id
		JOIN blockers b ON b.id = i.blocker_id
		WHERE t.project_id = ? AND b.status IN ('open', 'in-progress')
		GROUP BY t.id
		ORDER BY blocker_count DESC,
			CASE t.priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
			t.id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query blocked tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type blockedRow struct {
		taskID string
		count  int
		titles string
	}
	var raw []blockedRow
	for rows.Next() {
		var r blockedRow
		var titles sql.NullString
		if err := rows.Scan(&r.taskID, &r.count, &titles); err != nil {
			return nil, fmt.Errorf("scan blocked task: %w", err)
		}
		r.titles = titles.String
		raw = append(raw, r)
	}
	if err := checkRowsErr(rows); err != nil {
		return nil, fmt.Errorf("list blocked tasks: %w", err)
	}

	var blocked []models.BlockedTask
	for _, r := range raw {
		t, err := s.GetTask(r.taskID)
		if err != nil {
			return nil, err
		}
		bt := models.BlockedTask{Task: *t, BlockerCount: r.count}
		if r.titles != "" {
			bt.BlockerTitles = strings.Split(r.titles, ",")
		}
		blocked = append(blocked, bt)
	}
	return blocked, nil
}

func getBlockerTx(tx txQuerier, id string) (*models.Blocker, error) {
	row := tx.QueryRow(`SELECT `+blockerSelectColumns+` FROM blockers WHERE id = ?`, id)
	b, err := scanBlockerRow(row)
	if err == sql.ErrNoRows {
		return nil, types.NotFound("blocker", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query blocker: %w", err)
	}
	return &b, nil
}
