package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projmem/projmem/internal/util"
	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/types"
)

func TestRecordAndListDecisions(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")

	now := time.Now().UTC()
	d := models.Decision{
		ID:        util.NewID("dec"),
		ProjectID: p.ID,
		Title:     "Use SQLite for state",
		Rationale: "Single file, no server to run",
		DecidedAt: now,
		CreatedAt: now,
	}
	require.NoError(t, s.RecordDecision(&d))

	later := models.Decision{
		ID:        util.NewID("dec"),
		ProjectID: p.ID,
		Title:     "Drop the REST layer",
		DecidedAt: now.Add(time.Hour),
		CreatedAt: now.Add(time.Hour),
	}
	require.NoError(t, s.RecordDecision(&later))

	decisions, err := s.ListDecisions(p.ID)
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	// Newest first.
	assert.Equal(t, later.ID, decisions[0].ID)
	assert.Equal(t, "Single file, no server to run", decisions[1].Rationale)

	orphan := models.Decision{
		ID:        util.NewID("dec"),
		ProjectID: "proj-missing",
		Title:     "Orphan",
		DecidedAt: now,
		CreatedAt: now,
	}
	assert.Equal(t, types.CodeNotFound, types.CodeOf(s.RecordDecision(&orphan)))
}

func TestMapFileUpsert(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")

	now := time.Now().UTC()
	m := models.FileMapping{
		ID:        util.NewID("file"),
		ProjectID: p.ID,
		FilePath:  "internal/auth/session.go",
		Purpose:   "Session token issuance",
		Component: "auth",
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored, err := s.MapFile(&m)
	require.NoError(t, err)
	assert.Equal(t, m.ID, stored.ID)

	// Mapping the same path again overwrites in place, keeping the row.
	again := models.FileMapping{
		ID:        util.NewID("file"),
		ProjectID: p.ID,
		FilePath:  "internal/auth/session.go",
		Purpose:   "Session token issuance and refresh",
		Component: "auth",
		CreatedAt: now,
		UpdatedAt: now.Add(time.Minute),
	}
	stored, err = s.MapFile(&again)
	require.NoError(t, err)
	assert.Equal(t, m.ID, stored.ID)
	assert.Equal(t, "Session token issuance and refresh", stored.Purpose)

	mappings, err := s.ListFileMappings(p.ID, "")
	require.NoError(t, err)
	require.Len(t, mappings, 1)
}

func TestListFileMappingsByComponent(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")

	now := time.Now().UTC()
	for _, f := range []struct{ path, component string }{
		{"cmd/server/main.go", "server"},
		{"internal/auth/session.go", "auth"},
		{"internal/auth/token.go", "auth"},
	} {
		m := models.FileMapping{
			ID:        util.NewID("file"),
			ProjectID: p.ID,
			FilePath:  f.path,
			Component: f.component,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err := s.MapFile(&m)
		require.NoError(t, err)
	}

	auth, err := s.ListFileMappings(p.ID, "auth")
	require.NoError(t, err)
	require.Len(t, auth, 2)
	// Ordered by path.
	assert.Equal(t, "internal/auth/session.go", auth[0].FilePath)

	all, err := s.ListFileMappings(p.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
