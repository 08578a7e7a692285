package indexdb

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"railcraft.ai/internal/persistence/snapshot"
	"railcraft.ai/internal/sim/catalogs"
	"railcraft.ai/internal/sim/tuning"
	"railcraft.ai/internal/sim/world"
)

func openTest(t *testing.T) (*SQLiteIndex, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index", "world.sqlite")
	idx, err := OpenSQLite(path)
	require.NoError(t, err)
	return idx, path
}

func beginRun(t *testing.T, idx *SQLiteIndex) string {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	require.NoError(t, err)
	runID, err := idx.BeginRun("w1", "../../../configs", cats, tuning.Defaults())
	require.NoError(t, err)
	return runID
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}

func TestOpenSQLite_AppliesMigrations(t *testing.T) {
	idx, path := openTest(t)
	v, dirty, err := idx.SchemaVersion()
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(2), v)
	require.NoError(t, idx.Close())

	// Reopening an up-to-date database is a no-op.
	again, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestSQLiteIndex_WritesBeforeRunAreIgnored(t *testing.T) {
	idx, path := openTest(t)
	require.Equal(t, "", idx.RunID())
	require.NoError(t, idx.WriteTick(world.TickLogEntry{Tick: 1, Digest: "x"}))
	require.NoError(t, idx.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	require.Equal(t, 0, countRows(t, db, `SELECT COUNT(*) FROM ticks`))
}

func TestSQLiteIndex_RecordsRunTicksAuditsSnapshots(t *testing.T) {
	idx, path := openTest(t)
	runID := beginRun(t, idx)
	_, err := uuid.Parse(runID)
	require.NoError(t, err)

	require.NoError(t, idx.WriteTick(world.TickLogEntry{Tick: 7, Digest: "d7", Placements: 2, Loads: []world.LoadItems{{VehicleID: "C", Item: "COAL", Count: 1}}}))
	require.NoError(t, idx.WriteAudit(world.AuditEntry{Tick: 7, Actor: "L1", Action: "SET_BLOCK", Pos: [3]int{1, 0, 0}, To: 9, Reason: "TRACK_LAYER"}))
	require.NoError(t, idx.WriteAudit(world.AuditEntry{Tick: 7, Actor: "L1", Action: "SET_BLOCK", Pos: [3]int{-1, 0, 0}, To: 9, Reason: "TRACK_LAYER"}))
	idx.RecordSnapshot("/snap/7.snap.zst", snapshot.SnapshotV1{
		Header:   snapshot.Header{Version: snapshot.Version, Tick: 7},
		Seed:     1337,
		Vehicles: []snapshot.VehicleV1{{ID: "L1"}},
	})
	require.NoError(t, idx.Close())
	require.NoError(t, idx.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var worldID, strategy string
	require.NoError(t, db.QueryRow(`SELECT world_id, placement_strategy FROM runs WHERE run_id=?`, runID).Scan(&worldID, &strategy))
	require.Equal(t, "w1", worldID)
	require.Equal(t, "heading", strategy)
	require.Equal(t, 5, countRows(t, db, `SELECT COUNT(*) FROM catalogs WHERE run_id=?`, runID))

	var digest string
	var placements, loads int
	require.NoError(t, db.QueryRow(`SELECT digest, placements, loads FROM ticks WHERE run_id=? AND tick=7`, runID).Scan(&digest, &placements, &loads))
	require.Equal(t, "d7", digest)
	require.Equal(t, 2, placements)
	require.Equal(t, 1, loads)

	require.Equal(t, 2, countRows(t, db, `SELECT COUNT(*) FROM audits WHERE run_id=? AND actor='L1'`, runID))
	require.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM audits WHERE seq=1 AND x=-1`))

	var vehicles int
	require.NoError(t, db.QueryRow(`SELECT vehicles FROM snapshots WHERE run_id=? AND tick=7`, runID).Scan(&vehicles))
	require.Equal(t, 1, vehicles)
}

func TestSQLiteIndex_FullQueueDrops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.sqlite")
	idx, err := openSQLite(path, 0)
	require.NoError(t, err)
	beginRun(t, idx)

	// With no buffer a send only succeeds while the writer is parked on
	// receive, so at least one of a burst is dropped.
	for i := 0; i < 1000; i++ {
		_ = idx.WriteTick(world.TickLogEntry{Tick: uint64(i)})
	}
	require.NoError(t, idx.Close())
	require.Greater(t, idx.Dropped(), uint64(0))
	// Writes after close are ignored.
	require.NoError(t, idx.WriteAudit(world.AuditEntry{}))
}
