package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"railcraft.ai/internal/persistence/indexdb"
	"railcraft.ai/internal/persistence/snapshot"
	"railcraft.ai/internal/sim/catalogs"
	"railcraft.ai/internal/sim/tuning"
	"railcraft.ai/internal/sim/world"
)

type runtimeIndex interface {
	world.TickLogger
	world.AuditLogger
	Close() error
	BeginRun(worldID, configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) (string, error)
	RecordSnapshot(path string, snap snapshot.SnapshotV1)
	Dropped() uint64
}

func openRuntimeIndex(worldDir string, disableDB bool) (runtimeIndex, error) {
	if disableDB {
		return nil, nil
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("RC_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		return indexdb.OpenSQLite(filepath.Join(worldDir, "index", "world.sqlite"))
	default:
		return nil, fmt.Errorf("unsupported RC_INDEX_BACKEND: %s", backend)
	}
}

type multiAuditLogger struct {
	a world.AuditLogger
	b world.AuditLogger
}

func (m multiAuditLogger) WriteAudit(entry world.AuditEntry) error {
	if m.a != nil {
		_ = m.a.WriteAudit(entry)
	}
	if m.b != nil {
		_ = m.b.WriteAudit(entry)
	}
	return nil
}
