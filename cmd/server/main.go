package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	persistlog "railcraft.ai/internal/persistence/log"
	"railcraft.ai/internal/persistence/snapshot"
	"railcraft.ai/internal/sim/catalogs"
	"railcraft.ai/internal/sim/scenario"
	"railcraft.ai/internal/sim/tuning"
	"railcraft.ai/internal/sim/world"
	"railcraft.ai/internal/transport/observer"
)

func main() {
	var (
		addr         = flag.String("addr", "127.0.0.1:8080", "http listen address")
		worldID      = flag.String("world", "", "world id (default: scenario world_id, else world_1)")
		seed         = flag.Int64("seed", 0, "world seed override for a fresh world (0 keeps tuning seed)")
		configDir    = flag.String("configs", "./configs", "config directory")
		dataDir      = flag.String("data", "./data", "runtime data directory")
		tuningPath   = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		scenarioPath = flag.String("scenario", "", "path to scenario.yaml (default: <configs>/scenario.yaml; \"none\" to start empty)")
		disableDB    = flag.Bool("disable_db", false, "disable the sqlite index (ticks, audits, snapshot metadata)")
		allowRemote  = flag.Bool("allow_remote", false, "serve observer and admin endpoints to non-loopback clients")
		pprofOn      = flag.Bool("pprof", false, "serve /debug/pprof")

		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "load latest snapshot from data dir if present (when -snapshot is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	sp := strings.TrimSpace(*scenarioPath)
	switch sp {
	case "":
		sp = filepath.Join(*configDir, "scenario.yaml")
		if _, err := os.Stat(sp); err != nil {
			sp = ""
		}
	case "none":
		sp = ""
	}

	// The world directory needs the world id, which may come from the scenario.
	id := strings.TrimSpace(*worldID)
	if id == "" && sp != "" {
		if s, err := scenario.Load(sp); err == nil {
			id = s.WorldID
		}
	}
	if id == "" {
		id = "world_1"
	}
	worldDir := filepath.Join(*dataDir, "worlds", id)
	if err := os.MkdirAll(worldDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}

	snapshotToLoad := strings.TrimSpace(*snapPath)
	if snapshotToLoad == "" && *loadLatest {
		snapshotToLoad = latestSnapshot(worldDir)
	}

	w, err := buildWorld(worldOptions{
		WorldID:      id,
		Seed:         *seed,
		Tuning:       tune,
		ScenarioPath: sp,
		SnapshotPath: snapshotToLoad,
	}, cats, logger)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}

	// Optional: read-model index backend (does not affect sim determinism).
	idx, err := openRuntimeIndex(worldDir, *disableDB)
	if err != nil {
		logger.Fatalf("open index backend: %v", err)
	}
	if idx != nil {
		defer idx.Close()
		runID, err := idx.BeginRun(id, *configDir, cats, tune)
		if err != nil {
			logger.Printf("index backend: begin run: %v", err)
		} else {
			logger.Printf("index run_id=%s", runID)
		}
	}

	tickLog := persistlog.NewTickLogger(worldDir)
	auditLog := persistlog.NewAuditLogger(worldDir)
	defer tickLog.Close()
	defer auditLog.Close()
	tee := persistlog.TeeTickLogger{tickLog}
	var auditSink world.AuditLogger = auditLog
	if idx != nil {
		tee = append(tee, idx)
		auditSink = multiAuditLogger{a: auditLog, b: idx}
	}
	w.SetTickLogger(tee)
	w.SetAuditLogger(auditSink)

	ctx, cancel := signalContext()
	defer cancel()

	// Snapshot writer.
	snapCh := make(chan snapshot.SnapshotV1, 2)
	w.SetSnapshotSink(snapCh)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-snapCh:
				path := snapshotPath(worldDir, snap.Header.Tick)
				if err := snapshot.WriteSnapshot(path, snap); err != nil {
					logger.Printf("snapshot write: %v", err)
					continue
				}
				if idx != nil {
					idx.RecordSnapshot(path, snap)
				}
			}
		}
	}()

	worldDone := make(chan struct{})
	go func() {
		defer close(worldDone)
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("world stopped: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		fmt.Fprintf(rw, "# HELP railcraft_world_tick Current world tick.\n")
		fmt.Fprintf(rw, "# TYPE railcraft_world_tick gauge\n")
		fmt.Fprintf(rw, "railcraft_world_tick{world=%q} %d\n", id, w.CurrentTick())
		if idx != nil {
			fmt.Fprintf(rw, "# HELP railcraft_index_dropped_total Index writes dropped under backpressure.\n")
			fmt.Fprintf(rw, "# TYPE railcraft_index_dropped_total counter\n")
			fmt.Fprintf(rw, "railcraft_index_dropped_total{world=%q} %d\n", id, idx.Dropped())
		}
	})
	obsSrv := observer.NewServer(w, logger)
	obsSrv.AllowRemote = *allowRemote
	obsSrv.Routes(mux)
	if *pprofOn {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("world=%s tick=%d strategy=%s listening on %s", id, w.CurrentTick(), w.Config().PlacementStrategy, *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
	cancel()
	<-worldDone
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
