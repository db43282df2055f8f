package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"islandforge/internal/archipelago"
	"islandforge/internal/genconfig"
	"islandforge/internal/island"
	"islandforge/internal/persistence/export"
	"islandforge/internal/persistence/runindex"
	"islandforge/internal/transport/observer"
	"islandforge/internal/worldstore"
)

func main() {
	var (
		mode       = flag.String("mode", "island", "generation mode: island | archipelago")
		seed       = flag.String("seed", "test-seed", "generation seed")
		configPath = flag.String("config", "", "config path (default: ./configs/<mode>.yaml)")
		schemaDir  = flag.String("schemas", "./schemas", "schema directory (empty to skip schema validation)")
		outPath    = flag.String("out", "", "zstd jsonl output path (empty to disable)")
		dbPath     = flag.String("db", "", "sqlite run index path (empty to disable)")
		limit      = flag.Int("limit", 0, "archipelago block export budget (0 = unlimited)")
		obsListen  = flag.String("obs_listen", "", "observer http listen address (empty to disable)")
		debug      = flag.Bool("debug", false, "compute the debug payload (island mode)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[generate] ", log.LstdFlags|log.Lmicroseconds)

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = fmt.Sprintf("./configs/%s.yaml", *mode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var idx *runindex.Index
	if *dbPath != "" {
		var err error
		idx, err = runindex.Open(*dbPath)
		if err != nil {
			logger.Fatalf("open run index: %v", err)
		}
		defer func() {
			if err := idx.Close(); err != nil {
				logger.Printf("close run index: %v", err)
			}
		}()
	}

	if d, err := genconfig.Digest(cfgPath); err == nil {
		logger.Printf("config %s digest %s", cfgPath, d[:16])
	}

	switch *mode {
	case "island":
		runIsland(ctx, logger, cfgPath, *schemaDir, *seed, *outPath, *debug, idx)
	case "archipelago":
		runArchipelago(ctx, logger, cfgPath, *schemaDir, *seed, *outPath, *limit, *obsListen, idx)
	default:
		logger.Fatalf("unknown mode %q", *mode)
	}
}

func runIsland(ctx context.Context, logger *log.Logger, cfgPath, schemaDir, seed, outPath string, debug bool, idx *runindex.Index) {
	cfg, err := genconfig.LoadIsland(cfgPath, schemaDir)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	// Normalize up front so batch sizing below sees the defaults.
	cfg, err = cfg.Validate()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	cfg.Debug = cfg.Debug || debug

	start := time.Now()
	res, err := island.Generate(ctx, cfg, seed)
	if err != nil {
		logger.Fatalf("generate: %v", err)
	}
	logger.Printf("run %s: %d placements, %d regions, %d forced, %d orphans in %v",
		res.RunID, len(res.Placements), len(res.Regions), res.Stats.ForcedPlacements, res.Stats.OrphanTiles, time.Since(start))

	store := worldstore.New()
	declined, err := island.Commit(ctx, res, cfg.Grid.CommitBatch, store)
	if err != nil {
		logger.Fatalf("commit: %v", err)
	}
	digest := store.Digest()
	logger.Printf("committed %d blocks (%d declined), world digest %s",
		store.PlacedCount(), declined, hex.EncodeToString(digest[:8]))

	if outPath != "" {
		if err := exportPlacements(outPath, res); err != nil {
			logger.Fatalf("export: %v", err)
		}
		logger.Printf("exported placements to %s", outPath)
	}

	if idx != nil {
		idx.RecordRun(runindex.Run{
			RunID:      res.RunID,
			Seed:       seed,
			Kind:       "island",
			Digest:     res.Digest(),
			Placements: len(res.Placements),
			Forced:     res.Stats.ForcedPlacements,
			Orphans:    res.Stats.OrphanTiles,
			CreatedAt:  time.Now(),
		})
		batch := make([]runindex.Placement, 0, cfg.Grid.CommitBatch)
		for _, p := range res.Placements {
			batch = append(batch, runindex.Placement{
				X: p.X, Y: p.Y, Z: p.Z,
				Material: p.Material, RegionID: p.RegionID, Rule: string(p.Rule),
			})
			if len(batch) == cap(batch) {
				idx.RecordPlacements(res.RunID, batch)
				batch = batch[:0]
			}
		}
		idx.RecordPlacements(res.RunID, batch)
	}
}

func runArchipelago(ctx context.Context, logger *log.Logger, cfgPath, schemaDir, seed, outPath string, limit int, obsListen string, idx *runindex.Index) {
	cfg, err := genconfig.LoadArchipelago(cfgPath, schemaDir)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	orch, err := archipelago.New(cfg, seed)
	if err != nil {
		logger.Fatalf("new orchestrator: %v", err)
	}

	if obsListen != "" {
		obs := observer.NewServer(logger)
		obs.SetRun(orch.RunID(), seed)
		orch.OnProgress(func(ev archipelago.Event) {
			obs.Publish(ev)
			logger.Printf("phase %s: %d/%d chunks, %d blocks, %d evictions",
				ev.Phase, ev.Cursor, ev.TotalChunks, ev.Blocks, ev.Evictions)
		})
		mux := http.NewServeMux()
		mux.Handle("/v1/observer/bootstrap", obs.BootstrapHandler())
		mux.Handle("/v1/observer/feed", obs.FeedHandler())
		go func() {
			logger.Printf("observer listening on %s", obsListen)
			if err := http.ListenAndServe(obsListen, mux); err != nil {
				logger.Printf("observer server: %v", err)
			}
		}()
	} else {
		orch.OnProgress(func(ev archipelago.Event) {
			logger.Printf("phase %s: %d/%d chunks, %d blocks, %d evictions",
				ev.Phase, ev.Cursor, ev.TotalChunks, ev.Blocks, ev.Evictions)
		})
	}

	start := time.Now()
	if err := orch.Run(ctx); err != nil {
		logger.Fatalf("run (resume cursor %d): %v", orch.Cursor(), err)
	}
	logger.Printf("run %s: %d islands, %d chunks, %d blocks in %v",
		orch.RunID(), len(orch.Islands()), orch.TotalChunks(), orch.TotalBlocks(), time.Since(start))

	blocks, stats, err := orch.GetAllBlocks(limit)
	if err != nil {
		logger.Fatalf("export blocks: %v", err)
	}
	if stats.Filtered > 0 {
		logger.Printf("block budget %d: returned %d, filtered %d of %d", limit, stats.Returned, stats.Filtered, stats.Total)
	}

	store := worldstore.New()
	declined := 0
	for _, b := range blocks {
		if !store.Place(b.X, b.Y, b.Z, b.Material) {
			declined++
		}
	}
	digest := store.Digest()
	logger.Printf("committed %d blocks (%d declined), world digest %s",
		store.PlacedCount(), declined, hex.EncodeToString(digest[:8]))

	if outPath != "" {
		w, err := export.NewWriter(outPath)
		if err != nil {
			logger.Fatalf("export: %v", err)
		}
		for _, b := range blocks {
			if err := w.Write(b); err != nil {
				logger.Fatalf("export: %v", err)
			}
		}
		if err := w.Close(); err != nil {
			logger.Fatalf("export: %v", err)
		}
		logger.Printf("exported %d blocks to %s", len(blocks), outPath)
	}

	if idx != nil {
		idx.RecordRun(runindex.Run{
			RunID:      orch.RunID(),
			Seed:       seed,
			Kind:       "archipelago",
			Digest:     hex.EncodeToString(digest[:]),
			Placements: stats.Returned,
			CreatedAt:  time.Now(),
		})
	}
}

func exportPlacements(path string, res *island.Result) error {
	w, err := export.NewWriter(path)
	if err != nil {
		return err
	}
	for _, p := range res.Placements {
		if err := w.Write(p); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
