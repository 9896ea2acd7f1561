// Command prodex-index runs the full ingestion pipeline offline and writes
// the prebuilt snapshot the API server prefers at startup. Run it after
// refreshing source CSVs so the server boots without re-parsing them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/openregistry/prodex/internal/config"
	"github.com/openregistry/prodex/internal/ingest"
	logpkg "github.com/openregistry/prodex/internal/logger"
)

func main() {
	out := flag.String("out", "", "snapshot output path (default: data.snapshot from config)")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	outPath := *out
	if outPath == "" {
		outPath = cfg.SnapshotPath()
	}
	if outPath == "" {
		logger.Fatal("no snapshot path: set -out or data.snapshot in config")
	}

	sources := make([]ingest.Source, len(cfg.Data.Sources))
	for i, src := range cfg.Data.Sources {
		sources[i] = ingest.Source{
			Name:         src.Name,
			Path:         src.Path,
			Shape:        ingest.Shape(src.Shape),
			IDPrefix:     src.IDPrefix,
			DefaultState: src.DefaultState,
			Enrich:       src.Enrich,
		}
	}

	loader := ingest.NewLoader(cfg.Data.Dir, sources, cfg.Data.Enrichment, logger)

	res, err := loader.Load(context.Background())
	if err != nil {
		logger.Fatal("ingestion failed", zap.Error(err))
	}

	if err := ingest.WriteSnapshot(outPath, res.Professionals); err != nil {
		logger.Fatal("write snapshot failed", zap.Error(err))
	}

	logger.Info("snapshot written",
		zap.String("path", outPath),
		zap.Int("records", res.Stats.Accepted),
		zap.Int("rows_read", res.Stats.RowsRead),
		zap.Int("enriched", res.Stats.Enriched),
		zap.Duration("duration", res.Stats.Duration),
	)
}
