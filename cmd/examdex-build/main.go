package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/cognicore/examdex/internal/corpus"
	"github.com/cognicore/examdex/internal/logger"
	"github.com/cognicore/examdex/pkg/examdex"
	"github.com/cognicore/examdex/pkg/examdex/build"
	"github.com/cognicore/examdex/pkg/examdex/config"
)

// settings collects everything a build needs from flags and environment
type settings struct {
	contentDir   string
	outPath      string
	configPath   string
	taxonomyPath string
	concurrency  int
}

func main() {
	env := config.LoadEnv()

	var (
		contentDir   = flag.String("content", env.ContentDir, "Content root directory (env EXAMDEX_CONTENT)")
		outPath      = flag.String("out", env.OutPath, "Artifact path; .db/.sqlite writes SQLite, anything else JSON (env EXAMDEX_OUT)")
		configPath   = flag.String("config", "", "Config file (optional)")
		taxonomyPath = flag.String("taxonomy", "", "Keyword taxonomy file, replaces the config taxonomy (optional)")
		concurrency  = flag.Int("concurrency", env.Concurrency, "Parallel parse workers, 0 keeps the config value (env EXAMDEX_CONCURRENCY)")
		logMode      = flag.String("log", env.LogMode, "Log mode: dev, prod or quiet (env EXAMDEX_LOG_MODE)")
		strict       = flag.Bool("strict", false, "Exit non-zero when any document fails to parse")
	)
	flag.Parse()

	if *contentDir == "" || *outPath == "" {
		log.Fatal("--content and --out are required")
	}

	zl, err := logger.New(*logMode)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync(zl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := buildArtifact(ctx, settings{
		contentDir:   *contentDir,
		outPath:      *outPath,
		configPath:   *configPath,
		taxonomyPath: *taxonomyPath,
		concurrency:  *concurrency,
	}, zl)
	if err != nil {
		zl.Fatal("build failed", zap.Error(err))
	}

	printReport(report, *outPath)

	if *strict && (len(report.Failures) > 0 || len(report.Duplicates) > 0) {
		os.Exit(1)
	}
}

func buildArtifact(ctx context.Context, s settings, zl *zap.Logger) (*build.Report, error) {
	loader := config.Loader{ConfigPath: s.configPath, TaxonomyPath: s.taxonomyPath}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if s.concurrency > 0 {
		cfg.Concurrency = s.concurrency
	}

	store, err := examdex.OpenStore(ctx, s.outPath)
	if err != nil {
		return nil, err
	}

	x := examdex.New(examdex.Options{Store: store, Config: cfg, Logger: zl})
	defer x.Close()

	return x.Build(ctx, s.contentDir)
}

func printReport(r *build.Report, outPath string) {
	fmt.Printf("Build %s → %s\n", r.BuildID, outPath)
	fmt.Printf("  documents:      %d\n", r.Documents)
	for _, kind := range corpus.Kinds {
		fmt.Printf("  %-15s %d\n", string(kind)+":", r.Counts[kind])
	}
	if len(r.Failures) > 0 {
		fmt.Printf("  failures:       %d\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Printf("    %s: %v\n", f.Path, f.Err)
		}
	}
	if len(r.Duplicates) > 0 {
		fmt.Printf("  duplicates:     %d\n", len(r.Duplicates))
		for _, d := range r.Duplicates {
			fmt.Printf("    %s: %v\n", d.Path, d.Err)
		}
	}
}
