package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/app"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/generation"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/envutil"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/seeder"
)

func main() {
	var opts seeder.Options
	flag.StringVar(&opts.BookID, "book", "", "seed only this book id")
	flag.BoolVar(&opts.ClearOnly, "clear-only", false, "clear all data and exit")
	flag.BoolVar(&opts.NoClear, "no-clear", false, "keep existing data and upsert on top of it")
	flag.BoolVar(&opts.StatsOnly, "stats", false, "print row counts and exit")
	flag.StringVar(&opts.Dir, "dir", "questions", "fixture directory holding <book>/chapter-<n>.json")
	flag.StringVar(&opts.MappingPath, "mapping", "", "book mapping file (default <dir>/book-mapping.json)")
	flag.StringVar(&opts.EPUBDir, "epub-dir", "", "seed from .epub files in this directory instead of fixtures")
	flag.IntVar(&opts.PerChapter, "per-chapter", generation.DefaultCount, "questions to generate per chapter in epub mode")
	flag.Parse()

	app.LoadDotEnv(nil)
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := app.LoadConfig(log)
	st, err := app.OpenStore(log, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	gen, err := app.OpenGenerator(log, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init generator: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seeder.New(st, gen, log, os.Stdout).Run(ctx, opts); err != nil {
		log.Error("Seeding failed", "error", err)
		stop()
		_ = st.Close()
		log.Sync()
		os.Exit(1)
	}
}
