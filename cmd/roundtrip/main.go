package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/okian/mmolbparse/internal/config"
	"github.com/okian/mmolbparse/internal/corpus"
	"github.com/okian/mmolbparse/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers = 2 // multiplier for runtime.NumCPU()
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		path        = flag.String("corpus", "", "Corpus file (default $MMOLB_CORPUS_PATH)")
		concurrency = flag.Int("concurrency", runtime.NumCPU()*defaultWorkers, "Parallel checks")
		baseURL     = flag.String("url", "", "Base URL of a running service; empty checks in process")
		batch       = flag.Int("batch", corpus.DefaultBatchSize, "Messages per request in service mode")
		timeout     = flag.Duration("timeout", corpus.DefaultTimeout, "HTTP timeout and wait for service results")
		verbose     = flag.Bool("verbose", false, "List parse errors and unknown kinds too")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		corpus.ShowHelp(os.Stdout)
		return 0
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 2
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *path == "" {
		cfg, err := config.Load(ctx)
		if err != nil {
			os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
			return 2
		}
		*path = cfg.CorpusPath
	}
	if *path == "" {
		os.Stderr.WriteString("no corpus given: pass -corpus or set MMOLB_CORPUS_PATH\n")
		return 2
	}

	runner := corpus.NewRunner(corpus.Config{
		Path:        *path,
		Concurrency: *concurrency,
		Verbose:     *verbose,
		URL:         *baseURL,
		Timeout:     *timeout,
		BatchSize:   *batch,
	}, corpus.WithLogger(logger.Named("roundtrip")))

	summary, err := runner.Run(ctx)
	if err != nil {
		logger.Get().Error(ctx, "round trip run failed", logger.Error(err))
		return 2
	}

	summary.Write(os.Stdout, *verbose)
	if !summary.OK() {
		return 1
	}
	return 0
}
