// Command docextract runs the extraction engine over one file or a
// directory of documents, prints a summary, and optionally writes an XLSX
// review report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Farfive/expenseflow-pro-sub007/internal/common"
	"github.com/Farfive/expenseflow-pro-sub007/internal/config"
	"github.com/Farfive/expenseflow-pro-sub007/internal/export"
	"github.com/Farfive/expenseflow-pro-sub007/internal/ingest"
	"github.com/Farfive/expenseflow-pro-sub007/internal/pipeline"
	"github.com/Farfive/expenseflow-pro-sub007/internal/recognize"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		file    = flag.String("file", "", "single document to process (image or .txt)")
		dir     = flag.String("dir", "", "directory of documents to process")
		cfgPath = flag.String("config", "", "pattern/threshold config file (JSON or YAML); built-in defaults if empty")
		out     = flag.String("out", "", "output XLSX report path (optional)")
		workers = flag.Int("workers", 0, "concurrent documents (defaults to BATCH_WORKERS)")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *file == "" && *dir == "" {
		printError("Error: one of --file or --dir is required\n")
		os.Exit(1)
	}

	appCfg := common.LoadConfig()
	if err := appCfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	level := appCfg.SlogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if *cfgPath == "" {
		*cfgPath = appCfg.Engine.ConfigPath
	}
	if *workers <= 0 {
		*workers = appCfg.Batch.Workers
	}

	engCfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			printError("Error: loading engine config %s: %v\n", *cfgPath, err)
			os.Exit(1)
		}
		engCfg = loaded
	}

	inputs, err := collectInputs(*file, *dir, logger)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		printError("Error: no processable documents found\n")
		os.Exit(1)
	}

	rec := recognize.NewTesseract(appCfg.Recognizer, nil, logger)
	proc, err := pipeline.NewProcessor(appCfg, engCfg, rec, logger)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	outcomes := proc.ProcessBatch(ctx, inputs, *workers)

	var processed, review, failed int
	for _, oc := range outcomes {
		switch {
		case oc.Err != nil:
			failed++
		case oc.Result.RequiresReview:
			review++
			processed++
		default:
			processed++
		}
	}

	if *out != "" {
		svc := export.NewService(logger)
		data, err := svc.ReportXLSX(outcomes)
		if err != nil {
			printError("Error: writing report: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			printError("Error: writing %s: %v\n", *out, err)
			os.Exit(1)
		}
	}

	logger.Info("batch complete",
		"documents", len(outcomes),
		"processed", processed,
		"requires_review", review,
		"failed", failed,
		"report", *out,
	)
	if failed > 0 {
		os.Exit(1)
	}
}

// collectInputs gathers documents from the --file / --dir flags.
func collectInputs(file, dir string, logger *slog.Logger) ([]pipeline.Input, error) {
	var inputs []pipeline.Input
	if file != "" {
		in, err := ingest.LoadFile(file)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	if dir != "" {
		scanned, stats, err := ingest.ScanDirectory(dir, func(path string, err error) {
			logger.Warn("skipping unreadable file", "path", path, "error", err)
		})
		if err != nil {
			return nil, err
		}
		logger.Info("directory scanned",
			"dir", dir,
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"skipped", stats.Skipped,
			"failed", stats.Failed,
		)
		inputs = append(inputs, scanned...)
	}
	return inputs, nil
}
