// Package recognize turns a normalized document image into raw text plus a
// base recognition confidence. The engine itself is deterministic over text;
// this package is the one boundary that shells out to an external binary.
package recognize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Farfive/expenseflow-pro-sub007/internal/common"
)

// Result is the recognizer output for a single image.
type Result struct {
	Text           string
	BaseConfidence float32 // mean word confidence in [0,1]; 0 when unavailable
	Language       string
	Duration       time.Duration
	Warnings       []string
}

// Recognizer produces text from a normalized PNG image.
type Recognizer interface {
	Recognize(ctx context.Context, png []byte) (Result, error)
}

// Tesseract shells out to the tesseract binary. The image is handed over via
// a temp file because tesseract wants a path, not stdin.
type Tesseract struct {
	cfg    common.RecognizerConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseract(cfg common.RecognizerConfig, runner Runner, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	return &Tesseract{cfg: cfg, runner: runner, logger: logger}
}

func (t *Tesseract) Recognize(ctx context.Context, png []byte) (Result, error) {
	start := time.Now()

	tmp, err := os.CreateTemp("", "docextract-*.png")
	if err != nil {
		return Result{}, fmt.Errorf("recognizer temp file: %w", err)
	}
	path := tmp.Name()
	defer func() { _ = os.Remove(path) }()
	if _, err := tmp.Write(png); err != nil {
		_ = tmp.Close()
		return Result{}, fmt.Errorf("recognizer temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("recognizer temp file: %w", err)
	}

	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	text, warns, err := t.runText(ctx, path)
	if err != nil {
		return Result{Warnings: warns}, err
	}

	res := Result{
		Text:     text,
		Language: t.cfg.Lang,
		Warnings: warns,
	}
	if conf, w, err := t.runTSVConfidence(ctx, path); err == nil {
		res.BaseConfidence = conf
		res.Warnings = append(res.Warnings, w...)
	} else {
		// recognition still succeeded; confidence just stays 0
		res.Warnings = append(res.Warnings, err.Error())
	}
	res.Duration = time.Since(start)

	t.logger.Debug("recognition complete",
		"lang", res.Language,
		"text_bytes", len(res.Text),
		"base_confidence", res.BaseConfidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (t *Tesseract) runText(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", t.cfg.Lang}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}

	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}

// runTSVConfidence reruns tesseract in TSV mode and averages the per-word
// conf column (0..100) into [0,1]. Rows with conf -1 are layout artifacts,
// not words.
func (t *Tesseract) runTSVConfidence(ctx context.Context, path string) (float32, []string, error) {
	args := []string{path, "stdout", "-l", t.cfg.Lang}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, args...)
	if err != nil {
		return 0, []string{string(errb)}, fmt.Errorf("tesseract tsv: %w", err)
	}

	var sum, n float64
	for i, ln := range strings.Split(string(out), "\n") {
		if i == 0 || ln == "" {
			continue // header
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[len(cols)-2]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil, nil
	}
	return float32(sum / n / 100.0), nil, nil
}
