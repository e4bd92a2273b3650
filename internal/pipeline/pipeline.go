// Package pipeline wires the per-document stages together: image
// normalization, text recognition, text cleanup, field extraction, confidence
// scoring, and review routing.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Farfive/expenseflow-pro-sub007/constants"
	"github.com/Farfive/expenseflow-pro-sub007/internal/common"
	"github.com/Farfive/expenseflow-pro-sub007/internal/config"
	"github.com/Farfive/expenseflow-pro-sub007/internal/extract"
	"github.com/Farfive/expenseflow-pro-sub007/internal/imgnorm"
	"github.com/Farfive/expenseflow-pro-sub007/internal/patterns"
	"github.com/Farfive/expenseflow-pro-sub007/internal/recognize"
	"github.com/Farfive/expenseflow-pro-sub007/internal/scoring"
)

// Input is one document to process. Media selects the entry point: image
// inputs go through normalization and recognition, text inputs carry
// already-recognized text in Recognized. When Media is empty it is inferred
// from which payload is set.
type Input struct {
	Source     string // file path or caller-supplied label, echoed into the result
	Media      constants.MediaType
	Image      []byte
	Recognized string
}

func (in Input) media() constants.MediaType {
	if in.Media != "" {
		return in.Media
	}
	if in.Recognized != "" {
		return constants.MediaText
	}
	if len(in.Image) > 0 {
		return constants.MediaImage
	}
	return ""
}

// Result is the full per-document outcome.
type Result struct {
	DocumentID     uuid.UUID
	Source         string
	Fields         map[constants.FieldKind]extract.Field
	Scores         map[constants.FieldKind]float64
	Overall        float64
	RequiresReview bool
	ReviewReasons  []string
	BaseConfidence float32
	Duration       time.Duration
	Warnings       []string
}

// Processor runs the stages for one document at a time. It is safe for
// concurrent use; all mutable state is per-call.
type Processor struct {
	appCfg     *common.Config
	extractor  *extract.Extractor
	scorer     *scoring.Scorer
	aggregator *scoring.Aggregator
	recognizer recognize.Recognizer
	logger     *slog.Logger
}

// NewProcessor compiles the pattern library up front so a bad pattern fails
// at startup rather than per document.
func NewProcessor(appCfg *common.Config, engCfg *config.Config, rec recognize.Recognizer, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	lib, err := patterns.Compile(engCfg)
	if err != nil {
		return nil, err
	}
	return &Processor{
		appCfg:     appCfg,
		extractor:  extract.NewExtractor(lib, logger),
		scorer:     scoring.NewScorer(engCfg),
		aggregator: scoring.NewAggregator(engCfg),
		recognizer: rec,
		logger:     logger,
	}, nil
}

// WithClock pins the scorer's recency reference, for tests and replay.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.scorer.WithClock(now)
	return p
}

// Process runs one document end to end. Unreadable images and malformed
// inputs return errors; unusable text does not, it produces an all-null,
// review-flagged result, since an empty receipt is a routing outcome rather
// than a failure.
func (p *Processor) Process(ctx context.Context, in Input) (Result, error) {
	start := time.Now()
	res := Result{DocumentID: uuid.New(), Source: in.Source}

	media := in.media()
	if media == "" {
		return res, common.NewAppError("MALFORMED_INPUT", "neither image nor recognized text supplied", common.ErrMalformedInput)
	}

	text := in.Recognized
	if media == constants.MediaImage {
		png, err := imgnorm.Normalize(in.Image)
		if err != nil {
			p.logger.Error("image normalization failed", "source", in.Source, "error", err)
			return res, err
		}
		rec, err := p.recognizer.Recognize(ctx, png)
		if err != nil {
			p.logger.Error("recognition failed", "source", in.Source, "error", err)
			return res, err
		}
		text = rec.Text
		res.BaseConfidence = rec.BaseConfidence
		res.Warnings = append(res.Warnings, rec.Warnings...)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	text = extract.NormalizeText(text)

	if len(text) < p.appCfg.Engine.MinTextLength {
		res.Fields = nullFields()
		res.Scores = map[constants.FieldKind]float64{}
		res.RequiresReview = true
		res.ReviewReasons = []string{"empty_or_unusable_text"}
		res.Warnings = append(res.Warnings, common.ErrEmptyOrUnusableText.Error())
		res.Duration = time.Since(start)
		p.logger.Warn("unusable text, routing to review", "source", in.Source, "text_bytes", len(text))
		return res, nil
	}

	res.Fields = p.extractor.Extract(text)
	res.Scores = p.scorer.Score(res.Fields, text)
	res.Overall = p.aggregator.Overall(res.Scores)
	res.RequiresReview, res.ReviewReasons = p.aggregator.RequiresReview(res.Fields, res.Scores, res.Overall)
	res.Duration = time.Since(start)

	p.logger.Info("document processed",
		"source", in.Source,
		"document_id", res.DocumentID,
		"overall", res.Overall,
		"requires_review", res.RequiresReview,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func nullFields() map[constants.FieldKind]extract.Field {
	out := make(map[constants.FieldKind]extract.Field, 7)
	for _, kind := range constants.AllFieldKinds() {
		out[kind] = extract.Field{Kind: kind}
	}
	return out
}
