package scoring

import (
	"fmt"

	"github.com/Farfive/expenseflow-pro-sub007/constants"
	"github.com/Farfive/expenseflow-pro-sub007/internal/config"
	"github.com/Farfive/expenseflow-pro-sub007/internal/extract"
)

// Aggregator combines per-field scores into an overall document confidence
// and applies the review-routing decision. Overall confidence is always
// recomputed from its inputs; nothing is cached.
type Aggregator struct {
	cfg *config.Config
}

func NewAggregator(cfg *config.Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Overall is the weighted mean over fields that have a score (i.e. a
// non-null value). Documents lacking optional fields are not penalized;
// missing required fields are handled by RequiresReview. A zero denominator
// (nothing extracted) yields 0.
func (a *Aggregator) Overall(scores map[constants.FieldKind]float64) float64 {
	var weighted, denom float64
	for kind, score := range scores {
		w := a.cfg.Weight(kind)
		weighted += w * score
		denom += w
	}
	if denom == 0 {
		return 0
	}
	return weighted / denom
}

// RequiresReview routes a document to human review when any of three
// conditions holds: overall confidence below the document threshold, a
// required field missing, or a present field scoring under its own
// threshold. The three-part OR keeps a single strong field from masking a
// structurally incomplete or individually weak extraction.
func (a *Aggregator) RequiresReview(
	fields map[constants.FieldKind]extract.Field,
	scores map[constants.FieldKind]float64,
	overall float64,
) (bool, []string) {
	var reasons []string

	if overall < a.cfg.Thresholds.Document {
		reasons = append(reasons, "overall_below_threshold")
	}
	for _, req := range constants.RequiredFieldKinds {
		if f, ok := fields[req]; !ok || !f.HasValue() {
			reasons = append(reasons, fmt.Sprintf("missing_required:%s", req))
		}
	}
	for _, kind := range constants.AllFieldKinds() {
		score, ok := scores[kind]
		if !ok {
			continue
		}
		if score < a.cfg.FieldThreshold(kind) {
			reasons = append(reasons, fmt.Sprintf("weak_field:%s", kind))
		}
	}

	return len(reasons) > 0, reasons
}
