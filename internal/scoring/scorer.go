// Package scoring turns extracted fields into calibrated per-field confidence
// scores and aggregates them into the document-level accept/review decision.
//
// The heuristics are a declarative table of (name, increment, predicate)
// entries per field kind rather than scattered conditionals, so each one is
// independently unit-testable and the increments read as data.
package scoring

import (
	"regexp"
	"strings"
	"time"

	"github.com/Farfive/expenseflow-pro-sub007/constants"
	"github.com/Farfive/expenseflow-pro-sub007/internal/config"
	"github.com/Farfive/expenseflow-pro-sub007/internal/dates"
	"github.com/Farfive/expenseflow-pro-sub007/internal/extract"
)

// docContext carries the shared evidence heuristics inspect.
type docContext struct {
	text  string
	lower string
	now   time.Time
}

type heuristic struct {
	name      string
	increment float64
	applies   func(f extract.Field, doc *docContext) bool
}

// Scorer computes one [0,1] score per non-null field. Extraction without
// plausibility is still weak evidence, so every present field starts at a
// fixed non-zero floor before increments apply.
type Scorer struct {
	floor float64
	table map[constants.FieldKind][]heuristic
	now   func() time.Time
}

func NewScorer(cfg *config.Config) *Scorer {
	return &Scorer{
		floor: cfg.Scoring.Floor,
		table: heuristicTable(),
		now:   time.Now,
	}
}

// WithClock overrides the recency reference, for tests and replay.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score evaluates the heuristic table over the extracted fields. Fields with
// a nil value receive no entry: they implicitly score 0 and stay out of the
// weighted aggregate.
func (s *Scorer) Score(fields map[constants.FieldKind]extract.Field, text string) map[constants.FieldKind]float64 {
	doc := &docContext{text: text, lower: strings.ToLower(text), now: s.now()}
	out := make(map[constants.FieldKind]float64, len(fields))
	for kind, f := range fields {
		if !f.HasValue() {
			continue
		}
		score := s.floor
		for _, h := range s.table[kind] {
			if h.applies(f, doc) {
				score += h.increment
			}
		}
		out[kind] = clamp01(score)
	}
	return out
}

var (
	currencyMarks = []string{"$", "£", "€", "¥", "₹"}

	totalKeywords   = []string{"total", "amount due", "balance due", "sum", "suma", "summe", "gesamtbetrag"}
	dateKeywords    = []string{"date", "dated", "issued", "fecha", "datum"}
	taxIDKeywords   = []string{"tax id", "tax no", "tin", "ein", "vat reg", "vat no", "vat number", "nip", "rfc", "abn"}
	vatKeywords     = []string{"vat", "iva", "itbis", "mwst", "gst", "sales tax", "tax"}
	accountKeywords = []string{"account", "acct", "iban", "routing"}

	legalSuffixes = []string{"inc", "corp", "ltd", "llc", "gmbh", "sa", "s.a", "plc", "ag", "bv", "oy", "co", "company", "limited"}

	reEINShape   = regexp.MustCompile(`^\d{2}-\d{7}$`)
	reEUVATShape = regexp.MustCompile(`^[A-Z]{2}\d{8,12}$`)
)

func heuristicTable() map[constants.FieldKind][]heuristic {
	return map[constants.FieldKind][]heuristic{
		constants.Amount: {
			{"currency_adjacent", 0.25, amountCurrencyAdjacent},
			{"total_keyword", 0.25, containsAny(totalKeywords)},
			{"two_decimals", 0.20, amountTwoDecimals},
		},
		constants.TxDate: {
			{"date_keyword", 0.35, containsAny(dateKeywords)},
			{"recent", 0.35, dateRecent},
		},
		constants.Vendor: {
			{"name_length", 0.20, vendorNameLength},
			{"legal_suffix", 0.25, vendorLegalSuffix},
			{"early_position", 0.25, vendorEarlyPosition},
		},
		constants.TaxID: {
			{"strict_shape", 0.40, taxIDStrictShape},
			{"tax_keyword", 0.30, containsAny(taxIDKeywords)},
		},
		constants.VATAmount: {
			{"vat_keyword", 0.40, containsAny(vatKeywords)},
			{"matched", 0.30, func(extract.Field, *docContext) bool { return true }},
		},
		constants.AccountNumber: {
			{"plausible_length", 0.35, accountPlausibleLength},
			{"account_keyword", 0.35, containsAny(accountKeywords)},
		},
		constants.Currency: {
			{"known_code", 0.40, currencyKnownCode},
		},
	}
}

// containsAny builds a document-level keyword predicate.
func containsAny(keywords []string) func(extract.Field, *docContext) bool {
	return func(_ extract.Field, doc *docContext) bool {
		for _, k := range keywords {
			if strings.Contains(doc.lower, k) {
				return true
			}
		}
		return false
	}
}

// amountCurrencyAdjacent: a currency mark inside or directly before the match.
func amountCurrencyAdjacent(f extract.Field, doc *docContext) bool {
	start := f.Span.Start - 3
	if start < 0 {
		start = 0
	}
	end := f.Span.End
	if end > len(doc.text) {
		end = len(doc.text)
	}
	window := doc.text[start:end]
	for _, mark := range currencyMarks {
		if strings.Contains(window, mark) {
			return true
		}
	}
	return false
}

func amountTwoDecimals(f extract.Field, _ *docContext) bool {
	d, ok := f.Decimal()
	return ok && d.Exponent() == -2
}

func dateRecent(f extract.Field, doc *docContext) bool {
	t, ok := f.Date()
	return ok && dates.Plausible(t, doc.now)
}

func vendorNameLength(f extract.Field, _ *docContext) bool {
	name, ok := f.Text()
	return ok && len(name) >= 3 && len(name) <= 40
}

func vendorLegalSuffix(f extract.Field, _ *docContext) bool {
	name, ok := f.Text()
	if !ok {
		return false
	}
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		tok = strings.Trim(tok, ".,")
		for _, suf := range legalSuffixes {
			if tok == suf {
				return true
			}
		}
	}
	return false
}

func vendorEarlyPosition(f extract.Field, doc *docContext) bool {
	prefix := doc.text
	if f.Span.Start < len(prefix) {
		prefix = prefix[:f.Span.Start]
	}
	return strings.Count(prefix, "\n") < 5
}

func taxIDStrictShape(f extract.Field, _ *docContext) bool {
	id, ok := f.Text()
	if !ok {
		return false
	}
	id = strings.ReplaceAll(id, " ", "")
	return reEINShape.MatchString(id) || reEUVATShape.MatchString(id)
}

func accountPlausibleLength(f extract.Field, _ *docContext) bool {
	acct, ok := f.Text()
	if !ok {
		return false
	}
	digits := 0
	for _, r := range acct {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	compact := len(strings.ReplaceAll(strings.ReplaceAll(acct, " ", ""), "-", ""))
	return (digits >= 8 && digits <= 20) || (compact >= 15 && compact <= 34)
}

func currencyKnownCode(f extract.Field, _ *docContext) bool {
	code, ok := f.Text()
	return ok && len(code) == 3
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
