// Package extract applies the compiled field pattern library to recognized
// text and produces at most one best candidate per field kind. Extraction
// never fails for "not found": a field with no match carries a nil value,
// which is a normal outcome for optional fields.
package extract

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Farfive/expenseflow-pro-sub007/constants"
	"github.com/Farfive/expenseflow-pro-sub007/internal/dates"
	"github.com/Farfive/expenseflow-pro-sub007/internal/patterns"
)

// vendorLineWindow bounds how deep into the document a header-style vendor
// line may appear. Receipts put the merchant name at the top.
const vendorLineWindow = 5

// Extractor evaluates the pattern library against recognized text.
type Extractor struct {
	lib    *patterns.Library
	logger *slog.Logger
}

func NewExtractor(lib *patterns.Library, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{lib: lib, logger: logger}
}

// Extract runs every field kind against text and returns one Field per kind,
// nil-valued where nothing matched. The per-kind rule lists are evaluated in
// priority order; the first rule with at least one match wins, then a
// kind-specific selection picks among that rule's matches.
func (e *Extractor) Extract(text string) map[constants.FieldKind]Field {
	out := make(map[constants.FieldKind]Field, 7)
	for _, kind := range constants.AllFieldKinds() {
		out[kind] = Field{Kind: kind}
	}

	for _, kind := range constants.AllFieldKinds() {
		if kind == constants.Currency {
			continue // inferred from the symbol map, not from rules
		}
		rule, matches := e.firstWinningRule(kind, text)
		if rule == nil {
			continue
		}
		out[kind] = e.selectCandidate(kind, rule, matches, text)
	}

	// Currency is independent of whichever rule matched the amount.
	if code, m, ok := e.lib.FindCurrency(text); ok {
		out[constants.Currency] = Field{
			Kind:     constants.Currency,
			RawMatch: m.Raw,
			Value:    code,
			Rule:     "symbol_map",
			Span:     Span{Start: m.Start, End: m.End},
		}
	}

	return out
}

// firstWinningRule walks the ordered rule list and stops at the first rule
// that yields any match at all.
func (e *Extractor) firstWinningRule(kind constants.FieldKind, text string) (*patterns.Rule, []patterns.Match) {
	for _, rule := range e.lib.Rules(kind) {
		if ms := rule.Find(text); len(ms) > 0 {
			return rule, ms
		}
	}
	return nil, nil
}

func (e *Extractor) selectCandidate(kind constants.FieldKind, rule *patterns.Rule, ms []patterns.Match, text string) Field {
	switch kind {
	case constants.Amount:
		return selectMaxAmount(kind, rule, ms)
	case constants.VATAmount:
		return selectFirstAmount(kind, rule, ms)
	case constants.TxDate:
		return selectFirstDate(kind, rule, ms)
	case constants.Vendor:
		return selectVendor(kind, rule, ms, text)
	default:
		// TaxId, AccountNumber: first match wins.
		m := ms[0]
		return Field{
			Kind:     kind,
			RawMatch: m.Raw,
			Value:    strings.TrimSpace(m.Raw),
			Rule:     rule.Name,
			Span:     Span{Start: m.Start, End: m.End},
		}
	}
}

// selectMaxAmount keeps the largest parseable value among the winning rule's
// matches. Receipts carry subtotal/tax/total lines; the total is typically
// the largest.
func selectMaxAmount(kind constants.FieldKind, rule *patterns.Rule, ms []patterns.Match) Field {
	f := Field{Kind: kind, RawMatch: ms[0].Raw, Rule: rule.Name, Span: Span{Start: ms[0].Start, End: ms[0].End}}
	var best decimal.Decimal
	found := false
	for _, m := range ms {
		d, ok := parseMoney(m.Raw)
		if !ok {
			continue
		}
		if !found || d.GreaterThan(best) {
			best = d
			found = true
			f.RawMatch = m.Raw
			f.Span = Span{Start: m.Start, End: m.End}
		}
	}
	if found {
		f.Value = best
	}
	return f
}

func selectFirstAmount(kind constants.FieldKind, rule *patterns.Rule, ms []patterns.Match) Field {
	m := ms[0]
	f := Field{Kind: kind, RawMatch: m.Raw, Rule: rule.Name, Span: Span{Start: m.Start, End: m.End}}
	if d, ok := parseMoney(m.Raw); ok {
		f.Value = d
	}
	return f
}

// selectFirstDate keeps the first candidate that parses to a calendar-valid
// date under the documented format priority. A match that never parses stays
// as "matched but invalid": RawMatch set, Value nil.
func selectFirstDate(kind constants.FieldKind, rule *patterns.Rule, ms []patterns.Match) Field {
	f := Field{Kind: kind, RawMatch: ms[0].Raw, Rule: rule.Name, Span: Span{Start: ms[0].Start, End: ms[0].End}}
	for _, m := range ms {
		if t, ok := dates.Parse(m.Raw); ok {
			f.RawMatch = m.Raw
			f.Span = Span{Start: m.Start, End: m.End}
			f.Value = t
			return f
		}
	}
	return f
}

// selectVendor keeps the first plausible candidate that starts within the
// leading lines of the document.
func selectVendor(kind constants.FieldKind, rule *patterns.Rule, ms []patterns.Match, text string) Field {
	f := Field{Kind: kind, RawMatch: ms[0].Raw, Rule: rule.Name, Span: Span{Start: ms[0].Start, End: ms[0].End}}
	limit := lineWindowOffset(text, vendorLineWindow)
	for _, m := range ms {
		if m.Start >= limit {
			break
		}
		name := strings.TrimSpace(m.Raw)
		if !plausibleVendor(name) {
			continue
		}
		f.RawMatch = m.Raw
		f.Span = Span{Start: m.Start, End: m.End}
		f.Value = name
		return f
	}
	return f
}

// documentWords are header lines that look like vendor names but never are.
var documentWords = map[string]struct{}{
	"invoice": {}, "receipt": {}, "statement": {}, "bill": {}, "estimate": {},
	"total": {}, "subtotal": {}, "tax invoice": {}, "thank you": {}, "cash receipt": {},
}

func plausibleVendor(name string) bool {
	if len(name) < 3 || len(name) > 60 {
		return false
	}
	if _, ok := documentWords[strings.ToLower(name)]; ok {
		return false
	}
	hasLetter := false
	for _, r := range name {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			hasLetter = true
			break
		}
	}
	return hasLetter
}

// lineWindowOffset returns the byte offset where line n begins, or the text
// length if the document is shorter.
func lineWindowOffset(text string, n int) int {
	off := 0
	for i := 0; i < n; i++ {
		nl := strings.IndexByte(text[off:], '\n')
		if nl < 0 {
			return len(text)
		}
		off += nl + 1
	}
	return off
}
