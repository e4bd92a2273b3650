// Package patterns compiles the configured field pattern library into an
// evaluatable form. Each field kind owns an ordered rule list; the first rule
// producing at least one match wins for that kind, a deliberate
// precision-over-recall tie-break favoring narrow keyword-anchored patterns
// over generic shapes.
package patterns

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Farfive/expenseflow-pro-sub007/constants"
	"github.com/Farfive/expenseflow-pro-sub007/internal/common"
	"github.com/Farfive/expenseflow-pro-sub007/internal/config"
)

// Match is one occurrence of a rule inside the recognized text.
type Match struct {
	// Raw is the captured value (the configured group, or the whole match).
	Raw string
	// Start/End are byte offsets of the captured value in the source text.
	Start int
	End   int
}

// Rule is a compiled matching rule.
type Rule struct {
	Kind  constants.FieldKind
	Name  string
	re    *regexp.Regexp
	group int
}

// Find returns all matches of the rule in text, in document order.
func (r *Rule) Find(text string) []Match {
	idxs := r.re.FindAllStringSubmatchIndex(text, -1)
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Match, 0, len(idxs))
	for _, idx := range idxs {
		g := r.group
		if 2*g+1 >= len(idx) {
			g = 0
		}
		start, end := idx[2*g], idx[2*g+1]
		if start < 0 || end < 0 {
			continue
		}
		out = append(out, Match{Raw: text[start:end], Start: start, End: end})
	}
	return out
}

// Library holds the compiled rules plus the currency symbol map.
type Library struct {
	rules      map[constants.FieldKind][]*Rule
	currencyRe *regexp.Regexp
	currency   map[string]string
}

// Compile builds a Library from configuration. Any non-compiling expression
// or unknown field kind is an ErrInvalidFieldPattern: fatal at startup,
// never surfaced per-document.
func Compile(cfg *config.Config) (*Library, error) {
	lib := &Library{
		rules:    make(map[constants.FieldKind][]*Rule, len(cfg.Patterns)),
		currency: make(map[string]string, len(cfg.CurrencySymbols)),
	}

	for key, ruleCfgs := range cfg.Patterns {
		kind, ok := constants.ParseFieldKind(key)
		if !ok {
			return nil, common.NewAppError("PATTERN_ERROR",
				fmt.Sprintf("unknown field kind %q", key), common.ErrInvalidFieldPattern)
		}
		compiled := make([]*Rule, 0, len(ruleCfgs))
		for _, rc := range ruleCfgs {
			re, err := regexp.Compile(rc.Expr)
			if err != nil {
				return nil, common.NewAppError("PATTERN_ERROR",
					fmt.Sprintf("%s/%s: %v", key, rc.Name, err), common.ErrInvalidFieldPattern)
			}
			if rc.Group < 0 || rc.Group > re.NumSubexp() {
				return nil, common.NewAppError("PATTERN_ERROR",
					fmt.Sprintf("%s/%s: capture group %d out of range", key, rc.Name, rc.Group),
					common.ErrInvalidFieldPattern)
			}
			compiled = append(compiled, &Rule{Kind: kind, Name: rc.Name, re: re, group: rc.Group})
		}
		lib.rules[kind] = compiled
	}

	if err := lib.compileCurrency(cfg.CurrencySymbols); err != nil {
		return nil, err
	}
	return lib, nil
}

// Rules returns the ordered rule list for a field kind.
func (l *Library) Rules(kind constants.FieldKind) []*Rule {
	return l.rules[kind]
}

// FindCurrency scans text for the earliest currency symbol or ISO code and
// returns its mapped code. Independent of whatever rule matched the amount.
func (l *Library) FindCurrency(text string) (code string, m Match, ok bool) {
	if l.currencyRe == nil {
		return "", Match{}, false
	}
	idx := l.currencyRe.FindStringIndex(text)
	if idx == nil {
		return "", Match{}, false
	}
	raw := text[idx[0]:idx[1]]
	code, ok = l.currency[raw]
	if !ok {
		code, ok = l.currency[strings.ToUpper(raw)]
	}
	return code, Match{Raw: raw, Start: idx[0], End: idx[1]}, ok
}

func (l *Library) compileCurrency(symbols map[string]string) error {
	if len(symbols) == 0 {
		return nil
	}
	keys := make([]string, 0, len(symbols))
	for sym, code := range symbols {
		l.currency[sym] = code
		keys = append(keys, sym)
	}
	// Longest-first so multi-rune symbols win over their prefixes.
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	parts := make([]string, 0, len(keys))
	for _, sym := range keys {
		q := regexp.QuoteMeta(sym)
		if isWordy(sym) {
			// ISO codes only match as standalone words.
			q = `\b` + q + `\b`
		}
		parts = append(parts, q)
	}
	re, err := regexp.Compile(strings.Join(parts, "|"))
	if err != nil {
		return common.NewAppError("PATTERN_ERROR", "currency symbol map", common.ErrInvalidFieldPattern)
	}
	l.currencyRe = re
	return nil
}

func isWordy(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return len(s) > 0
}
