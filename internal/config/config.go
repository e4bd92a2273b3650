// Package config carries the externally supplied, versionable configuration
// surface of the extraction engine: the field pattern library, currency
// symbol map, scoring floor, confidence weight table, and review thresholds.
// Operators tune these without code changes; defaults ship in code and pass
// the same validation as external files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/Farfive/expenseflow-pro-sub007/constants"
	"github.com/Farfive/expenseflow-pro-sub007/internal/common"
)

// PatternRule is one matching rule for a field kind. Rules are evaluated in
// list order; the first rule with at least one match wins for its field.
type PatternRule struct {
	Name  string `json:"name"`
	Expr  string `json:"expr"`
	Group int    `json:"group,omitempty"` // capture group holding the value; 0 = whole match
}

// Thresholds drive the review-routing decision.
type Thresholds struct {
	// Document is the overall-confidence floor for auto-accept.
	Document float64 `json:"document"`
	// Fields maps field kind -> per-field minimum score. A present field
	// scoring below its threshold forces review.
	Fields map[string]float64 `json:"fields"`
}

// Scoring holds the tunable parts of the confidence scorer.
type Scoring struct {
	// Floor is the base score a field earns just by having a value.
	Floor float64 `json:"floor"`
}

// Config is the full engine configuration.
type Config struct {
	Patterns        map[string][]PatternRule `json:"patterns"`
	CurrencySymbols map[string]string        `json:"currency_symbols"`
	Scoring         Scoring                  `json:"scoring"`
	Weights         map[string]float64       `json:"weights"`
	Thresholds      Thresholds               `json:"thresholds"`
}

// Default returns the built-in configuration. Amount, TransactionDate and
// Vendor carry the weight; TaxId/VatAmount/AccountNumber are optional,
// jurisdiction-dependent extras.
func Default() *Config {
	return &Config{
		Patterns: map[string][]PatternRule{
			string(constants.Amount): {
				{
					Name:  "total_keyword",
					Expr:  `(?im)(?:grand\s+total|total\s+due|amount\s+due|balance\s+due|sub\s?-?total|total|amount|summe|suma|sum)\s*[:=]?\s*(?:[A-Z]{3}\s*)?([$£€¥]?\s?-?\d{1,3}(?:[.,\s]\d{3})*(?:[.,]\d{1,2})?)`,
					Group: 1,
				},
				{
					Name:  "currency_adjacent",
					Expr:  `([$£€¥]\s?\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{1,2})?)`,
					Group: 1,
				},
				{
					Name:  "bare_decimal",
					Expr:  `\b(\d{1,3}(?:,\d{3})*\.\d{2})\b`,
					Group: 1,
				},
			},
			string(constants.TxDate): {
				{
					Name:  "date_keyword",
					Expr:  `(?im)(?:invoice\s+date|transaction\s+date|issued?(?:\s+on)?|dated?|fecha|datum)\s*[:.]?\s*(\d{4}[-/.]\d{1,2}[-/.]\d{1,2}|\d{1,2}[-/.]\d{1,2}[-/.]\d{4}|\d{1,2}\s+(?:de\s+)?[A-Za-zÀ-ÿ]{3,}\.?,?\s+(?:de\s+)?\d{4}|[A-Za-z]{3,}\.?\s+\d{1,2},?\s+\d{4})`,
					Group: 1,
				},
				{
					Name:  "iso",
					Expr:  `\b(\d{4}-\d{2}-\d{2})\b`,
					Group: 1,
				},
				{
					Name:  "numeric",
					Expr:  `\b(\d{1,2}[-/.]\d{1,2}[-/.]\d{4})\b`,
					Group: 1,
				},
				{
					Name:  "long_form",
					Expr:  `(?i)\b(\d{1,2}\s+(?:de\s+)?[A-Za-zÀ-ÿ]{3,}\.?,?\s+(?:de\s+)?\d{4}|[A-Za-z]{3,}\.?\s+\d{1,2},?\s+\d{4})\b`,
					Group: 1,
				},
			},
			string(constants.Vendor): {
				{
					Name:  "vendor_keyword",
					Expr:  `(?im)^(?:vendor|merchant|supplier|sold\s+by|billed\s+by|from)\s*[:]\s*(\S[^\n]{1,59})$`,
					Group: 1,
				},
				{
					// Candidate header lines; the extractor keeps the first
					// plausible one inside the leading lines of the text.
					Name:  "header_line",
					Expr:  `(?m)^[ \t]*([A-ZÀ-Þ][A-Za-zÀ-ÿ0-9&'.,\- ]{2,59})[ \t]*$`,
					Group: 1,
				},
			},
			string(constants.TaxID): {
				{
					Name:  "tax_keyword",
					Expr:  `(?im)(?:tax\s*id|tax\s*no|tin|ein|vat\s*(?:reg(?:istration)?|no|number|id)|nip|rfc|abn)\s*[:.#]?\s*([A-Z]{0,3}[\d][\d\- ]{6,13}[\d])`,
					Group: 1,
				},
				{
					Name:  "ein_shape",
					Expr:  `\b(\d{2}-\d{7})\b`,
					Group: 1,
				},
				{
					Name:  "eu_vat_shape",
					Expr:  `\b([A-Z]{2}\d{8,12})\b`,
					Group: 1,
				},
			},
			string(constants.VATAmount): {
				{
					Name:  "vat_keyword",
					Expr:  `(?im)(?:vat|itbis|iva|mwst|gst|sales\s+tax|tax)\s*(?:\(?\d{1,2}(?:[.,]\d{1,2})?\s*%\)?)?\s*[:=]?\s*([$£€¥]?\s?\d{1,3}(?:[.,]\d{3})*[.,]\d{1,2})`,
					Group: 1,
				},
			},
			string(constants.AccountNumber): {
				{
					Name:  "account_keyword",
					Expr:  `(?im)(?:account\s*(?:no|number|#)?|acct\s*(?:no|#)?|iban|routing\s*(?:no|number)?)\s*[:.#]?\s*([A-Z]{2}\d{2}[A-Z0-9]{10,30}|\d[\d\- ]{6,24}\d)`,
					Group: 1,
				},
				{
					Name:  "iban_shape",
					Expr:  `\b([A-Z]{2}\d{2}[A-Z0-9]{11,30})\b`,
					Group: 1,
				},
			},
		},
		CurrencySymbols: map[string]string{
			"$":   "USD",
			"£":   "GBP",
			"€":   "EUR",
			"¥":   "JPY",
			"₹":   "INR",
			"zł":  "PLN",
			"USD": "USD",
			"EUR": "EUR",
			"GBP": "GBP",
			"CAD": "CAD",
			"AUD": "AUD",
			"PLN": "PLN",
			"CHF": "CHF",
			"JPY": "JPY",
			"INR": "INR",
		},
		Scoring: Scoring{Floor: 0.3},
		Weights: map[string]float64{
			string(constants.Amount):        0.30,
			string(constants.TxDate):        0.25,
			string(constants.Vendor):        0.25,
			string(constants.Currency):      0.05,
			string(constants.TaxID):         0.05,
			string(constants.VATAmount):     0.05,
			string(constants.AccountNumber): 0.05,
		},
		Thresholds: Thresholds{
			Document: 0.60,
			Fields: map[string]float64{
				string(constants.Amount):        0.40,
				string(constants.TxDate):        0.40,
				string(constants.Vendor):        0.40,
				string(constants.Currency):      0.30,
				string(constants.TaxID):         0.35,
				string(constants.VATAmount):     0.35,
				string(constants.AccountNumber): 0.35,
			},
		},
	}
}

// Load reads an engine configuration from a JSON or YAML file and validates
// it against the embedded schema. Schema or key errors surface as
// ErrInvalidFieldPattern-class failures at startup, never per-document.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	jsonBytes := raw
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, common.NewAppError("CONFIG_ERROR", "decode yaml config", err)
		}
		jsonBytes, err = json.Marshal(doc)
		if err != nil {
			return nil, common.NewAppError("CONFIG_ERROR", "convert yaml config", err)
		}
	}

	if err := validateSchema(jsonBytes); err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(jsonBytes, &cfg); err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "decode config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks key-level consistency: every map key must name a known
// field kind and numeric knobs must stay in range. Pattern expressions are
// compiled (and rejected) separately by the patterns package.
func (c *Config) Validate() error {
	for key := range c.Patterns {
		if _, ok := constants.ParseFieldKind(key); !ok {
			return common.NewAppError("CONFIG_ERROR",
				fmt.Sprintf("patterns: unknown field kind %q", key), common.ErrInvalidFieldPattern)
		}
	}
	for key := range c.Weights {
		if _, ok := constants.ParseFieldKind(key); !ok {
			return common.NewAppError("CONFIG_ERROR",
				fmt.Sprintf("weights: unknown field kind %q", key), common.ErrInvalidFieldPattern)
		}
	}
	for key := range c.Thresholds.Fields {
		if _, ok := constants.ParseFieldKind(key); !ok {
			return common.NewAppError("CONFIG_ERROR",
				fmt.Sprintf("thresholds: unknown field kind %q", key), common.ErrInvalidFieldPattern)
		}
	}
	if c.Scoring.Floor < 0 || c.Scoring.Floor > 1 {
		return common.NewAppError("CONFIG_ERROR", "scoring.floor must be within [0,1]", common.ErrInvalidFieldPattern)
	}
	if c.Thresholds.Document < 0 || c.Thresholds.Document > 1 {
		return common.NewAppError("CONFIG_ERROR", "thresholds.document must be within [0,1]", common.ErrInvalidFieldPattern)
	}
	return nil
}

// Weight returns the aggregation weight for a field kind (0 when absent).
func (c *Config) Weight(kind constants.FieldKind) float64 {
	return c.Weights[string(kind)]
}

// FieldThreshold returns the per-field review threshold for a kind.
func (c *Config) FieldThreshold(kind constants.FieldKind) float64 {
	return c.Thresholds.Fields[string(kind)]
}
