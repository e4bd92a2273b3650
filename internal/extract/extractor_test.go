package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Farfive/expenseflow-pro-sub007/constants"
	"github.com/Farfive/expenseflow-pro-sub007/internal/config"
	"github.com/Farfive/expenseflow-pro-sub007/internal/patterns"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	lib, err := patterns.Compile(config.Default())
	require.NoError(t, err)
	return NewExtractor(lib, nil)
}

func TestExtractReturnsEveryKind(t *testing.T) {
	ex := newTestExtractor(t)

	fields := ex.Extract("nothing interesting here 123")
	require.Len(t, fields, len(constants.AllFieldKinds()))
	for kind, f := range fields {
		assert.Equal(t, kind, f.Kind)
	}

	// no currency-shaped substring: null, not zero dollars
	assert.False(t, fields[constants.Amount].HasValue())
}

func TestExtractAmountKeepsLargest(t *testing.T) {
	ex := newTestExtractor(t)

	fields := ex.Extract("Subtotal: 10.00\nTax: 2.30\nTotal: 12.30")
	f := fields[constants.Amount]
	require.True(t, f.HasValue())
	d, ok := f.Decimal()
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("12.30")), "got %s", d)
	assert.Equal(t, "total_keyword", f.Rule)
}

func TestExtractCurrencyIndependentOfAmount(t *testing.T) {
	ex := newTestExtractor(t)

	fields := ex.Extract("Total: $125.50")
	code, ok := fields[constants.Currency].Text()
	require.True(t, ok)
	assert.Equal(t, "USD", code)
	assert.Equal(t, "symbol_map", fields[constants.Currency].Rule)
}

func TestExtractCurrencyAbsentIsNull(t *testing.T) {
	ex := newTestExtractor(t)

	fields := ex.Extract("Total: 125.50")
	assert.False(t, fields[constants.Currency].HasValue())

	// amount still extracted without a currency
	assert.True(t, fields[constants.Amount].HasValue())
}

func TestExtractVendorFromHeaderLine(t *testing.T) {
	ex := newTestExtractor(t)

	fields := ex.Extract("ACME CORP\nTotal: $125.50\nDate: 03/15/2024")
	name, ok := fields[constants.Vendor].Text()
	require.True(t, ok)
	assert.Equal(t, "ACME CORP", name)
}

func TestExtractVendorIgnoresDocumentWords(t *testing.T) {
	ex := newTestExtractor(t)

	fields := ex.Extract("Invoice\nACME CORP\nTotal: 10.00")
	name, ok := fields[constants.Vendor].Text()
	require.True(t, ok)
	assert.Equal(t, "ACME CORP", name)
}

func TestExtractVendorOutsideLeadingLinesIsNull(t *testing.T) {
	ex := newTestExtractor(t)

	fields := ex.Extract("1234\n5678\n9012\n3456\n7890\nACME CORP")
	f := fields[constants.Vendor]
	assert.False(t, f.HasValue())
	assert.Equal(t, "ACME CORP", f.RawMatch)
}

func TestExtractDateParsesFirstValid(t *testing.T) {
	ex := newTestExtractor(t)

	fields := ex.Extract("Date: 03/15/2024\nDue: 04/20/2024")
	f := fields[constants.TxDate]
	require.True(t, f.HasValue())
	d, ok := f.Date()
	require.True(t, ok)
	assert.Equal(t, "2024-03-15", d.Format("2006-01-02"))
}

func TestExtractDateMatchedButInvalid(t *testing.T) {
	ex := newTestExtractor(t)

	fields := ex.Extract("Date: 99/99/2024")
	f := fields[constants.TxDate]
	assert.False(t, f.HasValue())
	assert.Equal(t, "99/99/2024", f.RawMatch)
}

func TestExtractTaxID(t *testing.T) {
	ex := newTestExtractor(t)

	fields := ex.Extract("Tax ID: 12-3456789")
	id, ok := fields[constants.TaxID].Text()
	require.True(t, ok)
	assert.Equal(t, "12-3456789", id)
}

func TestExtractVATAndTotalCoexist(t *testing.T) {
	ex := newTestExtractor(t)

	fields := ex.Extract("VAT 20%: 25.00\nTotal: 150.00")

	vat, ok := fields[constants.VATAmount].Decimal()
	require.True(t, ok)
	assert.True(t, vat.Equal(decimal.RequireFromString("25.00")), "got %s", vat)

	total, ok := fields[constants.Amount].Decimal()
	require.True(t, ok)
	assert.True(t, total.Equal(decimal.RequireFromString("150.00")), "got %s", total)
}

func TestExtractAccountNumberIBAN(t *testing.T) {
	ex := newTestExtractor(t)

	fields := ex.Extract("IBAN: DE89370400440532013000")
	acct, ok := fields[constants.AccountNumber].Text()
	require.True(t, ok)
	assert.Equal(t, "DE89370400440532013000", acct)
}
