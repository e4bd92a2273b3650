package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Farfive/expenseflow-pro-sub007/constants"
	"github.com/Farfive/expenseflow-pro-sub007/internal/extract"
	"github.com/Farfive/expenseflow-pro-sub007/internal/pipeline"
)

func sampleResult() pipeline.Result {
	fields := map[constants.FieldKind]extract.Field{}
	for _, kind := range constants.AllFieldKinds() {
		fields[kind] = extract.Field{Kind: kind}
	}
	fields[constants.Vendor] = extract.Field{Kind: constants.Vendor, Value: "ACME CORP"}
	fields[constants.Amount] = extract.Field{Kind: constants.Amount, Value: decimal.RequireFromString("125.5")}
	fields[constants.Currency] = extract.Field{Kind: constants.Currency, Value: "USD"}
	fields[constants.TxDate] = extract.Field{Kind: constants.TxDate, Value: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)}

	return pipeline.Result{
		DocumentID:     uuid.New(),
		Source:         "receipt-1.png",
		Fields:         fields,
		Overall:        0.9824,
		RequiresReview: false,
	}
}

func TestReportXLSX(t *testing.T) {
	outcomes := []pipeline.Outcome{
		{Source: "receipt-1.png", Result: sampleResult()},
		{Source: "broken.png", Err: errors.New("unreadable image")},
	}

	data, err := NewService(nil).ReportXLSX(outcomes)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	const sheet = "Documents"

	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Source", header)

	vendor, err := f.GetCellValue(sheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "ACME CORP", vendor)

	amount, err := f.GetCellValue(sheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "125.50", amount)

	date, err := f.GetCellValue(sheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", date)

	overall, err := f.GetCellValue(sheet, "J2")
	require.NoError(t, err)
	assert.Equal(t, "0.982", overall)

	// failed documents still get a row
	src, err := f.GetCellValue(sheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "broken.png", src)

	msg, err := f.GetCellValue(sheet, "M3")
	require.NoError(t, err)
	assert.Equal(t, "unreadable image", msg)
}

func TestReportXLSXEmptyBatch(t *testing.T) {
	data, err := NewService(nil).ReportXLSX(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
