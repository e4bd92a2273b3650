// Package export produces XLSX review reports from batch outcomes.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Farfive/expenseflow-pro-sub007/constants"
	"github.com/Farfive/expenseflow-pro-sub007/internal/pipeline"
)

// Service renders batch outcomes into an XLSX workbook, one row per document.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ReportXLSX returns the workbook bytes. Failed documents still get a row so
// the report accounts for every input.
func (s *Service) ReportXLSX(outcomes []pipeline.Outcome) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Documents"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Source",
		"Document ID",
		"Vendor",
		"Amount",
		"Currency",
		"Date",
		"Tax ID",
		"VAT Amount",
		"Account Number",
		"Overall Confidence",
		"Requires Review",
		"Review Reasons",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, oc := range outcomes {
		row := rowIdx + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, oc.Source)
		if oc.Err != nil {
			write(13, oc.Err.Error())
			continue
		}

		res := oc.Result
		write(2, res.DocumentID.String())
		write(3, fieldText(res, constants.Vendor))
		write(4, amountText(res, constants.Amount))
		write(5, fieldText(res, constants.Currency))
		write(6, dateText(res))
		write(7, fieldText(res, constants.TaxID))
		write(8, amountText(res, constants.VATAmount))
		write(9, fieldText(res, constants.AccountNumber))
		write(10, fmt.Sprintf("%.3f", res.Overall))
		write(11, res.RequiresReview)
		write(12, strings.Join(res.ReviewReasons, "; "))
	}

	_ = f.SetColWidth(sheet, "A", "A", 40)
	_ = f.SetColWidth(sheet, "B", "B", 38)
	_ = f.SetColWidth(sheet, "C", "C", 28)
	_ = f.SetColWidth(sheet, "D", "I", 16)
	_ = f.SetColWidth(sheet, "J", "K", 18)
	_ = f.SetColWidth(sheet, "L", "M", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(outcomes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func fieldText(res pipeline.Result, kind constants.FieldKind) string {
	if text, ok := res.Fields[kind].Text(); ok {
		return text
	}
	return ""
}

func amountText(res pipeline.Result, kind constants.FieldKind) string {
	if d, ok := res.Fields[kind].Decimal(); ok {
		return d.StringFixed(2)
	}
	return ""
}

func dateText(res pipeline.Result) string {
	if t, ok := res.Fields[constants.TxDate].Date(); ok {
		return t.Format("2006-01-02")
	}
	return ""
}
