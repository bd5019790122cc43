package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/billed/internal/domain/entity"
)

// SheetName is the worksheet holding the exported bills
const SheetName = "Notes de frais"

var header = []string{"Type", "Nom", "Date", "Montant", "TVA", "%", "Statut", "Commentaire", "Justificatif"}

// BillExporter writes bills to an Excel workbook
type BillExporter struct {
	logger *zap.Logger
}

// NewBillExporter creates a new bill exporter
func NewBillExporter(logger *zap.Logger) *BillExporter {
	return &BillExporter{logger: logger}
}

// Write renders bills most recent first into a workbook written to w
func (e *BillExporter) Write(w io.Writer, bills []entity.Bill) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, title := range header {
		e.setCell(f, col+1, 1, title)
	}

	for i, bill := range entity.SortByDateDesc(bills) {
		row := i + 2
		e.setCell(f, 1, row, bill.Type)
		e.setCell(f, 2, row, bill.Name)
		e.setCell(f, 3, row, bill.Date)
		e.setCell(f, 4, row, bill.Amount)
		e.setCell(f, 5, row, bill.VAT)
		e.setCell(f, 6, row, bill.Pct)
		e.setCell(f, 7, row, bill.Status.Label())
		e.setCell(f, 8, row, bill.Commentary)
		e.setCell(f, 9, row, bill.FileName)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Debug("Bills exported", zap.Int("count", len(bills)))
	return nil
}

func (e *BillExporter) setCell(f *excelize.File, col, row int, value interface{}) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		e.logger.Warn("Invalid cell coordinates", zap.Int("col", col), zap.Int("row", row), zap.Error(err))
		return
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}
