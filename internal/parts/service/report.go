package service

import (
	"fmt"
	"time"

	"github.com/MOE349/tenmil-backend/internal/parts/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var movementExportHeaders = []string{
	"时间", "零件号", "零件名称", "类型", "数量变化", "批次", "源库位", "目标库位", "工单", "单价", "金额", "操作人", "备注",
}

// ExportMovements 导出台账为xlsx
func (s *InventoryService) ExportMovements(filter repository.MovementFilter) (*excelize.File, string, error) {
	movements, err := s.moves.List(filter)
	if err != nil {
		return nil, "", fmt.Errorf("list movements: %w", err)
	}

	f := excelize.NewFile()
	sheet := "台账"
	f.SetSheetName("Sheet1", sheet)

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	// 写入表头
	for i, h := range movementExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	// 写入数据行
	totalValue := decimal.Zero
	var netDelta int64
	for rowIdx, m := range movements {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.CreatedAt.Format("2006-01-02 15:04:05"))
		if m.Part != nil {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Part.PartNumber)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Part.Name)
		}
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.MovementType)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), m.QtyDelta)
		if m.BatchID != nil {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), *m.BatchID)
		}
		if m.FromLocation != nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), m.FromLocation.Name)
		}
		if m.ToLocation != nil {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), m.ToLocation.Name)
		}
		if m.WorkOrder != nil {
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), m.WorkOrder.Code)
		}
		if m.Batch != nil {
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), m.Batch.UnitCost.InexactFloat64())
			lineValue := m.Batch.UnitCost.Mul(decimal.NewFromInt(m.QtyDelta))
			f.SetCellValue(sheet, fmt.Sprintf("K%d", row), lineValue.InexactFloat64())
			totalValue = totalValue.Add(lineValue)
		}
		f.SetCellValue(sheet, fmt.Sprintf("L%d", row), m.CreatedBy)
		f.SetCellValue(sheet, fmt.Sprintf("M%d", row), m.Notes)
		netDelta += m.QtyDelta
	}

	// 底部汇总行
	summaryRow := len(movements) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "汇总")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("总记录数: %d", len(movements)))
	f.SetCellValue(sheet, fmt.Sprintf("E%d", summaryRow), netDelta)
	f.SetCellValue(sheet, fmt.Sprintf("K%d", summaryRow), totalValue.InexactFloat64())
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("M%d", summaryRow), summaryStyle)

	// 列宽
	colWidths := []float64{20, 16, 20, 12, 10, 38, 14, 14, 14, 10, 12, 12, 24}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("movements_%s.xlsx", time.Now().Format("20060102_150405"))
	return f, filename, nil
}
