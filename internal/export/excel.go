// Package export renders schedule history into spreadsheets for operators.
// Workbooks are streamed to the caller and never written to disk.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Lion-killer/FiatLux/internal/models"
)

const historySheet = "History"

var historyColumns = []string{
	"Schedule ID",
	"Date",
	"Type",
	"Published At",
	"Archived",
	"Queue",
	"Time Slots",
	"Outage Hours",
}

// HistoryWorkbook builds a workbook with one row per queue of every schedule,
// newest first in the order given. Outage hours are computed with the
// end-of-day rule applied, so a slot ending at 00:00 counts to 23:59:59.
func HistoryWorkbook(schedules []models.Schedule) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", historySheet)

	if err := writeHeader(f); err != nil {
		return nil, err
	}

	row := 2
	for _, s := range schedules {
		for _, q := range s.Queues {
			values := []interface{}{
				s.ID,
				s.Date.Format("2006-01-02"),
				string(s.Type),
				s.PublishedAt.Format("2006-01-02 15:04"),
				s.Archived,
				q.Description,
				formatSlots(q.TimeSlots),
				outageHours(q, s),
			}
			if err := writeRow(f, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}

	return f, nil
}

// WriteHistory builds the workbook and streams it to w.
func WriteHistory(w io.Writer, schedules []models.Schedule) error {
	f, err := HistoryWorkbook(schedules)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeHeader(f *excelize.File) error {
	if err := writeRow(f, 1, toRow(historyColumns)); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil
	}
	startCell, _ := excelize.CoordinatesToCellName(1, 1)
	endCell, _ := excelize.CoordinatesToCellName(len(historyColumns), 1)
	_ = f.SetCellStyle(historySheet, startCell, endCell, style)
	return nil
}

func writeRow(f *excelize.File, row int, values []interface{}) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(historySheet, cell, val); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

func toRow(columns []string) []interface{} {
	row := make([]interface{}, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	return row
}

func formatSlots(slots []models.TimeSlot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = s.Start + "–" + s.End
	}
	return strings.Join(parts, ", ")
}

func outageHours(q models.QueueInfo, s models.Schedule) float64 {
	var total float64
	for _, slot := range q.TimeSlots {
		total += slot.Duration(s.Date).Hours()
	}
	return total
}
