// Package export renders reservation reports as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/locofvijay/room-reservation-service/internal/models"
)

const sheetName = "Reservations"

var columns = []string{
	"Reservation ID",
	"Customer",
	"Room",
	"Segment",
	"Check-in",
	"Check-out",
	"Payment mode",
	"Amount",
	"Currency",
	"Status",
}

// WriteReport renders the reservations into an xlsx workbook and streams it
// to w. Rows keep the order the caller passed in.
func WriteReport(w io.Writer, startDate, endDate time.Time, reservations []*models.Reservation) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	// Заголовок периода
	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Период: %s - %s",
		startDate.Format("02.01.2006"), endDate.Format("02.01.2006")))

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, title := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, title)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, r := range reservations {
		row := rowIdx + 3
		values := []any{
			r.ID,
			r.CustomerName,
			r.RoomNumber,
			r.RoomSegment,
			r.StartDate.Format(models.DateLayout),
			r.EndDate.Format(models.DateLayout),
			r.PaymentMode,
			r.Amount.String(),
			r.Currency,
			r.Status,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 14)
	_ = f.SetColWidth(sheetName, "B", lastCol, 18)

	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %v", err)
	}
	return nil
}

// FileName builds the attachment name for a report over the given period.
func FileName(startDate, endDate time.Time) string {
	return fmt.Sprintf("reservations_%s_to_%s.xlsx",
		startDate.Format(models.DateLayout), endDate.Format(models.DateLayout))
}
