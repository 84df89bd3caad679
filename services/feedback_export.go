package services

import (
	"bytes"
	"contact_flow_app_go/models"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// XLSXContentType is the MIME type of generated spreadsheets
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const exportSheet = "Feedback"

var exportHeaders = []string{"ID", "Nome", "Email", "Telefone", "Assunto", "Mensagem", "Status", "Mensagens", "Criado em", "Atualizado em"}

// ExportFeedbackXLSX renders the tickets matching filter as a spreadsheet,
// one row per ticket with its message count.
func ExportFeedbackXLSX(ctx context.Context, dbConn *gorm.DB, filter FeedbackFilter) (*bytes.Buffer, error) {
	svc := &FeedbackService{db: dbConn}
	items, _, err := svc.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	counts, err := messageCounts(ctx, dbConn, items)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, header)
	}
	f.SetCellStyle(exportSheet, "A1", "J1", headerStyle)
	f.SetColWidth(exportSheet, "B", "F", 24)
	f.SetColWidth(exportSheet, "I", "J", 20)

	for i, item := range items {
		row := i + 2
		values := []interface{}{
			item.ID,
			item.Name,
			item.Email,
			item.Phone,
			item.Subject,
			item.Message,
			item.Status,
			counts[item.ID],
			item.CreatedAt.Format("2006-01-02 15:04"),
			item.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf, nil
}

func messageCounts(ctx context.Context, dbConn *gorm.DB, items []models.Feedback) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(items))
	if len(items) == 0 {
		return counts, nil
	}

	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	var rows []struct {
		FeedbackID uint
		Total      int64
	}
	err := dbConn.WithContext(ctx).Model(&models.ChatMessage{}).
		Select("feedback_id, COUNT(*) AS total").
		Where("feedback_id IN ?", ids).
		Group("feedback_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	for _, r := range rows {
		counts[r.FeedbackID] = r.Total
	}
	return counts, nil
}
