// Package report renders events as spreadsheets.
package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Events"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateFormat  = "2006-01-02"
)

// Header is the first row of an exported sheet.
var Header = []any{"ID", "Title", "Date", "Sender", "Division", "Recipient", "Status", "Rejection reason", "Attachments"}

func NewExporter(logger *slog.Logger) *Exporter {
	return &Exporter{logger: logger}
}

type Exporter struct {
	logger *slog.Logger
}

// Export returns an xlsx workbook holding one row per event. Events are expected to have their
// participants loaded, missing ones are left blank.
func (e *Exporter) Export(ctx context.Context, events []model.Event) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.WarnContext(ctx, "Failed to close workbook", "error", err)
		}
	}()

	err := f.SetSheetName(f.GetSheetName(0), SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to name sheet: %v", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %v", err)
	}

	err = f.SetSheetRow(SheetName, "A1", &Header)
	if err != nil {
		return nil, fmt.Errorf("failed to write header: %v", err)
	}

	last, err := excelize.CoordinatesToCellName(len(Header), 1)
	if err != nil {
		return nil, err
	}
	err = f.SetCellStyle(SheetName, "A1", last, style)
	if err != nil {
		return nil, fmt.Errorf("failed to style header: %v", err)
	}

	for i, event := range events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		row := eventRow(event)
		err = f.SetSheetRow(SheetName, cell, &row)
		if err != nil {
			return nil, fmt.Errorf("failed to write event %d: %v", event.ID, err)
		}
	}

	err = f.SetColWidth(SheetName, "B", "B", 40)
	if err != nil {
		return nil, fmt.Errorf("failed to size columns: %v", err)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %v", err)
	}

	e.logger.DebugContext(ctx, "Exported events", "count", len(events))

	return buffer.Bytes(), nil
}

func eventRow(event model.Event) []any {
	var sender, division, recipient, reason string
	if event.FromUser != nil {
		sender = event.FromUser.Username
	}
	if event.ToDivision != nil {
		division = event.ToDivision.Name
	}
	if event.ToPerson != nil {
		recipient = event.ToPerson.Username
	}
	if event.RejectionReason != nil {
		reason = *event.RejectionReason
	}

	return []any{
		event.ID,
		event.Title,
		event.Date.Format(dateFormat),
		sender,
		division,
		recipient,
		string(event.Status),
		reason,
		len(event.EventFileURLs),
	}
}
